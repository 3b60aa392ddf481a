// Package plot renders analysis results as an interactive 3D scatter (HTML)
// and a static 2D scatter (PNG).
package plot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrUnknownColumn is returned when a requested column is not in the results header.
var ErrUnknownColumn = errors.New("unknown column")

// Results is a results table read back from CSV.
type Results struct {
	Header []string
	Rows   []map[string]string
}

// ReadResults reads a results CSV file.
func ReadResults(path string) (*Results, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results: %w", err)
	}
	defer f.Close()

	res, err := ParseResults(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// ParseResults reads results CSV data. A leading byte order mark is ignored.
func ParseResults(r io.Reader) (*Results, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse results: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("failed to parse results: empty file")
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	res := &Results{Header: header}
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// HasColumn reports whether the header contains a column.
func (r *Results) HasColumn(name string) bool {
	for _, c := range r.Header {
		if c == name {
			return true
		}
	}
	return false
}

// Float returns the numeric value of a cell. Empty or non-numeric cells are NaN.
func Float(row map[string]string, column string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(row[column]), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Categories returns the distinct values of a column in first-seen order.
func (r *Results) Categories(column string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range r.Rows {
		c := row[column]
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
