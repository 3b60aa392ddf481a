package project

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/madmaxpython/DeepOF-SIT/internal/coords"
)

// TablesDir is the project subdirectory holding pose tables.
const TablesDir = "Tables"

const utf8BOM = "\ufeff"

// Project is a tracking project read from disk.
//
// Layout:
//
//	<project>/Tables/<video>.csv   DeepLabCut three-row header (scorer, bodyparts, coords)
//
// The conditions file is a CSV whose first column is the experiment id
// (the cleaned recording name) and whose other columns are condition values.
type Project struct {
	path             string
	videos           []string
	tables           map[string]Table
	order            []string
	conditions       map[string]map[string]string
	conditionColumns []string
}

// Load reads every pose table of a project and, when conditionsPath is not
// empty, its experiment conditions. videoMarker separates the recording
// name from the tracker suffix in table file names.
func Load(projectPath, conditionsPath, videoMarker string) (*Project, error) {
	tablesDir := filepath.Join(projectPath, TablesDir)
	entries, err := os.ReadDir(tablesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables directory: %w", err)
	}

	p := &Project{
		path:       projectPath,
		tables:     make(map[string]Table),
		conditions: make(map[string]map[string]string),
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	for _, name := range files {
		video := strings.TrimSuffix(name, filepath.Ext(name))
		table, err := readTableFile(filepath.Join(tablesDir, name))
		if err != nil {
			return nil, err
		}
		key := coords.CleanName(video, videoMarker)
		p.videos = append(p.videos, video)
		if _, dup := p.tables[key]; !dup {
			p.order = append(p.order, key)
		}
		p.tables[key] = table
	}

	if conditionsPath != "" {
		if err := p.loadConditions(conditionsPath); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Path returns the project directory.
func (p *Project) Path() string { return p.path }

// Videos returns the table file names without extension, sorted.
// Coordinate files list one entry per video in this order.
func (p *Project) Videos() []string {
	return append([]string(nil), p.videos...)
}

// ConditionColumns returns the condition names in file order.
func (p *Project) ConditionColumns() []string {
	return append([]string(nil), p.conditionColumns...)
}

// Recordings implements Source. With a conditions file the order follows its
// rows; otherwise it follows the video order.
func (p *Project) Recordings() []string {
	return append([]string(nil), p.order...)
}

// Coordinates implements Source.
func (p *Project) Coordinates(recording, landmark, axis string) ([]float64, error) {
	return lookup(p.tables, recording, landmark, axis)
}

// Conditions implements Source.
func (p *Project) Conditions(recording string) (map[string]string, bool) {
	c, ok := p.conditions[recording]
	return c, ok
}

func readTableFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pose table: %w", err)
	}
	defer f.Close()

	table, err := ReadPoseTable(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read pose table %s: %w", filepath.Base(path), err)
	}
	return table, nil
}

// ReadPoseTable parses a pose table with the DeepLabCut three-row header:
//
//	scorer,<net>,<net>,...
//	bodyparts,Nose,Nose,Nose,...
//	coords,x,y,likelihood,...
//
// followed by one row per frame whose first cell is the frame index.
// Empty or non-numeric cells are read as NaN.
func ReadPoseTable(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var header [][]string
	for len(header) < 3 {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("pose table header is incomplete")
		}
		if err != nil {
			return nil, err
		}
		header = append(header, record)
	}

	bodyparts, axes := header[1], header[2]
	if len(bodyparts) != len(axes) {
		return nil, fmt.Errorf("bodyparts and coords header rows differ in length")
	}

	columns := make([]Column, len(axes))
	table := make(Table)
	for i := 1; i < len(axes); i++ {
		columns[i] = Column{
			Landmark: strings.TrimSpace(bodyparts[i]),
			Axis:     strings.ToLower(strings.TrimSpace(axes[i])),
		}
		table[columns[i]] = nil
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		for i := 1; i < len(columns); i++ {
			value := math.NaN()
			if i < len(record) {
				if v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64); err == nil {
					value = v
				}
			}
			table[columns[i]] = append(table[columns[i]], value)
		}
	}

	return table, nil
}

func (p *Project) loadConditions(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open conditions file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse conditions file: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("conditions file %s is empty", path)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	for _, name := range header[1:] {
		p.conditionColumns = append(p.conditionColumns, strings.TrimSpace(name))
	}

	p.order = p.order[:0]
	for _, record := range records[1:] {
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}
		id := strings.TrimSpace(record[0])
		values := make(map[string]string, len(p.conditionColumns))
		for i, name := range p.conditionColumns {
			if i+1 < len(record) {
				values[name] = strings.TrimSpace(record[i+1])
			}
		}
		if _, dup := p.conditions[id]; !dup {
			p.order = append(p.order, id)
		}
		p.conditions[id] = values
	}

	return nil
}
