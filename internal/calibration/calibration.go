// Package calibration derives the physical size of a pixel from two reference
// points a known distance apart.
package calibration

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/madmaxpython/DeepOF-SIT/internal/geometry"
)

var (
	// ErrCoincidentPoints is returned when both reference points are the same pixel.
	ErrCoincidentPoints = errors.New("reference points coincide")
	// ErrInvalidDistance is returned for a known distance that is not a positive number.
	ErrInvalidDistance = errors.New("known distance must be a positive number")
)

// PixelSize returns knownDistance / |p1 - p2|, the physical length of one pixel.
func PixelSize(p1, p2 r2.Point, knownDistance float64) (float64, error) {
	if math.IsNaN(knownDistance) || math.IsInf(knownDistance, 0) || knownDistance <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDistance, knownDistance)
	}
	if !geometry.IsFinite(p1) || !geometry.IsFinite(p2) {
		return 0, fmt.Errorf("reference points must be finite: %v, %v", p1, p2)
	}

	d := geometry.Distance(p1, p2)
	if d == 0 {
		return 0, ErrCoincidentPoints
	}
	return knownDistance / d, nil
}

// ParsePoint parses an "x,y" pair.
func ParsePoint(s string) (r2.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return r2.Point{}, fmt.Errorf("invalid point %q: expected x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return r2.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return r2.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return r2.Point{X: x, Y: y}, nil
}

// PromptDistance asks for the known distance between the reference points
// and reads one line from r.
func PromptDistance(r io.Reader, w io.Writer) (float64, error) {
	fmt.Fprint(w, "Enter the known distance between the two points: ")

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, fmt.Errorf("read distance: %w", err)
		}
		return 0, fmt.Errorf("read distance: %w", io.ErrUnexpectedEOF)
	}

	d, err := strconv.ParseFloat(strings.TrimSpace(scanner.Text()), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDistance, scanner.Text())
	}
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDistance, d)
	}
	return d, nil
}
