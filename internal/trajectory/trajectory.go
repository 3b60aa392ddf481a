// Package trajectory holds per-frame landmark trajectories and the
// cleaning steps applied to them before zone analysis.
package trajectory

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// ErrNotTwoColumn is returned when a trajectory row does not hold exactly x and y.
var ErrNotTwoColumn = errors.New("trajectory must have two columns: x and y")

// ErrLengthMismatch is returned when axis series of different lengths are paired.
var ErrLengthMismatch = errors.New("axis series have different lengths")

// Trajectory is an ordered list of per-frame rows. A well-formed trajectory
// has exactly two columns (x, y) in every row; NaN marks a tracking gap.
type Trajectory [][]float64

// FromAxes pairs an x series and a y series into a trajectory.
func FromAxes(xs, ys []float64) (Trajectory, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: x=%d y=%d", ErrLengthMismatch, len(xs), len(ys))
	}

	tr := make(Trajectory, len(xs))
	for i := range xs {
		tr[i] = []float64{xs[i], ys[i]}
	}
	return tr, nil
}

// FromPoints builds a trajectory from points.
func FromPoints(points []r2.Point) Trajectory {
	tr := make(Trajectory, len(points))
	for i, p := range points {
		tr[i] = []float64{p.X, p.Y}
	}
	return tr
}

// Len returns the number of frames.
func (tr Trajectory) Len() int {
	return len(tr)
}

// Points validates the two-column shape and returns one point per frame.
func (tr Trajectory) Points() ([]r2.Point, error) {
	points := make([]r2.Point, len(tr))
	for i, row := range tr {
		if len(row) != 2 {
			return nil, fmt.Errorf("%w: frame %d has %d columns", ErrNotTwoColumn, i, len(row))
		}
		points[i] = r2.Point{X: row[0], Y: row[1]}
	}
	return points, nil
}

// HasGaps reports whether any coordinate is NaN.
func (tr Trajectory) HasGaps() bool {
	for _, row := range tr {
		for _, v := range row {
			if math.IsNaN(v) {
				return true
			}
		}
	}
	return false
}

// Interpolate returns a copy of tr with gaps filled column by column.
// A trajectory without gaps is returned unchanged.
func Interpolate(tr Trajectory) Trajectory {
	if !tr.HasGaps() {
		return tr
	}

	width := 0
	for _, row := range tr {
		if len(row) > width {
			width = len(row)
		}
	}

	out := make(Trajectory, len(tr))
	for i, row := range tr {
		out[i] = append([]float64(nil), row...)
	}

	for col := 0; col < width; col++ {
		series := make([]float64, len(out))
		for i, row := range out {
			if col < len(row) {
				series[i] = row[col]
			} else {
				series[i] = math.NaN()
			}
		}

		InterpolateSeries(series)

		for i, row := range out {
			if col < len(row) {
				row[col] = series[i]
			}
		}
	}

	return out
}

// InterpolateSeries fills NaN runs in place, in the forward direction only:
// interior gaps are filled linearly between the surrounding samples,
// trailing gaps hold the last valid sample, and leading gaps stay NaN.
func InterpolateSeries(series []float64) {
	last := -1
	for i, v := range series {
		if math.IsNaN(v) {
			continue
		}
		if last >= 0 && i-last > 1 {
			start, end := series[last], v
			span := float64(i - last)
			for k := last + 1; k < i; k++ {
				frac := float64(k-last) / span
				series[k] = start + (end-start)*frac
			}
		}
		last = i
	}

	if last >= 0 {
		for k := last + 1; k < len(series); k++ {
			series[k] = series[last]
		}
	}
}
