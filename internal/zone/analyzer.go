// Package zone computes per-recording SIT metrics from a landmark trajectory:
// time spent in the social interaction zone, distance to the point of
// interest and total distance travelled.
package zone

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/madmaxpython/DeepOF-SIT/internal/geometry"
	"github.com/madmaxpython/DeepOF-SIT/internal/trajectory"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 30.0

// Analyzer holds the geometry of one recording.
type Analyzer struct {
	fps     float64
	arena   geometry.Quad
	siz     geometry.Quad
	zone    geometry.Polygon
	poi     r2.Point
	maxDist float64
}

// New creates an Analyzer for the given arena and zone corners.
// A non-positive fps falls back to DefaultFPS.
func New(arena, siz geometry.Quad, fps float64) *Analyzer {
	if fps <= 0 || math.IsNaN(fps) {
		fps = DefaultFPS
	}

	poi := arena.TopMidpoint()
	return &Analyzer{
		fps:     fps,
		arena:   arena,
		siz:     siz,
		zone:    siz.Polygon(),
		poi:     poi,
		maxDist: geometry.Distance(poi, arena.BottomLeft),
	}
}

// FPS returns the frame rate used to convert frame counts to seconds.
func (a *Analyzer) FPS() float64 { return a.fps }

// POI returns the point of interest, the midpoint of the arena top corners.
func (a *Analyzer) POI() r2.Point { return a.poi }

// MaxDistance returns the normalisation scale: distance from the POI to the
// arena bottom-left corner.
func (a *Analyzer) MaxDistance() float64 { return a.maxDist }

// Zone returns the SIZ polygon.
func (a *Analyzer) Zone() geometry.Polygon { return a.zone }

// DistanceToPOI returns the per-frame distance from each point to the POI,
// and the same distance divided by MaxDistance.
// Gap frames yield NaN in both series.
func (a *Analyzer) DistanceToPOI(tr trajectory.Trajectory) ([]float64, []float64, error) {
	points, err := tr.Points()
	if err != nil {
		return nil, nil, fmt.Errorf("distance to POI: %w", err)
	}

	distances := make([]float64, len(points))
	for i, p := range points {
		distances[i] = geometry.Distance(p, a.poi)
	}

	normalized := make([]float64, len(distances))
	copy(normalized, distances)
	floats.Scale(1/a.maxDist, normalized)

	return distances, normalized, nil
}

// TotalDistanceTraveled sums frame-to-frame step lengths, each scaled by
// pixelSize. Steps touching a gap frame are skipped.
func (a *Analyzer) TotalDistanceTraveled(tr trajectory.Trajectory, pixelSize float64) (float64, error) {
	points, err := tr.Points()
	if err != nil {
		return 0, fmt.Errorf("total distance: %w", err)
	}
	if len(points) < 2 {
		return 0, nil
	}

	steps := make([]float64, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		if !geometry.IsFinite(prev) || !geometry.IsFinite(cur) {
			continue
		}
		steps = append(steps, cur.Sub(prev).Mul(pixelSize).Norm())
	}

	return floats.Sum(steps), nil
}

// TimeInZone returns the number of frames inside the SIZ, boundary
// included, divided by the frame rate.
func (a *Analyzer) TimeInZone(tr trajectory.Trajectory) (float64, error) {
	points, err := tr.Points()
	if err != nil {
		return 0, fmt.Errorf("time in zone: %w", err)
	}

	inside := 0
	for _, p := range points {
		if a.zone.Contains(p) {
			inside++
		}
	}

	return float64(inside) / a.fps, nil
}

// FiniteMean averages the finite values of xs. It returns NaN when there are none.
func FiniteMean(xs []float64) float64 {
	finite := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			finite = append(finite, x)
		}
	}
	if len(finite) == 0 {
		return math.NaN()
	}
	return stat.Mean(finite, nil)
}
