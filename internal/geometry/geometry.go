// Package geometry provides the planar primitives used by the SIT analysis:
// corner quads describing an arena or a social interaction zone, and a pure
// even-odd point-in-polygon predicate.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// ErrInvalidQuad is returned when a vertex list does not describe four 2D corners.
var ErrInvalidQuad = errors.New("quad must have exactly 4 vertices of 2 coordinates")

// edgeTolerance is the distance under which a point counts as lying on an edge.
const edgeTolerance = 1e-9

// Quad holds the four corners of an arena or zone in the order they are
// recorded in coordinate files: top-left, bottom-left, bottom-right, top-right.
type Quad struct {
	TopLeft     r2.Point
	BottomLeft  r2.Point
	BottomRight r2.Point
	TopRight    r2.Point
}

// NewQuad builds a Quad from a parsed vertex list.
// The list must contain exactly 4 entries of exactly 2 finite numbers each.
func NewQuad(vertices [][]float64) (Quad, error) {
	if len(vertices) != 4 {
		return Quad{}, fmt.Errorf("%w: got %d vertices", ErrInvalidQuad, len(vertices))
	}

	pts := make([]r2.Point, 4)
	for i, v := range vertices {
		if len(v) != 2 {
			return Quad{}, fmt.Errorf("%w: vertex %d has %d coordinates", ErrInvalidQuad, i, len(v))
		}
		if math.IsNaN(v[0]) || math.IsNaN(v[1]) || math.IsInf(v[0], 0) || math.IsInf(v[1], 0) {
			return Quad{}, fmt.Errorf("%w: vertex %d is not finite", ErrInvalidQuad, i)
		}
		pts[i] = r2.Point{X: v[0], Y: v[1]}
	}

	return Quad{
		TopLeft:     pts[0],
		BottomLeft:  pts[1],
		BottomRight: pts[2],
		TopRight:    pts[3],
	}, nil
}

// Vertices returns the corners in file order (top-left, bottom-left, bottom-right, top-right).
func (q Quad) Vertices() []r2.Point {
	return []r2.Point{q.TopLeft, q.BottomLeft, q.BottomRight, q.TopRight}
}

// Polygon returns the closed zone polygon wound
// bottom-left -> bottom-right -> top-right -> top-left.
func (q Quad) Polygon() Polygon {
	return Polygon{q.BottomLeft, q.BottomRight, q.TopRight, q.TopLeft}
}

// TopMidpoint returns the midpoint of the two top corners.
func (q Quad) TopMidpoint() r2.Point {
	return Midpoint(q.TopLeft, q.TopRight)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b r2.Point) r2.Point {
	return a.Add(b).Mul(0.5)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b r2.Point) float64 {
	return a.Sub(b).Norm()
}

// IsFinite reports whether both coordinates of p are finite numbers.
func IsFinite(p r2.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Polygon is an ordered vertex list. The closing edge from the last vertex
// back to the first is implicit.
type Polygon []r2.Point

// Contains reports whether p lies inside the polygon using the even-odd rule.
// Points on an edge or a vertex are inside. Points with non-finite
// coordinates are never inside.
func (poly Polygon) Contains(p r2.Point) bool {
	n := len(poly)
	if n < 3 || !IsFinite(p) {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[j], poly[i]

		if onSegment(p, a, b) {
			return true
		}

		// Half-open crossing rule so shared vertices are counted once.
		if (b.Y > p.Y) != (a.Y > p.Y) {
			xCross := (a.X-b.X)*(p.Y-b.Y)/(a.Y-b.Y) + b.X
			if p.X < xCross {
				inside = !inside
			}
		}
	}

	return inside
}

// onSegment reports whether p lies on the closed segment ab.
func onSegment(p, a, b r2.Point) bool {
	ab := b.Sub(a)
	ap := p.Sub(a)

	length := ab.Norm()
	if length == 0 {
		return ap.Norm() <= edgeTolerance
	}
	if math.Abs(ab.Cross(ap))/length > edgeTolerance {
		return false
	}

	dot := ab.Dot(ap)
	return dot >= -edgeTolerance && dot <= ab.Dot(ab)+edgeTolerance
}
