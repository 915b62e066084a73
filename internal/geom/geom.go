// Package geom provides the small set of screen-space geometry helpers used by
// the capture overlay: point distances, point-to-segment distances for hit
// testing, and the near-axis snap applied to ruler measurements.
package geom

import (
	"fmt"
	"math"
)

// SnapRatio is how many times larger one axis delta must be than the other
// before a ruler endpoint is snapped onto that axis.
const SnapRatio = 10

// Point is an integer screen-space position in pixels.
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// String returns the point as "x, y".
func (p Point) String() string {
	return fmt.Sprintf("%d, %d", p.X, p.Y)
}

// Mid returns the midpoint of p and q in floating point.
func Mid(p, q Point) (x, y float64) {
	return float64(p.X+q.X) / 2, float64(p.Y+q.Y) / 2
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y))
}

// PointToSegmentDistance returns the distance from p to the closest point of
// the segment a-b. The projection parameter is clamped to [0, 1] so points
// beyond either end measure to the nearer endpoint. A degenerate segment
// (a == b) measures to a.
func PointToSegmentDistance(p, a, b Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return Distance(p, a)
	}

	t := ((float64(p.X-a.X))*dx + (float64(p.Y-a.Y))*dy) / l2
	t = math.Max(0, math.Min(1, t))

	projX := float64(a.X) + t*dx
	projY := float64(a.Y) + t*dy
	return math.Hypot(float64(p.X)-projX, float64(p.Y)-projY)
}

// SnapAxis returns the ruler endpoint to record for a measurement from start
// towards end. With freeform set the raw end is returned. Otherwise an end
// that is almost horizontal (|dx| > SnapRatio*|dy|) is forced onto start's
// row, an end that is almost vertical is forced onto start's column, and
// anything else is left alone.
func SnapAxis(start, end Point, freeform bool) Point {
	if freeform {
		return end
	}

	dx := abs(end.X - start.X)
	dy := abs(end.Y - start.Y)
	switch {
	case dx > SnapRatio*dy:
		return Point{X: end.X, Y: start.Y}
	case dy > SnapRatio*dx:
		return Point{X: start.X, Y: end.Y}
	default:
		return end
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
