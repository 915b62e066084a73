package geom

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-2
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		p, q Point
		want float64
	}{
		{"same point", Pt(5, 5), Pt(5, 5), 0},
		{"horizontal", Pt(0, 0), Pt(150, 0), 150},
		{"3-4-5", Pt(1, 1), Pt(4, 5), 5},
		{"negative coords", Pt(-3, 0), Pt(0, -4), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.p, tt.q); math.Abs(got-tt.want) > epsilon {
				t.Errorf("Distance(%v, %v) = %v, want %v", tt.p, tt.q, got, tt.want)
			}
		})
	}
}

func TestPointToSegmentDistance_Degenerate(t *testing.T) {
	points := []Point{Pt(0, 0), Pt(10, -4), Pt(250, 103)}
	for _, a := range points {
		if got := PointToSegmentDistance(a, a, a); got != 0 {
			t.Errorf("PointToSegmentDistance(%v, %v, %v) = %v, want 0", a, a, a, got)
		}
		p := Pt(a.X+3, a.Y+4)
		if got, want := PointToSegmentDistance(p, a, a), Distance(p, a); got != want {
			t.Errorf("degenerate segment distance = %v, want %v", got, want)
		}
	}
}

func TestPointToSegmentDistance_Clamped(t *testing.T) {
	a, b := Pt(0, 0), Pt(100, 0)

	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{"above middle", Pt(50, 10), 10},
		{"on segment", Pt(30, 0), 0},
		{"before start", Pt(-30, 40), 50},
		{"after end", Pt(130, -40), 50},
		{"collinear beyond end", Pt(120, 0), 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointToSegmentDistance(tt.p, a, b); math.Abs(got-tt.want) > epsilon {
				t.Errorf("PointToSegmentDistance(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPointToSegmentDistance_OutsideSpanEqualsEndpoint(t *testing.T) {
	a, b := Pt(10, 10), Pt(60, 60)
	outside := []Point{Pt(0, 0), Pt(-20, 5), Pt(80, 70), Pt(100, 100)}
	for _, p := range outside {
		near := math.Min(Distance(p, a), Distance(p, b))
		if got := PointToSegmentDistance(p, a, b); math.Abs(got-near) > epsilon {
			t.Errorf("PointToSegmentDistance(%v) = %v, want nearer endpoint distance %v", p, got, near)
		}
	}
}

func TestSnapAxis(t *testing.T) {
	tests := []struct {
		name     string
		start    Point
		end      Point
		freeform bool
		want     Point
	}{
		{"freeform keeps end", Pt(0, 0), Pt(100, 9), true, Pt(100, 9)},
		{"ratio above 10 snaps horizontal", Pt(0, 0), Pt(100, 9), false, Pt(100, 0)},
		{"ratio below 10 unchanged", Pt(0, 0), Pt(100, 11), false, Pt(100, 11)},
		{"exactly 10 unchanged", Pt(0, 0), Pt(100, 10), false, Pt(100, 10)},
		{"snaps vertical", Pt(50, 50), Pt(53, 250), false, Pt(50, 250)},
		{"negative direction", Pt(200, 200), Pt(40, 195), false, Pt(40, 200)},
		{"zero length", Pt(7, 7), Pt(7, 7), false, Pt(7, 7)},
		{"pure horizontal", Pt(0, 5), Pt(40, 5), false, Pt(40, 5)},
		{"diagonal unchanged", Pt(0, 0), Pt(60, 50), false, Pt(60, 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SnapAxis(tt.start, tt.end, tt.freeform); got != tt.want {
				t.Errorf("SnapAxis(%v, %v, %v) = %v, want %v", tt.start, tt.end, tt.freeform, got, tt.want)
			}
		})
	}
}

func TestSnapAxis_RulerScenario(t *testing.T) {
	anchor := Pt(100, 100)
	raw := Pt(250, 103)

	end := SnapAxis(anchor, raw, false)
	if end != Pt(250, 100) {
		t.Fatalf("SnapAxis = %v, want 250, 100", end)
	}
	if d := Distance(anchor, end); d != 150 {
		t.Errorf("Distance = %v, want 150", d)
	}
	if end == raw {
		t.Error("snapped end should differ from raw end")
	}
}

func TestHitScenarioDistances(t *testing.T) {
	p := Pt(105, 100)
	if d := Distance(p, Pt(100, 100)); !almostEqual(d, 5) {
		t.Errorf("point distance = %v, want 5", d)
	}
	if d := PointToSegmentDistance(p, Pt(0, 0), Pt(200, 200)); !almostEqual(d, 3.54) {
		t.Errorf("segment distance = %v, want ~3.54", d)
	}
}

func TestMid(t *testing.T) {
	x, y := Mid(Pt(0, 0), Pt(5, 10))
	if x != 2.5 || y != 5 {
		t.Errorf("Mid = (%v, %v), want (2.5, 5)", x, y)
	}
}
