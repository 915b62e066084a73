package overlay

import (
	"testing"

	"github.com/Iron-Ham/screencoord/internal/geom"
	"github.com/Iron-Ham/screencoord/internal/item"
)

func entries(items ...*item.Item) []Entry {
	out := make([]Entry, len(items))
	for i, it := range items {
		out[i] = Entry{Item: it}
	}
	return out
}

func TestSelectNearest(t *testing.T) {
	point := item.NewCoordinate(100, 100)
	diagonal := item.NewMeasurement(0, 0, 200, 200, geom.Distance(geom.Pt(0, 0), geom.Pt(200, 200)), false)
	far := item.NewCoordinate(500, 500)

	tests := []struct {
		name    string
		p       geom.Point
		entries []Entry
		want    int
		wantOK  bool
	}{
		{
			name:    "segment closer than point",
			p:       geom.Pt(105, 100),
			entries: entries(point, diagonal),
			want:    1,
			wantOK:  true,
		},
		{
			name:    "point alone within threshold",
			p:       geom.Pt(105, 100),
			entries: entries(point),
			want:    0,
			wantOK:  true,
		},
		{
			name:    "nothing within threshold",
			p:       geom.Pt(300, 100),
			entries: entries(point, diagonal),
			want:    -1,
			wantOK:  false,
		},
		{
			name:    "exactly at threshold is a miss",
			p:       geom.Pt(120, 100),
			entries: entries(point),
			want:    -1,
			wantOK:  false,
		},
		{
			name:    "just inside threshold",
			p:       geom.Pt(119, 100),
			entries: entries(point),
			want:    0,
			wantOK:  true,
		},
		{
			name:    "empty list",
			p:       geom.Pt(0, 0),
			entries: nil,
			want:    -1,
			wantOK:  false,
		},
		{
			name:    "far entry ignored",
			p:       geom.Pt(101, 101),
			entries: entries(far, point),
			want:    1,
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectNearest(tt.p, tt.entries, DefaultHitThreshold)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("SelectNearest(%v) = (%d, %v), want (%d, %v)", tt.p, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSelectNearest_TieGoesToFirst(t *testing.T) {
	a := item.NewCoordinate(90, 100)
	b := item.NewCoordinate(110, 100)

	got, ok := SelectNearest(geom.Pt(100, 100), entries(a, b), DefaultHitThreshold)
	if !ok || got != 0 {
		t.Errorf("SelectNearest() = (%d, %v), want (0, true)", got, ok)
	}
}

func TestSelectNearest_SkipsFolders(t *testing.T) {
	folder := item.NewFolder("")
	got, ok := SelectNearest(geom.Pt(0, 0), entries(folder), DefaultHitThreshold)
	if ok {
		t.Errorf("SelectNearest() = (%d, true), folders should never be selected", got)
	}
}

func TestSelectNearest_BeyondSegmentEnd(t *testing.T) {
	seg := item.NewMeasurement(0, 0, 100, 0, 100, false)

	// Past the end the distance is to the nearer endpoint, not the infinite line.
	if _, ok := SelectNearest(geom.Pt(125, 0), entries(seg), DefaultHitThreshold); ok {
		t.Error("point 25px past the segment end should miss")
	}
	if _, ok := SelectNearest(geom.Pt(115, 0), entries(seg), DefaultHitThreshold); !ok {
		t.Error("point 15px past the segment end should hit")
	}
}
