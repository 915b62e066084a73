package overlay

import (
	"fmt"

	"github.com/Iron-Ham/screencoord/internal/geom"
	"github.com/Iron-Ham/screencoord/internal/item"
)

// DefaultHitThreshold is the selection radius in pixels.
const DefaultHitThreshold = 20.0

// Entry is an item created during the current capture run, paired with its
// render hint: the marker label, computed when the entry is added or renamed.
type Entry struct {
	Item *item.Item
	Hint string
}

func newEntry(it *item.Item) Entry {
	return Entry{Item: it, Hint: markerLabel(it)}
}

// markerLabel is the text drawn beside an entry's marker in edit mode.
func markerLabel(it *item.Item) string {
	switch it.Kind {
	case item.KindCoordinate:
		return fmt.Sprintf("%s (%d, %d)", it.Name, it.X, it.Y)
	case item.KindMeasurement:
		return fmt.Sprintf("%s [%dpx]", it.Name, item.Pixels(it.Distance))
	default:
		return it.Name
	}
}

// label returns the hint, computing it for entries built without one.
func (e Entry) label() string {
	if e.Hint != "" {
		return e.Hint
	}
	return markerLabel(e.Item)
}

// distanceTo returns how far p is from the entry's drawn shape. ok is false
// for kinds that are never drawn as markers.
func (e Entry) distanceTo(p geom.Point) (float64, bool) {
	switch e.Item.Kind {
	case item.KindCoordinate:
		return geom.Distance(p, e.Item.Position()), true
	case item.KindMeasurement:
		a, b := e.Item.Segment()
		return geom.PointToSegmentDistance(p, a, b), true
	default:
		return 0, false
	}
}

// SelectNearest returns the index of the entry closest to p, provided it is
// strictly closer than threshold. Ties go to the earlier entry. Every entry
// is examined on each call.
func SelectNearest(p geom.Point, entries []Entry, threshold float64) (int, bool) {
	best := -1
	bestDist := threshold
	for i, e := range entries {
		d, ok := e.distanceTo(p)
		if !ok {
			continue
		}
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best, best >= 0
}
