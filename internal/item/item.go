// Package item defines the captured entities shared by the capture overlay and
// the document tree: coordinates, measurements and folders.
//
// An Item is a tagged variant. Code that behaves differently per kind switches
// on Item.Kind; fields that do not belong to the item's kind are zero.
package item

import (
	"crypto/rand"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Iron-Ham/screencoord/internal/geom"
)

// Kind identifies which variant an Item holds.
type Kind int

const (
	// KindCoordinate is a single captured screen position.
	KindCoordinate Kind = iota + 1
	// KindMeasurement is a ruler measurement between two positions.
	KindMeasurement
	// KindFolder groups other items.
	KindFolder
)

// String returns the serialized type tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindCoordinate:
		return "coordinate"
	case KindMeasurement:
		return "measurement"
	case KindFolder:
		return "folder"
	default:
		return "unknown"
	}
}

// ParseKind converts a serialized type tag back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "coordinate":
		return KindCoordinate, nil
	case "measurement":
		return KindMeasurement, nil
	case "folder":
		return KindFolder, nil
	default:
		return 0, fmt.Errorf("unknown item type %q", s)
	}
}

// ID is the immutable identity of an item. It is assigned once at creation
// and used for every lookup that crosses from the overlay into the document.
type ID string

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a new, lexically time-ordered identifier.
func NewID() ID {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String())
}

// Item is one node of the capture hierarchy.
type Item struct {
	ID        ID
	Kind      Kind
	Name      string
	Timestamp time.Time

	// Coordinate
	X int
	Y int

	// Measurement
	X1          int
	Y1          int
	X2          int
	Y2          int
	Distance    float64
	AutoAligned bool

	// Folder
	Expanded bool
	Items    []*Item
}

// now is replaced in tests.
var now = time.Now

// NewCoordinate creates a coordinate item with the default name.
func NewCoordinate(x, y int) *Item {
	return &Item{
		ID:        NewID(),
		Kind:      KindCoordinate,
		Name:      DefaultCoordinateName(x, y),
		Timestamp: now(),
		X:         x,
		Y:         y,
	}
}

// NewMeasurement creates a measurement item with the default name.
func NewMeasurement(x1, y1, x2, y2 int, distance float64, autoAligned bool) *Item {
	return &Item{
		ID:          NewID(),
		Kind:        KindMeasurement,
		Name:        DefaultMeasurementName(distance),
		Timestamp:   now(),
		X1:          x1,
		Y1:          y1,
		X2:          x2,
		Y2:          y2,
		Distance:    distance,
		AutoAligned: autoAligned,
	}
}

// NewFolder creates an empty, expanded folder. An empty name gets the
// default folder name.
func NewFolder(name string) *Item {
	if name == "" {
		name = DefaultFolderName
	}
	return &Item{
		ID:        NewID(),
		Kind:      KindFolder,
		Name:      name,
		Timestamp: now(),
		Expanded:  true,
	}
}

// DefaultFolderName is the name given to folders created without one.
const DefaultFolderName = "New Folder"

// DefaultCoordinateName returns "Point (x, y)".
func DefaultCoordinateName(x, y int) string {
	return fmt.Sprintf("Point (%d, %d)", x, y)
}

// DefaultMeasurementName returns "Measurement Npx" with N the rounded distance.
func DefaultMeasurementName(distance float64) string {
	return fmt.Sprintf("Measurement %dpx", Pixels(distance))
}

// Pixels rounds a distance to whole pixels for display.
func Pixels(distance float64) int {
	return int(math.Round(distance))
}

// IsFolder reports whether the item may own children.
func (it *Item) IsFolder() bool {
	return it.Kind == KindFolder
}

// Position returns the coordinate's position.
func (it *Item) Position() geom.Point {
	return geom.Pt(it.X, it.Y)
}

// Segment returns the measurement's endpoints.
func (it *Item) Segment() (geom.Point, geom.Point) {
	return geom.Pt(it.X1, it.Y1), geom.Pt(it.X2, it.Y2)
}

// Prefix returns the glyph shown in front of the item's name in lists.
func (it *Item) Prefix() string {
	switch it.Kind {
	case KindCoordinate:
		return "📍"
	case KindMeasurement:
		return "📏"
	case KindFolder:
		return "📁"
	default:
		return "?"
	}
}

// Label returns the prefixed display name.
func (it *Item) Label() string {
	return it.Prefix() + " " + it.Name
}

// Detail returns the secondary description shown next to the label.
func (it *Item) Detail() string {
	switch it.Kind {
	case KindCoordinate:
		return fmt.Sprintf("(%d, %d)", it.X, it.Y)
	case KindMeasurement:
		detail := fmt.Sprintf("%dpx (%d,%d)→(%d,%d)", Pixels(it.Distance), it.X1, it.Y1, it.X2, it.Y2)
		if it.AutoAligned {
			detail += " [Aligned]"
		}
		return detail
	case KindFolder:
		return fmt.Sprintf("%d items", len(it.Items))
	default:
		return ""
	}
}

// Walk visits items depth-first in order. fn receives the item, its parent
// (nil at the root) and its depth. Returning false from fn skips the item's
// children.
func Walk(items []*Item, fn func(it, parent *Item, depth int) bool) {
	walk(items, nil, 0, fn)
}

func walk(items []*Item, parent *Item, depth int, fn func(it, parent *Item, depth int) bool) {
	for _, it := range items {
		if !fn(it, parent, depth) {
			continue
		}
		if len(it.Items) > 0 {
			walk(it.Items, it, depth+1, fn)
		}
	}
}

// Find returns the item with the given id together with its parent (nil at
// the root) and its index among its siblings.
func Find(items []*Item, id ID) (found, parent *Item, index int) {
	for i, it := range items {
		if it.ID == id {
			return it, nil, i
		}
		if f, p, idx := Find(it.Items, id); f != nil {
			if p == nil {
				p = it
			}
			return f, p, idx
		}
	}
	return nil, nil, -1
}

// Contains reports whether id is root or one of root's descendants.
func Contains(root *Item, id ID) bool {
	if root.ID == id {
		return true
	}
	for _, child := range root.Items {
		if Contains(child, id) {
			return true
		}
	}
	return false
}

// Count returns the total number of items in the forest, folders included.
func Count(items []*Item) int {
	n := 0
	Walk(items, func(*Item, *Item, int) bool {
		n++
		return true
	})
	return n
}

// Clone returns a deep copy of the item and its children. IDs are kept.
func (it *Item) Clone() *Item {
	c := *it
	if it.Items != nil {
		c.Items = CloneList(it.Items)
	}
	return &c
}

// CloneList deep-copies a forest of items.
func CloneList(items []*Item) []*Item {
	out := make([]*Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
