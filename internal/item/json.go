package item

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the timestamp format written to disk. It matches the
// ISO-8601 form used by earlier versions of the history file.
const TimestampLayout = "2006-01-02T15:04:05.000000"

var timestampLayouts = []string{
	TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp accepts any of the timestamp forms seen in history files.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// FormatTimestamp formats ts with TimestampLayout.
func FormatTimestamp(ts time.Time) string {
	return ts.Format(TimestampLayout)
}

// record is the on-disk shape of an item.
type record struct {
	ID          string    `json:"id,omitempty"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Timestamp   string    `json:"timestamp,omitempty"`
	X           *int      `json:"x,omitempty"`
	Y           *int      `json:"y,omitempty"`
	X1          *int      `json:"x1,omitempty"`
	Y1          *int      `json:"y1,omitempty"`
	X2          *int      `json:"x2,omitempty"`
	Y2          *int      `json:"y2,omitempty"`
	Distance    *float64  `json:"distance,omitempty"`
	AutoAligned *bool     `json:"auto_aligned,omitempty"`
	Expanded    *bool     `json:"expanded,omitempty"`
	Items       []*record `json:"items,omitempty"`
}

func toRecord(it *Item) *record {
	r := &record{
		ID:        string(it.ID),
		Type:      it.Kind.String(),
		Name:      it.Name,
		Timestamp: FormatTimestamp(it.Timestamp),
	}
	switch it.Kind {
	case KindCoordinate:
		r.X, r.Y = ptr(it.X), ptr(it.Y)
	case KindMeasurement:
		r.X1, r.Y1 = ptr(it.X1), ptr(it.Y1)
		r.X2, r.Y2 = ptr(it.X2), ptr(it.Y2)
		r.Distance = ptr(it.Distance)
		r.AutoAligned = ptr(it.AutoAligned)
	case KindFolder:
		r.Expanded = ptr(it.Expanded)
		r.Items = make([]*record, 0, len(it.Items))
		for _, child := range it.Items {
			r.Items = append(r.Items, toRecord(child))
		}
	}
	return r
}

func fromRecord(r *record) (*Item, error) {
	kind, err := ParseKind(r.Type)
	if err != nil {
		return nil, err
	}

	it := &Item{
		ID:   ID(r.ID),
		Kind: kind,
		Name: r.Name,
	}
	if it.ID == "" {
		it.ID = NewID()
	}
	if r.Timestamp != "" {
		if it.Timestamp, err = ParseTimestamp(r.Timestamp); err != nil {
			return nil, err
		}
	} else {
		it.Timestamp = now()
	}

	switch kind {
	case KindCoordinate:
		if r.X == nil || r.Y == nil {
			return nil, fmt.Errorf("coordinate %q: missing x or y", r.Name)
		}
		it.X, it.Y = *r.X, *r.Y
		if it.Name == "" {
			it.Name = DefaultCoordinateName(it.X, it.Y)
		}
	case KindMeasurement:
		if r.X1 == nil || r.Y1 == nil || r.X2 == nil || r.Y2 == nil || r.Distance == nil {
			return nil, fmt.Errorf("measurement %q: missing endpoint or distance", r.Name)
		}
		it.X1, it.Y1, it.X2, it.Y2 = *r.X1, *r.Y1, *r.X2, *r.Y2
		it.Distance = *r.Distance
		it.AutoAligned = deref(r.AutoAligned, false)
		if it.Name == "" {
			it.Name = DefaultMeasurementName(it.Distance)
		}
	case KindFolder:
		it.Expanded = deref(r.Expanded, true)
		if it.Name == "" {
			it.Name = DefaultFolderName
		}
		for _, child := range r.Items {
			c, err := fromRecord(child)
			if err != nil {
				return nil, err
			}
			it.Items = append(it.Items, c)
		}
	}
	return it, nil
}

// MarshalJSON encodes the item in the history file format.
func (it *Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(toRecord(it))
}

// UnmarshalJSON decodes an item from the history file format. Items written
// without an id are given a fresh one.
func (it *Item) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	decoded, err := fromRecord(&r)
	if err != nil {
		return err
	}
	*it = *decoded
	return nil
}

// MarshalList encodes a forest of items as an indented JSON array.
func MarshalList(items []*Item) ([]byte, error) {
	if items == nil {
		items = []*Item{}
	}
	return json.MarshalIndent(items, "", "  ")
}

// UnmarshalList decodes a JSON array of items.
func UnmarshalList(data []byte) ([]*Item, error) {
	var items []*Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func ptr[T any](v T) *T {
	return &v
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
