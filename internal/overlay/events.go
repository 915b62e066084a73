package overlay

import (
	"fmt"

	"github.com/Iron-Ham/screencoord/internal/geom"
)

// Mode is the capture session's current interaction mode.
type Mode int

const (
	// ModeNormal captures a coordinate on left click.
	ModeNormal Mode = iota
	// ModeRuler has a ruler anchor and finishes a measurement on the next click.
	ModeRuler
	// ModeEdit selects, renames and deletes items captured in this session.
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeRuler:
		return "ruler"
	case ModeEdit:
		return "edit"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Corner is where the coordinate HUD is pinned. Space cycles through the
// corners in declaration order.
type Corner int

const (
	CornerTopRight Corner = iota
	CornerBottomRight
	CornerBottomLeft
	CornerTopLeft

	cornerCount = 4
)

// Next returns the corner after c in the cycle.
func (c Corner) Next() Corner {
	return (c + 1) % cornerCount
}

// IsTop reports whether the corner is along the top edge.
func (c Corner) IsTop() bool {
	return c == CornerTopRight || c == CornerTopLeft
}

func (c Corner) String() string {
	switch c {
	case CornerTopRight:
		return "top-right"
	case CornerBottomRight:
		return "bottom-right"
	case CornerBottomLeft:
		return "bottom-left"
	case CornerTopLeft:
		return "top-left"
	default:
		return fmt.Sprintf("corner(%d)", int(c))
	}
}

// ParseCorner converts a corner name as used in configuration.
func ParseCorner(s string) (Corner, error) {
	for c := Corner(0); c < cornerCount; c++ {
		if c.String() == s {
			return c, nil
		}
	}
	return CornerTopLeft, fmt.Errorf("unknown corner %q", s)
}

// CornerNames lists the valid corner names.
func CornerNames() []string {
	names := make([]string, 0, cornerCount)
	for c := Corner(0); c < cornerCount; c++ {
		names = append(names, c.String())
	}
	return names
}

// Button is a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// Key is a keyboard key the session reacts to. Keys the session does not
// care about are delivered as KeyOther.
type Key int

const (
	KeyOther Key = iota
	KeyE
	KeyR
	KeyH
	KeyQ
	KeyEscape
	KeySpace
	KeyDelete
	KeyShift
)

func (k Key) String() string {
	switch k {
	case KeyE:
		return "E"
	case KeyR:
		return "R"
	case KeyH:
		return "H"
	case KeyQ:
		return "Q"
	case KeyEscape:
		return "Escape"
	case KeySpace:
		return "Space"
	case KeyDelete:
		return "Delete"
	case KeyShift:
		return "Shift"
	default:
		return "Other"
	}
}

// Event is an input event delivered to a Session.
type Event interface {
	isEvent()
}

// PointerMove reports the pointer's new position.
type PointerMove struct {
	Pos geom.Point
}

// PointerPress reports a button press at Pos.
type PointerPress struct {
	Pos    geom.Point
	Button Button
}

// KeyPress reports a key going down.
type KeyPress struct {
	Key Key
}

// KeyRelease reports a key going up.
type KeyRelease struct {
	Key Key
}

func (PointerMove) isEvent()  {}
func (PointerPress) isEvent() {}
func (KeyPress) isEvent()     {}
func (KeyRelease) isEvent()   {}
