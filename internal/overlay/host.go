package overlay

import "github.com/Iron-Ham/screencoord/internal/item"

// Host is the document that owns captured items. The session creates items
// through it and later addresses them by ID only.
type Host interface {
	// AppendCoordinate creates, stores and returns a coordinate item.
	AppendCoordinate(x, y int) (*item.Item, error)
	// AppendMeasurement creates, stores and returns a measurement item.
	AppendMeasurement(x1, y1, x2, y2 int, distance float64, autoAligned bool) (*item.Item, error)
	// RemoveByID removes the item and reports whether it was found.
	RemoveByID(id item.ID) bool
	// RenameByID renames the item and reports whether it was found.
	RenameByID(id item.ID, name string) bool
}

// Prompter asks the user for a line of text. PromptText blocks until the
// user confirms or cancels; ok is false on cancel.
type Prompter interface {
	PromptText(title, label, initial string) (text string, ok bool)
}

// grabState tracks who currently receives keyboard input.
type grabState int

const (
	grabHeld grabState = iota
	grabSuspended
	grabReleased
)

// InputGrab is the overlay's exclusive hold on keyboard and pointer input for
// the lifetime of one capture run. While suspended the session ignores input
// so a modal prompt can have the keyboard.
type InputGrab struct {
	state    grabState
	onChange func(capturing bool)
}

// NewInputGrab returns a grab in the held state. onChange, if non-nil, is
// called whenever capture stops or resumes.
func NewInputGrab(onChange func(capturing bool)) *InputGrab {
	return &InputGrab{state: grabHeld, onChange: onChange}
}

// Capturing reports whether the session should interpret input.
func (g *InputGrab) Capturing() bool {
	return g.state == grabHeld
}

// Released reports whether the grab has been given up for good.
func (g *InputGrab) Released() bool {
	return g.state == grabReleased
}

// Suspend hands input to someone else until the returned token is resumed.
// Suspending a grab that is not held returns a token whose Resume does
// nothing.
func (g *InputGrab) Suspend() *Suspension {
	if g.state != grabHeld {
		return &Suspension{}
	}
	g.set(grabSuspended)
	return &Suspension{grab: g}
}

// Release gives the grab up. It is idempotent.
func (g *InputGrab) Release() {
	if g.state == grabReleased {
		return
	}
	g.set(grabReleased)
}

func (g *InputGrab) set(s grabState) {
	was := g.Capturing()
	g.state = s
	if g.onChange != nil && was != g.Capturing() {
		g.onChange(g.Capturing())
	}
}

// Suspension is the token returned by InputGrab.Suspend.
type Suspension struct {
	grab *InputGrab
}

// Resume returns input to the overlay. Only the first call has an effect,
// and it does nothing if the grab was released meanwhile.
func (s *Suspension) Resume() {
	g := s.grab
	s.grab = nil
	if g == nil || g.state != grabSuspended {
		return
	}
	g.set(grabHeld)
}
