// Package overlay implements the interactive capture overlay: a mode-driven
// session that turns pointer and keyboard events into captured items, and the
// per-frame renderer that draws the session's state.
//
// The session is single-threaded. Events and frame requests must come from
// the same goroutine, normally the window's event loop.
package overlay

import (
	"fmt"
	"slices"
	"time"

	"github.com/Iron-Ham/screencoord/internal/geom"
	"github.com/Iron-Ham/screencoord/internal/logging"
	"github.com/Iron-Ham/screencoord/internal/notify"
)

// noSelection is the selectedIndex value when nothing is selected.
const noSelection = -1

// Session is one run of the capture overlay.
type Session struct {
	host     Host
	prompter Prompter
	grab     *InputGrab
	notes    *notify.Queue
	logger   *logging.Logger

	threshold float64

	mode        Mode
	cursor      geom.Point
	anchor      geom.Point
	hasAnchor   bool
	shiftHeld   bool
	helpVisible bool
	corner      Corner
	selected    int
	entries     []Entry
	done        bool
}

// Option configures a Session.
type Option func(*Session)

// WithHitThreshold sets the edit-mode selection radius.
func WithHitThreshold(px float64) Option {
	return func(s *Session) {
		if px > 0 {
			s.threshold = px
		}
	}
}

// WithCorner sets the initial HUD corner.
func WithCorner(c Corner) Option {
	return func(s *Session) { s.corner = c }
}

// WithHelpVisible sets whether the help panel starts open.
func WithHelpVisible(v bool) Option {
	return func(s *Session) { s.helpVisible = v }
}

// WithNotifications replaces the notification queue.
func WithNotifications(q *notify.Queue) Option {
	return func(s *Session) { s.notes = q }
}

// WithLogger sets the session logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithInputGrab sets the grab the session honors.
func WithInputGrab(g *InputGrab) Option {
	return func(s *Session) { s.grab = g }
}

// NewSession starts a capture run in Normal mode with an empty session list.
func NewSession(host Host, prompter Prompter, opts ...Option) *Session {
	s := &Session{
		host:        host,
		prompter:    prompter,
		threshold:   DefaultHitThreshold,
		mode:        ModeNormal,
		helpVisible: true,
		corner:      CornerTopLeft,
		selected:    noSelection,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.grab == nil {
		s.grab = NewInputGrab(nil)
	}
	if s.notes == nil {
		s.notes = notify.NewQueue()
	}
	if s.logger == nil {
		s.logger = logging.NopLogger()
	}
	return s
}

// Handle applies one input event. Events arriving while the input grab is
// suspended or released are ignored.
func (s *Session) Handle(ev Event) {
	if s.done || !s.grab.Capturing() {
		return
	}

	switch ev := ev.(type) {
	case PointerMove:
		s.cursor = ev.Pos
	case PointerPress:
		s.cursor = ev.Pos
		s.handlePress(ev.Button)
	case KeyPress:
		s.handleKeyPress(ev.Key)
	case KeyRelease:
		if ev.Key == KeyShift {
			s.shiftHeld = false
		}
	}
}

func (s *Session) handlePress(b Button) {
	switch s.mode {
	case ModeNormal:
		switch b {
		case ButtonLeft:
			s.captureCoordinate()
		case ButtonRight:
			s.startRuler()
		}
	case ModeRuler:
		if b == ButtonLeft || b == ButtonRight {
			s.finishRuler()
		}
	case ModeEdit:
		if b == ButtonLeft {
			s.selectAt(s.cursor)
		}
	}
}

func (s *Session) handleKeyPress(k Key) {
	switch k {
	case KeyShift:
		s.shiftHeld = true
	case KeyE:
		s.toggleEdit()
	case KeyEscape, KeyQ:
		s.cancel()
	case KeySpace:
		s.corner = s.corner.Next()
	case KeyH:
		s.helpVisible = !s.helpVisible
	case KeyDelete:
		if s.mode == ModeEdit && s.hasSelection() {
			s.deleteSelected()
		}
	case KeyR:
		if s.mode == ModeEdit && s.hasSelection() {
			s.renameSelected()
		}
	}
}

func (s *Session) captureCoordinate() {
	p := s.cursor
	it, err := s.host.AppendCoordinate(p.X, p.Y)
	if err != nil {
		s.logger.Error("failed to store coordinate", "x", p.X, "y", p.Y, "error", err.Error())
		s.notes.Push("Capture failed")
		return
	}
	s.entries = append(s.entries, newEntry(it))
	s.notes.Push(fmt.Sprintf("Captured: %d, %d", p.X, p.Y))
	s.logger.Info("captured coordinate", "id", string(it.ID), "x", p.X, "y", p.Y)
}

func (s *Session) startRuler() {
	s.anchor = s.cursor
	s.hasAnchor = true
	s.mode = ModeRuler
	s.notes.Push("Ruler Mode: Click to end")
}

func (s *Session) finishRuler() {
	if !s.hasAnchor {
		s.mode = ModeNormal
		return
	}
	start := s.anchor
	raw := s.cursor
	end := geom.SnapAxis(start, raw, s.shiftHeld)
	dist := geom.Distance(start, end)

	s.clearAnchor()
	s.mode = ModeNormal

	it, err := s.host.AppendMeasurement(start.X, start.Y, end.X, end.Y, dist, end != raw)
	if err != nil {
		s.logger.Error("failed to store measurement", "distance", dist, "error", err.Error())
		s.notes.Push("Measurement failed")
		return
	}
	s.entries = append(s.entries, newEntry(it))
	s.notes.Push(fmt.Sprintf("Measurement: %dpx", int(dist)))
	s.logger.Info("captured measurement",
		"id", string(it.ID),
		"distance", dist,
		"auto_aligned", it.AutoAligned,
	)
}

func (s *Session) toggleEdit() {
	if s.mode == ModeEdit {
		s.mode = ModeNormal
		s.selected = noSelection
		s.notes.Push("Exited Edit Mode")
		return
	}
	s.clearAnchor()
	s.mode = ModeEdit
	s.notes.Push("Edit Mode: Click item to select")
}

func (s *Session) cancel() {
	switch s.mode {
	case ModeRuler:
		s.clearAnchor()
		s.mode = ModeNormal
		s.notes.Push("Ruler Cancelled")
	case ModeEdit:
		s.selected = noSelection
		s.mode = ModeNormal
	default:
		s.terminate()
	}
}

func (s *Session) terminate() {
	s.done = true
	s.grab.Release()
	s.logger.Info("capture session ended", "captured", len(s.entries))
}

func (s *Session) selectAt(p geom.Point) {
	idx, ok := SelectNearest(p, s.entries, s.threshold)
	if !ok {
		s.selected = noSelection
		return
	}
	s.selected = idx
}

func (s *Session) deleteSelected() {
	it := s.entries[s.selected].Item
	if !s.host.RemoveByID(it.ID) {
		s.logger.Warn("delete rejected by document", "id", string(it.ID))
		return
	}
	s.entries = slices.Delete(s.entries, s.selected, s.selected+1)
	s.selected = noSelection
	s.notes.Push("Item Deleted")
	s.logger.Info("deleted item", "id", string(it.ID))
}

func (s *Session) renameSelected() {
	it := s.entries[s.selected].Item

	token := s.grab.Suspend()
	text, ok := s.prompter.PromptText("Rename", "New Name:", it.Name)
	token.Resume()
	// The prompt consumed any Shift release.
	s.shiftHeld = false

	if !ok || text == "" {
		return
	}
	if !s.host.RenameByID(it.ID, text) {
		s.logger.Warn("rename rejected by document", "id", string(it.ID))
		return
	}
	it.Name = text
	s.entries[s.selected].Hint = markerLabel(it)
	s.notes.Push("Item Renamed")
	s.logger.Info("renamed item", "id", string(it.ID), "name", text)
}

func (s *Session) clearAnchor() {
	s.anchor = geom.Point{}
	s.hasAnchor = false
}

func (s *Session) hasSelection() bool {
	return s.selected >= 0 && s.selected < len(s.entries)
}

// Done reports whether the user ended the session.
func (s *Session) Done() bool { return s.done }

// Mode returns the current mode.
func (s *Session) Mode() Mode { return s.mode }

// Cursor returns the last known pointer position.
func (s *Session) Cursor() geom.Point { return s.cursor }

// Anchor returns the ruler anchor, if one is set.
func (s *Session) Anchor() (geom.Point, bool) { return s.anchor, s.hasAnchor }

// Selected returns the selected session entry index, if any.
func (s *Session) Selected() (int, bool) {
	if !s.hasSelection() {
		return noSelection, false
	}
	return s.selected, true
}

// Entries returns a copy of the session item list.
func (s *Session) Entries() []Entry { return slices.Clone(s.entries) }

// Corner returns the HUD corner.
func (s *Session) Corner() Corner { return s.corner }

// HelpVisible reports whether the help panel is shown.
func (s *Session) HelpVisible() bool { return s.helpVisible }

// ShiftHeld reports whether Shift is down.
func (s *Session) ShiftHeld() bool { return s.shiftHeld }

// Grab returns the session's input grab.
func (s *Session) Grab() *InputGrab { return s.grab }

// Frame captures everything the renderer needs for one frame. It prunes
// notifications that expired before now.
func (s *Session) Frame(now time.Time) FrameState {
	sel, _ := s.Selected()
	return FrameState{
		Mode:          s.mode,
		Cursor:        s.cursor,
		Anchor:        s.anchor,
		HasAnchor:     s.hasAnchor,
		ShiftHeld:     s.shiftHeld,
		HelpVisible:   s.helpVisible,
		Corner:        s.corner,
		Selected:      sel,
		Entries:       s.Entries(),
		Notifications: s.notes.Live(now),
	}
}

// FrameState is an immutable snapshot of a session for rendering.
type FrameState struct {
	Mode          Mode
	Cursor        geom.Point
	Anchor        geom.Point
	HasAnchor     bool
	ShiftHeld     bool
	HelpVisible   bool
	Corner        Corner
	Selected      int
	Entries       []Entry
	Notifications []notify.Entry
}

// RulerEnd returns the endpoint a ruler finished now would record.
func (f FrameState) RulerEnd() geom.Point {
	return geom.SnapAxis(f.Anchor, f.Cursor, f.ShiftHeld)
}
