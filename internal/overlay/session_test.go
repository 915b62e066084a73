package overlay

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/Iron-Ham/screencoord/internal/geom"
	"github.com/Iron-Ham/screencoord/internal/item"
	"github.com/Iron-Ham/screencoord/internal/notify"
)

// fakeHost records items in a flat list and can be told to reject calls.
type fakeHost struct {
	items        []*item.Item
	failAppend   bool
	rejectRemove bool
	rejectRename bool
	removed      []item.ID
	renamed      map[item.ID]string
}

func newFakeHost() *fakeHost {
	return &fakeHost{renamed: make(map[item.ID]string)}
}

func (h *fakeHost) AppendCoordinate(x, y int) (*item.Item, error) {
	if h.failAppend {
		return nil, errors.New("disk full")
	}
	it := item.NewCoordinate(x, y)
	h.items = append(h.items, it)
	return it, nil
}

func (h *fakeHost) AppendMeasurement(x1, y1, x2, y2 int, distance float64, autoAligned bool) (*item.Item, error) {
	if h.failAppend {
		return nil, errors.New("disk full")
	}
	it := item.NewMeasurement(x1, y1, x2, y2, distance, autoAligned)
	h.items = append(h.items, it)
	return it, nil
}

func (h *fakeHost) RemoveByID(id item.ID) bool {
	if h.rejectRemove {
		return false
	}
	for i, it := range h.items {
		if it.ID == id {
			h.items = slices.Delete(h.items, i, i+1)
			h.removed = append(h.removed, id)
			return true
		}
	}
	return false
}

func (h *fakeHost) RenameByID(id item.ID, name string) bool {
	if h.rejectRename {
		return false
	}
	for _, it := range h.items {
		if it.ID == id {
			it.Name = name
			h.renamed[id] = name
			return true
		}
	}
	return false
}

func (h *fakeHost) find(id item.ID) *item.Item {
	for _, it := range h.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func (h *fakeHost) count(k item.Kind) int {
	n := 0
	for _, it := range h.items {
		if it.Kind == k {
			n++
		}
	}
	return n
}

// fakePrompter returns a canned answer and records what the grab looked like
// while it was open.
type fakePrompter struct {
	text  string
	ok    bool
	calls int

	title, label, initial string
	capturingDuring       bool
	grab                  *InputGrab
	during                func()
}

func (p *fakePrompter) PromptText(title, label, initial string) (string, bool) {
	p.calls++
	p.title, p.label, p.initial = title, label, initial
	if p.grab != nil {
		p.capturingDuring = p.grab.Capturing()
	}
	if p.during != nil {
		p.during()
	}
	return p.text, p.ok
}

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func newTestSession(t *testing.T, opts ...Option) (*Session, *fakeHost, *fakePrompter, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	host := newFakeHost()
	prompter := &fakePrompter{}
	grab := NewInputGrab(nil)
	prompter.grab = grab
	all := append([]Option{
		WithInputGrab(grab),
		WithNotifications(notify.NewQueue(notify.WithClock(clock.Now))),
	}, opts...)
	return NewSession(host, prompter, all...), host, prompter, clock
}

func click(s *Session, x, y int, b Button) {
	s.Handle(PointerMove{Pos: geom.Pt(x, y)})
	s.Handle(PointerPress{Pos: geom.Pt(x, y), Button: b})
}

func press(s *Session, k Key) {
	s.Handle(KeyPress{Key: k})
}

func lastNote(t *testing.T, s *Session, clock *testClock) string {
	t.Helper()
	live := s.Frame(clock.Now()).Notifications
	if len(live) == 0 {
		t.Fatal("expected a notification, got none")
	}
	return live[len(live)-1].Text
}

func TestNewSession_Defaults(t *testing.T) {
	s, _, _, _ := newTestSession(t)

	if s.Mode() != ModeNormal {
		t.Errorf("Mode() = %v, want %v", s.Mode(), ModeNormal)
	}
	if !s.HelpVisible() {
		t.Error("help should be visible by default")
	}
	if s.Corner() != CornerTopLeft {
		t.Errorf("Corner() = %v, want %v", s.Corner(), CornerTopLeft)
	}
	if _, ok := s.Selected(); ok {
		t.Error("nothing should be selected initially")
	}
	if len(s.Entries()) != 0 {
		t.Errorf("Entries() has %d items, want 0", len(s.Entries()))
	}
	if s.Done() {
		t.Error("new session should not be done")
	}
}

func TestNormal_LeftClickCapturesCoordinate(t *testing.T) {
	s, host, _, clock := newTestSession(t)

	click(s, 120, 340, ButtonLeft)

	if len(host.items) != 1 {
		t.Fatalf("host has %d items, want 1", len(host.items))
	}
	entries := s.Entries()
	if len(entries) != 1 {
		t.Fatalf("session has %d entries, want 1", len(entries))
	}
	got := host.find(entries[0].Item.ID)
	if got == nil {
		t.Fatal("session entry not found in host by ID")
	}
	if got.X != 120 || got.Y != 340 {
		t.Errorf("captured (%d, %d), want (120, 340)", got.X, got.Y)
	}
	if note := lastNote(t, s, clock); note != "Captured: 120, 340" {
		t.Errorf("notification = %q, want %q", note, "Captured: 120, 340")
	}
	if s.Mode() != ModeNormal {
		t.Errorf("Mode() = %v, want %v", s.Mode(), ModeNormal)
	}
}

func TestRuler_RightThenLeftProducesOneMeasurement(t *testing.T) {
	tests := []struct {
		name   string
		finish Button
	}{
		{"left finish", ButtonLeft},
		{"right finish", ButtonRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, host, _, clock := newTestSession(t)

			click(s, 10, 10, ButtonRight)
			if s.Mode() != ModeRuler {
				t.Fatalf("Mode() = %v, want %v", s.Mode(), ModeRuler)
			}
			if note := lastNote(t, s, clock); note != "Ruler Mode: Click to end" {
				t.Errorf("notification = %q", note)
			}

			click(s, 13, 14, tt.finish)

			if s.Mode() != ModeNormal {
				t.Errorf("Mode() = %v, want %v", s.Mode(), ModeNormal)
			}
			if n := host.count(item.KindMeasurement); n != 1 {
				t.Errorf("host has %d measurements, want 1", n)
			}
			if _, ok := s.Anchor(); ok {
				t.Error("anchor should be cleared after finishing")
			}
			if note := lastNote(t, s, clock); note != "Measurement: 5px" {
				t.Errorf("notification = %q, want %q", note, "Measurement: 5px")
			}
		})
	}
}

func TestRuler_SnapScenario(t *testing.T) {
	s, host, _, _ := newTestSession(t)

	click(s, 100, 100, ButtonRight)
	click(s, 250, 103, ButtonLeft)

	if len(host.items) != 1 {
		t.Fatalf("host has %d items, want 1", len(host.items))
	}
	m := host.items[0]
	if m.X2 != 250 || m.Y2 != 100 {
		t.Errorf("end = (%d, %d), want (250, 100)", m.X2, m.Y2)
	}
	if m.Distance != 150 {
		t.Errorf("Distance = %v, want 150", m.Distance)
	}
	if !m.AutoAligned {
		t.Error("AutoAligned = false, want true")
	}
}

func TestRuler_NotificationTruncatesDistance(t *testing.T) {
	s, host, _, clock := newTestSession(t)

	click(s, 0, 0, ButtonRight)
	click(s, 2, 3, ButtonLeft)

	// sqrt(13) is about 3.61.
	if note := lastNote(t, s, clock); note != "Measurement: 3px" {
		t.Errorf("notification = %q, want %q", note, "Measurement: 3px")
	}
	if got := host.items[0].Name; got != "Measurement 4px" {
		t.Errorf("Name = %q, want %q", got, "Measurement 4px")
	}
}

func TestRuler_ShiftDisablesSnap(t *testing.T) {
	s, host, _, _ := newTestSession(t)

	click(s, 100, 100, ButtonRight)
	press(s, KeyShift)
	if !s.ShiftHeld() {
		t.Fatal("ShiftHeld() = false after Shift press")
	}
	click(s, 250, 103, ButtonLeft)

	m := host.items[0]
	if m.X2 != 250 || m.Y2 != 103 {
		t.Errorf("end = (%d, %d), want raw (250, 103)", m.X2, m.Y2)
	}
	if m.AutoAligned {
		t.Error("AutoAligned = true, want false in freeform")
	}

	s.Handle(KeyRelease{Key: KeyShift})
	if s.ShiftHeld() {
		t.Error("ShiftHeld() = true after Shift release")
	}
}

func TestRuler_ZeroLengthMeasurement(t *testing.T) {
	s, host, _, clock := newTestSession(t)

	click(s, 50, 50, ButtonRight)
	click(s, 50, 50, ButtonLeft)

	if len(host.items) != 1 {
		t.Fatalf("host has %d items, want 1", len(host.items))
	}
	if host.items[0].Distance != 0 {
		t.Errorf("Distance = %v, want 0", host.items[0].Distance)
	}
	if host.items[0].AutoAligned {
		t.Error("zero-length measurement should not be auto-aligned")
	}
	if note := lastNote(t, s, clock); note != "Measurement: 0px" {
		t.Errorf("notification = %q", note)
	}
}

func TestRuler_EscapeCancels(t *testing.T) {
	for _, k := range []Key{KeyEscape, KeyQ} {
		t.Run(k.String(), func(t *testing.T) {
			s, host, _, clock := newTestSession(t)

			click(s, 10, 10, ButtonRight)
			press(s, k)

			if s.Mode() != ModeNormal {
				t.Errorf("Mode() = %v, want %v", s.Mode(), ModeNormal)
			}
			if n := host.count(item.KindMeasurement); n != 0 {
				t.Errorf("host has %d measurements, want 0", n)
			}
			if s.Done() {
				t.Error("cancelling a ruler must not end the session")
			}
			if note := lastNote(t, s, clock); note != "Ruler Cancelled" {
				t.Errorf("notification = %q, want %q", note, "Ruler Cancelled")
			}
		})
	}
}

func TestEditToggle(t *testing.T) {
	s, _, _, clock := newTestSession(t)

	click(s, 10, 10, ButtonRight)
	press(s, KeyE)
	if s.Mode() != ModeEdit {
		t.Fatalf("Mode() = %v, want %v", s.Mode(), ModeEdit)
	}
	if _, ok := s.Anchor(); ok {
		t.Error("entering edit mode should clear the ruler anchor")
	}
	if note := lastNote(t, s, clock); note != "Edit Mode: Click item to select" {
		t.Errorf("notification = %q", note)
	}

	press(s, KeyE)
	if s.Mode() != ModeNormal {
		t.Errorf("Mode() = %v, want %v", s.Mode(), ModeNormal)
	}
	if note := lastNote(t, s, clock); note != "Exited Edit Mode" {
		t.Errorf("notification = %q", note)
	}
}

func TestEdit_ClicksDoNotCapture(t *testing.T) {
	s, host, _, _ := newTestSession(t)

	press(s, KeyE)
	click(s, 10, 10, ButtonLeft)
	click(s, 20, 20, ButtonRight)

	if len(host.items) != 0 {
		t.Errorf("host has %d items, want 0 in edit mode", len(host.items))
	}
	if s.Mode() != ModeEdit {
		t.Errorf("Mode() = %v, want %v", s.Mode(), ModeEdit)
	}
}

func TestEdit_SelectNearestScenario(t *testing.T) {
	s, _, _, _ := newTestSession(t)

	click(s, 100, 100, ButtonLeft)
	click(s, 0, 0, ButtonRight)
	press(s, KeyShift)
	click(s, 200, 200, ButtonLeft)
	s.Handle(KeyRelease{Key: KeyShift})

	press(s, KeyE)
	click(s, 105, 100, ButtonLeft)

	idx, ok := s.Selected()
	if !ok || idx != 1 {
		t.Errorf("Selected() = (%d, %v), want (1, true)", idx, ok)
	}

	click(s, 900, 900, ButtonLeft)
	if _, ok := s.Selected(); ok {
		t.Error("a miss should clear the selection")
	}
}

func TestEdit_DeleteSelected(t *testing.T) {
	s, host, _, clock := newTestSession(t)

	click(s, 100, 100, ButtonLeft)
	click(s, 300, 300, ButtonLeft)
	press(s, KeyE)
	click(s, 101, 101, ButtonLeft)
	press(s, KeyDelete)

	if len(host.items) != 1 || host.items[0].X != 300 {
		t.Errorf("host items after delete = %d, want the (300, 300) point only", len(host.items))
	}
	if len(s.Entries()) != 1 {
		t.Errorf("session has %d entries, want 1", len(s.Entries()))
	}
	if _, ok := s.Selected(); ok {
		t.Error("selection should be cleared after delete")
	}
	if note := lastNote(t, s, clock); note != "Item Deleted" {
		t.Errorf("notification = %q", note)
	}
}

func TestEdit_DeleteRejectedByHost(t *testing.T) {
	s, host, _, clock := newTestSession(t)

	click(s, 100, 100, ButtonLeft)
	press(s, KeyE)
	click(s, 100, 100, ButtonLeft)
	host.rejectRemove = true
	press(s, KeyDelete)

	if len(s.Entries()) != 1 {
		t.Errorf("session has %d entries, want 1 after rejected delete", len(s.Entries()))
	}
	if idx, ok := s.Selected(); !ok || idx != 0 {
		t.Errorf("Selected() = (%d, %v), want (0, true)", idx, ok)
	}
	if note := lastNote(t, s, clock); note == "Item Deleted" {
		t.Error("rejected delete must not notify")
	}
}

func TestEdit_DeleteWithoutSelection(t *testing.T) {
	s, host, _, _ := newTestSession(t)

	click(s, 100, 100, ButtonLeft)
	press(s, KeyE)
	press(s, KeyDelete)

	if len(host.items) != 1 {
		t.Errorf("host has %d items, want 1", len(host.items))
	}
}

func TestEdit_Rename(t *testing.T) {
	s, host, prompter, clock := newTestSession(t)
	prompter.text, prompter.ok = "Logo corner", true

	click(s, 100, 100, ButtonLeft)
	press(s, KeyE)
	click(s, 100, 100, ButtonLeft)
	press(s, KeyR)

	if prompter.calls != 1 {
		t.Fatalf("prompter called %d times, want 1", prompter.calls)
	}
	if prompter.title != "Rename" || prompter.label != "New Name:" || prompter.initial != "Point (100, 100)" {
		t.Errorf("prompt = (%q, %q, %q)", prompter.title, prompter.label, prompter.initial)
	}
	if prompter.capturingDuring {
		t.Error("input capture should be suspended while the prompt is open")
	}
	if !s.Grab().Capturing() {
		t.Error("input capture should resume after the prompt")
	}
	if got := host.items[0].Name; got != "Logo corner" {
		t.Errorf("Name = %q, want %q", got, "Logo corner")
	}
	if note := lastNote(t, s, clock); note != "Item Renamed" {
		t.Errorf("notification = %q", note)
	}
}

func TestEdit_RenameRefreshesLabelHint(t *testing.T) {
	s, _, prompter, _ := newTestSession(t)
	prompter.text, prompter.ok = "Logo corner", true

	click(s, 100, 100, ButtonLeft)
	if got := s.Entries()[0].Hint; got != "Point (100, 100) (100, 100)" {
		t.Errorf("Hint = %q before rename", got)
	}
	press(s, KeyE)
	click(s, 100, 100, ButtonLeft)
	press(s, KeyR)

	if got := s.Entries()[0].Hint; got != "Logo corner (100, 100)" {
		t.Errorf("Hint = %q, want %q", got, "Logo corner (100, 100)")
	}
}

func TestEdit_RenameClearsShift(t *testing.T) {
	s, host, prompter, _ := newTestSession(t)
	prompter.text, prompter.ok = "x", true

	click(s, 100, 100, ButtonLeft)
	press(s, KeyShift)
	press(s, KeyE)
	click(s, 100, 100, ButtonLeft)
	// The Shift release is delivered to the prompt, not the session.
	press(s, KeyR)

	if s.ShiftHeld() {
		t.Fatal("ShiftHeld() = true after the prompt closed")
	}

	press(s, KeyE)
	click(s, 100, 100, ButtonRight)
	click(s, 250, 103, ButtonLeft)
	m := host.items[len(host.items)-1]
	if !m.AutoAligned || m.Y2 != 100 {
		t.Errorf("measurement after rename = (%d, %d) auto=%v, want snapped", m.X2, m.Y2, m.AutoAligned)
	}
}

func TestEdit_RenameCancelledOrEmpty(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
	}{
		{"cancelled", "ignored", false},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, host, prompter, clock := newTestSession(t)
			prompter.text, prompter.ok = tt.text, tt.ok

			click(s, 100, 100, ButtonLeft)
			press(s, KeyE)
			click(s, 100, 100, ButtonLeft)
			before := len(s.Frame(clock.Now()).Notifications)
			press(s, KeyR)

			if got := host.items[0].Name; got != "Point (100, 100)" {
				t.Errorf("Name = %q, want unchanged", got)
			}
			if len(host.renamed) != 0 {
				t.Error("host rename should not be called")
			}
			if after := len(s.Frame(clock.Now()).Notifications); after != before {
				t.Errorf("notifications %d -> %d, want no new notification", before, after)
			}
			if !s.Grab().Capturing() {
				t.Error("input capture should resume after a cancelled prompt")
			}
		})
	}
}

func TestEdit_RenameRejectedByHost(t *testing.T) {
	s, host, prompter, _ := newTestSession(t)
	prompter.text, prompter.ok = "New", true

	click(s, 100, 100, ButtonLeft)
	press(s, KeyE)
	click(s, 100, 100, ButtonLeft)
	host.rejectRename = true
	press(s, KeyR)

	if got := s.Entries()[0].Item.Name; got != "Point (100, 100)" {
		t.Errorf("Name = %q, want unchanged", got)
	}
}

func TestSuspendedGrabIgnoresInput(t *testing.T) {
	s, host, prompter, _ := newTestSession(t)
	prompter.text, prompter.ok = "x", true
	prompter.during = func() {
		s.Handle(PointerPress{Pos: geom.Pt(5, 5), Button: ButtonLeft})
		s.Handle(KeyPress{Key: KeyE})
	}

	click(s, 100, 100, ButtonLeft)
	press(s, KeyE)
	click(s, 100, 100, ButtonLeft)
	press(s, KeyR)

	if len(host.items) != 1 {
		t.Errorf("host has %d items, want 1: input during the prompt leaked", len(host.items))
	}
	if s.Mode() != ModeEdit {
		t.Errorf("Mode() = %v, want %v", s.Mode(), ModeEdit)
	}
}

func TestEdit_EscapeReturnsToNormal(t *testing.T) {
	s, _, _, _ := newTestSession(t)

	click(s, 100, 100, ButtonLeft)
	press(s, KeyE)
	click(s, 100, 100, ButtonLeft)
	press(s, KeyEscape)

	if s.Mode() != ModeNormal {
		t.Errorf("Mode() = %v, want %v", s.Mode(), ModeNormal)
	}
	if _, ok := s.Selected(); ok {
		t.Error("selection should be cleared")
	}
	if s.Done() {
		t.Error("escape from edit mode must not end the session")
	}
}

func TestNormal_EscapeTerminates(t *testing.T) {
	for _, k := range []Key{KeyEscape, KeyQ} {
		t.Run(k.String(), func(t *testing.T) {
			var changes []bool
			grab := NewInputGrab(func(c bool) { changes = append(changes, c) })
			s := NewSession(newFakeHost(), &fakePrompter{}, WithInputGrab(grab))

			press(s, k)

			if !s.Done() {
				t.Error("Done() = false, want true")
			}
			if !grab.Released() {
				t.Error("grab should be released on termination")
			}
			if len(changes) != 1 || changes[0] {
				t.Errorf("grab changes = %v, want [false]", changes)
			}

			s.Handle(PointerPress{Pos: geom.Pt(1, 1), Button: ButtonLeft})
			if len(s.Entries()) != 0 {
				t.Error("events after termination should be ignored")
			}
		})
	}
}

func TestAnyMode_CornerAndHelp(t *testing.T) {
	s, _, _, _ := newTestSession(t)

	want := []Corner{CornerTopRight, CornerBottomRight, CornerBottomLeft, CornerTopLeft}
	for i, c := range want {
		press(s, KeySpace)
		if s.Corner() != c {
			t.Errorf("after %d presses Corner() = %v, want %v", i+1, s.Corner(), c)
		}
	}

	press(s, KeyE)
	press(s, KeyH)
	if s.HelpVisible() {
		t.Error("H should hide help")
	}
	press(s, KeyH)
	if !s.HelpVisible() {
		t.Error("H should show help again")
	}
	if s.Mode() != ModeEdit {
		t.Errorf("Mode() = %v, want %v", s.Mode(), ModeEdit)
	}
}

func TestHostAppendFailure(t *testing.T) {
	s, host, _, clock := newTestSession(t)
	host.failAppend = true

	click(s, 10, 10, ButtonLeft)
	if len(s.Entries()) != 0 {
		t.Errorf("session has %d entries, want 0", len(s.Entries()))
	}
	if note := lastNote(t, s, clock); note != "Capture failed" {
		t.Errorf("notification = %q", note)
	}

	click(s, 10, 10, ButtonRight)
	click(s, 20, 20, ButtonLeft)
	if len(s.Entries()) != 0 {
		t.Errorf("session has %d entries, want 0", len(s.Entries()))
	}
	if s.Mode() != ModeNormal {
		t.Errorf("Mode() = %v, want %v", s.Mode(), ModeNormal)
	}
}

func TestFrame_NotificationsExpire(t *testing.T) {
	s, _, _, clock := newTestSession(t)

	click(s, 1, 2, ButtonLeft)
	if n := len(s.Frame(clock.Now()).Notifications); n != 1 {
		t.Fatalf("live notifications = %d, want 1", n)
	}
	clock.t = clock.t.Add(2100 * time.Millisecond)
	if n := len(s.Frame(clock.Now()).Notifications); n != 0 {
		t.Errorf("live notifications = %d, want 0 after expiry", n)
	}
}

func TestFrame_RulerEnd(t *testing.T) {
	s, _, _, clock := newTestSession(t)

	click(s, 100, 100, ButtonRight)
	s.Handle(PointerMove{Pos: geom.Pt(250, 103)})

	fs := s.Frame(clock.Now())
	if !fs.HasAnchor || fs.Anchor != geom.Pt(100, 100) {
		t.Fatalf("anchor = %v (%v), want (100, 100)", fs.Anchor, fs.HasAnchor)
	}
	if got := fs.RulerEnd(); got != geom.Pt(250, 100) {
		t.Errorf("RulerEnd() = %v, want (250, 100)", got)
	}
}

func TestWithHitThreshold(t *testing.T) {
	s, _, _, _ := newTestSession(t, WithHitThreshold(5))

	click(s, 100, 100, ButtonLeft)
	press(s, KeyE)
	click(s, 106, 100, ButtonLeft)
	if _, ok := s.Selected(); ok {
		t.Error("point 6px away should miss with a 5px threshold")
	}
}
