package tui

import (
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/screencoord/internal/event"
)

// documentEventMsg carries a change published by the document.
type documentEventMsg struct {
	event event.Event
}

// captureFinishedMsg is sent when the overlay subprocess exits.
type captureFinishedMsg struct {
	err error
}

// waitForEvent blocks until the document publishes something.
func waitForEvent(ch <-chan event.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return documentEventMsg{event: ev}
	}
}

// runCapture hands the terminal to the overlay process until it exits.
func runCapture(cmd *exec.Cmd) tea.Cmd {
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return captureFinishedMsg{err: err}
	})
}
