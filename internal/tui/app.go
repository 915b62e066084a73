// Package tui is the terminal browser for the saved document: it lists the
// captured items as a tree and offers folder management, export and a key to
// launch the capture overlay.
package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/screencoord/internal/document"
)

// App wraps the bubbletea program.
type App struct {
	model   *Model
	program *tea.Program
}

// New creates an App browsing tree.
func New(tree *document.Tree, opts Options) *App {
	return &App{model: NewModel(tree, opts)}
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	defer a.model.Close()

	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	// Quit cleanly when the terminal goes away or we are told to stop.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigChan:
			a.program.Send(tea.Quit())
		case <-done:
		}
	}()

	_, err := a.program.Run()
	return err
}
