package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/screencoord/internal/document"
	"github.com/Iron-Ham/screencoord/internal/event"
	"github.com/Iron-Ham/screencoord/internal/export"
	"github.com/Iron-Ham/screencoord/internal/item"
	"github.com/Iron-Ham/screencoord/internal/logging"
)

// promptKind is the question the footer is currently asking.
type promptKind int

const (
	promptNone promptKind = iota
	promptRename
	promptFolder
	promptGroup
	promptExport
	promptClear
)

const eventBuffer = 64

// Options configures the browser.
type Options struct {
	// Theme is "light" or "dark".
	Theme string
	// ExportFormat is used when the export path has no known extension.
	ExportFormat string
	// CaptureCommand builds the process that runs the capture overlay.
	// Nil disables capturing from the browser.
	CaptureCommand func() *exec.Cmd
	Logger         *logging.Logger
}

// Model is the bubbletea model of the document browser.
type Model struct {
	tree   *document.Tree
	opts   Options
	logger *logging.Logger

	keys  keyMap
	help  help.Model
	theme Theme

	rows   []row
	cursor int
	offset int
	width  int
	height int
	marked map[item.ID]bool

	prompt  promptKind
	target  item.ID
	pending []item.ID
	input   textinput.Model

	status    string
	statusErr bool

	events chan event.Event
	subID  string
}

// NewModel creates a browser over tree and subscribes to its changes.
func NewModel(tree *document.Tree, opts Options) *Model {
	if opts.ExportFormat == "" {
		opts.ExportFormat = export.FormatText
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 200

	m := &Model{
		tree:   tree,
		opts:   opts,
		logger: logger.WithComponent("tui"),
		keys:   defaultKeyMap(),
		help:   help.New(),
		theme:  ThemeFor(opts.Theme),
		marked: make(map[item.ID]bool),
		input:  input,
		events: make(chan event.Event, eventBuffer),
	}
	m.subID = tree.Bus().SubscribeAll(func(e event.Event) {
		select {
		case m.events <- e:
		default:
		}
	})
	m.refresh()
	return m
}

// Close stops listening for document changes.
func (m *Model) Close() {
	m.tree.Bus().Unsubscribe(m.subID)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(10, msg.Width-20)
		m.clampScroll()
		return m, nil

	case documentEventMsg:
		m.refresh()
		if text, isErr := describe(msg.event); text != "" {
			m.setStatus(text, isErr)
		}
		return m, waitForEvent(m.events)

	case captureFinishedMsg:
		if msg.err != nil {
			m.fail("capture failed", msg.err)
		}
		if err := m.tree.Reload(context.Background()); err != nil {
			m.fail("reload failed", err)
			return m, nil
		}
		m.refresh()
		if msg.err == nil {
			m.setStatus(fmt.Sprintf("Capture finished, %d items", item.Count(m.tree.Items())), false)
		}
		return m, nil

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	sel := m.selected()

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Up):
		m.moveCursor(-1)
	case key.Matches(msg, k.Down):
		m.moveCursor(1)
	case key.Matches(msg, k.Top):
		m.cursor = 0
	case key.Matches(msg, k.Bottom):
		m.cursor = max(0, len(m.rows)-1)

	case key.Matches(msg, k.Toggle):
		if sel != nil && sel.item.IsFolder() {
			m.check(m.tree.SetExpanded(sel.item.ID, !sel.item.Expanded))
		}
	case key.Matches(msg, k.Collapse):
		if sel == nil {
			break
		}
		if sel.item.IsFolder() && sel.item.Expanded {
			m.check(m.tree.SetExpanded(sel.item.ID, false))
		} else if i := indexOf(m.rows, sel.parentID); sel.parentID != "" && i >= 0 {
			m.cursor = i
		}
	case key.Matches(msg, k.Expand):
		if sel != nil && sel.item.IsFolder() && !sel.item.Expanded {
			m.check(m.tree.SetExpanded(sel.item.ID, true))
		}

	case key.Matches(msg, k.Rename):
		if sel != nil {
			m.target = sel.item.ID
			return m, m.openPrompt(promptRename, sel.item.Name)
		}
	case key.Matches(msg, k.Delete):
		if sel != nil {
			delete(m.marked, sel.item.ID)
			m.check(m.tree.Remove(sel.item.ID))
		}
	case key.Matches(msg, k.NewFolder):
		m.target = ""
		if sel != nil && sel.item.IsFolder() {
			m.target = sel.item.ID
		}
		return m, m.openPrompt(promptFolder, item.DefaultFolderName)
	case key.Matches(msg, k.Mark):
		if sel != nil {
			if m.marked[sel.item.ID] {
				delete(m.marked, sel.item.ID)
			} else {
				m.marked[sel.item.ID] = true
			}
			m.moveCursor(1)
		}
	case key.Matches(msg, k.Group):
		m.pending = m.markedIDs()
		if len(m.pending) == 0 && sel != nil {
			m.pending = []item.ID{sel.item.ID}
		}
		if len(m.pending) == 0 {
			m.setStatus("Nothing to group", false)
			break
		}
		return m, m.openPrompt(promptGroup, item.DefaultFolderName)
	case key.Matches(msg, k.Indent):
		m.indent(sel)
	case key.Matches(msg, k.Outdent):
		m.outdent(sel)
	case key.Matches(msg, k.MoveUp):
		m.shift(sel, -1)
	case key.Matches(msg, k.MoveDown):
		m.shift(sel, 1)

	case key.Matches(msg, k.Capture):
		if m.opts.CaptureCommand == nil {
			m.setStatus("Capture is not available", true)
			break
		}
		m.logger.Info("starting capture overlay")
		return m, runCapture(m.opts.CaptureCommand())
	case key.Matches(msg, k.Export):
		return m, m.openPrompt(promptExport, export.DefaultFileName(m.opts.ExportFormat))
	case key.Matches(msg, k.Clear):
		if m.tree.Len() == 0 {
			m.setStatus("Nothing to clear", false)
			break
		}
		m.prompt = promptClear
	case key.Matches(msg, k.Theme):
		m.theme = m.theme.Toggle()
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	m.refresh()
	return m, nil
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt == promptClear {
		if s := msg.String(); s == "y" || s == "Y" {
			if n, err := m.tree.Clear(); m.check(err) {
				m.marked = make(map[item.ID]bool)
				m.logger.Info("cleared document", "removed", n)
			}
		} else {
			m.setStatus("Clear canceled", false)
		}
		m.prompt = promptNone
		m.refresh()
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		m.setStatus("Canceled", false)
		return m, nil
	case tea.KeyEnter:
		kind, value := m.prompt, strings.TrimSpace(m.input.Value())
		m.closePrompt()
		m.submit(kind, value)
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit(kind promptKind, value string) {
	switch kind {
	case promptRename:
		if value == "" {
			m.setStatus("Name unchanged", false)
			return
		}
		m.check(m.tree.Rename(m.target, value))

	case promptFolder:
		if value == "" {
			value = item.DefaultFolderName
		}
		folder, err := m.tree.AddFolder(value, m.target)
		if !m.check(err) {
			return
		}
		if m.target != "" {
			m.check(m.tree.SetExpanded(m.target, true))
		}
		m.selectID(folder.ID)

	case promptGroup:
		if value == "" {
			value = item.DefaultFolderName
		}
		folder, err := m.tree.Group(m.pending, value)
		m.pending = nil
		if !m.check(err) {
			return
		}
		m.marked = make(map[item.ID]bool)
		m.selectID(folder.ID)

	case promptExport:
		if value == "" {
			value = export.DefaultFileName(m.opts.ExportFormat)
		}
		m.exportTo(value)
	}
}

func (m *Model) exportTo(path string) {
	items := m.tree.Items()
	format := export.FormatForPath(path, m.opts.ExportFormat)

	f, err := os.Create(path)
	if err != nil {
		m.fail("export failed", err)
		return
	}
	err = export.Write(f, format, items)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		m.fail("export failed", err)
		return
	}
	m.logger.Info("exported document", "path", path, "format", format, "items", item.Count(items))
	m.setStatus(fmt.Sprintf("Exported %d items to %s", item.Count(items), path), false)
}

// indent moves the item into the folder directly above it.
func (m *Model) indent(sel *row) {
	if sel == nil {
		return
	}
	parentID, idx, err := m.tree.Locate(sel.item.ID)
	if !m.check(err) {
		return
	}
	siblings := m.siblings(parentID)
	if idx == 0 || idx > len(siblings) || !siblings[idx-1].IsFolder() {
		m.setStatus("No folder above", false)
		return
	}
	folder := siblings[idx-1]
	if !m.check(m.tree.Move(sel.item.ID, folder.ID, len(folder.Items))) {
		return
	}
	if !folder.Expanded {
		m.check(m.tree.SetExpanded(folder.ID, true))
	}
}

// outdent moves the item out of its folder, right after the folder.
func (m *Model) outdent(sel *row) {
	if sel == nil {
		return
	}
	if sel.parentID == "" {
		m.setStatus("Already at the top level", false)
		return
	}
	grandID, idx, err := m.tree.Locate(sel.parentID)
	if !m.check(err) {
		return
	}
	m.check(m.tree.Move(sel.item.ID, grandID, idx+1))
}

// shift moves the item one place among its siblings.
func (m *Model) shift(sel *row, delta int) {
	if sel == nil {
		return
	}
	parentID, idx, err := m.tree.Locate(sel.item.ID)
	if !m.check(err) {
		return
	}
	to := idx + delta
	if to < 0 || to >= len(m.siblings(parentID)) {
		return
	}
	m.check(m.tree.Move(sel.item.ID, parentID, to))
}

func (m *Model) siblings(parentID item.ID) []*item.Item {
	if parentID == "" {
		return m.tree.Items()
	}
	parent, ok := m.tree.FindByID(parentID)
	if !ok {
		return nil
	}
	return parent.Items
}

func (m *Model) markedIDs() []item.ID {
	var ids []item.ID
	item.Walk(m.tree.Items(), func(it, _ *item.Item, _ int) bool {
		if m.marked[it.ID] {
			ids = append(ids, it.ID)
		}
		return true
	})
	return ids
}

// refresh rebuilds the rows from the tree, keeping the cursor on the same
// item when it is still visible.
func (m *Model) refresh() {
	var current item.ID
	if sel := m.selected(); sel != nil {
		current = sel.item.ID
	}

	items := m.tree.Items()
	m.rows = flatten(items)
	for id := range m.marked {
		if found, _, _ := item.Find(items, id); found == nil {
			delete(m.marked, id)
		}
	}

	if i := indexOf(m.rows, current); i >= 0 {
		m.cursor = i
	}
	m.clampScroll()
}

func (m *Model) selectID(id item.ID) {
	m.refresh()
	if i := indexOf(m.rows, id); i >= 0 {
		m.cursor = i
	}
	m.clampScroll()
}

func (m *Model) selected() *row {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[m.cursor]
}

func (m *Model) moveCursor(delta int) {
	m.cursor = max(0, min(m.cursor+delta, len(m.rows)-1))
}

// listHeight is how many rows fit between the header and the footer.
func (m *Model) listHeight() int {
	if m.height == 0 {
		return len(m.rows)
	}
	footer := 3
	if m.help.ShowAll {
		footer += len(m.keys.FullHelp()[0])
	}
	return max(1, m.height-2-footer)
}

func (m *Model) clampScroll() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if h > 0 && m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(0, min(m.offset, len(m.rows)-h))
}

func (m *Model) openPrompt(kind promptKind, initial string) tea.Cmd {
	m.prompt = kind
	m.input.SetValue(initial)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// check reports err in the status line and returns whether err was nil.
func (m *Model) check(err error) bool {
	if err == nil {
		return true
	}
	m.fail("operation failed", err)
	return false
}

func (m *Model) fail(msg string, err error) {
	m.logger.Warn(msg, "error", err.Error())
	m.setStatus(err.Error(), true)
}

// describe turns a document event into a status line.
func describe(e event.Event) (string, bool) {
	switch ev := e.(type) {
	case event.ItemAddedEvent:
		return "Added " + ev.Kind, false
	case event.ItemRemovedEvent:
		return fmt.Sprintf("Removed %d item(s)", ev.Removed), false
	case event.ItemRenamedEvent:
		return fmt.Sprintf("Renamed to %q", ev.NewName), false
	case event.ItemMovedEvent:
		return "Moved", false
	case event.ItemsGroupedEvent:
		return fmt.Sprintf("Grouped %d item(s)", len(ev.ItemIDs)), false
	case event.DocumentClearedEvent:
		return fmt.Sprintf("Cleared %d item(s)", ev.Removed), false
	case event.DocumentSavedEvent:
		if ev.Err != nil {
			return "Save failed: " + ev.Err.Error(), true
		}
	}
	return "", false
}
