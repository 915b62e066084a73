package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/screencoord/internal/document"
	"github.com/Iron-Ham/screencoord/internal/errors"
	"github.com/Iron-Ham/screencoord/internal/geom"
	"github.com/Iron-Ham/screencoord/internal/item"
	"github.com/Iron-Ham/screencoord/internal/overlay"
	"github.com/Iron-Ham/screencoord/internal/store"
)

// executeCommand runs the root command with args and returns captured output
func executeCommand(args ...string) (string, error) {
	resetFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// setupTestEnvironment points every directory at a temp dir and resets the
// global command state, returning the document path.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	viper.Reset()
	bindFlags()

	return filepath.Join(dir, "data", "screencoord", "coordinates.json")
}

// resetFlags restores flag defaults; cobra keeps values between executions.
func resetFlags() {
	listJSON = false
	exportFormat = ""
	mkdirParent = ""
	groupName = item.DefaultFolderName
	mvParent = ""
	mvIndex = -1
	clearYes = false
	configInitForce = false
	logsTail, logsLevel, logsRun, logsComponent, logsSince, logsGrep = 50, "", "", "", 0, ""
	captureNoBackdrop = false
}

// seed writes a document with two points and a measurement.
func seed(t *testing.T, path string) []*item.Item {
	t.Helper()
	st, err := store.Open(store.BackendJSON, path)
	require.NoError(t, err)
	defer st.Close()

	tree, err := document.Open(context.Background(), st)
	require.NoError(t, err)
	_, err = tree.AppendCoordinate(10, 20)
	require.NoError(t, err)
	_, err = tree.AppendCoordinate(30, 40)
	require.NoError(t, err)
	_, err = tree.AppendMeasurement(0, 0, 30, 40, 50, false)
	require.NoError(t, err)
	return tree.Items()
}

func load(t *testing.T, path string) []*item.Item {
	t.Helper()
	st, err := store.Open(store.BackendJSON, path)
	require.NoError(t, err)
	defer st.Close()
	items, err := st.Load(context.Background())
	require.NoError(t, err)
	return items
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "screencoord", rootCmd.Use)

	cmdMap := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		cmdMap[c.Name()] = true
	}
	for _, want := range []string{"capture", "list", "export", "rename", "rm", "mkdir", "group", "mv", "clear", "config", "logs"} {
		assert.True(t, cmdMap[want], "expected subcommand %q", want)
	}
}

func TestList(t *testing.T) {
	path := setupTestEnvironment(t)

	out, err := executeCommand("list")
	require.NoError(t, err)
	assert.Contains(t, out, "No items")

	items := seed(t, path)
	out, err = executeCommand("list")
	require.NoError(t, err)
	assert.Contains(t, out, string(items[0].ID))
	assert.Contains(t, out, "Point (10, 20) - (10, 20)")
	assert.Contains(t, out, "50px (0,0)→(30,40)")

	out, err = executeCommand("list", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"type"`)
}

func TestRenameAndRemove(t *testing.T) {
	path := setupTestEnvironment(t)
	items := seed(t, path)

	_, err := executeCommand("rename", string(items[0].ID), "Login", "button")
	require.NoError(t, err)
	assert.Equal(t, "Login button", load(t, path)[0].Name)

	_, err = executeCommand("rm", string(items[1].ID))
	require.NoError(t, err)
	assert.Len(t, load(t, path), 2)

	_, err = executeCommand("rm", "ZZZZZZ")
	assert.Error(t, err)
}

func TestResolveID(t *testing.T) {
	tree := document.New(nil)
	a, err := tree.AppendCoordinate(1, 1)
	require.NoError(t, err)

	id, err := resolveID(tree, strings.ToLower(string(a.ID)[:20]))
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	_, err = tree.AppendCoordinate(2, 2)
	require.NoError(t, err)

	id, err = resolveID(tree, string(a.ID))
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	_, err = resolveID(tree, "0")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveID(tree, "ZZZZ")
	assert.ErrorContains(t, err, "not found")

	_, err = resolveID(tree, " ")
	assert.Error(t, err)
}

func TestFolders(t *testing.T) {
	path := setupTestEnvironment(t)
	items := seed(t, path)

	out, err := executeCommand("group", string(items[0].ID), string(items[1].ID), "--name", "Header")
	require.NoError(t, err)
	assert.Contains(t, out, `Grouped 2 item(s) into "Header"`)

	got := load(t, path)
	require.Len(t, got, 2)
	assert.Equal(t, "Header", got[0].Name)
	assert.Len(t, got[0].Items, 2)

	_, err = executeCommand("mkdir", "Inner", "--parent", string(got[0].ID))
	require.NoError(t, err)
	got = load(t, path)
	require.Len(t, got[0].Items, 3)
	inner := got[0].Items[2]
	assert.Equal(t, "Inner", inner.Name)

	// Move the measurement into the nested folder, then to the front of the top level.
	_, err = executeCommand("mv", string(items[2].ID), "--parent", string(inner.ID))
	require.NoError(t, err)
	got = load(t, path)
	require.Len(t, got, 1)
	assert.Equal(t, items[2].ID, got[0].Items[2].Items[0].ID)

	_, err = executeCommand("mv", string(items[2].ID), "--index", "0")
	require.NoError(t, err)
	got = load(t, path)
	require.Len(t, got, 2)
	assert.Equal(t, items[2].ID, got[0].ID)

	// A folder cannot go inside itself.
	_, err = executeCommand("mv", string(got[1].ID), "--parent", string(inner.ID))
	assert.Error(t, err)

	// Removing a folder and its child in one call removes the subtree once.
	out, err = executeCommand("rm", string(got[1].ID), string(items[0].ID))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "Removed"))
	assert.Len(t, load(t, path), 1)
}

func TestClear(t *testing.T) {
	path := setupTestEnvironment(t)
	seed(t, path)

	out, err := executeCommand("clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Canceled")
	assert.Len(t, load(t, path), 3)

	out, err = executeCommand("clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 3 items")
	assert.Empty(t, load(t, path))
}

func TestExport(t *testing.T) {
	path := setupTestEnvironment(t)
	seed(t, path)
	outDir := t.TempDir()

	mdPath := filepath.Join(outDir, "points.md")
	out, err := executeCommand("export", mdPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 items")
	data, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# "))

	out, err = executeCommand("export", "-", "--format", "txt")
	require.NoError(t, err)
	assert.Contains(t, out, "===========================")
	assert.Contains(t, out, "Point (30, 40)")

	_, err = executeCommand("export", "-", "--format", "pdf")
	assert.ErrorContains(t, err, "invalid format")
}

func TestExport_SQLiteBackend(t *testing.T) {
	setupTestEnvironment(t)
	t.Setenv("SCREENCOORD_STORE_BACKEND", "sqlite")

	_, err := executeCommand("mkdir", "Saved")
	require.NoError(t, err)

	out, err := executeCommand("export", "-", "--format", "md")
	require.NoError(t, err)
	assert.Contains(t, out, "**Saved**")
}

func TestConfig(t *testing.T) {
	setupTestEnvironment(t)

	out, err := executeCommand("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "start_corner: top-left")
	assert.Contains(t, out, "(none - using defaults)")

	out, err = executeCommand("config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created config file")
	_, err = executeCommand("config", "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = executeCommand("config", "set", "tui.theme", "dark")
	require.NoError(t, err)
	_, err = executeCommand("config", "set", "overlay.tick_interval_ms", "33")
	require.NoError(t, err)

	out, err = executeCommand("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "theme: dark")
	assert.Contains(t, out, "tick_interval_ms: 33")

	_, err = executeCommand("config", "set", "tui.theme", "purple")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
	_, err = executeCommand("config", "set", "no.such.key", "1")
	assert.ErrorContains(t, err, "unknown configuration key")

	out, err = executeCommand("config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join("screencoord", "config.yaml"))
}

func TestLogs(t *testing.T) {
	path := setupTestEnvironment(t)
	seed(t, path)

	_, err := executeCommand("export", filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)

	out, err := executeCommand("logs", "--grep", "exported")
	require.NoError(t, err)
	assert.Contains(t, out, "exported document")

	out, err = executeCommand("logs", "--level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "No matching log entries")
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	ReportError(&buf, errors.NewNotFoundError("item", "01ABC"))
	assert.Equal(t, "Warning: item '01ABC' not found\nRun 'screencoord list' to see item IDs.\n", buf.String())

	buf.Reset()
	ReportError(&buf, errors.NewNotFoundError("directory", "/missing").WithCause(os.ErrNotExist))
	assert.NotContains(t, buf.String(), "screencoord list")

	buf.Reset()
	ReportError(&buf, errors.NewStoreError("failed to save document", io.ErrShortWrite))
	assert.True(t, strings.HasPrefix(buf.String(), "Error: store error"))
	assert.NotContains(t, buf.String(), "screencoord logs")

	buf.Reset()
	ReportError(&buf, fmt.Errorf("boom"))
	assert.Contains(t, buf.String(), "Error: boom\n")
	assert.Contains(t, buf.String(), "screencoord logs --level error")

	buf.Reset()
	ReportError(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestExport_MissingDirectory(t *testing.T) {
	path := setupTestEnvironment(t)
	seed(t, path)

	_, err := executeCommand("export", filepath.Join(t.TempDir(), "nope", "out.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.False(t, errors.Is(err, errors.ErrItemNotFound))
}

func TestCaptureSummary_SkipsDeletedItems(t *testing.T) {
	tree := document.New(nil)
	s := overlay.NewSession(tree, nil)

	for _, x := range []int{10, 200} {
		p := geom.Pt(x, 20)
		s.Handle(overlay.PointerMove{Pos: p})
		s.Handle(overlay.PointerPress{Pos: p, Button: overlay.ButtonLeft})
	}
	s.Handle(overlay.KeyPress{Key: overlay.KeyE})
	s.Handle(overlay.PointerPress{Pos: geom.Pt(200, 20), Button: overlay.ButtonLeft})
	s.Handle(overlay.KeyPress{Key: overlay.KeyDelete})

	require.Equal(t, 1, tree.Len())
	assert.Equal(t, "Captured 1 item(s) in 3s", captureSummary(s, 3200*time.Millisecond))
}
