// Package screen grabs a still image of the desktop. The capture overlay
// draws it as a frozen backdrop so the user measures what was on screen
// when the overlay opened.
//
// Capture shells out to the platform's screenshot tool; the first installed
// tool from [DefaultTools] wins.
package screen

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/image/draw"

	"github.com/Iron-Ham/screencoord/internal/errors"
	"github.com/Iron-Ham/screencoord/internal/logging"
)

// Tool is an external screenshot command.
type Tool struct {
	Name string
	// Args returns the arguments that write a full-screen PNG to out.
	Args func(out string) []string
	// Wayland marks tools that only work under a Wayland compositor.
	Wayland bool
}

// DefaultTools returns the screenshot tools tried on goos, in order.
func DefaultTools(goos string) []Tool {
	switch goos {
	case "darwin":
		return []Tool{
			{Name: "screencapture", Args: func(out string) []string { return []string{"-x", "-m", "-t", "png", out} }},
		}
	case "linux", "freebsd", "openbsd", "netbsd":
		return []Tool{
			{Name: "grim", Args: func(out string) []string { return []string{out} }, Wayland: true},
			{Name: "gnome-screenshot", Args: func(out string) []string { return []string{"-f", out} }},
			{Name: "scrot", Args: func(out string) []string { return []string{"-o", out} }},
			{Name: "import", Args: func(out string) []string { return []string{"-window", "root", out} }},
		}
	default:
		return nil
	}
}

// Capturer runs a screenshot tool and decodes its output.
type Capturer struct {
	tools    []Tool
	logger   *logging.Logger
	lookPath func(string) (string, error)
	command  func(ctx context.Context, name string, args ...string) *exec.Cmd
	wayland  bool
}

// New returns a Capturer for the current platform.
func New(logger *logging.Logger) *Capturer {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Capturer{
		tools:    DefaultTools(runtime.GOOS),
		logger:   logger.WithComponent("screen"),
		lookPath: exec.LookPath,
		command:  exec.CommandContext,
		wayland:  os.Getenv("WAYLAND_DISPLAY") != "",
	}
}

// Tool returns the tool Capture would run.
func (c *Capturer) Tool() (Tool, error) {
	for _, t := range c.tools {
		if t.Wayland && !c.wayland {
			continue
		}
		if _, err := c.lookPath(t.Name); err == nil {
			return t, nil
		}
	}
	names := make([]string, 0, len(c.tools))
	for _, t := range c.tools {
		names = append(names, t.Name)
	}
	return Tool{}, errors.NewCaptureError(
		fmt.Sprintf("install one of: %s", strings.Join(names, ", ")),
		errors.ErrNoScreenshotTool,
	).WithSeverity(errors.SeverityWarning)
}

// Capture takes a screenshot of the whole desktop.
func (c *Capturer) Capture(ctx context.Context) (image.Image, error) {
	tool, err := c.Tool()
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "screencoord-screen-*")
	if err != nil {
		return nil, errors.NewCaptureError("failed to create temp dir", err).WithTool(tool.Name)
	}
	defer func() { _ = os.RemoveAll(dir) }()
	out := filepath.Join(dir, "screen.png")

	cmd := c.command(ctx, tool.Name, tool.Args(out)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		c.logger.Error("screenshot failed", "tool", tool.Name, "error", err, "stderr", stderr.String())
		return nil, errors.NewCaptureError("screenshot failed", err).WithTool(tool.Name)
	}

	img, err := decodeFile(out)
	if err != nil {
		return nil, errors.NewCaptureError("failed to decode screenshot", err).WithTool(tool.Name)
	}
	c.logger.Debug("screenshot captured", "tool", tool.Name, "size", img.Bounds().Size().String())
	return img, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	return img, err
}

// FitInto scales img into dst's bounds. The window blits each frame through
// it when the window is not the size of the screen, e.g. a HiDPI screenshot
// shown in a window sized in logical pixels.
func FitInto(dst *image.RGBA, img image.Image) {
	if img.Bounds().Size() == dst.Bounds().Size() {
		draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
		return
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
}
