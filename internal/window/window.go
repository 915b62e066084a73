package window

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/gogpu/gg"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/Iron-Ham/screencoord/internal/errors"
	"github.com/Iron-Ham/screencoord/internal/logging"
	"github.com/Iron-Ham/screencoord/internal/overlay"
	scr "github.com/Iron-Ham/screencoord/internal/screen"
)

// Options configures a Window.
type Options struct {
	Title  string
	Width  int
	Height int
	// TickInterval is the repaint cadence.
	TickInterval time.Duration
	// Backdrop, if set, is drawn behind the overlay. Its size is the screen
	// size and overrides Width and Height as the drawing surface.
	Backdrop image.Image
	Fonts    *overlay.Fonts
	Logger   *logging.Logger
}

// tickEvent asks the loop to repaint.
type tickEvent struct{}

// quitEvent asks the loop to stop.
type quitEvent struct{}

// Window runs one overlay session in a native window.
type Window struct {
	opts     Options
	logger   *logging.Logger
	renderer *overlay.Renderer
	session  *overlay.Session

	win screen.Window
	scr screen.Screen
	buf screen.Buffer
	// dc is the frame in surface (screen) pixels; buf is the window's size.
	dc      *gg.Context
	surface image.Point
	vp      viewport
	width   int
	height  int
	prompt  *promptState
	closed  bool
}

// New returns a Window. The session is attached by Run; the Window can be
// passed to overlay.NewSession as its Prompter beforehand.
func New(opts Options) *Window {
	if opts.Title == "" {
		opts.Title = "screencoord"
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = 16 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	surface := image.Pt(opts.Width, opts.Height)
	if opts.Backdrop != nil {
		surface = opts.Backdrop.Bounds().Size()
	}
	return &Window{
		opts:    opts,
		logger:  opts.Logger.WithComponent("window"),
		surface: surface,
		vp:      newViewport(surface, surface.X, surface.Y),
		width:   surface.X,
		height:  surface.Y,
	}
}

// Run opens the window and drives session until it terminates, the window
// is closed, or ctx is canceled. It must be called from the main goroutine.
func (w *Window) Run(ctx context.Context, session *overlay.Session) error {
	if w.opts.Fonts == nil {
		return errors.NewCaptureError("window needs fonts", errors.ErrInvalidInput)
	}
	w.session = session
	w.renderer = overlay.NewRenderer(w.opts.Fonts)
	w.renderer.SetBackdrop(w.opts.Backdrop)

	var runErr error
	driver.Main(func(s screen.Screen) {
		runErr = w.loop(ctx, s)
	})
	return runErr
}

func (w *Window) loop(ctx context.Context, s screen.Screen) error {
	win, err := s.NewWindow(&screen.NewWindowOptions{
		Width:  w.width,
		Height: w.height,
		Title:  w.opts.Title,
	})
	if err != nil {
		return errors.NewCaptureError("failed to open window", errors.Join(errors.ErrNoDisplay, err))
	}
	w.scr, w.win = s, win
	w.dc = gg.NewContext(w.surface.X, w.surface.Y)
	defer func() {
		w.releaseSurface()
		win.Release()
		w.session.Grab().Release()
	}()

	if err := w.resize(w.width, w.height); err != nil {
		return err
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.pump(ctx, stop)
	}()
	defer func() {
		close(stop)
		wg.Wait()
	}()

	w.logger.Info("overlay opened",
		"width", w.width,
		"height", w.height,
		"surface", w.surface.String(),
	)
	for !w.closed {
		w.dispatch(win.NextEvent())
		if w.session.Done() {
			w.closed = true
		}
	}
	w.logger.Info("overlay closed")
	return nil
}

// pump sends ticks into the event loop until stop closes. It never touches
// session state.
func (w *Window) pump(ctx context.Context, stop <-chan struct{}) {
	t := time.NewTicker(w.opts.TickInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			w.win.Send(quitEvent{})
			return
		case <-t.C:
			w.win.Send(tickEvent{})
		}
	}
}

// dispatch handles one event from the loop.
func (w *Window) dispatch(e any) {
	switch e := e.(type) {
	case lifecycle.Event:
		if e.To == lifecycle.StageDead {
			w.closed = true
		}
	case quitEvent:
		w.closed = true
	case size.Event:
		if err := w.resize(e.WidthPx, e.HeightPx); err != nil {
			w.logger.Error("resize failed", "error", err)
		}
	case paint.Event, tickEvent:
		w.paint()
	case mouse.Event:
		for _, ev := range translateMouse(e, w.vp) {
			w.session.Handle(ev)
		}
	case key.Event:
		if ev, ok := translateKey(e); ok {
			w.session.Handle(ev)
		}
	case error:
		w.logger.Error("window error", "error", e)
	}
}

// PromptText implements overlay.Prompter. It blocks, pumping window events
// into the prompt box until the user confirms or cancels.
func (w *Window) PromptText(title, label, initial string) (string, bool) {
	if w.win == nil || w.closed {
		return "", false
	}
	p := newPrompt(title, label, initial)
	w.prompt = p
	defer func() { w.prompt = nil }()
	w.paint()

	for {
		switch e := w.win.NextEvent().(type) {
		case key.Event:
			switch p.apply(e) {
			case promptAccepted:
				return p.Text(), true
			case promptCanceled:
				return "", false
			}
			w.paint()
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				w.closed = true
				return "", false
			}
		case quitEvent:
			w.closed = true
			return "", false
		case size.Event:
			if err := w.resize(e.WidthPx, e.HeightPx); err != nil {
				w.logger.Error("resize failed", "error", err)
			}
		case paint.Event, tickEvent:
			w.paint()
		}
	}
}

// resize reallocates the window buffer. The frame keeps the surface size;
// the viewport maps window pixels back onto it.
func (w *Window) resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if w.buf != nil && width == w.width && height == w.height {
		return nil
	}
	if w.buf != nil {
		w.buf.Release()
		w.buf = nil
	}

	buf, err := w.scr.NewBuffer(image.Pt(width, height))
	if err != nil {
		return errors.NewCaptureError("failed to allocate frame buffer", err)
	}
	w.buf = buf
	w.width, w.height = width, height
	w.vp = newViewport(w.surface, width, height)
	if !w.vp.identity() {
		w.logger.Debug("window scaled", "window", image.Pt(width, height).String(), "surface", w.surface.String())
	}
	return nil
}

func (w *Window) releaseSurface() {
	if w.buf != nil {
		w.buf.Release()
		w.buf = nil
	}
	if w.dc != nil {
		_ = w.dc.Close()
		w.dc = nil
	}
}

// paint renders the current frame and publishes it.
func (w *Window) paint() {
	if w.buf == nil || w.dc == nil {
		return
	}
	if err := w.renderer.Render(w.dc, w.session.Frame(time.Now())); err != nil {
		w.logger.Warn("render failed", "error", err)
	}
	if w.prompt != nil {
		if err := w.prompt.draw(w.dc, w.opts.Fonts); err != nil {
			w.logger.Warn("prompt render failed", "error", err)
		}
	}
	scr.FitInto(w.buf.RGBA(), w.dc.Image())
	w.win.Upload(image.Point{}, w.buf, w.buf.Bounds())
	w.win.Publish()
}
