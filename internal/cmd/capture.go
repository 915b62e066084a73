package cmd

import (
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/screencoord/internal/config"
	"github.com/Iron-Ham/screencoord/internal/event"
	"github.com/Iron-Ham/screencoord/internal/notify"
	"github.com/Iron-Ham/screencoord/internal/overlay"
	"github.com/Iron-Ham/screencoord/internal/screen"
	"github.com/Iron-Ham/screencoord/internal/window"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Open the capture overlay",
	Long: `Open the capture overlay over the screen.

Click to capture a coordinate. Right-click to start a ruler and click again
to finish; hold Shift for a free-form angle. Press E to select, delete (Delete) or rename (R) captures from
this run, H to toggle help, Space to move the readout, and Q or Escape to
finish. Everything captured is saved to the document immediately.`,
	Args: cobra.NoArgs,
	RunE: runCaptureOverlay,
}

var captureNoBackdrop bool

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().BoolVar(&captureNoBackdrop, "no-backdrop", false, "Do not freeze a screenshot behind the overlay")
}

func runCaptureOverlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	runID := ulid.Make().String()
	logger = logger.WithRun(runID)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tree, st, err := openDocument(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	width, height := cfg.Overlay.Width, cfg.Overlay.Height
	var backdrop image.Image
	if cfg.Overlay.Backdrop && !captureNoBackdrop {
		img, err := screen.New(logger).Capture(ctx)
		if err != nil {
			logger.Warn("continuing without backdrop", "error", err.Error())
		} else {
			backdrop = img
			width, height = img.Bounds().Dx(), img.Bounds().Dy()
		}
	}

	fonts, err := overlay.LoadFonts(fontSizes(cfg))
	if err != nil {
		return err
	}
	defer fonts.Close()

	corner, err := overlay.ParseCorner(cfg.Overlay.StartCorner)
	if err != nil {
		return err
	}

	win := window.New(window.Options{
		Title:        "screencoord",
		Width:        width,
		Height:       height,
		TickInterval: cfg.Overlay.TickInterval(),
		Backdrop:     backdrop,
		Fonts:        fonts,
		Logger:       logger,
	})
	session := overlay.NewSession(tree, win,
		overlay.WithHitThreshold(cfg.Overlay.HitThresholdPx),
		overlay.WithCorner(corner),
		overlay.WithHelpVisible(cfg.Overlay.HelpVisible),
		overlay.WithNotifications(notify.NewQueue(notify.WithTTL(cfg.Overlay.NotificationTTL()))),
		overlay.WithLogger(logger.WithComponent("overlay")),
	)

	bus := tree.Bus()
	started := time.Now()
	bus.Publish(event.NewCaptureStartedEvent(runID, width, height))
	logger.Info("capture started", "width", width, "height", height, "backend", tree.Backend())

	runErr := win.Run(ctx, session)

	elapsed := time.Since(started)
	captured := len(session.Entries())
	bus.Publish(event.NewCaptureEndedEvent(runID, captured, elapsed))
	logger.Info("capture ended", "captured", captured, "duration", elapsed.String())
	if runErr != nil {
		return runErr
	}

	fmt.Fprintln(cmd.OutOrStdout(), captureSummary(session, elapsed))
	return nil
}

// captureSummary describes a finished run. Items deleted during the run are
// not counted.
func captureSummary(session *overlay.Session, elapsed time.Duration) string {
	return fmt.Sprintf("Captured %d item(s) in %s", len(session.Entries()), elapsed.Round(time.Second))
}

func fontSizes(cfg *config.Config) overlay.FontSizes {
	f := cfg.Overlay.Fonts
	return overlay.FontSizes{
		HUD:          f.HUD,
		Title:        f.Title,
		Notification: f.Notification,
		Body:         f.Body,
		Small:        f.Small,
	}
}
