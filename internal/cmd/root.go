package cmd

import (
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/screencoord/internal/config"
	"github.com/Iron-Ham/screencoord/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "screencoord",
	Short: "Capture screen coordinates and measurements",
	Long: `screencoord opens a transparent overlay over the screen to capture
pixel coordinates and ruler measurements, and keeps them in a document you
can organize into folders and export.

Without a subcommand it opens the terminal browser for the saved document.
Run 'screencoord capture' to open the overlay directly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBrowse,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.config/screencoord/config.yaml)")
	rootCmd.PersistentFlags().String("backend", "", "store backend: json or sqlite")
	rootCmd.PersistentFlags().String("data-file", "", "document file (default is in the data directory)")
	bindFlags()
}

func bindFlags() {
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("store.backend", rootCmd.PersistentFlags().Lookup("backend"))
	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("data-file"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SCREENCOORD")
	// e.g. SCREENCOORD_STORE_BACKEND for store.backend
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	tree, st, err := openDocument(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	app := tui.New(tree, tui.Options{
		Theme:          cfg.TUI.Theme,
		ExportFormat:   cfg.Export.DefaultFormat,
		CaptureCommand: captureCommand,
		Logger:         logger,
	})
	return app.Run()
}

// captureCommand re-executes this binary in capture mode, passing the
// resolved store location along so both processes share one document.
func captureCommand() *exec.Cmd {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	args := []string{"capture"}
	if f := viper.ConfigFileUsed(); f != "" {
		args = append(args, "--config", f)
	}
	if b := viper.GetString("store.backend"); b != "" {
		args = append(args, "--backend", b)
	}
	if p := viper.GetString("store.path"); p != "" {
		args = append(args, "--data-file", p)
	}
	return exec.Command(exe, args...)
}
