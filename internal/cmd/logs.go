package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/screencoord/internal/config"
	"github.com/Iron-Ham/screencoord/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the debug log",
	Long: `View and filter debug.log.

Examples:
  # Show the last 50 entries
  screencoord logs

  # Show everything from one capture run
  screencoord logs --run 01J... -n 0

  # Warnings and errors from the last hour
  screencoord logs --level warn --since 1h`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsTail      int
	logsLevel     string
	logsRun       string
	logsComponent string
	logsSince     time.Duration
	logsGrep      string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsRun, "run", "", "Only entries from this capture run")
	logsCmd.Flags().StringVar(&logsComponent, "component", "", "Only entries from this component")
	logsCmd.Flags().DurationVar(&logsSince, "since", 0, "Show entries newer than this (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Only entries whose message contains this text")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.StateDir(), logging.FileName)
	entries, err := logging.ReadEntries(path)
	if err != nil {
		return err
	}

	filter := logging.Filter{
		MinLevel:  logsLevel,
		RunID:     logsRun,
		Component: logsComponent,
		Contains:  logsGrep,
	}
	if logsSince > 0 {
		filter.Since = time.Now().Add(-logsSince)
	}
	entries = filter.Apply(entries)

	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No matching log entries")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(out, e.Format())
	}
	return nil
}
