package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/screencoord/internal/config"
	"github.com/Iron-Ham/screencoord/internal/errors"
	"github.com/Iron-Ham/screencoord/internal/export"
	"github.com/Iron-Ham/screencoord/internal/item"
	"github.com/Iron-Ham/screencoord/internal/logging"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the document as text, Markdown or HTML",
	Long: `Export the saved document.

The format is taken from --format, then from the file extension (.txt, .md,
.html), then from export.default_format. Use "-" as the file to write to
standard output. Without a file, writes coordinates.<format> in the current
directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var exportFormat string

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: "+strings.Join(config.ValidExportFormats(), ", "))
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	if exportFormat != "" && !slices.Contains(config.ValidExportFormats(), exportFormat) {
		return errors.NewValidationError("invalid format, must be one of: " + strings.Join(config.ValidExportFormats(), ", ")).
			WithField("format").
			WithValue(exportFormat)
	}

	tree, st, err := openDocument(cmd.Context(), cfg, logging.NopLogger())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	format := exportFormat
	if format == "" {
		format = export.FormatForPath(path, cfg.Export.DefaultFormat)
	}
	if path == "" {
		path = export.DefaultFileName(format)
	}

	items := tree.Items()
	if path == "-" {
		return export.Write(cmd.OutOrStdout(), format, items)
	}

	f, err := os.Create(path)
	if errors.Is(err, os.ErrNotExist) {
		return errors.NewNotFoundError("directory", filepath.Dir(path)).WithCause(err)
	}
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	err = export.Write(f, format, items)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	logger.Info("exported document", "path", path, "format", format, "items", item.Count(items))
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d items to %s\n", item.Count(items), path)
	return nil
}
