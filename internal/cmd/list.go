package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/screencoord/internal/config"
	"github.com/Iron-Ham/screencoord/internal/item"
	"github.com/Iron-Ham/screencoord/internal/logging"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved coordinates and measurements",
	Long: `List the saved document as a tree. Each line starts with the item ID;
other commands accept any unique prefix of it.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listJSON bool

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print the document in its saved JSON form")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	tree, st, err := openDocument(cmd.Context(), cfg, logging.NopLogger())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	out := cmd.OutOrStdout()
	items := tree.Items()

	if listJSON {
		data, err := item.MarshalList(items)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(items) == 0 {
		fmt.Fprintln(out, "No items. Run 'screencoord capture' to add some.")
		return nil
	}
	item.Walk(items, func(it, _ *item.Item, depth int) bool {
		fmt.Fprintf(out, "%s  %s%s - %s\n", it.ID, strings.Repeat("  ", depth), it.Label(), it.Detail())
		return true
	})
	return nil
}
