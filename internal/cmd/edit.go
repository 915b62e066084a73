package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/screencoord/internal/config"
	"github.com/Iron-Ham/screencoord/internal/document"
	"github.com/Iron-Ham/screencoord/internal/item"
)

var renameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename an item",
	Args:  cobra.MinimumNArgs(2),
	RunE: withDocument(func(cmd *cobra.Command, tree *document.Tree, args []string) error {
		id, err := resolveID(tree, args[0])
		if err != nil {
			return err
		}
		name := strings.Join(args[1:], " ")
		if err := tree.Rename(id, name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q\n", id, name)
		return nil
	}),
}

var removeCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"remove"},
	Short:   "Remove items and everything inside them",
	Args:    cobra.MinimumNArgs(1),
	RunE: withDocument(func(cmd *cobra.Command, tree *document.Tree, args []string) error {
		ids := make([]item.ID, 0, len(args))
		for _, arg := range args {
			id, err := resolveID(tree, arg)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		for _, id := range ids {
			// Removing a folder first may already have taken its children.
			if _, ok := tree.FindByID(id); !ok {
				continue
			}
			if err := tree.Remove(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
		}
		return nil
	}),
}

var (
	mkdirParent string
	groupName   string
	mvParent    string
	mvIndex     int
	clearYes    bool
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir [name]",
	Short: "Create a folder",
	Args:  cobra.MaximumNArgs(1),
	RunE: withDocument(func(cmd *cobra.Command, tree *document.Tree, args []string) error {
		var parent item.ID
		if mkdirParent != "" {
			id, err := resolveID(tree, mkdirParent)
			if err != nil {
				return err
			}
			parent = id
		}
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		folder, err := tree.AddFolder(name, parent)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created folder %q (%s)\n", folder.Name, folder.ID)
		return nil
	}),
}

var groupCmd = &cobra.Command{
	Use:   "group <id>...",
	Short: "Move items into a new folder",
	Long: `Move the given items into a new folder placed where the first item was.
Items keep the order they were given in.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withDocument(func(cmd *cobra.Command, tree *document.Tree, args []string) error {
		ids := make([]item.ID, 0, len(args))
		for _, arg := range args {
			id, err := resolveID(tree, arg)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		folder, err := tree.Group(ids, groupName)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Grouped %d item(s) into %q (%s)\n", len(folder.Items), folder.Name, folder.ID)
		return nil
	}),
}

var mvCmd = &cobra.Command{
	Use:   "mv <id>",
	Short: "Move an item into a folder or back to the top level",
	Long: `Move an item. --parent names the destination folder; without it the
item moves to the top level. --index is the position among the destination's
children; the default puts the item last.`,
	Args: cobra.ExactArgs(1),
	RunE: withDocument(func(cmd *cobra.Command, tree *document.Tree, args []string) error {
		id, err := resolveID(tree, args[0])
		if err != nil {
			return err
		}
		var parent item.ID
		if mvParent != "" {
			if parent, err = resolveID(tree, mvParent); err != nil {
				return err
			}
		}
		index := mvIndex
		if index < 0 {
			index = item.Count(tree.Items())
		}
		if err := tree.Move(id, parent, index); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Moved %s\n", id)
		return nil
	}),
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every item",
	Args:  cobra.NoArgs,
	RunE: withDocument(func(cmd *cobra.Command, tree *document.Tree, args []string) error {
		total := item.Count(tree.Items())
		if total == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to clear")
			return nil
		}
		if !clearYes {
			fmt.Fprintf(cmd.OutOrStdout(), "Delete all %d items? [y/N] ", total)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Canceled")
				return nil
			}
		}
		n, err := tree.Clear()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d items\n", n)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(renameCmd, removeCmd, mkdirCmd, groupCmd, mvCmd, clearCmd)

	mkdirCmd.Flags().StringVar(&mkdirParent, "parent", "", "Folder to create the new folder in")
	groupCmd.Flags().StringVarP(&groupName, "name", "n", item.DefaultFolderName, "Name of the new folder")
	mvCmd.Flags().StringVar(&mvParent, "parent", "", "Destination folder (default: top level)")
	mvCmd.Flags().IntVar(&mvIndex, "index", -1, "Position in the destination (default: last)")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Do not ask for confirmation")
}

// withDocument loads the configured document, runs fn against it, and closes
// the store afterwards.
func withDocument(fn func(cmd *cobra.Command, tree *document.Tree, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger, err := openLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Close() }()

		tree, st, err := openDocument(cmd.Context(), cfg, logger.WithComponent("cli"))
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		return fn(cmd, tree, args)
	}
}
