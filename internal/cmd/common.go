package cmd

import (
	"context"
	"strings"

	"github.com/Iron-Ham/screencoord/internal/config"
	"github.com/Iron-Ham/screencoord/internal/document"
	"github.com/Iron-Ham/screencoord/internal/errors"
	"github.com/Iron-Ham/screencoord/internal/event"
	"github.com/Iron-Ham/screencoord/internal/item"
	"github.com/Iron-Ham/screencoord/internal/logging"
	"github.com/Iron-Ham/screencoord/internal/store"
)

// openLogger opens debug.log in the state directory, or a no-op logger when
// logging is disabled.
func openLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.NewLogger(cfg.StateDir(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}

// openDocument opens the configured store and loads the document from it.
// The caller closes the returned store.
func openDocument(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*document.Tree, store.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(cfg.Store.Backend, cfg.StorePath())
	if err != nil {
		return nil, nil, err
	}
	tree, err := document.Open(ctx, st,
		document.WithBus(event.NewBus(logger)),
		document.WithLogger(logger),
	)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return tree, st, nil
}

// resolveID finds the item whose ID is arg or starts with arg.
func resolveID(tree *document.Tree, arg string) (item.ID, error) {
	want := strings.ToUpper(strings.TrimSpace(arg))
	if want == "" {
		return "", errors.NewValidationError("item id is required").WithField("id")
	}

	var exact item.ID
	var matches []item.ID
	item.Walk(tree.Items(), func(it, _ *item.Item, _ int) bool {
		id := string(it.ID)
		if id == want {
			exact = it.ID
		} else if strings.HasPrefix(id, want) {
			matches = append(matches, it.ID)
		}
		return true
	})

	switch {
	case exact != "":
		return exact, nil
	case len(matches) == 1:
		return matches[0], nil
	case len(matches) == 0:
		return "", errors.NewNotFoundError("item", arg)
	default:
		return "", errors.NewValidationError("ambiguous item id").WithField("id").WithValue(arg)
	}
}
