// Package store persists the document: the ordered forest of captured items.
//
// Two backends are provided. [JSONStore] writes the history file format that
// older versions of the tool produced and is the default. [SQLiteStore] keeps
// the same tree in a single table. Both replace the whole document on Save.
package store

import (
	"context"

	"github.com/Iron-Ham/screencoord/internal/errors"
	"github.com/Iron-Ham/screencoord/internal/item"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Store loads and saves a whole document.
type Store interface {
	// Load returns the saved items. A store that has never been saved
	// returns an empty list and no error.
	Load(ctx context.Context) ([]*item.Item, error)
	// Save replaces the saved document with items.
	Save(ctx context.Context, items []*item.Item) error
	// Backend returns the backend name.
	Backend() string
	// Close releases resources held by the store.
	Close() error
}

// Open returns the store for backend at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONStore(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.NewStoreError("cannot open store", errors.ErrUnknownBackend).WithBackend(backend)
	}
}
