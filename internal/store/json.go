package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Iron-Ham/screencoord/internal/errors"
	"github.com/Iron-Ham/screencoord/internal/filelock"
	"github.com/Iron-Ham/screencoord/internal/item"
)

// JSONStore keeps the document in one JSON file. Writes go to a temporary
// file that is renamed into place while a sidecar lock file is held.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store for the file at path. Nothing is touched on
// disk until the first Save.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the data file path.
func (s *JSONStore) Path() string { return s.path }

// Backend implements Store.
func (s *JSONStore) Backend() string { return BackendJSON }

// Close implements Store.
func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) lock() *filelock.Lock {
	return filelock.New(s.path + ".lock")
}

// Load implements Store. A missing or empty file is an empty document.
func (s *JSONStore) Load(ctx context.Context) ([]*item.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := s.lock()
	if err := l.Lock(); err != nil {
		return nil, s.fail("failed to lock document", err)
	}
	defer func() { _ = l.Unlock() }()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []*item.Item{}, nil
	}
	if err != nil {
		return nil, s.fail("failed to read document", err)
	}
	if len(data) == 0 {
		return []*item.Item{}, nil
	}

	items, err := item.UnmarshalList(data)
	if err != nil {
		return nil, s.fail("failed to parse document", errors.Join(errors.ErrStoreCorrupted, err))
	}
	if items == nil {
		items = []*item.Item{}
	}
	return items, nil
}

// Save implements Store.
func (s *JSONStore) Save(ctx context.Context, items []*item.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := item.MarshalList(items)
	if err != nil {
		return s.fail("failed to encode document", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return s.fail("failed to create data directory", err)
	}

	l := s.lock()
	if err := l.Lock(); err != nil {
		return s.fail("failed to lock document", err)
	}
	defer func() { _ = l.Unlock() }()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return s.fail("failed to write temp file", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return s.fail("failed to replace document", fmt.Errorf("rename temp file: %w", err))
	}
	return nil
}

func (s *JSONStore) fail(msg string, err error) error {
	return errors.NewStoreError(msg, err).WithBackend(BackendJSON).WithPath(s.path)
}
