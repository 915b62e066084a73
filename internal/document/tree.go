// Package document owns the user's saved hierarchy of captures.
//
// [Tree] is the host side of the capture overlay: the overlay appends,
// removes and renames items through it, and the terminal browser and CLI
// use it for folder management. Every successful mutation is persisted
// through a [store.Store] before it returns; if persisting fails the
// mutation is rolled back and an error is reported. Every persisted
// mutation is announced on an [event.Bus].
//
// Tree is safe for concurrent use. Item pointers handed out by Tree belong to
// the tree; callers must not mutate them and should address items by ID.
package document

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Iron-Ham/screencoord/internal/errors"
	"github.com/Iron-Ham/screencoord/internal/event"
	"github.com/Iron-Ham/screencoord/internal/item"
	"github.com/Iron-Ham/screencoord/internal/logging"
	"github.com/Iron-Ham/screencoord/internal/store"
)

// saveRetryDelay is the pause before retrying a save that failed transiently.
const saveRetryDelay = 50 * time.Millisecond

// Tree is an ordered forest of items backed by a store.
type Tree struct {
	mu     sync.Mutex
	items  []*item.Item
	store  store.Store
	bus    *event.Bus
	logger *logging.Logger
}

// Option configures a Tree.
type Option func(*Tree)

// WithBus publishes change events on bus.
func WithBus(bus *event.Bus) Option {
	return func(t *Tree) { t.bus = bus }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(t *Tree) {
		if l != nil {
			t.logger = l.WithComponent("document")
		}
	}
}

// New returns an empty tree persisting to st. A nil st keeps the tree in
// memory only.
func New(st store.Store, opts ...Option) *Tree {
	if st == nil {
		st = store.NewMemoryStore()
	}
	t := &Tree{
		items:  []*item.Item{},
		store:  st,
		bus:    event.NewBus(nil),
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Open returns a tree loaded from st. Structural damage in the saved
// document is repaired by Sanitize.
func Open(ctx context.Context, st store.Store, opts ...Option) (*Tree, error) {
	t := New(st, opts...)
	if err := t.Reload(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload replaces the in-memory tree with the saved document.
func (t *Tree) Reload(ctx context.Context) error {
	items, err := t.store.Load(ctx)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = items
	if n := sanitize(&t.items); n > 0 {
		t.logger.Warn("repaired saved document", "promoted", n)
	}
	return nil
}

// Bus returns the bus change events are published on.
func (t *Tree) Bus() *event.Bus { return t.bus }

// Backend returns the name of the store backend.
func (t *Tree) Backend() string { return t.store.Backend() }

// Items returns a deep copy of the whole forest.
func (t *Tree) Items() []*item.Item {
	t.mu.Lock()
	defer t.mu.Unlock()
	return item.CloneList(t.items)
}

// Len returns the number of items in the forest, folders included.
func (t *Tree) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return item.Count(t.items)
}

// FindByID returns a copy of the item with id.
func (t *Tree) FindByID(id item.ID) (*item.Item, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	it, _, _ := item.Find(t.items, id)
	if it == nil {
		return nil, false
	}
	return it.Clone(), true
}

// Locate returns the id of the item's parent (empty at the root) and the
// item's index among its siblings.
func (t *Tree) Locate(id item.ID) (parentID item.ID, index int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	it, parent, idx := item.Find(t.items, id)
	if it == nil {
		return "", -1, errors.NewNotFoundError("item", string(id))
	}
	if parent != nil {
		parentID = parent.ID
	}
	return parentID, idx, nil
}

// mutate runs fn against the forest and persists the result. When fn or the
// save fails the forest is restored to its previous state. Events returned by
// fn are published after a successful save, outside the lock.
func (t *Tree) mutate(op string, fn func() ([]event.Event, error)) error {
	t.mu.Lock()
	prev := item.CloneList(t.items)

	events, err := fn()
	if err != nil {
		t.items = prev
		t.mu.Unlock()
		return err
	}
	sanitize(&t.items)

	count := item.Count(t.items)
	if err := t.save(op); err != nil {
		t.items = prev
		t.mu.Unlock()
		t.logger.Error("failed to save document", "op", op, "error", err)
		t.bus.Publish(event.NewDocumentSavedEvent(t.store.Backend(), count, err))
		return errors.Wrap(err, op)
	}
	t.mu.Unlock()

	t.logger.Debug("document saved", "op", op, "items", count)
	for _, e := range events {
		t.bus.Publish(e)
	}
	t.bus.Publish(event.NewDocumentSavedEvent(t.store.Backend(), count, nil))
	return nil
}

// save writes the forest, retrying once when the store reports a transient
// failure such as a locked database. Callers hold t.mu.
func (t *Tree) save(op string) error {
	err := t.store.Save(context.Background(), t.items)
	if err == nil || !errors.IsRetryable(err) {
		return err
	}
	t.logger.Warn("retrying save", "op", op, "error", err)
	time.Sleep(saveRetryDelay)
	return t.store.Save(context.Background(), t.items)
}

func (t *Tree) appendRoot(it *item.Item) (*item.Item, error) {
	err := t.mutate("append", func() ([]event.Event, error) {
		t.items = append(t.items, it)
		return []event.Event{event.NewItemAddedEvent(string(it.ID), it.Kind.String(), "")}, nil
	})
	if err != nil {
		return nil, err
	}
	t.logger.Info("item added", "id", string(it.ID), "kind", it.Kind.String(), "name", it.Name)
	return it.Clone(), nil
}

// AppendCoordinate implements the capture host: it appends a coordinate at
// the root and persists it.
func (t *Tree) AppendCoordinate(x, y int) (*item.Item, error) {
	return t.appendRoot(item.NewCoordinate(x, y))
}

// AppendMeasurement implements the capture host: it appends a measurement
// at the root and persists it.
func (t *Tree) AppendMeasurement(x1, y1, x2, y2 int, distance float64, autoAligned bool) (*item.Item, error) {
	return t.appendRoot(item.NewMeasurement(x1, y1, x2, y2, distance, autoAligned))
}

// Remove deletes the item and its descendants.
func (t *Tree) Remove(id item.ID) error {
	return t.mutate("remove", func() ([]event.Event, error) {
		it, parent, idx := item.Find(t.items, id)
		if it == nil {
			return nil, errors.NewNotFoundError("item", string(id))
		}
		removed := item.Count([]*item.Item{it})
		siblings := t.siblings(parent)
		*siblings = slices.Delete(*siblings, idx, idx+1)
		return []event.Event{event.NewItemRemovedEvent(string(id), removed)}, nil
	})
}

// RemoveByID implements the capture host. It reports whether the item was
// found and the removal persisted.
func (t *Tree) RemoveByID(id item.ID) bool {
	if err := t.Remove(id); err != nil {
		t.logger.Warn("remove rejected", "id", string(id), "error", err)
		return false
	}
	t.logger.Info("item removed", "id", string(id))
	return true
}

// Rename sets the item's name. Empty names are rejected.
func (t *Tree) Rename(id item.ID, name string) error {
	if name == "" {
		return errors.NewDocumentError("cannot rename item", errors.ErrEmptyName).WithItemID(string(id)).WithOp("rename")
	}
	return t.mutate("rename", func() ([]event.Event, error) {
		it, _, _ := item.Find(t.items, id)
		if it == nil {
			return nil, errors.NewNotFoundError("item", string(id))
		}
		old := it.Name
		it.Name = name
		return []event.Event{event.NewItemRenamedEvent(string(id), old, name)}, nil
	})
}

// RenameByID implements the capture host. It reports whether the item was
// found and the rename persisted.
func (t *Tree) RenameByID(id item.ID, name string) bool {
	if err := t.Rename(id, name); err != nil {
		t.logger.Warn("rename rejected", "id", string(id), "error", err)
		return false
	}
	t.logger.Info("item renamed", "id", string(id), "name", name)
	return true
}

// AddFolder creates an empty folder at the end of parentID's children, or of
// the root when parentID is empty.
func (t *Tree) AddFolder(name string, parentID item.ID) (*item.Item, error) {
	folder := item.NewFolder(name)
	err := t.mutate("add folder", func() ([]event.Event, error) {
		siblings, err := t.children(parentID)
		if err != nil {
			return nil, err
		}
		*siblings = append(*siblings, folder)
		return []event.Event{event.NewItemAddedEvent(string(folder.ID), folder.Kind.String(), string(parentID))}, nil
	})
	if err != nil {
		return nil, err
	}
	return folder.Clone(), nil
}

// Group moves the items named by ids into a new, expanded folder. The folder
// takes the position of the first item; the items keep the order of ids.
// Items nested inside another grouped item move along with it.
func (t *Tree) Group(ids []item.ID, name string) (*item.Item, error) {
	if len(ids) == 0 {
		return nil, errors.NewDocumentError("nothing to group", errors.ErrInvalidInput).WithOp("group")
	}
	folder := item.NewFolder(name)

	err := t.mutate("group", func() ([]event.Event, error) {
		var picked []*item.Item
		for _, id := range ids {
			it, _, _ := item.Find(t.items, id)
			if it == nil {
				return nil, errors.NewDocumentError("cannot group items", errors.ErrItemNotFound).WithItemID(string(id)).WithOp("group")
			}
			if !slices.Contains(picked, it) {
				picked = append(picked, it)
			}
		}
		picked = slices.DeleteFunc(picked, func(it *item.Item) bool {
			for _, other := range picked {
				if other != it && item.Contains(other, it.ID) {
					return true
				}
			}
			return false
		})

		// Anchor the folder before the first item, then lift the items into it.
		_, parent, idx := item.Find(t.items, picked[0].ID)
		siblings := t.siblings(parent)
		*siblings = slices.Insert(*siblings, idx, folder)

		moved := make([]string, 0, len(picked))
		for _, it := range picked {
			_, p, i := item.Find(t.items, it.ID)
			s := t.siblings(p)
			*s = slices.Delete(*s, i, i+1)
			folder.Items = append(folder.Items, it)
			moved = append(moved, string(it.ID))
		}
		return []event.Event{event.NewItemsGroupedEvent(string(folder.ID), moved)}, nil
	})
	if err != nil {
		return nil, err
	}
	return t.mustFind(folder.ID), nil
}

// Move places the item at index among parentID's children (the root when
// parentID is empty). The index counts positions after the item has been
// taken out and is clamped to the valid range. A folder cannot be moved into
// itself or its descendants.
func (t *Tree) Move(id, parentID item.ID, index int) error {
	return t.mutate("move", func() ([]event.Event, error) {
		it, parent, idx := item.Find(t.items, id)
		if it == nil {
			return nil, errors.NewNotFoundError("item", string(id))
		}
		if parentID != "" && item.Contains(it, parentID) {
			return nil, errors.NewDocumentError("cannot move item", errors.ErrInvalidMove).WithItemID(string(id)).WithOp("move")
		}
		dest, err := t.children(parentID)
		if err != nil {
			return nil, err
		}

		src := t.siblings(parent)
		*src = slices.Delete(*src, idx, idx+1)
		index = max(0, min(index, len(*dest)))
		*dest = slices.Insert(*dest, index, it)
		return []event.Event{event.NewItemMovedEvent(string(id), string(parentID), index)}, nil
	})
}

// SetExpanded records whether a folder is shown expanded.
func (t *Tree) SetExpanded(id item.ID, expanded bool) error {
	return t.mutate("set expanded", func() ([]event.Event, error) {
		it, _, _ := item.Find(t.items, id)
		if it == nil {
			return nil, errors.NewNotFoundError("item", string(id))
		}
		if !it.IsFolder() {
			return nil, errors.NewDocumentError("cannot expand item", errors.ErrNotFolder).WithItemID(string(id)).WithOp("expand")
		}
		it.Expanded = expanded
		return []event.Event{event.NewFolderToggledEvent(string(id), expanded)}, nil
	})
}

// Clear removes every item and returns how many were removed.
func (t *Tree) Clear() (int, error) {
	var n int
	err := t.mutate("clear", func() ([]event.Event, error) {
		n = item.Count(t.items)
		t.items = []*item.Item{}
		return []event.Event{event.NewDocumentClearedEvent(n)}, nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Sanitize repairs the forest so only folders own children and persists the
// result. It returns the number of promoted items.
func (t *Tree) Sanitize() (int, error) {
	var n int
	err := t.mutate("sanitize", func() ([]event.Event, error) {
		n = sanitize(&t.items)
		return nil, nil
	})
	return n, err
}

// ChildCount returns the number of direct children of a folder.
func (t *Tree) ChildCount(id item.ID) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	it, _, _ := item.Find(t.items, id)
	if it == nil {
		return 0, errors.NewNotFoundError("item", string(id))
	}
	if !it.IsFolder() {
		return 0, errors.NewDocumentError("cannot count children", errors.ErrNotFolder).WithItemID(string(id))
	}
	return len(it.Items), nil
}

func (t *Tree) mustFind(id item.ID) *item.Item {
	it, _ := t.FindByID(id)
	return it
}

// siblings returns the slice holding parent's children, the root for nil.
func (t *Tree) siblings(parent *item.Item) *[]*item.Item {
	if parent == nil {
		return &t.items
	}
	return &parent.Items
}

// children resolves a folder ID to its child slice.
func (t *Tree) children(parentID item.ID) (*[]*item.Item, error) {
	if parentID == "" {
		return &t.items, nil
	}
	p, _, _ := item.Find(t.items, parentID)
	if p == nil {
		return nil, errors.NewNotFoundError("item", string(parentID))
	}
	if !p.IsFolder() {
		return nil, errors.NewDocumentError("cannot add child", errors.ErrNotFolder).WithItemID(string(parentID))
	}
	return &p.Items, nil
}

// sanitize promotes the children of non-folder items to siblings placed
// immediately after their former owner, recursing into folders. It returns
// the number of promoted items.
func sanitize(items *[]*item.Item) int {
	n := 0
	for i := 0; i < len(*items); i++ {
		it := (*items)[i]
		if it.IsFolder() {
			n += sanitize(&it.Items)
			continue
		}
		if len(it.Items) == 0 {
			it.Items = nil
			continue
		}
		orphans := it.Items
		it.Items = nil
		*items = slices.Insert(*items, i+1, orphans...)
		n += len(orphans)
	}
	return n
}
