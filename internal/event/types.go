package event

import "time"

// Event is the interface that all events implement.
type Event interface {
	// EventType returns "category.action", e.g. "item.added".
	EventType() string
	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeItemAdded       = "item.added"
	TypeItemRemoved     = "item.removed"
	TypeItemRenamed     = "item.renamed"
	TypeItemMoved       = "item.moved"
	TypeItemsGrouped    = "item.grouped"
	TypeFolderToggled   = "folder.toggled"
	TypeDocumentCleared = "document.cleared"
	TypeDocumentSaved   = "document.saved"
	TypeCaptureStarted  = "capture.started"
	TypeCaptureEnded    = "capture.ended"
)

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{eventType: eventType, timestamp: time.Now()}
}

// -----------------------------------------------------------------------------
// Document Events
// -----------------------------------------------------------------------------

// ItemAddedEvent is emitted when an item or folder is inserted.
type ItemAddedEvent struct {
	baseEvent
	ItemID   string
	Kind     string // "coordinate", "measurement" or "folder"
	ParentID string // empty for the root level
}

// NewItemAddedEvent creates an ItemAddedEvent.
func NewItemAddedEvent(itemID, kind, parentID string) ItemAddedEvent {
	return ItemAddedEvent{
		baseEvent: newBaseEvent(TypeItemAdded),
		ItemID:    itemID,
		Kind:      kind,
		ParentID:  parentID,
	}
}

// ItemRemovedEvent is emitted when an item and its subtree are removed.
type ItemRemovedEvent struct {
	baseEvent
	ItemID  string
	Removed int // items removed including descendants
}

// NewItemRemovedEvent creates an ItemRemovedEvent.
func NewItemRemovedEvent(itemID string, removed int) ItemRemovedEvent {
	return ItemRemovedEvent{
		baseEvent: newBaseEvent(TypeItemRemoved),
		ItemID:    itemID,
		Removed:   removed,
	}
}

// ItemRenamedEvent is emitted when an item's name changes.
type ItemRenamedEvent struct {
	baseEvent
	ItemID  string
	OldName string
	NewName string
}

// NewItemRenamedEvent creates an ItemRenamedEvent.
func NewItemRenamedEvent(itemID, oldName, newName string) ItemRenamedEvent {
	return ItemRenamedEvent{
		baseEvent: newBaseEvent(TypeItemRenamed),
		ItemID:    itemID,
		OldName:   oldName,
		NewName:   newName,
	}
}

// ItemMovedEvent is emitted when an item changes parent or position.
type ItemMovedEvent struct {
	baseEvent
	ItemID   string
	ParentID string // empty for the root level
	Index    int
}

// NewItemMovedEvent creates an ItemMovedEvent.
func NewItemMovedEvent(itemID, parentID string, index int) ItemMovedEvent {
	return ItemMovedEvent{
		baseEvent: newBaseEvent(TypeItemMoved),
		ItemID:    itemID,
		ParentID:  parentID,
		Index:     index,
	}
}

// ItemsGroupedEvent is emitted when items are gathered into a new folder.
type ItemsGroupedEvent struct {
	baseEvent
	FolderID string
	ItemIDs  []string
}

// NewItemsGroupedEvent creates an ItemsGroupedEvent.
func NewItemsGroupedEvent(folderID string, itemIDs []string) ItemsGroupedEvent {
	return ItemsGroupedEvent{
		baseEvent: newBaseEvent(TypeItemsGrouped),
		FolderID:  folderID,
		ItemIDs:   itemIDs,
	}
}

// FolderToggledEvent is emitted when a folder is expanded or collapsed.
type FolderToggledEvent struct {
	baseEvent
	FolderID string
	Expanded bool
}

// NewFolderToggledEvent creates a FolderToggledEvent.
func NewFolderToggledEvent(folderID string, expanded bool) FolderToggledEvent {
	return FolderToggledEvent{
		baseEvent: newBaseEvent(TypeFolderToggled),
		FolderID:  folderID,
		Expanded:  expanded,
	}
}

// DocumentClearedEvent is emitted when every item is removed.
type DocumentClearedEvent struct {
	baseEvent
	Removed int
}

// NewDocumentClearedEvent creates a DocumentClearedEvent.
func NewDocumentClearedEvent(removed int) DocumentClearedEvent {
	return DocumentClearedEvent{
		baseEvent: newBaseEvent(TypeDocumentCleared),
		Removed:   removed,
	}
}

// DocumentSavedEvent is emitted after the document is persisted.
type DocumentSavedEvent struct {
	baseEvent
	Backend string
	Items   int
	Err     error // non-nil when the save failed
}

// NewDocumentSavedEvent creates a DocumentSavedEvent.
func NewDocumentSavedEvent(backend string, items int, err error) DocumentSavedEvent {
	return DocumentSavedEvent{
		baseEvent: newBaseEvent(TypeDocumentSaved),
		Backend:   backend,
		Items:     items,
		Err:       err,
	}
}

// -----------------------------------------------------------------------------
// Capture Events
// -----------------------------------------------------------------------------

// CaptureStartedEvent is emitted when the overlay opens.
type CaptureStartedEvent struct {
	baseEvent
	RunID  string
	Width  int
	Height int
}

// NewCaptureStartedEvent creates a CaptureStartedEvent.
func NewCaptureStartedEvent(runID string, width, height int) CaptureStartedEvent {
	return CaptureStartedEvent{
		baseEvent: newBaseEvent(TypeCaptureStarted),
		RunID:     runID,
		Width:     width,
		Height:    height,
	}
}

// CaptureEndedEvent is emitted when the overlay closes.
type CaptureEndedEvent struct {
	baseEvent
	RunID    string
	Captured int // items still present from this run
	Duration time.Duration
}

// NewCaptureEndedEvent creates a CaptureEndedEvent.
func NewCaptureEndedEvent(runID string, captured int, d time.Duration) CaptureEndedEvent {
	return CaptureEndedEvent{
		baseEvent: newBaseEvent(TypeCaptureEnded),
		RunID:     runID,
		Captured:  captured,
		Duration:  d,
	}
}
