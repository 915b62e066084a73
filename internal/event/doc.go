// Package event provides the pub-sub bus that decouples the document tree
// from its observers.
//
// The document publishes an event after every successful mutation. The store
// sync, the terminal browser and the logger subscribe without the document
// knowing about them.
//
// # Main Types
//
//   - [Event]: EventType() and Timestamp()
//   - [Bus]: synchronous dispatcher, safe for concurrent use
//   - [Handler]: func(Event)
//
// # Event Types
//
// Document:
//   - [ItemAddedEvent] "item.added"
//   - [ItemRemovedEvent] "item.removed"
//   - [ItemRenamedEvent] "item.renamed"
//   - [ItemMovedEvent] "item.moved"
//   - [ItemsGroupedEvent] "item.grouped"
//   - [FolderToggledEvent] "folder.toggled"
//   - [DocumentClearedEvent] "document.cleared"
//   - [DocumentSavedEvent] "document.saved"
//
// Capture:
//   - [CaptureStartedEvent] "capture.started"
//   - [CaptureEndedEvent] "capture.ended"
//
// # Usage
//
//	bus := event.NewBus()
//	bus.Subscribe(event.TypeItemAdded, func(e event.Event) {
//	    added := e.(event.ItemAddedEvent)
//	    fmt.Println(added.ItemID)
//	})
//	bus.Publish(event.NewItemAddedEvent(id, "coordinate", ""))
package event
