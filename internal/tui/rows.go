package tui

import "github.com/Iron-Ham/screencoord/internal/item"

// row is one visible line of the browser.
type row struct {
	item     *item.Item
	parentID item.ID
	depth    int
}

// flatten lists the items a reader can see: everything except the
// descendants of collapsed folders.
func flatten(items []*item.Item) []row {
	var rows []row
	item.Walk(items, func(it, parent *item.Item, depth int) bool {
		r := row{item: it, depth: depth}
		if parent != nil {
			r.parentID = parent.ID
		}
		rows = append(rows, r)
		return !it.IsFolder() || it.Expanded
	})
	return rows
}

// indexOf returns the row holding id, or -1.
func indexOf(rows []row, id item.ID) int {
	for i, r := range rows {
		if r.item.ID == id {
			return i
		}
	}
	return -1
}
