// Package state holds the focus and search state over the cards visible on
// the current view.
package state

// List tracks which visible card has keyboard focus and, while searching,
// which cards match the query.
type List struct {
	Items          []Item
	Full           []Item
	Filter         string
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

// NewList constructs a List with focus on the first item.
func NewList(items []Item) *List {
	l := &List{LastCursor: -1}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the index for a given item identifier.
func (l *List) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Current returns the focused item.
func (l *List) Current() (Item, bool) {
	if l == nil || l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}

// CurrentID returns the focused item's ID or "".
func (l *List) CurrentID() string {
	item, ok := l.Current()
	if !ok {
		return ""
	}
	return item.ID
}

// Focus moves the cursor onto id. It reports whether id is listed.
func (l *List) Focus(id string) bool {
	idx := l.IndexOf(id)
	if idx < 0 {
		return false
	}
	l.Cursor = idx
	return true
}

// UpdateItems replaces the item set. Focus stays on the same card when it is
// still present, otherwise it falls back to the nearest valid index.
func (l *List) UpdateItems(items []Item) {
	focused := l.CurrentID()
	prevOffset := l.ViewportOffset
	l.Full = CloneItems(items)
	l.applyFilter()
	if focused != "" {
		l.Focus(focused)
	}
	if len(l.Items) == 0 {
		l.ViewportOffset = 0
		return
	}
	if prevOffset < 0 || prevOffset > len(l.Items)-1 {
		prevOffset = 0
	}
	l.ViewportOffset = prevOffset
}
