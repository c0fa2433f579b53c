package state

import "github.com/atomicstack/kiosk-imagemap/internal/card"

// Item is one focusable card as the list sees it.
type Item struct {
	ID    string
	Label string
	Kind  card.Kind
}

// ItemsFromCards converts cards into list items, preserving order.
func ItemsFromCards(cards []card.Card) []Item {
	items := make([]Item, 0, len(cards))
	for _, c := range cards {
		items = append(items, Item{ID: c.ID, Label: c.Label(), Kind: c.Kind})
	}
	return items
}

// CloneItems produces a shallow copy of the provided items.
func CloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
