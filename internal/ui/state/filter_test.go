package state

import (
	"reflect"
	"testing"

	"github.com/atomicstack/kiosk-imagemap/internal/card"
)

func TestSetFilterTracksCursorAndRestoresPosition(t *testing.T) {
	l := newTestList("one", "two", "three")
	l.Cursor = 2
	l.SetFilter("two")

	if l.Filter != "two" {
		t.Fatalf("expected filter persisted, got %q", l.Filter)
	}
	if l.Cursor != 0 {
		t.Fatalf("expected filtered cursor at 0, got %d", l.Cursor)
	}
	if len(l.Items) != 1 || l.Items[0].ID != "two" {
		t.Fatalf("expected filtered items to contain only 'two', got %#v", l.Items)
	}

	l.ClearFilter()
	if l.Cursor != 2 {
		t.Fatalf("expected cursor restored to 2, got %d", l.Cursor)
	}
	if l.LastCursor != -1 {
		t.Fatalf("expected last cursor reset, got %d", l.LastCursor)
	}
}

func TestFilterItemsAndClone(t *testing.T) {
	items := []Item{{ID: "engine", Label: "Engine room"}, {ID: "bridge", Label: "Bridge"}}
	filtered := FilterItems(items, "eng")
	if len(filtered) != 1 || filtered[0].ID != "engine" {
		t.Fatalf("unexpected filtered results %#v", filtered)
	}

	clone := CloneItems(items)
	if &clone[0] == &items[0] {
		t.Fatal("expected clone to allocate new backing array")
	}
	filtered[0].Label = "changed"
	if items[0].Label != "Engine room" {
		t.Fatal("expected original slice to remain unchanged")
	}

	if len(FilterItems(items, "zzz")) != 0 {
		t.Fatal("expected empty results when nothing matches")
	}
}

func TestFilterFallsBackToID(t *testing.T) {
	items := []Item{{ID: "to-detail", Label: "Open"}, {ID: "bridge", Label: "Bridge"}}
	filtered := FilterItems(items, "detail")
	if len(filtered) != 1 || filtered[0].ID != "to-detail" {
		t.Fatalf("expected ID match, got %#v", filtered)
	}
}

func TestBestMatchIndex(t *testing.T) {
	items := []Item{
		{ID: "one", Label: "First"},
		{ID: "two", Label: "Second"},
		{ID: "three", Label: "Third"},
	}
	if idx := BestMatchIndex(items, "Second"); idx != 1 {
		t.Fatalf("expected exact label match index 1, got %d", idx)
	}
	if idx := BestMatchIndex(items, "two"); idx != 1 {
		t.Fatalf("expected ID match index 1, got %d", idx)
	}
	if idx := BestMatchIndex(items, "th"); idx != 2 {
		t.Fatalf("expected prefix match index 2, got %d", idx)
	}
	if idx := BestMatchIndex(items, "zzz"); idx != 0 {
		t.Fatalf("expected fallback index 0, got %d", idx)
	}
	if idx := BestMatchIndex(nil, "anything"); idx != -1 {
		t.Fatalf("expected -1 for empty slice, got %d", idx)
	}
}

func TestItemsFromCards(t *testing.T) {
	cards := []card.Card{
		{ID: "engine", Title: "Engine", Kind: card.KindPopup},
		{ID: "to-detail", Kind: card.KindSwitch},
	}
	got := ItemsFromCards(cards)
	want := []Item{
		{ID: "engine", Label: "Engine", Kind: card.KindPopup},
		{ID: "to-detail", Label: "to-detail", Kind: card.KindSwitch},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected items %#v", got)
	}
}
