package navigator

import (
	"errors"
	"math/rand"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/atomicstack/kiosk-imagemap/internal/card"
	"github.com/atomicstack/kiosk-imagemap/internal/markup"
	"github.com/atomicstack/kiosk-imagemap/internal/testutil"
)

const root card.ImageID = "Frame 1.png"

func sampleNavigator(t *testing.T, opts ...Option) *Navigator {
	t.Helper()
	doc, err := markup.Parse(strings.NewReader(testutil.SamplePage))
	if err != nil {
		t.Fatalf("parse sample: %v", err)
	}
	return New(doc.RootImage, doc.Cards, opts...)
}

func TestNewStartsAtRoot(t *testing.T) {
	n := sampleNavigator(t)
	if n.CurrentView() != root {
		t.Fatalf("expected root view, got %q", n.CurrentView())
	}
	if n.BackVisible() {
		t.Fatalf("expected back button hidden at root")
	}
	want := []string{"engine", "bridge", "to-detail", "broken"}
	if got := n.VisibleIDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected root cards %v, got %v", want, got)
	}
}

func TestSwitchCardShowsDetailView(t *testing.T) {
	n := sampleNavigator(t)
	tr, err := n.SelectCard("to-detail")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if n.CurrentView() != "Detail A.png" {
		t.Fatalf("expected detail view, got %q", n.CurrentView())
	}
	if !tr.ViewChanged || !tr.VisibilityChanged || tr.Action != ActionSwitch {
		t.Fatalf("unexpected transition %+v", tr)
	}
	if !n.BackVisible() {
		t.Fatalf("expected back button visible")
	}
	for _, id := range []string{"engine", "bridge"} {
		if n.IsVisible(id) {
			t.Fatalf("expected popup card %s hidden on detail view", id)
		}
	}
	if got := n.VisibleIDs(); !reflect.DeepEqual(got, []string{"to-front"}) {
		t.Fatalf("expected only to-front visible, got %v", got)
	}
}

func TestBackRestoresRootCards(t *testing.T) {
	n := sampleNavigator(t)
	before := n.VisibleIDs()
	if _, err := n.SelectCard("to-detail"); err != nil {
		t.Fatalf("select: %v", err)
	}
	tr := n.GoBack()
	if tr.Action != ActionBack || tr.To != root {
		t.Fatalf("unexpected transition %+v", tr)
	}
	if n.CurrentView() != root || n.BackVisible() {
		t.Fatalf("expected root view without back button")
	}
	if got := n.VisibleIDs(); !reflect.DeepEqual(got, before) {
		t.Fatalf("expected root cards %v restored, got %v", before, got)
	}
}

func TestPrefixReturnCardMatchesFamily(t *testing.T) {
	n := sampleNavigator(t)
	n.Navigate("Front Card 1.png")
	if !n.IsVisible("front-return") {
		t.Fatalf("expected return card on its own view")
	}
	n.Navigate("Front Card 1 - Rear.png")
	if !n.IsVisible("front-return") {
		t.Fatalf("expected return card on a view sharing its prefix")
	}
	n.Navigate("Front Card 2.png")
	if n.IsVisible("front-return") {
		t.Fatalf("expected return card hidden outside its family")
	}

	untagged := New(root, []card.Card{{ID: "r", Kind: card.KindSwitch, SwitchImage: "x.png", VisibleOn: "Front Card 1.png", Location: DefaultReturnLocation}}, WithReturnLocations("other-return"))
	untagged.Navigate("Front Card 1 - Rear.png")
	if untagged.IsVisible("r") {
		t.Fatalf("expected prefix match only for configured return locations")
	}
}

func TestPopupToggleAndMutualExclusion(t *testing.T) {
	n := sampleNavigator(t)
	tr, _ := n.SelectCard("engine")
	if n.ActivePopup() != "engine" || tr.Action != ActionPopupOpen || !tr.PopupChanged {
		t.Fatalf("expected engine open, got %q %+v", n.ActivePopup(), tr)
	}
	n.SelectCard("bridge")
	if n.ActivePopup() != "bridge" || n.IsActive("engine") {
		t.Fatalf("expected bridge to replace engine, got %q", n.ActivePopup())
	}
	tr, _ = n.SelectCard("bridge")
	if n.ActivePopup() != "" || tr.Action != ActionPopupClose {
		t.Fatalf("expected bridge closed, got %q %+v", n.ActivePopup(), tr)
	}
}

func TestPopupNeverTouchesView(t *testing.T) {
	n := sampleNavigator(t)
	n.SelectCard("to-detail")
	visible := n.VisibleIDs()
	tr, _ := n.SelectCard("engine")
	if tr.ViewChanged || tr.VisibilityChanged {
		t.Fatalf("expected popup selection to leave view alone, got %+v", tr)
	}
	if n.CurrentView() != "Detail A.png" || !reflect.DeepEqual(n.VisibleIDs(), visible) {
		t.Fatalf("expected view and visibility unchanged")
	}
}

func TestSwitchNeverTouchesPopup(t *testing.T) {
	n := sampleNavigator(t)
	n.SelectCard("engine")
	tr, _ := n.SelectCard("to-detail")
	if tr.PopupChanged || n.ActivePopup() != "engine" {
		t.Fatalf("expected popup preserved across navigation, got %q", n.ActivePopup())
	}
	if n.IsVisible("engine") {
		t.Fatalf("expected the active popup's card hidden on the detail view")
	}
}

func TestInertSwitchCardIsNoOp(t *testing.T) {
	n := sampleNavigator(t)
	n.SelectCard("engine")
	tr, err := n.SelectCard("broken")
	if err != nil {
		t.Fatalf("expected no error for inert card, got %v", err)
	}
	if tr.Changed() || tr.Action != ActionInert {
		t.Fatalf("expected inert transition, got %+v", tr)
	}
	if n.CurrentView() != root || n.ActivePopup() != "engine" {
		t.Fatalf("expected state untouched")
	}
	if tr := n.Navigate("  "); tr.Changed() {
		t.Fatalf("expected blank navigate to be a no-op")
	}
}

func TestSelectUnknownCard(t *testing.T) {
	n := sampleNavigator(t)
	if _, err := n.SelectCard("missing"); !errors.Is(err, ErrUnknownCard) {
		t.Fatalf("expected ErrUnknownCard, got %v", err)
	}
}

func TestNavigateToCurrentViewIsIdempotent(t *testing.T) {
	n := sampleNavigator(t)
	n.SelectCard("to-detail")
	before := n.VisibleIDs()
	tr := n.Navigate(n.CurrentView())
	if tr.ViewChanged || tr.VisibilityChanged {
		t.Fatalf("expected idempotent navigation, got %+v", tr)
	}
	if !reflect.DeepEqual(before, n.VisibleIDs()) {
		t.Fatalf("expected visibility unchanged")
	}
}

func TestEscapePrecedence(t *testing.T) {
	n := sampleNavigator(t)
	n.SelectCard("engine")
	n.SelectCard("to-detail")
	n.OpenOverlay("")
	if n.OverlayImage() != "Detail A.png" {
		t.Fatalf("expected overlay to default to current view, got %q", n.OverlayImage())
	}

	tr := n.Escape()
	if tr.Action != ActionBack {
		t.Fatalf("expected back first, got %s", tr.Action)
	}
	if !n.OverlayOpen() || n.ActivePopup() != "engine" {
		t.Fatalf("expected only the view to change")
	}

	tr = n.Escape()
	if tr.Action != ActionDismissOverlay || n.OverlayOpen() {
		t.Fatalf("expected overlay dismissed second, got %s", tr.Action)
	}
	if n.ActivePopup() != "engine" {
		t.Fatalf("expected popup to survive overlay dismissal")
	}

	tr = n.Escape()
	if tr.Action != ActionDismissPopups || n.ActivePopup() != "" {
		t.Fatalf("expected popups dismissed last, got %s", tr.Action)
	}
}

func TestPopupsAlwaysPolicy(t *testing.T) {
	n := sampleNavigator(t, WithPopupPolicy(PopupsAlways))
	n.SelectCard("to-detail")
	if !n.IsVisible("engine") || !n.IsVisible("bridge") {
		t.Fatalf("expected popup cards visible on every view")
	}
	if p, err := ParsePopupPolicy("ALWAYS"); err != nil || p != PopupsAlways {
		t.Fatalf("expected always policy, got %v %v", p, err)
	}
	if _, err := ParsePopupPolicy("sometimes"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestPopupWithVisibleOnShownOnThatView(t *testing.T) {
	cards := []card.Card{
		{ID: "note", Kind: card.KindPopup, VisibleOn: "Detail A.png"},
		{ID: "root-note", Kind: card.KindPopup},
	}
	n := New(root, cards)
	n.Navigate("Detail A.png")
	if !n.IsVisible("note") || n.IsVisible("root-note") {
		t.Fatalf("unexpected visibility %v", n.VisibleIDs())
	}
}

func TestReloadKeepsViewAndDropsStalePopup(t *testing.T) {
	n := sampleNavigator(t)
	n.SelectCard("engine")
	n.SelectCard("to-detail")
	cards := n.Cards()
	kept := cards[:0]
	for _, c := range cards {
		if c.ID != "engine" {
			kept = append(kept, c)
		}
	}
	tr := n.Reload(kept)
	if n.CurrentView() != "Detail A.png" {
		t.Fatalf("expected view kept across reload, got %q", n.CurrentView())
	}
	if n.ActivePopup() != "" || !tr.PopupChanged {
		t.Fatalf("expected stale popup cleared, got %q", n.ActivePopup())
	}
	if _, ok := n.Card("engine"); ok {
		t.Fatalf("expected engine removed")
	}
}

func TestDebugToggle(t *testing.T) {
	n := sampleNavigator(t)
	if !n.ToggleDebug() || !n.Debug() {
		t.Fatalf("expected debug on")
	}
	if n.ToggleDebug() {
		t.Fatalf("expected debug off")
	}
}

// expectedVisible recomputes the visible set from first principles.
func expectedVisible(n *Navigator) []string {
	var ids []string
	view := n.CurrentView()
	for _, c := range n.Cards() {
		switch {
		case c.IsPopup():
			if view == n.Root() || n.Policy() == PopupsAlways || c.VisibleOn == view {
				ids = append(ids, c.ID)
			}
		default:
			on := c.VisibleOn
			if on == "" {
				on = n.Root()
			}
			if on == view || (c.Location == DefaultReturnLocation && strings.HasPrefix(string(view), c.ReturnPrefix(n.Root()))) {
				ids = append(ids, c.ID)
			}
		}
	}
	sort.Strings(ids)
	return ids
}

func TestRandomSequencesKeepInvariants(t *testing.T) {
	for _, policy := range []PopupPolicy{PopupsOnRoot, PopupsAlways} {
		n := sampleNavigator(t, WithPopupPolicy(policy))
		ids := make([]string, 0)
		for _, c := range n.Cards() {
			ids = append(ids, c.ID)
		}
		rng := rand.New(rand.NewSource(7))
		for step := 0; step < 500; step++ {
			switch rng.Intn(6) {
			case 0, 1, 2:
				id := ids[rng.Intn(len(ids))]
				before := n.ActivePopup()
				c, _ := n.Card(id)
				n.SelectCard(id)
				if c.IsPopup() {
					n.SelectCard(id)
					if n.ActivePopup() != "" && n.ActivePopup() != before {
						t.Fatalf("toggle twice changed popup from %q to %q", before, n.ActivePopup())
					}
					n.SelectCard(id)
				}
			case 3:
				n.GoBack()
			case 4:
				n.Escape()
			case 5:
				if rng.Intn(2) == 0 {
					n.OpenOverlay("")
				} else {
					n.DismissOverlay()
				}
			}

			if n.BackVisible() != (n.CurrentView() != n.Root()) {
				t.Fatalf("step %d: back button out of sync with view %q", step, n.CurrentView())
			}
			active := 0
			for _, id := range ids {
				if n.IsActive(id) {
					active++
				}
			}
			if active > 1 {
				t.Fatalf("step %d: %d popups active", step, active)
			}
			got := n.VisibleIDs()
			sort.Strings(got)
			if want := expectedVisible(n); !reflect.DeepEqual(got, want) {
				t.Fatalf("step %d view %q: expected visible %v, got %v", step, n.CurrentView(), want, got)
			}
		}
	}
}
