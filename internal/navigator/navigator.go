// Package navigator implements the view/visibility state machine behind the
// kiosk: which image is shown, which cards are visible on it, and which popup
// is expanded. All operations are synchronous and never block.
package navigator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atomicstack/kiosk-imagemap/internal/card"
)

// ErrUnknownCard is returned when an operation names a card that does not exist.
var ErrUnknownCard = errors.New("navigator: unknown card")

// DefaultReturnLocation tags a switch card that stays visible across every
// view sharing its return prefix.
const DefaultReturnLocation = "front-card1-return"

// PopupPolicy decides where popup cards are shown.
type PopupPolicy int

const (
	// PopupsOnRoot shows popup cards on the root view, and on other views only
	// when they declare that view as their visible-on image.
	PopupsOnRoot PopupPolicy = iota
	// PopupsAlways shows popup cards on every view.
	PopupsAlways
)

func (p PopupPolicy) String() string {
	if p == PopupsAlways {
		return "always"
	}
	return "root"
}

// ParsePopupPolicy maps a configuration value onto a policy.
func ParsePopupPolicy(value string) (PopupPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "root":
		return PopupsOnRoot, nil
	case "always":
		return PopupsAlways, nil
	}
	return PopupsOnRoot, fmt.Errorf("unknown popup policy %q (want root or always)", value)
}

// Option customises a Navigator.
type Option func(*Navigator)

// WithPopupPolicy overrides where popup cards are shown.
func WithPopupPolicy(p PopupPolicy) Option {
	return func(n *Navigator) { n.policy = p }
}

// WithReturnLocations sets the data-location tags treated as prefix-return cards.
func WithReturnLocations(locations ...string) Option {
	return func(n *Navigator) {
		n.returnTags = make(map[string]struct{}, len(locations))
		for _, loc := range locations {
			if loc = strings.TrimSpace(loc); loc != "" {
				n.returnTags[loc] = struct{}{}
			}
		}
	}
}

// Navigator owns the current view, card visibility and the active popup.
type Navigator struct {
	root        card.ImageID
	current     card.ImageID
	activePopup string
	cards       []card.Card
	index       map[string]int
	visible     map[string]bool
	overlayOpen bool
	overlay     card.ImageID
	debug       bool

	policy     PopupPolicy
	returnTags map[string]struct{}
}

// New constructs a Navigator showing the root view.
func New(root card.ImageID, cards []card.Card, opts ...Option) *Navigator {
	n := &Navigator{
		root:       root,
		current:    root,
		returnTags: map[string]struct{}{DefaultReturnLocation: {}},
	}
	for _, opt := range opts {
		opt(n)
	}
	n.setCards(cards)
	n.recompute()
	return n
}

func (n *Navigator) setCards(cards []card.Card) {
	n.cards = card.Clone(cards)
	n.index = make(map[string]int, len(n.cards))
	for i, c := range n.cards {
		n.index[c.ID] = i
	}
}

// Root returns the root view.
func (n *Navigator) Root() card.ImageID { return n.root }

// CurrentView returns the displayed image.
func (n *Navigator) CurrentView() card.ImageID { return n.current }

// ActivePopup returns the ID of the expanded popup card, or "".
func (n *Navigator) ActivePopup() string { return n.activePopup }

// BackVisible reports whether the back button is shown.
func (n *Navigator) BackVisible() bool { return n.current != n.root }

// OverlayOpen reports whether the fullscreen overlay is shown.
func (n *Navigator) OverlayOpen() bool { return n.overlayOpen }

// OverlayImage returns the image shown by the fullscreen overlay.
func (n *Navigator) OverlayImage() card.ImageID { return n.overlay }

// Debug reports whether the debug presentation is enabled.
func (n *Navigator) Debug() bool { return n.debug }

// Policy returns the popup visibility policy.
func (n *Navigator) Policy() PopupPolicy { return n.policy }

// Card looks up a card by ID.
func (n *Navigator) Card(id string) (card.Card, bool) {
	idx, ok := n.index[id]
	if !ok {
		return card.Card{}, false
	}
	return n.cards[idx], true
}

// Cards returns every card in document order.
func (n *Navigator) Cards() []card.Card {
	return card.Clone(n.cards)
}

// IsVisible reports whether the card is shown on the current view.
func (n *Navigator) IsVisible(id string) bool {
	return n.visible[id]
}

// IsActive reports whether the card's popup is expanded.
func (n *Navigator) IsActive(id string) bool {
	return id != "" && n.activePopup == id
}

// VisibleCards returns the cards shown on the current view in document order.
func (n *Navigator) VisibleCards() []card.Card {
	out := make([]card.Card, 0, len(n.cards))
	for _, c := range n.cards {
		if n.visible[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// VisibleIDs returns the IDs of the visible cards in document order.
func (n *Navigator) VisibleIDs() []string {
	ids := make([]string, 0, len(n.cards))
	for _, c := range n.cards {
		if n.visible[c.ID] {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
