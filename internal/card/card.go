// Package card defines the typed descriptors built from kiosk markup.
package card

import "strings"

// ImageID names a view by its image resource.
type ImageID string

// Kind distinguishes the two card roles.
type Kind int

const (
	KindPopup Kind = iota
	KindSwitch
)

func (k Kind) String() string {
	switch k {
	case KindSwitch:
		return "switch"
	default:
		return "popup"
	}
}

// Position places a card on the main image in percent of its size.
type Position struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
	Set    bool
}

// Card is a clickable region over the main image.
type Card struct {
	ID            string
	Kind          Kind
	Title         string
	Body          string
	SwitchImage   ImageID
	VisibleOn     ImageID
	VisiblePrefix string
	Location      string
	Position      Position
	Hidden        bool
}

// IsSwitch reports whether selecting the card changes the view.
func (c Card) IsSwitch() bool {
	return c.Kind == KindSwitch
}

// IsPopup reports whether selecting the card toggles its popup.
func (c Card) IsPopup() bool {
	return c.Kind == KindPopup
}

// Inert reports whether the card is a switch card without a target.
func (c Card) Inert() bool {
	return c.IsSwitch() && strings.TrimSpace(string(c.SwitchImage)) == ""
}

// Label returns the display text for the card.
func (c Card) Label() string {
	if title := strings.TrimSpace(c.Title); title != "" {
		return title
	}
	return c.ID
}

// ReturnPrefix is the view prefix a prefix-return card stays visible across.
// An explicit prefix wins; otherwise the visible-on image minus its extension.
func (c Card) ReturnPrefix(root ImageID) string {
	if p := strings.TrimSpace(c.VisiblePrefix); p != "" {
		return p
	}
	on := string(c.VisibleOn)
	if strings.TrimSpace(on) == "" {
		on = string(root)
	}
	if idx := strings.LastIndex(on, "."); idx > 0 {
		return on[:idx]
	}
	return on
}

// Clone returns a copy of the slice.
func Clone(cards []Card) []Card {
	dup := make([]Card, len(cards))
	copy(dup, cards)
	return dup
}
