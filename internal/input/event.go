// Package input describes the user events the kiosk reacts to, independent
// of how they were produced (terminal mouse, keyboard, or a test).
package input

import "time"

// Reserved click targets. Any other non-empty target names a card.
const (
	TargetOutside      = ""
	TargetBackButton   = "#back-button"
	TargetOverlay      = "#fullscreen-modal"
	TargetOverlayClose = "#modal-close"
	TargetPopupBody    = "#card-popup"
)

// Event is one of Click, TouchEnd or Key.
type Event interface {
	isEvent()
}

// Click is a pointer activation on Target.
type Click struct {
	Target string
}

// TouchEnd is the end of a touch gesture on Target.
type TouchEnd struct {
	Target string
	At     time.Time
}

// Key is a key press identified by its name ("esc", "d", "D", ...).
type Key struct {
	Name string
}

func (Click) isEvent()    {}
func (TouchEnd) isEvent() {}
func (Key) isEvent()      {}

// IsCard reports whether target names a card rather than a fixed element.
func IsCard(target string) bool {
	switch target {
	case TargetOutside, TargetBackButton, TargetOverlay, TargetOverlayClose, TargetPopupBody:
		return false
	}
	return true
}
