package navigator

import (
	"fmt"
	"strings"

	"github.com/atomicstack/kiosk-imagemap/internal/card"
)

// Action names the operation a transition came from.
type Action string

const (
	ActionNone           Action = ""
	ActionSwitch         Action = "switch"
	ActionInert          Action = "inert"
	ActionBack           Action = "back"
	ActionPopupOpen      Action = "popup-open"
	ActionPopupClose     Action = "popup-close"
	ActionDismissPopups  Action = "dismiss-popups"
	ActionOpenOverlay    Action = "open-overlay"
	ActionDismissOverlay Action = "dismiss-overlay"
	ActionReload         Action = "reload"
)

// Transition describes the effect of one operation.
type Transition struct {
	Action            Action
	From              card.ImageID
	To                card.ImageID
	PreviousPopup     string
	Popup             string
	ViewChanged       bool
	PopupChanged      bool
	VisibilityChanged bool
	OverlayChanged    bool
}

// Changed reports whether any state moved.
func (t Transition) Changed() bool {
	return t.ViewChanged || t.PopupChanged || t.VisibilityChanged || t.OverlayChanged
}

// SelectCard activates a card: switch cards navigate, popup cards toggle.
func (n *Navigator) SelectCard(id string) (Transition, error) {
	c, ok := n.Card(id)
	if !ok {
		return Transition{}, fmt.Errorf("%w: %q", ErrUnknownCard, id)
	}
	if c.IsSwitch() {
		if c.Inert() {
			return Transition{Action: ActionInert, From: n.current, To: n.current, Popup: n.activePopup, PreviousPopup: n.activePopup}, nil
		}
		return n.Navigate(c.SwitchImage), nil
	}
	return n.togglePopup(c.ID), nil
}

// Navigate makes target the current view and recomputes visibility. An empty
// target is a no-op. The active popup is left untouched.
func (n *Navigator) Navigate(target card.ImageID) Transition {
	if strings.TrimSpace(string(target)) == "" {
		return Transition{Action: ActionInert, From: n.current, To: n.current, Popup: n.activePopup, PreviousPopup: n.activePopup}
	}
	t := Transition{
		Action:        ActionSwitch,
		From:          n.current,
		To:            target,
		PreviousPopup: n.activePopup,
		Popup:         n.activePopup,
	}
	t.ViewChanged = n.current != target
	n.current = target
	t.VisibilityChanged = n.recompute()
	return t
}

// GoBack returns to the root view.
func (n *Navigator) GoBack() Transition {
	t := n.Navigate(n.root)
	t.Action = ActionBack
	return t
}

func (n *Navigator) togglePopup(id string) Transition {
	wasActive := n.activePopup == id
	t := Transition{
		Action:        ActionPopupOpen,
		From:          n.current,
		To:            n.current,
		PreviousPopup: n.activePopup,
	}
	n.activePopup = ""
	if !wasActive {
		n.activePopup = id
	} else {
		t.Action = ActionPopupClose
	}
	t.Popup = n.activePopup
	t.PopupChanged = t.PreviousPopup != t.Popup
	return t
}

// DismissPopups closes whichever popup is expanded.
func (n *Navigator) DismissPopups() Transition {
	t := Transition{
		Action:        ActionDismissPopups,
		From:          n.current,
		To:            n.current,
		PreviousPopup: n.activePopup,
	}
	n.activePopup = ""
	t.PopupChanged = t.PreviousPopup != ""
	return t
}

// OpenOverlay shows image in the fullscreen overlay. An empty image falls
// back to the current view.
func (n *Navigator) OpenOverlay(image card.ImageID) Transition {
	if strings.TrimSpace(string(image)) == "" {
		image = n.current
	}
	t := Transition{
		Action:        ActionOpenOverlay,
		From:          n.current,
		To:            n.current,
		PreviousPopup: n.activePopup,
		Popup:         n.activePopup,
	}
	t.OverlayChanged = !n.overlayOpen || n.overlay != image
	n.overlayOpen = true
	n.overlay = image
	return t
}

// DismissOverlay hides the fullscreen overlay.
func (n *Navigator) DismissOverlay() Transition {
	t := Transition{
		Action:         ActionDismissOverlay,
		From:           n.current,
		To:             n.current,
		PreviousPopup:  n.activePopup,
		Popup:          n.activePopup,
		OverlayChanged: n.overlayOpen,
	}
	n.overlayOpen = false
	return t
}

// Escape fires exactly one of GoBack, DismissOverlay or DismissPopups, in that
// order of precedence.
func (n *Navigator) Escape() Transition {
	switch {
	case n.BackVisible():
		return n.GoBack()
	case n.overlayOpen:
		return n.DismissOverlay()
	default:
		return n.DismissPopups()
	}
}

// ToggleDebug flips the debug presentation and returns the new value.
func (n *Navigator) ToggleDebug() bool {
	n.debug = !n.debug
	return n.debug
}

// Reload swaps in a new card set while keeping the current view. An active
// popup survives only if its card still exists as a popup card.
func (n *Navigator) Reload(cards []card.Card) Transition {
	t := Transition{
		Action:        ActionReload,
		From:          n.current,
		To:            n.current,
		PreviousPopup: n.activePopup,
	}
	n.setCards(cards)
	if n.activePopup != "" {
		if c, ok := n.Card(n.activePopup); !ok || !c.IsPopup() {
			n.activePopup = ""
		}
	}
	t.Popup = n.activePopup
	t.PopupChanged = t.PreviousPopup != t.Popup
	t.VisibilityChanged = n.recompute()
	return t
}
