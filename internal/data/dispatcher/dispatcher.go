// Package dispatcher turns input events into navigator transitions. It is the
// only place that knows which element a click landed on and what that means.
package dispatcher

import (
	"time"

	"github.com/atomicstack/kiosk-imagemap/internal/card"
	"github.com/atomicstack/kiosk-imagemap/internal/input"
	"github.com/atomicstack/kiosk-imagemap/internal/logging/events"
	"github.com/atomicstack/kiosk-imagemap/internal/navigator"
)

// Result reports how an event was handled.
type Result struct {
	Handled      bool
	Suppressed   bool
	DebugToggled bool
	Transition   navigator.Transition
	Err          error
}

// Option customises a Dispatcher.
type Option func(*Dispatcher)

// WithTouchWindow sets the touch debounce interval.
func WithTouchWindow(d time.Duration) Option {
	return func(dp *Dispatcher) { dp.touch = input.NewDebouncer(d) }
}

// WithClock overrides the time source used for events without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(dp *Dispatcher) {
		if now != nil {
			dp.now = now
		}
	}
}

// WithOverlayClose records whether the page has an overlay close control.
// Clicks on an absent control are ignored.
func WithOverlayClose(present bool) Option {
	return func(dp *Dispatcher) { dp.overlayClose = present }
}

type Dispatcher struct {
	nav          *navigator.Navigator
	touch        *input.Debouncer
	now          func() time.Time
	overlayClose bool
}

func New(nav *navigator.Navigator, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		nav:          nav,
		touch:        input.NewDebouncer(input.DefaultTouchWindow),
		now:          time.Now,
		overlayClose: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Reload swaps in a reparsed card set. Recorded touches are forgotten since
// a card ID may now name a different card.
func (d *Dispatcher) Reload(cards []card.Card, overlayClose bool) navigator.Transition {
	d.overlayClose = overlayClose
	d.touch.Reset()
	return d.nav.Reload(cards)
}

// Navigator exposes the state machine the dispatcher drives.
func (d *Dispatcher) Navigator() *navigator.Navigator {
	return d.nav
}

// Handle applies one event synchronously.
func (d *Dispatcher) Handle(evt input.Event) Result {
	if d == nil || d.nav == nil || evt == nil {
		return Result{}
	}
	switch e := evt.(type) {
	case input.Click:
		events.Input.Click(e.Target)
		return d.click(e.Target)
	case input.TouchEnd:
		at := e.At
		if at.IsZero() {
			at = d.now()
		}
		events.Input.Touch(e.Target, at)
		if ok, since := d.touch.Allow(e.Target, at); !ok {
			events.Input.Debounced(e.Target, since)
			return Result{Handled: true, Suppressed: true}
		}
		return d.click(e.Target)
	case input.Key:
		return d.key(e.Name)
	}
	return Result{}
}

// click routes an activation to the innermost element it landed on. Card,
// back button and popup body clicks are consumed so the outside-click
// dismissal never fires for the same activation.
func (d *Dispatcher) click(target string) Result {
	switch target {
	case input.TargetOutside:
		t := d.nav.DismissPopups()
		if t.PopupChanged {
			events.Popup.Close(t.PreviousPopup, events.PopupReasonOutside)
		}
		return Result{Handled: true, Transition: t}
	case input.TargetBackButton:
		if !d.nav.BackVisible() {
			return Result{Handled: true}
		}
		t := d.nav.GoBack()
		events.View.Back(string(t.From), string(t.To))
		d.traceVisible()
		return Result{Handled: true, Transition: t}
	case input.TargetPopupBody:
		return Result{Handled: true}
	case input.TargetOverlay:
		return d.dismissOverlay()
	case input.TargetOverlayClose:
		if !d.overlayClose {
			return Result{}
		}
		return d.dismissOverlay()
	}
	if _, ok := d.nav.Card(target); ok && !d.nav.IsVisible(target) {
		// hidden cards cannot be hit; the activation lands behind them
		return d.click(input.TargetOutside)
	}
	t, err := d.nav.SelectCard(target)
	if err != nil {
		return Result{Handled: true, Err: err}
	}
	d.traceSelect(target, t)
	return Result{Handled: true, Transition: t}
}

func (d *Dispatcher) dismissOverlay() Result {
	t := d.nav.DismissOverlay()
	if t.OverlayChanged {
		events.Overlay.Close(string(d.nav.OverlayImage()))
	}
	return Result{Handled: true, Transition: t}
}

func (d *Dispatcher) key(name string) Result {
	switch name {
	case "esc", "escape":
		t := d.nav.Escape()
		events.Input.Key(name, string(t.Action))
		switch t.Action {
		case navigator.ActionBack:
			events.View.Back(string(t.From), string(t.To))
			d.traceVisible()
		case navigator.ActionDismissOverlay:
			events.Overlay.Close(string(d.nav.OverlayImage()))
		case navigator.ActionDismissPopups:
			if t.PopupChanged {
				events.Popup.Close(t.PreviousPopup, events.PopupReasonEscape)
			}
		}
		return Result{Handled: true, Transition: t}
	case "d", "D":
		enabled := d.nav.ToggleDebug()
		events.Input.Key(name, "debug")
		events.Input.Debug(enabled)
		return Result{Handled: true, DebugToggled: true}
	}
	return Result{}
}

func (d *Dispatcher) traceSelect(id string, t navigator.Transition) {
	switch t.Action {
	case navigator.ActionInert:
		events.View.Inert(id)
	case navigator.ActionSwitch:
		events.View.Switch(id, string(t.From), string(t.To))
		d.traceVisible()
	case navigator.ActionPopupOpen:
		if t.PreviousPopup != "" {
			events.Popup.Close(t.PreviousPopup, events.PopupReasonToggle)
		}
		events.Popup.Open(t.Popup)
	case navigator.ActionPopupClose:
		events.Popup.Close(t.PreviousPopup, events.PopupReasonToggle)
	}
}

func (d *Dispatcher) traceVisible() {
	events.View.Visible(string(d.nav.CurrentView()), d.nav.VisibleIDs())
}
