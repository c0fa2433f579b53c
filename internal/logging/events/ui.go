package events

import (
	"time"

	"github.com/atomicstack/kiosk-imagemap/internal/logging"
)

type ViewTracer struct{}

type PopupTracer struct{}

type OverlayTracer struct{}

type InputTracer struct{}

type MarkupTracer struct{}

type popupReason string

const (
	PopupReasonToggle  popupReason = "toggle"
	PopupReasonOutside popupReason = "outside"
	PopupReasonEscape  popupReason = "escape"
	PopupReasonTimeout popupReason = "timeout"
	PopupReasonReload  popupReason = "reload"
)

var (
	View    = ViewTracer{}
	Popup   = PopupTracer{}
	Overlay = OverlayTracer{}
	Input   = InputTracer{}
	Markup  = MarkupTracer{}
)

func (ViewTracer) Switch(cardID, from, to string) {
	logging.Trace("view.switch", map[string]interface{}{"card": cardID, "from": from, "to": to})
}

func (ViewTracer) Back(from, root string) {
	logging.Trace("view.back", map[string]interface{}{"from": from, "root": root})
}

func (ViewTracer) Inert(cardID string) {
	logging.Trace("view.inert", map[string]interface{}{"card": cardID})
}

func (ViewTracer) Visible(view string, ids []string) {
	logging.Trace("view.visible", map[string]interface{}{"view": view, "cards": ids})
}

func (PopupTracer) Open(cardID string) {
	logging.Trace("popup.open", map[string]interface{}{"card": cardID})
}

func (PopupTracer) Close(cardID string, reason popupReason) {
	logging.Trace("popup.close", map[string]interface{}{"card": cardID, "reason": string(reason)})
}

func (OverlayTracer) Open(image string) {
	logging.Trace("overlay.open", map[string]interface{}{"image": image})
}

func (OverlayTracer) Close(image string) {
	logging.Trace("overlay.close", map[string]interface{}{"image": image})
}

func (InputTracer) Click(target string) {
	logging.Trace("input.click", map[string]interface{}{"target": target})
}

func (InputTracer) Touch(target string, at time.Time) {
	logging.Trace("input.touch", map[string]interface{}{"target": target, "at": at})
}

func (InputTracer) Debounced(target string, since time.Duration) {
	logging.Trace("input.debounced", map[string]interface{}{"target": target, "since": since.String()})
}

func (InputTracer) Key(name, action string) {
	logging.Trace("input.key", map[string]interface{}{"key": name, "action": action})
}

func (InputTracer) Debug(enabled bool) {
	logging.Trace("input.debug", map[string]interface{}{"enabled": enabled})
}

func (MarkupTracer) Loaded(path string, cards int, root string) {
	logging.Trace("markup.loaded", map[string]interface{}{"path": path, "cards": cards, "root": root})
}

func (MarkupTracer) Reload(path string, cards int) {
	logging.Trace("markup.reload", map[string]interface{}{"path": path, "cards": cards})
}

func (MarkupTracer) Error(path string, err error) {
	if err == nil {
		return
	}
	logging.Trace("markup.error", map[string]interface{}{"path": path, "error": err.Error()})
}
