package ui

import (
	"fmt"

	"github.com/atomicstack/kiosk-imagemap/internal/backend"
	"github.com/atomicstack/kiosk-imagemap/internal/logging"
	"github.com/atomicstack/kiosk-imagemap/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.watcher != nil {
		return waitForBackendEvent(m.watcher)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.watcher = nil
	return nil
}

// applyBackendEvent swaps a reparsed page into the navigator. A page that
// fails to parse leaves the current cards in place.
func (m *Model) applyBackendEvent(evt backend.Event) {
	if evt.Err != nil {
		events.Markup.Error(evt.Path, evt.Err)
		logging.Error(evt.Err)
		m.errMsg = fmt.Sprintf("reload failed: %v", evt.Err)
		return
	}
	if evt.Kind != backend.KindMarkup || evt.Doc == nil {
		return
	}
	if evt.Doc.RootImage != "" && evt.Doc.RootImage != m.nav.Root() {
		logging.Info("reloaded page names a different root image; keeping the current one",
			zap.String("current", string(m.nav.Root())), zap.String("reloaded", string(evt.Doc.RootImage)))
	}
	m.doc = evt.Doc
	t := m.dispatcher.Reload(evt.Doc.Cards, evt.Doc.HasOverlayClose)
	if t.PopupChanged {
		events.Popup.Close(t.PreviousPopup, events.PopupReasonReload)
	}
	if !evt.Doc.HasOverlay && m.nav.OverlayOpen() {
		m.nav.DismissOverlay()
	}
	events.Markup.Reload(evt.Path, len(evt.Doc.Cards))
	m.refreshFocus()
	m.errMsg = ""
	m.setInfo(fmt.Sprintf("reloaded %d cards", len(evt.Doc.Cards)))
}
