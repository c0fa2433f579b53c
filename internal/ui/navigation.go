package ui

import (
	"github.com/atomicstack/kiosk-imagemap/internal/data/dispatcher"
	"github.com/atomicstack/kiosk-imagemap/internal/input"
	"github.com/atomicstack/kiosk-imagemap/internal/logging"
	"github.com/atomicstack/kiosk-imagemap/internal/logging/events"
	uistate "github.com/atomicstack/kiosk-imagemap/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.mode == ModeSearch {
		return m.handleSearchKey(keyMsg)
	}
	switch keyMsg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "tab", "right", "down", "l", "j":
		m.focus.Next()
	case "shift+tab", "left", "up", "h", "k":
		m.focus.Prev()
	case "home":
		m.focus.MoveCursorHome()
	case "end":
		m.focus.MoveCursorEnd()
	case "enter", " ":
		// the overlay covers every card, so none can be activated under it
		id := m.focus.CurrentID()
		if id == "" || m.nav.OverlayOpen() {
			return nil
		}
		return m.dispatch(input.Click{Target: id})
	case "b", "backspace":
		return m.dispatch(input.Click{Target: input.TargetBackButton})
	case "f":
		return m.openOverlay()
	case "/":
		return m.startSearch()
	default:
		return m.dispatch(input.Key{Name: keyMsg.String()})
	}
	return nil
}

// dispatch runs one input event through the dispatcher and brings the
// presentation in line with the resulting state.
func (m *Model) dispatch(evt input.Event) tea.Cmd {
	res := m.dispatcher.Handle(evt)
	return m.applyResult(res)
}

func (m *Model) applyResult(res dispatcher.Result) tea.Cmd {
	if !res.Handled {
		return nil
	}
	if res.Err != nil {
		logging.Error(res.Err)
		m.errMsg = res.Err.Error()
		return nil
	}
	if res.Suppressed {
		return nil
	}
	m.errMsg = ""
	t := res.Transition
	if t.VisibilityChanged || t.ViewChanged {
		m.refreshFocus()
	}
	if res.DebugToggled {
		if m.nav.Debug() {
			m.setInfo("debug on")
		} else {
			m.setInfo("debug off")
		}
	}
	if t.PopupChanged && m.nav.ActivePopup() != "" {
		return m.schedulePopupTimeout(m.nav.ActivePopup())
	}
	return nil
}

func (m *Model) refreshFocus() {
	m.focus.UpdateItems(uistate.ItemsFromCards(m.nav.VisibleCards()))
	if m.mode == ModeSearch {
		m.focus.SetFilter(m.search.Value())
		m.focus.EnsureCursorVisible(searchWindow)
	}
}

func (m *Model) openOverlay() tea.Cmd {
	if !m.doc.HasOverlay {
		m.setInfo("this page has no fullscreen view")
		return nil
	}
	t := m.nav.OpenOverlay("")
	if t.OverlayChanged {
		events.Overlay.Open(string(m.nav.OverlayImage()))
	}
	return nil
}

func (m *Model) schedulePopupTimeout(id string) tea.Cmd {
	if m.popupTimeout <= 0 {
		return nil
	}
	m.popupGen++
	return popupTimeoutCmd(id, m.popupGen, m.popupTimeout)
}

func (m *Model) handlePopupTimeoutMsg(msg tea.Msg) tea.Cmd {
	timeout, ok := msg.(popupTimeoutMsg)
	if !ok {
		return nil
	}
	if timeout.gen != m.popupGen || m.nav.ActivePopup() != timeout.id {
		return nil
	}
	t := m.nav.DismissPopups()
	if t.PopupChanged {
		events.Popup.Close(timeout.id, events.PopupReasonTimeout)
	}
	return nil
}
