package ui

import (
	"github.com/atomicstack/kiosk-imagemap/internal/input"
	"github.com/atomicstack/kiosk-imagemap/internal/logging/events"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "find a card"
	ti.CharLimit = 64
	// a blinking cursor would keep a tick running for the whole session
	ti.Cursor.SetMode(cursor.CursorStatic)
	if styles.SearchPrompt != nil {
		ti.PromptStyle = *styles.SearchPrompt
	}
	return ti
}

func (m *Model) startSearch() tea.Cmd {
	m.mode = ModeSearch
	m.search.SetValue("")
	m.focus.SetFilter("")
	m.focus.EnsureCursorVisible(searchWindow)
	events.Input.Key("/", "search")
	return m.search.Focus()
}

// stopSearch leaves search mode. It never triggers an Escape transition.
func (m *Model) stopSearch() {
	m.mode = ModeCanvas
	m.search.Blur()
	m.search.SetValue("")
	m.focus.ClearFilter()
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		m.stopSearch()
		return nil
	case "enter":
		id := m.focus.CurrentID()
		m.stopSearch()
		if id == "" {
			return nil
		}
		m.focus.Focus(id)
		return m.dispatch(input.Click{Target: id})
	case "tab", "down":
		m.focus.Next()
	case "shift+tab", "up":
		m.focus.Prev()
	case "pgdown":
		m.focus.MoveCursorBy(searchWindow)
	case "pgup":
		m.focus.MoveCursorBy(-searchWindow)
	default:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != m.focus.Filter {
			m.focus.SetFilter(m.search.Value())
		}
		m.focus.EnsureCursorVisible(searchWindow)
		return cmd
	}
	m.focus.EnsureCursorVisible(searchWindow)
	return nil
}
