package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// popupTimeoutMsg fires when an auto-close timer expires. gen ties it to the
// popup opening that scheduled it, so a stale timer never closes a popup that
// was reopened in the meantime.
type popupTimeoutMsg struct {
	id  string
	gen int
}

func popupTimeoutCmd(id string, gen int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return popupTimeoutMsg{id: id, gen: gen}
	})
}
