package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/kiosk-imagemap/internal/input"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

const footerHints = "tab focus  enter open  b back  f fullscreen  / search  esc close  d debug  q quit"

// View implements tea.Model.
func (m *Model) View() string {
	l := m.computeLayout()
	rows := make([]string, l.height)

	if l.overlay.w > 0 {
		copy(rows, m.renderOverlay(l))
	} else {
		rows[0] = m.renderHeader(l.width)
		copy(rows[l.canvas.y:], m.renderCanvas(l))
		if l.back.w > 0 {
			rows[l.backRow] = render(styles.BackButton, backLabel)
		}
		if l.debugRow >= 0 {
			rows[l.debugRow] = render(styles.Debug, truncateText(m.debugLine(), l.width))
		}
	}
	rows[l.statusRow] = m.renderStatus(l.width)
	if l.searchRow >= 0 {
		rows[l.searchRow] = m.renderSearch(l.width)
	}
	if l.footerRow >= 0 {
		rows[l.footerRow] = render(styles.Footer, truncateText(footerHints, l.width))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderHeader(width int) string {
	title := m.doc.Title
	if title == "" {
		title = "kiosk"
	}
	text := fmt.Sprintf("%s · %s", title, m.nav.CurrentView())
	return render(styles.Header, truncateText(text, width))
}

func (m *Model) renderCanvas(l layout) []string {
	inner := make([]string, l.inner.h)
	blank := strings.Repeat(" ", l.inner.w)
	for i := range inner {
		inner[i] = blank
	}
	focused := m.focus.CurrentID()
	for _, b := range l.cards {
		style := m.cardStyle(b, focused)
		label := truncate.StringWithTail(b.label, uint(b.rect.w), "…")
		for r := 0; r < b.rect.h; r++ {
			text := ""
			if r == 0 {
				text = label
			}
			pad := b.rect.w - ansi.StringWidth(text)
			cell := style.Render(text + strings.Repeat(" ", max(pad, 0)))
			row := b.rect.y - l.inner.y + r
			inner[row] = splice(inner[row], cell, b.rect.x-l.inner.x, b.rect.w, l.inner.w)
		}
	}
	if l.popup.h > 0 {
		for i, line := range m.renderPopup(l) {
			row := l.popup.y - l.inner.y + i
			if row >= 0 && row < len(inner) {
				inner[row] = splice(inner[row], line, 0, l.inner.w, l.inner.w)
			}
		}
	}

	framed := strings.Split(render(styles.Canvas, strings.Join(inner, "\n")), "\n")
	if len(framed) > 0 {
		label := " " + string(m.nav.CurrentView()) + " "
		if styles.CanvasTitle != nil {
			label = styles.CanvasTitle.Render(label)
		}
		if lipgloss.Width(label)+4 <= l.width {
			framed[0] = splice(framed[0], label, 2, lipgloss.Width(label), l.width)
		}
	}
	return framed
}

func (m *Model) cardStyle(b cardBox, focused string) lipgloss.Style {
	base := styles.PopupCard
	switch {
	case b.card.Inert():
		base = styles.InertCard
	case b.card.IsSwitch():
		base = styles.SwitchCard
	case m.nav.IsActive(b.card.ID):
		base = styles.ActiveCard
	}
	style := lipgloss.NewStyle()
	if base != nil {
		style = *base
	}
	if b.card.ID == focused && styles.FocusedCard != nil {
		style = styles.FocusedCard.Inherit(style)
	}
	return style
}

func (m *Model) renderPopup(l layout) []string {
	c, _ := m.nav.Card(l.popupID)
	title := c.Label()
	if styles.PopupTitle != nil {
		title = styles.PopupTitle.Render(title)
	}
	content := title + "\n" + strings.Join(l.popupLines, "\n")
	panel := lipgloss.NewStyle()
	if styles.PopupPanel != nil {
		panel = *styles.PopupPanel
	}
	out := strings.Split(panel.Width(l.popup.w-2).Render(content), "\n")
	if len(out) > l.popup.h {
		out = out[:l.popup.h]
	}
	return out
}

func (m *Model) renderOverlay(l layout) []string {
	image := string(m.nav.OverlayImage())
	lines := []string{render(styles.OverlayTitle, image)}
	if m.nav.OverlayImage() == m.nav.Root() && m.doc.RootAlt != "" {
		lines = append(lines, m.doc.RootAlt)
	}
	lines = append(lines, "", render(styles.OverlayHint, "click anywhere or press esc to close"))

	innerH := max(l.overlay.h-2, 1)
	for len(lines) < innerH {
		lines = append(lines, "")
	}
	lines = lines[:innerH]
	box := lipgloss.NewStyle()
	if styles.Overlay != nil {
		box = *styles.Overlay
	}
	out := strings.Split(box.Width(l.overlay.w-2).Render(strings.Join(lines, "\n")), "\n")
	if l.closeBtn.w > 0 && len(out) > 0 {
		out[0] = splice(out[0], overlayCloseMark, l.closeBtn.x, l.closeBtn.w, l.width)
	}
	if len(out) > l.overlay.h {
		out = out[:l.overlay.h]
	}
	return out
}

func (m *Model) renderStatus(width int) string {
	if m.errMsg != "" {
		return render(styles.Error, truncateText("Error: "+m.errMsg, width))
	}
	if info := m.currentInfo(); info != "" {
		return render(styles.Info, truncateText(info, width))
	}
	return ""
}

// searchWindow is how many matches the search row lists at once.
const searchWindow = 3

// renderSearch draws the query and a scrolling strip of matches. The strip
// follows the list's viewport so the focused match is always on screen.
func (m *Model) renderSearch(width int) string {
	items := m.focus.Items
	line := m.search.View() + render(styles.SearchItem, fmt.Sprintf("  %d/%d ", len(items), len(m.focus.Full)))
	start := min(m.focus.ViewportOffset, len(items))
	end := min(start+searchWindow, len(items))
	if start > 0 {
		line += render(styles.SearchItem, " ‹")
	}
	for i := start; i < end; i++ {
		if i == m.focus.Cursor {
			line += render(styles.SearchCurrent, " → "+items[i].Label)
			continue
		}
		line += render(styles.SearchItem, "   "+items[i].Label)
	}
	if end < len(items) {
		line += render(styles.SearchItem, " ›")
	}
	return ansi.Truncate(line, width, "…")
}

func (m *Model) debugLine() string {
	popup := m.nav.ActivePopup()
	if popup == "" {
		popup = "-"
	}
	return fmt.Sprintf("view=%s root=%s popup=%s overlay=%t policy=%s visible=%s",
		m.nav.CurrentView(), m.nav.Root(), popup, m.nav.OverlayOpen(), m.nav.Policy(),
		strings.Join(m.nav.VisibleIDs(), ","))
}

// handleMouseMsg turns a left press into a click or touch on whatever the
// layout shows at that cell.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	if ev.Action != tea.MouseActionPress || ev.Button != tea.MouseButtonLeft {
		return nil
	}
	target := m.computeLayout().hitTest(ev.X, ev.Y)
	if input.IsCard(target) {
		m.focus.Focus(target)
	}
	if m.touch {
		return m.dispatch(input.TouchEnd{Target: target, At: m.now()})
	}
	return m.dispatch(input.Click{Target: target})
}

// splice overwrites width cells of line starting at x with cell. Both may
// carry ANSI styling.
func splice(line, cell string, x, width, total int) string {
	if x < 0 {
		x = 0
	}
	left := ansi.Cut(line, 0, x)
	right := ""
	if x+width < total {
		right = ansi.Cut(line, x+width, total)
	}
	return left + cell + right
}

func render(style *lipgloss.Style, text string) string {
	if style == nil || text == "" {
		return text
	}
	return style.Render(text)
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return truncate.StringWithTail(text, uint(width), "…")
}
