package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/atomicstack/kiosk-imagemap/internal/card"
	"github.com/atomicstack/kiosk-imagemap/internal/input"
	"github.com/charmbracelet/x/ansi"
)

const (
	minWidth         = 20
	minHeight        = 8
	minCanvasHeight  = 3
	backLabel        = "◂ Back"
	overlayCloseMark = "[x]"
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return r.w > 0 && r.h > 0 && x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

type cardBox struct {
	card  card.Card
	rect  rect
	label string
}

// layout is the screen geometry for one frame. Rendering and hit-testing
// both derive from it so a press always lands on what was drawn.
type layout struct {
	width  int
	height int

	canvas rect
	inner  rect
	cards  []cardBox

	popupID    string
	popup      rect
	popupLines []string

	back     rect
	overlay  rect
	closeBtn rect

	backRow   int
	debugRow  int
	statusRow int
	searchRow int
	footerRow int
}

func (m *Model) computeLayout() layout {
	l := layout{
		width:     max(m.width, minWidth),
		height:    max(m.height, minHeight),
		debugRow:  -1,
		searchRow: -1,
		footerRow: -1,
	}
	showDebug := m.nav.Debug()
	showSearch := m.mode == ModeSearch
	showFooter := m.showFooter
	below := func() int {
		n := 2 // back button row + status line
		for _, on := range []bool{showDebug, showSearch, showFooter} {
			if on {
				n++
			}
		}
		return n
	}
	// optional rows give way to the canvas: footer first, then debug, then search
	for _, drop := range []*bool{&showFooter, &showDebug, &showSearch} {
		if 1+minCanvasHeight+below() <= l.height {
			break
		}
		*drop = false
	}
	canvasH := max(l.height-1-below(), minCanvasHeight)
	l.canvas = rect{x: 0, y: 1, w: l.width, h: canvasH}
	l.inner = rect{x: 1, y: 2, w: l.width - 2, h: canvasH - 2}

	row := l.canvas.y + l.canvas.h
	l.backRow = row
	if m.nav.BackVisible() {
		l.back = rect{x: 0, y: row, w: ansi.StringWidth(backLabel) + 2, h: 1}
	}
	row++
	if showDebug {
		l.debugRow = row
		row++
	}
	l.statusRow = row
	row++
	if showSearch {
		l.searchRow = row
		row++
	}
	if showFooter {
		l.footerRow = row
	}

	if m.nav.OverlayOpen() {
		l.overlay = rect{x: 0, y: 0, w: l.width, h: l.statusRow}
		if m.doc.HasOverlayClose {
			w := ansi.StringWidth(overlayCloseMark)
			l.closeBtn = rect{x: l.width - w - 2, y: 0, w: w, h: 1}
		}
		return l
	}

	l.cards = m.placeCards(l.inner)
	m.placePopup(&l)
	return l
}

func (m *Model) placeCards(inner rect) []cardBox {
	visible := m.nav.VisibleCards()
	boxes := make([]cardBox, 0, len(visible))
	stacked := 0
	for _, c := range visible {
		label := cardLabel(c, m.nav.Debug())
		w := ansi.StringWidth(label)
		h := 1
		var x, y int
		if c.Position.Set {
			if c.Position.Width > 0 {
				w = max(w, percentOf(c.Position.Width, inner.w))
			}
			if c.Position.Height > 0 {
				h = max(1, percentOf(c.Position.Height, inner.h))
			}
			x = inner.x + percentOf(c.Position.Left, inner.w)
			y = inner.y + percentOf(c.Position.Top, inner.h)
		} else {
			x = inner.x + 1
			y = inner.y + stacked%max(inner.h, 1)
			stacked++
		}
		w = min(w, inner.w)
		h = min(h, inner.h)
		if x+w > inner.x+inner.w {
			x = inner.x + inner.w - w
		}
		if y+h > inner.y+inner.h {
			y = inner.y + inner.h - h
		}
		boxes = append(boxes, cardBox{
			card:  c,
			label: label,
			rect:  rect{x: max(x, inner.x), y: max(y, inner.y), w: w, h: h},
		})
	}
	return boxes
}

// placePopup anchors the expanded popup to the bottom of the canvas. A popup
// whose card is hidden on the current view is not drawn.
func (m *Model) placePopup(l *layout) {
	id := m.nav.ActivePopup()
	if id == "" || !m.nav.IsVisible(id) {
		return
	}
	c, ok := m.nav.Card(id)
	if !ok {
		return
	}
	textW := max(l.inner.w-4, 1)
	body := renderMarkdown(c.Body, m.markdownStyle, textW)
	lines := []string{"(no details)"}
	if body != "" {
		lines = strings.Split(body, "\n")
	}
	maxBody := max(l.inner.h*2/3-3, 1)
	if len(lines) > maxBody {
		lines = append(lines[:maxBody-1], "…")
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, textW, "…")
	}
	h := len(lines) + 3
	l.popupID = id
	l.popupLines = lines
	l.popup = rect{x: l.inner.x, y: l.inner.y + l.inner.h - h, w: l.inner.w, h: h}
	if l.popup.y < l.inner.y {
		l.popup.y = l.inner.y
	}
}

// hitTest maps a screen cell onto the element an activation there lands on.
func (l layout) hitTest(x, y int) string {
	if l.overlay.w > 0 {
		if l.closeBtn.contains(x, y) {
			return input.TargetOverlayClose
		}
		return input.TargetOverlay
	}
	if l.back.contains(x, y) {
		return input.TargetBackButton
	}
	if l.popup.contains(x, y) {
		return input.TargetPopupBody
	}
	for i := len(l.cards) - 1; i >= 0; i-- {
		if l.cards[i].rect.contains(x, y) {
			return l.cards[i].card.ID
		}
	}
	return input.TargetOutside
}

func (l layout) box(id string) (cardBox, bool) {
	for _, b := range l.cards {
		if b.card.ID == id {
			return b, true
		}
	}
	return cardBox{}, false
}

func cardLabel(c card.Card, debug bool) string {
	var label string
	switch {
	case c.Inert():
		label = " " + c.Label() + " · "
	case c.IsSwitch():
		label = " " + c.Label() + " ▸ "
	default:
		label = " " + c.Label() + " "
	}
	if !debug {
		return label
	}
	extra := c.ID + " " + c.Kind.String()
	if c.IsSwitch() {
		extra += fmt.Sprintf(" →%s", c.SwitchImage)
	}
	if c.VisibleOn != "" {
		extra += fmt.Sprintf(" @%s", c.VisibleOn)
	}
	if c.Location != "" {
		extra += fmt.Sprintf(" loc=%s", c.Location)
	}
	return label + "[" + extra + "] "
}

func percentOf(pct float64, total int) int {
	return int(math.Round(pct / 100 * float64(total)))
}
