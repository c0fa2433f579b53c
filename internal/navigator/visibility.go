package navigator

import (
	"strings"

	"github.com/atomicstack/kiosk-imagemap/internal/card"
)

// visibleOn applies the visibility rule for one card in view v.
//
// Switch cards without a visible-on value belong to the root view. Cards tagged
// with a return location also match every view sharing their return prefix.
func (n *Navigator) visibleOn(c card.Card, v card.ImageID) bool {
	if c.IsPopup() {
		if n.policy == PopupsAlways || v == n.root {
			return true
		}
		return c.VisibleOn != "" && c.VisibleOn == v
	}
	on := c.VisibleOn
	if strings.TrimSpace(string(on)) == "" {
		on = n.root
	}
	if v == on {
		return true
	}
	if _, ok := n.returnTags[c.Location]; ok {
		prefix := c.ReturnPrefix(n.root)
		return prefix != "" && strings.HasPrefix(string(v), prefix)
	}
	return false
}

// recompute refreshes visibility for the current view and reports whether
// any card changed state.
func (n *Navigator) recompute() bool {
	next := make(map[string]bool, len(n.cards))
	changed := len(n.visible) != len(n.cards)
	for _, c := range n.cards {
		vis := n.visibleOn(c, n.current)
		next[c.ID] = vis
		if prev, ok := n.visible[c.ID]; !ok || prev != vis {
			changed = true
		}
	}
	n.visible = next
	return changed
}
