package markup

import (
	"strconv"
	"strings"

	"github.com/atomicstack/kiosk-imagemap/internal/card"
)

// parseStyle splits an inline style attribute into lower-cased properties.
func parseStyle(style string) map[string]string {
	props := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		if name == "" || value == "" {
			continue
		}
		props[name] = value
	}
	return props
}

func positionFromStyle(props map[string]string) card.Position {
	var pos card.Position
	left, okLeft := percent(props["left"])
	top, okTop := percent(props["top"])
	if !okLeft || !okTop {
		return pos
	}
	pos.Left = left
	pos.Top = top
	pos.Set = true
	if w, ok := percent(props["width"]); ok {
		pos.Width = w
	}
	if h, ok := percent(props["height"]); ok {
		pos.Height = h
	}
	return pos
}

// percent accepts "12.5%" and clamps to [0,100]. Other units are ignored
// because the canvas has no pixel size to resolve them against.
func percent(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if !strings.HasSuffix(value, "%") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(value, "%")), 64)
	if err != nil {
		return 0, false
	}
	if f < 0 {
		f = 0
	}
	if f > 100 {
		f = 100
	}
	return f, true
}
