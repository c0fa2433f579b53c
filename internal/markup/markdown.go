package markup

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// markdownEscaper backslash-escapes characters that carry inline meaning.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"~", `\~`,
	"|", `\|`,
)

// leadingMarker matches text that would open a list item at block start.
var leadingMarker = regexp.MustCompile(`^([0-9]{1,9})([.)])(\s|$)`)

// escapeLeading keeps literal block text from being read as a list marker.
func escapeLeading(text string) string {
	if strings.HasPrefix(text, "-") || strings.HasPrefix(text, "+") {
		return `\` + text
	}
	if m := leadingMarker.FindStringSubmatchIndex(text); m != nil {
		return text[:m[4]] + `\` + text[m[4]:]
	}
	return text
}

// toMarkdown renders a popup's content as Markdown so the UI can hand it to
// a terminal Markdown renderer. Only the structure kiosk popups use is kept.
func toMarkdown(n *html.Node) string {
	var blocks []string
	var inline strings.Builder
	flush := func() {
		if text := collapse(inline.String()); text != "" {
			blocks = append(blocks, escapeLeading(text))
		}
		inline.Reset()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && isBlock(c.Data) {
			flush()
			if block := blockMarkdown(c); block != "" {
				blocks = append(blocks, block)
			}
			continue
		}
		inline.WriteString(inlineMarkdown(c))
	}
	flush()
	return strings.Join(blocks, "\n\n")
}

func isBlock(tag string) bool {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6", "p", "ul", "ol", "div", "section", "blockquote":
		return true
	}
	return false
}

func blockMarkdown(n *html.Node) string {
	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level, _ := strconv.Atoi(n.Data[1:])
		text := collapse(inlineMarkdown(n))
		if text == "" {
			return ""
		}
		return strings.Repeat("#", level) + " " + text
	case "ul", "ol":
		var items []string
		idx := 0
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || c.Data != "li" {
				continue
			}
			idx++
			bullet := "-"
			if n.Data == "ol" {
				bullet = strconv.Itoa(idx) + "."
			}
			items = append(items, bullet+" "+escapeLeading(collapse(inlineMarkdown(c))))
		}
		return strings.Join(items, "\n")
	case "blockquote":
		text := collapse(inlineMarkdown(n))
		if text == "" {
			return ""
		}
		return "> " + escapeLeading(text)
	case "div", "section":
		return toMarkdown(n)
	default:
		return escapeLeading(collapse(inlineMarkdown(n)))
	}
}

func inlineMarkdown(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return markdownEscaper.Replace(n.Data)
	case html.ElementNode:
	default:
		return ""
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(inlineMarkdown(c))
	}
	inner := b.String()
	switch n.Data {
	case "strong", "b":
		if t := strings.TrimSpace(inner); t != "" {
			return " **" + t + "** "
		}
	case "em", "i":
		if t := strings.TrimSpace(inner); t != "" {
			return " *" + t + "* "
		}
	case "br":
		return " "
	case "img":
		if alt := strings.TrimSpace(attr(n, "alt")); alt != "" {
			return " [" + alt + "] "
		}
		return ""
	case "script", "style":
		return ""
	}
	return inner
}
