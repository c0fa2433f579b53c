// Package markup builds card descriptors from a kiosk page. The page is read
// once; later logic only ever sees the typed card.Card values produced here.
package markup

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/atomicstack/kiosk-imagemap/internal/card"
	"golang.org/x/net/html"
)

const (
	classCard       = "info-card"
	classSwitchCard = "image-switch-card"
	classHeader     = "card-header"
	classPopup      = "card-popup"
	classModalClose = "modal-close"

	idMainImage  = "main-image"
	idBackButton = "back-button"
	idModal      = "fullscreen-modal"
	idModalImage = "modal-image"

	attrSwitchImage   = "data-switch-image"
	attrVisibleOn     = "data-visible-on"
	attrVisiblePrefix = "data-visible-prefix"
	attrLocation      = "data-location"
)

// ErrNoMainImage is returned when the page has no #main-image element.
var ErrNoMainImage = errors.New("markup: no #main-image element")

// Document is the parsed kiosk page.
type Document struct {
	Title           string
	RootImage       card.ImageID
	RootAlt         string
	Cards           []card.Card
	HasBackButton   bool
	HasOverlay      bool
	HasOverlayClose bool
	OverlayImage    card.ImageID
}

// Card returns the card with the given ID.
func (d *Document) Card(id string) (card.Card, bool) {
	if d == nil {
		return card.Card{}, false
	}
	for _, c := range d.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return card.Card{}, false
}

// ParseFile reads and parses the page at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open markup %s: %w", path, err)
	}
	defer f.Close()
	doc, err := Parse(f)
	if err != nil {
		return doc, fmt.Errorf("parse markup %s: %w", path, err)
	}
	return doc, nil
}

// Parse reads a kiosk page. When the page lacks a main image the partially
// filled document is returned together with ErrNoMainImage so callers that
// supply their own root image can continue.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("html: %w", err)
	}
	doc := &Document{}
	ids := make(map[string]int)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "title" && doc.Title == "":
				doc.Title = collapse(textContent(n))
			case attr(n, "id") == idMainImage && doc.RootImage == "":
				doc.RootImage = card.ImageID(imageSource(n))
				doc.RootAlt = strings.TrimSpace(attr(n, "alt"))
			case attr(n, "id") == idBackButton:
				doc.HasBackButton = true
			case attr(n, "id") == idModal:
				doc.HasOverlay = true
			case attr(n, "id") == idModalImage:
				doc.OverlayImage = card.ImageID(imageSource(n))
			}
			if hasClass(n, classModalClose) {
				doc.HasOverlayClose = true
			}
			if hasClass(n, classCard) {
				doc.Cards = append(doc.Cards, buildCard(n, len(doc.Cards)+1, ids))
				// Nested cards are not supported; the card's subtree belongs to it.
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	if doc.RootImage == "" {
		return doc, ErrNoMainImage
	}
	return doc, nil
}

func buildCard(n *html.Node, ordinal int, ids map[string]int) card.Card {
	c := card.Card{
		ID:            uniqueID(strings.TrimSpace(attr(n, "id")), ordinal, ids),
		Kind:          card.KindPopup,
		VisibleOn:     card.ImageID(strings.TrimSpace(attr(n, attrVisibleOn))),
		VisiblePrefix: strings.TrimSpace(attr(n, attrVisiblePrefix)),
		Location:      strings.TrimSpace(attr(n, attrLocation)),
	}
	if hasClass(n, classSwitchCard) {
		c.Kind = card.KindSwitch
		c.SwitchImage = card.ImageID(strings.TrimSpace(attr(n, attrSwitchImage)))
	}
	style := parseStyle(attr(n, "style"))
	c.Position = positionFromStyle(style)
	c.Hidden = strings.EqualFold(style["display"], "none")

	if header := findClass(n, classHeader); header != nil {
		c.Title = collapse(textContent(header))
	}
	popup := findClass(n, classPopup)
	if popup != nil {
		c.Body = toMarkdown(popup)
	}
	if c.Title == "" {
		c.Title = collapse(textContentExcept(n, popup))
	}
	return c
}

func uniqueID(id string, ordinal int, seen map[string]int) string {
	if id == "" {
		id = "card-" + strconv.Itoa(ordinal)
	}
	count := seen[id]
	seen[id] = count + 1
	if count == 0 {
		return id
	}
	candidate := id + "-" + strconv.Itoa(count+1)
	for seen[candidate] > 0 {
		count++
		candidate = id + "-" + strconv.Itoa(count+1)
	}
	seen[candidate] = 1
	return candidate
}

func imageSource(n *html.Node) string {
	src := strings.TrimSpace(attr(n, "src"))
	if unescaped, err := url.PathUnescape(src); err == nil {
		return unescaped
	}
	return src
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attr(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func findClass(n *html.Node, class string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if hasClass(c, class) {
			return c
		}
		if found := findClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	return textContentExcept(n, nil)
}

func textContentExcept(n, skip *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur == skip && skip != nil {
			return
		}
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
			b.WriteByte(' ')
			return
		}
		if cur.Type == html.ElementNode && (cur.Data == "script" || cur.Data == "style") {
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
