package markup

import (
	"errors"
	"strings"
	"testing"

	"github.com/atomicstack/kiosk-imagemap/internal/card"
	"github.com/atomicstack/kiosk-imagemap/internal/testutil"
)

func TestParseSamplePage(t *testing.T) {
	doc, err := Parse(strings.NewReader(testutil.SamplePage))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.Title != "Lobby Display" {
		t.Fatalf("expected title, got %q", doc.Title)
	}
	if doc.RootImage != "Frame 1.png" {
		t.Fatalf("expected unescaped root image, got %q", doc.RootImage)
	}
	if doc.RootAlt != "Lobby overview" {
		t.Fatalf("expected alt text, got %q", doc.RootAlt)
	}
	if !doc.HasBackButton || !doc.HasOverlay || !doc.HasOverlayClose {
		t.Fatalf("expected back button, overlay and close control, got %+v", doc)
	}
	if len(doc.Cards) != 6 {
		t.Fatalf("expected 6 cards, got %d", len(doc.Cards))
	}

	engine, ok := doc.Card("engine")
	if !ok {
		t.Fatalf("expected engine card")
	}
	if engine.Kind != card.KindPopup || engine.Title != "Engine" {
		t.Fatalf("unexpected engine card %+v", engine)
	}
	if !strings.Contains(engine.Body, "### Engine room") {
		t.Fatalf("expected heading in body, got %q", engine.Body)
	}
	if !strings.Contains(engine.Body, "**1923**") {
		t.Fatalf("expected emphasis in body, got %q", engine.Body)
	}
	if !strings.Contains(engine.Body, "- Boiler\n- Turbine") {
		t.Fatalf("expected list in body, got %q", engine.Body)
	}
	if !engine.Position.Set || engine.Position.Left != 10 || engine.Position.Width != 20 {
		t.Fatalf("unexpected position %+v", engine.Position)
	}

	detail, _ := doc.Card("to-detail")
	if detail.Kind != card.KindSwitch || detail.SwitchImage != "Detail A.png" || detail.VisibleOn != "" {
		t.Fatalf("unexpected switch card %+v", detail)
	}
	ret, _ := doc.Card("front-return")
	if ret.Location != "front-card1-return" || ret.VisibleOn != "Front Card 1.png" {
		t.Fatalf("unexpected return card %+v", ret)
	}
	broken, _ := doc.Card("broken")
	if !broken.Inert() {
		t.Fatalf("expected card without target to be inert")
	}
}

func TestParseWithoutMainImage(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<div class="info-card"><div class="card-header">Solo</div></div>`))
	if !errors.Is(err, ErrNoMainImage) {
		t.Fatalf("expected ErrNoMainImage, got %v", err)
	}
	if doc == nil || len(doc.Cards) != 1 {
		t.Fatalf("expected partial document with one card, got %+v", doc)
	}
	if doc.HasBackButton || doc.HasOverlay || doc.HasOverlayClose {
		t.Fatalf("expected optional elements absent, got %+v", doc)
	}
}

func TestParseAssignsUniqueIDs(t *testing.T) {
	page := `<img id="main-image" src="a.png">
<div class="info-card" id="dup"><div class="card-header">One</div></div>
<div class="info-card" id="dup"><div class="card-header">Two</div></div>
<div class="info-card">Three</div>`
	doc, err := Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := []string{doc.Cards[0].ID, doc.Cards[1].ID, doc.Cards[2].ID}
	want := []string{"dup", "dup-2", "card-3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, got)
		}
	}
	if doc.Cards[2].Title != "Three" {
		t.Fatalf("expected text fallback title, got %q", doc.Cards[2].Title)
	}
}

func TestParseFileWrapsErrors(t *testing.T) {
	if _, err := ParseFile("/nonexistent/page.html"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := testutil.WriteSample(t)
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse file: %v", err)
	}
	if doc.RootImage != "Frame 1.png" {
		t.Fatalf("expected root image, got %q", doc.RootImage)
	}
}

func TestParseStyleHandlesDisplayAndUnits(t *testing.T) {
	props := parseStyle("left: 5%; top:7.5% ; display: none !important; width: 30px")
	if props["display"] != "none" {
		t.Fatalf("expected display none, got %q", props["display"])
	}
	pos := positionFromStyle(props)
	if !pos.Set || pos.Left != 5 || pos.Top != 7.5 {
		t.Fatalf("unexpected position %+v", pos)
	}
	if pos.Width != 0 {
		t.Fatalf("expected pixel width ignored, got %v", pos.Width)
	}
	if p := positionFromStyle(parseStyle("left: 5%")); p.Set {
		t.Fatalf("expected position unset without top")
	}
}

func TestPopupTextStaysLiteral(t *testing.T) {
	page := `<html><body><img id="main-image" src="a.png">
<div class="info-card" id="rating"><div class="card-header">Rating</div>
<div class="card-popup"><p>* 5 stars</p><p># 1 in town</p><p>1. place overall</p><p>- since 1999</p><p>a_b [c] <em>x*y</em></p></div>
</div></body></html>`
	doc, err := Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	body := doc.Cards[0].Body
	want := strings.Join([]string{
		`\* 5 stars`,
		`\# 1 in town`,
		`1\. place overall`,
		`\- since 1999`,
		`a\_b \[c\] *x\*y*`,
	}, "\n\n")
	if body != want {
		t.Fatalf("expected escaped body\n%q\ngot\n%q", want, body)
	}
}
