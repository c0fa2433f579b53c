package app

import (
	"errors"
	"testing"
	"time"

	"github.com/atomicstack/kiosk-imagemap/internal/input"
	"github.com/atomicstack/kiosk-imagemap/internal/markup"
	"github.com/atomicstack/kiosk-imagemap/internal/navigator"
	"github.com/atomicstack/kiosk-imagemap/internal/testutil"
)

const noRootPage = `<html><body>
<div class="info-card" id="solo"><div class="card-header">Solo</div></div>
</body></html>`

func TestLoadDocumentReadsSample(t *testing.T) {
	doc, err := LoadDocument(Config{Markup: testutil.WriteSample(t)})
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if doc.RootImage != "Frame 1.png" {
		t.Fatalf("unexpected root %q", doc.RootImage)
	}
}

func TestLoadDocumentRootOverride(t *testing.T) {
	path := testutil.WritePage(t, noRootPage)
	if _, err := LoadDocument(Config{Markup: path}); !errors.Is(err, markup.ErrNoMainImage) {
		t.Fatalf("expected ErrNoMainImage, got %v", err)
	}
	doc, err := LoadDocument(Config{Markup: path, RootImage: "Lobby.png"})
	if err != nil {
		t.Fatalf("expected override to succeed, got %v", err)
	}
	if doc.RootImage != "Lobby.png" || len(doc.Cards) != 1 {
		t.Fatalf("unexpected document %#v", doc)
	}
}

func TestLoadDocumentMissingFile(t *testing.T) {
	if _, err := LoadDocument(Config{Markup: "/nonexistent/page.html", RootImage: "x.png"}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestNewDispatcherAppliesOptions(t *testing.T) {
	doc, err := LoadDocument(Config{Markup: testutil.WriteSample(t)})
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	d, err := NewDispatcher(Config{PopupPolicy: "always", TouchWindow: time.Second}, doc)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	nav := d.Navigator()
	if nav.Policy() != navigator.PopupsAlways {
		t.Fatalf("expected policy always, got %s", nav.Policy())
	}
	if nav.Root() != doc.RootImage {
		t.Fatalf("expected root %q, got %q", doc.RootImage, nav.Root())
	}
	res := d.Handle(input.Click{Target: "engine"})
	if res.Err != nil || nav.ActivePopup() != "engine" {
		t.Fatalf("expected engine popup, got %q (err %v)", nav.ActivePopup(), res.Err)
	}
}

func TestNewDispatcherRejectsUnknownPolicy(t *testing.T) {
	doc, err := LoadDocument(Config{Markup: testutil.WriteSample(t)})
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if _, err := NewDispatcher(Config{PopupPolicy: "never"}, doc); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
