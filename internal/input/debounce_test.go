package input

import (
	"testing"
	"time"
)

func TestDebouncerSuppressesSecondTouchInsideWindow(t *testing.T) {
	d := NewDebouncer(DefaultTouchWindow)
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	if ok, _ := d.Allow("engine", start); !ok {
		t.Fatalf("expected first touch allowed")
	}
	ok, since := d.Allow("engine", start.Add(150*time.Millisecond))
	if ok {
		t.Fatalf("expected second touch 150ms later to be suppressed")
	}
	if since != 150*time.Millisecond {
		t.Fatalf("expected since 150ms, got %s", since)
	}
	if ok, _ := d.Allow("bridge", start.Add(160*time.Millisecond)); !ok {
		t.Fatalf("expected touch on another target allowed")
	}
	if ok, _ := d.Allow("engine", start.Add(300*time.Millisecond)); !ok {
		t.Fatalf("expected touch at the window edge allowed")
	}
}

func TestDebouncerSuppressedTouchDoesNotExtendWindow(t *testing.T) {
	d := NewDebouncer(300 * time.Millisecond)
	start := time.Unix(0, 0)
	d.Allow("a", start)
	d.Allow("a", start.Add(200*time.Millisecond))
	if ok, _ := d.Allow("a", start.Add(350*time.Millisecond)); !ok {
		t.Fatalf("expected window measured from the last accepted touch")
	}
}

func TestDebouncerDisabled(t *testing.T) {
	d := NewDebouncer(0)
	now := time.Unix(0, 0)
	for i := 0; i < 3; i++ {
		if ok, _ := d.Allow("a", now); !ok {
			t.Fatalf("expected disabled debouncer to allow every touch")
		}
	}
	var nilDebouncer *Debouncer
	if ok, _ := nilDebouncer.Allow("a", now); !ok {
		t.Fatalf("expected nil debouncer to allow")
	}
}

func TestDebouncerReset(t *testing.T) {
	d := NewDebouncer(time.Second)
	now := time.Unix(0, 0)
	d.Allow("a", now)
	d.Reset()
	if ok, _ := d.Allow("a", now.Add(time.Millisecond)); !ok {
		t.Fatalf("expected reset to forget previous touches")
	}
}

func TestIsCard(t *testing.T) {
	for _, target := range []string{TargetOutside, TargetBackButton, TargetOverlay, TargetOverlayClose, TargetPopupBody} {
		if IsCard(target) {
			t.Fatalf("expected %q not to be a card", target)
		}
	}
	if !IsCard("engine") {
		t.Fatalf("expected card id to be a card")
	}
}
