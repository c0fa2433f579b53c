package backend

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/kiosk-imagemap/internal/markup"
	"github.com/atomicstack/kiosk-imagemap/internal/testutil"
)

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case evt, ok := <-w.Events():
		if !ok {
			t.Fatalf("events channel closed unexpectedly")
		}
		return evt
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for watcher event")
	}
	return Event{}
}

func touch(t *testing.T, path, content string, offset time.Duration) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("rewrite page: %v", err)
	}
	stamp := time.Now().Add(offset)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
}

func TestWatcherEmitsReparsedDocument(t *testing.T) {
	path := testutil.WriteSample(t)
	w := NewWatcher(path, 10*time.Millisecond, WithSettle(0))
	defer func() {
		w.Stop()
		w.Wait()
	}()

	updated := strings.Replace(testutil.SamplePage, `id="bridge"`, `id="helm"`, 1)
	touch(t, path, updated, time.Minute)

	evt := waitEvent(t, w)
	if evt.Kind != KindMarkup || evt.Err != nil {
		t.Fatalf("expected markup event, got %+v", evt)
	}
	if _, ok := evt.Doc.Card("helm"); !ok {
		t.Fatalf("expected reparsed document to contain helm card")
	}
	if evt.Path != path {
		t.Fatalf("expected path %q, got %q", path, evt.Path)
	}
}

func TestWatcherReportsRemoval(t *testing.T) {
	path := testutil.WriteSample(t)
	w := NewWatcher(path, 10*time.Millisecond)
	defer func() {
		w.Stop()
		w.Wait()
	}()
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	evt := waitEvent(t, w)
	if evt.Kind != KindRemoved || evt.Err == nil {
		t.Fatalf("expected removal event, got %+v", evt)
	}
}

func TestWatcherUsesLoader(t *testing.T) {
	path := testutil.WriteSample(t)
	called := make(chan string, 1)
	loader := func(p string) (*markup.Document, error) {
		select {
		case called <- p:
		default:
		}
		return &markup.Document{RootImage: "override.png"}, nil
	}
	w := NewWatcher(path, 10*time.Millisecond, WithLoader(loader), WithSettle(0))
	defer func() {
		w.Stop()
		w.Wait()
	}()
	touch(t, path, testutil.SamplePage+" ", time.Minute)
	evt := waitEvent(t, w)
	if evt.Doc == nil || evt.Doc.RootImage != "override.png" {
		t.Fatalf("expected loader result, got %+v", evt)
	}
	if got := <-called; got != path {
		t.Fatalf("expected loader called with %q, got %q", path, got)
	}
}

func TestWatcherDisabledClosesChannel(t *testing.T) {
	w := NewWatcher("page.html", 0)
	select {
	case _, ok := <-w.Events():
		if ok {
			t.Fatalf("expected no events from disabled watcher")
		}
	case <-time.After(time.Second):
		t.Fatalf("expected events channel to close")
	}
}

func TestThrottleSpacesCalls(t *testing.T) {
	th := newThrottle(30*time.Millisecond, nil)
	ctx := context.Background()
	start := time.Now()
	th.wait(ctx)
	th.wait(ctx)
	if elapsed := time.Since(start); elapsed < 25*time.Millisecond {
		t.Fatalf("expected second wait to block, elapsed %s", elapsed)
	}
}

func TestThrottleStopsOnCancel(t *testing.T) {
	th := newThrottle(time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	if !th.wait(ctx) {
		t.Fatalf("expected first slot immediately")
	}
	cancel()
	if th.wait(ctx) {
		t.Fatalf("expected cancelled wait to return false")
	}
}
