// Package backend watches the kiosk page on disk and publishes reparsed
// documents whenever it changes.
package backend

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/atomicstack/kiosk-imagemap/internal/markup"
)

// Kind represents the type of data emitted by the watcher.
type Kind int

const (
	// KindMarkup carries a freshly parsed document.
	KindMarkup Kind = iota
	// KindRemoved reports that the page disappeared.
	KindRemoved
)

// Event conveys an updated document or an error from a poll.
type Event struct {
	Kind    Kind
	Path    string
	Doc     *markup.Document
	ModTime time.Time
	Err     error
}

// Loader parses the page at path.
type Loader func(path string) (*markup.Document, error)

// DefaultSettle is the minimum interval between two reparses.
const DefaultSettle = 250 * time.Millisecond

// Option customises a Watcher.
type Option func(*Watcher)

// WithLoader replaces markup.ParseFile, e.g. to apply a root image override.
func WithLoader(l Loader) Option {
	return func(w *Watcher) {
		if l != nil {
			w.load = l
		}
	}
}

// WithSettle sets the minimum interval between two reparses.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) { w.settle = d }
}

// WithClock overrides the time source used by the reparse throttle.
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) { w.now = now }
}

type fingerprint struct {
	mod  time.Time
	size int64
	ok   bool
}

// Watcher polls the page's modification time at a fixed interval.
type Watcher struct {
	path     string
	interval time.Duration
	settle   time.Duration
	now      func() time.Time
	load     Loader

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts polling path every interval. A non-positive interval
// disables polling; the events channel is then closed immediately.
func NewWatcher(path string, interval time.Duration, opts ...Option) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     path,
		interval: interval,
		settle:   DefaultSettle,
		load:     markup.ParseFile,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 4),
	}
	for _, opt := range opts {
		opt(w)
	}

	if interval > 0 && path != "" {
		w.wg.Add(1)
		go w.poll(stat(path))
	}

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of watcher events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. The poller exits after its current parse
// completes; use Wait if a clean drain is required.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the poller has exited and the events channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func stat(path string) fingerprint {
	info, err := os.Stat(path)
	if err != nil {
		return fingerprint{}
	}
	return fingerprint{mod: info.ModTime(), size: info.Size(), ok: true}
}

func (f fingerprint) same(o fingerprint) bool {
	return f.ok == o.ok && f.size == o.size && f.mod.Equal(o.mod)
}

func (w *Watcher) poll(last fingerprint) {
	defer w.wg.Done()

	throttle := newThrottle(w.settle, w.now)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	emit := func(evt Event) bool {
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
		}
		cur := stat(w.path)
		if cur.same(last) {
			continue
		}
		last = cur
		if !cur.ok {
			if !emit(Event{Kind: KindRemoved, Path: w.path, Err: errors.New("markup file is missing")}) {
				return
			}
			continue
		}
		if !throttle.wait(w.ctx) {
			return
		}
		doc, err := w.load(w.path)
		if !emit(Event{Kind: KindMarkup, Path: w.path, Doc: doc, ModTime: cur.mod, Err: err}) {
			return
		}
	}
}
