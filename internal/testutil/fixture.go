// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// SamplePage mirrors a production kiosk page: two popup cards, one switch card
// on the root view, one switch card and one prefix-return card on detail views.
const SamplePage = `<!DOCTYPE html>
<html>
<head><title>Lobby Display</title></head>
<body>
  <div class="image-container">
    <img id="main-image" src="Frame%201.png" alt="Lobby overview">
    <button id="back-button">Back</button>

    <div class="info-card" id="engine" style="left: 10%; top: 20%; width: 20%; height: 10%;">
      <div class="card-header">Engine</div>
      <div class="card-popup">
        <h3>Engine room</h3>
        <p>Built in <strong>1923</strong>.</p>
        <ul><li>Boiler</li><li>Turbine</li></ul>
      </div>
    </div>

    <div class="info-card" id="bridge" style="left: 60%; top: 20%;">
      <div class="card-header">Bridge</div>
      <div class="card-popup"><p>Command deck.</p></div>
    </div>

    <div class="info-card image-switch-card" id="to-detail" data-switch-image="Detail A.png" style="left: 40%; top: 70%;">
      <div class="card-header">Open detail</div>
    </div>

    <div class="info-card image-switch-card" id="to-front" data-switch-image="Front Card 1.png" data-visible-on="Detail A.png">
      <div class="card-header">Front</div>
    </div>

    <div class="info-card image-switch-card" id="front-return" data-location="front-card1-return" data-visible-on="Front Card 1.png" data-switch-image="Detail A.png">
      <div class="card-header">Return to detail</div>
    </div>

    <div class="info-card image-switch-card" id="broken">
      <div class="card-header">Broken link</div>
    </div>
  </div>

  <div id="fullscreen-modal" class="modal">
    <span class="modal-close">&times;</span>
    <img id="modal-image" src="">
  </div>
</body>
</html>
`

// WriteSample writes SamplePage into a temp directory and returns its path.
func WriteSample(t *testing.T) string {
	t.Helper()
	return WritePage(t, SamplePage)
}

// WritePage writes content to page.html in a fresh temp directory.
func WritePage(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}
	return path
}

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock fixed at a deterministic instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
