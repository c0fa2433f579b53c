package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/kiosk-imagemap/internal/backend"
	"github.com/atomicstack/kiosk-imagemap/internal/card"
	"github.com/atomicstack/kiosk-imagemap/internal/data/dispatcher"
	"github.com/atomicstack/kiosk-imagemap/internal/logging"
	"github.com/atomicstack/kiosk-imagemap/internal/logging/events"
	"github.com/atomicstack/kiosk-imagemap/internal/markup"
	"github.com/atomicstack/kiosk-imagemap/internal/navigator"
	"github.com/atomicstack/kiosk-imagemap/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Config describes user-provided application options.
type Config struct {
	Markup          string
	RootImage       string
	Width           int
	Height          int
	Footer          bool
	Touch           bool
	TouchWindow     time.Duration
	PopupTimeout    time.Duration
	PopupPolicy     string
	ReturnLocations []string
	ReloadInterval  time.Duration
	ReloadSettle    time.Duration
	MarkdownStyle   string
}

// LoadDocument parses the configured page. A RootImage override stands in
// for a missing #main-image.
func LoadDocument(cfg Config) (*markup.Document, error) {
	doc, err := markup.ParseFile(cfg.Markup)
	if err != nil {
		if cfg.RootImage == "" || !errors.Is(err, markup.ErrNoMainImage) || doc == nil {
			return nil, err
		}
	}
	if cfg.RootImage != "" {
		doc.RootImage = card.ImageID(cfg.RootImage)
	}
	return doc, nil
}

// NewDispatcher builds the navigator and dispatcher for doc.
func NewDispatcher(cfg Config, doc *markup.Document) (*dispatcher.Dispatcher, error) {
	policy, err := navigator.ParsePopupPolicy(cfg.PopupPolicy)
	if err != nil {
		return nil, err
	}
	opts := []navigator.Option{navigator.WithPopupPolicy(policy)}
	if len(cfg.ReturnLocations) > 0 {
		opts = append(opts, navigator.WithReturnLocations(cfg.ReturnLocations...))
	}
	nav := navigator.New(doc.RootImage, doc.Cards, opts...)
	return dispatcher.New(nav,
		dispatcher.WithTouchWindow(cfg.TouchWindow),
		dispatcher.WithOverlayClose(doc.HasOverlayClose),
	), nil
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	doc, err := LoadDocument(cfg)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.Markup, err)
	}
	events.Markup.Loaded(cfg.Markup, len(doc.Cards), string(doc.RootImage))

	d, err := NewDispatcher(cfg, doc)
	if err != nil {
		return err
	}
	loader := func(path string) (*markup.Document, error) {
		return LoadDocument(Config{Markup: path, RootImage: cfg.RootImage})
	}
	watcher := backend.NewWatcher(cfg.Markup, cfg.ReloadInterval,
		backend.WithLoader(loader),
		backend.WithSettle(cfg.ReloadSettle),
	)
	logging.Debug("watching page",
		zap.String("path", cfg.Markup),
		zap.Duration("interval", cfg.ReloadInterval),
		zap.Duration("settle", cfg.ReloadSettle))
	defer watcher.Stop()

	model := ui.NewModel(doc, d, ui.Options{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Footer:        cfg.Footer,
		Touch:         cfg.Touch,
		PopupTimeout:  cfg.PopupTimeout,
		MarkdownStyle: cfg.MarkdownStyle,
		Watcher:       watcher,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
