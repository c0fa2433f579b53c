package ui

import (
	"reflect"
	"time"

	"github.com/atomicstack/kiosk-imagemap/internal/backend"
	"github.com/atomicstack/kiosk-imagemap/internal/data/dispatcher"
	"github.com/atomicstack/kiosk-imagemap/internal/markup"
	"github.com/atomicstack/kiosk-imagemap/internal/navigator"
	"github.com/atomicstack/kiosk-imagemap/internal/theme"
	uistate "github.com/atomicstack/kiosk-imagemap/internal/ui/state"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type Mode int

const (
	ModeCanvas Mode = iota
	ModeSearch
)

const (
	defaultWidth         = 80
	defaultHeight        = 24
	defaultMarkdownStyle = "dark"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Width  int
	Height int
	Footer bool
	// Touch reports mouse presses as touch events, subject to debounce.
	Touch bool
	// PopupTimeout closes an expanded popup after this long. Zero disables.
	PopupTimeout  time.Duration
	MarkdownStyle string
	Watcher       *backend.Watcher
	Now           func() time.Time
}

// Model implements the Bubble Tea model for the kiosk canvas.
type Model struct {
	doc        *markup.Document
	nav        *navigator.Navigator
	dispatcher *dispatcher.Dispatcher
	watcher    *backend.Watcher

	focus  *uistate.List
	search textinput.Model
	mode   Mode

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool

	showFooter    bool
	touch         bool
	popupTimeout  time.Duration
	popupGen      int
	markdownStyle string
	now           func() time.Time

	errMsg     string
	infoMsg    string
	infoExpire time.Time

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the UI around an already constructed dispatcher.
func NewModel(doc *markup.Document, d *dispatcher.Dispatcher, opts Options) *Model {
	if doc == nil {
		doc = &markup.Document{}
	}
	m := &Model{
		doc:           doc,
		nav:           d.Navigator(),
		dispatcher:    d,
		watcher:       opts.Watcher,
		showFooter:    opts.Footer,
		touch:         opts.Touch,
		popupTimeout:  opts.PopupTimeout,
		markdownStyle: opts.MarkdownStyle,
		now:           opts.Now,
		width:         defaultWidth,
		height:        defaultHeight,
	}
	if m.markdownStyle == "" {
		m.markdownStyle = defaultMarkdownStyle
	}
	if m.now == nil {
		m.now = time.Now
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.focus = uistate.NewList(uistate.ItemsFromCards(m.nav.VisibleCards()))
	m.search = newSearchInput()
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.watcher != nil {
		return waitForBackendEvent(m.watcher)
	}
	return nil
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	if m.mode == ModeSearch {
		// cursor blink and other textinput internals
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(popupTimeoutMsg{}):   m.handlePopupTimeoutMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// Navigator exposes the state machine behind the canvas.
func (m *Model) Navigator() *navigator.Navigator {
	return m.nav
}

// Mode reports whether the canvas or the card search has the keyboard.
func (m *Model) Mode() Mode {
	return m.mode
}

// FocusedCard returns the ID of the card with keyboard focus.
func (m *Model) FocusedCard() string {
	return m.focus.CurrentID()
}

// Err returns the message shown on the status line, if any.
func (m *Model) Err() string {
	return m.errMsg
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	return nil
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = m.now().Add(5 * time.Second)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && m.now().After(m.infoExpire) {
		m.forceClearInfo()
	}
	return m.infoMsg
}
