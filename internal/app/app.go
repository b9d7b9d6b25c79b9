// Package app implements the lazyqr terminal UI.
package app

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazyqr/internal/app/screen"
	"github.com/chmouel/lazyqr/internal/clipboard"
	"github.com/chmouel/lazyqr/internal/config"
	"github.com/chmouel/lazyqr/internal/export"
	"github.com/chmouel/lazyqr/internal/generator"
	"github.com/chmouel/lazyqr/internal/log"
	"github.com/chmouel/lazyqr/internal/qr"
	"github.com/chmouel/lazyqr/internal/theme"
)

const (
	inputCharLimit = 2048
	inputMinWidth  = 20
)

type statusKind int

const (
	statusNone statusKind = iota
	statusInfo
	statusError
)

// ConfigLoader reloads the configuration when the file changes.
type ConfigLoader func() (*config.AppConfig, error)

// Option customises a Model.
type Option func(*Model)

// WithController replaces the default collaborators. Used by tests.
func WithController(ctrl *generator.Controller) Option {
	return func(m *Model) { m.ctrl = ctrl }
}

// WithConfigLoader sets how the configuration is re-read on change.
func WithConfigLoader(loader ConfigLoader) Option {
	return func(m *Model) { m.loadConfig = loader }
}

// WithInitialText pre-fills the input field.
func WithInitialText(text string) Option {
	return func(m *Model) { m.initialText = text }
}

// Model is the bubbletea model of the generator.
type Model struct {
	config *config.AppConfig
	theme  *theme.Theme

	ctrl    *generator.Controller
	input   textinput.Model
	screens *screen.Manager

	watcher    *config.Watcher
	loadConfig ConfigLoader

	ctx    context.Context
	cancel context.CancelFunc

	status     string
	statusKind statusKind
	// statusID guards the status toast timer like the notice timer handle.
	statusID uint64

	initialText  string
	windowWidth  int
	windowHeight int
	quitting     bool
}

// NewModel builds the UI for cfg with the system clipboard and file
// exporters wired in.
func NewModel(cfg *config.AppConfig, opts ...Option) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())

	m := &Model{
		config:  cfg,
		theme:   theme.GetTheme(cfg.Theme),
		screens: screen.NewManager(),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.ctrl == nil {
		m.ctrl = newController(cfg)
	}
	if m.loadConfig == nil {
		path := cfg.Path
		m.loadConfig = func() (*config.AppConfig, error) { return config.LoadConfig(path) }
	}

	ti := textinput.New()
	ti.Placeholder = "Enter text or URL"
	ti.CharLimit = inputCharLimit
	ti.Prompt = "› "
	ti.Width = 60
	ti.Focus()
	if m.initialText != "" {
		ti.SetValue(m.initialText)
		m.ctrl.SetInputText(m.initialText)
	}
	m.input = ti
	m.applyInputTheme()

	return m
}

func newController(cfg *config.AppConfig) *generator.Controller {
	clip := clipboard.NewSystem(cfg.ClipboardCommand)
	return generator.New(
		qr.NewRenderer(cfg.RecoveryLevel),
		clip,
		export.NewSet(cfg.ResolveExportDir(), cfg.ExportBasename),
		generator.WithSize(cfg.QRSize),
		generator.WithNoticeDelay(cfg.NoticeDuration()),
		generator.WithTextWriter(clip),
	)
}

// Init starts the cursor blink and the config watcher.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.startConfigWatcher())
}

// Update dispatches messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setWindowSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case copyResultMsg:
		return m, m.handleCopyResult(msg)
	case noticeExpiredMsg:
		if m.ctrl.HideNotice(msg.id) {
			m.debugf("copied notice %d hidden", msg.id)
		}
		return m, nil
	case exportChosenMsg:
		return m, m.startExport(msg.format)
	case exportCancelledMsg:
		m.ctrl.CancelExportMenu()
		return m, nil
	case exportResultMsg:
		return m, m.handleExportResult(msg)
	case statusExpiredMsg:
		if msg.id == m.statusID {
			m.status = ""
			m.statusKind = statusNone
		}
		return m, nil
	case configChangedMsg:
		return m, tea.Batch(m.reloadConfig(), m.waitForConfigChange())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// State exposes the view state, mostly for tests and the CLI.
func (m *Model) State() generator.ViewState {
	return m.ctrl.State()
}

// Close releases background resources.
func (m *Model) Close() {
	m.quitting = true
	m.stopConfigWatcher()
	m.cancel()
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.Close()
	return m, tea.Quit
}

func (m *Model) setWindowSize(width, height int) {
	m.windowWidth = width
	m.windowHeight = height
	m.input.Width = maxInt(inputMinWidth, minInt(80, width-8))
	if hs, ok := m.screens.Current().(*screen.HelpScreen); ok {
		hs.SetSize(width, height)
	}
}

func (m *Model) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

func (m *Model) configPath() string {
	if m.config.Path != "" {
		return m.config.Path
	}
	return filepath.Join(config.Dir(), "config.yaml")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
