package app

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazyqr/internal/config"
	"github.com/chmouel/lazyqr/internal/export"
	"github.com/chmouel/lazyqr/internal/generator"
	"github.com/chmouel/lazyqr/internal/qr"
)

type fakeClipboard struct {
	mu     sync.Mutex
	images [][]byte
	texts  []string
	err    error
}

func (f *fakeClipboard) WriteImage(_ context.Context, png []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.images = append(f.images, png)
	return nil
}

func (f *fakeClipboard) WriteText(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

type testEnv struct {
	model     *Model
	clipboard *fakeClipboard
	exportDir string
}

func newTestConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Theme = "dracula"
	cfg.WatchConfig = false
	cfg.ShowIcons = false
	cfg.ExportDir = t.TempDir()
	return cfg
}

// newTestEnv uses a short notice delay for tests that fire the tick by hand.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithDelay(t, 10*time.Millisecond)
}

// newProgramEnv keeps the notice up long enough for a running program to
// paint it.
func newProgramEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithDelay(t, 5*time.Second)
}

func newTestEnvWithDelay(t *testing.T, delay time.Duration) *testEnv {
	t.Helper()
	cfg := newTestConfig(t)
	clip := &fakeClipboard{}
	ctrl := generator.New(
		qr.NewRenderer(cfg.RecoveryLevel),
		clip,
		export.NewSet(cfg.ExportDir, cfg.ExportBasename),
		generator.WithSize(128),
		generator.WithNoticeDelay(delay),
		generator.WithTextWriter(clip),
	)
	m := NewModel(cfg, WithController(ctrl))
	m.setWindowSize(120, 60)
	t.Cleanup(m.Close)
	return &testEnv{model: m, clipboard: clip, exportDir: cfg.ExportDir}
}

func (e *testEnv) send(msg tea.Msg) tea.Cmd {
	_, cmd := e.model.Update(msg)
	return cmd
}

func (e *testEnv) typeText(text string) {
	for _, r := range text {
		e.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (e *testEnv) key(t tea.KeyType) tea.Cmd {
	return e.send(tea.KeyMsg{Type: t})
}

func (e *testEnv) rune(r rune) tea.Cmd {
	return e.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// drain runs cmd and feeds its message back into the model, repeating for
// the commands that produces, up to limit rounds.
func (e *testEnv) drain(cmd tea.Cmd, limit int) {
	for i := 0; cmd != nil && i < limit; i++ {
		msg := cmd()
		if msg == nil {
			return
		}
		cmd = e.send(msg)
	}
}
