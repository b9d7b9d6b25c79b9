package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/chmouel/lazyqr/internal/app/screen"
	"github.com/chmouel/lazyqr/internal/config"
	"github.com/chmouel/lazyqr/internal/generator"
	"github.com/chmouel/lazyqr/internal/theme"
)

func TestNewModelDefaults(t *testing.T) {
	cfg := newTestConfig(t)
	m := NewModel(cfg)
	defer m.Close()

	if m.config != cfg {
		t.Error("model config not set")
	}
	if m.ctrl == nil {
		t.Fatal("expected a default controller")
	}
	if m.State() != (generator.ViewState{}) {
		t.Errorf("expected initial state, got %+v", m.State())
	}
	if m.ctrl.Size() != config.DefaultQRSize {
		t.Errorf("expected size %d, got %d", config.DefaultQRSize, m.ctrl.Size())
	}
}

func TestInitialTextPrefillsInput(t *testing.T) {
	m := NewModel(newTestConfig(t), WithInitialText("hello"))
	defer m.Close()
	if m.input.Value() != "hello" || m.State().InputText != "hello" {
		t.Errorf("expected prefilled input, got %q / %q", m.input.Value(), m.State().InputText)
	}
}

func TestTypingUpdatesInputText(t *testing.T) {
	env := newTestEnv(t)
	env.typeText("hi there")
	if got := env.model.State().InputText; got != "hi there" {
		t.Errorf("expected input text %q, got %q", "hi there", got)
	}
	if env.model.State().QRVisible {
		t.Error("typing must not show the code")
	}
}

func TestGenerateWithEmptyInputShowsAlert(t *testing.T) {
	env := newTestEnv(t)
	env.typeText("   ")
	env.key(tea.KeyEnter)

	if env.model.screens.Type() != screen.TypeInfo {
		t.Fatalf("expected info alert, got %v", env.model.screens.Type())
	}
	view := ansi.Strip(env.model.View())
	for _, want := range []string{"Nothing to encode", "Please enter text or URL"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in alert", want)
		}
	}
	if env.model.State().QRVisible {
		t.Error("code must stay hidden")
	}

	env.key(tea.KeyEnter)
	if env.model.screens.IsActive() {
		t.Error("expected alert to close on enter")
	}
	if env.model.quitting {
		t.Error("closing the alert must not quit")
	}
}

func TestGenerateShowsCodeAndHints(t *testing.T) {
	env := newTestEnv(t)

	view := ansi.Strip(env.model.View())
	if strings.Contains(view, "[Ctrl+Y]") {
		t.Error("copy hint must be hidden before a code is shown")
	}

	env.typeText("https://example.com")
	env.key(tea.KeyEnter)

	if !env.model.State().QRVisible {
		t.Fatal("expected code to be visible")
	}
	view = ansi.Strip(env.model.View())
	for _, want := range []string{"[Ctrl+Y] Copy", "[Ctrl+S] Download", "[Ctrl+L] Clear", "https://example.com"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestPreviewFollowsLiveInput(t *testing.T) {
	env := newTestEnv(t)
	env.typeText("abc")
	env.key(tea.KeyEnter)
	env.typeText("def")

	img, err := env.model.ctrl.Image()
	if err != nil {
		t.Fatal(err)
	}
	if img.Text != "abcdef" {
		t.Errorf("expected live text, got %q", img.Text)
	}
}

func TestCopyImageShowsNoticeThenHides(t *testing.T) {
	env := newTestEnv(t)
	env.typeText("hello")
	env.key(tea.KeyEnter)

	cmd := env.key(tea.KeyCtrlY)
	if cmd == nil {
		t.Fatal("expected copy command")
	}
	tick := env.send(cmd())
	if !env.model.State().CopiedNoticeVisible {
		t.Fatal("expected copied notice")
	}
	if !strings.Contains(ansi.Strip(env.model.View()), "QR Code Copied!") {
		t.Error("expected notice in view")
	}
	if len(env.clipboard.images) != 1 {
		t.Fatalf("expected one image on the clipboard, got %d", len(env.clipboard.images))
	}

	env.send(tick())
	if env.model.State().CopiedNoticeVisible {
		t.Error("expected notice to hide after the delay")
	}
}

func TestCopyWithoutCodeIsNoop(t *testing.T) {
	env := newTestEnv(t)
	env.typeText("hello")
	if cmd := env.key(tea.KeyCtrlY); cmd != nil {
		t.Error("expected no command before generate")
	}
	if len(env.clipboard.images) != 0 {
		t.Error("clipboard must not be touched")
	}
}

func TestCopyFailureShowsErrorToast(t *testing.T) {
	env := newTestEnv(t)
	env.clipboard.err = errors.New("access denied")
	env.typeText("hello")
	env.key(tea.KeyEnter)

	cmd := env.key(tea.KeyCtrlY)
	env.send(cmd())

	if env.model.State().CopiedNoticeVisible {
		t.Error("notice must not appear on failure")
	}
	if env.model.statusKind != statusError || !strings.Contains(env.model.status, "access denied") {
		t.Errorf("expected error toast, got %q", env.model.status)
	}
	if !strings.Contains(ansi.Strip(env.model.View()), "access denied") {
		t.Error("expected error in view")
	}
}

func TestCopyText(t *testing.T) {
	env := newTestEnv(t)
	env.typeText("payload")
	env.key(tea.KeyEnter)

	cmd := env.key(tea.KeyCtrlT)
	env.send(cmd())
	if len(env.clipboard.texts) != 1 || env.clipboard.texts[0] != "payload" {
		t.Errorf("expected payload on clipboard, got %v", env.clipboard.texts)
	}
	if !env.model.State().CopiedNoticeVisible {
		t.Error("expected copied notice")
	}
}

func TestClearCancelsPendingNotice(t *testing.T) {
	env := newTestEnv(t)
	env.typeText("hello")
	env.key(tea.KeyEnter)
	tick := env.send(env.key(tea.KeyCtrlY)())

	env.key(tea.KeyCtrlL)
	if env.model.State() != (generator.ViewState{}) {
		t.Fatalf("expected cleared state, got %+v", env.model.State())
	}
	if env.model.input.Value() != "" {
		t.Error("expected input to be reset")
	}

	env.send(tick())
	if env.model.State() != (generator.ViewState{}) {
		t.Errorf("stale timer changed state: %+v", env.model.State())
	}
}

func TestExportFlowWritesFile(t *testing.T) {
	env := newTestEnv(t)
	env.typeText("hello")
	env.key(tea.KeyEnter)

	env.key(tea.KeyCtrlS)
	if env.model.screens.Type() != screen.TypeExportMenu {
		t.Fatalf("expected export menu, got %v", env.model.screens.Type())
	}
	if !env.model.State().ExportMenuVisible {
		t.Fatal("expected export menu state")
	}

	cmd := env.rune('2')
	if env.model.screens.IsActive() {
		t.Error("expected menu to close after choosing")
	}
	cmd = env.send(cmd())
	if env.model.State().ExportMenuVisible {
		t.Error("expected export menu state to be closed")
	}
	env.send(cmd())

	want := filepath.Join(env.exportDir, "QRCode.pdf")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected %s to exist: %v", want, err)
	}
	if !strings.Contains(env.model.status, want) {
		t.Errorf("expected saved path in status, got %q", env.model.status)
	}
	if !env.model.State().QRVisible || env.model.State().InputText != "hello" {
		t.Errorf("export must not touch the code: %+v", env.model.State())
	}
}

func TestExportFailureClosesMenuAndShowsError(t *testing.T) {
	env := newTestEnv(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	env.model.config.ExportDir = filepath.Join(blocker, "sub")
	env.model.applyConfig(env.model.config)

	env.typeText("hello")
	env.key(tea.KeyEnter)
	env.key(tea.KeyCtrlS)
	env.drain(env.rune('1'), 2)

	if env.model.State().ExportMenuVisible {
		t.Error("menu must close on failure")
	}
	if env.model.statusKind != statusError || !strings.Contains(env.model.status, "export png") {
		t.Errorf("expected export error toast, got %q", env.model.status)
	}
}

func TestExportMenuCancel(t *testing.T) {
	env := newTestEnv(t)
	env.typeText("hello")
	env.key(tea.KeyEnter)
	env.key(tea.KeyCtrlS)

	cmd := env.key(tea.KeyEsc)
	if env.model.quitting {
		t.Fatal("esc must close the menu, not quit")
	}
	env.send(cmd())
	if env.model.State().ExportMenuVisible || env.model.screens.IsActive() {
		t.Error("expected menu to be closed")
	}
}

func TestExportMenuNeedsCode(t *testing.T) {
	env := newTestEnv(t)
	env.typeText("hello")
	env.key(tea.KeyCtrlS)
	if env.model.screens.IsActive() || env.model.State().ExportMenuVisible {
		t.Error("menu must not open without a code")
	}
}

func TestClearClosesExportMenu(t *testing.T) {
	env := newTestEnv(t)
	env.typeText("hello")
	env.key(tea.KeyEnter)
	env.key(tea.KeyCtrlS)

	// the menu has focus, so clear goes through the controller directly
	env.model.clear()
	if env.model.screens.IsActive() {
		t.Error("expected menu screen to be removed")
	}
	if env.model.State() != (generator.ViewState{}) {
		t.Errorf("expected cleared state, got %+v", env.model.State())
	}
}

func TestHelpKeys(t *testing.T) {
	env := newTestEnv(t)
	env.key(tea.KeyF1)
	if env.model.screens.Type() != screen.TypeHelp {
		t.Fatalf("expected help screen, got %v", env.model.screens.Type())
	}
	env.key(tea.KeyEsc)
	if env.model.screens.IsActive() {
		t.Fatal("expected help to close")
	}

	env.rune('?')
	if env.model.screens.Type() != screen.TypeHelp {
		t.Fatal("expected ? to open help on empty input")
	}
	env.key(tea.KeyEsc)

	env.typeText("a?")
	if env.model.screens.IsActive() {
		t.Error("? must be typed once the input has text")
	}
	if env.model.State().InputText != "a?" {
		t.Errorf("expected %q, got %q", "a?", env.model.State().InputText)
	}
}

func TestEscAndCtrlCQuit(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		env := newTestEnv(t)
		cmd := env.key(k)
		if !env.model.quitting {
			t.Errorf("expected %v to quit", k)
		}
		if cmd == nil {
			t.Fatalf("expected quit command for %v", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("expected tea.QuitMsg for %v", k)
		}
		if env.model.View() != "" {
			t.Error("expected empty view after quitting")
		}
	}
}

func TestStatusToastExpiryIsGuarded(t *testing.T) {
	env := newTestEnv(t)
	env.model.config.NoticeSeconds = 1
	env.model.setStatus("first", statusInfo)
	firstID := env.model.statusID
	env.model.setStatus("second", statusInfo)

	env.send(statusExpiredMsg{id: firstID})
	if env.model.status != "second" {
		t.Errorf("stale expiry cleared the newer toast: %q", env.model.status)
	}
	env.send(statusExpiredMsg{id: env.model.statusID})
	if env.model.status != "" {
		t.Errorf("expected toast to clear, got %q", env.model.status)
	}
}

func TestApplyConfigUpdatesCollaborators(t *testing.T) {
	env := newTestEnv(t)
	cfg := newTestConfig(t)
	cfg.Theme = "nord"
	cfg.QRSize = 512
	cfg.RecoveryLevel = config.RecoveryHigh
	cfg.NoticeSeconds = 7

	env.model.applyConfig(cfg)

	if env.model.ctrl.Size() != 512 {
		t.Errorf("expected size 512, got %d", env.model.ctrl.Size())
	}
	if env.model.theme.Accent != theme.Nord().Accent {
		t.Error("expected nord theme")
	}

	env.typeText("hello")
	env.key(tea.KeyEnter)
	img, err := env.model.ctrl.Image()
	if err != nil {
		t.Fatal(err)
	}
	if img.Level != config.RecoveryHigh {
		t.Errorf("expected high recovery, got %q", img.Level)
	}

	timer, err := env.model.ctrl.CopyImage(env.model.ctx)
	if err != nil {
		t.Fatal(err)
	}
	if timer.Delay != 7*time.Second {
		t.Errorf("expected 7s notice delay, got %s", timer.Delay)
	}
}

func TestReloadConfigUsesLoader(t *testing.T) {
	env := newTestEnv(t)
	calls := 0
	env.model.loadConfig = func() (*config.AppConfig, error) {
		calls++
		cfg := newTestConfig(t)
		cfg.QRSize = 300
		return cfg, nil
	}
	env.model.reloadConfig()
	if calls != 1 || env.model.ctrl.Size() != 300 {
		t.Errorf("expected reload to apply size 300, got %d (calls=%d)", env.model.ctrl.Size(), calls)
	}

	env.model.loadConfig = func() (*config.AppConfig, error) {
		return nil, errors.New("bad yaml")
	}
	env.model.reloadConfig()
	if env.model.statusKind != statusError || env.model.ctrl.Size() != 300 {
		t.Error("failed reload must keep the old config and show an error")
	}
}

func TestConfigWatcherTriggersReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("qr_size: 256\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := newTestConfig(t)
	cfg.WatchConfig = true
	cfg.Path = path
	m := NewModel(cfg)
	defer m.Close()

	cmd := m.startConfigWatcher()
	if cmd == nil {
		t.Fatal("expected watcher command")
	}
	if err := os.WriteFile(path, []byte("qr_size: 512\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		if _, ok := msg.(configChangedMsg); !ok {
			t.Fatalf("expected configChangedMsg, got %T", msg)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("config change not detected")
	}
}

func TestWindowResizeReflowsHelp(t *testing.T) {
	env := newTestEnv(t)
	env.key(tea.KeyF1)
	env.send(tea.WindowSizeMsg{Width: 200, Height: 80})
	hs, ok := env.model.screens.Current().(*screen.HelpScreen)
	if !ok {
		t.Fatal("expected help screen")
	}
	if hs.Width != 90 {
		t.Errorf("expected help width 90, got %d", hs.Width)
	}
}
