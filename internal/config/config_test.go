package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chmouel/lazyqr/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useConfigHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	prev := detectDarkBackground
	detectDarkBackground = func() bool { return true }
	t.Cleanup(func() { detectDarkBackground = prev })
	dir := filepath.Join(home, "lazyqr")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultQRSize, cfg.QRSize)
	assert.Equal(t, RecoveryMedium, cfg.RecoveryLevel)
	assert.Equal(t, "QRCode", cfg.ExportBasename)
	assert.Equal(t, 4*time.Second, cfg.NoticeDuration())
	assert.True(t, cfg.ShowIcons)
	assert.True(t, cfg.WatchConfig)
	assert.Empty(t, cfg.ClipboardCommand)
	assert.Empty(t, cfg.Theme)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	useConfigHome(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultQRSize, cfg.QRSize)
	assert.Equal(t, theme.DraculaName, cfg.Theme)
	assert.Empty(t, cfg.Path)
}

func TestLoadConfigDetectsLightBackground(t *testing.T) {
	useConfigHome(t)
	detectDarkBackground = func() bool { return false }

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, theme.DraculaLightName, cfg.Theme)
}

func TestLoadConfigReadsYAML(t *testing.T) {
	dir := useConfigHome(t)
	content := `
theme: nord
qr_size: 512
recovery_level: H
export_dir: /tmp/qr-out
export_basename: ../../Ticket
notice_seconds: 2
clipboard_command: [wl-copy, --type, image/png]
show_icons: false
watch_config: "no"
debug_log: /tmp/lazyqr.log
`
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, theme.NordName, cfg.Theme)
	assert.Equal(t, 512, cfg.QRSize)
	assert.Equal(t, RecoveryHighest, cfg.RecoveryLevel)
	assert.Equal(t, "/tmp/qr-out", cfg.ExportDir)
	assert.Equal(t, "Ticket", cfg.ExportBasename)
	assert.Equal(t, 2*time.Second, cfg.NoticeDuration())
	assert.Equal(t, []string{"wl-copy", "--type", "image/png"}, cfg.ClipboardCommand)
	assert.False(t, cfg.ShowIcons)
	assert.False(t, cfg.WatchConfig)
	assert.Equal(t, "/tmp/lazyqr.log", cfg.DebugLog)
}

func TestLoadConfigFallsBackToYml(t *testing.T) {
	dir := useConfigHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("qr_size: 128\n"), 0o600))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.QRSize)
}

func TestLoadConfigRejectsPathOutsideConfigDir(t *testing.T) {
	useConfigHome(t)
	outside := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(outside, []byte("qr_size: 128\n"), 0o600))

	cfg, err := LoadConfig(outside)
	require.Error(t, err)
	assert.Equal(t, DefaultQRSize, cfg.QRSize)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	dir := useConfigHome(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("qr_size: [unterminated\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.Error(t, err)
	assert.Equal(t, DefaultQRSize, cfg.QRSize)
}

func TestInvalidValuesKeepDefaults(t *testing.T) {
	cfg := parseConfig(map[string]any{
		"theme":          "no-such-theme",
		"recovery_level": "extreme",
		"notice_seconds": -3,
		"qr_size":        "big",
	})

	assert.Empty(t, cfg.Theme)
	assert.Equal(t, RecoveryMedium, cfg.RecoveryLevel)
	assert.Equal(t, 4, cfg.NoticeSeconds)
	assert.Equal(t, DefaultQRSize, cfg.QRSize)
}

func TestClampQRSize(t *testing.T) {
	assert.Equal(t, MinQRSize, ClampQRSize(1))
	assert.Equal(t, 300, ClampQRSize(300))
	assert.Equal(t, MaxQRSize, ClampQRSize(100000))
}

func TestNormalizeRecoveryLevel(t *testing.T) {
	tests := map[string]string{
		"low":     RecoveryLow,
		"M":       RecoveryMedium,
		" q ":     RecoveryHigh,
		"Highest": RecoveryHighest,
		"":        "",
		"x":       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeRecoveryLevel(in), "NormalizeRecoveryLevel(%q)", in)
	}
}

func TestApplyCLIOverrides(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.ApplyCLIOverrides([]string{"qr.qr_size=1024", "qr.theme=gruvbox-dark", "qr.show_icons=false"})
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.QRSize)
	assert.Equal(t, theme.GruvboxDarkName, cfg.Theme)
	assert.False(t, cfg.ShowIcons)
}

func TestApplyCLIOverridesErrors(t *testing.T) {
	tests := []struct {
		name     string
		override string
	}{
		{name: "missing equals", override: "qr.qr_size"},
		{name: "missing prefix", override: "qr_size=10"},
		{name: "unknown key", override: "qr.color=red"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			assert.Error(t, cfg.ApplyCLIOverrides([]string{tt.override}))
		})
	}
}

func TestResolveExportDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, cfg.ResolveExportDir())

	downloads := filepath.Join(home, "Downloads")
	require.NoError(t, os.MkdirAll(downloads, 0o750))
	assert.Equal(t, downloads, cfg.ResolveExportDir())

	cfg.ExportDir = "~/qr"
	assert.Equal(t, filepath.Join(home, "qr"), cfg.ResolveExportDir())
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("QR_TEST_DIR", "codes")

	got, err := ExpandPath("~/$QR_TEST_DIR")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "codes"), got)
}

func TestIsPathWithin(t *testing.T) {
	assert.True(t, isPathWithin("/a/b", "/a/b"))
	assert.True(t, isPathWithin("/a/b", "/a/b/c.yaml"))
	assert.False(t, isPathWithin("/a/b", "/a/c.yaml"))
	assert.False(t, isPathWithin("/a/b", "/a/b/../../etc/passwd"))
}
