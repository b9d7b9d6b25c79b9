// Package config loads lazyqr settings from YAML and command-line overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazyqr/internal/theme"
	"gopkg.in/yaml.v3"
)

// Size bounds for rendered images, in pixels.
const (
	MinQRSize     = 64
	MaxQRSize     = 2048
	DefaultQRSize = 256
)

// Recovery levels accepted by recovery_level.
const (
	RecoveryLow     = "low"
	RecoveryMedium  = "medium"
	RecoveryHigh    = "high"
	RecoveryHighest = "highest"
)

// overridePrefix namespaces keys passed with --config.
const overridePrefix = "qr."

// detectDarkBackground is swapped in tests to avoid querying the terminal.
var detectDarkBackground = lipgloss.HasDarkBackground

// AppConfig defines the lazyqr configuration options.
type AppConfig struct {
	Theme            string
	QRSize           int
	RecoveryLevel    string
	ExportDir        string
	ExportBasename   string
	NoticeSeconds    int // how long the "copied" notice and error toasts stay up
	ClipboardCommand []string
	ShowIcons        bool
	DebugLog         string
	WatchConfig      bool

	// Path is the file the configuration was read from, empty for defaults.
	Path string `yaml:"-"`
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		QRSize:         DefaultQRSize,
		RecoveryLevel:  RecoveryMedium,
		ExportBasename: "QRCode",
		NoticeSeconds:  4,
		ShowIcons:      true,
		WatchConfig:    true,
	}
}

// NoticeDuration returns NoticeSeconds as a duration.
func (c *AppConfig) NoticeDuration() time.Duration {
	return time.Duration(c.NoticeSeconds) * time.Second
}

func coerceBool(value any, defaultVal bool) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "y", "on":
			return true
		case "false", "0", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return defaultVal
}

func trimmedString(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// normalizeArgsList accepts either a shell-ish string or a YAML list.
func normalizeArgsList(value any) []string {
	switch v := value.(type) {
	case string:
		return strings.Fields(v)
	case []any:
		args := []string{}
		for _, item := range v {
			if item == nil {
				continue
			}
			if text := strings.TrimSpace(fmt.Sprintf("%v", item)); text != "" {
				args = append(args, text)
			}
		}
		return args
	}
	return nil
}

// NormalizeRecoveryLevel returns a canonical recovery level or "" when the
// value is not recognised. Single-letter QR names (L/M/Q/H) are accepted.
func NormalizeRecoveryLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low", "l":
		return RecoveryLow
	case "medium", "m":
		return RecoveryMedium
	case "high", "q":
		return RecoveryHigh
	case "highest", "h":
		return RecoveryHighest
	}
	return ""
}

// ClampQRSize keeps size within the renderable bounds.
func ClampQRSize(size int) int {
	switch {
	case size < MinQRSize:
		return MinQRSize
	case size > MaxQRSize:
		return MaxQRSize
	}
	return size
}

// applyValues overlays a parsed YAML document onto cfg.
func applyValues(cfg *AppConfig, data map[string]any) {
	if name, ok := trimmedString(data["theme"]); ok {
		if normalized := theme.Normalize(name); normalized != "" {
			cfg.Theme = normalized
		}
	}
	if _, ok := data["qr_size"]; ok {
		cfg.QRSize = ClampQRSize(coerceInt(data["qr_size"], cfg.QRSize))
	}
	if level, ok := trimmedString(data["recovery_level"]); ok {
		if normalized := NormalizeRecoveryLevel(level); normalized != "" {
			cfg.RecoveryLevel = normalized
		}
	}
	if dir, ok := trimmedString(data["export_dir"]); ok {
		cfg.ExportDir = dir
	}
	if base, ok := trimmedString(data["export_basename"]); ok {
		// Path separators would let the name escape export_dir.
		cfg.ExportBasename = filepath.Base(base)
	}
	if _, ok := data["notice_seconds"]; ok {
		if secs := coerceInt(data["notice_seconds"], cfg.NoticeSeconds); secs > 0 {
			cfg.NoticeSeconds = secs
		}
	}
	if _, ok := data["clipboard_command"]; ok {
		cfg.ClipboardCommand = normalizeArgsList(data["clipboard_command"])
	}
	if debugLog, ok := trimmedString(data["debug_log"]); ok {
		cfg.DebugLog = debugLog
	}
	cfg.ShowIcons = coerceBool(data["show_icons"], cfg.ShowIcons)
	cfg.WatchConfig = coerceBool(data["watch_config"], cfg.WatchConfig)
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()
	applyValues(cfg, data)
	return cfg
}

// ApplyCLIOverrides applies repeatable --config=qr.key=value overrides.
func (c *AppConfig) ApplyCLIOverrides(overrides []string) error {
	data := make(map[string]any, len(overrides))
	for _, raw := range overrides {
		key, value, found := strings.Cut(raw, "=")
		if !found {
			return fmt.Errorf("invalid override %q: expected %skey=value", raw, overridePrefix)
		}
		key = strings.TrimSpace(key)
		if !strings.HasPrefix(key, overridePrefix) {
			return fmt.Errorf("invalid override %q: key must start with %q", raw, overridePrefix)
		}
		key = strings.TrimPrefix(key, overridePrefix)
		if !knownKey(key) {
			return fmt.Errorf("unknown config key %q", key)
		}
		data[key] = value
	}
	applyValues(c, data)
	return nil
}

// Keys lists every recognised configuration key.
func Keys() []string {
	return []string{
		"theme", "qr_size", "recovery_level", "export_dir", "export_basename",
		"notice_seconds", "clipboard_command", "show_icons", "debug_log", "watch_config",
	}
}

func knownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Dir returns the lazyqr configuration directory.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Clean(filepath.Join(base, "lazyqr"))
}

// LoadConfig reads configPath, or config.yaml / config.yml from Dir when
// configPath is empty. Missing files yield defaults.
func LoadConfig(configPath string) (*AppConfig, error) {
	configBase := Dir()

	var paths []string
	if configPath != "" {
		expanded, err := ExpandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return DefaultConfig(), err
		}
		if !isPathWithin(configBase, absPath) {
			return DefaultConfig(), fmt.Errorf("config path must reside inside %s", configBase)
		}
		paths = []string{absPath}
	} else {
		paths = []string{
			filepath.Join(configBase, "config.yaml"),
			filepath.Join(configBase, "config.yml"),
		}
	}

	cfg := DefaultConfig()
	for _, path := range paths {
		// #nosec G304 -- path is constrained to the config directory
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
		}
		cfg = parseConfig(yamlData)
		cfg.Path = path
		break
	}

	if cfg.Theme == "" {
		if detectDarkBackground() {
			cfg.Theme = theme.DefaultDark()
		} else {
			cfg.Theme = theme.DraculaLightName
		}
	}
	return cfg, nil
}

// ResolveExportDir expands ExportDir, defaulting to ~/Downloads when it
// exists and the working directory otherwise.
func (c *AppConfig) ResolveExportDir() string {
	if c.ExportDir != "" {
		if expanded, err := ExpandPath(c.ExportDir); err == nil {
			return expanded
		}
		return c.ExportDir
	}
	if home, err := os.UserHomeDir(); err == nil {
		downloads := filepath.Join(home, "Downloads")
		if info, err := os.Stat(downloads); err == nil && info.IsDir() {
			return downloads
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return os.ExpandEnv(path), nil
}

func isPathWithin(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
