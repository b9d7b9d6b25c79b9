package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazyqr/internal/config"
	"github.com/chmouel/lazyqr/internal/export"
	"github.com/chmouel/lazyqr/internal/qr"
	"github.com/chmouel/lazyqr/internal/theme"
)

func (m *Model) startConfigWatcher() tea.Cmd {
	if !m.config.WatchConfig || m.watcher != nil {
		return nil
	}
	w := config.NewWatcher(m.configPath(), m.debugf)
	if err := w.Start(); err != nil {
		m.debugf("config watcher disabled: %v", err)
		return nil
	}
	m.watcher = w
	return m.waitForConfigChange()
}

func (m *Model) stopConfigWatcher() {
	if m.watcher == nil {
		return
	}
	m.watcher.Stop()
	m.watcher = nil
}

func (m *Model) waitForConfigChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	events := m.watcher.Events()
	done := m.ctx.Done()
	return func() tea.Msg {
		select {
		case <-events:
			return configChangedMsg{}
		case <-done:
			return nil
		}
	}
}

func (m *Model) reloadConfig() tea.Cmd {
	cfg, err := m.loadConfig()
	if err != nil {
		return m.showError(err)
	}
	m.applyConfig(cfg)
	return m.setStatus("Configuration reloaded", statusInfo)
}

// applyConfig switches to cfg without touching the view state.
func (m *Model) applyConfig(cfg *config.AppConfig) {
	old := m.config
	if cfg.Path == "" {
		cfg.Path = old.Path
	}
	m.config = cfg

	if cfg.Theme != old.Theme {
		m.UpdateTheme(cfg.Theme)
	}
	if cfg.RecoveryLevel != old.RecoveryLevel {
		m.ctrl.SetRenderer(qr.NewRenderer(cfg.RecoveryLevel))
	}
	m.ctrl.SetSize(cfg.QRSize)
	m.ctrl.SetNoticeDelay(cfg.NoticeDuration())
	m.ctrl.SetExporters(export.NewSet(cfg.ResolveExportDir(), cfg.ExportBasename))
	m.debugf("config reloaded: theme=%s size=%d level=%s", cfg.Theme, cfg.QRSize, cfg.RecoveryLevel)
}

type themeable interface {
	SetTheme(*theme.Theme)
}

// UpdateTheme switches the palette of the whole UI.
func (m *Model) UpdateTheme(name string) {
	m.theme = theme.GetTheme(name)
	m.applyInputTheme()
	if s, ok := m.screens.Current().(themeable); ok {
		s.SetTheme(m.theme)
	}
}
