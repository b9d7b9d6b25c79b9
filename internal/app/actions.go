package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazyqr/internal/app/screen"
	"github.com/chmouel/lazyqr/internal/export"
	"github.com/chmouel/lazyqr/internal/generator"
	"github.com/chmouel/lazyqr/internal/log"
)

func (m *Model) copyImage() tea.Cmd {
	job, err := m.ctrl.StartCopy()
	return m.runCopy(job, err)
}

func (m *Model) copyText() tea.Cmd {
	job, err := m.ctrl.StartCopyText()
	return m.runCopy(job, err)
}

func (m *Model) runCopy(job *generator.CopyJob, err error) tea.Cmd {
	if err != nil {
		return m.showError(err)
	}
	if job == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return copyResultMsg{job: job, err: job.Run(ctx)}
	}
}

func (m *Model) handleCopyResult(msg copyResultMsg) tea.Cmd {
	timer, err := m.ctrl.FinishCopy(msg.job, msg.err)
	if err != nil {
		return m.showError(err)
	}
	if !timer.Scheduled() {
		return nil
	}
	m.debugf("%s done, notice %d for %s", msg.job.Op, timer.ID, timer.Delay)
	id := timer.ID
	return tea.Tick(timer.Delay, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

func (m *Model) openExportMenu() tea.Cmd {
	if !m.ctrl.OpenExportMenu() {
		return nil
	}
	if m.screens.Has(screen.TypeExportMenu) {
		return nil
	}
	menu := screen.NewExportMenuScreen(m.config.ExportBasename, m.theme, m.config.ShowIcons)
	menu.OnSelect = func(f export.Format) tea.Cmd {
		return func() tea.Msg { return exportChosenMsg{format: f} }
	}
	menu.OnCancel = func() tea.Cmd {
		return func() tea.Msg { return exportCancelledMsg{} }
	}
	m.screens.Push(menu)
	return nil
}

func (m *Model) startExport(format export.Format) tea.Cmd {
	job, err := m.ctrl.StartExport(format)
	if err != nil {
		return m.showError(err)
	}
	if job == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		path, err := job.Run(ctx)
		return exportResultMsg{job: job, path: path, err: err}
	}
}

func (m *Model) handleExportResult(msg exportResultMsg) tea.Cmd {
	path, err := m.ctrl.FinishExport(msg.job, msg.path, msg.err)
	if err != nil {
		return m.showError(err)
	}
	if path == "" {
		return nil
	}
	m.debugf("exported %s", path)
	return m.setStatus("Saved "+path, statusInfo)
}

func (m *Model) showError(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	log.Errorf("%v", err)
	return m.setStatus(err.Error(), statusError)
}

// setStatus shows a toast that disappears after the notice delay. A newer
// toast invalidates the timer of the previous one.
func (m *Model) setStatus(text string, kind statusKind) tea.Cmd {
	m.statusID++
	m.status = text
	m.statusKind = kind
	id := m.statusID
	return tea.Tick(m.config.NoticeDuration(), func(time.Time) tea.Msg {
		return statusExpiredMsg{id: id}
	})
}
