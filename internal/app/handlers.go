package app

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazyqr/internal/app/screen"
	"github.com/chmouel/lazyqr/internal/generator"
)

const (
	keyCtrlC  = "ctrl+c"
	keyEsc    = "esc"
	keyEnter  = "enter"
	keyCopy   = "ctrl+y"
	keyCopyTx = "ctrl+t"
	keyExport = "ctrl+s"
	keyClear  = "ctrl+l"
	keyHelp   = "f1"
	keyHelpQ  = "?"
)

// handleKeyMsg routes keys to the open modal first, then to the generator
// shortcuts, and finally to the input field.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == keyCtrlC {
		return m.quit()
	}

	if cmd, handled := m.screens.HandleKey(msg); handled {
		return m, cmd
	}

	switch key {
	case keyEsc:
		return m.quit()
	case keyEnter:
		return m, m.generate()
	case keyCopy:
		return m, m.copyImage()
	case keyCopyTx:
		return m, m.copyText()
	case keyExport:
		return m, m.openExportMenu()
	case keyClear:
		m.clear()
		return m, nil
	case keyHelp:
		m.showHelp()
		return m, nil
	case keyHelpQ:
		if strings.TrimSpace(m.input.Value()) == "" {
			m.showHelp()
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.ctrl.SetInputText(after)
	}
	return m, cmd
}

func (m *Model) generate() tea.Cmd {
	m.ctrl.SetInputText(m.input.Value())
	if err := m.ctrl.Generate(); err != nil {
		if errors.Is(err, generator.ErrEmptyInput) {
			m.showValidation()
			return nil
		}
		return m.showError(err)
	}
	if _, err := m.ctrl.Image(); err != nil {
		return m.showError(err)
	}
	m.debugf("generated code for %d bytes of input", len(m.input.Value()))
	return nil
}

func (m *Model) showValidation() {
	info := screen.NewInfoScreen("Please enter text or URL", m.theme)
	info.Title = "Nothing to encode"
	m.screens.Push(info)
}

func (m *Model) showHelp() {
	if m.screens.Has(screen.TypeHelp) {
		return
	}
	m.screens.Push(screen.NewHelpScreen(m.windowWidth, m.windowHeight, m.theme))
}

func (m *Model) clear() {
	m.ctrl.Clear()
	m.input.Reset()
	m.screens.Remove(screen.TypeExportMenu)
	m.status = ""
	m.statusKind = statusNone
	m.statusID++
	m.debugf("cleared")
}
