package screen

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazyqr/internal/export"
	"github.com/chmouel/lazyqr/internal/theme"
)

// ExportMenuScreen asks which format to download the code as. The last
// button cancels.
type ExportMenuScreen struct {
	Formats   []export.Format
	Cursor    int
	Basename  string
	ShowIcons bool
	Thm       *theme.Theme

	// Callbacks
	OnSelect func(export.Format) tea.Cmd
	OnCancel func() tea.Cmd
}

// NewExportMenuScreen builds the menu with every supported format.
func NewExportMenuScreen(basename string, thm *theme.Theme, showIcons bool) *ExportMenuScreen {
	if basename == "" {
		basename = "QRCode"
	}
	return &ExportMenuScreen{
		Formats:   export.Formats(),
		Basename:  basename,
		ShowIcons: showIcons,
		Thm:       thm,
	}
}

// Type returns the screen type.
func (s *ExportMenuScreen) Type() Type {
	return TypeExportMenu
}

func (s *ExportMenuScreen) buttons() int {
	return len(s.Formats) + 1
}

func (s *ExportMenuScreen) cancelFocused() bool {
	return s.Cursor == len(s.Formats)
}

// Update moves between buttons and fires the callbacks.
// Returns nil to signal that the screen should be closed.
func (s *ExportMenuScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	key := msg.String()
	switch key {
	case keyTab, "right", "l", "down", "j":
		s.Cursor = (s.Cursor + 1) % s.buttons()
		return s, nil
	case keyShiftTab, "left", "h", "up", "k":
		s.Cursor = (s.Cursor - 1 + s.buttons()) % s.buttons()
		return s, nil
	case keyEnter, keySpace:
		if s.cancelFocused() {
			return nil, s.cancel()
		}
		return nil, s.selectFormat(s.Formats[s.Cursor])
	case keyEsc, keyEscRaw, keyQ, keyCtrlC, "c":
		return nil, s.cancel()
	}

	// 1..n pick a format directly
	if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(s.Formats) {
		return nil, s.selectFormat(s.Formats[key[0]-'1'])
	}
	return s, nil
}

func (s *ExportMenuScreen) selectFormat(f export.Format) tea.Cmd {
	if s.OnSelect != nil {
		return s.OnSelect(f)
	}
	return nil
}

func (s *ExportMenuScreen) cancel() tea.Cmd {
	if s.OnCancel != nil {
		return s.OnCancel()
	}
	return nil
}

// View renders the format buttons.
func (s *ExportMenuScreen) View() string {
	focused := lipgloss.NewStyle().
		Padding(0, 2).
		Foreground(s.Thm.AccentFg).
		Background(s.Thm.Accent).
		Bold(true)
	unfocused := lipgloss.NewStyle().
		Padding(0, 2).
		Foreground(s.Thm.MutedFg).
		Background(s.Thm.BorderDim)
	cancelFocused := focused.Background(s.Thm.ErrorFg)

	buttons := make([]string, 0, s.buttons())
	for i, f := range s.Formats {
		label := labelWithIcon(s.Basename+f.Extension(), f.Label(), s.ShowIcons)
		style := unfocused
		if i == s.Cursor {
			style = focused
		}
		buttons = append(buttons, style.Render(label))
	}
	if s.cancelFocused() {
		buttons = append(buttons, cancelFocused.Render("Cancel"))
	} else {
		buttons = append(buttons, unfocused.Render("Cancel"))
	}

	row := strings.Join(buttons, "  ")
	width := maxInt(44, lipgloss.Width(row)+6)

	titleStyle := lipgloss.NewStyle().
		Foreground(s.Thm.Accent).
		Bold(true).
		Width(width - 6).
		Align(lipgloss.Center)
	hintStyle := lipgloss.NewStyle().
		Foreground(s.Thm.MutedFg).
		Width(width - 6).
		Align(lipgloss.Center)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Padding(1, 2).
		Width(width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Download QR code as"),
		"",
		lipgloss.NewStyle().Width(width-6).Align(lipgloss.Center).Render(row),
		"",
		hintStyle.Render("←/→ move • enter select • 1-3 quick pick • esc cancel"),
	)
	return boxStyle.Render(content)
}

// SetTheme updates the theme for this screen.
func (s *ExportMenuScreen) SetTheme(thm *theme.Theme) {
	s.Thm = thm
}
