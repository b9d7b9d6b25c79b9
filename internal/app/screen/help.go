package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazyqr/internal/theme"
)

const helpText = `lazyqr Help Guide

**Generating**
- Type: Enter the text or URL to encode
- Enter: Generate the QR code (it follows further edits live)
- Ctrl+L: Clear the input and hide the code

**Sharing**
- Ctrl+Y: Copy the QR code image to the clipboard
- Ctrl+T: Copy the encoded text to the clipboard
- Ctrl+S: Download the code as PNG, PDF or DOC

**Download Menu**
- Tab / Arrow keys: Move between buttons
- 1 / 2 / 3: PNG / PDF / DOC
- Enter: Download in the focused format
- Esc: Cancel

**General**
- F1 / ?: Show this help (? only while the input is empty)
- Esc: Close the open dialog, or quit
- Ctrl+C: Quit

**Configuration**
Settings live in $XDG_CONFIG_HOME/lazyqr/config.yaml and are reloaded
when the file changes. Override any of them for one run with
-C qr.<key>=<value>, for example -C qr.size=512.`

// HelpScreen renders searchable documentation for the app controls.
type HelpScreen struct {
	Viewport    viewport.Model
	Width       int
	Height      int
	FullText    []string
	SearchInput textinput.Model
	Searching   bool
	SearchQuery string
	Thm         *theme.Theme
}

// NewHelpScreen initializes help content with the available screen size.
func NewHelpScreen(maxWidth, maxHeight int, thm *theme.Theme) *HelpScreen {
	ti := textinput.New()
	ti.Placeholder = "Search help (Enter to apply, Esc to clear)"
	ti.CharLimit = 64
	ti.Prompt = "/ "
	ti.Blur()

	hs := &HelpScreen{
		Viewport:    viewport.New(60, 10),
		FullText:    strings.Split(helpText, "\n"),
		SearchInput: ti,
		Thm:         thm,
	}
	hs.SetSize(maxWidth, maxHeight)
	hs.refreshContent()
	return hs
}

// Type returns the screen type.
func (s *HelpScreen) Type() Type {
	return TypeHelp
}

// Update handles scrolling and search input for the help screen.
func (s *HelpScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	var cmd tea.Cmd
	key := msg.String()

	switch key {
	case "/":
		if !s.Searching {
			s.Searching = true
			s.SearchInput.Focus()
			return s, textinput.Blink
		}
	case keyEnter:
		if s.Searching {
			s.SearchQuery = strings.TrimSpace(s.SearchInput.Value())
			s.Searching = false
			s.SearchInput.Blur()
			s.refreshContent()
			return s, nil
		}
	case keyEsc, keyEscRaw, keyCtrlC:
		if s.Searching || s.SearchQuery != "" {
			s.Searching = false
			s.SearchInput.SetValue("")
			s.SearchQuery = ""
			s.SearchInput.Blur()
			s.refreshContent()
			return s, nil
		}
		return nil, nil
	case keyQ, "f1", "?":
		if !s.Searching {
			return nil, nil
		}
	}

	if s.Searching {
		s.SearchInput, cmd = s.SearchInput.Update(msg)
		if q := strings.TrimSpace(s.SearchInput.Value()); q != s.SearchQuery {
			s.SearchQuery = q
			s.refreshContent()
		}
		return s, cmd
	}

	switch key {
	case "ctrl+d", keySpace:
		s.Viewport.HalfPageDown()
		return s, nil
	case "ctrl+u":
		s.Viewport.HalfPageUp()
		return s, nil
	case "j", "down":
		s.Viewport.ScrollDown(1)
		return s, nil
	case "k", "up":
		s.Viewport.ScrollUp(1)
		return s, nil
	}

	s.Viewport, cmd = s.Viewport.Update(msg)
	return s, cmd
}

func (s *HelpScreen) refreshContent() {
	s.Viewport.SetContent(s.renderContent())
	s.Viewport.GotoTop()
}

// SetSize updates the help screen dimensions (useful on terminal resize).
func (s *HelpScreen) SetSize(maxWidth, maxHeight int) {
	s.Width = 72
	s.Height = 26
	if maxWidth > 0 {
		s.Width = minInt(90, maxInt(50, int(float64(maxWidth)*0.75)))
	}
	if maxHeight > 0 {
		s.Height = minInt(36, maxInt(12, int(float64(maxHeight)*0.8)))
	}
	s.Viewport.Width = s.Width - 2
	s.Viewport.Height = maxInt(5, s.Height-4)
	s.SearchInput.Width = maxInt(20, s.Width-6)
}

func (s *HelpScreen) renderContent() string {
	titleStyle := lipgloss.NewStyle().Foreground(s.Thm.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(s.Thm.SuccessFg).Bold(true)

	styled := make([]string, 0, len(s.FullText))
	for _, line := range s.FullText {
		if strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") {
			styled = append(styled, titleStyle.Render("▸ "+strings.Trim(line, "*")))
			continue
		}
		if strings.HasPrefix(line, "- ") {
			if keys, desc, ok := strings.Cut(strings.TrimPrefix(line, "- "), ": "); ok {
				styled = append(styled, "  "+keyStyle.Render(keys)+": "+desc)
				continue
			}
		}
		styled = append(styled, line)
	}

	query := strings.ToLower(s.SearchQuery)
	if query == "" {
		return strings.Join(styled, "\n")
	}

	matches := []string{}
	for i, line := range s.FullText {
		if strings.Contains(strings.ToLower(line), query) {
			matches = append(matches, styled[i])
		}
	}
	if len(matches) == 0 {
		return fmt.Sprintf("No help entries match %q", s.SearchQuery)
	}
	return strings.Join(matches, "\n")
}

// View renders the help content and search input inside the viewport.
func (s *HelpScreen) View() string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Width(s.Width)

	title := lipgloss.NewStyle().
		Foreground(s.Thm.Accent).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(s.Thm.BorderDim).
		Width(s.Width-2).
		Padding(0, 1).
		Render("Help")

	parts := []string{title}
	if s.Searching || s.SearchQuery != "" {
		parts = append(parts, lipgloss.NewStyle().Width(s.Width-2).Padding(0, 1).Render(s.SearchInput.View()))
	}
	parts = append(parts,
		lipgloss.NewStyle().Padding(0, 1).Width(s.Width-2).Render(s.Viewport.View()),
		lipgloss.NewStyle().Foreground(s.Thm.MutedFg).Width(s.Width-2).Padding(1, 1, 0, 1).
			Render("j/k: scroll • Ctrl+d/u: page • /: search • esc: close"),
	)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetTheme updates the theme for this screen.
func (s *HelpScreen) SetTheme(thm *theme.Theme) {
	s.Thm = thm
	s.refreshContent()
}
