package app

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wrap"

	"github.com/chmouel/lazyqr/internal/generator"
)

const (
	copiedNotice  = "QR Code Copied!"
	captionLines  = 3
	defaultWidth  = 80
	defaultHeight = 24
)

// View renders the generator and any open modal on top of it.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	width, height := m.windowWidth, m.windowHeight
	if width == 0 || height == 0 {
		width, height = defaultWidth, defaultHeight
	}

	header := m.renderHeader(width)
	input := m.renderInput(width)
	hints := m.renderHints(width)
	status := m.renderStatus(width)
	footer := m.renderFooter(width)

	fixed := lipgloss.Height(header) + lipgloss.Height(input) + lipgloss.Height(hints) +
		lipgloss.Height(status) + lipgloss.Height(footer)
	body := m.renderBody(width, maxInt(height-fixed, 0))

	base := lipgloss.JoinVertical(lipgloss.Left, header, input, body, hints, status, footer)
	base = truncateToHeight(base, height)

	if m.screens.IsActive() {
		popup := m.screens.Current().View()
		top := maxInt((lipgloss.Height(base)-lipgloss.Height(popup))/2, 1)
		return m.overlayPopup(base, popup, top)
	}
	return base
}

func (m *Model) renderHeader(width int) string {
	title := lipgloss.NewStyle().
		Foreground(m.theme.AccentFg).
		Background(m.theme.Accent).
		Bold(true).
		Padding(0, 1).
		Render("lazyqr")
	sub := lipgloss.NewStyle().Foreground(m.theme.MutedFg).Padding(0, 1).Render("QR code generator")
	return lipgloss.NewStyle().Width(width).Render(title + sub)
}

func (m *Model) renderInput(width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Accent).
		Padding(0, 1).
		Width(maxInt(width-2, inputMinWidth))
	return box.Render(m.input.View()) + "\n" + m.renderKeyHint("Enter", "Generate")
}

func (m *Model) renderBody(width, height int) string {
	state := m.ctrl.State()
	if !state.QRVisible {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render("Type something and press Enter"))
	}

	img, err := m.ctrl.Image()
	if err != nil {
		msg := err.Error()
		if errors.Is(err, generator.ErrEmptyInput) {
			msg = "Nothing to encode"
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(m.theme.WarnFg).Render(msg))
	}

	caption := m.renderCaption(img.Text, width)
	preview := m.renderPreview(img.Terminal(), width, height-lipgloss.Height(caption))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, preview, caption))
}

// renderPreview paints the half-block code with the theme's QR colors so it
// stays scannable on light and dark terminals alike.
func (m *Model) renderPreview(code string, width, height int) string {
	lines := strings.Split(code, "\n")
	if len(lines) > height || (len(lines) > 0 && lipgloss.Width(lines[0]) > width) {
		return lipgloss.NewStyle().Foreground(m.theme.WarnFg).
			Render("Terminal too small for the preview; copy or download it instead")
	}
	style := lipgloss.NewStyle().Foreground(m.theme.QRLight).Background(m.theme.QRDark)
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderCaption(text string, width int) string {
	wrapped := wrap.String(text, maxInt(width-4, 10))
	lines := strings.Split(wrapped, "\n")
	if len(lines) > captionLines {
		lines = lines[:captionLines]
		lines[captionLines-1] = ansi.Truncate(lines[captionLines-1], maxInt(width-5, 9), "…")
	}
	return lipgloss.NewStyle().Foreground(m.theme.MutedFg).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

// renderHints shows the actions; they only exist while a code is shown.
func (m *Model) renderHints(width int) string {
	if !m.ctrl.State().QRVisible {
		return ""
	}
	hints := []string{
		m.renderKeyHint("Ctrl+Y", "Copy"),
		m.renderKeyHint("Ctrl+T", "Copy text"),
		m.renderKeyHint("Ctrl+S", "Download"),
		m.renderKeyHint("Ctrl+L", "Clear"),
	}
	return ansi.Truncate(strings.Join(hints, "  "), width, "…")
}

func (m *Model) renderStatus(width int) string {
	var parts []string
	if m.ctrl.State().CopiedNoticeVisible {
		parts = append(parts, lipgloss.NewStyle().Foreground(m.theme.SuccessFg).Bold(true).Render(copiedNotice))
	}
	switch m.statusKind {
	case statusError:
		parts = append(parts, lipgloss.NewStyle().Foreground(m.theme.ErrorFg).Render("✗ "+m.status))
	case statusInfo:
		parts = append(parts, lipgloss.NewStyle().Foreground(m.theme.TextFg).Render(m.status))
	}
	return ansi.Truncate(strings.Join(parts, "  "), width, "…")
}

func (m *Model) renderFooter(width int) string {
	footer := strings.Join([]string{
		m.renderKeyHint("F1", "Help"),
		m.renderKeyHint("Esc", "Quit"),
	}, "  ")
	return ansi.Truncate(footer, width, "…")
}

func (m *Model) renderKeyHint(key, label string) string {
	keyStyle := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	return keyStyle.Render("["+key+"]") + " " + labelStyle.Render(label)
}

func (m *Model) applyInputTheme() {
	m.input.PromptStyle = lipgloss.NewStyle().Foreground(m.theme.Accent)
	m.input.TextStyle = lipgloss.NewStyle().Foreground(m.theme.TextFg)
	m.input.PlaceholderStyle = lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	m.input.Cursor.Style = lipgloss.NewStyle().Foreground(m.theme.Accent)
}

// overlayPopup overlays a popup on top of the base view, preserving
// the portions of the base that fall outside the popup bounds.
func (m *Model) overlayPopup(base, popup string, marginTop int) string {
	if base == "" || popup == "" {
		return base
	}

	baseLines := strings.Split(base, "\n")
	popupLines := strings.Split(popup, "\n")

	baseWidth := 0
	for _, l := range baseLines {
		baseWidth = maxInt(baseWidth, lipgloss.Width(l))
	}
	popupWidth := lipgloss.Width(popupLines[0])
	leftPad := maxInt((baseWidth-popupWidth)/2, 0)

	for i, line := range popupLines {
		row := marginTop + i
		if row >= len(baseLines) {
			break
		}

		leftPart := ansi.Truncate(baseLines[row], leftPad, "")
		if w := lipgloss.Width(leftPart); w < leftPad {
			leftPart += strings.Repeat(" ", leftPad-w)
		}
		rightPart := ansi.TruncateLeft(baseLines[row], leftPad+popupWidth, "")
		baseLines[row] = leftPart + line + rightPart
	}

	return strings.Join(baseLines, "\n")
}

// truncateToHeight ensures output doesn't exceed maxLines.
func truncateToHeight(s string, maxLines int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return strings.Join(lines, "\n")
}
