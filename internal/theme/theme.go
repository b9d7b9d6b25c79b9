// Package theme provides the color palettes of the lazyqr TUI.
package theme

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines all colors used in the UI.
type Theme struct {
	Accent    lipgloss.Color
	AccentFg  lipgloss.Color // text drawn on Accent
	Border    lipgloss.Color
	BorderDim lipgloss.Color
	MutedFg   lipgloss.Color
	TextFg    lipgloss.Color
	SuccessFg lipgloss.Color
	WarnFg    lipgloss.Color
	ErrorFg   lipgloss.Color

	// QR preview colors. Scanners need dark modules on a light field, so
	// every theme keeps them high-contrast regardless of its background.
	QRDark  lipgloss.Color
	QRLight lipgloss.Color
}

// Theme names.
const (
	DraculaName        = "dracula"
	DraculaLightName   = "dracula-light"
	NordName           = "nord"
	GruvboxDarkName    = "gruvbox-dark"
	SolarizedLightName = "solarized-light"
)

var registry = map[string]func() *Theme{
	DraculaName:        Dracula,
	DraculaLightName:   DraculaLight,
	NordName:           Nord,
	GruvboxDarkName:    GruvboxDark,
	SolarizedLightName: SolarizedLight,
}

var lightThemes = map[string]bool{
	DraculaLightName:   true,
	SolarizedLightName: true,
}

// Dracula is the default dark theme.
func Dracula() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#BD93F9"),
		AccentFg:  lipgloss.Color("#282A36"),
		Border:    lipgloss.Color("#6272A4"),
		BorderDim: lipgloss.Color("#44475A"),
		MutedFg:   lipgloss.Color("#6272A4"),
		TextFg:    lipgloss.Color("#F8F8F2"),
		SuccessFg: lipgloss.Color("#50FA7B"),
		WarnFg:    lipgloss.Color("#FFB86C"),
		ErrorFg:   lipgloss.Color("#FF5555"),
		QRDark:    lipgloss.Color("#000000"),
		QRLight:   lipgloss.Color("#FFFFFF"),
	}
}

// DraculaLight adapts Dracula for light terminals.
func DraculaLight() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#7C3AED"),
		AccentFg:  lipgloss.Color("#FFFFFF"),
		Border:    lipgloss.Color("#D0D7DE"),
		BorderDim: lipgloss.Color("#E8E8E8"),
		MutedFg:   lipgloss.Color("#6E7781"),
		TextFg:    lipgloss.Color("#24292F"),
		SuccessFg: lipgloss.Color("#059669"),
		WarnFg:    lipgloss.Color("#D97706"),
		ErrorFg:   lipgloss.Color("#DC2626"),
		QRDark:    lipgloss.Color("#000000"),
		QRLight:   lipgloss.Color("#FFFFFF"),
	}
}

// Nord uses the arctic Nord palette.
func Nord() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#88C0D0"),
		AccentFg:  lipgloss.Color("#2E3440"),
		Border:    lipgloss.Color("#4C566A"),
		BorderDim: lipgloss.Color("#434C5E"),
		MutedFg:   lipgloss.Color("#81A1C1"),
		TextFg:    lipgloss.Color("#E5E9F0"),
		SuccessFg: lipgloss.Color("#A3BE8C"),
		WarnFg:    lipgloss.Color("#EBCB8B"),
		ErrorFg:   lipgloss.Color("#BF616A"),
		QRDark:    lipgloss.Color("#2E3440"),
		QRLight:   lipgloss.Color("#ECEFF4"),
	}
}

// GruvboxDark uses the retro Gruvbox dark palette.
func GruvboxDark() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#FABD2F"),
		AccentFg:  lipgloss.Color("#282828"),
		Border:    lipgloss.Color("#504945"),
		BorderDim: lipgloss.Color("#3C3836"),
		MutedFg:   lipgloss.Color("#928374"),
		TextFg:    lipgloss.Color("#EBDBB2"),
		SuccessFg: lipgloss.Color("#B8BB26"),
		WarnFg:    lipgloss.Color("#FE8019"),
		ErrorFg:   lipgloss.Color("#FB4934"),
		QRDark:    lipgloss.Color("#1D2021"),
		QRLight:   lipgloss.Color("#FBF1C7"),
	}
}

// SolarizedLight uses the Solarized light palette.
func SolarizedLight() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#268BD2"),
		AccentFg:  lipgloss.Color("#FDF6E3"),
		Border:    lipgloss.Color("#93A1A1"),
		BorderDim: lipgloss.Color("#E4DDC7"),
		MutedFg:   lipgloss.Color("#93A1A1"),
		TextFg:    lipgloss.Color("#073642"),
		SuccessFg: lipgloss.Color("#859900"),
		WarnFg:    lipgloss.Color("#B58900"),
		ErrorFg:   lipgloss.Color("#DC322F"),
		QRDark:    lipgloss.Color("#002B36"),
		QRLight:   lipgloss.Color("#FDF6E3"),
	}
}

// GetTheme returns the named theme, falling back to Dracula.
func GetTheme(name string) *Theme {
	if ctor, ok := registry[Normalize(name)]; ok {
		return ctor()
	}
	return Dracula()
}

// Normalize lowercases name and maps underscores to dashes. It returns ""
// for unknown themes.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", "-")
	if _, ok := registry[name]; !ok {
		return ""
	}
	return name
}

// IsLight reports whether the named theme targets light backgrounds.
func IsLight(name string) bool {
	return lightThemes[Normalize(name)]
}

// DefaultDark returns the default dark theme name.
func DefaultDark() string { return DraculaName }

// AvailableThemes returns the sorted theme names.
func AvailableThemes() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
