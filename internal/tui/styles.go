package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/i474232898/weather-dashboard/internal/theme"
)

// Palette defines the colors of one theme. Colors are ANSI 256-color codes.
type Palette struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	Accent     lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	ActiveTab   lipgloss.Color
	InactiveTab lipgloss.Color
	BorderColor lipgloss.Color
}

// DarkPalette is used when the theme attribute is "dark".
var DarkPalette = Palette{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	Accent:             lipgloss.Color("75"),
	Error:              lipgloss.Color("203"),
	Success:            lipgloss.Color("114"),
	SelectedBackground: lipgloss.Color("237"),
	SelectedForeground: lipgloss.Color("255"),
	ActiveTab:          lipgloss.Color("75"),
	InactiveTab:        lipgloss.Color("245"),
	BorderColor:        lipgloss.Color("240"),
}

// LightPalette is used when the theme attribute is "light".
var LightPalette = Palette{
	NormalText:         lipgloss.Color("235"),
	FaintText:          lipgloss.Color("244"),
	Accent:             lipgloss.Color("25"),
	Error:              lipgloss.Color("160"),
	Success:            lipgloss.Color("28"),
	SelectedBackground: lipgloss.Color("153"),
	SelectedForeground: lipgloss.Color("16"),
	ActiveTab:          lipgloss.Color("25"),
	InactiveTab:        lipgloss.Color("246"),
	BorderColor:        lipgloss.Color("250"),
}

// PaletteFor returns the palette for a theme attribute.
func PaletteFor(attr string) Palette {
	if attr == theme.Dark {
		return DarkPalette
	}
	return LightPalette
}

// Styles are the lipgloss styles derived from a Palette.
type Styles struct {
	Attr string

	Text        lipgloss.Style
	Faint       lipgloss.Style
	Title       lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Selected    lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Card        lipgloss.Style
}

// NewStyles builds the styles for a theme attribute.
func NewStyles(attr string) Styles {
	p := PaletteFor(attr)
	return Styles{
		Attr:        attr,
		Text:        lipgloss.NewStyle().Foreground(p.NormalText),
		Faint:       lipgloss.NewStyle().Foreground(p.FaintText),
		Title:       lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Error:       lipgloss.NewStyle().Foreground(p.Error),
		Success:     lipgloss.NewStyle().Foreground(p.Success),
		Selected:    lipgloss.NewStyle().Background(p.SelectedBackground).Foreground(p.SelectedForeground),
		ActiveTab:   lipgloss.NewStyle().Foreground(p.ActiveTab).Bold(true).Underline(true).Padding(0, 1),
		InactiveTab: lipgloss.NewStyle().Foreground(p.InactiveTab).Padding(0, 1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.BorderColor).
			Padding(0, 1),
	}
}
