package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/shopr/internal/config"
)

const AppName = "shopr"

var LogoLines = []string{
	"▄▀▀ █  █ ▄▀▀▄ █▀▀▄ █▀▀▄",
	"▀▀▄ █▀▀█ █  █ █▄▄▀ █▄▄▀",
	"▄▄▀ █  █ ▀▄▄▀ █    █  █",
}

const CompactLogo = "shopr ›"

// Theme is the set of styles derived from [ui.colors].
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Header    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color

	HeaderBar    lipgloss.Style
	HeaderTitle  lipgloss.Style
	HeaderMarker lipgloss.Style
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	Label        lipgloss.Style
	Value        lipgloss.Style
	MutedText    lipgloss.Style
	Disabled     lipgloss.Style
	Control      lipgloss.Style
	Modal        lipgloss.Style
	ModalTitle   lipgloss.Style
	StatusInfo   lipgloss.Style
	StatusOK     lipgloss.Style
	StatusError  lipgloss.Style
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Logo         lipgloss.Style
}

func NewTheme(c config.UIColors) Theme {
	t := Theme{
		Primary:   lipgloss.Color(c.Primary),
		Secondary: lipgloss.Color(c.Secondary),
		Accent:    lipgloss.Color(c.Accent),
		Header:    lipgloss.Color(c.Header),
		Text:      lipgloss.Color(c.Text),
		Muted:     lipgloss.Color(c.Muted),
		Error:     lipgloss.Color(c.Error),
		Success:   lipgloss.Color(c.Success),
	}

	t.HeaderBar = lipgloss.NewStyle().
		Background(t.Primary).
		Foreground(t.Header).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Background(t.Primary).
		Foreground(t.Header).
		Bold(true)
	t.HeaderMarker = lipgloss.NewStyle().
		Background(t.Primary).
		Foreground(t.Accent)

	t.Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(0, 1)
	t.CardSelected = t.Card.BorderForeground(t.Accent)
	t.Label = lipgloss.NewStyle().Foreground(t.Muted)
	t.Value = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	t.MutedText = lipgloss.NewStyle().Foreground(t.Muted)
	t.Disabled = lipgloss.NewStyle().Foreground(t.Muted).Faint(true)
	t.Control = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	t.Modal = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Error).
		Padding(1, 3)
	t.ModalTitle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)

	t.StatusInfo = lipgloss.NewStyle().Foreground(t.Muted)
	t.StatusOK = lipgloss.NewStyle().Foreground(t.Success)
	t.StatusError = lipgloss.NewStyle().Foreground(t.Error).Bold(true)

	t.Input = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Muted).
		Padding(0, 1)
	t.InputFocused = t.Input.BorderForeground(t.Accent)

	t.Logo = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	return t
}

// Banner renders the logo with a version tagline for the CLI.
func Banner(version string, t Theme) string {
	lines := make([]string, 0, len(LogoLines)+2)
	for _, l := range LogoLines {
		lines = append(lines, t.Logo.Render(l))
	}
	lines = append(lines, "")

	tagline := "Shop & Track"
	if version != "" && version != "dev" {
		if version[0] != 'v' && version[0] != 'V' {
			version = "v" + version
		}
		tagline = fmt.Sprintf("%s %s", tagline, version)
	}
	lines = append(lines, t.MutedText.Render(tagline))

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(t.Primary).
		Padding(1, 3).
		Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func ShowBanner(version string, colors config.UIColors) {
	fmt.Println(Banner(version, NewTheme(colors)))
}
