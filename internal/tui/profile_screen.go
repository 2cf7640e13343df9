package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/shopr/internal/config"
)

func renderProfile(t Theme, cfg *config.Config, width int) string {
	row := func(label, value string) string {
		l := t.Label.Render(label + ": ")
		return l + t.Value.Render(truncateEnd(value, max(width-lipgloss.Width(l)-4, 10)))
	}

	modifier := cfg.Keys.Modifier
	return lipgloss.JoinVertical(lipgloss.Left,
		t.ModalTitle.Foreground(t.Accent).Render("Account"),
		"",
		row("API", cfg.API.BaseURL),
		row("Tracking endpoint", cfg.API.TrackingPath),
		row("Cart endpoint", cfg.API.CartPath),
		row("Log level", cfg.Log.Level),
		row("Log file", cfg.Log.Path),
		row("Key modifier", modifier),
		"",
		t.MutedText.Render(modifier+"+"+cfg.Keys.Bindings.Tracking+" track • "+
			modifier+"+"+cfg.Keys.Bindings.Cart+" cart • "+
			modifier+"+"+cfg.Keys.Bindings.Search+" search"),
	)
}
