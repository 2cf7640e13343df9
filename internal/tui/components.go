package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader draws the navigator header: a back marker when the stack can
// pop, the screen title, and the search and profile markers on the right.
func renderHeader(t Theme, title string, canGoBack bool, width int) string {
	left := ""
	if canGoBack {
		left = t.HeaderMarker.Render("‹ ")
	}
	left += t.HeaderTitle.Render(title)
	right := t.HeaderMarker.Render("⌕  ☺")

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	filler := t.HeaderTitle.Render(strings.Repeat(" ", gap))

	return t.HeaderBar.Width(max(width, 0)).Render(left + filler + right)
}

func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func renderInputFrame(t Theme, inputView string, focused bool, contentWidth int) string {
	style := t.Input
	if focused {
		style = t.InputFocused
	}
	return style.Width(contentWidth + 4).Render(inputView)
}

func renderModal(t Theme, title, message string, width int) string {
	modalWidth := (width * 3) / 5
	if modalWidth < 30 {
		modalWidth = min(width, 30)
	}
	body := lipgloss.JoinVertical(
		lipgloss.Center,
		t.ModalTitle.Render(title),
		"",
		lipgloss.NewStyle().Foreground(t.Text).Width(modalWidth-8).Align(lipgloss.Center).Render(message),
		"",
		t.MutedText.Render("enter: yes • esc: no"),
	)
	return t.Modal.Width(modalWidth).Render(body)
}

// formatAmount prints prices without trailing zeros.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// truncateEnd shortens s to at most limit runes, appending an ellipsis
// if truncation occurs.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}
