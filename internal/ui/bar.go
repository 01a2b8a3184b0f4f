package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// bar renders the one-line header, banner and footer rows. Every segment,
// including the spaces between words, carries the bar's background;
// otherwise the reset after each styled span leaves unpainted gaps.
type bar struct {
	bg    lipgloss.Color
	blank string
}

func newBar(color string) bar {
	bg := lipgloss.Color(color)
	return bar{bg: bg, blank: lipgloss.NewStyle().Background(bg).Render(" ")}
}

// text renders s word by word on the bar background.
func (b bar) text(s string, style lipgloss.Style) string {
	if s == "" {
		return ""
	}
	style = style.Background(b.bg)
	words := strings.Split(s, " ")
	for i, w := range words {
		if w != "" {
			words[i] = style.Render(w)
		}
	}
	return strings.Join(words, b.blank)
}

func (b bar) space() string { return b.blank }

func (b bar) pad(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

func (b bar) join(parts []string, sep string) string {
	return strings.Join(parts, lipgloss.NewStyle().Background(b.bg).Render(sep))
}

// fill stretches content to width.
func (b bar) fill(content string, width int) string {
	return lipgloss.NewStyle().Background(b.bg).Width(width).Render(content)
}
