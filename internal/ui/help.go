package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

var helpSectionTitles = []string{"Navigation", "Objects", "Search & sort", "Form", "General"}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder

	title := styles.Text.Bold(true).Render("Keyboard Shortcuts")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	groups := m.keys.FullHelp()
	for i, group := range groups {
		name := "More"
		if i < len(helpSectionTitles) {
			name = helpSectionTitles[i]
		}
		b.WriteString(styles.AccentText.Bold(true).Render(name))
		b.WriteString("\n")

		for _, binding := range group {
			b.WriteString(renderHelpItem(m.theme, styles, binding))
			b.WriteString("\n")
		}

		if i < len(groups)-1 {
			b.WriteString("\n")
		}
	}

	return placeModal(m.theme, m.width, m.height, 44, b.String())
}

func renderHelpItem(theme Theme, styles Styles, binding key.Binding) string {
	help := binding.Help()
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Warning)).
		Width(14)
	return keyStyle.Render(help.Key) + styles.Text.Render(help.Desc)
}

// renderShortHelp renders the footer key hints.
func (m Model) renderShortHelp(bg bar) string {
	styles := m.theme.Styles()
	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, binding := range m.keys.ShortHelp() {
		help := binding.Help()
		parts = append(parts, bg.text(help.Key, styles.AccentText)+bg.space()+bg.text(help.Desc, styles.MutedText))
	}
	return bg.join(parts, "  ")
}
