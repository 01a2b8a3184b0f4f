package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/api"
	"github.com/five82/shelf/internal/catalog"
)

// detailObject is the selected object, or its reloaded copy when g has
// fetched a newer one.
func (m Model) detailObject() (api.Object, bool) {
	obj, ok := m.selectedObject()
	if !ok {
		return api.Object{}, false
	}
	if m.fresh != nil && m.fresh.ID == obj.ID {
		return *m.fresh, true
	}
	return obj, true
}

// detailContent renders every field of obj for a column of the given width.
func (m Model) detailContent(obj api.Object, width int) string {
	styles := m.theme.Styles()
	labelWidth := 10
	valueWidth := maxInt(width-labelWidth, 10)

	row := func(label, value string) string {
		return styles.MutedText.Render(padRight(label, labelWidth)) + styles.Text.Render(value)
	}

	var b strings.Builder
	avatar := styles.AvatarStyle(catalog.Color(obj.Name)).Render(initial(obj.Name))
	b.WriteString(avatar + " " + catalog.Icon(obj.Name) + " " + styles.Text.Bold(true).Render(truncate(obj.Name, valueWidth)))
	b.WriteString("\n\n")

	b.WriteString(row("ID", truncate(obj.ID, valueWidth)))
	b.WriteString("\n")
	b.WriteString(row("Created", catalog.FormatDate(obj.CreatedAt)))
	b.WriteString("\n")
	updated := catalog.FormatDate(obj.UpdatedAt)
	if rel := catalog.Relative(obj.UpdatedAt, m.now()); rel != "" {
		updated += " (" + rel + ")"
	}
	b.WriteString(row("Updated", updated))
	b.WriteString("\n")
	b.WriteString(row("Image", truncateMiddle(catalog.ImageURL(obj.Name), valueWidth)))
	b.WriteString("\n\n")

	b.WriteString(styles.AccentText.Bold(true).Render("Attributes"))
	b.WriteString("\n")
	entries := catalog.FormatData(obj.Data)
	if len(entries) == 0 {
		b.WriteString(styles.FaintText.Render("No additional data"))
		b.WriteString("\n")
	}
	for _, entry := range entries {
		label := truncate(entry.Label, labelWidth*2)
		b.WriteString(styles.MutedText.Render(label+": ") + styles.Text.Render(truncate(entry.Value, maxInt(width-lipgloss.Width(label)-2, 4))))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderDetailPane draws the side pane shown on wide terminals.
func (m Model) renderDetailPane(height int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Padding(0, 1).
		Width(detailPaneWidth - 1).
		Height(height).
		MaxHeight(height)

	obj, ok := m.detailObject()
	if !ok {
		return style.Render(m.theme.Styles().FaintText.Render("Nothing selected"))
	}
	return style.Render(m.detailContent(obj, detailPaneWidth-3))
}

func (m Model) overlaySize() (int, int) {
	w := minInt(m.width-8, 80)
	h := m.height - 8
	return maxInt(w, 20), maxInt(h, 3)
}

func (m *Model) updateDetailViewport() {
	obj, ok := m.detailObject()
	if !ok {
		m.detailViewport.SetContent("")
		return
	}
	m.detailViewport.SetContent(m.detailContent(obj, m.detailViewport.Width))
}

// renderDetailOverlay draws the scrollable detail view opened with v.
func (m Model) renderDetailOverlay() string {
	styles := m.theme.Styles()
	footer := styles.MutedText.Render("j/k scroll · g reload · esc close")
	content := m.detailViewport.View() + "\n\n" + footer
	w, _ := m.overlaySize()
	return placeModal(m.theme, m.width, m.height, w+4, content)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
