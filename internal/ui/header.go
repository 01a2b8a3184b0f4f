package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/notify"
)

const rateLimitBanner = "API request limit reached: showing the last loaded data until the quota resets"

// renderMain renders the full screen: header, optional rate-limit banner,
// search line, content and footer.
func (m Model) renderMain() string {
	parts := []string{m.renderHeader()}
	if m.snapshot.RateLimited() {
		parts = append(parts, m.renderBanner())
	}
	parts = append(parts, m.renderSearchLine(), m.renderContent(), m.renderFooter())
	return strings.Join(parts, "\n")
}

// renderHeader draws the title, counts, sort state and activity spinner on
// the left and the current toast (or the theme name) on the right.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := newBar(m.theme.Surface)

	left := []string{
		bg.text("shelf", styles.Title),
		bg.text(fmt.Sprintf("%d objects", len(m.snapshot.Objects)), styles.Text),
		bg.text(fmt.Sprintf("sort %s %s", m.sortBy.Label(), m.sortOrder.Arrow()), styles.MutedText),
	}
	if m.busy() {
		left = append(left, bg.text(m.spinner.View()+" "+m.busyLabel(), styles.WarningText))
	}
	leftStr := bg.space() + bg.join(left, "  ")

	right := bg.text(m.theme.Name, styles.FaintText)
	if n, ok := m.toast.Current(); ok {
		right = m.renderToast(bg, n)
	}
	right += bg.space()

	gap := m.width - lipgloss.Width(leftStr) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return bg.fill(leftStr+bg.pad(gap)+right, m.width)
}

func (m Model) renderToast(bg bar, n notify.Notification) string {
	styles := m.theme.Styles()
	style := styles.InfoText
	icon := "i"
	switch n.Kind {
	case notify.Success:
		style, icon = styles.SuccessText, "✓"
	case notify.Warning:
		style, icon = styles.WarningText, "!"
	case notify.Error:
		style, icon = styles.DangerText, "✗"
	}
	return bg.text(icon+" "+truncate(n.Message, maxInt(m.width/2, 10)), style)
}

func (m Model) busy() bool {
	return m.snapshot.Loading || m.submitting || m.deleting != ""
}

func (m Model) busyLabel() string {
	switch {
	case m.submitting:
		return "saving"
	case m.deleting != "":
		return "deleting"
	default:
		return "loading"
	}
}

func (m Model) renderBanner() string {
	styles := m.theme.Styles()
	bg := newBar(m.theme.SurfaceAlt)
	text := bg.space() + bg.text(truncate(rateLimitBanner, maxInt(m.width-2, 1)), styles.WarningText)
	return bg.fill(text, m.width)
}

func (m Model) renderSearchLine() string {
	styles := m.theme.Styles()
	if m.searching || m.searchInput.Value() != "" {
		return " " + m.searchInput.View()
	}
	return " " + styles.FaintText.Render("/ to search")
}

// renderFooter shows how many objects are visible and the key hints.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bg := newBar(m.theme.Surface)

	count := bg.space() + bg.text(fmt.Sprintf("Showing %d of %d objects", len(m.visible), len(m.snapshot.Objects)), styles.MutedText)
	hints := m.renderShortHelp(bg) + bg.space()

	gap := m.width - lipgloss.Width(count) - lipgloss.Width(hints)
	if gap < 1 {
		return bg.fill(count, m.width)
	}
	return bg.fill(count+bg.pad(gap)+hints, m.width)
}
