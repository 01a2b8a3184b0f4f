package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/logtail"
)

// updateActivityViewport re-renders the activity entries and scrolls to
// the newest one.
func (m *Model) updateActivityViewport() {
	m.activityViewport.SetContent(m.renderActivityContent())
	m.activityViewport.GotoBottom()
}

func (m Model) renderActivityContent() string {
	styles := m.theme.Styles()
	if m.activityErr != "" {
		return styles.DangerText.Render("Cannot read log: " + m.activityErr)
	}
	if m.logPath == "" {
		return styles.FaintText.Render("Logging is disabled (log_file = \"-\")")
	}
	if len(m.activity) == 0 {
		return styles.FaintText.Render("No activity yet")
	}

	lines := make([]string, 0, len(m.activity))
	for _, entry := range m.activity {
		lines = append(lines, m.formatActivity(entry))
	}
	return strings.Join(lines, "\n")
}

func (m Model) formatActivity(e logtail.Entry) string {
	styles := m.theme.Styles()

	ts := "--:--:--"
	if !e.Time.IsZero() {
		ts = e.Time.Local().Format("15:04:05")
	}

	level := strings.ToUpper(e.Level)
	levelStyle := styles.MutedText
	switch level {
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		levelStyle = styles.DangerText
	case "WARN":
		levelStyle = styles.WarningText
	case "INFO":
		levelStyle = styles.InfoText
	}

	var b strings.Builder
	b.WriteString(styles.FaintText.Render(ts))
	b.WriteString(" ")
	b.WriteString(levelStyle.Render(padRight(level, 5)))
	b.WriteString(" ")
	if e.Logger != "" {
		b.WriteString(styles.AccentText.Render(padRight(e.Logger, 8)))
		b.WriteString(" ")
	}
	b.WriteString(styles.Text.Render(e.Message))
	for _, f := range e.Fields {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf(" %s=%s", f.Key, f.Value)))
	}
	return b.String()
}

// renderActivity draws the activity log in place of the grid.
func (m Model) renderActivity() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Activity") + "  " +
		styles.FaintText.Render(truncateMiddle(m.logPath, maxInt(m.width-40, 10))+"  r reload · esc close")
	box := lipgloss.NewStyle().
		Width(m.width).
		Height(m.contentHeight()).
		MaxHeight(m.contentHeight())
	return box.Render(title + "\n" + m.activityViewport.View())
}
