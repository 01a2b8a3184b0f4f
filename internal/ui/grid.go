package ui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/api"
	"github.com/five82/shelf/internal/catalog"
)

const (
	cardInnerWidth  = 26
	cardInnerHeight = 5
	cardOuterWidth  = cardInnerWidth + 4 // border + padding
	cardOuterHeight = cardInnerHeight + 2
	cardAttributes  = 2

	// Terminals at least this wide get a detail pane beside the grid.
	widePaneMin     = 110
	detailPaneWidth = 44
)

func (m Model) hasDetailPane() bool {
	return m.width >= widePaneMin
}

func (m Model) gridWidth() int {
	if m.hasDetailPane() {
		return m.width - detailPaneWidth
	}
	return m.width
}

// columns is the number of cards per row for the current width.
func (m Model) columns() int {
	cols := m.gridWidth() / cardOuterWidth
	if cols < 1 {
		return 1
	}
	return cols
}

// contentHeight is the height left for the grid once header, search line
// and footer are drawn.
func (m Model) contentHeight() int {
	h := m.height - 3
	if m.snapshot.RateLimited() {
		h--
	}
	if h < 1 {
		return 1
	}
	return h
}

// renderContent renders the grid or one of the state panels.
func (m Model) renderContent() string {
	height := m.contentHeight()
	styles := m.theme.Styles()

	if m.showActivity {
		return m.renderActivity()
	}

	snap := m.snapshot
	switch {
	case snap.Loading && !snap.Fetched && len(snap.Objects) == 0:
		return m.renderPanel(height,
			m.spinner.View()+" "+styles.Text.Render("Loading objects..."))
	case snap.FetchError != "":
		return m.renderPanel(height,
			styles.DangerText.Render("Could not load objects"),
			styles.MutedText.Render(snap.FetchError),
			"",
			styles.FaintText.Render("press r to retry"))
	case len(snap.Objects) == 0:
		return m.renderPanel(height,
			styles.Text.Render("No objects yet"),
			styles.FaintText.Render("press a to add the first one"))
	case len(m.visible) == 0:
		return m.renderPanel(height,
			styles.Text.Render(fmt.Sprintf("No objects match %q", m.searchDisplay())),
			styles.FaintText.Render("press esc to clear the search"))
	}

	grid := m.renderGrid(height)
	if !m.hasDetailPane() {
		return grid
	}
	pane := m.renderDetailPane(height)
	return lipgloss.JoinHorizontal(lipgloss.Top, grid, pane)
}

func (m Model) renderPanel(height int, lines ...string) string {
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, content)
}

// renderGrid draws the rows of cards that fit, scrolled so the selected
// card is visible.
func (m Model) renderGrid(height int) string {
	cols := m.columns()
	visibleRows := maxInt(height/cardOuterHeight, 1)
	selectedRow := m.selected / cols
	firstRow := 0
	if selectedRow >= visibleRows {
		firstRow = selectedRow - visibleRows + 1
	}

	rows := make([]string, 0, visibleRows)
	for r := firstRow; r < firstRow+visibleRows; r++ {
		start := r * cols
		if start >= len(m.visible) {
			break
		}
		end := start + cols
		if end > len(m.visible) {
			end = len(m.visible)
		}
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, m.renderCard(m.visible[i], i == m.selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	grid := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.NewStyle().Width(m.gridWidth()).Height(height).MaxHeight(height).Render(grid)
}

// renderCard draws one object: avatar and name, id, the first attributes
// and the price.
func (m Model) renderCard(obj api.Object, selected bool) string {
	styles := m.theme.Styles()

	avatar := styles.AvatarStyle(catalog.Color(obj.Name)).Render(initial(obj.Name))
	name := styles.Text.Bold(true).Render(truncate(obj.Name, cardInnerWidth-lipgloss.Width(avatar)-4))
	lines := []string{
		avatar + " " + catalog.Icon(obj.Name) + " " + name,
		styles.FaintText.Render("#" + truncate(obj.ID, cardInnerWidth-1)),
	}

	shown := 0
	for _, entry := range catalog.FormatData(obj.Data) {
		if shown == cardAttributes {
			break
		}
		if isPriceKey(entry.Key) {
			continue
		}
		lines = append(lines, styles.MutedText.Render(truncate(entry.Label+": "+entry.Value, cardInnerWidth)))
		shown++
	}
	for len(lines) < cardInnerHeight-1 {
		lines = append(lines, "")
	}

	switch {
	case obj.ID == m.deleting:
		lines = append(lines, styles.DangerText.Render("deleting..."))
	default:
		if v, ok := priceValue(obj); ok {
			lines = append(lines, styles.SuccessText.Render(catalog.FormatPrice(v)))
		} else {
			lines = append(lines, "")
		}
	}

	style := styles.Card
	if selected {
		style = styles.CardSelected.BorderForeground(lipgloss.Color(catalog.Color(obj.Name)))
	}
	return style.Width(cardInnerWidth + 2).Height(cardInnerHeight).Render(strings.Join(lines, "\n"))
}

// priceValue finds the attribute shown as the card's price.
func priceValue(obj api.Object) (api.Value, bool) {
	if v, ok := obj.Data.Get("price"); ok {
		return v, true
	}
	return obj.Data.Get("Price")
}

func isPriceKey(k string) bool {
	return k == "price" || k == "Price"
}

func initial(name string) string {
	for _, r := range strings.TrimSpace(name) {
		return string(unicode.ToUpper(r))
	}
	return "?"
}
