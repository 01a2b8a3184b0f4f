package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// placeModal centers a bordered box on the screen.
func placeModal(theme Theme, width, height, boxWidth int, content string) string {
	box := theme.Styles().Modal.Width(boxWidth).Render(content)
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Messages produced by modals.

type sortPickedMsg struct {
	key catalog.SortKey
}

type deleteConfirmedMsg struct {
	id string
}

// confirmModal asks before an object is deleted.
type confirmModal struct {
	id   string
	name string
}

func newConfirmModal(id, name string) *confirmModal {
	return &confirmModal{id: id, name: name}
}

func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Yes):
		return c, emit(deleteConfirmedMsg{id: c.id}), true
	case key.Matches(keyMsg, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Delete object"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(fmt.Sprintf("Delete %q?", truncate(c.name, 40))))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("id " + c.id))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("y confirm · n cancel"))
	return placeModal(theme, width, height, 50, b.String())
}

// sortMenu lists the sort keys. Picking the active key again flips the
// direction; that decision belongs to the model.
type sortMenu struct {
	cursor int
	active catalog.SortKey
	order  catalog.SortOrder
}

func newSortMenu(active catalog.SortKey, order catalog.SortOrder) *sortMenu {
	menu := &sortMenu{active: active, order: order}
	for i, k := range catalog.SortKeys {
		if k == active {
			menu.cursor = i
		}
	}
	return menu
}

func (s *sortMenu) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
		return s, nil, false
	case key.Matches(keyMsg, keys.Down):
		if s.cursor < len(catalog.SortKeys)-1 {
			s.cursor++
		}
		return s, nil, false
	case key.Matches(keyMsg, keys.Confirm):
		return s, emit(sortPickedMsg{key: catalog.SortKeys[s.cursor]}), true
	}
	// Shortcuts: 1..n or the key's initial.
	for i, k := range catalog.SortKeys {
		if keyMsg.String() == fmt.Sprint(i+1) || keyMsg.String() == string(k)[:1] {
			return s, emit(sortPickedMsg{key: k}), true
		}
	}
	// Anything else dismisses the menu.
	return s, nil, true
}

func (s *sortMenu) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Sort by"))
	b.WriteString("\n\n")
	for i, k := range catalog.SortKeys {
		label := fmt.Sprintf("%d  %s", i+1, k.Label())
		if k == s.active {
			label += " " + s.order.Arrow()
		}
		line := padRight(label, 20)
		if i == s.cursor {
			b.WriteString(styles.Selected.Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("enter pick · esc close"))
	return placeModal(theme, width, height, 28, b.String())
}
