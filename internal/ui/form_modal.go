package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/api"
	"github.com/five82/shelf/internal/form"
)

// submitFormMsg carries a validated form. An empty id means create.
type submitFormMsg struct {
	id    string
	input api.Input
}

type formRow struct {
	key   textinput.Model
	typ   form.FieldType
	value textinput.Model
}

// formModal edits an object's name and its attribute rows.
//
// Focus slots: 0 is the name, then every row contributes its key and value
// inputs in order.
type formModal struct {
	editID string
	name   textinput.Model
	rows   []formRow
	focus  int
	errors map[string]string
	busy   bool
	failed string
}

func newFormModal(obj *api.Object) *formModal {
	f := &formModal{name: newNameInput()}
	if obj != nil {
		f.editID = obj.ID
		f.name.SetValue(obj.Name)
		for _, field := range form.FieldsFromObject(*obj) {
			f.rows = append(f.rows, newFormRow(field))
		}
	}
	f.name.Focus()
	return f
}

func newNameInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. iPhone 14 Pro Max"
	ti.Prompt = ""
	ti.CharLimit = 0
	ti.Width = 40
	return ti
}

func newFormRow(field form.Field) formRow {
	k := textinput.New()
	k.Placeholder = "key"
	k.Prompt = ""
	k.Width = 16
	k.SetValue(field.Key)

	v := textinput.New()
	v.Placeholder = "value"
	v.Prompt = ""
	v.Width = 22
	v.SetValue(field.Value)

	typ := field.Type
	if typ == "" {
		typ = form.TypeText
	}
	return formRow{key: k, typ: typ, value: v}
}

func (f *formModal) editing() bool { return f.editID != "" }

func (f *formModal) slots() int { return 1 + 2*len(f.rows) }

// rowAt maps a focus slot to a row index and whether it is the value input.
func (f *formModal) rowAt(slot int) (int, bool, bool) {
	if slot <= 0 || slot >= f.slots() {
		return 0, false, false
	}
	return (slot - 1) / 2, (slot-1)%2 == 1, true
}

func (f *formModal) setFocus(slot int) tea.Cmd {
	n := f.slots()
	slot = ((slot % n) + n) % n
	f.focus = slot

	f.name.Blur()
	for i := range f.rows {
		f.rows[i].key.Blur()
		f.rows[i].value.Blur()
	}
	if slot == 0 {
		return f.name.Focus()
	}
	row, isValue, _ := f.rowAt(slot)
	if isValue {
		return f.rows[row].value.Focus()
	}
	return f.rows[row].key.Focus()
}

// Fields returns the attribute rows as typed fields.
func (f *formModal) Fields() []form.Field {
	fields := make([]form.Field, 0, len(f.rows))
	for _, row := range f.rows {
		fields = append(fields, form.Field{
			Key:   row.key.Value(),
			Type:  row.typ,
			Value: row.value.Value(),
		})
	}
	return fields
}

func (f *formModal) submit() tea.Cmd {
	input := form.Build(f.name.Value(), f.Fields())
	if verr := form.Validate(input); verr != nil {
		f.errors = verr.Fields
		return nil
	}
	f.errors = nil
	f.failed = ""
	return emit(submitFormMsg{id: f.editID, input: input})
}

func (f *formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, f.updateFocused(msg), false
	}
	// Controls are disabled while a save is in flight.
	if f.busy {
		return f, nil, false
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		return f, nil, true
	case key.Matches(keyMsg, keys.Submit):
		return f, f.submit(), false
	case key.Matches(keyMsg, keys.Confirm):
		if f.focus == f.slots()-1 {
			return f, f.submit(), false
		}
		return f, f.setFocus(f.focus + 1), false
	case key.Matches(keyMsg, keys.NextField):
		return f, f.setFocus(f.focus + 1), false
	case key.Matches(keyMsg, keys.PrevField):
		return f, f.setFocus(f.focus - 1), false
	case key.Matches(keyMsg, keys.AddRow):
		f.rows = append(f.rows, newFormRow(form.Field{Type: form.TypeText}))
		return f, f.setFocus(f.slots() - 2), false
	case key.Matches(keyMsg, keys.RemoveRow):
		row, _, ok := f.rowAt(f.focus)
		if !ok {
			return f, nil, false
		}
		f.rows = append(f.rows[:row], f.rows[row+1:]...)
		focus := f.focus
		if focus >= f.slots() {
			focus = f.slots() - 1
		}
		return f, f.setFocus(focus), false
	case key.Matches(keyMsg, keys.CycleType):
		if row, _, ok := f.rowAt(f.focus); ok {
			f.rows[row].typ = f.rows[row].typ.Next()
		}
		return f, nil, false
	case key.Matches(keyMsg, keys.Toggle):
		if row, isValue, ok := f.rowAt(f.focus); ok && isValue && f.rows[row].typ == form.TypeBoolean {
			next := "true"
			if strings.EqualFold(f.rows[row].value.Value(), "true") {
				next = "false"
			}
			f.rows[row].value.SetValue(next)
			return f, nil, false
		}
	}

	before := f.name.Value()
	cmd := f.updateFocused(msg)
	if f.name.Value() != before && f.errors != nil {
		delete(f.errors, "name")
	}
	return f, cmd, false
}

func (f *formModal) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == 0 {
		f.name, cmd = f.name.Update(msg)
		return cmd
	}
	row, isValue, ok := f.rowAt(f.focus)
	if !ok {
		return nil
	}
	if isValue {
		f.rows[row].value, cmd = f.rows[row].value.Update(msg)
	} else {
		f.rows[row].key, cmd = f.rows[row].key.Update(msg)
	}
	return cmd
}

func (f *formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	title := "New object"
	if f.editing() {
		title = "Edit object"
	}
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n\n")

	b.WriteString(f.label(styles, "Name *", f.focus == 0))
	b.WriteString("\n")
	b.WriteString(f.name.View())
	b.WriteString("\n")
	if msg := f.errors["name"]; msg != "" {
		b.WriteString(styles.DangerText.Render(msg))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.AccentText.Render("Attributes"))
	b.WriteString("\n")
	if len(f.rows) == 0 {
		b.WriteString(styles.FaintText.Render("No attributes. ctrl+n adds one."))
		b.WriteString("\n")
	}
	for i, row := range f.rows {
		marker := "  "
		if r, _, ok := f.rowAt(f.focus); ok && r == i {
			marker = styles.AccentText.Render("› ")
		}
		typ := styles.InfoText.Render(padRight("["+string(row.typ)+"]", 10))
		b.WriteString(marker + row.key.View() + "  " + typ + row.value.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case f.busy:
		b.WriteString(styles.WarningText.Render("Saving..."))
	case f.failed != "":
		b.WriteString(styles.DangerText.Render(f.failed))
	default:
		b.WriteString(styles.MutedText.Render("tab move · ctrl+n add · ctrl+d remove · ctrl+t type · ctrl+s save · esc cancel"))
	}

	boxWidth := 76
	if width > 0 && width-4 < boxWidth {
		boxWidth = maxInt(width-4, 30)
	}
	return placeModal(theme, width, height, boxWidth, b.String())
}

func (f *formModal) label(styles Styles, text string, focused bool) string {
	if focused {
		return styles.AccentText.Render(text)
	}
	return styles.MutedText.Render(text)
}
