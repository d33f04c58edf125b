package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/listenupapp/pokedex/internal/app"
	"github.com/listenupapp/pokedex/internal/box"
)

const (
	fieldLocation = iota
	fieldLevel
	fieldCatchDate
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{"Location", "Level", "Caught", "Notes"}

// fieldKeys maps validation field names to inputs.
var fieldKeys = map[string]int{"location": fieldLocation, "level": fieldLevel}

const badDateMessage = "Catch date must look like YYYY-MM-DD HH:MM"

type formModel struct {
	form    *box.Form
	inputs  [fieldNotes]textinput.Model
	notes   textarea.Model
	focus   int
	saving  bool
	dateErr string
}

func newFormModel(f *box.Form) *formModel {
	fm := &formModel{form: f}

	values := [fieldNotes]string{f.Location, f.Level, f.CatchDate()}
	placeholders := [fieldNotes]string{"Route 1", "1-100", box.CatchDateLayout}
	for i := range fm.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 200
		in.Width = 40
		in.Cursor.SetMode(cursor.CursorStatic)
		in.SetValue(values[i])
		fm.inputs[i] = in
	}
	fm.inputs[fieldLevel].CharLimit = 3

	ta := textarea.New()
	ta.Prompt = ""
	ta.Placeholder = "optional"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(40)
	ta.SetHeight(4)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("ctrl+j"))
	ta.Cursor.SetMode(cursor.CursorStatic)
	ta.SetValue(f.Notes)
	ta.Blur()
	fm.notes = ta

	fm.inputs[fieldLocation].Focus()
	return fm
}

func (fm *formModel) move(delta int) {
	fm.blur(fm.focus)
	fm.focus = (fm.focus + delta + fieldCount) % fieldCount
	if fm.focus == fieldNotes {
		fm.notes.Focus()
		return
	}
	fm.inputs[fm.focus].Focus()
}

func (fm *formModel) blur(field int) {
	if field == fieldNotes {
		fm.notes.Blur()
		return
	}
	fm.inputs[field].Blur()
}

func (fm *formModel) update(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	if fm.focus == fieldNotes {
		fm.notes, cmd = fm.notes.Update(msg)
		return cmd
	}
	fm.inputs[fm.focus], cmd = fm.inputs[fm.focus].Update(msg)
	return cmd
}

// apply copies the inputs into the form. It fails only on a bad catch date.
func (fm *formModel) apply() bool {
	f := fm.form
	f.Location = fm.inputs[fieldLocation].Value()
	f.Level = fm.inputs[fieldLevel].Value()
	f.Notes = fm.notes.Value()

	fm.dateErr = ""
	date := strings.TrimSpace(fm.inputs[fieldCatchDate].Value())
	if date == f.CatchDate() {
		return true
	}
	if err := f.SetCatchDate(date); err != nil {
		fm.dateErr = badDateMessage
		return false
	}
	return true
}

func (fm *formModel) view(spin string) string {
	problems := make(map[int]string)
	for _, p := range fm.form.Problems() {
		if i, ok := fieldKeys[p.Field]; ok {
			problems[i] = p.Message
		}
	}

	lines := []string{titleStyle.Render(fm.form.Title()), ""}
	for i := range fieldCount {
		label := labelStyle.Render(padRight(fieldLabels[i], 10))
		if i == fm.focus {
			label = titleStyle.Render(padRight("› "+fieldLabels[i], 10))
		}
		if i == fieldNotes {
			lines = append(lines, label, fm.notes.View())
			continue
		}
		lines = append(lines, label+fm.inputs[i].View())
		if msg, ok := problems[i]; ok {
			lines = append(lines, padRight("", 10)+errorStyle.Render(msg))
		}
	}
	lines = append(lines, "")

	switch {
	case fm.saving:
		lines = append(lines, spin+" Saving...")
	case fm.dateErr != "":
		lines = append(lines, errorStyle.Render(fm.dateErr))
	case len(problems) > 0:
		// already shown under the fields
	case fm.form.Message() != "":
		lines = append(lines, errorStyle.Render(fm.form.Message()))
	}
	return overlayStyle.Render(strings.Join(lines, "\n"))
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fm := m.form
	if fm.saving {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.form = nil
		return m, nil
	case "tab", "down":
		fm.move(1)
		return m, nil
	case "shift+tab", "up":
		fm.move(-1)
		return m, nil
	case "enter":
		return m.submitForm()
	}

	return m, fm.update(msg)
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	fm := m.form
	if fm.saving {
		return m, nil
	}
	if !fm.apply() {
		return m, nil
	}
	if err := fm.form.Validate(); err != nil {
		return m, nil
	}

	fm.saving = true
	f, client, ctx := fm.form, m.session.Client(), m.ctx
	return m, func() tea.Msg {
		entry, err := f.Submit(ctx, client)
		return formSavedMsg{form: f, entry: entry, err: err}
	}
}

func (m Model) formSaved(msg formSavedMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, box.ErrBusy) {
		return m, nil
	}

	current := m.form != nil && m.form.form == msg.form
	if current {
		m.form.saving = false
	}
	if msg.err != nil {
		return m, nil
	}

	m.logger.Info("box entry saved", "entry", msg.entry.ID, "edit", msg.form.Editing())
	if current {
		m.form = nil
	}
	m.session.CloseDetails()
	m.session.SwitchView(app.ViewBox)
	m.status = okStyle.Render("Saved.")
	return m, m.loadBox()
}
