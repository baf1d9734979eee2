package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

const labelWidth = 12

// Form field indexes.
const (
	fieldTitle = iota
	fieldDescription
	fieldDeadline
	fieldColor
	fieldPriority
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Deadline", "Color", "Priority"}

// form edits the user fields of a new or existing task.
type form struct {
	inputs  [fieldCount]textinput.Model
	focus   int
	editing *task.Task
	err     error
	styles  palette
}

func newForm(styles palette) *form {
	f := &form{styles: styles}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 200 //nolint:mnd // generous field limit
		f.inputs[i] = in
	}
	f.inputs[fieldDeadline].Placeholder = "YYYY-MM-DD [HH:MM]"
	f.inputs[fieldColor].Placeholder = task.DefaultColor
	f.inputs[fieldPriority].Placeholder = "High, Medium or Low"
	return f
}

func newAddForm(styles palette) *form {
	return newForm(styles)
}

func newEditForm(t *task.Task, loc *time.Location, styles palette) *form {
	f := newForm(styles)
	f.editing = t
	f.inputs[fieldTitle].SetValue(t.Title)
	f.inputs[fieldDescription].SetValue(t.Description)
	if t.Deadline != nil {
		f.inputs[fieldDeadline].SetValue(t.Deadline.In(loc).Format(output.DeadlineLayout))
	}
	f.inputs[fieldColor].SetValue(t.Color)
	f.inputs[fieldPriority].SetValue(string(t.Priority))
	return f
}

func (f *form) focusCmd() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *form) move(delta int) tea.Cmd {
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.focusCmd()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// fields parses the deadline and priority inputs.
func (f *form) fields(loc *time.Location) (*time.Time, task.Priority, error) {
	var deadline *time.Time
	if s := f.value(fieldDeadline); s != "" {
		dl, err := date.ParseDeadline(s, loc)
		if err != nil {
			return nil, "", task.ValidateDate("deadline", s, err)
		}
		deadline = &dl
	}
	var priority task.Priority
	if s := f.value(fieldPriority); s != "" {
		p, err := task.ParsePriority(s)
		if err != nil {
			return nil, "", err
		}
		priority = p
	}
	return deadline, priority, nil
}

// draft builds a new task from the inputs.
func (f *form) draft(loc *time.Location) (task.Draft, error) {
	deadline, priority, err := f.fields(loc)
	if err != nil {
		return task.Draft{}, err
	}
	return task.Draft{
		Title:       f.value(fieldTitle),
		Description: f.value(fieldDescription),
		Deadline:    deadline,
		Color:       f.value(fieldColor),
		Priority:    priority,
	}, nil
}

// patch diffs the inputs against the task being edited. Clearing the
// deadline input removes the deadline.
func (f *form) patch(loc *time.Location) (task.Patch, error) {
	deadline, priority, err := f.fields(loc)
	if err != nil {
		return task.Patch{}, err
	}
	t := f.editing
	var p task.Patch
	if v := f.value(fieldTitle); v != t.Title {
		p.Title = &v
	}
	if v := f.value(fieldDescription); v != t.Description {
		p.Description = &v
	}
	switch {
	case deadline == nil && t.Deadline != nil:
		p.ClearDeadline = true
	case deadline != nil && (t.Deadline == nil || !t.Deadline.Truncate(time.Minute).Equal(*deadline)):
		// The input has minute precision.
		p.Deadline = deadline
	}
	if v := f.value(fieldColor); v != "" && v != t.Color {
		p.Color = &v
	}
	if priority != "" && priority != t.Priority {
		p.Priority = &priority
	}
	if p.IsEmpty() {
		return p, clierr.New(clierr.NoChanges, "no changes specified")
	}
	return p, nil
}

func (f *form) view(width int) string {
	var b strings.Builder
	heading := "New task"
	if f.editing != nil {
		heading = "Edit task"
	}
	b.WriteString(f.styles.header.Render(heading))
	b.WriteString("\n\n")
	for i, in := range f.inputs {
		marker := "  "
		if i == f.focus {
			marker = "> "
		}
		in.Width = max(width-labelWidth-4, 10) //nolint:mnd // marker and gap
		b.WriteString(marker + f.styles.label.Render(fieldLabels[i]) + " " + in.View() + "\n")
	}
	b.WriteString("\n")
	if f.err != nil {
		b.WriteString(f.styles.err.Render("Error: " + f.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(f.styles.dim.Render("tab/shift+tab: move   enter: save   esc: cancel"))
	return b.String()
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch msg.String() {
	case keyEsc:
		m.form = nil
		m.screen = screenList
		return m, nil
	case "tab", "down":
		return m, f.move(1)
	case "shift+tab", "up":
		return m, f.move(-1)
	case "enter":
		return m, m.submitForm()
	}
	return m, f.update(msg)
}

// submitForm validates the form and stores the task. The form stays open
// with the error when validation fails.
func (m *Model) submitForm() tea.Cmd {
	f := m.form
	if f.editing == nil {
		d, err := f.draft(m.loc)
		if err == nil {
			err = task.ValidateTitle(d.Title)
		}
		if err != nil {
			f.err = err
			return nil
		}
		m.form = nil
		m.screen = screenList
		return func() tea.Msg {
			t, err := m.board.Create(m.ctx, d)
			if err != nil {
				return doneMsg{err: err}
			}
			return doneMsg{notice: fmt.Sprintf("Added %q", t.Title)}
		}
	}

	p, err := f.patch(m.loc)
	if err == nil {
		_, err = p.Normalize()
	}
	if err != nil {
		f.err = err
		return nil
	}
	id := f.editing.ID
	m.form = nil
	m.screen = screenList
	return func() tea.Msg {
		t, err := m.board.Edit(m.ctx, id, p)
		if err != nil {
			return doneMsg{err: err}
		}
		return doneMsg{notice: fmt.Sprintf("Saved %q", t.Title)}
	}
}
