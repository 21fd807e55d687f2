package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fentz26/tasklist/internal/models"
)

// FormMode is the state of the task modal.
type FormMode int

const (
	FormClosed FormMode = iota
	FormCreate
	FormEdit
)

const (
	headingCreate = "New Task"
	headingEdit   = "Edit Task"
)

// form fields in focus order
const (
	fieldTitle = iota
	fieldStatus
	fieldDescription
	fieldCount
)

// Submission is what the form hands back on submit. An empty TaskID routes
// to create, anything else to update.
type Submission struct {
	TaskID string
	Draft  models.Draft
}

// IsUpdate reports whether the submission targets an existing task.
func (s Submission) IsUpdate() bool {
	return s.TaskID != ""
}

// Task returns the submission as a full task for the update path.
func (s Submission) Task() models.Task {
	return models.Task{
		TaskID:      s.TaskID,
		Title:       s.Draft.Title,
		Status:      s.Draft.Status,
		Description: s.Draft.Description,
	}
}

// Form is the modal used to create and edit tasks.
type Form struct {
	mode        FormMode
	heading     string
	taskID      string // hidden
	title       textinput.Model
	description textarea.Model
	// loaded holds the edited task's stored title and description, and shown
	// what the inputs displayed for them after sanitizing. An input still
	// showing its loaded text submits the stored value.
	loaded      models.Draft
	shown       models.Draft
	statuses    []models.TaskStatus
	statusIdx   int
	focus       int
	width       int
}

// NewForm creates a closed form.
func NewForm() *Form {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 0
	ti.Prompt = ""

	ta := textarea.New()
	ta.Placeholder = "Description"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetHeight(4)

	f := &Form{
		title:       ti,
		description: ta,
	}
	f.resetStatuses()
	f.SetWidth(60)
	return f
}

// SetWidth sizes the inputs to fit a modal of the given width.
func (f *Form) SetWidth(w int) {
	if w < 20 {
		w = 20
	}
	f.width = w
	f.title.Width = w - 4
	f.description.SetWidth(w - 4)
}

// Mode returns the current modal state.
func (f *Form) Mode() FormMode {
	return f.mode
}

// IsOpen reports whether the modal is visible.
func (f *Form) IsOpen() bool {
	return f.mode != FormClosed
}

// Heading returns the modal heading text.
func (f *Form) Heading() string {
	return f.heading
}

// OpenCreate clears every field, selects the default status and shows the
// modal for a new task.
func (f *Form) OpenCreate() tea.Cmd {
	f.taskID = ""
	f.title.SetValue("")
	f.description.SetValue("")
	f.loaded = models.Draft{}
	f.shown = models.Draft{}
	f.resetStatuses()
	f.selectStatus(models.DefaultStatus)
	f.heading = headingCreate
	f.mode = FormCreate
	return f.setFocus(fieldTitle)
}

// OpenEdit fills every field, including the hidden ID, from task and shows
// the modal.
func (f *Form) OpenEdit(task models.Task) tea.Cmd {
	f.taskID = task.TaskID
	f.title.SetValue(task.Title)
	f.description.SetValue(task.Description)
	f.loaded = models.Draft{Title: task.Title, Description: task.Description}
	f.shown = models.Draft{Title: f.title.Value(), Description: f.description.Value()}
	f.resetStatuses()
	f.selectStatus(task.Status)
	f.heading = headingEdit
	f.mode = FormEdit
	return f.setFocus(fieldTitle)
}

// Close hides the modal. Field values are left as they are.
func (f *Form) Close() {
	f.title.Blur()
	f.description.Blur()
	f.mode = FormClosed
}

// Submission reads the current field values.
func (f *Form) Submission() Submission {
	title := f.title.Value()
	if title == f.shown.Title {
		title = f.loaded.Title
	}
	desc := f.description.Value()
	if desc == f.shown.Description {
		desc = f.loaded.Description
	}
	return Submission{
		TaskID: f.taskID,
		Draft: models.Draft{
			Title:       title,
			Status:      f.Status(),
			Description: desc,
		},
	}
}

// Status returns the selected status.
func (f *Form) Status() models.TaskStatus {
	return f.statuses[f.statusIdx]
}

// Update handles key input while the modal is open.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "tab":
			return f.setFocus((f.focus + 1) % fieldCount)
		case "shift+tab":
			return f.setFocus((f.focus + fieldCount - 1) % fieldCount)
		case "enter":
			if f.focus != fieldDescription {
				return f.setFocus(f.focus + 1)
			}
		case "left", "h":
			if f.focus == fieldStatus {
				f.statusIdx = (f.statusIdx + len(f.statuses) - 1) % len(f.statuses)
				return nil
			}
		case "right", "l", " ":
			if f.focus == fieldStatus {
				f.statusIdx = (f.statusIdx + 1) % len(f.statuses)
				return nil
			}
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	}
	return cmd
}

// View renders the modal box.
func (f *Form) View() string {
	var b strings.Builder

	b.WriteString(modalTitleStyle.Render(f.heading) + "\n\n")

	b.WriteString(f.label(fieldTitle, "Title") + "\n")
	b.WriteString(f.title.View() + "\n\n")

	b.WriteString(f.label(fieldStatus, "Status") + "\n")
	status := fmt.Sprintf("‹ %s ›", f.Status())
	if f.focus == fieldStatus {
		status = focusedFieldStyle.Render(status)
	}
	b.WriteString(status + "\n\n")

	b.WriteString(f.label(fieldDescription, "Description") + "\n")
	b.WriteString(f.description.View() + "\n\n")

	b.WriteString(helpStyle.Render("tab next • ←/→ status • ctrl+s save • esc close"))

	return modalStyle.Width(f.width).Render(b.String())
}

func (f *Form) label(field int, text string) string {
	if f.focus == field {
		return focusedFieldStyle.Render("▸ " + text)
	}
	return labelStyle.Render("  " + text)
}

func (f *Form) setFocus(field int) tea.Cmd {
	f.focus = field
	f.title.Blur()
	f.description.Blur()
	switch field {
	case fieldTitle:
		return f.title.Focus()
	case fieldDescription:
		return f.description.Focus()
	}
	return nil
}

func (f *Form) resetStatuses() {
	f.statuses = append([]models.TaskStatus(nil), models.KnownStatuses...)
	f.statusIdx = 0
}

// selectStatus picks status, adding it as an extra option when the server
// uses a value outside the known set.
func (f *Form) selectStatus(status models.TaskStatus) {
	for i, s := range f.statuses {
		if s == status {
			f.statusIdx = i
			return
		}
	}
	f.statuses = append(f.statuses, status)
	f.statusIdx = len(f.statuses) - 1
}
