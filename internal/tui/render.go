package tui

import (
	"fmt"
	"strings"

	"github.com/fentz26/tasklist/internal/models"
)

// rowHeight is the number of lines each rendered task occupies, including
// the blank separator.
const rowHeight = 4

// ActionKind is the role of a row control.
type ActionKind int

const (
	ActionEdit ActionKind = iota + 1
	ActionDelete
)

func (k ActionKind) String() string {
	switch k {
	case ActionEdit:
		return "edit"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Action is a row control activation: a role plus the task ID the row is
// tagged with.
type Action struct {
	Kind   ActionKind
	TaskID string
}

// RenderTasks draws one row per task: title, description, status and the
// edit/delete controls tagged with the task's ID. It depends only on its
// arguments.
func RenderTasks(tasks []models.Task, selected, width int) string {
	if len(tasks) == 0 {
		return helpStyle.Render("  No tasks yet. Press n to add one.")
	}
	if width < 20 {
		width = 20
	}

	rows := make([]string, len(tasks))
	for i, t := range tasks {
		rows[i] = renderRow(t, i == selected, width)
	}
	return strings.Join(rows, "\n\n")
}

func renderRow(t models.Task, selected bool, width int) string {
	marker := "  "
	if selected {
		marker = selectedMarkerStyle.Render("▶ ")
	}

	title := taskTitleStyle.Render(truncate(singleLine(t.Title), width-4))
	desc := descriptionStyle.Render(truncate(singleLine(t.Description), width-4))
	status := "Status: " + statusStyle(string(t.Status)).Render(string(t.Status))
	controls := controlStyle.Render(fmt.Sprintf("[e] Edit  [d] Delete  #%s", shortID(t.TaskID)))

	return strings.Join([]string{
		marker + title,
		"  " + desc,
		"  " + status + "   " + controls,
	}, "\n")
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
