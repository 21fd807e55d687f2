package tui

import "github.com/fentz26/tasklist/internal/models"

// Board is the in-memory task collection owned by the App. Only tasks the
// API has acknowledged live here; drafts stay in the form.
type Board struct {
	tasks []models.Task
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Load replaces the whole collection.
func (b *Board) Load(tasks []models.Task) {
	b.tasks = append([]models.Task(nil), tasks...)
}

// Tasks returns the tasks in display order. Callers must not modify the
// returned slice.
func (b *Board) Tasks() []models.Task {
	return b.tasks
}

// Len returns the number of tasks.
func (b *Board) Len() int {
	return len(b.tasks)
}

// At returns the task at index i.
func (b *Board) At(i int) (models.Task, bool) {
	if i < 0 || i >= len(b.tasks) {
		return models.Task{}, false
	}
	return b.tasks[i], true
}

// Find looks up a task by ID.
func (b *Board) Find(id string) (models.Task, bool) {
	if i := b.index(id); i >= 0 {
		return b.tasks[i], true
	}
	return models.Task{}, false
}

// Append adds a newly created task to the end.
func (b *Board) Append(task models.Task) {
	b.tasks = append(b.tasks, task)
}

// Replace swaps the task with the same ID in place. It reports false when no
// such task is present.
func (b *Board) Replace(task models.Task) bool {
	i := b.index(task.TaskID)
	if i < 0 {
		return false
	}
	b.tasks[i] = task
	return true
}

// Remove drops every task with the given ID.
func (b *Board) Remove(id string) {
	kept := b.tasks[:0]
	for _, t := range b.tasks {
		if t.TaskID != id {
			kept = append(kept, t)
		}
	}
	b.tasks = kept
}

// IDs returns the task IDs in display order.
func (b *Board) IDs() []string {
	ids := make([]string, len(b.tasks))
	for i, t := range b.tasks {
		ids[i] = t.TaskID
	}
	return ids
}

func (b *Board) index(id string) int {
	for i, t := range b.tasks {
		if t.TaskID == id {
			return i
		}
	}
	return -1
}
