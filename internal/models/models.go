// Package models defines the core domain types for tasklist.
package models

import "time"

// TaskStatus is the lifecycle label of a task. The server may hand back
// values outside the known set; those are carried through untouched.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

// DefaultStatus is assigned to new drafts.
const DefaultStatus = TaskStatusPending

// KnownStatuses lists the statuses offered by the status select, in order.
var KnownStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusDone,
}

// Task is a titled, described item with a status and a server-assigned ID.
type Task struct {
	TaskID      string     `json:"taskId,omitempty"`
	Title       string     `json:"title"`
	Status      TaskStatus `json:"status"`
	Description string     `json:"description"`
}

// Draft holds the field values of a task that has not been created yet.
type Draft struct {
	Title       string     `json:"title"`
	Status      TaskStatus `json:"status"`
	Description string     `json:"description"`
}

// TaskList is the body of a list response.
type TaskList struct {
	Tasks []Task `json:"tasks"`
}

// TaskPatch carries the fields of a partial update. Nil fields are left as is.
type TaskPatch struct {
	Title       *string     `json:"title,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
	Description *string     `json:"description,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Status == nil && p.Description == nil
}

// AuditEntry records a state-mutating action against the task table.
type AuditEntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	InputsHash string    `json:"inputs_hash"`
	Outcome    string    `json:"outcome"`
	TaskID     string    `json:"task_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
