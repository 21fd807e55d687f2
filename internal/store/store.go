// Package store provides SQLite-backed persistence for the task API.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fentz26/tasklist/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrTaskNotFound is returned when no task row matches the given ID.
var ErrTaskNotFound = errors.New("task not found")

// dsnPragmas is applied by the driver to every new connection.
const dsnPragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

// Store provides access to the tasklist SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		task_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'Pending',
		seq INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		inputs_hash TEXT NOT NULL,
		outcome TEXT NOT NULL,
		task_id TEXT,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_seq ON tasks(seq);
	CREATE INDEX IF NOT EXISTS idx_audit_log_task_id ON audit_log(task_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// --- Task Operations ---

// CreateTask inserts a new task with a fresh ID.
func (s *Store) CreateTask(ctx context.Context, draft models.Draft) (*models.Task, error) {
	now := time.Now().UTC()
	task := &models.Task{
		TaskID:      uuid.New().String(),
		Title:       draft.Title,
		Status:      draft.Status,
		Description: draft.Description,
	}

	// seq keeps list order stable even when two rows share a timestamp
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (task_id, title, description, status, seq, created_at, updated_at)
		 VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM tasks), ?, ?)`,
		task.TaskID, task.Title, task.Description, task.Status, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

// GetTask retrieves a task by ID.
func (s *Store) GetTask(ctx context.Context, id string) (*models.Task, error) {
	task := &models.Task{}
	err := s.db.QueryRowContext(ctx,
		`SELECT task_id, title, description, status FROM tasks WHERE task_id = ?`,
		id,
	).Scan(&task.TaskID, &task.Title, &task.Description, &task.Status)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	return task, nil
}

// ListTasks returns all tasks in creation order.
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT task_id, title, description, status FROM tasks ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.TaskID, &task.Title, &task.Description, &task.Status); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// UpdateTask applies the non-nil fields of patch and returns the stored task.
func (s *Store) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now().UTC()}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	args = append(args, id)

	result, err := tx.ExecContext(ctx,
		`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE task_id = ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrTaskNotFound
	}

	task := &models.Task{}
	err = tx.QueryRowContext(ctx,
		`SELECT task_id, title, description, status FROM tasks WHERE task_id = ?`,
		id,
	).Scan(&task.TaskID, &task.Title, &task.Description, &task.Status)
	if err != nil {
		return nil, fmt.Errorf("reload task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task by ID.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE task_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// --- Audit Operations ---

// WriteAudit appends an audit entry.
func (s *Store) WriteAudit(ctx context.Context, action, inputsHash, outcome, taskID string) (*models.AuditEntry, error) {
	entry := &models.AuditEntry{
		ID:         uuid.New().String(),
		Action:     action,
		InputsHash: inputsHash,
		Outcome:    outcome,
		TaskID:     taskID,
		Timestamp:  time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, action, inputs_hash, outcome, task_id, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Action, entry.InputsHash, entry.Outcome, entry.TaskID, entry.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert audit entry: %w", err)
	}
	return entry, nil
}

// ListAudit returns the audit entries for a task, oldest first.
func (s *Store) ListAudit(ctx context.Context, taskID string) ([]models.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, inputs_hash, outcome, task_id, timestamp FROM audit_log WHERE task_id = ? ORDER BY timestamp ASC, rowid ASC`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		var tid sql.NullString
		if err := rows.Scan(&e.ID, &e.Action, &e.InputsHash, &e.Outcome, &tid, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.TaskID = tid.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
