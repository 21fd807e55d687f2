package server

import (
	"context"
	"log/slog"

	"github.com/fentz26/tasklist/internal/audit"
	"github.com/fentz26/tasklist/internal/models"
	"github.com/fentz26/tasklist/internal/store"
)

// Service provides the task API business logic.
type Service struct {
	store  *store.Store
	audit  *audit.Writer
	logger *slog.Logger
}

// NewService creates a new task service.
func NewService(s *store.Store, w *audit.Writer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  s,
		audit:  w,
		logger: logger,
	}
}

// ListTasks returns every task in creation order.
func (s *Service) ListTasks(ctx context.Context) ([]models.Task, error) {
	return s.store.ListTasks(ctx)
}

// CreateTask persists a draft and assigns it an ID.
func (s *Service) CreateTask(ctx context.Context, draft models.Draft) (*models.Task, error) {
	task, err := s.store.CreateTask(ctx, draft)
	if err != nil {
		return nil, err
	}
	s.record(ctx, "task.create", draft, task.TaskID)
	return task, nil
}

// UpdateTask applies a partial update and returns the full stored task.
// An empty patch returns the task unchanged.
func (s *Service) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	if patch.Empty() {
		return s.store.GetTask(ctx, id)
	}
	task, err := s.store.UpdateTask(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.record(ctx, "task.update", patch, id)
	return task, nil
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "task.delete", map[string]string{"taskId": id}, id)
	return nil
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// record writes an audit entry. A failed write is logged and does not undo
// the mutation it describes.
func (s *Service) record(ctx context.Context, action string, inputs interface{}, taskID string) {
	if s.audit == nil {
		return
	}
	if _, err := s.audit.Record(ctx, action, inputs, "success", taskID); err != nil {
		s.logger.Warn("audit write failed", "action", action, "task_id", taskID, "error", err)
	}
}
