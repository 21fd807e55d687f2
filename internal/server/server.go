// Package server provides the HTTP task API and its service layer.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fentz26/tasklist/internal/models"
	"github.com/fentz26/tasklist/internal/store"
	"github.com/go-chi/chi/v5"
)

// Version is reported by the health endpoint. Set at build time via -ldflags.
var Version = "dev"

// DefaultBasePath is where the task routes are mounted.
const DefaultBasePath = "/tasks"

// requiredFields are checked, in order, on create.
var requiredFields = []string{"title", "status", "description"}

// Server provides the HTTP API for tasks.
type Server struct {
	service  *Service
	addr     string
	basePath string
	logger   *slog.Logger
	server   *http.Server
}

// NewServer creates a new HTTP server. An empty or root basePath mounts the
// routes under DefaultBasePath.
func NewServer(service *Service, addr, basePath string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		service:  service,
		addr:     addr,
		basePath: normalizeBasePath(basePath),
		logger:   logger,
	}
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler builds the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(s.logger))
	r.Use(Recovery(s.logger))

	r.Get("/health", s.handleHealth)

	r.Route(s.basePath, func(r chi.Router) {
		r.Get("/", s.listTasks)
		r.Post("/", s.createTask)
		r.Put("/{taskId}", s.updateTask)
		r.Delete("/{taskId}", s.deleteTask)
	})

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("starting task API", "addr", s.addr, "base_path", s.basePath)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	DB      string `json:"db"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		OK:      true,
		DB:      "ok",
		Version: Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK
	if err := s.service.Ping(ctx); err != nil {
		resp.OK = false
		resp.DB = "error: " + err.Error()
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// --- Task Handlers ---

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.service.ListTasks(r.Context())
	if err != nil {
		s.logger.Error("list tasks failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Error retrieving tasks")
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	s.logger.Debug("retrieved tasks", "count", len(tasks))
	writeJSON(w, http.StatusOK, models.TaskList{Tasks: tasks})
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	draft, err := decodeDraft(r.Body)
	if err != nil {
		s.logger.Warn("create task rejected", "error", err)
		var missing *MissingFieldsError
		if errors.As(err, &missing) {
			writeError(w, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing.Fields, ", "))
			return
		}
		writeError(w, http.StatusBadRequest, "Error parsing request body")
		return
	}

	task, err := s.service.CreateTask(r.Context(), draft)
	if err != nil {
		s.logger.Error("create task failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Error saving task")
		return
	}

	s.logger.Info("task created", "task_id", task.TaskID)
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskId")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "Missing or invalid taskId")
		return
	}

	var patch models.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.logger.Warn("update task rejected", "task_id", taskID, "error", err)
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	task, err := s.service.UpdateTask(r.Context(), taskID, patch)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		s.logger.Error("update task failed", "task_id", taskID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error updating task")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskId")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "Missing or invalid taskId")
		return
	}

	if err := s.service.DeleteTask(r.Context(), taskID); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		s.logger.Error("delete task failed", "task_id", taskID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error deleting task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Task with taskId " + taskID + " successfully deleted",
	})
}

// decodeDraft parses a create body. An empty body counts as an empty object.
func decodeDraft(body io.Reader) (models.Draft, error) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&fields); err != nil && !errors.Is(err, io.EOF) {
		return models.Draft{}, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	var missing []string
	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return models.Draft{}, &MissingFieldsError{Fields: missing}
	}

	var draft models.Draft
	for name, dst := range map[string]interface{}{
		"title":       &draft.Title,
		"status":      &draft.Status,
		"description": &draft.Description,
	} {
		if err := json.Unmarshal(fields[name], dst); err != nil {
			return models.Draft{}, fmt.Errorf("%w: %s: %v", ErrInvalidBody, name, err)
		}
	}
	return draft, nil
}

func normalizeBasePath(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p == "" {
		return DefaultBasePath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
