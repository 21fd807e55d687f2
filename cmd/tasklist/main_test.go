package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fentz26/tasklist/internal/audit"
	"github.com/fentz26/tasklist/internal/models"
	"github.com/fentz26/tasklist/internal/server"
	"github.com/fentz26/tasklist/internal/store"
)

func TestServeArgs(t *testing.T) {
	tests := []struct {
		name    string
		apiURL  string
		want    []string
		wantErr bool
	}{
		{"default", "http://127.0.0.1:7467/tasks", []string{"serve", "--listen", "127.0.0.1:7467", "--base-path", "/tasks"}, false},
		{"localhost no path", "http://localhost:9000", []string{"serve", "--listen", "localhost:9000"}, false},
		{"no port", "http://127.0.0.1/todo", []string{"serve", "--listen", "127.0.0.1:80", "--base-path", "/todo"}, false},
		{"remote host", "http://tasks.example.com/tasks", nil, true},
		{"https", "https://127.0.0.1:7467/tasks", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := serveArgs(tt.apiURL)
			if (err != nil) != tt.wantErr {
				t.Fatalf("serveArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("serveArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHealthURL(t *testing.T) {
	got, err := healthURL("http://127.0.0.1:7467/tasks?x=1")
	if err != nil {
		t.Fatalf("healthURL failed: %v", err)
	}
	if got != "http://127.0.0.1:7467/health" {
		t.Errorf("healthURL = %q", got)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes ", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := confirm(strings.NewReader(tt.input), &out, "Delete?")
		if err != nil {
			t.Fatalf("confirm(%q) failed: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Delete? [y/N]") {
			t.Errorf("prompt not written, got %q", out.String())
		}
	}
}

func TestWriteTasks(t *testing.T) {
	var out bytes.Buffer
	tasks := []models.Task{
		{TaskID: "1", Title: "Buy milk", Status: models.TaskStatusPending, Description: "2 litres\nsemi-skimmed"},
	}
	if err := writeTasks(&out, tasks); err != nil {
		t.Fatalf("writeTasks failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header and one row, got %q", out.String())
	}
	if !strings.Contains(lines[1], "2 litres semi-skimmed") {
		t.Errorf("description should be flattened to one line, got %q", lines[1])
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTaskCommands(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := server.NewService(st, audit.NewWriter(st), logger)
	srv := httptest.NewServer(server.NewServer(svc, "", "", logger).Handler())
	t.Cleanup(srv.Close)
	api := srv.URL + server.DefaultBasePath
	ctx := context.Background()

	out, err := execute(t, "", "--api", api, "task", "add", "--title", "Buy milk", "--desc", "2 litres")
	if err != nil {
		t.Fatalf("task add failed: %v", err)
	}
	tasks, _ := st.ListTasks(ctx)
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 stored task, got %d", len(tasks))
	}
	id := tasks[0].TaskID
	if tasks[0].Status != models.DefaultStatus {
		t.Errorf("status = %q, want default", tasks[0].Status)
	}
	if !strings.Contains(out, "Created task: "+id) {
		t.Errorf("unexpected add output %q", out)
	}

	out, err = execute(t, "", "--api", api, "task", "list")
	if err != nil {
		t.Fatalf("task list failed: %v", err)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "Buy milk") {
		t.Errorf("list output missing task: %q", out)
	}

	if _, err := execute(t, "", "--api", api, "task", "edit", id, "--status", "Done"); err != nil {
		t.Fatalf("task edit failed: %v", err)
	}
	got, _ := st.GetTask(ctx, id)
	want := models.Task{TaskID: id, Title: "Buy milk", Status: models.TaskStatusDone, Description: "2 litres"}
	if *got != want {
		t.Errorf("after edit = %+v, want %+v", got, want)
	}

	out, err = execute(t, "", "--api", api, "task", "list", "--json")
	if err != nil {
		t.Fatalf("task list --json failed: %v", err)
	}
	var list models.TaskList
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("list --json is not JSON: %v\n%s", err, out)
	}
	if len(list.Tasks) != 1 || list.Tasks[0] != want {
		t.Errorf("list --json = %+v", list.Tasks)
	}

	out, err = execute(t, "n\n", "--api", api, "task", "rm", id)
	if err != nil {
		t.Fatalf("declined rm failed: %v", err)
	}
	if !strings.Contains(out, "Cancelled") {
		t.Errorf("unexpected rm output %q", out)
	}
	if _, err := st.GetTask(ctx, id); err != nil {
		t.Errorf("declined rm deleted the task: %v", err)
	}

	if _, err := execute(t, "", "--api", api, "task", "rm", "--yes", id); err != nil {
		t.Fatalf("task rm failed: %v", err)
	}
	if _, err := st.GetTask(ctx, id); !errors.Is(err, store.ErrTaskNotFound) {
		t.Errorf("Expected task deleted, got %v", err)
	}

	if _, err := execute(t, "", "--api", api, "task", "rm", "--yes", id); err == nil {
		t.Error("Expected error deleting a missing task")
	}
}

func TestAPIFlagOverridesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if _, err := execute(t, "", "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}

	out, err := execute(t, "", "--config", path, "--api", "http://127.0.0.1:9999/todo", "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "url: http://127.0.0.1:9999/todo") {
		t.Errorf("--api did not reach the resolved config: %q", out)
	}
	if cfg.API.URL != "http://127.0.0.1:9999/todo" {
		t.Errorf("cfg.API.URL = %q", cfg.API.URL)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "", "--config", path, "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("unexpected output %q", out)
	}
	if _, err := execute(t, "", "--config", path, "config", "init"); err == nil {
		t.Error("Expected error when config already exists")
	}

	out, err = execute(t, "", "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "base_path: /tasks") {
		t.Errorf("config show missing server settings: %q", out)
	}
}

// execute runs the root command with a throwaway config file unless args
// name one.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader(stdin))

	full := args
	if !containsFlag(args, "--config") {
		full = append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...)
	}
	rootCmd.SetArgs(full)

	err := rootCmd.Execute()
	return buf.String(), err
}

func containsFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name {
			return true
		}
	}
	return false
}
