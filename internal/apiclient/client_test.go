package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/fentz26/tasklist/internal/models"
)

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        map[string]interface{}
}

// newRecordingServer answers every request with status and body and records
// what it received.
func newRecordingServer(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method:      r.Method,
			Path:        r.URL.EscapedPath(),
			ContentType: r.Header.Get("Content-Type"),
		}
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			if err := json.Unmarshal(data, &rec.Body); err != nil {
				t.Errorf("request body is not JSON: %s", data)
			}
		}
		reqs = append(reqs, rec)
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func TestListTasks(t *testing.T) {
	srv, reqs := newRecordingServer(t, http.StatusOK,
		`{"tasks":[{"taskId":"1","title":"A","status":"Pending","description":"d"}]}`)
	c := New(srv.URL + "/tasks")

	tasks, err := c.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}

	want := []models.Task{{TaskID: "1", Title: "A", Status: models.TaskStatusPending, Description: "d"}}
	if !reflect.DeepEqual(tasks, want) {
		t.Errorf("tasks = %+v, want %+v", tasks, want)
	}
	if got := (*reqs)[0]; got.Method != http.MethodGet || got.Path != "/tasks" {
		t.Errorf("Unexpected request: %+v", got)
	}
}

func TestCreateTask(t *testing.T) {
	srv, reqs := newRecordingServer(t, http.StatusCreated,
		`{"taskId":"2","title":"B","status":"Done","description":"x"}`)
	c := New(srv.URL + "/tasks/")

	task, err := c.CreateTask(context.Background(), models.Draft{Title: "B", Status: "Done", Description: "x"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.TaskID != "2" {
		t.Errorf("Expected taskId 2, got %q", task.TaskID)
	}

	got := (*reqs)[0]
	if got.Method != http.MethodPost || got.Path != "/tasks" {
		t.Errorf("Unexpected request line: %s %s", got.Method, got.Path)
	}
	if got.ContentType != "application/json" {
		t.Errorf("Expected JSON content type, got %q", got.ContentType)
	}
	wantBody := map[string]interface{}{"title": "B", "status": "Done", "description": "x"}
	if !reflect.DeepEqual(got.Body, wantBody) {
		t.Errorf("body = %v, want %v", got.Body, wantBody)
	}
}

func TestUpdateTask(t *testing.T) {
	srv, reqs := newRecordingServer(t, http.StatusOK,
		`{"taskId":"1","title":"A2","status":"Pending","description":"d"}`)
	c := New(srv.URL + "/tasks")

	in := models.Task{TaskID: "1", Title: "A2", Status: models.TaskStatusPending, Description: "d"}
	out, err := c.UpdateTask(context.Background(), in)
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if *out != in {
		t.Errorf("updated = %+v, want %+v", *out, in)
	}

	got := (*reqs)[0]
	if got.Method != http.MethodPut || got.Path != "/tasks/1" {
		t.Errorf("Unexpected request line: %s %s", got.Method, got.Path)
	}
	wantBody := map[string]interface{}{"taskId": "1", "title": "A2", "status": "Pending", "description": "d"}
	if !reflect.DeepEqual(got.Body, wantBody) {
		t.Errorf("body = %v, want %v", got.Body, wantBody)
	}
}

func TestUpdateTask_MissingID(t *testing.T) {
	c := New("http://127.0.0.1:1")
	if _, err := c.UpdateTask(context.Background(), models.Task{Title: "x"}); err == nil {
		t.Error("Expected error for task without ID")
	}
}

func TestDeleteTask(t *testing.T) {
	srv, reqs := newRecordingServer(t, http.StatusOK, `{"message":"ignored"}`)
	c := New(srv.URL + "/tasks")

	if err := c.DeleteTask(context.Background(), "a b"); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	got := (*reqs)[0]
	if got.Method != http.MethodDelete || got.Path != "/tasks/a%20b" {
		t.Errorf("Unexpected request line: %s %s", got.Method, got.Path)
	}
	if got.Body != nil {
		t.Errorf("Expected no request body, got %v", got.Body)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		isAPI  bool
	}{
		{"server error", http.StatusInternalServerError, `{"message":"boom"}`, true},
		{"not found", http.StatusNotFound, `{"message":"Task not found"}`, true},
		{"undecodable body", http.StatusOK, `<html>`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newRecordingServer(t, tt.status, tt.body)
			c := New(srv.URL)

			_, err := c.ListTasks(context.Background())
			if err == nil {
				t.Fatal("Expected error")
			}
			if errors.Is(err, ErrAPI) != tt.isAPI {
				t.Errorf("errors.Is(err, ErrAPI) = %v, want %v (err: %v)", !tt.isAPI, tt.isAPI, err)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url)
	if err := c.DeleteTask(context.Background(), "1"); err == nil {
		t.Error("Expected transport error against closed server")
	}
}
