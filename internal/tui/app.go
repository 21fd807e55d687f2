// Package tui provides the interactive terminal UI for tasklist.
package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/tasklist/internal/models"
)

const confirmDeletePrompt = "Are you sure you want to delete this task?"

// TaskAPI is the remote task collection the App synchronizes with.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, draft models.Draft) (*models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
}

// App is the main TUI application model. It owns the task collection and
// the modal editing workflow.
type App struct {
	api      TaskAPI
	logger   *slog.Logger
	endpoint string

	board    *Board
	form     *Form
	selected int
	// pendingDelete is the row awaiting a yes/no answer
	pendingDelete *Action

	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	width    int
	height   int
	loading  bool
}

// New creates a new TUI application. endpoint is only shown in the header.
func New(api TaskAPI, endpoint string, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		api:      api,
		logger:   logger,
		endpoint: endpoint,
		board:    NewBoard(),
		form:     NewForm(),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.loadTasks()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.form.SetWidth(min(msg.Width-4, 72))
		a.viewport.Width = msg.Width
		a.viewport.Height = max(msg.Height-4, 3)
		a.syncViewport()
		return a, nil

	case tasksLoadedMsg:
		a.loading = false
		a.board.Load(msg.tasks)
		a.clampSelection()
		a.syncViewport()
		return a, nil

	case taskCreatedMsg:
		a.board.Append(msg.task)
		a.form.Close()
		a.syncViewport()
		return a, nil

	case taskUpdatedMsg:
		a.board.Replace(msg.task)
		a.form.Close()
		a.syncViewport()
		return a, nil

	case taskDeletedMsg:
		a.board.Remove(msg.taskID)
		a.clampSelection()
		a.syncViewport()
		return a, nil

	case apiFailedMsg:
		// already logged where the call failed; state stays as it was
		if msg.op == opList {
			a.loading = false
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch {
		case a.pendingDelete != nil:
			return a, a.updateConfirm(msg)
		case a.form.IsOpen():
			return a, a.updateForm(msg)
		default:
			return a, a.updateList(msg)
		}
	}

	if a.form.IsOpen() {
		return a, a.form.Update(msg)
	}
	return a, nil
}

func (a *App) updateList(msg tea.KeyMsg) tea.Cmd {
	if act, ok := a.actionFor(msg); ok {
		return a.dispatch(act)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.Up):
		if a.selected > 0 {
			a.selected--
			a.syncViewport()
		}
	case key.Matches(msg, a.keys.Down):
		if a.selected < a.board.Len()-1 {
			a.selected++
			a.syncViewport()
		}
	case key.Matches(msg, a.keys.New):
		return a.form.OpenCreate()
	case key.Matches(msg, a.keys.Refresh):
		return a.loadTasks()
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	}
	return nil
}

func (a *App) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Close):
		a.form.Close()
		return nil
	case key.Matches(msg, a.keys.Submit):
		return a.submit()
	}
	return a.form.Update(msg)
}

func (a *App) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Confirm):
		act := *a.pendingDelete
		a.pendingDelete = nil
		return a.deleteTask(act.TaskID)
	case key.Matches(msg, a.keys.Decline):
		a.pendingDelete = nil
	}
	return nil
}

// actionFor resolves a key press on the list to a row control. The row is
// identified only by the task ID it is tagged with.
func (a *App) actionFor(msg tea.KeyMsg) (Action, bool) {
	var kind ActionKind
	switch {
	case key.Matches(msg, a.keys.Edit):
		kind = ActionEdit
	case key.Matches(msg, a.keys.Delete):
		kind = ActionDelete
	default:
		return Action{}, false
	}

	task, ok := a.board.At(a.selected)
	if !ok {
		return Action{}, false
	}
	return Action{Kind: kind, TaskID: task.TaskID}, true
}

// dispatch routes a row action to its handler.
func (a *App) dispatch(act Action) tea.Cmd {
	switch act.Kind {
	case ActionEdit:
		task, ok := a.board.Find(act.TaskID)
		if !ok {
			return nil
		}
		return a.form.OpenEdit(task)
	case ActionDelete:
		a.pendingDelete = &act
	}
	return nil
}

// submit routes the form by its hidden ID: empty creates, set updates.
func (a *App) submit() tea.Cmd {
	sub := a.form.Submission()
	if sub.IsUpdate() {
		return a.updateTask(sub.Task())
	}
	return a.createTask(sub.Draft)
}

// --- API commands ---

type apiOp string

const (
	opList   apiOp = "list"
	opCreate apiOp = "create"
	opUpdate apiOp = "update"
	opDelete apiOp = "delete"
)

type tasksLoadedMsg struct {
	tasks []models.Task
}

type taskCreatedMsg struct {
	task models.Task
}

type taskUpdatedMsg struct {
	task models.Task
}

type taskDeletedMsg struct {
	taskID string
}

type apiFailedMsg struct {
	op  apiOp
	err error
}

func (a *App) loadTasks() tea.Cmd {
	a.loading = true
	return func() tea.Msg {
		tasks, err := a.api.ListTasks(context.Background())
		if err != nil {
			a.logger.Error("Error loading tasks", "error", err)
			return apiFailedMsg{opList, err}
		}
		return tasksLoadedMsg{tasks}
	}
}

func (a *App) createTask(draft models.Draft) tea.Cmd {
	return func() tea.Msg {
		task, err := a.api.CreateTask(context.Background(), draft)
		if err != nil {
			a.logger.Error("Error creating task", "error", err)
			return apiFailedMsg{opCreate, err}
		}
		return taskCreatedMsg{*task}
	}
}

func (a *App) updateTask(task models.Task) tea.Cmd {
	return func() tea.Msg {
		updated, err := a.api.UpdateTask(context.Background(), task)
		if err != nil {
			a.logger.Error("Error updating task", "task_id", task.TaskID, "error", err)
			return apiFailedMsg{opUpdate, err}
		}
		return taskUpdatedMsg{*updated}
	}
}

func (a *App) deleteTask(taskID string) tea.Cmd {
	return func() tea.Msg {
		if err := a.api.DeleteTask(context.Background(), taskID); err != nil {
			a.logger.Error("Error deleting task", "task_id", taskID, "error", err)
			return apiFailedMsg{opDelete, err}
		}
		return taskDeletedMsg{taskID}
	}
}

// --- View ---

// View implements tea.Model
func (a *App) View() string {
	if a.form.IsOpen() {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.form.View())
	}

	var b strings.Builder

	header := titleStyle.Render("Task List")
	if a.endpoint != "" {
		header += "  " + helpStyle.Render(a.endpoint)
	}
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", max(a.width, 1)) + "\n")

	if a.loading && a.board.Len() == 0 {
		b.WriteString("\n  Loading tasks...\n")
	} else {
		b.WriteString(a.viewport.View() + "\n")
	}

	if a.pendingDelete != nil {
		b.WriteString(confirmStyle.Render(confirmDeletePrompt+" (y/n)") + "\n")
	} else {
		b.WriteString(statusBarStyle.Width(a.width).Render(a.help.View(a.keys)))
	}

	return b.String()
}

// syncViewport re-renders the list into the viewport and keeps the selected
// row visible.
func (a *App) syncViewport() {
	a.viewport.SetContent(RenderTasks(a.board.Tasks(), a.selected, a.width))

	top := a.selected * rowHeight
	switch {
	case top < a.viewport.YOffset:
		a.viewport.SetYOffset(top)
	case top+rowHeight > a.viewport.YOffset+a.viewport.Height:
		a.viewport.SetYOffset(top + rowHeight - a.viewport.Height)
	}
}

func (a *App) clampSelection() {
	if a.selected >= a.board.Len() {
		a.selected = max(0, a.board.Len()-1)
	}
}
