package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fentz26/tasklist/internal/apiclient"
	"github.com/fentz26/tasklist/internal/models"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks without the TUI",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new task",
	Args:  cobra.NoArgs,
	RunE:  runTaskAdd,
}

var taskEditCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Change a task's title, status or description",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskEdit,
}

var taskRmCmd = &cobra.Command{
	Use:     "rm [task-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskRm,
}

var (
	taskTitle  string
	taskDesc   string
	taskStatus string

	editTitle  string
	editDesc   string
	editStatus string

	listJSON  bool
	assumeYes bool
)

func init() {
	taskCmd.AddCommand(taskListCmd, taskAddCmd, taskEditCmd, taskRmCmd)

	taskListCmd.Flags().BoolVar(&listJSON, "json", false, "Print tasks as JSON")

	taskAddCmd.Flags().StringVar(&taskTitle, "title", "", "Task title (required)")
	taskAddCmd.Flags().StringVar(&taskDesc, "desc", "", "Task description")
	taskAddCmd.Flags().StringVar(&taskStatus, "status", string(models.DefaultStatus), "Task status")
	taskAddCmd.MarkFlagRequired("title")

	taskEditCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	taskEditCmd.Flags().StringVar(&editDesc, "desc", "", "New description")
	taskEditCmd.Flags().StringVar(&editStatus, "status", "", "New status")

	taskRmCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Delete without asking")
}

func newClient() *apiclient.Client {
	return apiclient.New(cfg.API.URL)
}

func runTaskList(cmd *cobra.Command, args []string) error {
	tasks, err := newClient().ListTasks(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(models.TaskList{Tasks: tasks})
	}

	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found")
		return nil
	}
	return writeTasks(out, tasks)
}

// writeTasks prints a table of tasks.
func writeTasks(out io.Writer, tasks []models.Task) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tDESCRIPTION")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.TaskID, truncate(t.Title, 40), t.Status, truncate(t.Description, 50))
	}
	return w.Flush()
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	task, err := newClient().CreateTask(cmd.Context(), models.Draft{
		Title:       taskTitle,
		Status:      models.TaskStatus(taskStatus),
		Description: taskDesc,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created task: %s\n", task.TaskID)
	return nil
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("title") && !flags.Changed("desc") && !flags.Changed("status") {
		return fmt.Errorf("nothing to change: set --title, --desc or --status")
	}

	client := newClient()
	tasks, err := client.ListTasks(cmd.Context())
	if err != nil {
		return err
	}
	task, ok := findTask(tasks, args[0])
	if !ok {
		return fmt.Errorf("task %s not found", args[0])
	}

	if flags.Changed("title") {
		task.Title = editTitle
	}
	if flags.Changed("desc") {
		task.Description = editDesc
	}
	if flags.Changed("status") {
		task.Status = models.TaskStatus(editStatus)
	}

	updated, err := client.UpdateTask(cmd.Context(), task)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s: %s [%s]\n", updated.TaskID, updated.Title, updated.Status)
	return nil
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	if !assumeYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure you want to delete this task?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
	}

	if err := newClient().DeleteTask(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
	return nil
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func findTask(tasks []models.Task, id string) (models.Task, bool) {
	for _, t := range tasks {
		if t.TaskID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
