package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnpath/internal/store"
	"github.com/abhisek/learnpath/internal/tasks"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Assign and track learning tasks",
}

var taskAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign the learner's next task",
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, _ := cmd.Flags().GetString("user")
		weeks, _ := cmd.Flags().GetInt("weeks")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := a.resolveUser(cmd.Context(), ref)
		if err != nil {
			return err
		}
		res, err := a.assigner.Assign(cmd.Context(), u.ID, weeks)
		if err != nil {
			return err
		}
		fmt.Print(tasks.FormatAssignment(res))
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the learner's tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, _ := cmd.Flags().GetString("user")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := a.resolveUser(cmd.Context(), ref)
		if err != nil {
			return err
		}
		list, err := a.tasks.List(cmd.Context(), u.ID)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No tasks yet.")
			return nil
		}
		printTasks(list)
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show one task in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.tasks.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printTask(t)
		return nil
	},
}

var taskAttachCmd = &cobra.Command{
	Use:   "attach <task-id> <file>",
	Short: "Upload a file and attach it to a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return err
		}

		contentType := mime.TypeByExtension(filepath.Ext(args[1]))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		t, err := a.tasks.Upload(cmd.Context(), args[0], filepath.Base(args[1]), f, info.Size(), contentType)
		if err != nil {
			return err
		}
		fmt.Printf("Attached %s to task #%d\n", t.FileURL, t.Number)
		return nil
	},
}

var taskSubmitCmd = &cobra.Command{
	Use:   "submit <task-id>",
	Short: "Submit work for a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, _ := cmd.Flags().GetString("content")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.tasks.Submit(cmd.Context(), args[0], content)
		if err != nil {
			return err
		}
		fmt.Printf("Task #%d submitted.\n", t.Number)
		return nil
	},
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, _ := cmd.Flags().GetString("content")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.tasks.MarkCompleted(cmd.Context(), args[0], content)
		if err != nil {
			return err
		}
		fmt.Printf("Task #%d completed on %s.\n", t.Number, t.CompletedAt.Local().Format("2006-01-02"))
		return nil
	},
}

func printTasks(list []store.Task) {
	fmt.Printf("%-4s  %-36s  %-10s  %-10s  %-10s  %s\n", "#", "ID", "Status", "Assigned", "Due", "File")
	fmt.Println(strings.Repeat("─", 100))
	for _, t := range list {
		fmt.Printf("%-4d  %-36s  %-10s  %-10s  %-10s  %s\n",
			t.Number, t.ID, t.Status,
			t.AssignedAt.Local().Format("2006-01-02"),
			t.DueDate.Local().Format("2006-01-02"),
			truncate(t.FileURL, 30))
	}
}

func printTask(t *store.Task) {
	fmt.Printf("Task:      #%d\n", t.Number)
	fmt.Printf("ID:        %s\n", t.ID)
	fmt.Printf("Status:    %s\n", t.Status)
	fmt.Printf("Assigned:  %s\n", t.AssignedAt.Local().Format("2006-01-02 15:04"))
	fmt.Printf("Due:       %s\n", t.DueDate.Local().Format("2006-01-02 15:04"))
	if t.FileURL != "" {
		fmt.Printf("File:      %s\n", t.FileURL)
	}
	if t.SubmittedAt != nil {
		fmt.Printf("Submitted: %s\n", t.SubmittedAt.Local().Format("2006-01-02 15:04"))
	}
	if t.CompletedAt != nil {
		fmt.Printf("Completed: %s\n", t.CompletedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Println()
	fmt.Println(t.Description)
	if t.SubmissionContent != "" {
		fmt.Println()
		fmt.Println("Submission:")
		fmt.Println(t.SubmissionContent)
	}
}

func init() {
	taskAssignCmd.Flags().StringP("user", "u", "", "User ID or email")
	taskAssignCmd.Flags().IntP("weeks", "w", 0, "Weeks until the task is due (0 uses the default)")
	taskListCmd.Flags().StringP("user", "u", "", "User ID or email")
	taskSubmitCmd.Flags().StringP("content", "c", "", "Submission text")
	taskCompleteCmd.Flags().StringP("content", "c", "", "Final submission text")

	taskCmd.AddCommand(taskAssignCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskAttachCmd)
	taskCmd.AddCommand(taskSubmitCmd)
	taskCmd.AddCommand(taskCompleteCmd)
}
