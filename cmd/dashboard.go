package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show progress for one learner or all of them",
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, _ := cmd.Flags().GetString("user")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()

		if ref == "" {
			rows, err := a.dashboard.Overview(ctx)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("No users yet.")
				return nil
			}
			fmt.Printf("%-20s  %-30s  %-12s  %5s  %8s  %9s\n", "Name", "Email", "Level", "Score", "Assigned", "Completed")
			fmt.Println(strings.Repeat("─", 95))
			for _, r := range rows {
				level, score := "-", "-"
				if r.Score != nil {
					level, score = r.Level, fmt.Sprintf("%d/10", *r.Score)
				}
				fmt.Printf("%-20s  %-30s  %-12s  %5s  %8d  %9d\n",
					truncate(r.User.Name, 20), truncate(r.User.Email, 30), level, score, r.TasksAssigned, r.TasksCompleted)
			}
			return nil
		}

		u, err := a.resolveUser(ctx, ref)
		if err != nil {
			return err
		}
		sum, err := a.dashboard.Get(ctx, u.ID)
		if err != nil {
			return err
		}

		fmt.Printf("Name:      %s\n", sum.User.Name)
		fmt.Printf("Email:     %s\n", sum.User.Email)
		if sum.LatestQuiz != nil {
			fmt.Printf("Quiz:      %d/10 (%s)\n", sum.LatestQuiz.Score, sum.LatestQuiz.Level)
		} else {
			fmt.Println("Quiz:      not taken")
		}
		fmt.Printf("Tasks:     %d assigned, %d completed\n", sum.TasksAssigned, sum.TasksCompleted)
		if len(sum.Tasks) > 0 {
			fmt.Println()
			printTasks(sum.Tasks)
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringP("user", "u", "", "User ID or email (omit for all users)")
}
