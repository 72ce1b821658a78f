package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnpath/internal/store"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage learners",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a learner",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		if strings.TrimSpace(name) == "" || !strings.Contains(email, "@") {
			return fmt.Errorf("--name and a valid --email are required")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		users := a.store.UserRepo()
		if _, err := users.GetByEmail(ctx, email); err == nil {
			return fmt.Errorf("email %s is already registered", email)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		u := &store.User{Name: name, Email: email}
		if err := users.Create(ctx, u); err != nil {
			return err
		}
		fmt.Printf("Created user %s (%s)\n", u.ID, u.Email)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered learners",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		users, err := a.store.UserRepo().List(cmd.Context())
		if err != nil {
			return err
		}
		if len(users) == 0 {
			fmt.Println("No users yet. Add one with: learnpath user add --name NAME --email EMAIL")
			return nil
		}

		fmt.Printf("%-36s  %-20s  %-30s  %s\n", "ID", "Name", "Email", "Created")
		fmt.Println(strings.Repeat("─", 100))
		for _, u := range users {
			fmt.Printf("%-36s  %-20s  %-30s  %s\n",
				u.ID, truncate(u.Name, 20), truncate(u.Email, 30), u.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	userAddCmd.Flags().String("name", "", "Learner name")
	userAddCmd.Flags().String("email", "", "Learner email")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
}
