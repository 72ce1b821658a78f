package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/learnpath/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "learnpath",
	Short: "Placement quiz, learning roadmap and task tracker",
	Long: "learnpath scores a 10-question placement quiz, turns the result into a learning roadmap, " +
		"and assigns follow-up tasks with due dates.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnv(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LEARNPATH_DB env var)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Load environment variables from this file if it exists")

	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// loadEnv reads the env file without overriding variables already set. A
// missing file is not an error.
func loadEnv(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("env-file")
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then LEARNPATH_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}
