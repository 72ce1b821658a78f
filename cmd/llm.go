package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnpath/internal/llm"
	"github.com/abhisek/learnpath/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM calls",
}

// withStore opens only the database; the llm commands need no services.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, s *store.Store) error) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()
	return fn(cmd.Context(), s)
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		return withStore(cmd, func(ctx context.Context, s *store.Store) error {
			events, err := s.EventRepo().QueryLLMEvents(ctx, store.QueryOpts{Limit: limit, Purpose: purpose})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if len(events) == 0 {
				fmt.Println("No LLM events found.")
				return nil
			}

			fmt.Printf("%-5s  %-16s  %-16s  %-28s  %6s  %6s  %7s  %s\n",
				"ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
			fmt.Println(strings.Repeat("─", 100))
			for _, e := range events {
				ok := "✓"
				if !e.Success {
					ok = "✗"
				}
				fmt.Printf("%-5d  %-16s  %-16s  %-28s  %6d  %6d  %7d  %s\n",
					e.ID,
					e.Timestamp.Local().Format("2006-01-02 15:04"),
					truncate(e.Purpose, 16),
					truncate(e.Model, 28),
					e.InputTokens, e.OutputTokens, e.LatencyMs, ok)
			}
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		return withStore(cmd, func(ctx context.Context, s *store.Store) error {
			e, err := s.EventRepo().GetLLMEvent(ctx, id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}

			fmt.Printf("ID:        %d\n", e.ID)
			fmt.Printf("Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
			fmt.Printf("Provider:  %s (%s)\n", e.Provider, e.Model)
			fmt.Printf("Purpose:   %s\n", e.Purpose)
			fmt.Printf("Tokens:    %d in / %d out, %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
			if e.ErrorMessage != "" {
				fmt.Printf("Error:     %s\n", e.ErrorMessage)
			}
			printBlock("REQUEST", e.RequestBody)
			printBlock("RESPONSE", e.ResponseBody)
			return nil
		})
	},
}

func printBlock(title, body string) {
	sep := strings.Repeat("─", 60)
	fmt.Printf("\n%s\n%s\n%s\n", sep, title, sep)
	if body == "" {
		body = "(not captured)"
	}
	fmt.Println(body)
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, s *store.Store) error {
			byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			if len(byPurpose) == 0 {
				fmt.Println("No LLM usage recorded yet.")
				return nil
			}
			printPurposeUsage(byPurpose)

			byModel, err := s.EventRepo().LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			if len(byModel) > 0 {
				fmt.Println()
				printModelCost(byModel)
			}
			return nil
		})
	},
}

func printPurposeUsage(rows []store.PurposeUsage) {
	line := strings.Repeat("─", 72)
	fmt.Println("Usage by purpose")
	fmt.Println(line)
	fmt.Printf("%-18s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Avg ms")
	fmt.Println(line)

	var calls, in, out int
	for _, r := range rows {
		fmt.Printf("%-18s  %6d  %10d  %10d  %8d\n", truncate(r.Purpose, 18), r.Calls, r.InputTokens, r.OutputTokens, r.AvgLatencyMs)
		calls += r.Calls
		in += r.InputTokens
		out += r.OutputTokens
	}
	fmt.Println(line)
	fmt.Printf("%-18s  %6d  %10d  %10d\n", "TOTAL", calls, in, out)
}

func printModelCost(rows []store.ModelUsage) {
	line := strings.Repeat("─", 72)
	fmt.Println("Estimated cost (USD)")
	fmt.Println(line)
	fmt.Printf("%-32s  %6s  %10s  %10s  %9s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Println(line)

	var (
		total   float64
		unknown []string
	)
	for _, r := range rows {
		cost := "?"
		if p := llm.LookupCost(r.Model); p != nil {
			c := p.Cost(r.InputTokens, r.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unknown = append(unknown, r.Model)
		}
		fmt.Printf("%-32s  %6d  %10d  %10d  %9s\n", truncate(r.Model, 32), r.Calls, r.InputTokens, r.OutputTokens, cost)
	}
	fmt.Println(line)

	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Printf("%-32s  %6s  %10s  %10s  %9s\n", label, "", "", "", formatCost(total))
	if len(unknown) > 0 {
		fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show this purpose (roadmap, task-description)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
