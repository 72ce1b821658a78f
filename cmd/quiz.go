package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnpath/internal/quiztui"
	"github.com/abhisek/learnpath/internal/roadmap"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take the placement quiz and get a learning roadmap",
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, _ := cmd.Flags().GetString("user")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if ref == "" {
			ref, err = quiztui.Ask(ctx, "Who is taking the quiz?", "you@example.com", quiztui.ValidateEmail)
			if errors.Is(err, quiztui.ErrAborted) {
				return nil
			}
			if err != nil {
				return err
			}
		}
		u, err := a.resolveUser(ctx, ref)
		if err != nil {
			return err
		}

		answers, err := quiztui.Run(ctx)
		if errors.Is(err, quiztui.ErrAborted) {
			fmt.Println("Quiz aborted; nothing was saved.")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Println("Scoring and building your roadmap...")
		out, err := a.quiz.Submit(ctx, u.ID, answers)
		if err != nil {
			return err
		}

		fmt.Printf("\n%s, you scored %d/10. Level: %s\n", u.Name, out.Result.Score, out.Result.Level)
		if out.GeneratedOffline {
			warn("roadmap generated offline")
		}
		fmt.Println(roadmap.RenderStyled(out.Document, out.Submission.Roadmap))
		return nil
	},
}

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Show the learner's latest roadmap",
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, _ := cmd.Flags().GetString("user")
		plain, _ := cmd.Flags().GetBool("plain")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		u, err := a.resolveUser(ctx, ref)
		if err != nil {
			return err
		}
		sub, err := a.quiz.Latest(ctx, u.ID)
		if err != nil {
			return err
		}
		if sub == nil {
			fmt.Printf("%s has not taken the quiz yet. Run: learnpath quiz --user %s\n", u.Name, u.Email)
			return nil
		}

		fmt.Printf("%s: %d/10, %s (%s)\n\n", u.Name, sub.Score, sub.Level, sub.CreatedAt.Local().Format("2006-01-02"))
		doc := roadmap.Parse(sub.Roadmap)
		if plain {
			fmt.Println(roadmap.RenderText(doc, sub.Roadmap))
			return nil
		}
		fmt.Println(roadmap.RenderStyled(doc, sub.Roadmap))
		return nil
	},
}

func init() {
	quizCmd.Flags().StringP("user", "u", "", "User ID or email (prompted when empty)")
	roadmapCmd.Flags().StringP("user", "u", "", "User ID or email")
	roadmapCmd.Flags().Bool("plain", false, "Print without terminal styling")
}
