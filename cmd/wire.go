package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnpath/internal/dashboard"
	"github.com/abhisek/learnpath/internal/files"
	"github.com/abhisek/learnpath/internal/llm"
	"github.com/abhisek/learnpath/internal/notify"
	"github.com/abhisek/learnpath/internal/quiz"
	"github.com/abhisek/learnpath/internal/roadmap"
	"github.com/abhisek/learnpath/internal/store"
	"github.com/abhisek/learnpath/internal/tasks"
)

// app holds the store and the services built on it for one command run.
type app struct {
	store     *store.Store
	quiz      *quiz.Service
	assigner  *tasks.Assigner
	tasks     *tasks.Service
	dashboard *dashboard.Service
	closers   []io.Closer
}

// openApp opens the database and wires the services. LLM, notification and
// upload backends that fail to initialize are reported and left disabled.
func openApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &app{store: st}

	var (
		roadmapGen roadmap.Generator
		describer  tasks.DescriptionGenerator
	)
	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	switch {
	case err != nil:
		warn("LLM provider not configured: %v; using built-in roadmap and task text", err)
	case provider != nil:
		roadmapGen = roadmap.NewLLMGenerator(provider, roadmap.DefaultConfig())
		describer = tasks.NewLLMDescriber(provider, tasks.ConfigFromEnv())
	}

	var notifier notify.Notifier
	n, closer, err := notify.New(notify.ConfigFromEnv())
	switch {
	case err != nil:
		warn("notifications disabled: %v", err)
	case n == nil:
		warn("no SMTP or AMQP configured; notifications will not be sent")
		a.closers = append(a.closers, closer)
	default:
		notifier = n
		a.closers = append(a.closers, closer)
	}

	var fs files.Store
	if s, err := files.New(ctx, files.ConfigFromEnv()); err != nil {
		warn("file uploads disabled: %v", err)
	} else {
		fs = s
	}

	users, taskRepo, quizzes := st.UserRepo(), st.TaskRepo(), st.QuizRepo()
	a.quiz = quiz.NewService(users, quizzes, roadmapGen)
	a.assigner = tasks.NewAssigner(users, taskRepo, quizzes, describer, notifier, tasks.ConfigFromEnv())
	a.tasks = tasks.NewService(users, taskRepo, notifier, fs)
	a.dashboard = dashboard.NewService(users, taskRepo, quizzes)
	return a, nil
}

func (a *app) Close() error {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			warn("close: %v", err)
		}
	}
	return a.store.Close()
}

// resolveUser looks a user up by email when ref contains "@", otherwise by
// ID.
func (a *app) resolveUser(ctx context.Context, ref string) (*store.User, error) {
	if ref == "" {
		return nil, fmt.Errorf("--user is required")
	}
	users := a.store.UserRepo()
	var (
		u   *store.User
		err error
	)
	if strings.Contains(ref, "@") {
		u, err = users.GetByEmail(ctx, ref)
	} else {
		u, err = users.Get(ctx, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", ref, err)
	}
	return u, nil
}
