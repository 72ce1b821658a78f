package tasks

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/abhisek/learnpath/internal/notify"
	"github.com/abhisek/learnpath/internal/store"
)

// FormatAssignment renders an assignment for the terminal.
func FormatAssignment(res *AssignResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task #%d assigned (id %s)\n", res.Task.Number, res.Task.ID)
	fmt.Fprintf(&b, "Due: %s\n", res.DueDate.Format(time.DateOnly))
	if res.GeneratedOffline {
		b.WriteString("Description: built-in (no LLM available)\n")
	}
	if res.Notified {
		b.WriteString("Notification: sent\n")
	} else {
		b.WriteString("Notification: not sent\n")
	}
	b.WriteString("\n")
	b.WriteString(res.Description)
	b.WriteString("\n")
	return b.String()
}

var assignmentTmpl = template.Must(template.New("assignment").Parse(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2c3e50;">Hello {{.Name}}!</h2>
    <p>You have been assigned a new learning task based on your quiz performance.</p>
    <div style="background-color: #f8f9fa; border-left: 4px solid #6366f1; padding: 15px; margin: 20px 0; border-radius: 5px;">
      <h3 style="color: #6366f1; margin-top: 0;">Task #{{.Number}}</h3>
      <div style="white-space: pre-line;">{{.Description}}</div>
    </div>
    <p><strong>Due Date:</strong> {{.Due}}</p>
    <p>Good luck with your learning journey!</p>
  </div>
</body>
</html>`))

var completionTmpl = template.Must(template.New("completion").Parse(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2c3e50;">Hello {{.Name}}!</h2>
    <p>Your task has been successfully submitted and recorded.</p>
    <p><strong>Task #{{.Number}}</strong> was completed on {{.Completed}}.</p>
  </div>
</body>
</html>`))

// AssignmentMessage builds the "new task" notification.
func AssignmentMessage(res *AssignResult) (notify.Message, error) {
	var html bytes.Buffer
	err := assignmentTmpl.Execute(&html, map[string]any{
		"Name":        res.User.Name,
		"Number":      res.Task.Number,
		"Description": res.Description,
		"Due":         res.DueDate.Format(time.DateOnly),
	})
	if err != nil {
		return notify.Message{}, err
	}
	return notify.Message{
		Kind:    notify.KindTaskAssigned,
		To:      res.User.Email,
		ToName:  res.User.Name,
		Subject: fmt.Sprintf("New Learning Task #%d - %s", res.Task.Number, res.User.Name),
		Text:    FormatAssignment(res),
		HTML:    html.String(),
		Data: map[string]any{
			"user_id":     res.User.ID,
			"task_id":     res.Task.ID,
			"task_number": res.Task.Number,
			"due_date":    res.DueDate.Format(time.RFC3339),
		},
	}, nil
}

// CompletionMessage builds the completion confirmation.
func CompletionMessage(user *store.User, t *store.Task) (notify.Message, error) {
	completed := ""
	if t.CompletedAt != nil {
		completed = t.CompletedAt.Format(time.DateOnly)
	}
	var html bytes.Buffer
	err := completionTmpl.Execute(&html, map[string]any{
		"Name":      user.Name,
		"Number":    t.Number,
		"Completed": completed,
	})
	if err != nil {
		return notify.Message{}, err
	}
	return notify.Message{
		Kind:    notify.KindTaskCompleted,
		To:      user.Email,
		ToName:  user.Name,
		Subject: "Task Submission Confirmed",
		Text:    fmt.Sprintf("Hello %s! Your task #%d has been successfully submitted and recorded.", user.Name, t.Number),
		HTML:    html.String(),
		Data: map[string]any{
			"user_id":     user.ID,
			"task_id":     t.ID,
			"task_number": t.Number,
		},
	}, nil
}
