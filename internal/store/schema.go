package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// UsersColumns holds the columns for the "users" table.
	UsersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "name", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// UsersTable holds the schema information for the "users" table.
	UsersTable = &schema.Table{
		Name:       "users",
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}

	// QuizSubmissionsColumns holds the columns for the "quiz_submissions" table.
	QuizSubmissionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "answers", Type: field.TypeJSON},
		{Name: "score", Type: field.TypeInt},
		{Name: "level", Type: field.TypeString},
		{Name: "roadmap", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
	}
	// QuizSubmissionsTable holds the schema information for the "quiz_submissions" table.
	QuizSubmissionsTable = &schema.Table{
		Name:       "quiz_submissions",
		Columns:    QuizSubmissionsColumns,
		PrimaryKey: []*schema.Column{QuizSubmissionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quiz_submissions_users_submissions",
				Columns:    []*schema.Column{QuizSubmissionsColumns[1]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "quizsubmission_user_id_created_at",
				Unique:  false,
				Columns: []*schema.Column{QuizSubmissionsColumns[1], QuizSubmissionsColumns[6]},
			},
		},
	}

	// TasksColumns holds the columns for the "tasks" table.
	TasksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "number", Type: field.TypeInt},
		{Name: "description", Type: field.TypeString, Size: 2147483647},
		{Name: "status", Type: field.TypeString, Default: "assigned"},
		{Name: "assigned_at", Type: field.TypeTime},
		{Name: "due_date", Type: field.TypeTime},
		{Name: "file_url", Type: field.TypeString, Nullable: true},
		{Name: "submission_content", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "submitted_at", Type: field.TypeTime, Nullable: true},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
	}
	// TasksTable holds the schema information for the "tasks" table.
	TasksTable = &schema.Table{
		Name:       "tasks",
		Columns:    TasksColumns,
		PrimaryKey: []*schema.Column{TasksColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "tasks_users_tasks",
				Columns:    []*schema.Column{TasksColumns[1]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "task_user_id_number",
				Unique:  true,
				Columns: []*schema.Column{TasksColumns[1], TasksColumns[2]},
			},
		},
	}

	// TaskCountersColumns holds the columns for the "task_counters" table.
	TaskCountersColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString, Unique: true},
		{Name: "last_number", Type: field.TypeInt, Default: 0},
	}
	// TaskCountersTable holds the last allocated task number per user.
	TaskCountersTable = &schema.Table{
		Name:       "task_counters",
		Columns:    TaskCountersColumns,
		PrimaryKey: []*schema.Column{TaskCountersColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "task_counters_users_counter",
				Columns:    []*schema.Column{TaskCountersColumns[0]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Nullable: true},
		{Name: "request_body", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "response_body", Type: field.TypeString, Nullable: true, Size: 2147483647},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Unique:  false,
				Columns: []*schema.Column{LlmRequestEventsColumns[4]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		UsersTable,
		QuizSubmissionsTable,
		TasksTable,
		TaskCountersTable,
		LlmRequestEventsTable,
	}
)

func init() {
	QuizSubmissionsTable.ForeignKeys[0].RefTable = UsersTable
	TasksTable.ForeignKeys[0].RefTable = UsersTable
	TaskCountersTable.ForeignKeys[0].RefTable = UsersTable
}
