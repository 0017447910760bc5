package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	usageTable  = "usage_records"
	reviewTable = "review_notes"
	eventTable  = "llm_request_events"
)

var (
	usageColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "day", Type: field.TypeString, Comment: "Local calendar day, YYYY-MM-DD"},
		{Name: "count", Type: field.TypeInt, Default: 0},
	}
	usageRecordsTable = &schema.Table{
		Name:       usageTable,
		Columns:    usageColumns,
		PrimaryKey: []*schema.Column{usageColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "usagerecord_user_id_day",
				Unique:  true,
				Columns: []*schema.Column{usageColumns[1], usageColumns[2]},
			},
		},
	}

	reviewColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "category", Type: field.TypeString, Default: ""},
		{Name: "question", Type: field.TypeString, Size: 2147483647},
		{Name: "options", Type: field.TypeString, Size: 2147483647, Comment: "JSON array of option texts"},
		{Name: "answer", Type: field.TypeInt},
		{Name: "explanation", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	reviewNotesTable = &schema.Table{
		Name:       reviewTable,
		Columns:    reviewColumns,
		PrimaryKey: []*schema.Column{reviewColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "reviewnote_user_id_created_at",
				Columns: []*schema.Column{reviewColumns[1], reviewColumns[7]},
			},
		},
	}

	eventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "credential", Type: field.TypeInt, Default: 0, Comment: "1-based slot in the shuffled credential order"},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	llmRequestEventsTable = &schema.Table{
		Name:       eventTable,
		Columns:    eventColumns,
		PrimaryKey: []*schema.Column{eventColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Columns: []*schema.Column{eventColumns[3]},
			},
		},
	}

	tables = []*schema.Table{
		usageRecordsTable,
		reviewNotesTable,
		llmRequestEventsTable,
	}
)
