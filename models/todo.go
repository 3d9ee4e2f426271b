package models

import "time"

// Todo is a household task, optionally tied to a due date and an assignee.
type Todo struct {
	SyncMeta

	Title    string     `json:"title"`
	Notes    string     `json:"notes,omitempty"`
	DueAt    *time.Time `json:"due_at,omitempty"`
	Done     bool       `json:"done"`
	Assignee string     `json:"assignee,omitempty"`
}

func (t *Todo) Meta() *SyncMeta        { return &t.SyncMeta }
func (t *Todo) EntityType() EntityType { return EntityTypeTodo }
