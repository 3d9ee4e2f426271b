package models

import (
	"fmt"
	"time"
)

// SyncOperation is the kind of work a queued task performs.
type SyncOperation string

const (
	OpPull SyncOperation = "pull"
	OpPush SyncOperation = "push"
	OpFull SyncOperation = "full"
)

// TaskPriority orders queued tasks. High-priority tasks are inserted at the
// front of the queue; normal and low are appended.
type TaskPriority int

const (
	PriorityLow TaskPriority = iota
	PriorityNormal
	PriorityHigh
)

// SyncTask is a unit of queued sync work. Tasks are transient: they exist
// only in the scheduler's in-memory queue and are never persisted.
type SyncTask struct {
	EntityType EntityType
	Operation  SyncOperation
	Priority   TaskPriority
	HomeID     string
	EnqueuedAt time.Time
	RetryCount int
	MaxRetries int

	// NotBefore gates execution after a retryable failure: the worker does
	// not start the task before this instant.
	NotBefore time.Time
}

// Key identifies a task for deduplication and in-flight tracking.
func (t *SyncTask) Key() string {
	return fmt.Sprintf("%s:%s", t.EntityType, t.Operation)
}
