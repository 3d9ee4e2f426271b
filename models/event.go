package models

// SyncEventType classifies events emitted to sync listeners.
type SyncEventType string

const (
	SyncEventPull  SyncEventType = "pull"
	SyncEventPush  SyncEventType = "push"
	SyncEventError SyncEventType = "error"
)

// SyncEvent is delivered to registered listeners (typically the UI layer)
// after a sync pass completes or a task exhausts its retries.
type SyncEvent struct {
	Type       SyncEventType
	EntityType EntityType
	Changes    *SyncDelta
	Err        error
}
