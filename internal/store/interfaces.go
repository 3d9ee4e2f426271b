package store

import (
	"context"
	"time"

	"github.com/homekeepapp/go-home-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// EntityStore persists entity collections as whole units keyed by
// (fileKey, homeID). There is no per-row access: callers read the full
// collection, modify it in memory, and write it back. Concurrent writers are
// reconciled by the sync engine's re-read-before-apply step, not by the
// store.
type EntityStore interface {
	// ReadCollection returns the raw JSON payload stored for the key, or
	// (nil, nil) when no collection has been written yet.
	ReadCollection(ctx context.Context, fileKey, homeID string) ([]byte, error)

	// WriteCollection durably replaces the collection stored for the key
	// and notifies change listeners unless suppressed via Silently.
	WriteCollection(ctx context.Context, fileKey, homeID string, payload []byte) error

	// OnChange registers fn to run after every unsuppressed successful
	// write. The returned function unsubscribes the listener.
	OnChange(fn func(fileKey, homeID string)) func()

	// Silently runs fn with change notifications suppressed. The previous
	// suppression state is restored on every exit path, including panics
	// and early returns inside fn.
	Silently(fn func() error) error
}

// CheckpointStore persists per-(home, entity type) sync cursors.
//
// The monotonicity of Checkpoint.LastPulledVersion is enforced by callers:
// every successful pull writes back the checkpoint returned by the server,
// which the server defines to be non-decreasing.
type CheckpointStore interface {
	// Get returns the stored checkpoint for the scope, or a lazily created
	// zero checkpoint (LastPulledVersion = 0) when none exists yet.
	Get(ctx context.Context, homeID string, entityType models.EntityType) (models.Checkpoint, error)

	// Update persists the checkpoint keyed by its composite
	// "homeID:entityType" key.
	Update(ctx context.Context, checkpoint models.Checkpoint) error
}

// StateStore persists small engine state flags that must survive restarts.
type StateStore interface {
	// Enabled reports whether global sync is switched on. Defaults to
	// false when never set.
	Enabled(ctx context.Context) (bool, error)

	// SetEnabled durably flips the global sync switch.
	SetEnabled(ctx context.Context, enabled bool) error

	// LastCleanup returns when the tombstone cleaner last ran for the
	// entity type; the zero time when it never ran.
	LastCleanup(ctx context.Context, entityType models.EntityType) (time.Time, error)

	// SetLastCleanup records a completed cleanup pass for the entity type.
	SetLastCleanup(ctx context.Context, entityType models.EntityType, at time.Time) error
}
