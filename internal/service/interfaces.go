package service

import (
	"context"

	"github.com/homekeepapp/go-home-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// EntityService is the local CRUD surface the UI layer calls. Every mutation
// is applied to durable storage first and then handed to the sync engine as a
// high-priority push; the UI never waits on the network.
type EntityService interface {
	// Create builds a new entity from user input, persists it with
	// PendingCreate set, and schedules a push.
	Create(ctx context.Context, entityType models.EntityType, input map[string]any) (models.Syncable, error)

	// Update merges a partial field update into the stored entity, bumps its
	// version, and schedules a push. Updating a tombstoned or unknown entity
	// returns ErrEntityNotFound.
	Update(ctx context.Context, entityType models.EntityType, id string, updates map[string]any) (models.Syncable, error)

	// Delete removes the entity. An entity the server never saw is removed
	// outright; a synced entity becomes a tombstone with PendingDelete set.
	// Deleting an already tombstoned entity succeeds without altering its
	// deletion timestamp.
	Delete(ctx context.Context, entityType models.EntityType, id string) error

	// Get returns the live entity or ErrEntityNotFound; tombstones are
	// invisible to reads.
	Get(ctx context.Context, entityType models.EntityType, id string) (models.Syncable, error)

	// List returns every live entity of the type, in storage order.
	List(ctx context.Context, entityType models.EntityType) ([]models.Syncable, error)
}

// Enqueuer schedules sync work; implemented by the sync scheduler.
type Enqueuer interface {
	Enqueue(entityType models.EntityType, op models.SyncOperation, priority models.TaskPriority)
}
