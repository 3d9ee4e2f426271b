package handler

import (
	"context"

	"github.com/homekeepapp/go-home-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/handler_mock.go -package=mock

// SyncController is the slice of the sync scheduler the control API drives.
// Implemented by sync.Scheduler.
type SyncController interface {
	// Enable durably flips sync on and performs one blocking full sync.
	Enable(ctx context.Context) error

	// Disable durably flips sync off and drains in-flight work best effort.
	Disable(ctx context.Context) error

	// Enabled reports the current state of the sync switch.
	Enabled() bool

	// Enqueue requests a sync task; requests dropped by a gate are dropped
	// silently.
	Enqueue(entityType models.EntityType, op models.SyncOperation, priority models.TaskPriority)
}
