// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HomeKeep Authors

package models

import "time"

// EntityType identifies one of the synchronizable entity kinds managed by the
// client. The set is closed: the sync engine is generic over it, but every
// value must have a registered type adapter.
type EntityType string

const (
	EntityTypeItem     EntityType = "items"
	EntityTypeCategory EntityType = "categories"
	EntityTypeLocation EntityType = "locations"
	EntityTypeTodo     EntityType = "todos"
	EntityTypeSetting  EntityType = "settings"
)

// AllEntityTypes lists every entity type in the order full syncs process them.
func AllEntityTypes() []EntityType {
	return []EntityType{
		EntityTypeItem,
		EntityTypeCategory,
		EntityTypeLocation,
		EntityTypeTodo,
		EntityTypeSetting,
	}
}

// SyncMeta carries the synchronization bookkeeping shared by every entity
// variant. It is embedded into each concrete entity struct.
//
// Invariants maintained by the service and sync layers:
//   - Version starts at 1 and is incremented on every local mutating
//     operation.
//   - PendingCreate stays true only until the entity's first successful push;
//     while it is true a local update does NOT additionally set PendingUpdate
//     (the pending creation push already carries the latest fields).
//   - Deleting a PendingCreate entity removes it from storage outright (it
//     never reached the server); deleting a synced entity stamps DeletedAt
//     and sets PendingDelete.
type SyncMeta struct {
	// ID is the client-generated identifier, globally unique within its
	// entity type.
	ID string `json:"id"`

	// HomeID is the owning scope: every collection is stored and synced per
	// home.
	HomeID string `json:"home_id"`

	// Version is the monotonic local version counter.
	Version int64 `json:"version"`

	// UpdatedAt is the authoritative mutation timestamp.
	UpdatedAt time.Time `json:"updated_at"`

	// ClientUpdatedAt is the client-observed mutation timestamp sent with
	// pushes and used for last-write-wins comparison.
	ClientUpdatedAt time.Time `json:"client_updated_at"`

	// DeletedAt, when non-nil, marks the entity as a tombstone.
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// ServerUpdatedAt is the last server-side mutation timestamp observed
	// for this entity.
	ServerUpdatedAt *time.Time `json:"server_updated_at,omitempty"`

	// LastSyncedAt is when this entity last completed a successful round
	// trip with the server.
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`

	// PendingCreate records a local creation not yet acknowledged by the
	// server.
	PendingCreate bool `json:"pending_create"`

	// PendingUpdate records a local edit not yet acknowledged by the server.
	PendingUpdate bool `json:"pending_update"`

	// PendingDelete records a local soft delete not yet acknowledged by the
	// server.
	PendingDelete bool `json:"pending_delete"`
}

// Syncable is implemented by every entity variant. The sync engine and the
// local CRUD service are written once against this interface plus the
// per-type adapter in internal/registry.
type Syncable interface {
	// Meta returns a pointer to the embedded SyncMeta so callers can mutate
	// sync bookkeeping in place.
	Meta() *SyncMeta

	// EntityType reports which closed-set variant this entity is.
	EntityType() EntityType
}

// HasPending reports whether the entity carries any unsynced local intent.
func (m *SyncMeta) HasPending() bool {
	return m.PendingCreate || m.PendingUpdate || m.PendingDelete
}

// ClearPending drops all three pending flags.
func (m *SyncMeta) ClearPending() {
	m.PendingCreate = false
	m.PendingUpdate = false
	m.PendingDelete = false
}

// IsDeleted reports whether the entity is a tombstone.
func (m *SyncMeta) IsDeleted() bool {
	return m.DeletedAt != nil
}

// LastUpdate returns the later of UpdatedAt and ClientUpdatedAt. Conflict
// resolution compares replicas by this value.
func (m *SyncMeta) LastUpdate() time.Time {
	if m.ClientUpdatedAt.After(m.UpdatedAt) {
		return m.ClientUpdatedAt
	}
	return m.UpdatedAt
}

// Touch records a local mutation: bumps the version and stamps both mutation
// timestamps with now.
func (m *SyncMeta) Touch(now time.Time) {
	m.Version++
	m.UpdatedAt = now
	m.ClientUpdatedAt = now
}
