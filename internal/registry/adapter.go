// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HomeKeep Authors

// Package registry holds the closed set of entity-type adapters the sync
// engine and the CRUD service are generic over. Each syncable entity kind
// (item, category, location, todo, setting) contributes one adapter; the
// engine itself never mentions a concrete entity type.
package registry

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"dario.cat/mergo"
	"github.com/google/uuid"

	"github.com/homekeepapp/go-home-keeper/models"
)

// TypeAdapter is the per-entity-type plugin contract. Implementations are
// stateless and safe for concurrent use.
type TypeAdapter interface {
	// Type reports which entity kind this adapter serves.
	Type() models.EntityType

	// FileKey is the storage key the entity collection is persisted under.
	FileKey() string

	// GenerateID mints a new globally unique client-side id.
	GenerateID() string

	// DecodeList decodes a stored JSON collection. A nil payload decodes to
	// an empty collection.
	DecodeList(data []byte) ([]models.Syncable, error)

	// EncodeList encodes a collection for storage.
	EncodeList(entities []models.Syncable) ([]byte, error)

	// ToServerData extracts the business payload of an entity, without any
	// sync metadata. The transport carries metadata separately.
	ToServerData(entity models.Syncable) (map[string]any, error)

	// FromServerData builds a local entity from a transport representation
	// plus the sync metadata the engine computed for it.
	FromServerData(serverEntity models.ServerEntity, meta models.SyncMeta) (models.Syncable, error)

	// Create builds a brand-new local entity from user input, with
	// Version 1 and PendingCreate set.
	Create(input map[string]any, homeID, id string, now time.Time) (models.Syncable, error)

	// ApplyUpdate merges a partial field update into the entity and stamps
	// the local mutation (version bump + timestamps). Sync metadata in the
	// update input is ignored.
	ApplyUpdate(entity models.Syncable, updates map[string]any, now time.Time) error

	// PayloadEqual reports whether two replicas carry the same business
	// payload, ignoring sync metadata entirely.
	PayloadEqual(a, b models.Syncable) bool
}

// syncMetaKeys are the JSON keys contributed by the embedded SyncMeta; they
// are stripped from server payloads.
var syncMetaKeys = []string{
	"id", "home_id", "version", "updated_at", "client_updated_at",
	"deleted_at", "server_updated_at", "last_synced_at",
	"pending_create", "pending_update", "pending_delete",
}

type entityPtr[T any] interface {
	*T
	models.Syncable
}

// jsonAdapter is the shared TypeAdapter implementation: every entity variant
// is a plain struct with JSON tags, so codec, diff, and merge behaviour can
// be written once.
type jsonAdapter[T any, PT entityPtr[T]] struct {
	entityType models.EntityType
	fileKey    string
}

func (a *jsonAdapter[T, PT]) Type() models.EntityType { return a.entityType }

func (a *jsonAdapter[T, PT]) FileKey() string { return a.fileKey }

func (a *jsonAdapter[T, PT]) GenerateID() string { return uuid.NewString() }

func (a *jsonAdapter[T, PT]) DecodeList(data []byte) ([]models.Syncable, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var list []PT
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode %s collection: %w", a.entityType, err)
	}

	entities := make([]models.Syncable, 0, len(list))
	for _, e := range list {
		entities = append(entities, e)
	}
	return entities, nil
}

func (a *jsonAdapter[T, PT]) EncodeList(entities []models.Syncable) ([]byte, error) {
	if entities == nil {
		entities = []models.Syncable{}
	}

	data, err := json.Marshal(entities)
	if err != nil {
		return nil, fmt.Errorf("encode %s collection: %w", a.entityType, err)
	}
	return data, nil
}

func (a *jsonAdapter[T, PT]) ToServerData(entity models.Syncable) (map[string]any, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("encode %s entity: %w", a.entityType, err)
	}

	payload := make(map[string]any)
	if err = json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode %s entity fields: %w", a.entityType, err)
	}

	for _, key := range syncMetaKeys {
		delete(payload, key)
	}
	return payload, nil
}

func (a *jsonAdapter[T, PT]) FromServerData(serverEntity models.ServerEntity, meta models.SyncMeta) (models.Syncable, error) {
	raw, err := json.Marshal(serverEntity.Data)
	if err != nil {
		return nil, fmt.Errorf("encode server %s payload: %w", a.entityType, err)
	}

	entity := PT(new(T))
	if err = json.Unmarshal(raw, entity); err != nil {
		return nil, fmt.Errorf("decode server %s payload: %w", a.entityType, err)
	}

	*entity.Meta() = meta
	return entity, nil
}

func (a *jsonAdapter[T, PT]) Create(input map[string]any, homeID, id string, now time.Time) (models.Syncable, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encode %s create input: %w", a.entityType, err)
	}

	entity := PT(new(T))
	if err = json.Unmarshal(raw, entity); err != nil {
		return nil, fmt.Errorf("decode %s create input: %w", a.entityType, err)
	}

	*entity.Meta() = models.SyncMeta{
		ID:              id,
		HomeID:          homeID,
		Version:         1,
		UpdatedAt:       now,
		ClientUpdatedAt: now,
		PendingCreate:   true,
	}
	return entity, nil
}

func (a *jsonAdapter[T, PT]) ApplyUpdate(entity models.Syncable, updates map[string]any, now time.Time) error {
	target, ok := entity.(PT)
	if !ok {
		return fmt.Errorf("apply update: entity is not a %s", a.entityType)
	}

	raw, err := json.Marshal(updates)
	if err != nil {
		return fmt.Errorf("encode %s update input: %w", a.entityType, err)
	}

	patch := new(T)
	if err = json.Unmarshal(raw, patch); err != nil {
		return fmt.Errorf("decode %s update input: %w", a.entityType, err)
	}

	// sync metadata is engine-owned: whatever arrived in updates must not
	// leak into the entity's bookkeeping
	meta := *target.Meta()
	if err = mergo.Merge((*T)(target), *patch, mergo.WithOverride); err != nil {
		return fmt.Errorf("merge %s update: %w", a.entityType, err)
	}
	*target.Meta() = meta

	target.Meta().Touch(now)
	return nil
}

func (a *jsonAdapter[T, PT]) PayloadEqual(x, y models.Syncable) bool {
	xPayload, err := a.ToServerData(x)
	if err != nil {
		return false
	}
	yPayload, err := a.ToServerData(y)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(xPayload, yPayload)
}
