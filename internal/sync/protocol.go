// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HomeKeep Authors

package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/homekeepapp/go-home-keeper/internal/adapter"
	"github.com/homekeepapp/go-home-keeper/internal/logger"
	"github.com/homekeepapp/go-home-keeper/internal/registry"
	"github.com/homekeepapp/go-home-keeper/internal/store"
	"github.com/homekeepapp/go-home-keeper/models"
)

// Protocol runs one generic pull/push pass for a single entity type. It is
// written once against the TypeAdapter interface; no concrete entity type
// appears anywhere in it.
type Protocol struct {
	entities    store.EntityStore
	checkpoints store.CheckpointStore
	transport   adapter.SyncTransport
	registry    *registry.Registry

	homeID   string
	deviceID string

	log *logger.Logger
	now func() time.Time
}

// NewProtocol wires the sync protocol against its collaborators.
func NewProtocol(
	entities store.EntityStore,
	checkpoints store.CheckpointStore,
	transport adapter.SyncTransport,
	reg *registry.Registry,
	homeID, deviceID string,
	log *logger.Logger,
) *Protocol {
	return &Protocol{
		entities:    entities,
		checkpoints: checkpoints,
		transport:   transport,
		registry:    reg,
		homeID:      homeID,
		deviceID:    deviceID,
		log:         log,
		now:         time.Now,
	}
}

// Sync performs one pass for the entity type: pull, push, or both.
//
// The returned delta is never nil. When anything fails mid-pass the whole
// pass is abandoned, logged, and an empty ("unchanged") delta is returned
// together with the error; the error exists solely for the scheduler's retry
// bookkeeping and never reaches UI code. Local pending flags are untouched by
// a failed pass, so the affected entities sync on a later attempt.
func (p *Protocol) Sync(ctx context.Context, entityType models.EntityType, op models.SyncOperation) (*models.SyncDelta, error) {
	delta, err := p.pass(ctx, entityType, op)
	if err != nil {
		p.log.Err(err).
			Str("func", "Protocol.Sync").
			Str("entity_type", string(entityType)).
			Str("operation", string(op)).
			Msg("sync pass failed")
		return models.EmptyDelta(), err
	}
	return delta, nil
}

func (p *Protocol) pass(ctx context.Context, entityType models.EntityType, op models.SyncOperation) (*models.SyncDelta, error) {
	ta, err := p.registry.Get(entityType)
	if err != nil {
		return nil, fmt.Errorf("sync %s: %w", entityType, err)
	}

	locals, err := p.loadCollection(ctx, ta)
	if err != nil {
		return nil, fmt.Errorf("read %s collection: %w", entityType, err)
	}

	checkpoint, err := p.checkpoints.Get(ctx, p.homeID, entityType)
	if err != nil {
		return nil, fmt.Errorf("read %s checkpoint: %w", entityType, err)
	}

	doPull := op == models.OpPull || op == models.OpFull
	doPush := op == models.OpPush || op == models.OpFull

	var pullResp *models.PullResponse
	if doPull {
		pullResp, err = p.transport.Pull(ctx, models.PullRequest{
			EntityType:     entityType,
			HomeID:         p.homeID,
			DeviceID:       p.deviceID,
			Checkpoint:     checkpoint.LastPulledVersion,
			IncludeDeleted: true,
		})
		if err != nil {
			return nil, fmt.Errorf("pull %s: %w", entityType, err)
		}
	}

	var pushResp *models.PushResponse
	if doPush {
		pushResp, err = p.pushPending(ctx, ta, locals, checkpoint)
		if err != nil {
			return nil, fmt.Errorf("push %s: %w", entityType, err)
		}
	}

	// Re-read immediately before applying results: a CRUD call may have
	// mutated the collection while the network round trip was in flight,
	// and this optimistic re-read, not a lock, is what keeps that write
	// from being clobbered.
	locals, err = p.loadCollection(ctx, ta)
	if err != nil {
		return nil, fmt.Errorf("re-read %s collection: %w", entityType, err)
	}

	acc := newDeltaAccumulator()

	if pushResp != nil {
		locals = p.applyPushResults(ta, locals, pushResp, acc)
		checkpoint.LastPushedVersion = pushResp.Checkpoint
		acc.SetServerTimestamp(pushResp.ServerTimestamp)
	}

	if pullResp != nil {
		locals, err = p.applyPullResults(ta, locals, pullResp, acc)
		if err != nil {
			return nil, fmt.Errorf("apply %s pull: %w", entityType, err)
		}
		checkpoint.LastPulledVersion = pullResp.Checkpoint
		acc.SetServerTimestamp(pullResp.ServerTimestamp)
	}

	now := p.now()
	checkpoint.LastSyncedAt = &now
	if !acc.serverTimestamp.IsZero() {
		ts := acc.serverTimestamp
		checkpoint.ServerTimestamp = &ts
	}

	if err = p.persistCollection(ctx, ta, locals); err != nil {
		return nil, fmt.Errorf("write %s collection: %w", entityType, err)
	}
	if err = p.checkpoints.Update(ctx, checkpoint); err != nil {
		return nil, fmt.Errorf("write %s checkpoint: %w", entityType, err)
	}

	acc.SetCheckpoint(checkpoint)
	return acc.Build(), nil
}

// pushPending uploads every entity carrying a pending flag. A nil response
// with nil error means there was nothing to push.
func (p *Protocol) pushPending(ctx context.Context, ta registry.TypeAdapter, locals []models.Syncable, checkpoint models.Checkpoint) (*models.PushResponse, error) {
	var pending []models.ServerEntity
	for _, entity := range locals {
		if !entity.Meta().HasPending() {
			continue
		}
		se, err := p.toServerEntity(ta, entity)
		if err != nil {
			return nil, err
		}
		pending = append(pending, se)
	}
	if len(pending) == 0 {
		return nil, nil
	}

	return p.transport.Push(ctx, models.PushRequest{
		EntityType: ta.Type(),
		HomeID:     p.homeID,
		DeviceID:   p.deviceID,
		Checkpoint: checkpoint.LastPulledVersion,
		Entities:   pending,
	})
}

func (p *Protocol) applyPushResults(ta registry.TypeAdapter, locals []models.Syncable, resp *models.PushResponse, acc *deltaAccumulator) []models.Syncable {
	index := indexByID(locals)
	serverTS := resp.ServerTimestamp

	for _, res := range resp.Results {
		i, ok := index[res.ID]
		if !ok {
			// hard-deleted locally between push and apply; nothing to update
			continue
		}
		entity := locals[i]
		meta := entity.Meta()

		switch res.Status {
		case models.PushStatusCreated, models.PushStatusUpdated:
			meta.ClearPending()
			if res.ServerVersion > 0 {
				meta.Version = res.ServerVersion
			}
			ts := serverTS
			meta.ServerUpdatedAt = &ts
			meta.LastSyncedAt = &ts
			acc.AddUpdated(entity)
			acc.AddConfirmed(res.ID)

		case models.PushStatusDeleted:
			meta.PendingDelete = false
			ts := serverTS
			meta.LastSyncedAt = &ts
			acc.AddConfirmed(res.ID)

		case models.PushStatusServerVersion, models.PushStatusConflict:
			// the server held a newer copy: the local pending edit loses
			if res.ServerData == nil {
				continue
			}
			replacement, err := p.fromServerEntity(ta, *res.ServerData, serverTS)
			if err != nil {
				p.log.Err(err).
					Str("func", "Protocol.applyPushResults").
					Str("id", res.ID).
					Msg("discarding undecodable server copy")
				continue
			}
			locals[i] = replacement
			acc.AddUpdated(replacement)

		default:
			p.log.Warn().
				Str("func", "Protocol.applyPushResults").
				Str("id", res.ID).
				Str("status", res.Status).
				Msg("unknown push status")
		}
	}
	return locals
}

func (p *Protocol) applyPullResults(ta registry.TypeAdapter, locals []models.Syncable, resp *models.PullResponse, acc *deltaAccumulator) ([]models.Syncable, error) {
	index := indexByID(locals)

	for _, se := range resp.Entities {
		remote, err := p.fromServerEntity(ta, se, resp.ServerTimestamp)
		if err != nil {
			return nil, err
		}

		i, known := index[se.ID]
		if !known {
			locals = append(locals, remote)
			index[se.ID] = len(locals) - 1
			if remote.Meta().IsDeleted() {
				// an unseen tombstone is stored for retention bookkeeping
				// but reported as a deletion, not a creation
				acc.AddDeleted(se.ID)
			} else {
				acc.AddCreated(remote)
			}
			continue
		}

		local := locals[i]
		if local.Meta().HasPending() {
			// local intent wins until it is itself pushed
			continue
		}

		merged := Resolve(local, remote)
		if merged == local {
			continue
		}
		locals[i] = merged

		switch {
		case merged.Meta().IsDeleted() && !local.Meta().IsDeleted():
			acc.AddDeleted(se.ID)
		case !ta.PayloadEqual(local, merged):
			acc.AddUpdated(merged)
		}
	}

	for _, id := range resp.DeletedIDs {
		i, known := index[id]
		if !known {
			continue
		}
		local := locals[i]
		meta := local.Meta()

		if meta.IsDeleted() {
			// server agrees with the local tombstone
			meta.PendingDelete = false
			continue
		}
		// A bare deleted id carries no deletion timestamp, so it cannot win
		// against live local intent: entities with unpushed changes, or ones
		// whose push was confirmed this very pass, stay alive.
		if meta.HasPending() || acc.isConfirmed(id) {
			continue
		}

		ts := resp.ServerTimestamp
		meta.DeletedAt = &ts
		meta.PendingDelete = false
		acc.AddDeleted(id)
	}

	return locals, nil
}

func (p *Protocol) loadCollection(ctx context.Context, ta registry.TypeAdapter) ([]models.Syncable, error) {
	payload, err := p.entities.ReadCollection(ctx, ta.FileKey(), p.homeID)
	if err != nil {
		return nil, err
	}
	return ta.DecodeList(payload)
}

// persistCollection writes the reconciled collection with change
// notifications suppressed: the engine's own writes must not re-trigger a
// sync cycle through the storage listener.
func (p *Protocol) persistCollection(ctx context.Context, ta registry.TypeAdapter, entities []models.Syncable) error {
	payload, err := ta.EncodeList(entities)
	if err != nil {
		return err
	}
	return p.entities.Silently(func() error {
		return p.entities.WriteCollection(ctx, ta.FileKey(), p.homeID, payload)
	})
}

func (p *Protocol) toServerEntity(ta registry.TypeAdapter, entity models.Syncable) (models.ServerEntity, error) {
	data, err := ta.ToServerData(entity)
	if err != nil {
		return models.ServerEntity{}, err
	}

	meta := entity.Meta()
	clientUpdatedAt := meta.ClientUpdatedAt
	return models.ServerEntity{
		ID:              meta.ID,
		Version:         meta.Version,
		UpdatedAt:       meta.UpdatedAt,
		ClientUpdatedAt: &clientUpdatedAt,
		DeletedAt:       meta.DeletedAt,
		Data:            data,
	}, nil
}

func (p *Protocol) fromServerEntity(ta registry.TypeAdapter, se models.ServerEntity, serverTS time.Time) (models.Syncable, error) {
	clientUpdatedAt := se.UpdatedAt
	if se.ClientUpdatedAt != nil {
		clientUpdatedAt = *se.ClientUpdatedAt
	}
	serverUpdatedAt := se.UpdatedAt

	meta := models.SyncMeta{
		ID:              se.ID,
		HomeID:          p.homeID,
		Version:         se.Version,
		UpdatedAt:       se.UpdatedAt,
		ClientUpdatedAt: clientUpdatedAt,
		DeletedAt:       se.DeletedAt,
		ServerUpdatedAt: &serverUpdatedAt,
		LastSyncedAt:    &serverTS,
	}
	return ta.FromServerData(se, meta)
}

func indexByID(entities []models.Syncable) map[string]int {
	index := make(map[string]int, len(entities))
	for i, entity := range entities {
		index[entity.Meta().ID] = i
	}
	return index
}
