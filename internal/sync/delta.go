// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HomeKeep Authors

package sync

import (
	"time"

	"github.com/homekeepapp/go-home-keeper/models"
)

// deltaAccumulator collects the net effect of one sync pass. Each bucket is
// ordered and keyed by entity id; touching the same id twice within a pass
// replaces the earlier entry in place, so the built delta reports each entity
// at most once per bucket with its final state.
type deltaAccumulator struct {
	createdOrder []string
	created      map[string]models.Syncable

	updatedOrder []string
	updated      map[string]models.Syncable

	deletedOrder []string
	deletedSet   map[string]struct{}

	confirmedOrder []string
	confirmedSet   map[string]struct{}

	serverTimestamp time.Time
	checkpoint      models.Checkpoint
}

func newDeltaAccumulator() *deltaAccumulator {
	return &deltaAccumulator{
		created:      make(map[string]models.Syncable),
		updated:      make(map[string]models.Syncable),
		deletedSet:   make(map[string]struct{}),
		confirmedSet: make(map[string]struct{}),
	}
}

func (d *deltaAccumulator) AddCreated(entity models.Syncable) {
	id := entity.Meta().ID
	if _, ok := d.created[id]; !ok {
		d.createdOrder = append(d.createdOrder, id)
	}
	d.created[id] = entity
}

func (d *deltaAccumulator) AddUpdated(entity models.Syncable) {
	id := entity.Meta().ID

	// an entity created earlier in the same pass stays in the created
	// bucket; the later touch just refreshes its state
	if _, ok := d.created[id]; ok {
		d.created[id] = entity
		return
	}

	if _, ok := d.updated[id]; !ok {
		d.updatedOrder = append(d.updatedOrder, id)
	}
	d.updated[id] = entity
}

func (d *deltaAccumulator) AddDeleted(id string) {
	if _, ok := d.deletedSet[id]; ok {
		return
	}
	d.deletedSet[id] = struct{}{}
	d.deletedOrder = append(d.deletedOrder, id)
}

func (d *deltaAccumulator) AddConfirmed(id string) {
	if _, ok := d.confirmedSet[id]; ok {
		return
	}
	d.confirmedSet[id] = struct{}{}
	d.confirmedOrder = append(d.confirmedOrder, id)
}

func (d *deltaAccumulator) isConfirmed(id string) bool {
	_, ok := d.confirmedSet[id]
	return ok
}

func (d *deltaAccumulator) SetServerTimestamp(ts time.Time) {
	d.serverTimestamp = ts
}

func (d *deltaAccumulator) SetCheckpoint(checkpoint models.Checkpoint) {
	d.checkpoint = checkpoint
}

// Build produces the immutable SyncDelta consumed by the application state
// layer.
func (d *deltaAccumulator) Build() *models.SyncDelta {
	delta := &models.SyncDelta{
		ServerTimestamp: d.serverTimestamp,
		Checkpoint:      d.checkpoint,
	}

	for _, id := range d.createdOrder {
		delta.Created = append(delta.Created, d.created[id])
	}
	for _, id := range d.updatedOrder {
		delta.Updated = append(delta.Updated, d.updated[id])
	}
	delta.Deleted = append(delta.Deleted, d.deletedOrder...)
	delta.Confirmed = append(delta.Confirmed, d.confirmedOrder...)

	delta.Unchanged = len(delta.Created) == 0 && len(delta.Updated) == 0 && len(delta.Deleted) == 0
	return delta
}
