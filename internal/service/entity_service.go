// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HomeKeep Authors

// Package service implements the local CRUD layer over the entity store. It
// owns the pending-flag bookkeeping: every local mutation records its intent
// (create, update, delete) so the sync engine can replay it against the
// server later, and every successful mutation schedules a high-priority push.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/homekeepapp/go-home-keeper/internal/logger"
	"github.com/homekeepapp/go-home-keeper/internal/registry"
	"github.com/homekeepapp/go-home-keeper/internal/store"
	"github.com/homekeepapp/go-home-keeper/models"
)

type entityService struct {
	entities store.EntityStore
	registry *registry.Registry
	queue    Enqueuer
	homeID   string

	log *logger.Logger
	now func() time.Time
}

// NewEntityService wires the CRUD service against the entity store, the
// type-adapter registry, and the sync scheduler.
func NewEntityService(
	entities store.EntityStore,
	reg *registry.Registry,
	queue Enqueuer,
	homeID string,
	log *logger.Logger,
) EntityService {
	return &entityService{
		entities: entities,
		registry: reg,
		queue:    queue,
		homeID:   homeID,
		log:      log,
		now:      time.Now,
	}
}

func (s *entityService) Create(ctx context.Context, entityType models.EntityType, input map[string]any) (models.Syncable, error) {
	ta, err := s.registry.Get(entityType)
	if err != nil {
		return nil, err
	}

	entity, err := ta.Create(input, s.homeID, ta.GenerateID(), s.now())
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", entityType, err)
	}

	collection, err := s.loadCollection(ctx, ta)
	if err != nil {
		return nil, err
	}
	collection = append(collection, entity)

	if err = s.persistCollection(ctx, ta, collection); err != nil {
		return nil, err
	}

	s.queue.Enqueue(entityType, models.OpPush, models.PriorityHigh)
	return entity, nil
}

func (s *entityService) Update(ctx context.Context, entityType models.EntityType, id string, updates map[string]any) (models.Syncable, error) {
	ta, err := s.registry.Get(entityType)
	if err != nil {
		return nil, err
	}

	collection, err := s.loadCollection(ctx, ta)
	if err != nil {
		return nil, err
	}

	entity := findLive(collection, id)
	if entity == nil {
		return nil, fmt.Errorf("update %s %s: %w", entityType, id, ErrEntityNotFound)
	}

	if err = ta.ApplyUpdate(entity, updates, s.now()); err != nil {
		return nil, fmt.Errorf("update %s %s: %w", entityType, id, err)
	}

	// An unpushed creation already carries the latest fields in its pending
	// push, so editing it does not additionally flag a pending update.
	if !entity.Meta().PendingCreate {
		entity.Meta().PendingUpdate = true
	}

	if err = s.persistCollection(ctx, ta, collection); err != nil {
		return nil, err
	}

	s.queue.Enqueue(entityType, models.OpPush, models.PriorityHigh)
	return entity, nil
}

func (s *entityService) Delete(ctx context.Context, entityType models.EntityType, id string) error {
	ta, err := s.registry.Get(entityType)
	if err != nil {
		return err
	}

	collection, err := s.loadCollection(ctx, ta)
	if err != nil {
		return err
	}

	found := -1
	for i, entity := range collection {
		if entity.Meta().ID == id {
			found = i
			break
		}
	}
	if found == -1 {
		return fmt.Errorf("delete %s %s: %w", entityType, id, ErrEntityNotFound)
	}

	entity := collection[found]
	meta := entity.Meta()

	// deleting a tombstone is a success and must not move its timestamp
	if meta.IsDeleted() {
		return nil
	}

	if meta.PendingCreate {
		// the server never saw this entity: remove it outright, there is
		// nothing to synchronize
		collection = append(collection[:found], collection[found+1:]...)
	} else {
		now := s.now()
		meta.Touch(now)
		meta.DeletedAt = &now
		meta.PendingUpdate = false
		meta.PendingDelete = true
	}

	if err = s.persistCollection(ctx, ta, collection); err != nil {
		return err
	}

	s.queue.Enqueue(entityType, models.OpPush, models.PriorityHigh)
	return nil
}

func (s *entityService) Get(ctx context.Context, entityType models.EntityType, id string) (models.Syncable, error) {
	ta, err := s.registry.Get(entityType)
	if err != nil {
		return nil, err
	}

	collection, err := s.loadCollection(ctx, ta)
	if err != nil {
		return nil, err
	}

	entity := findLive(collection, id)
	if entity == nil {
		return nil, fmt.Errorf("get %s %s: %w", entityType, id, ErrEntityNotFound)
	}
	return entity, nil
}

func (s *entityService) List(ctx context.Context, entityType models.EntityType) ([]models.Syncable, error) {
	ta, err := s.registry.Get(entityType)
	if err != nil {
		return nil, err
	}

	collection, err := s.loadCollection(ctx, ta)
	if err != nil {
		return nil, err
	}

	live := make([]models.Syncable, 0, len(collection))
	for _, entity := range collection {
		if !entity.Meta().IsDeleted() {
			live = append(live, entity)
		}
	}
	return live, nil
}

func (s *entityService) loadCollection(ctx context.Context, ta registry.TypeAdapter) ([]models.Syncable, error) {
	payload, err := s.entities.ReadCollection(ctx, ta.FileKey(), s.homeID)
	if err != nil {
		return nil, fmt.Errorf("read %s collection: %w", ta.Type(), err)
	}
	return ta.DecodeList(payload)
}

func (s *entityService) persistCollection(ctx context.Context, ta registry.TypeAdapter, collection []models.Syncable) error {
	payload, err := ta.EncodeList(collection)
	if err != nil {
		return err
	}
	if err = s.entities.WriteCollection(ctx, ta.FileKey(), s.homeID, payload); err != nil {
		return fmt.Errorf("write %s collection: %w", ta.Type(), err)
	}
	return nil
}

func findLive(collection []models.Syncable, id string) models.Syncable {
	for _, entity := range collection {
		if entity.Meta().ID == id && !entity.Meta().IsDeleted() {
			return entity
		}
	}
	return nil
}
