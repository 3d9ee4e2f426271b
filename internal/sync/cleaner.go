package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/homekeepapp/go-home-keeper/internal/logger"
	"github.com/homekeepapp/go-home-keeper/internal/registry"
	"github.com/homekeepapp/go-home-keeper/internal/store"
	"github.com/homekeepapp/go-home-keeper/models"
)

// Cleaner permanently drops tombstones older than the retention window. It is
// the only component that ever destroys an entity; ordinary sync keeps
// tombstones around so the deletion itself can be synchronized to devices
// that have not seen it yet.
type Cleaner struct {
	entities store.EntityStore
	state    store.StateStore
	registry *registry.Registry

	homeID    string
	retention time.Duration
	interval  time.Duration

	log *logger.Logger
	now func() time.Time
}

// NewCleaner builds a Cleaner. Retention is how long a tombstone is kept
// after its deletion timestamp; interval is the minimum gap between cleanup
// passes for the same entity type.
func NewCleaner(
	entities store.EntityStore,
	state store.StateStore,
	reg *registry.Registry,
	homeID string,
	retention, interval time.Duration,
	log *logger.Logger,
) *Cleaner {
	return &Cleaner{
		entities:  entities,
		state:     state,
		registry:  reg,
		homeID:    homeID,
		retention: retention,
		interval:  interval,
		log:       log,
		now:       time.Now,
	}
}

// CleanupIfDue runs a cleanup pass for the entity type unless one already ran
// within the interval. It is triggered opportunistically after successful
// pulls; a failed pass is logged by the caller and simply retried on a later
// trigger.
func (c *Cleaner) CleanupIfDue(ctx context.Context, entityType models.EntityType) error {
	lastRun, err := c.state.LastCleanup(ctx, entityType)
	if err != nil {
		return fmt.Errorf("read %s cleanup state: %w", entityType, err)
	}

	now := c.now()
	if !lastRun.IsZero() && now.Sub(lastRun) < c.interval {
		return nil
	}

	ta, err := c.registry.Get(entityType)
	if err != nil {
		return err
	}

	payload, err := c.entities.ReadCollection(ctx, ta.FileKey(), c.homeID)
	if err != nil {
		return fmt.Errorf("read %s collection: %w", entityType, err)
	}
	entities, err := ta.DecodeList(payload)
	if err != nil {
		return fmt.Errorf("decode %s collection: %w", entityType, err)
	}

	cutoff := now.Add(-c.retention)
	kept := entities[:0]
	purged := 0
	for _, entity := range entities {
		meta := entity.Meta()
		if meta.IsDeleted() && meta.DeletedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, entity)
	}

	if purged > 0 {
		encoded, err := ta.EncodeList(kept)
		if err != nil {
			return fmt.Errorf("encode %s collection: %w", entityType, err)
		}
		// the cleaner's own write must not re-trigger a sync cycle
		err = c.entities.Silently(func() error {
			return c.entities.WriteCollection(ctx, ta.FileKey(), c.homeID, encoded)
		})
		if err != nil {
			return fmt.Errorf("write %s collection: %w", entityType, err)
		}

		c.log.Info().
			Str("func", "Cleaner.CleanupIfDue").
			Str("entity_type", string(entityType)).
			Int("purged", purged).
			Msg("purged expired tombstones")
	}

	if err = c.state.SetLastCleanup(ctx, entityType, now); err != nil {
		return fmt.Errorf("record %s cleanup: %w", entityType, err)
	}
	return nil
}
