package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/homekeepapp/go-home-keeper/internal/logger"
	"github.com/homekeepapp/go-home-keeper/models"
)

type checkpointStore struct {
	*DB
	logger *logger.Logger
}

// NewCheckpointStore returns the SQLite-backed [CheckpointStore].
func NewCheckpointStore(db *DB, logger *logger.Logger) CheckpointStore {
	return &checkpointStore{
		DB:     db,
		logger: logger,
	}
}

func (s *checkpointStore) Get(ctx context.Context, homeID string, entityType models.EntityType) (models.Checkpoint, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("last_pulled_version", "last_pushed_version", "last_synced_at", "server_timestamp").
		From("checkpoints").
		Where(sq.Eq{"scope_key": models.CheckpointKey(homeID, entityType)}).
		ToSql()
	if err != nil {
		log.Err(err).
			Str("func", "checkpointStore.Get").
			Str("home_id", homeID).
			Str("entity_type", string(entityType)).
			Msg("failed to build select query for checkpoint")
		return models.Checkpoint{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	checkpoint := models.Checkpoint{HomeID: homeID, EntityType: entityType}

	var lastSyncedAt, serverTimestamp sql.NullTime
	row := s.DB.QueryRowContext(ctx, query, args...)
	scanErr := row.Scan(
		&checkpoint.LastPulledVersion,
		&checkpoint.LastPushedVersion,
		&lastSyncedAt,
		&serverTimestamp,
	)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			// lazily created: first sync for this scope starts from zero
			return checkpoint, nil
		}
		log.Err(scanErr).
			Str("func", "checkpointStore.Get").
			Str("home_id", homeID).
			Str("entity_type", string(entityType)).
			Msg("failed to scan checkpoint row")
		return models.Checkpoint{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	if lastSyncedAt.Valid {
		checkpoint.LastSyncedAt = timePtr(lastSyncedAt.Time)
	}
	if serverTimestamp.Valid {
		checkpoint.ServerTimestamp = timePtr(serverTimestamp.Time)
	}

	return checkpoint, nil
}

func (s *checkpointStore) Update(ctx context.Context, checkpoint models.Checkpoint) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Insert("checkpoints").
		Columns("scope_key", "home_id", "entity_type",
			"last_pulled_version", "last_pushed_version", "last_synced_at", "server_timestamp").
		Values(checkpoint.Key(), checkpoint.HomeID, string(checkpoint.EntityType),
			checkpoint.LastPulledVersion, checkpoint.LastPushedVersion,
			nullTime(checkpoint.LastSyncedAt), nullTime(checkpoint.ServerTimestamp)).
		Suffix(`ON CONFLICT(scope_key) DO UPDATE SET
			last_pulled_version = excluded.last_pulled_version,
			last_pushed_version = excluded.last_pushed_version,
			last_synced_at = excluded.last_synced_at,
			server_timestamp = excluded.server_timestamp`).
		ToSql()
	if err != nil {
		log.Err(err).
			Str("func", "checkpointStore.Update").
			Str("scope_key", checkpoint.Key()).
			Msg("failed to build upsert query for checkpoint")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "checkpointStore.Update").
			Str("scope_key", checkpoint.Key()).
			Msg("failed to execute upsert for checkpoint")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if rows, rowsErr := result.RowsAffected(); rowsErr == nil && rows == 0 {
		return ErrCheckpointNotSaved
	}

	return nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
