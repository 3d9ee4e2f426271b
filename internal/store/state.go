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

const (
	stateKeyEnabled           = "sync_enabled"
	stateKeyLastCleanupPrefix = "last_cleanup:"
)

type stateStore struct {
	*DB
	logger *logger.Logger
}

// NewStateStore returns the SQLite-backed [StateStore]: a flat key/value
// table for the enabled flag and the cleaner's last-run stamps.
func NewStateStore(db *DB, logger *logger.Logger) StateStore {
	return &stateStore{
		DB:     db,
		logger: logger,
	}
}

func (s *stateStore) Enabled(ctx context.Context) (bool, error) {
	value, err := s.get(ctx, stateKeyEnabled)
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

func (s *stateStore) SetEnabled(ctx context.Context, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	return s.set(ctx, stateKeyEnabled, value)
}

func (s *stateStore) LastCleanup(ctx context.Context, entityType models.EntityType) (time.Time, error) {
	value, err := s.get(ctx, stateKeyLastCleanupPrefix+string(entityType))
	if err != nil || value == "" {
		return time.Time{}, err
	}

	at, parseErr := time.Parse(time.RFC3339Nano, value)
	if parseErr != nil {
		return time.Time{}, fmt.Errorf("parse last cleanup timestamp: %w", parseErr)
	}
	return at, nil
}

func (s *stateStore) SetLastCleanup(ctx context.Context, entityType models.EntityType, at time.Time) error {
	return s.set(ctx, stateKeyLastCleanupPrefix+string(entityType), at.UTC().Format(time.RFC3339Nano))
}

func (s *stateStore) get(ctx context.Context, key string) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("value").
		From("engine_state").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value string
	row := s.DB.QueryRowContext(ctx, query, args...)
	if scanErr := row.Scan(&value); scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return "", nil
		}
		log.Err(scanErr).
			Str("func", "stateStore.get").
			Str("key", key).
			Msg("failed to scan engine state row")
		return "", fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return value, nil
}

func (s *stateStore) set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Insert("engine_state").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, execErr := s.DB.ExecContext(ctx, query, args...); execErr != nil {
		log.Err(execErr).
			Str("func", "stateStore.set").
			Str("key", key).
			Msg("failed to execute upsert for engine state")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	return nil
}
