package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/homekeepapp/go-home-keeper/internal/logger"
)

type entityCollectionStore struct {
	*DB
	logger *logger.Logger

	mu        sync.Mutex
	listeners map[int]func(fileKey, homeID string)
	nextID    int
	suppress  int
}

// NewEntityCollectionStore returns the SQLite-backed [EntityStore]. Each
// collection is stored as one JSON payload row keyed by (file_key, home_id),
// preserving the whole-file read/write contract the sync engine relies on.
func NewEntityCollectionStore(db *DB, logger *logger.Logger) EntityStore {
	return &entityCollectionStore{
		DB:        db,
		logger:    logger,
		listeners: make(map[int]func(fileKey, homeID string)),
	}
}

func (s *entityCollectionStore) ReadCollection(ctx context.Context, fileKey, homeID string) ([]byte, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("payload").
		From("entity_collections").
		Where(sq.Eq{"file_key": fileKey, "home_id": homeID}).
		ToSql()
	if err != nil {
		log.Err(err).
			Str("func", "entityCollectionStore.ReadCollection").
			Str("file_key", fileKey).
			Msg("failed to build select query for collection")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var payload []byte
	row := s.DB.QueryRowContext(ctx, query, args...)
	if scanErr := row.Scan(&payload); scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			// never written: callers treat nil as an empty collection
			return nil, nil
		}
		log.Err(scanErr).
			Str("func", "entityCollectionStore.ReadCollection").
			Str("file_key", fileKey).
			Str("home_id", homeID).
			Msg("failed to scan collection payload")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return payload, nil
}

func (s *entityCollectionStore) WriteCollection(ctx context.Context, fileKey, homeID string, payload []byte) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Insert("entity_collections").
		Columns("file_key", "home_id", "payload", "updated_at").
		Values(fileKey, homeID, string(payload), time.Now().UTC()).
		Suffix("ON CONFLICT(file_key, home_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		log.Err(err).
			Str("func", "entityCollectionStore.WriteCollection").
			Str("file_key", fileKey).
			Msg("failed to build upsert query for collection")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "entityCollectionStore.WriteCollection").
			Str("file_key", fileKey).
			Str("home_id", homeID).
			Msg("failed to execute upsert for collection")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if rows, rowsErr := result.RowsAffected(); rowsErr == nil && rows == 0 {
		return ErrCollectionNotSaved
	}

	s.notifyChange(fileKey, homeID)
	return nil
}

func (s *entityCollectionStore) OnChange(fn func(fileKey, homeID string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Silently runs fn with change notifications suppressed. Suppression is a
// counter, not a boolean, so nested Silently calls compose; the guard is
// released via defer so every exit path of fn (return, error, panic)
// restores the prior state.
func (s *entityCollectionStore) Silently(fn func() error) error {
	s.mu.Lock()
	s.suppress++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.suppress--
		s.mu.Unlock()
	}()

	return fn()
}

func (s *entityCollectionStore) notifyChange(fileKey, homeID string) {
	s.mu.Lock()
	if s.suppress > 0 {
		s.mu.Unlock()
		return
	}
	fns := make([]func(fileKey, homeID string), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(fileKey, homeID)
	}
}
