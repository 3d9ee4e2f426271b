package store

import (
	"context"
	"fmt"

	"github.com/homekeepapp/go-home-keeper/internal/config"
	"github.com/homekeepapp/go-home-keeper/internal/logger"
)

// ClientStorages groups all client-side stores into a single value that can
// be passed around the service and sync layers.
type ClientStorages struct {
	// Entities is the SQLite-backed whole-collection store for syncable
	// entities.
	Entities EntityStore

	// Checkpoints persists per-(home, entity type) sync cursors.
	Checkpoints CheckpointStore

	// State persists the global sync switch and cleaner bookkeeping.
	State StateStore
}

// NewClientStorages initialises the client storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs and returns a [ClientStorages] value wired to fresh store
//     implementations sharing the connection.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewClientStorages(cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Entities:    NewEntityCollectionStore(db, logger),
		Checkpoints: NewCheckpointStore(db, logger),
		State:       NewStateStore(db, logger),
	}, nil
}
