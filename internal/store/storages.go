package store

import (
	"context"
	"fmt"

	"github.com/qazuor/markview-sync/internal/config"
	"github.com/qazuor/markview-sync/internal/logger"
)

// ClientStorages groups the local storage repositories into a single value
// that can be passed around the engine: the durable sync queue and the
// document/folder mirror, both backed by the same SQLite database.
type ClientStorages struct {
	// Queue is the durable store of pending local mutations.
	Queue QueueRepository

	// Mirror is the local copy of the user's documents and folders.
	Mirror MirrorRepository
}

// NewClientStorages initialises the local storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs and returns a [ClientStorages] value wired to fresh
//     queue and mirror repositories.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewClientStorages(cfg config.Storage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Queue:  NewQueueRepository(db, logger),
		Mirror: NewMirrorRepository(db, logger),
	}, nil
}
