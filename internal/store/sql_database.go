package store

import (
	"database/sql"

	"github.com/qazuor/markview-sync/internal/logger"
	"github.com/qazuor/markview-sync/migrations"
)

type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
