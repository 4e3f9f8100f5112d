// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Qazuor

// Package migrations applies the versioned schema of the local sync
// database (queue and entity mirror) using goose. Schema changes go through
// new numbered SQL files, never through edits of shipped ones, so an old
// database is always upgradable and incompatible changes fail loudly
// instead of being silently coerced.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Migrate brings db up to the latest schema version.
func Migrate(db *sql.DB) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
