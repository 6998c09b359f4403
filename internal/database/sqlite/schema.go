package sqlite

import (
	"database/sql"
	"fmt"
)

const schemaVersion = 1

func initSchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("getting schema version: %w", err)
	}
	if version == schemaVersion {
		return nil
	}
	if version != 0 {
		return fmt.Errorf("schema version %d: %w", version, ErrSchemaVersion)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := createTables(tx); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("updating schema version: %w", err)
	}
	return tx.Commit()
}

func createTables(tx *sql.Tx) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS metadata (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL
        )`,

		`CREATE TABLE IF NOT EXISTS memory_areas (
            name TEXT NOT NULL,
            base INTEGER NOT NULL,
            start INTEGER NOT NULL,
            size INTEGER NOT NULL,
            file_offset INTEGER NOT NULL,
            file_size INTEGER NOT NULL,
            arch_tag INTEGER NOT NULL,
            mode INTEGER NOT NULL,
            access INTEGER NOT NULL,
            PRIMARY KEY (base, start)
        )`,

		// a cell covers the range [off, off+length)
		`CREATE TABLE IF NOT EXISTS cells (
            base INTEGER NOT NULL,
            off INTEGER NOT NULL,
            type INTEGER NOT NULL,
            sub_type INTEGER NOT NULL,
            length INTEGER NOT NULL,
            arch_tag INTEGER NOT NULL,
            mode INTEGER NOT NULL,
            PRIMARY KEY (base, off)
        )`,

		`CREATE TABLE IF NOT EXISTS labels (
            base INTEGER NOT NULL,
            off INTEGER NOT NULL,
            name TEXT NOT NULL,
            type INTEGER NOT NULL,
            version INTEGER NOT NULL,
            display_name TEXT NOT NULL UNIQUE,
            PRIMARY KEY (base, off)
        )`,

		`CREATE TABLE IF NOT EXISTS xrefs (
            to_base INTEGER NOT NULL,
            to_off INTEGER NOT NULL,
            from_base INTEGER NOT NULL,
            from_off INTEGER NOT NULL,
            PRIMARY KEY (to_base, to_off, from_base, from_off)
        )`,

		`CREATE INDEX IF NOT EXISTS idx_xrefs_from
            ON xrefs(from_base, from_off)`,

		`CREATE TABLE IF NOT EXISTS comments (
            base INTEGER NOT NULL,
            off INTEGER NOT NULL,
            comment TEXT NOT NULL,
            PRIMARY KEY (base, off)
        )`,

		// details are stored as JSON documents
		`CREATE TABLE IF NOT EXISTS details (
            kind INTEGER NOT NULL,
            id INTEGER NOT NULL,
            data TEXT NOT NULL,
            PRIMARY KEY (kind, id)
        )`,

		`CREATE TABLE IF NOT EXISTS detail_bindings (
            base INTEGER NOT NULL,
            off INTEGER NOT NULL,
            idx INTEGER NOT NULL,
            id INTEGER NOT NULL,
            PRIMARY KEY (base, off, idx)
        )`,

		`CREATE TABLE IF NOT EXISTS multicells (
            base INTEGER NOT NULL,
            off INTEGER NOT NULL,
            type INTEGER NOT NULL,
            id INTEGER NOT NULL,
            size INTEGER NOT NULL,
            PRIMARY KEY (base, off)
        )`,
	}

	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("executing query %q: %w", query, err)
		}
	}
	return nil
}
