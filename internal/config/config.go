// Package config handles application configuration and setup
package config

import (
	"fmt"

	"github.com/retroenv/retrodoc/internal/arch"
	"github.com/retroenv/retrodoc/internal/arch/chip8"
	"github.com/retroenv/retrodoc/internal/arch/m6502"
	"github.com/retroenv/retrodoc/internal/database"
	"github.com/retroenv/retrodoc/internal/database/memory"
	"github.com/retroenv/retrodoc/internal/database/sqlite"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateRegistry creates the registry of all supported architectures.
func CreateRegistry(unofficial bool) (*arch.Registry, error) {
	registry, err := arch.NewRegistry(m6502.New(unofficial), chip8.New())
	if err != nil {
		return nil, fmt.Errorf("creating architecture registry: %w", err)
	}
	return registry, nil
}

// OpenDatabase opens the SQLite database at the given path, or creates an
// in memory database if the path is empty.
func OpenDatabase(path string) (database.Database, error) {
	if path == "" {
		return memory.New(), nil
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	return db, nil
}
