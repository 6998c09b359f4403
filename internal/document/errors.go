package document

import (
	"errors"

	"github.com/retroenv/retrodoc/internal/history"
)

// Errors of the backing store.
var (
	// ErrNoDatabase is returned by all operations before a database was attached.
	ErrNoDatabase = errors.New("no database attached")
	// ErrDatabaseAttached is returned when attaching a second database.
	ErrDatabaseAttached = errors.New("database already attached")
	// ErrNotFound indicates that the address has no cell, label, memory
	// area or detail of the requested kind.
	ErrNotFound = errors.New("not found")
)

// Policy errors. Operations that fail with these errors have no side effects.
var (
	// ErrForceRequired indicates that an operation would overwrite an
	// instruction or a user label and was not forced.
	ErrForceRequired = errors.New("operation requires force")
	// ErrInvalidLabel indicates a label with an empty name.
	ErrInvalidLabel = errors.New("invalid label")
	// ErrInvalidSize indicates a value size of less than one byte.
	ErrInvalidSize = errors.New("invalid value size")
	// ErrStringNotFound indicates that no terminated string fits at the address.
	ErrStringNotFound = errors.New("no terminated string found")
	// ErrMultiCellExists indicates that the address already has a multicell.
	ErrMultiCellExists = errors.New("multicell already exists")
)

// Errors of cell materialization and structure application.
var (
	// ErrDecode indicates that an instruction could not be decoded.
	ErrDecode = errors.New("decoding instruction failed")
	// ErrRecursionLimit indicates that nested structures exceeded the
	// configured maximum depth.
	ErrRecursionLimit = errors.New("structure recursion limit reached")
)

// ErrHistoryBoundary indicates that there is no history entry in the
// requested direction.
var ErrHistoryBoundary = history.ErrBoundary
