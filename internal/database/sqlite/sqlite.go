// Package sqlite provides a database that is persisted in a SQLite file.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/database"
	"github.com/retroenv/retrodoc/internal/tag"
	"github.com/retroenv/retrogolib/set"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var (
	// ErrSchemaVersion indicates a database file of an unsupported schema version.
	ErrSchemaVersion = errors.New("unsupported schema version")
	// ErrTransaction indicates that a transaction could not be started or committed.
	ErrTransaction = errors.New("invalid transaction")
)

const osNameKey = "operating_system"

var _ database.Database = (*Database)(nil)

// Database is a SQLite backed database. Memory areas are cached in memory,
// all other state is read from and written to the database file directly.
type Database struct {
	db *sql.DB

	mu    sync.RWMutex
	areas []*address.MemoryArea // sorted by start address
}

// Open opens or creates the database file at the given path.
func Open(path string) (*Database, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// a single connection serializes all access and keeps transactions
	// from blocking each other
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
        PRAGMA foreign_keys = ON;
        PRAGMA journal_mode = WAL;
    `); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting PRAGMA: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	d := &Database{db: db}
	if err := d.loadMemoryAreas(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

// WithTx runs fn inside a transaction, the transaction is rolled back if
// fn returns an error.
func (d *Database) WithTx(fn func(tx *sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransaction, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrTransaction, err)
	}
	return nil
}

func (d *Database) loadMemoryAreas() error {
	rows, err := d.db.Query(`SELECT name, base, start, size, file_offset, file_size, arch_tag, mode, access
        FROM memory_areas`)
	if err != nil {
		return fmt.Errorf("querying memory areas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var area address.MemoryArea
		var start, size, fileOffset, fileSize int64
		if err := rows.Scan(&area.Name, &area.Base, &start, &size, &fileOffset, &fileSize,
			&area.ArchitectureTag, &area.Mode, &area.Access); err != nil {
			return fmt.Errorf("scanning memory area: %w", err)
		}
		area.Start = uint64(start)
		area.Size = uint64(size)
		area.FileOffset = uint64(fileOffset)
		area.FileSize = uint64(fileSize)
		d.areas = append(d.areas, &area)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading memory areas: %w", err)
	}

	database.SortAreas(d.areas)
	return nil
}

// AddMemoryArea registers a memory area.
func (d *Database) AddMemoryArea(area *address.MemoryArea) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.areas {
		if existing.Overlaps(area) {
			return fmt.Errorf("area '%s' and '%s': %w", area.Name, existing.Name, database.ErrOverlap)
		}
	}

	_, err := d.db.Exec(`INSERT INTO memory_areas
        (name, base, start, size, file_offset, file_size, arch_tag, mode, access)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		area.Name, area.Base, int64(area.Start), int64(area.Size), int64(area.FileOffset),
		int64(area.FileSize), uint32(area.ArchitectureTag), area.Mode, uint8(area.Access))
	if err != nil {
		return fmt.Errorf("inserting memory area: %w", err)
	}

	d.areas = append(d.areas, area)
	database.SortAreas(d.areas)
	return nil
}

// MemoryArea returns the memory area that contains the address.
func (d *Database) MemoryArea(addr address.Address) (*address.MemoryArea, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	area := d.memoryArea(addr)
	return area, area != nil
}

func (d *Database) memoryArea(addr address.Address) *address.MemoryArea {
	for _, area := range d.areas {
		if area.Contains(addr) {
			return area
		}
	}
	return nil
}

// ForEachMemoryArea calls fn for every memory area in address order.
func (d *Database) ForEachMemoryArea(fn func(area *address.MemoryArea) bool) {
	d.mu.RLock()
	areas := slices.Clone(d.areas)
	d.mu.RUnlock()

	for _, area := range areas {
		if !fn(area) {
			return
		}
	}
}

// ArchitectureTags returns the distinct architecture tags of all areas.
func (d *Database) ArchitectureTags() []tag.Tag {
	d.mu.RLock()
	defer d.mu.RUnlock()

	tags := set.New[tag.Tag]()
	for _, area := range d.areas {
		tags.Add(area.ArchitectureTag)
	}
	result := make([]tag.Tag, 0, len(tags))
	for t := range tags {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// OperatingSystemName returns the name of the targeted system.
func (d *Database) OperatingSystemName() string {
	var name string
	err := d.db.QueryRow("SELECT value FROM metadata WHERE key = ?", osNameKey).Scan(&name)
	if err != nil {
		return ""
	}
	return name
}

// SetOperatingSystemName sets the name of the targeted system.
func (d *Database) SetOperatingSystemName(name string) error {
	_, err := d.db.Exec("INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)", osNameKey, name)
	if err != nil {
		return fmt.Errorf("storing operating system name: %w", err)
	}
	return nil
}

func (d *Database) FirstAddress() (address.Address, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.areas) == 0 {
		return address.Address{}, false
	}
	return d.areas[0].StartAddress(), true
}

func (d *Database) LastAddress() (address.Address, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.areas) == 0 {
		return address.Address{}, false
	}
	return d.areas[len(d.areas)-1].EndAddress(), true
}

// NumberOfAddresses returns the sum of the sizes of all memory areas.
func (d *Database) NumberOfAddresses() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var n uint64
	for _, area := range d.areas {
		n += area.Size
	}
	return n
}

// MoveAddress moves the address by delta positions across memory areas.
func (d *Database) MoveAddress(addr address.Address, delta int64) (address.Address, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return database.MoveAddress(d.areas, addr, delta)
}

// ConvertAddressToPosition returns the linear position of the address.
func (d *Database) ConvertAddressToPosition(addr address.Address) (uint64, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return database.AddressToPosition(d.areas, addr)
}

// ConvertPositionToAddress returns the address of a linear position.
func (d *Database) ConvertPositionToAddress(position uint64) (address.Address, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return database.PositionToAddress(d.areas, position)
}

// Flush checkpoints the write ahead log into the database file.
func (d *Database) Flush() error {
	if _, err := d.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("checkpointing database: %w", err)
	}
	return nil
}

// Close closes the database file.
func (d *Database) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}
