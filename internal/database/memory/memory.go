// Package memory provides a database that keeps all state in memory.
package memory

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrodoc/internal/database"
	"github.com/retroenv/retrodoc/internal/detail"
	"github.com/retroenv/retrodoc/internal/label"
	"github.com/retroenv/retrodoc/internal/multicell"
	"github.com/retroenv/retrodoc/internal/tag"
	"github.com/retroenv/retrogolib/set"
)

var _ database.Database = (*Database)(nil)

type bindingKey struct {
	addr  address.Address
	index uint8
}

// Database is an in-memory database.
type Database struct {
	mu sync.RWMutex

	osName string
	areas  []*address.MemoryArea // sorted by start address

	cells     map[address.Address]cell.Data
	maxLength uint16 // longest stored cell, bounds the search for covering cells

	labels     map[address.Address]label.Label
	labelNames map[string]address.Address

	refsFrom map[address.Address]set.Set[address.Address] // to -> addresses referencing it
	refsTo   map[address.Address]set.Set[address.Address] // from -> referenced addresses

	comments map[address.Address]string

	values     map[detail.ID]detail.ValueDetail
	functions  map[detail.ID]detail.FunctionDetail
	structures map[detail.ID]*detail.StructureDetail
	bindings   map[bindingKey]detail.ID

	multiCells map[address.Address]multicell.MultiCell
}

// New returns a new empty in-memory database.
func New() *Database {
	return &Database{
		cells:      map[address.Address]cell.Data{},
		labels:     map[address.Address]label.Label{},
		labelNames: map[string]address.Address{},
		refsFrom:   map[address.Address]set.Set[address.Address]{},
		refsTo:     map[address.Address]set.Set[address.Address]{},
		comments:   map[address.Address]string{},
		values:     map[detail.ID]detail.ValueDetail{},
		functions:  map[detail.ID]detail.FunctionDetail{},
		structures: map[detail.ID]*detail.StructureDetail{},
		bindings:   map[bindingKey]detail.ID{},
		multiCells: map[address.Address]multicell.MultiCell{},
	}
}

// AddMemoryArea registers a memory area.
func (db *Database) AddMemoryArea(area *address.MemoryArea) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.areas {
		if existing.Overlaps(area) {
			return fmt.Errorf("area '%s' and '%s': %w", area.Name, existing.Name, database.ErrOverlap)
		}
	}

	db.areas = append(db.areas, area)
	database.SortAreas(db.areas)
	return nil
}

// MemoryArea returns the memory area that contains the address.
func (db *Database) MemoryArea(addr address.Address) (*address.MemoryArea, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	area := db.memoryArea(addr)
	return area, area != nil
}

func (db *Database) memoryArea(addr address.Address) *address.MemoryArea {
	for _, area := range db.areas {
		if area.Contains(addr) {
			return area
		}
	}
	return nil
}

// ForEachMemoryArea calls fn for every memory area in address order.
func (db *Database) ForEachMemoryArea(fn func(area *address.MemoryArea) bool) {
	db.mu.RLock()
	areas := slices.Clone(db.areas)
	db.mu.RUnlock()

	for _, area := range areas {
		if !fn(area) {
			return
		}
	}
}

// ArchitectureTags returns the distinct architecture tags of all areas.
func (db *Database) ArchitectureTags() []tag.Tag {
	db.mu.RLock()
	defer db.mu.RUnlock()

	tags := set.New[tag.Tag]()
	for _, area := range db.areas {
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
func (db *Database) OperatingSystemName() string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.osName
}

// SetOperatingSystemName sets the name of the targeted system.
func (db *Database) SetOperatingSystemName(name string) error {
	db.mu.Lock()
	db.osName = name
	db.mu.Unlock()
	return nil
}

func (db *Database) FirstAddress() (address.Address, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if len(db.areas) == 0 {
		return address.Address{}, false
	}
	return db.areas[0].StartAddress(), true
}

func (db *Database) LastAddress() (address.Address, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if len(db.areas) == 0 {
		return address.Address{}, false
	}
	return db.areas[len(db.areas)-1].EndAddress(), true
}

// NumberOfAddresses returns the sum of the sizes of all memory areas.
func (db *Database) NumberOfAddresses() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var n uint64
	for _, area := range db.areas {
		n += area.Size
	}
	return n
}

// MoveAddress moves the address by delta positions across memory areas.
func (db *Database) MoveAddress(addr address.Address, delta int64) (address.Address, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return database.MoveAddress(db.areas, addr, delta)
}

// ConvertAddressToPosition returns the linear position of the address.
func (db *Database) ConvertAddressToPosition(addr address.Address) (uint64, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return database.AddressToPosition(db.areas, addr)
}

// ConvertPositionToAddress returns the address of a linear position.
func (db *Database) ConvertPositionToAddress(position uint64) (address.Address, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return database.PositionToAddress(db.areas, position)
}

// Flush does nothing for an in-memory database.
func (db *Database) Flush() error {
	return nil
}

// Close does nothing for an in-memory database.
func (db *Database) Close() error {
	return nil
}
