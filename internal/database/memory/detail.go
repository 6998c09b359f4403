package memory

import (
	"fmt"
	"slices"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/database"
	"github.com/retroenv/retrodoc/internal/detail"
	"github.com/retroenv/retrodoc/internal/multicell"
)

func (db *Database) Comment(addr address.Address) (string, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	comment, ok := db.comments[addr]
	return comment, ok
}

// SetComment sets the comment of the address, an empty comment removes it.
func (db *Database) SetComment(addr address.Address, comment string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if comment == "" {
		delete(db.comments, addr)
		return nil
	}
	db.comments[addr] = comment
	return nil
}

func (db *Database) ValueDetail(id detail.ID) (detail.ValueDetail, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	value, ok := db.values[id]
	return value, ok
}

func (db *Database) SetValueDetail(id detail.ID, value detail.ValueDetail) error {
	db.mu.Lock()
	db.values[id] = value
	db.mu.Unlock()
	return nil
}

func (db *Database) FunctionDetail(id detail.ID) (detail.FunctionDetail, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	function, ok := db.functions[id]
	if ok {
		function.Parameters = slices.Clone(function.Parameters)
	}
	return function, ok
}

func (db *Database) SetFunctionDetail(id detail.ID, function detail.FunctionDetail) error {
	function.Parameters = slices.Clone(function.Parameters)
	db.mu.Lock()
	db.functions[id] = function
	db.mu.Unlock()
	return nil
}

// StructureDetail returns a copy of the stored structure.
func (db *Database) StructureDetail(id detail.ID) (*detail.StructureDetail, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	structure, ok := db.structures[id]
	if !ok {
		return nil, false
	}
	return cloneStructure(structure), true
}

func (db *Database) SetStructureDetail(id detail.ID, structure *detail.StructureDetail) error {
	if structure == nil {
		return fmt.Errorf("structure %x: %w", id, database.ErrNotFound)
	}
	db.mu.Lock()
	db.structures[id] = cloneStructure(structure)
	db.mu.Unlock()
	return nil
}

func cloneStructure(structure *detail.StructureDetail) *detail.StructureDetail {
	return &detail.StructureDetail{
		Name:   structure.Name,
		Fields: slices.Clone(structure.Fields),
	}
}

// RetrieveDetailID returns the detail bound to the operand index of the address.
func (db *Database) RetrieveDetailID(addr address.Address, index uint8) (detail.ID, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	id, ok := db.bindings[bindingKey{addr: addr, index: index}]
	return id, ok
}

func (db *Database) BindDetailID(addr address.Address, index uint8, id detail.ID) error {
	db.mu.Lock()
	db.bindings[bindingKey{addr: addr, index: index}] = id
	db.mu.Unlock()
	return nil
}

func (db *Database) UnbindDetailID(addr address.Address, index uint8) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := bindingKey{addr: addr, index: index}
	if _, ok := db.bindings[key]; !ok {
		return fmt.Errorf("detail binding %s/%d: %w", addr, index, database.ErrNotFound)
	}
	delete(db.bindings, key)
	return nil
}

func (db *Database) MultiCell(addr address.Address) (multicell.MultiCell, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	mc, ok := db.multiCells[addr]
	return mc, ok
}

// AddMultiCell stores the multicell, replacing a previous one.
func (db *Database) AddMultiCell(addr address.Address, mc multicell.MultiCell) error {
	db.mu.Lock()
	db.multiCells[addr] = mc
	db.mu.Unlock()
	return nil
}
