package memory

import (
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/database"
	"github.com/retroenv/retrodoc/internal/label"
)

func (db *Database) Label(addr address.Address) (label.Label, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	lbl, ok := db.labels[addr]
	return lbl, ok
}

// LabelAddress returns the address of the label with the given display name.
func (db *Database) LabelAddress(name string) (address.Address, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	addr, ok := db.labelNames[name]
	return addr, ok
}

// AddLabel binds the label to the address.
func (db *Database) AddLabel(addr address.Address, lbl label.Label) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	name := lbl.DisplayName()
	if owner, ok := db.labelNames[name]; ok && owner != addr {
		return fmt.Errorf("label '%s' at %s: %w", name, owner, database.ErrDuplicateLabel)
	}

	if old, ok := db.labels[addr]; ok {
		delete(db.labelNames, old.DisplayName())
	}
	db.labels[addr] = lbl
	db.labelNames[name] = addr
	return nil
}

// RemoveLabel removes the label of the address.
func (db *Database) RemoveLabel(addr address.Address) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	lbl, ok := db.labels[addr]
	if !ok {
		return fmt.Errorf("label at %s: %w", addr, database.ErrNotFound)
	}
	delete(db.labels, addr)
	delete(db.labelNames, lbl.DisplayName())
	return nil
}

// ForEachLabel calls fn for every label in address order.
func (db *Database) ForEachLabel(fn func(addr address.Address, lbl label.Label) bool) {
	db.mu.RLock()
	addresses := make(address.List, 0, len(db.labels))
	labels := make(map[address.Address]label.Label, len(db.labels))
	for addr, lbl := range db.labels {
		addresses = append(addresses, addr)
		labels[addr] = lbl
	}
	db.mu.RUnlock()

	addresses.Sort()
	for _, addr := range addresses {
		if !fn(addr, labels[addr]) {
			return
		}
	}
}
