package memory

import (
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrodoc/internal/database"
)

// CellData returns the cell starting at the address.
func (db *Database) CellData(addr address.Address) (cell.Data, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if data, ok := db.cells[addr]; ok {
		return data, true
	}

	area := db.memoryArea(addr)
	if area == nil {
		return cell.Data{}, false
	}
	if _, ok := db.coveringCell(area, addr); ok {
		return cell.Data{}, false
	}

	data := cell.Unknown().Data()
	data.ArchitectureTag = area.ArchitectureTag
	data.Mode = area.Mode
	return data, true
}

// coveringCell returns the start of the cell that starts before the address
// and covers it.
func (db *Database) coveringCell(area *address.MemoryArea, addr address.Address) (address.Address, bool) {
	for distance := uint64(1); distance < uint64(db.maxLength); distance++ {
		if addr.Offset-area.Start < distance {
			break
		}
		start := addr.Add(-int64(distance))
		data, ok := db.cells[start]
		if ok && uint64(data.Length) > distance {
			return start, true
		}
	}
	return address.Address{}, false
}

// SetCellData stores a cell and returns the start addresses of all other
// cells that were overwritten.
func (db *Database) SetCellData(addr address.Address, data cell.Data, force bool) (address.List, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	area := db.memoryArea(addr)
	if area == nil {
		return nil, fmt.Errorf("address %s: %w", addr, database.ErrNoMemoryArea)
	}
	if err := database.CheckCellBounds(area, addr, data.Length); err != nil {
		return nil, fmt.Errorf("cell at %s with length %d: %w", addr, data.Length, err)
	}

	var overwritten address.List
	if start, ok := db.coveringCell(area, addr); ok {
		overwritten = append(overwritten, start)
	}
	for i := int64(0); i < int64(data.Length); i++ {
		a := addr.Add(i)
		if _, ok := db.cells[a]; ok {
			overwritten = append(overwritten, a)
		}
	}

	if !force {
		for _, a := range overwritten {
			if db.cells[a].Type == cell.InstructionType {
				return nil, fmt.Errorf("cell at %s: %w", a, database.ErrInstructionOverwrite)
			}
		}
	}

	var erased address.List
	for _, a := range overwritten {
		delete(db.cells, a)
		if a != addr {
			erased = append(erased, a)
		}
	}

	db.cells[addr] = data
	if data.Length > db.maxLength {
		db.maxLength = data.Length
	}
	return erased, nil
}

// DeleteCellData removes the cell starting at the address.
func (db *Database) DeleteCellData(addr address.Address) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.cells[addr]; !ok {
		return fmt.Errorf("cell at %s: %w", addr, database.ErrNotFound)
	}
	delete(db.cells, addr)
	return nil
}
