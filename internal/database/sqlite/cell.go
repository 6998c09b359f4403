package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrodoc/internal/database"
)

// CellData returns the cell starting at the address.
func (d *Database) CellData(addr address.Address) (cell.Data, bool) {
	d.mu.RLock()
	area := d.memoryArea(addr)
	d.mu.RUnlock()
	if area == nil {
		return cell.Data{}, false
	}

	var data cell.Data
	err := d.db.QueryRow(`SELECT type, sub_type, length, arch_tag, mode FROM cells
        WHERE base = ? AND off = ?`, addr.Base, int64(addr.Offset)).
		Scan(&data.Type, &data.SubType, &data.Length, &data.ArchitectureTag, &data.Mode)
	switch {
	case err == nil:
		return data, true
	case !errors.Is(err, sql.ErrNoRows):
		return cell.Data{}, false
	}

	var covered int
	err = d.db.QueryRow(`SELECT COUNT(*) FROM cells
        WHERE base = ? AND off < ? AND off + length > ?`,
		addr.Base, int64(addr.Offset), int64(addr.Offset)).Scan(&covered)
	if err != nil || covered > 0 {
		return cell.Data{}, false
	}

	data = cell.Unknown().Data()
	data.ArchitectureTag = area.ArchitectureTag
	data.Mode = area.Mode
	return data, true
}

// SetCellData stores a cell and returns the start addresses of all other
// cells that were overwritten.
func (d *Database) SetCellData(addr address.Address, data cell.Data, force bool) (address.List, error) {
	d.mu.RLock()
	area := d.memoryArea(addr)
	d.mu.RUnlock()
	if area == nil {
		return nil, fmt.Errorf("address %s: %w", addr, database.ErrNoMemoryArea)
	}
	if err := database.CheckCellBounds(area, addr, data.Length); err != nil {
		return nil, fmt.Errorf("cell at %s with length %d: %w", addr, data.Length, err)
	}

	var erased address.List
	err := d.WithTx(func(tx *sql.Tx) error {
		overwritten, err := overlappingCells(tx, addr, data.Length)
		if err != nil {
			return err
		}

		for _, c := range overwritten {
			if c.typ == cell.InstructionType && !force {
				return fmt.Errorf("cell at %s: %w", c.addr, database.ErrInstructionOverwrite)
			}
		}

		_, err = tx.Exec(`DELETE FROM cells WHERE base = ? AND off < ? AND off + length > ?`,
			addr.Base, int64(addr.Offset)+int64(data.Length), int64(addr.Offset))
		if err != nil {
			return fmt.Errorf("deleting overwritten cells: %w", err)
		}

		_, err = tx.Exec(`INSERT INTO cells (base, off, type, sub_type, length, arch_tag, mode)
            VALUES (?, ?, ?, ?, ?, ?, ?)`,
			addr.Base, int64(addr.Offset), uint8(data.Type), data.SubType, data.Length,
			uint32(data.ArchitectureTag), data.Mode)
		if err != nil {
			return fmt.Errorf("inserting cell: %w", err)
		}

		for _, c := range overwritten {
			if c.addr != addr {
				erased = append(erased, c.addr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return erased, nil
}

type overlappingCell struct {
	addr address.Address
	typ  cell.Type
}

// overlappingCells returns all cells that share at least one byte with the
// given range, in address order.
func overlappingCells(tx *sql.Tx, addr address.Address, length uint16) ([]overlappingCell, error) {
	rows, err := tx.Query(`SELECT off, type FROM cells
        WHERE base = ? AND off < ? AND off + length > ? ORDER BY off`,
		addr.Base, int64(addr.Offset)+int64(length), int64(addr.Offset))
	if err != nil {
		return nil, fmt.Errorf("querying overlapping cells: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cells []overlappingCell
	for rows.Next() {
		var offset int64
		var typ cell.Type
		if err := rows.Scan(&offset, &typ); err != nil {
			return nil, fmt.Errorf("scanning cell: %w", err)
		}
		cells = append(cells, overlappingCell{
			addr: address.New(addr.Base, uint64(offset)),
			typ:  typ,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading overlapping cells: %w", err)
	}
	return cells, nil
}

// DeleteCellData removes the cell starting at the address.
func (d *Database) DeleteCellData(addr address.Address) error {
	res, err := d.db.Exec("DELETE FROM cells WHERE base = ? AND off = ?", addr.Base, int64(addr.Offset))
	if err != nil {
		return fmt.Errorf("deleting cell: %w", err)
	}
	return expectAffected(res, fmt.Sprintf("cell at %s", addr))
}

func expectAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, database.ErrNotFound)
	}
	return nil
}
