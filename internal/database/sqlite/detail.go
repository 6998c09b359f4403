package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/database"
	"github.com/retroenv/retrodoc/internal/detail"
	"github.com/retroenv/retrodoc/internal/multicell"
)

// detail kinds of the details table.
const (
	valueDetail = iota + 1
	functionDetail
	structureDetail
)

func (d *Database) Comment(addr address.Address) (string, bool) {
	var comment string
	err := d.db.QueryRow("SELECT comment FROM comments WHERE base = ? AND off = ?",
		addr.Base, int64(addr.Offset)).Scan(&comment)
	if err != nil {
		return "", false
	}
	return comment, true
}

// SetComment sets the comment of the address, an empty comment removes it.
func (d *Database) SetComment(addr address.Address, comment string) error {
	var err error
	if comment == "" {
		_, err = d.db.Exec("DELETE FROM comments WHERE base = ? AND off = ?", addr.Base, int64(addr.Offset))
	} else {
		_, err = d.db.Exec("INSERT OR REPLACE INTO comments (base, off, comment) VALUES (?, ?, ?)",
			addr.Base, int64(addr.Offset), comment)
	}
	if err != nil {
		return fmt.Errorf("storing comment: %w", err)
	}
	return nil
}

func (d *Database) ValueDetail(id detail.ID) (detail.ValueDetail, bool) {
	var value detail.ValueDetail
	ok := d.loadDetail(valueDetail, id, &value)
	return value, ok
}

func (d *Database) SetValueDetail(id detail.ID, value detail.ValueDetail) error {
	return d.storeDetail(valueDetail, id, value)
}

func (d *Database) FunctionDetail(id detail.ID) (detail.FunctionDetail, bool) {
	var function detail.FunctionDetail
	ok := d.loadDetail(functionDetail, id, &function)
	return function, ok
}

func (d *Database) SetFunctionDetail(id detail.ID, function detail.FunctionDetail) error {
	return d.storeDetail(functionDetail, id, function)
}

func (d *Database) StructureDetail(id detail.ID) (*detail.StructureDetail, bool) {
	var structure detail.StructureDetail
	if !d.loadDetail(structureDetail, id, &structure) {
		return nil, false
	}
	return &structure, true
}

func (d *Database) SetStructureDetail(id detail.ID, structure *detail.StructureDetail) error {
	if structure == nil {
		return fmt.Errorf("structure %x: %w", id, database.ErrNotFound)
	}
	return d.storeDetail(structureDetail, id, structure)
}

func (d *Database) loadDetail(kind int, id detail.ID, v any) bool {
	var data []byte
	err := d.db.QueryRow("SELECT data FROM details WHERE kind = ? AND id = ?", kind, int64(id)).Scan(&data)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (d *Database) storeDetail(kind int, id detail.ID, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding detail %x: %w", id, err)
	}
	_, err = d.db.Exec("INSERT OR REPLACE INTO details (kind, id, data) VALUES (?, ?, ?)",
		kind, int64(id), string(data))
	if err != nil {
		return fmt.Errorf("storing detail %x: %w", id, err)
	}
	return nil
}

// RetrieveDetailID returns the detail bound to the operand index of the address.
func (d *Database) RetrieveDetailID(addr address.Address, index uint8) (detail.ID, bool) {
	var id int64
	err := d.db.QueryRow("SELECT id FROM detail_bindings WHERE base = ? AND off = ? AND idx = ?",
		addr.Base, int64(addr.Offset), index).Scan(&id)
	if err != nil {
		return 0, false
	}
	return detail.ID(id), true
}

func (d *Database) BindDetailID(addr address.Address, index uint8, id detail.ID) error {
	_, err := d.db.Exec("INSERT OR REPLACE INTO detail_bindings (base, off, idx, id) VALUES (?, ?, ?, ?)",
		addr.Base, int64(addr.Offset), index, int64(id))
	if err != nil {
		return fmt.Errorf("binding detail: %w", err)
	}
	return nil
}

func (d *Database) UnbindDetailID(addr address.Address, index uint8) error {
	res, err := d.db.Exec("DELETE FROM detail_bindings WHERE base = ? AND off = ? AND idx = ?",
		addr.Base, int64(addr.Offset), index)
	if err != nil {
		return fmt.Errorf("unbinding detail: %w", err)
	}
	return expectAffected(res, fmt.Sprintf("detail binding %s/%d", addr, index))
}

func (d *Database) MultiCell(addr address.Address) (multicell.MultiCell, bool) {
	var mc multicell.MultiCell
	var id int64
	err := d.db.QueryRow("SELECT type, id, size FROM multicells WHERE base = ? AND off = ?",
		addr.Base, int64(addr.Offset)).Scan(&mc.Type, &id, &mc.Size)
	if err != nil {
		return multicell.MultiCell{}, false
	}
	mc.ID = detail.ID(id)
	return mc, true
}

// AddMultiCell stores the multicell, replacing a previous one.
func (d *Database) AddMultiCell(addr address.Address, mc multicell.MultiCell) error {
	_, err := d.db.Exec("INSERT OR REPLACE INTO multicells (base, off, type, id, size) VALUES (?, ?, ?, ?, ?)",
		addr.Base, int64(addr.Offset), uint8(mc.Type), int64(mc.ID), mc.Size)
	if err != nil {
		return fmt.Errorf("storing multicell: %w", err)
	}
	return nil
}
