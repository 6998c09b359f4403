package document

import (
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/detail"
)

// Comment returns the comment of the address.
func (d *Document) Comment(addr address.Address) (string, bool) {
	if d.db == nil {
		return "", false
	}
	return d.db.Comment(addr)
}

// SetComment sets the comment of the address, an empty comment removes it.
func (d *Document) SetComment(addr address.Address, comment string) error {
	db, err := d.database()
	if err != nil {
		return err
	}
	if err := db.SetComment(addr, comment); err != nil {
		return fmt.Errorf("setting comment at %s: %w", addr, err)
	}
	d.bus.DocumentUpdated()
	return nil
}

func (d *Document) ValueDetail(id detail.ID) (detail.ValueDetail, bool) {
	if d.db == nil {
		return detail.ValueDetail{}, false
	}
	return d.db.ValueDetail(id)
}

func (d *Document) SetValueDetail(id detail.ID, value detail.ValueDetail) error {
	db, err := d.database()
	if err != nil {
		return err
	}
	return db.SetValueDetail(id, value)
}

func (d *Document) FunctionDetail(id detail.ID) (detail.FunctionDetail, bool) {
	if d.db == nil {
		return detail.FunctionDetail{}, false
	}
	return d.db.FunctionDetail(id)
}

func (d *Document) SetFunctionDetail(id detail.ID, function detail.FunctionDetail) error {
	db, err := d.database()
	if err != nil {
		return err
	}
	return db.SetFunctionDetail(id, function)
}

func (d *Document) StructureDetail(id detail.ID) (*detail.StructureDetail, bool) {
	if d.db == nil {
		return nil, false
	}
	return d.db.StructureDetail(id)
}

// SetStructureDetail stores the structure under its ID.
func (d *Document) SetStructureDetail(structure *detail.StructureDetail) error {
	db, err := d.database()
	if err != nil {
		return err
	}
	return db.SetStructureDetail(structure.ID(), structure)
}

// RetrieveDetailID returns the detail bound to the operand index of the address.
func (d *Document) RetrieveDetailID(addr address.Address, index uint8) (detail.ID, bool) {
	if d.db == nil {
		return 0, false
	}
	return d.db.RetrieveDetailID(addr, index)
}

func (d *Document) BindDetailID(addr address.Address, index uint8, id detail.ID) error {
	db, err := d.database()
	if err != nil {
		return err
	}
	return db.BindDetailID(addr, index, id)
}

func (d *Document) UnbindDetailID(addr address.Address, index uint8) error {
	db, err := d.database()
	if err != nil {
		return err
	}
	return db.UnbindDetailID(addr, index)
}
