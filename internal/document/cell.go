package document

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrodoc/internal/database"
	"github.com/retroenv/retrodoc/internal/label"
	"github.com/retroenv/retrogolib/log"
)

// Cell returns the cell at the address. Instructions are decoded by the
// architecture of the cell on every call, if the architecture is unknown
// or decoding fails no cell is returned and the stored cell is kept.
func (d *Document) Cell(addr address.Address) (cell.Cell, bool) {
	if d.db == nil {
		return nil, false
	}

	d.cellMu.Lock()
	defer d.cellMu.Unlock()

	data, ok := d.db.CellData(addr)
	if !ok {
		return nil, false
	}
	if data.Type != cell.InstructionType {
		c, err := cell.FromData(data)
		if err != nil {
			d.logger.Error("Invalid cell data", log.Stringer("address", addr), log.Err(err))
			return nil, false
		}
		return c, true
	}

	insn, err := d.decode(addr, data)
	if err != nil {
		d.logger.Debug("Instruction not decodable", log.Stringer("address", addr), log.Err(err))
		return nil, false
	}
	return insn, true
}

func (d *Document) decode(addr address.Address, data cell.Data) (*cell.Instruction, error) {
	ar, ok := d.registry.Architecture(data.ArchitectureTag)
	if !ok {
		return nil, fmt.Errorf("architecture '%s' is not registered: %w", data.ArchitectureTag, ErrDecode)
	}
	fileOffset, ok := d.ConvertAddressToFileOffset(addr)
	if !ok {
		return nil, fmt.Errorf("address %s has no file offset: %w", addr, ErrDecode)
	}

	insn, err := ar.Disassemble(d.stream, fileOffset, data.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return insn, nil
}

// CellType returns the type of the cell at the address without decoding
// instructions. cell.GenericType is returned if there is no cell.
func (d *Document) CellType(addr address.Address) cell.Type {
	if d.db == nil {
		return cell.GenericType
	}
	data, ok := d.db.CellData(addr)
	if !ok {
		return cell.GenericType
	}
	return data.Type
}

// CellSubType returns the sub type of the cell at the address.
func (d *Document) CellSubType(addr address.Address) uint8 {
	if d.db == nil {
		return uint8(cell.GenericType)
	}
	data, ok := d.db.CellData(addr)
	if !ok {
		return uint8(cell.GenericType)
	}
	return data.SubType
}

// SetCell stores the cell at the address. Overwriting an instruction
// requires force. Labels of the address that are not referenced anymore
// are removed, cross-references of erased cells are pruned.
func (d *Document) SetCell(addr address.Address, c cell.Cell, force bool) error {
	db, err := d.database()
	if err != nil {
		return err
	}

	changed, err := d.storeCell(db, addr, c, force)
	if err != nil {
		return err
	}

	d.bus.DocumentUpdated()
	d.bus.AddressUpdated(changed)
	return nil
}

// SetCellWithLabel stores the cell like SetCell and binds the label to the
// address. Replacing an existing label requires force, in this case the
// cell has already been stored when the error is returned.
func (d *Document) SetCellWithLabel(addr address.Address, c cell.Cell, lbl label.Label, force bool) error {
	db, err := d.database()
	if err != nil {
		return err
	}

	changed, err := d.storeCell(db, addr, c, force)
	if err != nil {
		return err
	}

	if old, ok := db.Label(addr); ok {
		if !force {
			return fmt.Errorf("label '%s' at %s: %w", old, addr, ErrForceRequired)
		}
		if old == lbl {
			return nil
		}
		if err := db.RemoveLabel(addr); err != nil {
			return fmt.Errorf("removing label at %s: %w", addr, err)
		}
		d.bus.LabelUpdated(addr, old, true)
	}

	if err := db.AddLabel(addr, lbl); err != nil {
		return fmt.Errorf("adding label at %s: %w", addr, err)
	}
	d.bus.LabelUpdated(addr, lbl, false)
	d.bus.DocumentUpdated()
	d.bus.AddressUpdated(changed)
	return nil
}

// storeCell writes the cell and cleans up the erased cells. It returns the
// address followed by all erased addresses.
func (d *Document) storeCell(db database.Database, addr address.Address, c cell.Cell, force bool) (address.List, error) {
	erased, err := db.SetCellData(addr, c.Data(), force)
	if err != nil {
		if errors.Is(err, database.ErrInstructionOverwrite) {
			return nil, fmt.Errorf("setting cell at %s: %w: %w", addr, ErrForceRequired, err)
		}
		return nil, fmt.Errorf("setting cell at %s: %w", addr, err)
	}

	d.RemoveLabelIfNeeded(addr)

	for _, erasedAddr := range erased {
		if _, ok := db.CellData(erasedAddr); ok {
			continue
		}

		if db.HasCrossReferenceTo(erasedAddr) {
			if err := db.RemoveCrossReference(erasedAddr); err != nil {
				d.logger.Error("Removing cross-references failed", log.Stringer("address", erasedAddr), log.Err(err))
			}
		}

		if db.HasCrossReferenceFrom(erasedAddr) {
			if lbl, ok := db.Label(erasedAddr); ok && lbl.Type != label.Unknown {
				d.bus.LabelUpdated(erasedAddr, lbl, true)
			}
		}
	}

	changed := make(address.List, 0, len(erased)+1)
	changed = append(changed, addr)
	changed = append(changed, erased...)
	return changed, nil
}

// DeleteCell removes the cell at the address.
func (d *Document) DeleteCell(addr address.Address) error {
	db, err := d.database()
	if err != nil {
		return err
	}

	if err := db.DeleteCellData(addr); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("deleting cell at %s: %w", addr, ErrNotFound)
		}
		return fmt.Errorf("deleting cell at %s: %w", addr, err)
	}

	d.bus.AddressUpdated(address.List{addr})
	d.bus.DocumentUpdated()
	d.RemoveLabelIfNeeded(addr)
	return nil
}

// ChangeValueSize replaces the cell at the address by a value of the given
// size in bits. When shrinking, every vacated byte gets its own unknown
// value cell.
func (d *Document) ChangeValueSize(addr address.Address, bitSize uint32, force bool) error {
	db, err := d.database()
	if err != nil {
		return err
	}

	size := bitSize / 8
	if size == 0 || size > uint32(^uint16(0)) {
		return fmt.Errorf("value size of %d bits: %w", bitSize, ErrInvalidSize)
	}

	old, ok := db.CellData(addr)
	if !ok {
		return fmt.Errorf("cell at %s: %w", addr, ErrNotFound)
	}
	if old.Type == cell.InstructionType && !force {
		return fmt.Errorf("resizing instruction at %s: %w", addr, ErrForceRequired)
	}

	newLength := uint16(size)
	if old.Type == cell.ValueType && old.Length == newLength {
		return nil
	}

	subType := cell.ValueHexadecimal
	if old.Type == cell.ValueType {
		subType = old.SubType
	}
	if err := d.SetCell(addr, cell.NewValue(subType, newLength), force); err != nil {
		return err
	}

	for i := newLength; i < old.Length; i++ {
		if err := d.SetCell(addr.Add(int64(i)), cell.Unknown(), force); err != nil {
			return err
		}
	}
	return nil
}

// MakeString creates a string cell at the address that includes the
// terminating NUL byte. It fails if the string is empty or the string
// including its terminator is longer than maxLength.
func (d *Document) MakeString(addr address.Address, subType uint8, maxLength uint16, force bool) error {
	if _, err := d.database(); err != nil {
		return err
	}

	fileOffset, ok := d.ConvertAddressToFileOffset(addr)
	if !ok {
		return fmt.Errorf("address %s has no file offset: %w", addr, ErrNotFound)
	}

	length, err := d.stream.StringLength(fileOffset)
	if err != nil {
		return fmt.Errorf("string at %s: %w: %w", addr, ErrStringNotFound, err)
	}
	if length == 0 {
		return fmt.Errorf("empty string at %s: %w", addr, ErrStringNotFound)
	}

	length++ // terminator
	if length > int(maxLength) {
		return fmt.Errorf("string at %s of length %d exceeds %d: %w", addr, length, maxLength, ErrStringNotFound)
	}

	return d.SetCell(addr, cell.NewString(subType, uint16(length)), force)
}
