package document

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/detail"
	"github.com/retroenv/retrodoc/internal/multicell"
	"github.com/retroenv/retrogolib/log"
)

// MultiCell returns the multicell that starts at the address.
func (d *Document) MultiCell(addr address.Address) (multicell.MultiCell, bool) {
	if d.db == nil {
		return multicell.MultiCell{}, false
	}

	d.cellMu.Lock()
	mc, ok := d.multiCells[addr]
	d.cellMu.Unlock()
	if ok {
		return mc, true
	}
	return d.db.MultiCell(addr)
}

// SetMultiCell stores the multicell at the address, replacing an existing
// one requires force. The structure of struct multicells is applied to the
// cells, a failure of this step is logged and leaves the already applied
// fields in place.
func (d *Document) SetMultiCell(addr address.Address, mc multicell.MultiCell, force bool) error {
	db, err := d.database()
	if err != nil {
		return err
	}

	d.cellMu.Lock()
	_, exists := d.multiCells[addr]
	if !exists {
		_, exists = db.MultiCell(addr)
	}
	if exists && !force {
		d.cellMu.Unlock()
		return fmt.Errorf("multicell at %s: %w", addr, ErrMultiCellExists)
	}
	if err := db.AddMultiCell(addr, mc); err != nil {
		d.cellMu.Unlock()
		return fmt.Errorf("storing multicell at %s: %w", addr, err)
	}
	d.multiCells[addr] = mc
	d.cellMu.Unlock()

	d.bus.DocumentUpdated()
	d.bus.AddressUpdated(address.List{addr})

	if mc.Type != multicell.Struct {
		return nil
	}

	structure, ok := db.StructureDetail(mc.ID)
	if !ok {
		d.logger.Warn("Structure of multicell not found",
			log.Stringer("address", addr),
			log.Hex("id", uint64(mc.ID)))
		return nil
	}

	if err := d.applyStructure(addr, structure, 0); err != nil {
		d.logger.Warn("Structure partially applied",
			log.String("structure", structure.Name),
			log.Stringer("address", addr),
			log.Err(err))
	}
	return nil
}

// applyStructure applies all fields of the structure at the base address.
// All fields are applied even if some of them fail, the returned error
// joins all field errors.
func (d *Document) applyStructure(base address.Address, structure *detail.StructureDetail, depth int) error {
	if depth > d.opts.MaxStructureDepth {
		return fmt.Errorf("structure '%s' at %s: %w", structure.Name, base, ErrRecursionLimit)
	}

	var errs []error
	structure.ForEachField(func(offset uint32, field detail.TypedValueDetail) bool {
		fieldAddr := base.Add(int64(offset))

		if err := d.appendComment(fieldAddr, "struct "+structure.Name); err != nil {
			errs = append(errs, err)
		}
		if err := d.applyTypedValue(base, fieldAddr, field, depth); err != nil {
			errs = append(errs, fmt.Errorf("field '%s' at %s: %w", field.Name, fieldAddr, err))
		}
		return true
	})
	return errors.Join(errs...)
}

// applyTypedValue types the cell of a field and follows relative and
// composite fields into their structures.
func (d *Document) applyTypedValue(parent, addr address.Address, field detail.TypedValueDetail, depth int) error {
	if field.Type.Kind != detail.CompositeKind {
		if err := d.ChangeValueSize(addr, field.Type.BitSize, true); err != nil {
			return fmt.Errorf("applying type '%s': %w", field.Type.Name, err)
		}
	}

	if err := d.appendComment(addr, field.Name); err != nil {
		return err
	}

	switch field.Value.Kind {
	case detail.RelativeKind:
		return d.applyRelative(parent, addr, field, depth)

	case detail.CompositeKind:
		structure, err := d.referencedStructure(field.Value.RefID)
		if err != nil {
			return err
		}
		if err := d.applyStructure(addr, structure, depth+1); err != nil {
			return fmt.Errorf("composite structure '%s': %w", structure.Name, err)
		}
		d.logger.Debug("Applied composite structure",
			log.String("structure", structure.Name),
			log.Stringer("address", addr))
	}
	return nil
}

// applyRelative reads the offset stored in the field, applies the
// referenced structure at the offset relative to the parent and
// references it from the field. The reference is added even if fields of
// the target structure fail, unless the recursion limit was reached.
func (d *Document) applyRelative(parent, addr address.Address, field detail.TypedValueDetail, depth int) error {
	structure, err := d.referencedStructure(field.Value.RefID)
	if err != nil {
		return err
	}

	fileOffset, ok := d.ConvertAddressToFileOffset(addr)
	if !ok {
		return fmt.Errorf("address %s has no file offset: %w", addr, ErrNotFound)
	}
	offset, err := d.stream.ReadUint(fileOffset, int(field.Size))
	if err != nil {
		return fmt.Errorf("reading relative offset: %w", err)
	}

	target := parent.Add(int64(offset))
	applyErr := d.applyStructure(target, structure, depth+1)
	if applyErr != nil {
		applyErr = fmt.Errorf("relative structure '%s': %w", structure.Name, applyErr)
		if errors.Is(applyErr, ErrRecursionLimit) {
			return applyErr
		}
	}

	if err := d.AddCrossReference(target, addr); err != nil {
		return errors.Join(applyErr, err)
	}

	d.logger.Debug("Applied relative structure",
		log.String("structure", structure.Name),
		log.Stringer("address", target))
	return applyErr
}

func (d *Document) referencedStructure(id detail.ID) (*detail.StructureDetail, error) {
	structure, ok := d.StructureDetail(id)
	if !ok {
		return nil, fmt.Errorf("structure %x: %w", uint64(id), ErrNotFound)
	}
	return structure, nil
}

// appendComment appends the text to the comment of the address.
func (d *Document) appendComment(addr address.Address, text string) error {
	comment, _ := d.Comment(addr)
	if comment != "" {
		comment += " "
	}
	return d.SetComment(addr, comment+text)
}
