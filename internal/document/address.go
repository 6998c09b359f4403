package document

import (
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrodoc/internal/tag"
	"github.com/retroenv/retrogolib/log"
)

// AddMemoryArea registers a memory area. Areas that overlap an existing
// area are refused.
func (d *Document) AddMemoryArea(area *address.MemoryArea) error {
	db, err := d.database()
	if err != nil {
		return err
	}

	if err := db.AddMemoryArea(area); err != nil {
		d.logger.Warn("Memory area refused", log.Stringer("area", area), log.Err(err))
		return fmt.Errorf("adding memory area '%s': %w", area.Name, err)
	}

	d.logger.Debug("Memory area added", log.Stringer("area", area))
	d.bus.MemoryAreaUpdated(area, false)
	d.bus.DocumentUpdated()
	return nil
}

// MemoryArea returns the memory area that contains the address.
func (d *Document) MemoryArea(addr address.Address) (*address.MemoryArea, bool) {
	if d.db == nil {
		return nil, false
	}
	return d.db.MemoryArea(addr)
}

// ForEachMemoryArea calls fn for every memory area in address order until
// fn returns false.
func (d *Document) ForEachMemoryArea(fn func(area *address.MemoryArea) bool) {
	if d.db == nil {
		return
	}
	d.db.ForEachMemoryArea(fn)
}

func (d *Document) NumberOfAddresses() uint64 {
	if d.db == nil {
		return 0
	}
	return d.db.NumberOfAddresses()
}

// MakeAddress returns the address of the offset inside the base.
func (d *Document) MakeAddress(base uint16, offset uint64) address.Address {
	return address.New(base, offset)
}

// ConvertAddressToFileOffset returns the offset of the address in the
// binary stream.
func (d *Document) ConvertAddressToFileOffset(addr address.Address) (uint64, bool) {
	area, ok := d.MemoryArea(addr)
	if !ok {
		return 0, false
	}
	return area.ConvertOffsetToFileOffset(addr.Offset)
}

func (d *Document) ConvertAddressToPosition(addr address.Address) (uint64, bool) {
	if d.db == nil {
		return 0, false
	}
	return d.db.ConvertAddressToPosition(addr)
}

func (d *Document) ConvertPositionToAddress(position uint64) (address.Address, bool) {
	if d.db == nil {
		return address.Address{}, false
	}
	return d.db.ConvertPositionToAddress(position)
}

// MoveAddress moves the address by delta bytes, crossing memory areas.
func (d *Document) MoveAddress(addr address.Address, delta int64) (address.Address, bool) {
	if d.db == nil {
		return address.Address{}, false
	}
	return d.db.MoveAddress(addr, delta)
}

// NextAddress returns the address following the cell at the address.
func (d *Document) NextAddress(addr address.Address) (address.Address, bool) {
	if d.db == nil {
		return address.Address{}, false
	}

	length := int64(1)
	if data, ok := d.db.CellData(addr); ok {
		length = int64(data.Length)
	}
	return d.db.MoveAddress(addr, length)
}

// PreviousAddress returns the start of the cell preceding the address.
func (d *Document) PreviousAddress(addr address.Address) (address.Address, bool) {
	if d.db == nil {
		return address.Address{}, false
	}

	current := addr
	for {
		prev, ok := d.db.MoveAddress(current, -1)
		if !ok {
			return address.Address{}, false
		}
		if _, ok := d.db.CellData(prev); ok {
			return prev, true
		}
		current = prev
	}
}

// NearestAddress returns the address if a cell starts there, otherwise the
// start of the cell that contains it.
func (d *Document) NearestAddress(addr address.Address) (address.Address, bool) {
	if d.db == nil {
		return address.Address{}, false
	}
	if _, ok := d.db.CellData(addr); ok {
		return addr, true
	}
	return d.PreviousAddress(addr)
}

func (d *Document) FirstAddress() (address.Address, bool) {
	if d.db == nil {
		return address.Address{}, false
	}
	return d.db.FirstAddress()
}

func (d *Document) LastAddress() (address.Address, bool) {
	if d.db == nil {
		return address.Address{}, false
	}
	return d.db.LastAddress()
}

// ContainsData returns whether a value, character or string cell that is
// not unknown starts at the address.
func (d *Document) ContainsData(addr address.Address) bool {
	if d.db == nil {
		return false
	}
	data, ok := d.db.CellData(addr)
	if !ok || data.IsUnknown() {
		return false
	}
	switch data.Type {
	case cell.ValueType, cell.CharacterType, cell.StringType:
		return true
	default:
		return false
	}
}

// ContainsCode returns whether an instruction starts at the address.
func (d *Document) ContainsCode(addr address.Address) bool {
	return d.CellType(addr) == cell.InstructionType
}

// ContainsUnknown returns whether the address holds a byte that was not
// typed yet.
func (d *Document) ContainsUnknown(addr address.Address) bool {
	if d.db == nil {
		return false
	}
	data, ok := d.db.CellData(addr)
	return ok && data.IsUnknown()
}

// ArchitectureTag returns the architecture of the cell at the address,
// falling back to the architecture of its memory area.
func (d *Document) ArchitectureTag(addr address.Address) tag.Tag {
	if d.db == nil {
		return tag.Unknown
	}
	if data, ok := d.db.CellData(addr); ok && data.ArchitectureTag != tag.Unknown {
		return data.ArchitectureTag
	}
	if area, ok := d.db.MemoryArea(addr); ok {
		return area.ArchitectureTag
	}
	return tag.Unknown
}

// ArchitectureTags returns the distinct architectures of all memory areas.
func (d *Document) ArchitectureTags() []tag.Tag {
	if d.db == nil {
		return nil
	}
	return d.db.ArchitectureTags()
}

// Mode returns the decoding mode of the address. The mode of an instruction
// cell takes precedence over the mode of the memory area, which takes
// precedence over the default mode of the architecture.
func (d *Document) Mode(addr address.Address) uint8 {
	if d.db == nil {
		return 0
	}
	if data, ok := d.db.CellData(addr); ok && data.Type == cell.InstructionType && data.Mode != 0 {
		return data.Mode
	}

	area, ok := d.db.MemoryArea(addr)
	if !ok {
		return 0
	}
	if area.Mode != 0 {
		return area.Mode
	}
	if ar, ok := d.registry.Architecture(d.ArchitectureTag(addr)); ok {
		return ar.DefaultMode(addr)
	}
	return 0
}
