package database

import (
	"sort"

	"github.com/retroenv/retrodoc/internal/address"
)

// SortAreas sorts memory areas by their start address.
func SortAreas(areas []*address.MemoryArea) {
	sort.Slice(areas, func(i, j int) bool {
		return areas[i].StartAddress().Less(areas[j].StartAddress())
	})
}

// AddressToPosition converts an address to its linear position over the
// given areas which have to be sorted by start address.
func AddressToPosition(areas []*address.MemoryArea, addr address.Address) (uint64, bool) {
	var position uint64
	for _, area := range areas {
		if area.Contains(addr) {
			return position + addr.Offset - area.Start, true
		}
		position += area.Size
	}
	return 0, false
}

// PositionToAddress converts a linear position over the given areas which
// have to be sorted by start address to an address.
func PositionToAddress(areas []*address.MemoryArea, position uint64) (address.Address, bool) {
	for _, area := range areas {
		if position < area.Size {
			return area.MakeAddress(area.Start + position), true
		}
		position -= area.Size
	}
	return address.Address{}, false
}

// MoveAddress moves an address by delta positions over the given sorted areas.
func MoveAddress(areas []*address.MemoryArea, addr address.Address, delta int64) (address.Address, bool) {
	position, ok := AddressToPosition(areas, addr)
	if !ok {
		return address.Address{}, false
	}
	if delta < 0 && uint64(-delta) > position {
		return address.Address{}, false
	}
	return PositionToAddress(areas, uint64(int64(position)+delta))
}

// CheckCellBounds returns ErrInvalidLength or ErrCellBounds if a cell of
// the given length at the address does not fit into the area.
func CheckCellBounds(area *address.MemoryArea, addr address.Address, length uint16) error {
	if length == 0 {
		return ErrInvalidLength
	}
	end := addr.Add(int64(length) - 1)
	if !area.Contains(end) {
		return ErrCellBounds
	}
	return nil
}
