package address

import (
	"fmt"

	"github.com/retroenv/retrodoc/internal/tag"
)

// Access defines the access flags of a memory area.
type Access uint8

// memory area access flags.
const (
	Read Access = 1 << iota
	Write
	Execute
)

// MemoryArea is a contiguous logical range with its own mapping to the
// file offsets of the binary stream and its own architecture context.
type MemoryArea struct {
	Name string

	Base  uint16 // base of all addresses inside the area
	Start uint64 // first logical offset
	Size  uint64 // size of the logical range in bytes

	FileOffset uint64 // file offset of the first logical offset
	FileSize   uint64 // amount of bytes backed by the file, the rest is virtual

	ArchitectureTag tag.Tag
	Mode            uint8 // default architecture mode
	Access          Access
}

// StartAddress returns the first address of the area.
func (m *MemoryArea) StartAddress() Address {
	return Address{Base: m.Base, Offset: m.Start}
}

// EndAddress returns the last address of the area.
func (m *MemoryArea) EndAddress() Address {
	return Address{Base: m.Base, Offset: m.Start + m.Size - 1}
}

// Contains returns whether the address is inside the area.
func (m *MemoryArea) Contains(addr Address) bool {
	if addr.Base != m.Base {
		return false
	}
	return addr.Offset >= m.Start && addr.Offset-m.Start < m.Size
}

// Overlaps returns whether both areas share at least one address.
func (m *MemoryArea) Overlaps(other *MemoryArea) bool {
	if m.Base != other.Base || m.Size == 0 || other.Size == 0 {
		return false
	}
	return m.Start < other.Start+other.Size && other.Start < m.Start+m.Size
}

// MakeAddress returns the address of the given offset inside the area.
func (m *MemoryArea) MakeAddress(offset uint64) Address {
	return Address{Base: m.Base, Offset: offset}
}

// ConvertOffsetToFileOffset converts a logical offset to the offset in the
// binary stream. Virtual bytes of the area have no file offset.
func (m *MemoryArea) ConvertOffsetToFileOffset(offset uint64) (uint64, bool) {
	if offset < m.Start {
		return 0, false
	}
	delta := offset - m.Start
	if delta >= m.Size || delta >= m.FileSize {
		return 0, false
	}
	return m.FileOffset + delta, true
}

func (m *MemoryArea) String() string {
	return fmt.Sprintf("%s %s-%s file:%08x/%x arch:%s mode:%d",
		m.Name, m.StartAddress(), m.EndAddress(), m.FileOffset, m.FileSize,
		m.ArchitectureTag, m.Mode)
}
