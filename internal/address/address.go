// Package address contains the logical address type and the memory areas
// that map logical addresses to file offsets.
package address

import (
	"cmp"
	"fmt"
	"slices"
)

// Address is a logical coordinate, an offset inside a base. The base selects
// a segment or bank, addresses of different bases are unrelated.
type Address struct {
	Base   uint16
	Offset uint64
}

// List is an ordered list of addresses.
type List []Address

// New returns a new address.
func New(base uint16, offset uint64) Address {
	return Address{Base: base, Offset: offset}
}

// Add returns the address moved by delta bytes inside the same base.
func (a Address) Add(delta int64) Address {
	return Address{
		Base:   a.Base,
		Offset: uint64(int64(a.Offset) + delta),
	}
}

// Compare orders addresses by base first and offset second.
func (a Address) Compare(other Address) int {
	if c := cmp.Compare(a.Base, other.Base); c != 0 {
		return c
	}
	return cmp.Compare(a.Offset, other.Offset)
}

// Less returns whether the address is ordered before other.
func (a Address) Less(other Address) bool {
	return a.Compare(other) < 0
}

func (a Address) String() string {
	return fmt.Sprintf("%04x:%08x", a.Base, a.Offset)
}

// Contains returns whether the list contains the address.
func (l List) Contains(addr Address) bool {
	return slices.Contains(l, addr)
}

// Sort sorts the list in address order.
func (l List) Sort() {
	slices.SortFunc(l, Address.Compare)
}
