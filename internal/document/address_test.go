package document

import (
	"testing"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrodoc/internal/options"
	"github.com/retroenv/retrodoc/internal/tag"
	"github.com/retroenv/retrogolib/assert"
)

func TestDocument_Navigation(t *testing.T) {
	doc, _ := newTestDocument(t, make([]byte, 0x10), options.Document{})
	assert.NoError(t, doc.SetCell(addr(0x1000), cell.NewValue(cell.ValueHexadecimal, 4), false))

	tests := []struct {
		name string
		fn   func(address.Address) (address.Address, bool)
		in   uint64
		want uint64
		ok   bool
	}{
		{name: "next skips cell", fn: doc.NextAddress, in: 0x1000, want: 0x1004, ok: true},
		{name: "next unknown byte", fn: doc.NextAddress, in: 0x1004, want: 0x1005, ok: true},
		{name: "next after end", fn: doc.NextAddress, in: 0x100f},
		{name: "previous cell start", fn: doc.PreviousAddress, in: 0x1004, want: 0x1000, ok: true},
		{name: "previous before start", fn: doc.PreviousAddress, in: 0x1000},
		{name: "nearest inside cell", fn: doc.NearestAddress, in: 0x1002, want: 0x1000, ok: true},
		{name: "nearest cell start", fn: doc.NearestAddress, in: 0x1005, want: 0x1005, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.fn(addr(tt.in))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, addr(tt.want), got)
			}
		})
	}
}

func TestDocument_Addresses(t *testing.T) {
	doc, _ := newTestDocument(t, make([]byte, 0x10), options.Document{})
	assert.NoError(t, doc.AddMemoryArea(&address.MemoryArea{
		Name:            "ram",
		Base:            1,
		Size:            0x20,
		FileOffset:      0x10,
		ArchitectureTag: mockTag,
		Mode:            3,
	}))

	first, ok := doc.FirstAddress()
	assert.True(t, ok)
	assert.Equal(t, addr(testStart), first)
	last, ok := doc.LastAddress()
	assert.True(t, ok)
	assert.Equal(t, address.New(1, 0x1f), last)

	offset, ok := doc.ConvertAddressToFileOffset(addr(0x1003))
	assert.True(t, ok)
	assert.Equal(t, uint64(3), offset)
	_, ok = doc.ConvertAddressToFileOffset(address.New(1, 0))
	assert.False(t, ok, "virtual area")

	position, ok := doc.ConvertAddressToPosition(address.New(1, 2))
	assert.True(t, ok)
	assert.Equal(t, uint64(0x12), position)
	back, ok := doc.ConvertPositionToAddress(position)
	assert.True(t, ok)
	assert.Equal(t, address.New(1, 2), back)

	moved, ok := doc.MoveAddress(addr(0x100f), 1)
	assert.True(t, ok)
	assert.Equal(t, address.New(1, 0), moved)
	assert.Equal(t, address.New(2, 5), doc.MakeAddress(2, 5))

	area, ok := doc.MemoryArea(address.New(1, 4))
	assert.True(t, ok)
	assert.Equal(t, "ram", area.Name)
}

func TestDocument_Classification(t *testing.T) {
	doc, _ := newTestDocument(t, make([]byte, 0x10), options.Document{})
	assert.NoError(t, doc.SetCell(addr(0x1000), cell.NewInstruction(mockTag, 5, 1), false))
	assert.NoError(t, doc.SetCell(addr(0x1001), cell.NewValue(cell.ValueDecimal, 2), false))
	assert.NoError(t, doc.SetCell(addr(0x1004), cell.NewString(cell.ASCII, 2), false))

	assert.True(t, doc.ContainsCode(addr(0x1000)))
	assert.False(t, doc.ContainsData(addr(0x1000)))
	assert.True(t, doc.ContainsData(addr(0x1001)))
	assert.True(t, doc.ContainsData(addr(0x1004)))
	assert.True(t, doc.ContainsUnknown(addr(0x1003)))
	assert.False(t, doc.ContainsData(addr(0x1003)))
	assert.False(t, doc.ContainsUnknown(addr(0x1002)), "inside a cell")

	assert.Equal(t, mockTag, doc.ArchitectureTag(addr(0x1000)))
	assert.Equal(t, mockTag, doc.ArchitectureTag(addr(0x1001)), "area fallback")
	assert.Equal(t, tag.Unknown, doc.ArchitectureTag(addr(0x2000)))
	assert.Equal(t, []tag.Tag{mockTag}, doc.ArchitectureTags())

	assert.Equal(t, uint8(5), doc.Mode(addr(0x1000)))
	assert.Equal(t, uint8(7), doc.Mode(addr(0x1001)), "architecture default")
	assert.Equal(t, uint8(0), doc.Mode(addr(0x2000)))
}
