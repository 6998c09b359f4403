package address

import (
	"testing"

	"github.com/retroenv/retrodoc/internal/tag"
	"github.com/retroenv/retrogolib/assert"
)

func TestAddress_Add(t *testing.T) {
	a := New(0, 0x1000)

	assert.Equal(t, New(0, 0x1010), a.Add(0x10))
	assert.Equal(t, New(0, 0x0fff), a.Add(-1))
	assert.Equal(t, uint16(0), a.Add(4).Base)
}

func TestAddress_Compare(t *testing.T) {
	tests := []struct {
		name string
		a    Address
		b    Address
		want int
	}{
		{name: "equal", a: New(0, 0x10), b: New(0, 0x10), want: 0},
		{name: "lower offset", a: New(0, 0x0f), b: New(0, 0x10), want: -1},
		{name: "higher offset", a: New(0, 0x11), b: New(0, 0x10), want: 1},
		{name: "base wins over offset", a: New(1, 0x00), b: New(0, 0xffff), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
			assert.Equal(t, tt.want < 0, tt.a.Less(tt.b))
		})
	}
}

func TestList(t *testing.T) {
	l := List{New(0, 3), New(1, 0), New(0, 1)}
	l.Sort()

	assert.Equal(t, List{New(0, 1), New(0, 3), New(1, 0)}, l)
	assert.True(t, l.Contains(New(0, 3)))
	assert.False(t, l.Contains(New(0, 2)))
}

func TestMemoryArea(t *testing.T) {
	area := &MemoryArea{
		Name:            "rom",
		Start:           0x8000,
		Size:            0x100,
		FileOffset:      0x10,
		FileSize:        0x80,
		ArchitectureTag: tag.Make("6502"),
	}

	assert.True(t, area.Contains(New(0, 0x8000)))
	assert.True(t, area.Contains(New(0, 0x80ff)))
	assert.False(t, area.Contains(New(0, 0x8100)))
	assert.False(t, area.Contains(New(1, 0x8000)))

	off, ok := area.ConvertOffsetToFileOffset(0x8001)
	assert.True(t, ok)
	assert.Equal(t, uint64(0x11), off)

	_, ok = area.ConvertOffsetToFileOffset(0x8080)
	assert.False(t, ok, "virtual bytes have no file offset")

	assert.Equal(t, New(0, 0x80ff), area.EndAddress())
}

func TestMemoryArea_Overlaps(t *testing.T) {
	a := &MemoryArea{Start: 0x1000, Size: 0x100}

	assert.True(t, a.Overlaps(&MemoryArea{Start: 0x10ff, Size: 1}))
	assert.False(t, a.Overlaps(&MemoryArea{Start: 0x1100, Size: 0x10}))
	assert.False(t, a.Overlaps(&MemoryArea{Base: 1, Start: 0x1000, Size: 0x10}))
}
