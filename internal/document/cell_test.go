package document

import (
	"errors"
	"testing"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrodoc/internal/database"
	"github.com/retroenv/retrodoc/internal/label"
	"github.com/retroenv/retrodoc/internal/options"
	"github.com/retroenv/retrodoc/internal/tag"
	"github.com/retroenv/retrogolib/assert"
)

func TestDocument_SetCell(t *testing.T) {
	doc, rec := newTestDocument(t, make([]byte, 0x10), options.Document{})

	assert.NoError(t, doc.SetCell(addr(0x1000), cell.NewValue(cell.ValueDecimal, 4), false))
	assert.Equal(t, []string{"document", "address"}, rec.events)
	assert.Equal(t, []address.List{{addr(0x1000)}}, rec.addresses)

	c, ok := doc.Cell(addr(0x1000))
	assert.True(t, ok)
	assert.Equal(t, uint16(4), c.Length())
	assert.Equal(t, cell.ValueDecimal, c.SubType())

	_, ok = doc.Cell(addr(0x1002))
	assert.False(t, ok, "bytes inside a cell have no cell")

	rec.reset()
	assert.NoError(t, doc.SetCell(addr(0x1002), cell.NewValue(cell.ValueHexadecimal, 2), false))
	assert.Equal(t, []address.List{{addr(0x1002), addr(0x1000)}}, rec.addresses)

	c, ok = doc.Cell(addr(0x1000))
	assert.True(t, ok, "vacated bytes become unknown")
	assert.True(t, c.Data().IsUnknown())
	assert.Equal(t, mockTag, c.ArchitectureTag())
}

func TestDocument_SetCell_ErasedCrossReferences(t *testing.T) {
	doc, _ := newTestDocument(t, make([]byte, 0x10), options.Document{})

	assert.NoError(t, doc.SetCell(addr(0x1001), cell.NewValue(cell.ValueHexadecimal, 1), false))
	assert.NoError(t, doc.AddCrossReference(addr(0x100a), addr(0x1001)))

	assert.NoError(t, doc.SetCell(addr(0x1000), cell.NewValue(cell.ValueHexadecimal, 4), false))
	assert.False(t, doc.HasCrossReferenceTo(addr(0x1001)))
	assert.False(t, doc.HasCrossReferenceFrom(addr(0x100a)))
}

func TestDocument_SetCell_ErasedReferencedLabel(t *testing.T) {
	doc, rec := newTestDocument(t, make([]byte, 0x10), options.Document{})
	table := label.New("table", label.Data)

	assert.NoError(t, doc.SetCell(addr(0x1001), cell.NewValue(cell.ValueHexadecimal, 1), false))
	assert.NoError(t, doc.AddLabel(addr(0x1001), table, false))
	assert.NoError(t, doc.AddCrossReference(addr(0x1001), addr(0x100a)))

	rec.reset()
	assert.NoError(t, doc.SetCell(addr(0x1000), cell.NewValue(cell.ValueHexadecimal, 4), false))
	assert.Equal(t, []string{"label", "document", "address"}, rec.events)
	assert.Equal(t, []labelEvent{{addr: addr(0x1001), label: table, removed: true}}, rec.labels)
	assert.Equal(t, []address.List{{addr(0x1000), addr(0x1001)}}, rec.addresses)
}

func TestDocument_SetCell_Instruction(t *testing.T) {
	doc, _ := newTestDocument(t, []byte{0x01, 0xff, 0x02, 0x03}, options.Document{})

	assert.NoError(t, doc.SetCell(addr(0x1000), cell.NewInstruction(mockTag, 0, 1), false))
	c, ok := doc.Cell(addr(0x1000))
	assert.True(t, ok)
	insn, ok := c.(*cell.Instruction)
	assert.True(t, ok)
	assert.Equal(t, "op", insn.Name)
	assert.True(t, doc.ContainsCode(addr(0x1000)))

	err := doc.SetCell(addr(0x1000), cell.NewValue(cell.ValueHexadecimal, 2), false)
	assert.True(t, errors.Is(err, ErrForceRequired))
	assert.True(t, errors.Is(err, database.ErrInstructionOverwrite))
	assert.Equal(t, cell.InstructionType, doc.CellType(addr(0x1000)))

	assert.NoError(t, doc.SetCell(addr(0x1000), cell.NewValue(cell.ValueHexadecimal, 2), true))
	assert.Equal(t, cell.ValueType, doc.CellType(addr(0x1000)))
}

func TestDocument_Cell_Undecodable(t *testing.T) {
	doc, _ := newTestDocument(t, []byte{0x01, 0xff, 0x02, 0x03}, options.Document{})

	assert.NoError(t, doc.SetCell(addr(0x1001), cell.NewInstruction(mockTag, 0, 1), false))
	_, ok := doc.Cell(addr(0x1001))
	assert.False(t, ok)
	assert.Equal(t, cell.InstructionType, doc.CellType(addr(0x1001)))

	assert.NoError(t, doc.SetCell(addr(0x1002), cell.NewInstruction(tag.Make("other"), 0, 1), false))
	_, ok = doc.Cell(addr(0x1002))
	assert.False(t, ok, "unregistered architecture")
}

func TestDocument_SetCellWithLabel(t *testing.T) {
	doc, rec := newTestDocument(t, make([]byte, 0x10), options.Document{})
	exported := label.New("entry", label.Data|label.Exported)
	value := cell.NewValue(cell.ValueHexadecimal, 2)

	assert.NoError(t, doc.SetCellWithLabel(addr(0x1000), value, exported, false))
	lbl, ok := doc.Label(addr(0x1000))
	assert.True(t, ok)
	assert.Equal(t, exported, lbl)
	assert.Equal(t, []string{"label", "document", "address"}, rec.events)

	err := doc.SetCellWithLabel(addr(0x1000), value, label.New("other", label.Data), false)
	assert.True(t, errors.Is(err, ErrForceRequired))
	lbl, _ = doc.Label(addr(0x1000))
	assert.Equal(t, exported, lbl)

	assert.NoError(t, doc.SetCellWithLabel(addr(0x1000), value, exported, true))

	rec.reset()
	other := label.New("other", label.Data|label.Exported)
	assert.NoError(t, doc.SetCellWithLabel(addr(0x1000), value, other, true))
	assert.Equal(t, []string{"label", "label", "document", "address"}, rec.events)
	assert.Equal(t, []labelEvent{
		{addr: addr(0x1000), label: exported, removed: true},
		{addr: addr(0x1000), label: other, removed: false},
	}, rec.labels)
	assert.Equal(t, []address.List{{addr(0x1000)}}, rec.addresses)
	lbl, _ = doc.Label(addr(0x1000))
	assert.Equal(t, other, lbl)
	_, ok = doc.LabelAddress("entry")
	assert.False(t, ok)
}

func TestDocument_DeleteCell(t *testing.T) {
	doc, rec := newTestDocument(t, make([]byte, 0x10), options.Document{})

	// label without inbound references is removed with the cell
	assert.NoError(t, doc.SetCell(addr(0x1000), cell.NewInstruction(mockTag, 0, 1), false))
	assert.NoError(t, doc.AddLabel(addr(0x1000), label.New("sub", label.Code), false))
	assert.NoError(t, doc.AddCrossReference(addr(0x1005), addr(0x1000)))
	assert.NoError(t, doc.DeleteCell(addr(0x1000)))
	_, ok := doc.Label(addr(0x1000))
	assert.False(t, ok)

	// referenced label is kept
	assert.NoError(t, doc.SetCell(addr(0x1002), cell.NewInstruction(mockTag, 0, 1), false))
	assert.NoError(t, doc.AddLabel(addr(0x1002), label.New("loop", label.Code), false))
	assert.NoError(t, doc.AddCrossReference(addr(0x1002), addr(0x1004)))
	assert.NoError(t, doc.DeleteCell(addr(0x1002)))
	_, ok = doc.Label(addr(0x1002))
	assert.True(t, ok)

	// exported label is kept without inbound references
	exported := label.New("vector", label.Data|label.Exported)
	assert.NoError(t, doc.SetCell(addr(0x1006), cell.NewValue(cell.ValueHexadecimal, 2), false))
	assert.NoError(t, doc.AddLabel(addr(0x1006), exported, false))
	rec.reset()
	assert.NoError(t, doc.DeleteCell(addr(0x1006)))
	assert.Equal(t, []string{"address", "document"}, rec.events)
	assert.Equal(t, []address.List{{addr(0x1006)}}, rec.addresses)
	lbl, ok := doc.Label(addr(0x1006))
	assert.True(t, ok)
	assert.Equal(t, exported, lbl)

	err := doc.DeleteCell(addr(0x1003))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDocument_ChangeValueSize(t *testing.T) {
	doc, _ := newTestDocument(t, make([]byte, 0x10), options.Document{})

	assert.NoError(t, doc.SetCell(addr(0x1000), cell.NewValue(cell.ValueDecimal, 8), false))
	assert.NoError(t, doc.ChangeValueSize(addr(0x1000), 16, false))

	c, ok := doc.Cell(addr(0x1000))
	assert.True(t, ok)
	assert.Equal(t, uint16(2), c.Length())
	assert.Equal(t, cell.ValueDecimal, c.SubType())

	for offset := uint64(0x1002); offset < 0x1008; offset++ {
		c, ok := doc.Cell(addr(offset))
		assert.True(t, ok)
		assert.Equal(t, cell.ValueType, c.Type())
		assert.Equal(t, uint16(1), c.Length())
	}

	err := doc.ChangeValueSize(addr(0x1000), 7, false)
	assert.True(t, errors.Is(err, ErrInvalidSize))
	err = doc.ChangeValueSize(addr(0x1001), 8, false)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDocument_ChangeValueSize_Instruction(t *testing.T) {
	doc, _ := newTestDocument(t, make([]byte, 0x10), options.Document{})
	assert.NoError(t, doc.SetCell(addr(0x1008), cell.NewInstruction(mockTag, 0, 1), false))

	err := doc.ChangeValueSize(addr(0x1008), 8, false)
	assert.True(t, errors.Is(err, ErrForceRequired))

	assert.NoError(t, doc.ChangeValueSize(addr(0x1008), 32, true))
	c, ok := doc.Cell(addr(0x1008))
	assert.True(t, ok)
	assert.Equal(t, cell.ValueHexadecimal, c.SubType())
	assert.Equal(t, uint16(4), c.Length())
}

func TestDocument_MakeString(t *testing.T) {
	doc, _ := newTestDocument(t, []byte("AB\x00\x00XY"), options.Document{})

	assert.NoError(t, doc.MakeString(addr(0x1000), cell.ASCII, 10, false))
	c, ok := doc.Cell(addr(0x1000))
	assert.True(t, ok)
	assert.Equal(t, cell.StringType, c.Type())
	assert.Equal(t, uint16(3), c.Length())

	tests := []struct {
		name      string
		offset    uint64
		maxLength uint16
	}{
		{name: "too long", offset: 0x1000, maxLength: 2},
		{name: "empty", offset: 0x1003, maxLength: 10},
		{name: "no terminator", offset: 0x1004, maxLength: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := doc.MakeString(addr(tt.offset), cell.ASCII, tt.maxLength, true)
			assert.True(t, errors.Is(err, ErrStringNotFound))
		})
	}
}
