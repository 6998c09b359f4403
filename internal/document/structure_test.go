package document

import (
	"errors"
	"testing"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/arch"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrodoc/internal/database"
	"github.com/retroenv/retrodoc/internal/database/memory"
	"github.com/retroenv/retrodoc/internal/detail"
	"github.com/retroenv/retrodoc/internal/multicell"
	"github.com/retroenv/retrodoc/internal/options"
	"github.com/retroenv/retrodoc/internal/stream"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

var errStoreFailed = errors.New("store failed")

// failingMultiCellStore rejects all multicells.
type failingMultiCellStore struct {
	database.Database
}

func (failingMultiCellStore) AddMultiCell(_ address.Address, _ multicell.MultiCell) error {
	return errStoreFailed
}

var (
	u8  = detail.TypeDetail{Name: "u8", Kind: detail.HexadecimalKind, BitSize: 8}
	u16 = detail.TypeDetail{Name: "u16", Kind: detail.HexadecimalKind, BitSize: 16}
)

func TestDocument_SetMultiCell_RelativeStructure(t *testing.T) {
	data := make([]byte, 0x20)
	data[0] = 0x10
	doc, _ := newTestDocument(t, data, options.Document{})

	target := detail.NewStructure("T").
		AddField(u16, detail.ValueDetail{Kind: detail.HexadecimalKind}, "x")
	outer := detail.NewStructure("S").
		AddField(u8, detail.ValueDetail{Kind: detail.RelativeKind, RefID: target.ID()}, "ptr")
	assert.NoError(t, doc.SetStructureDetail(target))
	assert.NoError(t, doc.SetStructureDetail(outer))

	mc := multicell.NewStruct(outer)
	assert.NoError(t, doc.SetMultiCell(addr(0x1000), mc, false))

	comment, ok := doc.Comment(addr(0x1000))
	assert.True(t, ok)
	assert.Equal(t, "struct S ptr", comment)
	comment, ok = doc.Comment(addr(0x1010))
	assert.True(t, ok)
	assert.Equal(t, "struct T x", comment)

	refs, ok := doc.CrossReferenceFrom(addr(0x1010))
	assert.True(t, ok)
	assert.Equal(t, address.List{addr(0x1000)}, refs)

	c, ok := doc.Cell(addr(0x1010))
	assert.True(t, ok)
	assert.Equal(t, cell.ValueType, c.Type())
	assert.Equal(t, uint16(2), c.Length())

	got, ok := doc.MultiCell(addr(0x1000))
	assert.True(t, ok)
	assert.Equal(t, mc, got)

	err := doc.SetMultiCell(addr(0x1000), mc, false)
	assert.True(t, errors.Is(err, ErrMultiCellExists))
	assert.NoError(t, doc.SetMultiCell(addr(0x1000), multicell.MultiCell{Type: multicell.Array, Size: 4}, true))
}

func TestDocument_SetMultiCell_RelativeTargetPartiallyApplied(t *testing.T) {
	data := make([]byte, 0x20)
	data[0] = 0x10
	doc, _ := newTestDocument(t, data, options.Document{})

	target := detail.NewStructure("T").
		AddField(u16, detail.ValueDetail{Kind: detail.HexadecimalKind}, "x").
		AddField(u8, detail.ValueDetail{Kind: detail.RelativeKind, RefID: detail.MakeID("missing")}, "dangling")
	outer := detail.NewStructure("S").
		AddField(u8, detail.ValueDetail{Kind: detail.RelativeKind, RefID: target.ID()}, "ptr")
	assert.NoError(t, doc.SetStructureDetail(target))
	assert.NoError(t, doc.SetStructureDetail(outer))

	assert.NoError(t, doc.SetMultiCell(addr(0x1000), multicell.NewStruct(outer), false))

	comment, ok := doc.Comment(addr(0x1010))
	assert.True(t, ok)
	assert.Equal(t, "struct T x", comment)

	refs, ok := doc.CrossReferenceFrom(addr(0x1010))
	assert.True(t, ok)
	assert.Equal(t, address.List{addr(0x1000)}, refs)
}

func TestDocument_ApplyRelative_RecursionLimitAddsNoReference(t *testing.T) {
	doc, _ := newTestDocument(t, make([]byte, 0x10), options.Document{MaxStructureDepth: 1})

	self := detail.NewStructure("L")
	self.AddField(u8, detail.ValueDetail{Kind: detail.RelativeKind, RefID: self.ID()}, "next")
	assert.NoError(t, doc.SetStructureDetail(self))

	err := doc.applyStructure(addr(0x1000), self, 0)
	assert.True(t, errors.Is(err, ErrRecursionLimit))

	_, ok := doc.CrossReferenceFrom(addr(0x1000))
	assert.False(t, ok)
}

func TestDocument_SetMultiCell_StoreFailure(t *testing.T) {
	registry, err := arch.NewRegistry(mockArch{})
	assert.NoError(t, err)

	doc := New(log.NewTestLogger(t), registry, stream.New(make([]byte, 0x10), stream.LittleEndian), options.Document{})
	assert.NoError(t, doc.Use(failingMultiCellStore{Database: memory.New()}))

	err = doc.SetMultiCell(addr(0x1000), multicell.MultiCell{Type: multicell.Array, Size: 4}, false)
	assert.True(t, errors.Is(err, errStoreFailed))

	_, ok := doc.MultiCell(addr(0x1000))
	assert.False(t, ok)
}

func TestDocument_ApplyStructure_RecursionLimit(t *testing.T) {
	doc, _ := newTestDocument(t, make([]byte, 0x10), options.Document{MaxStructureDepth: 2})

	self := detail.NewStructure("R")
	self.AddField(detail.TypeDetail{Name: "R", Kind: detail.CompositeKind, BitSize: 8},
		detail.ValueDetail{Kind: detail.CompositeKind, RefID: self.ID()}, "self")
	assert.NoError(t, doc.SetStructureDetail(self))

	err := doc.applyStructure(addr(0x1000), self, 0)
	assert.True(t, errors.Is(err, ErrRecursionLimit))

	assert.NoError(t, doc.SetMultiCell(addr(0x1004), multicell.NewStruct(self), false))
	comment, _ := doc.Comment(addr(0x1004))
	assert.Contains(t, comment, "struct R self")
}

func TestDocument_ApplyStructure_BestEffort(t *testing.T) {
	doc, _ := newTestDocument(t, make([]byte, 0x10), options.Document{})

	partial := detail.NewStructure("P").
		AddField(u8, detail.ValueDetail{Kind: detail.RelativeKind, RefID: detail.MakeID("missing")}, "a").
		AddField(u16, detail.ValueDetail{Kind: detail.DecimalKind}, "b")

	err := doc.applyStructure(addr(0x1000), partial, 0)
	assert.True(t, errors.Is(err, ErrNotFound))

	comment, _ := doc.Comment(addr(0x1000))
	assert.Equal(t, "struct P a", comment)
	comment, _ = doc.Comment(addr(0x1001))
	assert.Equal(t, "struct P b", comment)

	c, ok := doc.Cell(addr(0x1001))
	assert.True(t, ok)
	assert.Equal(t, uint16(2), c.Length())
}

func TestDocument_Details(t *testing.T) {
	doc, rec := newTestDocument(t, make([]byte, 0x10), options.Document{})

	value := detail.ValueDetail{Name: "ppu_ctrl", Kind: detail.BinaryKind}
	id := detail.MakeID(value.Name)
	assert.NoError(t, doc.SetValueDetail(id, value))
	got, ok := doc.ValueDetail(id)
	assert.True(t, ok)
	assert.Equal(t, value, got)

	function := detail.FunctionDetail{
		Name:       "wait_vblank",
		Parameters: []detail.TypedValueDetail{detail.NewTypedValue(u8, detail.ValueDetail{}, "frames")},
	}
	assert.NoError(t, doc.SetFunctionDetail(detail.MakeID(function.Name), function))
	fn, ok := doc.FunctionDetail(detail.MakeID(function.Name))
	assert.True(t, ok)
	assert.Equal(t, "frames", fn.Parameters[0].Name)

	assert.NoError(t, doc.BindDetailID(addr(0x1000), 1, id))
	bound, ok := doc.RetrieveDetailID(addr(0x1000), 1)
	assert.True(t, ok)
	assert.Equal(t, id, bound)
	assert.NoError(t, doc.UnbindDetailID(addr(0x1000), 1))
	_, ok = doc.RetrieveDetailID(addr(0x1000), 1)
	assert.False(t, ok)

	rec.reset()
	assert.NoError(t, doc.SetComment(addr(0x1000), "vector"))
	assert.Equal(t, []string{"document"}, rec.events)
	assert.NoError(t, doc.SetComment(addr(0x1000), ""))
	_, ok = doc.Comment(addr(0x1000))
	assert.False(t, ok)
}
