package listing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/arch"
	"github.com/retroenv/retrodoc/internal/arch/m6502"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrodoc/internal/database/memory"
	"github.com/retroenv/retrodoc/internal/document"
	"github.com/retroenv/retrodoc/internal/label"
	"github.com/retroenv/retrodoc/internal/options"
	"github.com/retroenv/retrodoc/internal/stream"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestDocument(t *testing.T, data []byte, osName string) *document.Document {
	t.Helper()

	registry, err := arch.NewRegistry(m6502.New(false))
	assert.NoError(t, err)

	db := memory.New()
	assert.NoError(t, db.SetOperatingSystemName(osName))

	doc := document.New(log.NewTestLogger(t), registry, stream.New(data, stream.LittleEndian), options.Document{})
	assert.NoError(t, doc.Use(db))
	assert.NoError(t, doc.AddMemoryArea(&address.MemoryArea{
		Name:            "prg",
		Start:           0x8000,
		Size:            uint64(len(data)),
		FileSize:        uint64(len(data)),
		ArchitectureTag: m6502.Tag,
	}))
	return doc
}

func TestWriter_Write(t *testing.T) {
	data := []byte{
		0xa9, 0x01,     // lda #$01
		0x60,           // rts
		'H', 'I', 0x00, // string
		0x34, 0x12,     // word
		0xff, 0xff,
	}
	doc := newTestDocument(t, data, "nes")
	assert.NoError(t, doc.AddMemoryArea(&address.MemoryArea{Name: "ram", Size: 0x800, ArchitectureTag: m6502.Tag}))

	assert.NoError(t, doc.SetCell(address.New(0, 0x8000), cell.NewInstruction(m6502.Tag, 0, 2), false))
	assert.NoError(t, doc.SetCell(address.New(0, 0x8002), cell.NewInstruction(m6502.Tag, 0, 1), false))
	assert.NoError(t, doc.MakeString(address.New(0, 0x8003), cell.ASCII, 10, false))
	assert.NoError(t, doc.SetCell(address.New(0, 0x8006), cell.NewValue(cell.ValueHexadecimal, 2), false))

	assert.NoError(t, doc.AddLabel(address.New(0, 0x8000), label.New("reset", label.Code|label.Exported), false))
	assert.NoError(t, doc.AddLabel(address.New(0, 0x8003), label.New("msg", label.Data), false))
	assert.NoError(t, doc.AddLabel(address.New(0, 0x0020), label.New("_var_0020", label.Data|label.AutoGenerated), false))
	assert.NoError(t, doc.AddCrossReference(address.New(0, 0x8003), address.New(0, 0x8000)))
	assert.NoError(t, doc.SetComment(address.New(0, 0x8002), "done"))

	buf := &bytes.Buffer{}
	w := New(doc, buf, Options{CrossReferences: true})
	assert.NoError(t, w.Write())

	expected :=
		"; System: nes\n" +
		"; Architectures: 6502\n" +
		"\n" +
		"_var_0020 = $0020\n" +
		"\n" +
		"; prg $8000-$8009\n" +
		"reset:\n" +
		"  lda #$01\n" +
		"  rts                            ; done\n" +
		"\n" +
		"msg:                             ; xref: $8000\n" +
		"  .byte \"HI\", $00\n" +
		"  .word $1234\n" +
		"  .byte $FF, $FF\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriter_Undecodable(t *testing.T) {
	doc := newTestDocument(t, []byte{0x02, 0x00}, "")
	assert.NoError(t, doc.SetCell(address.New(0, 0x8000), cell.NewInstruction(m6502.Tag, 0, 1), false))

	buf := &bytes.Buffer{}
	w := New(doc, buf, Options{OffsetComments: true})
	assert.NoError(t, w.Write())

	expected :=
		"; Architectures: 6502\n" +
		"\n" +
		"; prg $8000-$8001\n" +
		"  .byte $02                      ; undecodable instruction\n" +
		"\n" +
		"  .byte $00                      ; $8001\n"
	assert.Equal(t, expected, buf.String())
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name    string
		subType uint8
		size    int
		value   uint64
		want    string
	}{
		{name: "hexadecimal", subType: cell.ValueHexadecimal, size: 2, value: 0x1234, want: "$1234"},
		{name: "decimal", subType: cell.ValueDecimal, size: 1, value: 200, want: "200"},
		{name: "binary", subType: cell.ValueBinary, size: 1, value: 5, want: "%00000101"},
		{name: "signed", subType: cell.ValueSigned, size: 1, value: 0xff, want: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.subType, tt.size, tt.value))
		})
	}
}

func TestWriter_BundleDataWrites(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(nil, buf, Options{})

	data := make([]byte, 18)
	assert.NoError(t, w.BundleDataWrites(data, nil))
	assert.Equal(t, "  .byte "+strings.Repeat("$00, ", 15)+"$00\n  .byte $00, $00\n", buf.String())
}
