package m6502

import (
	"errors"
	"testing"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/arch"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrodoc/internal/stream"
	"github.com/retroenv/retrogolib/assert"
)

func TestDisassemble(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		want     string
		length   uint16
		flow     cell.Flow
		target   uint64
		relative bool
	}{
		{name: "implied", data: []byte{0xea}, want: "nop", length: 1},
		{name: "immediate", data: []byte{0xa9, 0x10}, want: "lda #$10", length: 2},
		{name: "absolute jump", data: []byte{0x4c, 0x00, 0x80}, want: "jmp $8000", length: 3, flow: cell.FlowJump, target: 0x8000},
		{name: "call", data: []byte{0x20, 0x34, 0x12}, want: "jsr $1234", length: 3, flow: cell.FlowCall, target: 0x1234},
		{name: "return", data: []byte{0x60}, want: "rts", length: 1, flow: cell.FlowReturn},
		{name: "indirect y", data: []byte{0xb1, 0x20}, want: "lda ($20),Y", length: 2},
		{name: "branch forward", data: []byte{0xd0, 0x03}, want: "bne *+5", length: 2, flow: cell.FlowConditional, relative: true},
		{name: "branch backward", data: []byte{0xd0, 0xfe}, want: "bne *+0", length: 2, flow: cell.FlowConditional, relative: true},
	}

	ar := New(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stream.New(tt.data, stream.LittleEndian)
			insn, err := ar.Disassemble(s, 0, 0)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, insn.String())
			assert.Equal(t, tt.length, insn.Length())
			assert.Equal(t, tt.flow, insn.Flow)
			assert.Equal(t, tt.relative, insn.Relative)
			assert.Equal(t, Tag, insn.ArchitectureTag())
			if tt.target != 0 {
				assert.True(t, insn.HasTarget)
				assert.Equal(t, tt.target, insn.Target)
			}
		})
	}
}

func TestDisassemble_Errors(t *testing.T) {
	ar := New(false)

	s := stream.New([]byte{0x4c, 0x00}, stream.LittleEndian)
	_, err := ar.Disassemble(s, 0, 0)
	assert.True(t, errors.Is(err, arch.ErrTruncated))

	s = stream.New([]byte{0x02}, stream.LittleEndian) // jam
	_, err = ar.Disassemble(s, 0, 0)
	assert.True(t, errors.Is(err, arch.ErrUnknownOpcode))

	_, err = ar.Disassemble(s, 8, 0)
	assert.True(t, errors.Is(err, stream.ErrOutOfRange))
}

func TestArch6502(t *testing.T) {
	ar := New(true)
	assert.Equal(t, "6502", ar.Name())
	assert.Equal(t, uint8(0), ar.DefaultMode(address.New(0, 0x8000)))
}
