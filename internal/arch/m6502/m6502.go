// Package m6502 provides the 6502 instruction decoder.
package m6502

import (
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/arch"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrodoc/internal/stream"
	"github.com/retroenv/retrodoc/internal/tag"
	m6502 "github.com/retroenv/retrogolib/arch/cpu/cpu6502"
)

// Name of the architecture.
const Name = "6502"

// Tag is the architecture tag of 6502 cells and memory areas.
var Tag = tag.Make(Name)

var _ arch.Architecture = &Arch6502{}

// Arch6502 decodes 6502 instructions using the retrogolib opcode table.
type Arch6502 struct {
	unofficial bool
}

// New returns a new 6502 decoder. Unofficial opcodes are only decoded if
// enabled, otherwise they are reported as unknown opcodes.
func New(unofficial bool) *Arch6502 {
	return &Arch6502{
		unofficial: unofficial,
	}
}

// Tag returns the architecture tag.
func (ar *Arch6502) Tag() tag.Tag {
	return Tag
}

// Name returns the architecture name.
func (ar *Arch6502) Name() string {
	return Name
}

// DefaultMode returns 0, the 6502 has a single decoding mode.
func (ar *Arch6502) DefaultMode(_ address.Address) uint8 {
	return 0
}

// Disassemble decodes the instruction at the given file offset.
func (ar *Arch6502) Disassemble(s stream.BinaryStream, fileOffset uint64, mode uint8) (*cell.Instruction, error) {
	buf := make([]byte, m6502.MaxOpcodeSize)
	n, err := s.Read(fileOffset, buf)
	if err != nil {
		return nil, fmt.Errorf("reading opcode: %w", err)
	}

	b := buf[0]
	opcode := m6502.Opcodes[b]
	if opcode.Instruction == nil || (opcode.Instruction.Unofficial && !ar.unofficial) {
		return nil, fmt.Errorf("byte %02x at %08x: %w", b, fileOffset, arch.ErrUnknownOpcode)
	}

	size := 1 + paramSize(opcode.Addressing)
	if size > n {
		return nil, fmt.Errorf("opcode %02x at %08x needs %d bytes: %w", b, fileOffset, size, arch.ErrTruncated)
	}

	insn := cell.NewInstruction(Tag, mode, uint16(size))
	insn.Name = opcode.Instruction.Name
	insn.Opcode = append([]byte(nil), buf[:size]...)
	setParam(insn, opcode.Addressing, buf[1:size])
	insn.Flow = flow(opcode.Instruction.Name, opcode.Addressing)
	return insn, nil
}

// flow classifies the effect of the instruction on the program flow.
func flow(name string, addressing m6502.AddressingMode) cell.Flow {
	switch {
	case name == m6502.JmpName:
		return cell.FlowJump
	case name == m6502.JsrName:
		return cell.FlowCall
	case addressing == m6502.RelativeAddressing:
		return cell.FlowConditional
	}

	if _, ok := m6502.NotExecutingFollowingOpcodeInstructions[name]; ok {
		return cell.FlowReturn
	}
	return cell.FlowNone
}
