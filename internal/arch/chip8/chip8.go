package chip8

import (
	"fmt"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/arch"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrodoc/internal/stream"
	"github.com/retroenv/retrodoc/internal/tag"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// CHIP-8 memory layout.
const (
	// ProgramStart is the memory address that the first byte of a ROM file is loaded to.
	ProgramStart = 0x200
	// MaxAddress is the highest valid address of the 4KB address space.
	MaxAddress = 0xFFF
)

// opcodeSize is the size of all CHIP-8 instructions in bytes.
const opcodeSize = 2

// Name of the architecture.
const Name = "chip8"

// Tag is the architecture tag of CHIP-8 cells and memory areas.
var Tag = tag.Make(Name)

var _ arch.Architecture = (*Chip8)(nil)

// Chip8 decodes big endian 2 byte CHIP-8 instructions.
type Chip8 struct{}

// New returns a new CHIP-8 decoder.
func New() *Chip8 {
	return &Chip8{}
}

// Tag returns the architecture tag.
func (c *Chip8) Tag() tag.Tag {
	return Tag
}

// Name returns the architecture name.
func (c *Chip8) Name() string {
	return Name
}

// DefaultMode returns 0, CHIP-8 has a single decoding mode.
func (c *Chip8) DefaultMode(_ address.Address) uint8 {
	return 0
}

// Disassemble decodes the instruction at the given file offset.
func (c *Chip8) Disassemble(s stream.BinaryStream, fileOffset uint64, mode uint8) (*cell.Instruction, error) {
	buf := make([]byte, opcodeSize)
	n, err := s.Read(fileOffset, buf)
	if err != nil {
		return nil, fmt.Errorf("reading opcode: %w", err)
	}
	if n < opcodeSize {
		return nil, fmt.Errorf("opcode at %08x: %w", fileOffset, arch.ErrTruncated)
	}

	w := uint16(buf[0])<<8 | uint16(buf[1])
	opcode, ok := lookupOpcode(w)
	if !ok {
		return nil, fmt.Errorf("opcode %04x at %08x: %w", w, fileOffset, arch.ErrUnknownOpcode)
	}

	name := opcode.Instruction.Name
	insn := cell.NewInstruction(Tag, mode, opcodeSize)
	insn.Name = name
	insn.Operands = formatOperands(name, w)
	insn.Opcode = buf
	insn.Flow = flow(name, w)

	if target, ok := referencedAddress(name, w); ok {
		insn.Target = uint64(target)
		insn.HasTarget = true
	}
	return insn, nil
}

func lookupOpcode(w uint16) (chip8.Opcode, bool) {
	firstNibble := (w & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&w == op.Info.Value {
			return op, op.Instruction != nil
		}
	}
	return chip8.Opcode{}, false
}

func flow(name string, opcode uint16) cell.Flow {
	switch {
	case name == chip8.JpName && opcode&0xF000 == 0x1000:
		return cell.FlowJump
	case name == chip8.CallName:
		return cell.FlowCall
	case name == chip8.RetName:
		return cell.FlowReturn
	case chip8.SkipInstructions.Contains(name):
		return cell.FlowConditional
	default:
		return cell.FlowNone
	}
}

// referencedAddress returns the memory address that is referenced by
// JP addr, CALL addr and LD I, addr. Addresses inside the interpreter area
// are not returned.
func referencedAddress(name string, opcode uint16) (uint16, bool) {
	switch {
	case name == chip8.JpName && opcode&0xF000 == 0x1000:
	case name == chip8.CallName:
	case name == chip8.LdName && opcode&0xF000 == 0xA000:
	default:
		return 0, false
	}

	target := opcode & 0x0FFF
	if target < ProgramStart {
		return 0, false
	}
	return target, true
}
