package cell

import (
	"strings"

	"github.com/retroenv/retrodoc/internal/tag"
)

// Flow describes how an instruction changes the program flow.
type Flow uint8

// instruction flow types.
const (
	FlowNone        Flow = iota // execution continues with the next instruction
	FlowJump                    // unconditional jump
	FlowConditional             // conditional branch or skip
	FlowCall                    // subroutine call
	FlowReturn                  // return from subroutine or interrupt
)

// Instruction is a decoded instruction. It is recomputed by the architecture
// decoder on every fetch and never persisted.
type Instruction struct {
	base

	Name     string // mnemonic
	Operands string // formatted operands
	Opcode   []byte // all bytes of the instruction
	Flow     Flow

	// Target is the referenced logical address, valid if HasTarget is set.
	// For relative instructions Target is unset and Displacement holds the
	// distance from the instruction start.
	Target       uint64
	HasTarget    bool
	Relative     bool
	Displacement int64
}

// NewInstruction returns an instruction cell for the given architecture.
func NewInstruction(arch tag.Tag, mode uint8, length uint16) *Instruction {
	return &Instruction{base: base{Data{
		Type:            InstructionType,
		Length:          length,
		ArchitectureTag: arch,
		Mode:            mode,
	}}}
}

// SetLength sets the decoded length of the instruction.
func (i *Instruction) SetLength(length uint16) {
	i.data.Length = length
}

func (i *Instruction) String() string {
	if i.Operands == "" {
		return i.Name
	}
	var sb strings.Builder
	sb.WriteString(i.Name)
	sb.WriteByte(' ')
	sb.WriteString(i.Operands)
	return sb.String()
}
