package m6502

import (
	"fmt"

	"github.com/retroenv/retrodoc/internal/cell"
	m6502 "github.com/retroenv/retrogolib/arch/cpu/cpu6502"
)

// paramSize returns the amount of parameter bytes following the opcode byte.
func paramSize(addressing m6502.AddressingMode) int {
	switch addressing {
	case m6502.ImpliedAddressing, m6502.AccumulatorAddressing:
		return 0

	case m6502.AbsoluteAddressing, m6502.AbsoluteXAddressing, m6502.AbsoluteYAddressing,
		m6502.IndirectAddressing:
		return 2

	default:
		return 1
	}
}

// setParam formats the parameter bytes in ca65 syntax and sets the
// referenced target of absolute and relative addressing.
func setParam(insn *cell.Instruction, addressing m6502.AddressingMode, param []byte) {
	var b byte
	var w uint16
	if len(param) > 0 {
		b = param[0]
	}
	if len(param) > 1 {
		w = uint16(param[1])<<8 | uint16(param[0])
	}

	switch addressing {
	case m6502.ImpliedAddressing:

	case m6502.AccumulatorAddressing:
		insn.Operands = "a"

	case m6502.ImmediateAddressing:
		insn.Operands = fmt.Sprintf("#$%02X", b)

	case m6502.ZeroPageAddressing:
		insn.Operands = fmt.Sprintf("$%02X", b)
		setTarget(insn, uint64(b))

	case m6502.ZeroPageXAddressing:
		insn.Operands = fmt.Sprintf("$%02X,X", b)

	case m6502.ZeroPageYAddressing:
		insn.Operands = fmt.Sprintf("$%02X,Y", b)

	case m6502.AbsoluteAddressing:
		insn.Operands = fmt.Sprintf("$%04X", w)
		setTarget(insn, uint64(w))

	case m6502.AbsoluteXAddressing:
		insn.Operands = fmt.Sprintf("$%04X,X", w)

	case m6502.AbsoluteYAddressing:
		insn.Operands = fmt.Sprintf("$%04X,Y", w)

	case m6502.IndirectAddressing:
		insn.Operands = fmt.Sprintf("($%04X)", w)

	case m6502.IndirectXAddressing:
		insn.Operands = fmt.Sprintf("($%02X,X)", b)

	case m6502.IndirectYAddressing:
		insn.Operands = fmt.Sprintf("($%02X),Y", b)

	case m6502.RelativeAddressing:
		// the displacement is relative to the following instruction
		displacement := int64(int8(b)) + 2
		insn.Operands = fmt.Sprintf("*%+d", displacement)
		insn.Relative = true
		insn.Displacement = displacement
		insn.HasTarget = true
	}
}

func setTarget(insn *cell.Instruction, target uint64) {
	insn.Target = target
	insn.HasTarget = true
}
