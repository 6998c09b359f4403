package chip8

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// formatOperands returns the operands of the instruction in assembler syntax.
func formatOperands(name string, opcode uint16) string {
	switch name {
	case chip8.ClsName, chip8.RetName:
		return ""
	case chip8.JpName:
		return formatJumpInstruction(opcode)
	case chip8.CallName:
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case chip8.SeName, chip8.SneName:
		return formatCompareInstruction(opcode)
	case chip8.LdName:
		return formatLoadInstruction(opcode)
	case chip8.AddName:
		return formatAddInstruction(opcode)
	case chip8.OrName, chip8.AndName, chip8.XorName, chip8.SubName, chip8.SubnName:
		return formatBinaryInstruction(opcode)
	case chip8.ShrName, chip8.ShlName:
		return formatShiftInstruction(opcode)
	case chip8.RndName:
		return formatRandomInstruction(opcode)
	case chip8.DrwName:
		return formatDrawInstruction(opcode)
	case chip8.SkpName, chip8.SknpName:
		return formatSkipInstruction(opcode)
	}
	return ""
}

// formatJumpInstruction formats jump instructions (JP addr, JP V0+addr).
func formatJumpInstruction(opcode uint16) string {
	if opcode&0xF000 == 0x1000 {
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	}
	if opcode&0xF000 == 0xB000 {
		return fmt.Sprintf("V0, $%03X", opcode&0x0FFF)
	}
	return ""
}

// formatCompareInstruction formats comparison instructions (SE, SNE).
func formatCompareInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	// SE/SNE instructions:
	// 3XNN: SE Vx, byte
	// 4XNN: SNE Vx, byte
	// 5XY0: SE Vx, Vy
	// 9XY0: SNE Vx, Vy
	switch opcode & 0xF000 {
	case 0x3000, 0x4000:
		// SE/SNE Vx, byte
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x5000, 0x9000:
		// SE/SNE Vx, Vy
		y := extractRegisterY(opcode)
		return fmt.Sprintf("V%X, V%X", x, y)
	}
	return ""
}

// formatLoadInstruction formats load instructions (LD Vx, byte/Vy/I).
func formatLoadInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	switch opcode & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		y := extractRegisterY(opcode)
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", opcode&0x0FFF)
	}
	return ""
}

// formatAddInstruction formats add instructions (ADD Vx, byte/Vy).
func formatAddInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	if opcode&0xF000 == 0x7000 {
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	}
	if opcode&0xF000 == 0x8000 {
		y := extractRegisterY(opcode)
		return fmt.Sprintf("V%X, V%X", x, y)
	}
	return ""
}

// formatBinaryInstruction formats binary operation instructions (OR, AND, XOR, SUB, SUBN).
func formatBinaryInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	y := extractRegisterY(opcode)
	return fmt.Sprintf("V%X, V%X", x, y)
}

// formatShiftInstruction formats shift instructions (SHR, SHL).
func formatShiftInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	return fmt.Sprintf("V%X", x)
}

// formatRandomInstruction formats random number instructions (RND).
func formatRandomInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
}

// formatDrawInstruction formats draw instructions (DRW).
func formatDrawInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	y := extractRegisterY(opcode)
	n := opcode & 0x000F
	return fmt.Sprintf("V%X, V%X, $%X", x, y, n)
}

// formatSkipInstruction formats skip instructions (SKP, SKNP).
func formatSkipInstruction(opcode uint16) string {
	x := extractRegisterX(opcode)
	return fmt.Sprintf("V%X", x)
}

// extractRegisterX extracts the X register nibble from a CHIP-8 opcode.
func extractRegisterX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

// extractRegisterY extracts the Y register nibble from a CHIP-8 opcode.
func extractRegisterY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}
