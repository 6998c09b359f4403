// Package arch contains types and functions used for multi architecture support.
// It acts as a bridge between the document and the architecture specific decoders.
package arch

import (
	"errors"

	"github.com/retroenv/retrodoc/internal/address"
	"github.com/retroenv/retrodoc/internal/cell"
	"github.com/retroenv/retrodoc/internal/stream"
	"github.com/retroenv/retrodoc/internal/tag"
)

var (
	// ErrUnknownOpcode indicates bytes that do not decode to an instruction.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrTruncated indicates an instruction that extends beyond the stream.
	ErrTruncated = errors.New("truncated instruction")
)

// Architecture decodes the instructions of one processor family.
type Architecture interface {
	// Tag returns the tag that cells and memory areas use to reference
	// the architecture.
	Tag() tag.Tag
	// Name returns the human readable name of the architecture.
	Name() string
	// DefaultMode returns the mode to decode instructions with at the given
	// address, 0 if the architecture has no opinion.
	DefaultMode(addr address.Address) uint8
	// Disassemble decodes the instruction at the given file offset.
	Disassemble(s stream.BinaryStream, fileOffset uint64, mode uint8) (*cell.Instruction, error)
}
