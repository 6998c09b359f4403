// Package cell contains the typed interpretations of the bytes at an
// address. Data is the persisted, architecture agnostic part of a cell,
// Cell is the materialized view that is built from it on every fetch.
package cell

import (
	"fmt"

	"github.com/retroenv/retrodoc/internal/tag"
)

// Type defines the type of a cell.
type Type uint8

// cell types.
const (
	GenericType Type = iota // no cell or no backing store
	ValueType
	CharacterType
	StringType
	InstructionType
)

var typeNames = map[Type]string{
	GenericType:     "generic",
	ValueType:       "value",
	CharacterType:   "character",
	StringType:      "string",
	InstructionType: "instruction",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// value sub types.
const (
	ValueHexadecimal uint8 = iota
	ValueDecimal
	ValueOctal
	ValueBinary
	ValueSigned
	ValueFloat
	ValueReference
	ValueRelative
)

// character and string sub types.
const (
	ASCII uint8 = iota
	UTF16
)

// Data is the persisted representation of one addressable unit.
type Data struct {
	Type            Type
	SubType         uint8
	Length          uint16 // fixed at creation, resizing requires recreating the cell
	ArchitectureTag tag.Tag
	Mode            uint8
}

// Cell is the materialized view of a cell. It is implemented by *Value,
// *Character, *String and *Instruction only.
type Cell interface {
	Data() Data
	Type() Type
	SubType() uint8
	Length() uint16
	ArchitectureTag() tag.Tag
	Mode() uint8

	isCell()
}

type base struct {
	data Data
}

func (b *base) Data() Data               { return b.data }
func (b *base) Type() Type               { return b.data.Type }
func (b *base) SubType() uint8           { return b.data.SubType }
func (b *base) Length() uint16           { return b.data.Length }
func (b *base) ArchitectureTag() tag.Tag { return b.data.ArchitectureTag }
func (b *base) Mode() uint8              { return b.data.Mode }
func (b *base) isCell()                  {}

// FromData materializes a cell that does not need an architecture decoder.
// Instruction data can not be materialized without decoding and returns an
// error.
func FromData(data Data) (Cell, error) {
	switch data.Type {
	case ValueType:
		return &Value{base{data}}, nil
	case CharacterType:
		return &Character{base{data}}, nil
	case StringType:
		return &String{base{data}}, nil
	case InstructionType:
		return nil, fmt.Errorf("instruction cell needs decoding")
	default:
		return nil, fmt.Errorf("unsupported cell type %s", data.Type)
	}
}
