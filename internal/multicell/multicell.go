// Package multicell contains entities that span a contiguous address range.
package multicell

import (
	"fmt"

	"github.com/retroenv/retrodoc/internal/detail"
)

// Type defines the type of a multicell.
type Type uint8

// multicell types.
const (
	Generic Type = iota
	Array
	Struct
	Function
)

var typeNames = map[Type]string{
	Generic:  "generic",
	Array:    "array",
	Struct:   "struct",
	Function: "function",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("multicell(%d)", uint8(t))
}

// MultiCell is a named range of cells. Struct and function multicells are
// bound to the detail with the given ID.
type MultiCell struct {
	Type Type
	ID   detail.ID
	Size uint32
}

// NewStruct returns a multicell that overlays the given structure.
func NewStruct(structure *detail.StructureDetail) MultiCell {
	return MultiCell{
		Type: Struct,
		ID:   structure.ID(),
		Size: structure.Size(),
	}
}
