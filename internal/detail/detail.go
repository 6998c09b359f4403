// Package detail contains the static schema objects that describe values,
// types, structures and functions. Details are stored in the database and
// referenced by ID.
package detail

import "hash/fnv"

// ID identifies a detail in the database.
type ID uint64

// MakeID derives the ID of a detail from its name.
func MakeID(name string) ID {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return ID(h.Sum64())
}

// Kind defines how a value or type is interpreted.
type Kind uint8

// value and type kinds.
const (
	UnknownKind Kind = iota
	BinaryKind
	DecimalKind
	HexadecimalKind
	CharacterKind
	FloatKind
	SignedKind
	ReferenceKind
	RelativeKind  // offset relative to the parent structure, pointing to another structure
	CompositeKind // nested structure
)

// TypeDetail describes the storage type of a value.
type TypeDetail struct {
	Name    string
	Kind    Kind
	BitSize uint32
}

// ValueDetail describes how a value is interpreted. RefID references the
// structure of relative and composite values.
type ValueDetail struct {
	Name  string
	Kind  Kind
	RefID ID
}

// TypedValueDetail is a named field of a structure or a function parameter.
type TypedValueDetail struct {
	Type   TypeDetail
	Value  ValueDetail
	Name   string
	Offset uint32 // byte offset inside the parent structure
	Size   uint32 // size in bytes
}

// NewTypedValue returns a new typed value, its size is derived from the
// bit size of the type.
func NewTypedValue(typ TypeDetail, value ValueDetail, name string) TypedValueDetail {
	return TypedValueDetail{
		Type:  typ,
		Value: value,
		Name:  name,
		Size:  typ.BitSize / 8,
	}
}

// FunctionDetail describes the prototype of a function.
type FunctionDetail struct {
	Name       string
	ReturnType TypeDetail
	Parameters []TypedValueDetail
}
