// Package label contains the symbolic names that are bound to addresses.
package label

import (
	"strconv"
	"strings"
)

// Type defines the type of a label. The low nibble holds the kind of the
// labeled content, the higher bits hold visibility and origin flags.
type Type uint16

// label kinds.
const (
	Unknown Type = iota
	Code
	Data
	String

	KindMask Type = 0x000f
)

// label flags.
const (
	Imported Type = 0x0010 << iota
	Exported
	Global
	Local
	AutoGenerated
)

// Label is a versioned symbolic name. Names are unique in a document, a
// collision is resolved by incrementing the version which is part of the
// displayed name.
type Label struct {
	Name    string
	Type    Type
	Version uint32
}

// New returns a new label with version 0.
func New(name string, typ Type) Label {
	return Label{Name: name, Type: typ}
}

// Kind returns the kind of the labeled content.
func (l Label) Kind() Type {
	return l.Type & KindMask
}

// IsEmpty returns whether the label has no name.
func (l Label) IsEmpty() bool {
	return l.Name == ""
}

// IsAutoGenerated returns whether the label was generated by an analysis
// pass instead of being set by the user.
func (l Label) IsAutoGenerated() bool {
	return l.Type&AutoGenerated != 0
}

// IsExportedOrImported returns whether the label is part of the interface
// of the binary.
func (l Label) IsExportedOrImported() bool {
	return l.Type&(Exported|Imported) != 0
}

// IncrementVersion returns the label with the next version.
func (l Label) IncrementVersion() Label {
	l.Version++
	return l
}

// DisplayName returns the unique name of the label including its version.
func (l Label) DisplayName() string {
	if l.Version == 0 {
		return l.Name
	}
	return l.Name + "_" + strconv.FormatUint(uint64(l.Version), 10)
}

func (l Label) String() string {
	return l.DisplayName()
}

// Normalize replaces all characters that are not usable in assembler
// identifiers by an underscore.
func Normalize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
