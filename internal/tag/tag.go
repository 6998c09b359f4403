// Package tag provides the architecture tag that binds memory areas and
// instruction cells to an architecture decoder.
package tag

import "strings"

// Tag identifies an architecture. It packs up to 4 ASCII characters.
type Tag uint32

// Unknown is the tag of data without an architecture.
const Unknown Tag = 0

// Make builds a tag from a short name, only the first 4 characters are used.
func Make(name string) Tag {
	var t Tag
	for i := 0; i < 4 && i < len(name); i++ {
		t = t<<8 | Tag(name[i])
	}
	return t
}

// String returns the characters that the tag was built from.
func (t Tag) String() string {
	if t == Unknown {
		return "unknown"
	}

	var sb strings.Builder
	for shift := 24; shift >= 0; shift -= 8 {
		c := byte(t >> uint(shift))
		if c != 0 {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
