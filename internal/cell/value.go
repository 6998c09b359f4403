package cell

// Value is an integer or floating point value of a fixed size.
type Value struct {
	base
}

// NewValue returns a new value cell.
func NewValue(subType uint8, length uint16) *Value {
	return &Value{base{Data{
		Type:    ValueType,
		SubType: subType,
		Length:  length,
	}}}
}

// Unknown returns a single byte value, the cell of bytes that were not
// identified yet.
func Unknown() *Value {
	return NewValue(ValueHexadecimal, 1)
}

// IsUnknown returns whether the data describes an unidentified byte.
func (d Data) IsUnknown() bool {
	return d.Type == ValueType && d.Length == 1
}

// Character is a single character.
type Character struct {
	base
}

// NewCharacter returns a new character cell.
func NewCharacter(subType uint8, length uint16) *Character {
	return &Character{base{Data{
		Type:    CharacterType,
		SubType: subType,
		Length:  length,
	}}}
}

// String is a character sequence, including its terminator.
type String struct {
	base
}

// NewString returns a new string cell.
func NewString(subType uint8, length uint16) *String {
	return &String{base{Data{
		Type:    StringType,
		SubType: subType,
		Length:  length,
	}}}
}
