package detail

// StructureDetail is a named aggregate of typed fields.
type StructureDetail struct {
	Name   string
	Fields []TypedValueDetail
}

// NewStructure returns an empty structure.
func NewStructure(name string) *StructureDetail {
	return &StructureDetail{Name: name}
}

// ID returns the ID that the structure is stored under.
func (s *StructureDetail) ID() ID {
	return MakeID(s.Name)
}

// AddField appends a field directly after the last field.
func (s *StructureDetail) AddField(typ TypeDetail, value ValueDetail, name string) *StructureDetail {
	field := NewTypedValue(typ, value, name)
	field.Offset = s.Size()
	s.Fields = append(s.Fields, field)
	return s
}

// AddFieldAt adds a field at an explicit offset.
func (s *StructureDetail) AddFieldAt(offset uint32, typ TypeDetail, value ValueDetail, name string) *StructureDetail {
	field := NewTypedValue(typ, value, name)
	field.Offset = offset
	s.Fields = append(s.Fields, field)
	return s
}

// Size returns the size of the structure in bytes.
func (s *StructureDetail) Size() uint32 {
	var size uint32
	for _, field := range s.Fields {
		if end := field.Offset + field.Size; end > size {
			size = end
		}
	}
	return size
}

// ForEachField calls fn for every field in definition order until fn
// returns false.
func (s *StructureDetail) ForEachField(fn func(offset uint32, field TypedValueDetail) bool) {
	for _, field := range s.Fields {
		if !fn(field.Offset, field) {
			return
		}
	}
}
