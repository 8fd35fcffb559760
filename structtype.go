package softpipe

import "fmt"

// StructType describes the schema of a packed record: an ordered list of
// fields, each pairing a semantic with a scalar type. Fields are laid out
// contiguously in declaration order with no alignment padding, so the record
// size is the plain sum of the field widths. Within one struct every
// semantic appears at most once; the semantic is the lookup key.
type StructType struct {
	semantics []Semantic
	types     []ScalarType
	offsets   []int
	size      int
}

// AddField appends a field and returns its index. It fails with
// ErrDuplicateSemantic when the semantic is already present and with
// ErrUnsupportedType for types without a storage layout.
func (st *StructType) AddField(sem Semantic, typ ScalarType) (int, error) {
	for _, s := range st.semantics {
		if s == sem {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateSemantic, sem)
		}
	}
	width, err := typ.Size()
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", sem, err)
	}
	st.semantics = append(st.semantics, sem)
	st.types = append(st.types, typ)
	st.offsets = append(st.offsets, st.size)
	st.size += width
	return len(st.types) - 1, nil
}

// FieldIndex returns the index of the field with the given semantic.
// When the semantic is absent it returns NumFields; callers probe for
// presence by comparing against NumFields before indexing.
func (st *StructType) FieldIndex(sem Semantic) int {
	for i, s := range st.semantics {
		if s == sem {
			return i
		}
	}
	return len(st.semantics)
}

// FieldSemantic returns the semantic of field i.
func (st *StructType) FieldSemantic(i int) Semantic { return st.semantics[i] }

// FieldType returns the scalar type of field i.
func (st *StructType) FieldType(i int) ScalarType { return st.types[i] }

// FieldOffset returns the byte offset of field i within the record.
func (st *StructType) FieldOffset(i int) int { return st.offsets[i] }

// NumFields returns the number of fields.
func (st *StructType) NumFields() int { return len(st.semantics) }

// Size returns the packed record size in bytes.
func (st *StructType) Size() int { return st.size }

// Reset removes all fields.
func (st *StructType) Reset() {
	st.semantics = st.semantics[:0]
	st.types = st.types[:0]
	st.offsets = st.offsets[:0]
	st.size = 0
}

// StructValue references one packed record laid out per a StructType.
type StructValue struct {
	typ *StructType
	buf []byte
}

// Layout returns the record schema.
func (sv StructValue) Layout() *StructType { return sv.typ }

// ChannelBytes returns the storage window of field i. It implements the
// Record interface used for port binding.
func (sv StructValue) ChannelBytes(i int) []byte {
	off := sv.typ.FieldOffset(i)
	width := sizeOf(sv.typ.FieldType(i))
	return sv.buf[off : off+width]
}

// Field returns a typed value bound to field i.
func (sv StructValue) Field(i int) Value {
	return ValueOf(sv.typ.FieldType(i), sv.ChannelBytes(i))
}
