package softpipe

import (
	"errors"
	"testing"
)

func TestStructTypePackedLayout(t *testing.T) {
	var st StructType

	if st.Size() != 0 || st.NumFields() != 0 {
		t.Fatalf("empty struct: size=%d fields=%d, want 0/0", st.Size(), st.NumFields())
	}

	fields := []struct {
		sem  Semantic
		typ  ScalarType
		off  int
		size int
	}{
		{Position0, TypeFloat3, 0, 12},
		{SVPosition, TypeFloat4, 12, 16},
		{Texcoord0, TypeFloat2, 28, 8},
		{Color0, TypeFloat, 36, 4},
	}

	for i, f := range fields {
		idx, err := st.AddField(f.sem, f.typ)
		if err != nil {
			t.Fatalf("AddField(%s): %v", f.sem, err)
		}
		if idx != i {
			t.Errorf("AddField(%s) index = %d, want %d", f.sem, idx, i)
		}
		if got := st.FieldOffset(idx); got != f.off {
			t.Errorf("FieldOffset(%d) = %d, want %d", idx, got, f.off)
		}
	}

	if st.Size() != 40 {
		t.Errorf("Size = %d, want 40", st.Size())
	}
	if st.FieldType(1) != TypeFloat4 {
		t.Errorf("FieldType(1) = %s, want float4", st.FieldType(1))
	}
	if st.FieldSemantic(2) != Texcoord0 {
		t.Errorf("FieldSemantic(2) = %s, want %s", st.FieldSemantic(2), Texcoord0)
	}
}

func TestStructTypeDuplicateSemantic(t *testing.T) {
	var st StructType
	if _, err := st.AddField(Color0, TypeFloat3); err != nil {
		t.Fatalf("first AddField: %v", err)
	}
	if _, err := st.AddField(Color0, TypeFloat4); !errors.Is(err, ErrDuplicateSemantic) {
		t.Fatalf("second AddField error = %v, want ErrDuplicateSemantic", err)
	}
}

func TestStructTypeRejectsHalf(t *testing.T) {
	var st StructType
	if _, err := st.AddField(Texcoord0, TypeHalf); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("AddField(half) error = %v, want ErrUnsupportedType", err)
	}
}

func TestStructTypeAbsenceSentinel(t *testing.T) {
	var st StructType
	st.AddField(Position0, TypeFloat3)
	st.AddField(Normal0, TypeFloat3)

	if got := st.FieldIndex(Position0); got != 0 {
		t.Errorf("FieldIndex(Position0) = %d, want 0", got)
	}
	if got := st.FieldIndex(Texcoord0); got != st.NumFields() {
		t.Errorf("FieldIndex(absent) = %d, want NumFields()=%d", got, st.NumFields())
	}
}

func TestStructTypeReset(t *testing.T) {
	var st StructType
	st.AddField(Position0, TypeFloat3)
	st.AddField(Normal0, TypeFloat3)
	st.Reset()

	if st.Size() != 0 || st.NumFields() != 0 {
		t.Errorf("after Reset: size=%d fields=%d, want 0/0", st.Size(), st.NumFields())
	}
	if _, err := st.AddField(Position0, TypeFloat3); err != nil {
		t.Errorf("AddField after Reset: %v", err)
	}
}
