// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

type TypeKind uint8

const (
	TypeInt TypeKind = iota
	TypePointer
	TypeFloat
	TypeComplex
	TypeVector
	TypeRecord
	TypeUnion
	TypeArray
)

// Type describes a source-level argument or return value type.
type Type struct {
	Kind     TypeKind
	Mode     Mode  // Block for aggregates without a machine mode
	Size     int64 // bytes; negative if variable
	Align    int   // bits
	Unsigned bool
	Fields   []Field // records and unions
}

// Field of a record type.  Fields are listed in declaration order.
type Field struct {
	Type   *Type
	BitPos int64
}

// Float reports whether the type is a scalar, complex or vector float type.
func (t *Type) Float() bool {
	switch t.Kind {
	case TypeFloat:
		return true

	case TypeComplex, TypeVector:
		return t.Mode.Float()
	}
	return false
}

func (t *Type) ScalarFloat() bool { return t.Kind == TypeFloat }

// Precision in bits.
func (t *Type) Precision() int { return t.Mode.Bits() }

// Scalar type of a mode.
func Scalar(m Mode) *Type {
	t := &Type{Mode: m, Size: int64(m.Size()), Align: m.Alignment()}

	switch m.Class() {
	case ClassFloat:
		t.Kind = TypeFloat
	case ClassComplexFloat:
		t.Kind = TypeComplex
	case ClassVectorFloat:
		t.Kind = TypeVector
	default:
		t.Kind = TypeInt
	}
	return t
}

// Record type with the given fields, laid out in order with natural
// alignment.  The record's mode is Block.
func Record(fields ...*Type) *Type {
	t := &Type{Kind: TypeRecord, Mode: Block, Align: 8}

	var bits int64
	for _, f := range fields {
		if a := int64(f.Align); bits%a != 0 {
			bits += a - bits%a
		}
		t.Fields = append(t.Fields, Field{f, bits})
		bits += f.Size * 8
		if f.Align > t.Align {
			t.Align = f.Align
		}
	}

	if a := int64(t.Align); bits%a != 0 {
		bits += a - bits%a
	}
	t.Size = bits / 8
	return t
}
