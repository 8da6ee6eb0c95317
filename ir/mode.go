// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

// Mode is the machine representation of a value.
type Mode uint8

const (
	Void Mode = iota
	I8
	I16
	I32
	I64
	I128
	F32
	F64
	F128
	C64  // complex F32
	C128 // complex F64
	V2F32
	Block
	Cond
)

// BiggestAlignment is the largest alignment (in bits) of any mode.
const BiggestAlignment = 64

type Class uint8

const (
	ClassNone Class = iota
	ClassInt
	ClassFloat
	ClassComplexFloat
	ClassVectorFloat
	ClassCond
	ClassBlock
)

var modeInfo = [...]struct {
	name  string
	size  int
	class Class
	inner Mode
}{
	Void:  {"void", 0, ClassNone, Void},
	I8:    {"i8", 1, ClassInt, I8},
	I16:   {"i16", 2, ClassInt, I16},
	I32:   {"i32", 4, ClassInt, I32},
	I64:   {"i64", 8, ClassInt, I64},
	I128:  {"i128", 16, ClassInt, I128},
	F32:   {"f32", 4, ClassFloat, F32},
	F64:   {"f64", 8, ClassFloat, F64},
	F128:  {"f128", 16, ClassFloat, F128},
	C64:   {"c64", 8, ClassComplexFloat, F32},
	C128:  {"c128", 16, ClassComplexFloat, F64},
	V2F32: {"v2f32", 8, ClassVectorFloat, F32},
	Block: {"blk", 0, ClassBlock, Block},
	Cond:  {"cc", 4, ClassCond, Cond},
}

func (m Mode) String() string { return modeInfo[m].name }
func (m Mode) Size() int      { return modeInfo[m].size }
func (m Mode) Bits() int      { return modeInfo[m].size * 8 }
func (m Mode) Class() Class   { return modeInfo[m].class }

// Inner mode of complex and vector modes, or the mode itself.
func (m Mode) Inner() Mode   { return modeInfo[m].inner }
func (m Mode) UnitSize() int { return m.Inner().Size() }

// Float reports whether the mode holds scalar, complex or vector floats.
func (m Mode) Float() bool {
	switch m.Class() {
	case ClassFloat, ClassComplexFloat, ClassVectorFloat:
		return true
	}
	return false
}

// Alignment in bits.
func (m Mode) Alignment() int {
	if m == Block || m == Void {
		return 8
	}
	if a := m.UnitSize() * 8; a < BiggestAlignment {
		return a
	}
	return BiggestAlignment
}

// IntMode returns the integer mode of the given byte size.
func IntMode(size int) Mode {
	switch size {
	case 1:
		return I8
	case 2:
		return I16
	case 4:
		return I32
	case 8:
		return I64
	case 16:
		return I128
	}
	return Block
}

// ParseMode looks up a mode by name.
func ParseMode(name string) (Mode, bool) {
	for m, info := range modeInfo {
		if info.name == name && Mode(m) != Void {
			return Mode(m), true
		}
	}
	return Void, false
}
