// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

// Code of an operation.
type Code uint8

const (
	Nop Code = iota

	// Context codes which only appear as outer codes of cost queries.
	Set
	Compare

	Add
	Sub
	Mul
	Div
	Mod
	UDiv
	UMod
	And
	Or
	Xor
	Not
	Neg
	Abs
	Shl
	ShrS
	ShrU
	Rotl
	Rotr
	Lt
	LtU
	Le
	LeU
	Gt
	GtU
	Ge
	GeU
	Eq
	Ne
	Unordered
	LtGt
	SignExtend
	ZeroExtend
	Float
	UnsignedFloat
	Fix
	FloatExtend
	FloatTruncate
	Sqrt
	Ffs

	numCodes
)

var codeNames = [numCodes]string{
	Nop:           "nop",
	Set:           "set",
	Compare:       "compare",
	Add:           "plus",
	Sub:           "minus",
	Mul:           "mult",
	Div:           "div",
	Mod:           "mod",
	UDiv:          "udiv",
	UMod:          "umod",
	And:           "and",
	Or:            "ior",
	Xor:           "xor",
	Not:           "not",
	Neg:           "neg",
	Abs:           "abs",
	Shl:           "ashift",
	ShrS:          "ashiftrt",
	ShrU:          "lshiftrt",
	Rotl:          "rotate",
	Rotr:          "rotatert",
	Lt:            "lt",
	LtU:           "ltu",
	Le:            "le",
	LeU:           "leu",
	Gt:            "gt",
	GtU:           "gtu",
	Ge:            "ge",
	GeU:           "geu",
	Eq:            "eq",
	Ne:            "ne",
	Unordered:     "unordered",
	LtGt:          "ltgt",
	SignExtend:    "sign_extend",
	ZeroExtend:    "zero_extend",
	Float:         "float",
	UnsignedFloat: "unsigned_float",
	Fix:           "fix",
	FloatExtend:   "float_extend",
	FloatTruncate: "float_truncate",
	Sqrt:          "sqrt",
	Ffs:           "ffs",
}

func (c Code) String() string {
	if c < numCodes {
		return codeNames[c]
	}
	return "<invalid>"
}

// Valid reports whether the code is known.
func (c Code) Valid() bool { return c < numCodes }

// Unary reports whether operations with this code take one operand.
func (c Code) Unary() bool {
	switch c {
	case Not, Neg, Abs, SignExtend, ZeroExtend, Float, UnsignedFloat, Fix, FloatExtend, FloatTruncate, Sqrt, Ffs:
		return true
	}
	return false
}

// Comparison reports whether the code is a condition.
func (c Code) Comparison() bool {
	return c >= Lt && c <= LtGt
}
