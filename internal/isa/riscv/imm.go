// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package riscv

import (
	"fmt"
	"math/bits"

	"gate.computer/rvtarget/internal/gen/debug"
	"gate.computer/rvtarget/internal/pan"
	"gate.computer/rvtarget/ir"
	"gate.computer/rvtarget/target"
)

const (
	ImmBits  = 12
	ImmReach = 1 << ImmBits

	MaxIntegerOps = 32
)

// SmallOperand reports whether v fits in a signed 12-bit immediate.
func SmallOperand(v int64) bool {
	return uint64(v)+ImmReach/2 < ImmReach
}

// LUIOperand reports whether v can be loaded with a single LUI.
func LUIOperand(v int64) bool {
	return v&(ImmReach-1) == 0 && int64(int32(v)) == v
}

// ConstHighPart returns v rounded so that the difference is a small operand.
func ConstHighPart(v int64) int64 {
	return (v + ImmReach/2) &^ (ImmReach - 1)
}

func ConstLowPart(v int64) int64 {
	return v - ConstHighPart(v)
}

type IntegerOpCode uint8

const (
	OpLoad IntegerOpCode = iota // LUI or ADDI from zero
	OpAdd
	OpXor
	OpShl
	OpShrU
)

var integerOpNames = [...]string{
	OpLoad: "li",
	OpAdd:  "addi",
	OpXor:  "xori",
	OpShl:  "slli",
	OpShrU: "srli",
}

func (c IntegerOpCode) String() string { return integerOpNames[c] }

func (c IntegerOpCode) code() ir.Code {
	switch c {
	case OpAdd:
		return ir.Add
	case OpXor:
		return ir.Xor
	case OpShl:
		return ir.Shl
	case OpShrU:
		return ir.ShrU
	}
	pan.Internal("integer operation %s has no operation code", c)
	return ir.Nop
}

// IntegerOp is a step of an accumulator program.  The first step of a
// program loads the initial value; the others apply their operation to the
// accumulator.
type IntegerOp struct {
	Code  IntegerOpCode
	Value int64
}

func (op IntegerOp) String() string {
	if op.Code == OpLoad || op.Code == OpAdd || op.Code == OpXor {
		return fmt.Sprintf("%s %#x", op.Code, op.Value)
	}
	return fmt.Sprintf("%s %d", op.Code, op.Value)
}

// Replay runs an integer program.
func Replay(seq []IntegerOp) (acc int64) {
	for _, op := range seq {
		switch op.Code {
		case OpLoad:
			acc = op.Value
		case OpAdd:
			acc += op.Value
		case OpXor:
			acc ^= op.Value
		case OpShl:
			acc <<= uint(op.Value)
		case OpShrU:
			acc = int64(uint64(acc) >> uint(op.Value))
		}
	}
	return
}

// extend returns a new program; seq is not modified.
func extend(seq []IntegerOp, code IntegerOpCode, value int64) []IntegerOp {
	return append(seq[:len(seq):len(seq)], IntegerOp{code, value})
}

func cheaper(best, alt []IntegerOp) []IntegerOp {
	if best == nil || len(alt) < len(best) {
		return alt
	}
	return best
}

func buildIntegerSimple(v int64) []IntegerOp {
	if SmallOperand(v) || LUIOperand(v) {
		return []IntegerOp{{OpLoad, v}}
	}

	var best []IntegerOp

	low := ConstLowPart(v)

	if low != 0 {
		best = extend(buildIntegerSimple(v-low), OpAdd, low)
	}

	if low < 0 {
		best = cheaper(best, extend(buildIntegerSimple(v^low), OpXor, low))
	}

	if v&1 == 0 {
		shift := bits.TrailingZeros64(uint64(v))
		best = cheaper(best, extend(buildIntegerSimple(v>>uint(shift)), OpShl, int64(shift)))
	}

	if len(best) > MaxIntegerOps {
		pan.Internal("integer %#x needs %d operations", v, len(best))
	}
	return best
}

// BuildInteger returns a program which loads v.  The candidate endings are
// a fixed set of heuristics; the result is not guaranteed to be minimal.
func BuildInteger(v int64) []IntegerOp {
	seq := buildIntegerSimple(v)

	if v > 0 && len(seq) > 2 {
		shift := uint(bits.LeadingZeros64(uint64(v)))
		seq = cheaper(seq, extend(buildIntegerSimple(v<<shift), OpShrU, int64(shift)))
		seq = cheaper(seq, extend(buildIntegerSimple(v<<shift|(1<<shift-1)), OpShrU, int64(shift)))
	}

	return seq
}

func splitInteger(v int64) (lo, hi int64) {
	lo = int64(int32(v))
	hi = (v - lo) >> 32
	return
}

// SplitIntegerCost is the cost of loading the 32-bit halves of v separately
// and combining them with a shift and an add.
func SplitIntegerCost(v int64) int {
	lo, hi := splitInteger(v)
	cost := 2 + len(BuildInteger(lo))
	if lo != hi {
		cost += len(BuildInteger(hi))
	}
	return cost
}

func (m *Machine) IntegerCost(v int64) int {
	cost := len(BuildInteger(v))
	if m.is64() {
		if split := SplitIntegerCost(v); split < cost {
			cost = split
		}
	}
	return cost
}

func (m *Machine) MoveInteger(fn *target.Function, temp, dest ir.Reg, v int64) (err error) {
	if pan.Recover() {
		defer func() { err = pan.Error(recover()) }()
	}

	m.moveInteger(fn, temp, dest, v)
	return
}

func (m *Machine) moveInteger(fn *target.Function, temp, dest ir.Reg, v int64) {
	defer debug.Enter("move integer %#x to %s", v, dest)()

	mode := dest.Mode
	seq := BuildInteger(v)

	var x ir.Expr

	if fn.CanCreatePseudo() && m.is64() && len(seq) > 2 && len(seq) >= SplitIntegerCost(v) {
		x = m.splitIntegerMove(fn, v, mode)
	} else {
		if len(seq) > 1 && !fn.CanCreatePseudo() && temp.Mode == ir.Void {
			pan.Internal("loading %#x needs a temporary register", v)
		}

		opMode := mode
		if opMode == ir.I16 {
			opMode = ir.I32
		}

		x = ir.Const(seq[0].Value)

		for _, op := range seq[1:] {
			if !fn.CanCreatePseudo() {
				fn.Set(temp, x)
				x = temp
			} else {
				x = forceReg(fn, opMode, x)
			}
			x = ir.Bin(op.Code.code(), mode, x, ir.Const(op.Value))
		}
	}

	fn.Set(dest, x)
}

func (m *Machine) splitIntegerMove(fn *target.Function, v int64, mode ir.Mode) ir.Expr {
	lo, hi := splitInteger(v)

	hiReg := fn.Host.NewPseudo(mode)
	loReg := fn.Host.NewPseudo(mode)

	m.moveInteger(fn, hiReg, hiReg, hi)
	m.moveInteger(fn, loReg, loReg, lo)

	shifted := forceReg(fn, mode, ir.Bin(ir.Shl, mode, hiReg, ir.Const(32)))
	return ir.Bin(ir.Add, mode, shifted, loReg)
}

// forceReg copies x to a new pseudo register unless it already is a
// register.
func forceReg(fn *target.Function, mode ir.Mode, x ir.Expr) ir.Reg {
	if r, ok := x.(ir.Reg); ok {
		return r
	}
	r := fn.Host.NewPseudo(mode)
	fn.Set(r, x)
	return r
}
