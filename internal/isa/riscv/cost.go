// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package riscv

import (
	"gate.computer/rvtarget/internal/pan"
	"gate.computer/rvtarget/ir"
	"gate.computer/rvtarget/tune"
)

// constantPoolCost is larger than the cost of any constant which is
// synthesized inline.
var constantPoolCost = tune.N(8)

// immediateOperand reports whether an instruction implementing code accepts
// x as an immediate.
func immediateOperand(code ir.Code, x int64) bool {
	switch code {
	case ir.Shl, ir.ShrS, ir.ShrU:
		return true // shift counts are truncated

	case ir.And, ir.Or, ir.Xor, ir.Add, ir.Lt, ir.LtU:
		return SmallOperand(x)

	case ir.Le:
		return SmallOperand(x + 1) // slti with x+1

	case ir.LeU:
		return SmallOperand(x+1) && x+1 != 0

	case ir.Ge, ir.GeU:
		return x == 1 // gt against zero

	default:
		return x == 0
	}
}

// RTXCost of x when it appears as an operand of outer.
func (m *Machine) RTXCost(x ir.Expr, outer ir.Code, speed bool) int {
	total, done := m.rtxCost(x, outer, speed)
	if done {
		return total
	}

	switch x := x.(type) {
	case ir.Op:
		total += m.RTXCost(x.X, x.Code, speed)
		if x.Y != nil {
			total += m.RTXCost(x.Y, x.Code, speed)
		}

	case ir.Mem:
		total += m.RTXCost(x.Addr, ir.Nop, speed)

	case ir.TLSOp:
		if x.Base != nil {
			total += m.RTXCost(x.Base, ir.Set, speed)
		}

	case ir.Intrinsic:
		for _, a := range x.Args {
			total += m.RTXCost(a, ir.Set, speed)
		}
	}
	return total
}

// rtxCost returns the cost of x and whether it includes the operands.
func (m *Machine) rtxCost(x ir.Expr, outer ir.Code, speed bool) (int, bool) {
	// Constants compared against are passed through the expanders.
	if outer == ir.Compare {
		if !ir.Constant(x) {
			pan.Internal("compared operand %s is not a constant", x)
		}
		return 0, true
	}

	switch x := x.(type) {
	case ir.Reg, ir.Subreg:
		return 0, true

	case ir.Const:
		// Loads of constants in hot code can often be hoisted.
		if speed || immediateOperand(outer, int64(x)) {
			return 0, true
		}
		return m.constCost(x, outer), true

	case ir.Symbol, ir.Unspec, ir.Offset, ir.FloatConst, ir.High:
		return m.constCost(x, outer), true

	case ir.Mem:
		if n := m.AddressInsns(x.Addr, x.Mode, true); n > 0 {
			return tune.N(n + m.costs.MemoryLatency), true
		}
		return tune.N(1), false

	case ir.LoSum:
		return tune.N(1) + m.RTXCost(x.Base, ir.Set, speed), true

	case ir.Op:
		return m.opCost(x, outer, speed)
	}

	return tune.N(1), false
}

func (m *Machine) constCost(x ir.Expr, outer ir.Code) int {
	cost := m.ConstInsns(x)
	if cost == 0 {
		return constantPoolCost
	}

	// Setting a register to a single-instruction integer is as cheap as a
	// register move.
	if _, isInt := x.(ir.Const); isInt && cost == 1 && outer == ir.Set {
		return 0
	}

	return tune.N(cost)
}

// binaryCost of a word-sized (single) or double-word operation, including
// the operands.
func (m *Machine) binaryCost(x ir.Op, single, double int, speed bool) int {
	cost := single
	if x.Mode.Size() == 2*m.word {
		cost = double
	}

	return cost + m.RTXCost(x.X, ir.Set, speed) + m.RTXCost(x.Y, x.Code, speed)
}

func (m *Machine) fpMultCost(mode ir.Mode) int {
	if mode == ir.F64 {
		return tune.N(m.costs.FPMultDF)
	}
	return tune.N(m.costs.FPMultSF)
}

func (m *Machine) fpDivCost(mode ir.Mode) int {
	if mode == ir.F64 {
		return tune.N(m.costs.FPDivDF)
	}
	return tune.N(m.costs.FPDivSF)
}

func (m *Machine) signExtendCost(mode ir.Mode, x ir.Expr) int {
	if _, ok := x.(ir.Mem); ok {
		return 0 // extending loads
	}
	if m.is64() && mode == ir.I64 && ir.ModeOf(x) == ir.I32 {
		return 0
	}
	return tune.N(2) // shift left and right
}

func (m *Machine) zeroExtendCost(mode ir.Mode, x ir.Expr) int {
	if _, ok := x.(ir.Mem); ok {
		return 0
	}

	from := ir.ModeOf(x)
	if (m.is64() && mode == ir.I64 && from == ir.I32) || ((mode == ir.I64 || mode == ir.I32) && from == ir.I16) {
		return tune.N(2)
	}
	return tune.N(1) // andi
}

func (m *Machine) opCost(x ir.Op, outer ir.Code, speed bool) (int, bool) {
	mode := x.Mode
	float := mode.Float()

	switch x.Code {
	case ir.Ffs:
		return tune.N(6), false

	case ir.Not:
		if mode.Size() > m.word {
			return tune.N(2), false
		}
		return tune.N(1), false

	case ir.And, ir.Or, ir.Xor:
		return m.binaryCost(x, tune.N(1), tune.N(2), speed), true

	case ir.Shl, ir.ShrS, ir.ShrU, ir.Rotl, ir.Rotr:
		if ir.Constant(x.Y) {
			return m.binaryCost(x, tune.N(1), tune.N(4), speed), true
		}
		return m.binaryCost(x, tune.N(1), tune.N(12), speed), true

	case ir.Abs:
		if float {
			return tune.N(m.costs.FPAdd), false
		}
		return tune.N(4), false

	case ir.Lt, ir.LtU, ir.Le, ir.LeU, ir.Gt, ir.GtU, ir.Ge, ir.GeU, ir.Eq, ir.Ne, ir.Unordered, ir.LtGt:
		// Conditions take the mode of the compared operand.
		if ir.ModeOf(x.X).Float() {
			return tune.N(m.costs.FPAdd), false
		}
		return m.binaryCost(x, tune.N(1), tune.N(4), speed), true

	case ir.Sub, ir.Add:
		if float {
			// Part of a fused multiply-add.
			if y, ok := x.X.(ir.Op); ok && y.Code == ir.Mul {
				return 0, false
			}
			return tune.N(m.costs.FPAdd), false
		}
		// Double-word addition needs three operations and an sltu.
		return m.binaryCost(x, tune.N(1), tune.N(4), speed), true

	case ir.Neg:
		switch {
		case float:
			return tune.N(m.costs.FPAdd), false
		case mode.Size() > m.word:
			return tune.N(4), false
		}
		return tune.N(1), false

	case ir.Mul:
		switch {
		case float:
			return m.fpMultCost(mode), false
		case mode == ir.I64 && !m.is64():
			return tune.N(m.costs.IntMultSI) * 2, false // mul and mulh
		case !speed:
			return 1, false
		case mode == ir.I64:
			return tune.N(m.costs.IntMultDI), false
		}
		return tune.N(m.costs.IntMultSI), false

	case ir.Div, ir.Sqrt, ir.Mod:
		if float {
			return m.fpDivCost(mode), false
		}
		fallthrough

	case ir.UDiv, ir.UMod:
		switch {
		case !speed:
			return 1, false
		case mode == ir.I64:
			return tune.N(m.costs.IntDivDI), false
		}
		return tune.N(m.costs.IntDivSI), false

	case ir.SignExtend:
		return m.signExtendCost(mode, x.X), false

	case ir.ZeroExtend:
		return m.zeroExtendCost(mode, x.X), false

	case ir.Float, ir.UnsignedFloat, ir.Fix, ir.FloatExtend, ir.FloatTruncate:
		return tune.N(m.costs.FPAdd), false
	}

	if !x.Code.Valid() {
		pan.Internal("cost of unknown operation %s", x.Code)
	}
	return tune.N(1), false
}

// AddressCost is the number of instructions needed by a word access.
func (m *Machine) AddressCost(x ir.Expr) int {
	return m.AddressInsns(x, ir.I32, false)
}

func (m *Machine) BranchCost() int {
	return m.costs.BranchCost
}
