// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package riscv

import (
	"gate.computer/rvtarget/internal/gen/debug"
	"gate.computer/rvtarget/internal/pan"
	"gate.computer/rvtarget/ir"
	"gate.computer/rvtarget/target"
)

func registerOperand(x ir.Expr) bool {
	switch x.(type) {
	case ir.Reg, ir.Subreg:
		return true
	}
	return false
}

func regOrZeroOperand(x ir.Expr) bool {
	return registerOperand(x) || zeroConst(x)
}

// splittableConstInt needs more than one instruction.
func splittableConstInt(v int64) bool {
	return !SmallOperand(v) && !LUIOperand(v)
}

// moveOperand reports whether a single move instruction can load x.
func (m *Machine) moveOperand(x ir.Expr) bool {
	switch x := x.(type) {
	case ir.Const:
		return !splittableConstInt(int64(x))

	case ir.Symbol, ir.Unspec, ir.Offset:
		kind, ok := m.symbolicConstant(x)
		return ok && symbolInsns(kind) > 0 && !m.hiReloc(kind)

	case ir.High:
		kind, ok := m.symbolicConstant(x.X)
		return ok && m.hiReloc(kind)
	}
	return true
}

// forceTemporary copies value to a new pseudo register, or to temp if
// pseudo registers may not be created.
func (m *Machine) forceTemporary(fn *target.Function, temp ir.Reg, value ir.Expr) ir.Reg {
	if fn.CanCreatePseudo() {
		return forceReg(fn, m.pmode(), value)
	}

	if temp.Mode == ir.Void {
		pan.Internal("no temporary register for %s", value)
	}
	fn.Set(temp, value)
	return temp
}

// integerTemporary synthesizes v in a new pseudo register, or in temp if
// pseudo registers may not be created.
func (m *Machine) integerTemporary(fn *target.Function, temp ir.Reg, v int64) ir.Reg {
	if fn.CanCreatePseudo() {
		temp = fn.Host.NewPseudo(m.pmode())
	} else if temp.Mode == ir.Void {
		pan.Internal("no temporary register for %#x", v)
	}
	m.moveInteger(fn, temp, temp, v)
	return temp
}

// splittableSymbol reports whether addr can be split into a high part and
// a lo_sum.  asMove selects the move operand context, where a high part is
// already valid as is.
func (m *Machine) splittableSymbol(addr ir.Expr, asMove bool) bool {
	if _, ok := addr.(ir.High); ok && asMove {
		return false
	}

	kind, ok := m.symbolicConstant(addr)
	return ok && symbolInsns(kind) != 0 && m.hiReloc(kind)
}

// splitSymbol loads the high part of addr and returns the low part.
func (m *Machine) splitSymbol(fn *target.Function, temp ir.Reg, addr ir.Expr, asMove bool) (ir.Expr, bool) {
	if !m.splittableSymbol(addr, asMove) {
		return nil, false
	}

	if kind := m.classifySymbolicExpression(addr); kind != ir.SymbolAbsolute {
		pan.Internal("cannot split %s symbol %s", kind, addr)
	}

	high := m.forceTemporary(fn, temp, ir.High{X: addr})
	return ir.LoSum{Base: high, Sym: addr}, true
}

// addOffset returns a valid address for reg+offset.  temp is needed only
// for offsets which are not small operands.
func (m *Machine) addOffset(fn *target.Function, temp ir.Reg, reg ir.Expr, offset int64) ir.Expr {
	if !SmallOperand(offset) {
		high := ConstHighPart(offset)
		if !m.is64() {
			high = int64(int32(high))
		}
		offset = ConstLowPart(offset)

		var h ir.Reg
		if m.moveOperand(ir.Const(high)) {
			h = m.forceTemporary(fn, temp, ir.Const(high))
		} else {
			h = m.integerTemporary(fn, temp, high)
		}
		reg = m.forceTemporary(fn, temp, ir.Bin(ir.Add, m.pmode(), h, reg))
	}

	return ir.PlusConstant(reg, offset)
}

func (m *Machine) forceAddress(fn *target.Function, x ir.Expr, mode ir.Mode) ir.Expr {
	if !m.LegitimateAddress(mode, x, false) {
		x = forceReg(fn, m.pmode(), x)
	}
	return x
}

// LegitimizeAddress returns x, or an equivalent address which is valid for
// a memory access of the given mode.  The instructions needed to compute it
// are emitted.
func (m *Machine) LegitimizeAddress(fn *target.Function, x ir.Expr, mode ir.Mode) (result ir.Expr, err error) {
	if pan.Recover() {
		defer func() { err = pan.Error(recover()) }()
	}

	result = m.legitimizeAddress(fn, x, mode)
	return
}

func (m *Machine) legitimizeAddress(fn *target.Function, x ir.Expr, mode ir.Mode) ir.Expr {
	defer debug.Enter("legitimize address %s", x)()

	if sym, ok := x.(ir.Symbol); ok && sym.TLS != ir.TLSNone {
		return m.forceAddress(fn, m.legitimizeTLSAddress(fn, sym), mode)
	}

	if low, ok := m.splitSymbol(fn, ir.Reg{}, x, false); ok {
		return m.forceAddress(fn, low, mode)
	}

	if base, offset := ir.SplitPlus(x); offset != 0 {
		if !validBase(base, false) {
			r := fn.Host.NewPseudo(m.pmode())
			fn.Set(r, base)
			base = r
		}
		return m.forceAddress(fn, m.addOffset(fn, ir.Reg{}, base, offset), mode)
	}

	return x
}

func (m *Machine) LegitimizeMove(fn *target.Function, mode ir.Mode, dest, src ir.Expr) (emitted bool, err error) {
	if pan.Recover() {
		defer func() { err = pan.Error(recover()) }()
	}

	emitted = m.legitimizeMove(fn, mode, dest, src)
	return
}

func (m *Machine) legitimizeMove(fn *target.Function, mode ir.Mode, dest, src ir.Expr) bool {
	if !registerOperand(dest) && !regOrZeroOperand(src) {
		fn.Set(dest, forceReg(fn, mode, src))
		return true
	}

	// Constants which are valid immediates but not valid move sources.
	if ir.Constant(src) && !m.moveOperand(src) {
		r, ok := dest.(ir.Reg)
		if !ok {
			pan.Internal("constant move destination %s is not a register", dest)
		}
		m.legitimizeConstMove(fn, mode, r, src)
		return true
	}

	return false
}

func (m *Machine) legitimizeConstMove(fn *target.Function, mode ir.Mode, dest ir.Reg, src ir.Expr) {
	defer debug.Enter("legitimize constant move %s = %s", dest, src)()

	if c, ok := src.(ir.Const); ok && splittableConstInt(int64(c)) {
		m.moveInteger(fn, dest, dest, int64(c))
		return
	}

	if low, ok := m.splitSymbol(fn, dest, src, true); ok {
		fn.Set(dest, low)
		return
	}

	if sym, ok := src.(ir.Symbol); ok && sym.TLS != ir.TLSNone {
		fn.Set(dest, m.legitimizeTLSAddress(fn, sym))
		return
	}

	// Load the symbol first and add the offset, unless the constant can
	// still be placed in the pool after allocation.
	if base, offset := ir.SplitConst(src); offset != 0 && (m.CannotForceConstMem(src) || fn.CanCreatePseudo()) {
		b := m.forceTemporary(fn, dest, base)
		fn.Set(dest, m.addOffset(fn, ir.Reg{}, b, offset))
		return
	}

	mem := fn.Host.ForceConstMem(mode, src)
	if low, ok := m.splitSymbol(fn, dest, mem.Addr, false); ok {
		mem.Addr = low
	}
	fn.Set(dest, mem)
}
