// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package riscv

import (
	"gate.computer/rvtarget/internal/isa/reglayout"
	"gate.computer/rvtarget/internal/pan"
	"gate.computer/rvtarget/ir"
	"gate.computer/rvtarget/target"
)

// validBase reports whether x can be used as a base register.  Pseudo
// registers are accepted only when checking non-strictly.
func validBase(x ir.Expr, strict bool) bool {
	if s, ok := x.(ir.Subreg); ok && !strict {
		x = s.Reg
	}

	r, ok := x.(ir.Reg)
	if !ok {
		return false
	}

	switch {
	case r.Num.Pseudo():
		return !strict

	case r.Num.Eliminable():
		return true
	}
	return gpReg(r.Num)
}

// validOffset checks that every word of a possibly split access is
// reachable with an immediate offset.
func (m *Machine) validOffset(x ir.Expr, mode ir.Mode) bool {
	c, ok := x.(ir.Const)
	if !ok || !SmallOperand(int64(c)) {
		return false
	}

	if size := mode.Size(); size > m.word && !SmallOperand(int64(c)+int64(size-m.word)) {
		return false
	}

	return true
}

func (m *Machine) validLoSum(kind ir.SymbolKind, mode ir.Mode) bool {
	if symbolInsns(kind) == 0 || !m.loReloc(kind) {
		return false
	}

	// Each word must be accessible without a carry.
	if mode.Size() > m.word && mode.Bits() > mode.Alignment() {
		return false
	}

	return true
}

func (m *Machine) ClassifyAddress(x ir.Expr, mode ir.Mode, strict bool) (addr target.Address, valid bool) {
	switch x := x.(type) {
	case ir.Reg, ir.Subreg:
		addr = target.Address{Kind: target.AddressRegOffset, Reg: x, Offset: ir.Const(0)}
		valid = validBase(x, strict)

	case ir.Op:
		if x.Code != ir.Add {
			return
		}
		addr = target.Address{Kind: target.AddressRegOffset, Reg: x.X, Offset: x.Y}
		valid = validBase(x.X, strict) && m.validOffset(x.Y, mode)

	case ir.LoSum:
		kind := m.classifySymbolicExpression(x.Sym)
		addr = target.Address{Kind: target.AddressLoSum, Reg: x.Base, Offset: x.Sym, Symbol: kind}
		valid = validBase(x.Base, strict) && m.validLoSum(kind, mode)

	case ir.Const:
		addr = target.Address{Kind: target.AddressSmallConst, Reg: ir.Reg{Num: reglayout.Zero, Mode: m.pmode()}, Offset: x}
		valid = SmallOperand(int64(x))

	case ir.Symbol, ir.Unspec, ir.Offset:
		kind, ok := m.symbolicConstant(x)
		addr = target.Address{Kind: target.AddressSymbolic, Reg: ir.Reg{Num: reglayout.GP, Mode: m.pmode()}, Offset: x, Symbol: kind}
		valid = ok && symbolInsns(kind) > 0 && !m.hiReloc(kind) && m.loReloc(kind)
	}
	return
}

func (m *Machine) LegitimateAddress(mode ir.Mode, x ir.Expr, strict bool) bool {
	_, valid := m.ClassifyAddress(x, mode, strict)
	return valid
}

// AddressInsns counts one instruction per word when the access might be
// split.  Symbolic addresses multiply the count by the length of the symbol
// reference.
func (m *Machine) AddressInsns(x ir.Expr, mode ir.Mode, mightSplit bool) int {
	addr, valid := m.ClassifyAddress(x, mode, false)
	if !valid {
		return 0
	}

	n := 1
	if mode != ir.Block && mightSplit {
		n = max(1, (mode.Size()+m.word-1)/m.word)
	}

	if addr.Kind == target.AddressSymbolic {
		n *= symbolInsns(addr.Symbol)
	}

	return n
}

func (m *Machine) ConstInsns(x ir.Expr) int {
	switch x := x.(type) {
	case ir.High:
		if kind, ok := m.symbolicConstant(x.X); ok && m.hiReloc(kind) {
			return 1 // lui
		}
		return 0

	case ir.Const:
		// Complicated constants go to memory.
		if cost := m.IntegerCost(int64(x)); cost < 4 {
			return cost
		}
		return 0

	case ir.FloatConst:
		if x.Zero() {
			return 1
		}
		return 0

	case ir.Offset:
		if kind, ok := m.symbolicConstant(x); ok {
			return symbolInsns(kind)
		}

		// Load the base and add the offset.  Large offsets are possible
		// only if the constant could also be placed in the pool.
		if n := m.ConstInsns(x.Base); n != 0 {
			if SmallOperand(x.Off) {
				return n + 1
			}
			if !m.CannotForceConstMem(x.Base) {
				return n + 1 + m.IntegerCost(x.Off)
			}
		}
		return 0

	case ir.Symbol, ir.Unspec:
		if kind, ok := m.symbolicConstant(x); ok {
			return symbolInsns(kind)
		}
	}
	return 0
}

// SplitConstInsns is the number of instructions needed to load a
// double-word constant one word at a time.
func (m *Machine) SplitConstInsns(x ir.Const) int {
	var lo, hi int64
	if m.word == 4 {
		lo = int64(int32(x))
		hi = int64(x) >> 32
	} else {
		lo = int64(x)
		hi = int64(x) >> 63
	}

	low := m.ConstInsns(ir.Const(lo))
	high := m.ConstInsns(ir.Const(hi))
	if low == 0 || high == 0 {
		pan.Internal("double-word constant %#x cannot be split", int64(x))
	}
	return low + high
}

// Split64BitMove reports whether a 64-bit move must be done one word at a
// time.
func (m *Machine) Split64BitMove(dest, src ir.Expr) bool {
	if m.is64() {
		return false
	}

	if m.config.HardFloat {
		destFP := fpRegExpr(dest)
		srcFP := fpRegExpr(src)
		_, destMem := dest.(ir.Mem)
		_, srcMem := src.(ir.Mem)

		if (destFP && srcFP) || (destFP && srcMem) || (srcFP && destMem) || (destFP && zeroConst(src)) {
			return false
		}
	}

	return true
}

func fpRegExpr(x ir.Expr) bool {
	r, ok := x.(ir.Reg)
	return ok && fpReg(r.Num)
}

// LoadStoreInsns is the number of instructions needed by insn, which loads
// from or stores to mem.
func (m *Machine) LoadStoreInsns(mem ir.Mem, insn *ir.Insn) int {
	mightSplit := true
	if mem.Mode.Bits() == 64 && insn != nil && insn.Kind == ir.InsnSet && !m.Split64BitMove(insn.Dest, insn.Src) {
		mightSplit = false
	}

	return m.AddressInsns(mem.Addr, mem.Mode, mightSplit)
}

// CannotForceConstMem reports whether x must not be placed in the constant
// pool.
func (m *Machine) CannotForceConstMem(x ir.Expr) bool {
	// No assembler syntax for an address-sized high part.
	if _, ok := x.(ir.High); ok {
		return true
	}

	// Constants which can be expanded inline are reloaded as such.
	if c, ok := x.(ir.Const); ok && m.ConstInsns(c) > 0 {
		return true
	}

	base, offset := ir.SplitConst(x)
	if kind, ok := m.symbolicConstant(base); ok {
		if SmallOperand(offset) && symbolInsns(kind) > 0 {
			return true
		}
	}

	// Thread-local symbols are computed by LegitimizeMove.
	return ir.MentionsTLS(x)
}
