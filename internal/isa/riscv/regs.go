// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package riscv

import (
	"gate.computer/rvtarget/internal/gen/regset"
	"gate.computer/rvtarget/internal/isa/reglayout"
	"gate.computer/rvtarget/ir"
	"gate.computer/rvtarget/target"
)

var (
	fixedRegs = regset.Of(reglayout.Zero, reglayout.SP, reglayout.TP, reglayout.GP)

	callUsedRegs = fixedRegs |
		regset.Range(reglayout.V0, reglayout.GP) |
		regset.Range(reglayout.FPCalleeSavedLast+1, reglayout.FPLast)

	// Callee-saved unless the function uses the user-thread convention.
	userThreadCallUsedRegs = regset.Of(reglayout.RA) |
		regset.Range(reglayout.S0, reglayout.S11) |
		regset.Range(reglayout.FPFirst, reglayout.FPCalleeSavedLast)
)

func gpReg(r ir.Regno) bool { return r <= reglayout.GPLast }
func fpReg(r ir.Regno) bool { return r >= reglayout.FPFirst && r <= reglayout.FPLast }

func userThread(fn *target.Function) bool {
	return fn != nil && fn.UserThread
}

func (m *Machine) RegnoClass(r ir.Regno) target.RegClass {
	switch {
	case gpReg(r):
		return target.GeneralRegs
	case fpReg(r):
		return target.FPRegs
	}
	return target.NoRegs
}

func (m *Machine) Fixed(fn *target.Function, r ir.Regno) bool {
	switch {
	case r.Eliminable():
		return true

	case r == reglayout.GP:
		return !userThread(fn)

	case fpReg(r) && !m.config.HardFloat:
		return true
	}
	return fixedRegs.Has(r)
}

func (m *Machine) CallUsed(fn *target.Function, r ir.Regno) bool {
	switch {
	case r.Eliminable():
		return true

	case r == reglayout.GP:
		return !userThread(fn)

	case fpReg(r) && !m.config.HardFloat:
		return true

	case userThreadCallUsedRegs.Has(r):
		return userThread(fn)
	}
	return callUsedRegs.Has(r)
}

func (m *Machine) HardRegnoModeOK(r ir.Regno, mode ir.Mode) bool {
	if mode == ir.Cond {
		return gpReg(r)
	}

	size := mode.Size()

	if gpReg(r) {
		// Double-word values must be even-register-aligned.
		return r&1 == 0 || size <= m.word
	}

	if fpReg(r) {
		// Allow TF for condition code reloads.
		if mode == ir.F128 {
			return true
		}

		if mode.Float() {
			return size <= m.fpValueSize()
		}
	}

	return false
}

func (m *Machine) HardRegnoNregs(r ir.Regno, mode ir.Mode) int {
	if fpReg(r) {
		return (mode.Size() + UnitsPerFPReg - 1) / UnitsPerFPReg
	}
	return (mode.Size() + m.word - 1) / m.word
}

func (m *Machine) ClassMaxNregs(c target.RegClass, mode ir.Mode) int {
	size := 0x8000
	if c.Intersects(target.FPRegs) {
		size = min(size, UnitsPerFPReg)
	}
	if c == target.GeneralRegs || c == target.AllRegs {
		size = min(size, m.word)
	}
	return (mode.Size() + size - 1) / size
}

// CannotChangeModeClass: an FPR written in one format is undefined if
// interpreted in another.
func (m *Machine) CannotChangeModeClass(from, to ir.Mode, c target.RegClass) bool {
	return c.Intersects(target.FPRegs)
}

// fsgnjMode reports whether FPR moves in the mode can use fsgnj.
func (m *Machine) fsgnjMode(mode ir.Mode) bool {
	switch mode {
	case ir.F32, ir.F64:
		return m.config.HardFloat
	}
	return false
}

func (m *Machine) ModesTieable(m1, m2 ir.Mode) bool {
	return m1 == m2 || (!m.fsgnjMode(m1) && !m.fsgnjMode(m2))
}

func (m *Machine) PreferredReloadClass(x ir.Expr, c target.RegClass) target.RegClass {
	if target.FPRegs.Subset(c) && m.fsgnjMode(ir.ModeOf(x)) {
		return target.FPRegs
	}
	if target.GeneralRegs.Subset(c) {
		return target.GeneralRegs
	}
	return c
}

// trueRegno of a register or subregister.
func trueRegno(x ir.Expr) (ir.Regno, bool) {
	switch x := x.(type) {
	case ir.Reg:
		return x.Num, true
	case ir.Subreg:
		return x.Reg.Num, true
	}
	return 0, false
}

func zeroConst(x ir.Expr) bool {
	switch x := x.(type) {
	case ir.Const:
		return x == 0
	case ir.FloatConst:
		return x.Zero()
	}
	return false
}

func (m *Machine) SecondaryReloadClass(c target.RegClass, mode ir.Mode, x ir.Expr, in bool) target.RegClass {
	r, isReg := trueRegno(x)
	isGP := isReg && gpReg(r)
	isFP := isReg && fpReg(r)

	if c.Subset(target.FPRegs) {
		if _, ok := x.(ir.Mem); ok && (mode.Size() == 4 || mode.Size() == 8) {
			return target.NoRegs // flw/fld/fsw/fsd
		}

		if isGP || zeroConst(x) {
			return target.NoRegs // fmv
		}

		if ir.Constant(x) && !m.CannotForceConstMem(x) {
			return target.NoRegs // load from constant pool
		}

		if isFP && m.fsgnjMode(mode) {
			return target.NoRegs
		}

		return target.GeneralRegs
	}

	if isFP {
		if c.Subset(target.GeneralRegs) {
			return target.NoRegs
		}
		return target.GeneralRegs
	}

	return target.NoRegs
}

// EpilogueUses the return address register.
func (m *Machine) EpilogueUses(r ir.Regno) bool {
	return r == reglayout.RA
}

// ReturnAddr of the current frame; previous frames are not supported.
func (m *Machine) ReturnAddr(count int) ir.Expr {
	if count != 0 {
		return ir.Const(0)
	}
	return ir.Reg{Num: reglayout.RA, Mode: m.pmode()}
}

func (m *Machine) CanEliminate(from, to ir.Regno) bool {
	return to == reglayout.HardFramePointer || to == reglayout.SP
}
