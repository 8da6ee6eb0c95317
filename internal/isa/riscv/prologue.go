// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package riscv

import (
	"gate.computer/rvtarget/internal/gen/debug"
	"gate.computer/rvtarget/internal/isa/reglayout"
	"gate.computer/rvtarget/internal/pan"
	"gate.computer/rvtarget/ir"
	"gate.computer/rvtarget/target"
)

// forEachSaved calls f for every saved register and its slot.  spOffset is
// the distance of the current stack pointer from the bottom of the frame.
// Slots are visited at descending offsets: GPRs first, then FPRs, in
// ascending register order within each bank.
func (m *Machine) forEachSaved(fn *target.Function, spOffset int64, f func(r ir.Reg, slot ir.Mem)) {
	pmode := m.pmode()
	sp := ir.Reg{Num: reglayout.SP, Mode: pmode}

	offset := fn.Frame.GPSPOffset - spOffset
	for r := reglayout.GPFirst; r < reglayout.GPLast; r++ {
		if fn.Frame.GPRMask&(1<<(r-reglayout.GPFirst)) != 0 {
			f(ir.Reg{Num: r, Mode: pmode}, ir.Mem{Addr: ir.PlusConstant(sp, offset), Mode: pmode})
			offset -= int64(m.word)
		}
	}

	offset = fn.Frame.FPSPOffset - spOffset
	for r := reglayout.FPFirst; r <= reglayout.FPLast; r++ {
		if fn.Frame.FPRMask&(1<<(r-reglayout.FPFirst)) != 0 {
			f(ir.Reg{Num: r, Mode: ir.F64}, ir.Mem{Addr: ir.PlusConstant(sp, offset), Mode: ir.F64})
			offset -= int64(ir.F64.Size())
		}
	}
}

// saveSlotMove moves between a register and its save slot, through the
// prologue temporary if a direct move is not possible.
func (m *Machine) saveSlotMove(fn *target.Function, dest, src ir.Expr) {
	var r ir.Reg
	var mem ir.Mem
	load := false

	if x, ok := src.(ir.Reg); ok {
		r = x
		mem = dest.(ir.Mem)
	} else {
		r = dest.(ir.Reg)
		mem = src.(ir.Mem)
		load = true
	}

	final := ir.SetInsn(dest, src)

	if m.SecondaryReloadClass(m.RegnoClass(r.Num), mem.Mode, mem, load) != target.NoRegs {
		temp := ir.Reg{Num: reglayout.PrologueTemp, Mode: r.Mode}
		fn.Set(temp, src)
		final.Src = temp
	}

	if !load {
		final.FrameRelated = true
		final.Note = &ir.Insn{Kind: ir.InsnSet, Dest: dest, Src: src}
	}

	fn.Emit(final)
}

func (m *Machine) adjustSP(fn *target.Function, base ir.Reg, delta ir.Expr, frameRelated bool) {
	sp := ir.Reg{Num: reglayout.SP, Mode: m.pmode()}
	fn.Emit(ir.Insn{
		Kind:         ir.InsnSet,
		Dest:         sp,
		Src:          ir.Bin(ir.Add, sp.Mode, base, delta),
		FrameRelated: frameRelated,
	})
}

// ExpandPrologue emits the frame setup.  fn.Frame must have been computed.
func (m *Machine) ExpandPrologue(fn *target.Function) (err error) {
	if pan.Recover() {
		defer func() { err = pan.Error(recover()) }()
	}

	m.expandPrologue(fn)
	return
}

func (m *Machine) expandPrologue(fn *target.Function) {
	defer debug.Enter("prologue: frame size %d", fn.Frame.TotalSize)()

	pmode := m.pmode()
	sp := ir.Reg{Num: reglayout.SP, Mode: pmode}
	frame := &fn.Frame
	size := frame.TotalSize

	// Allocate enough to cover the save area with immediate offsets.
	if frame.SavesRegisters() {
		step1 := min(size, MaxFirstStackStep)
		m.adjustSP(fn, sp, ir.Const(-step1), true)
		size -= step1

		m.forEachSaved(fn, size, func(r ir.Reg, slot ir.Mem) {
			m.saveSlotMove(fn, slot, r)
		})
	}

	if fn.FramePointerNeeded {
		fp := ir.Reg{Num: reglayout.HardFramePointer, Mode: pmode}
		fn.Emit(ir.Insn{
			Kind:         ir.InsnSet,
			Dest:         fp,
			Src:          ir.Bin(ir.Add, pmode, sp, ir.Const(frame.HardFramePointerOffset-size)),
			FrameRelated: true,
		})
	}

	if size > 0 {
		if SmallOperand(-size) {
			m.adjustSP(fn, sp, ir.Const(-size), true)
		} else {
			temp := ir.Reg{Num: reglayout.PrologueTemp, Mode: pmode}
			m.moveInteger(fn, temp, temp, size)
			fn.Emit(ir.Insn{
				Kind:         ir.InsnSet,
				Dest:         sp,
				Src:          ir.Bin(ir.Sub, pmode, sp, temp),
				FrameRelated: true,
				Note:         &ir.Insn{Kind: ir.InsnSet, Dest: sp, Src: ir.PlusConstant(sp, -size)},
			})
		}
	}
}

// ExpandEpilogue emits the frame teardown and the return, which is omitted
// for sibling calls.
func (m *Machine) ExpandEpilogue(fn *target.Function, sibcall bool) (err error) {
	if pan.Recover() {
		defer func() { err = pan.Error(recover()) }()
	}

	m.expandEpilogue(fn, sibcall)
	return
}

func (m *Machine) expandEpilogue(fn *target.Function, sibcall bool) {
	defer debug.Enter("epilogue: frame size %d, sibcall %v", fn.Frame.TotalSize, sibcall)()

	if !sibcall && m.CanUseReturnInsn(fn) {
		if fn.UserThread {
			fn.Emit(ir.Insn{Kind: ir.InsnStop})
		}
		fn.Emit(ir.Insn{Kind: ir.InsnReturn})
		return
	}

	pmode := m.pmode()
	sp := ir.Reg{Num: reglayout.SP, Mode: pmode}
	temp := ir.Reg{Num: reglayout.PrologueTemp, Mode: pmode}
	frame := &fn.Frame

	// Deallocate step1 before restoring registers, and step2 after.
	step1 := frame.TotalSize
	step2 := int64(0)

	// Move past dynamic stack allocations.
	if fn.CallsAlloca {
		var adjust ir.Expr = ir.Const(-frame.HardFramePointerOffset)
		if !SmallOperand(-frame.HardFramePointerOffset) {
			m.moveInteger(fn, temp, temp, -frame.HardFramePointerOffset)
			adjust = temp
		}
		m.adjustSP(fn, ir.Reg{Num: reglayout.HardFramePointer, Mode: pmode}, adjust, false)
	}

	if frame.SavesRegisters() {
		step2 = min(step1, MaxFirstStackStep)
		step1 -= step2
	}

	if step1 > 0 {
		var adjust ir.Expr = ir.Const(step1)
		if !SmallOperand(step1) {
			m.moveInteger(fn, temp, temp, step1)
			adjust = temp
		}
		m.adjustSP(fn, sp, adjust, false)
	}

	m.forEachSaved(fn, frame.TotalSize-step2, func(r ir.Reg, slot ir.Mem) {
		m.saveSlotMove(fn, r, slot)
	})

	if step2 > 0 {
		m.adjustSP(fn, sp, ir.Const(step2), false)
	}

	if fn.CallsEHReturn {
		m.adjustSP(fn, sp, ir.Reg{Num: reglayout.EHStackAdj, Mode: pmode}, false)
	}

	if !sibcall {
		fn.Emit(ir.Insn{Kind: ir.InsnReturn, Src: ir.Reg{Num: reglayout.RA, Mode: pmode}})
	}
}
