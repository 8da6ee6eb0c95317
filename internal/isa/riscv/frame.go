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

// saveReg reports whether the function must save a hard register.
func (m *Machine) saveReg(fn *target.Function, r ir.Regno) bool {
	callSaved := !m.CallUsed(fn, r)
	mightClobber := fn.SavesAllRegisters || fn.Live.Has(r) || (r == reglayout.HardFramePointer && fn.FramePointerNeeded)

	return (callSaved && mightClobber) || (r == reglayout.RA && fn.CallsEHReturn)
}

// ComputeFrameInfo plans the frame and stores it in fn.Frame.
func (m *Machine) ComputeFrameInfo(fn *target.Function) target.FrameInfo {
	var gprMask, fprMask uint32

	// The global pointer is never saved; the save loop doesn't cover it.
	for r := reglayout.GPFirst; r < reglayout.GPLast; r++ {
		if m.saveReg(fn, r) {
			gprMask |= 1 << (r - reglayout.GPFirst)
		}
	}

	if fn.CallsEHReturn {
		for i := ir.Regno(0); i < reglayout.NumEHData; i++ {
			gprMask |= 1 << (reglayout.EHDataFirst + i - reglayout.GPFirst)
		}
	}

	if m.config.HardFloat {
		for r := reglayout.FPFirst; r <= reglayout.FPLast; r++ {
			if m.saveReg(fn, r) {
				fprMask |= 1 << (r - reglayout.FPFirst)
			}
		}
	}

	fn.Frame = target.Layout(target.FrameParams{
		WordSize:         m.word,
		FPRegSize:        UnitsPerFPReg,
		GPRMask:          gprMask,
		FPRMask:          fprMask,
		LocalsSize:       fn.LocalsSize,
		OutgoingArgsSize: fn.OutgoingArgsSize,
		VarargsSize:      fn.VarargsSize,
		PretendArgsSize:  fn.PretendArgsSize,
	})

	debug.Printf("frame: size %d, gpr mask %#x, fpr mask %#x", fn.Frame.TotalSize, gprMask, fprMask)
	return fn.Frame
}

// InitialEliminationOffset is the distance from a hard register to an
// eliminable one.  The frame is recomputed.
func (m *Machine) InitialEliminationOffset(fn *target.Function, from, to ir.Regno) int64 {
	frame := m.ComputeFrameInfo(fn)

	var src, dest int64

	switch to {
	case reglayout.HardFramePointer:
		dest = frame.HardFramePointerOffset
	case reglayout.SP:
		dest = 0
	default:
		pan.Internal("cannot eliminate %s to %s", from, reglayout.Name(to))
	}

	switch from {
	case ir.FramePointer:
		src = frame.FramePointerOffset
	case ir.ArgPointer:
		src = frame.ArgPointerOffset
	default:
		pan.Internal("cannot eliminate %s to %s", reglayout.Name(from), reglayout.Name(to))
	}

	return src - dest
}

// CanUseReturnInsn reports whether the epilogue is a bare return.
func (m *Machine) CanUseReturnInsn(fn *target.Function) bool {
	return fn.Allocated && fn.Frame.TotalSize == 0
}

// SetReturnAddress stores address in the return address save slot.
func (m *Machine) SetReturnAddress(fn *target.Function, address, scratch ir.Reg) (err error) {
	if pan.Recover() {
		defer func() { err = pan.Error(recover()) }()
	}

	if fn.Frame.GPRMask&(1<<(reglayout.RA-reglayout.GPFirst)) == 0 {
		pan.Internal("return address is not saved")
	}

	sp := ir.Reg{Num: reglayout.SP, Mode: m.pmode()}
	slot := m.addOffset(fn, scratch, sp, fn.Frame.GPSPOffset)
	fn.Set(ir.Mem{Addr: slot, Mode: address.Mode}, address)
	return
}
