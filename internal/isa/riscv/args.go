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

// ArgInfo describes where a single argument is passed.
type ArgInfo struct {
	FPR bool // passed in floating-point registers

	RegOffset int // first argument register (0-7), or 8 if none is left
	RegWords  int

	StackOffset int // first stack word, padded for alignment
	StackWords  int
}

// Class of the registers holding the leading part of the argument.
func (info ArgInfo) Class(hardFloat bool) target.RegClass {
	switch {
	case info.RegWords == 0:
		return target.NoRegs
	case info.FPR && hardFloat:
		return target.FPRegs
	}
	return target.GeneralRegs
}

func typeSize(m ir.Mode, t *ir.Type) int64 {
	if t != nil {
		return t.Size
	}
	return int64(m.Size())
}

// ArgInfo classifies an argument which follows the ones accounted in cum.
func (m *Machine) ArgInfo(cum target.CumulativeArgs, mode ir.Mode, t *ir.Type, named bool) (info ArgInfo) {
	bytes := max(typeSize(mode, t), 0)
	words := int((bytes + int64(m.word) - 1) / int64(m.word))

	// Named floating-point values are passed in FPRs.
	info.FPR = named && (t == nil || t.Float()) && mode.Float() && mode.UnitSize() <= m.fpValueSize()

	// Complex floats need two free registers, or else they are passed like
	// a record of two floats.
	if info.FPR && mode.Class() == ir.ClassComplexFloat && mode.UnitSize() < m.fpValueSize() {
		if cum.NumGPRs >= MaxArgsInRegisters-1 {
			info.FPR = false
		} else {
			words = 2
		}
	}

	doubleword := m.FunctionArgBoundary(mode, t) > m.wordBits()

	info.RegOffset = cum.NumGPRs
	if doubleword {
		info.RegOffset += info.RegOffset & 1
	}

	info.StackOffset = cum.StackWords
	if doubleword {
		info.StackOffset += info.StackOffset & 1
	}

	maxRegs := max(MaxArgsInRegisters-info.RegOffset, 0)

	info.RegWords = min(words, maxRegs)
	info.StackWords = words - info.RegWords
	return
}

func (m *Machine) argRegno(info ArgInfo) ir.Regno {
	if info.FPR && m.config.HardFloat {
		return reglayout.FPArgFirst + ir.Regno(info.RegOffset)
	}
	return reglayout.A0 + ir.Regno(info.RegOffset)
}

// doubleField is a scalar float field which fills a word.
func (m *Machine) doubleField(f ir.Field) bool {
	return f.Type.ScalarFloat() && f.Type.Precision() == m.wordBits()
}

func (m *Machine) FunctionArg(cum target.CumulativeArgs, mode ir.Mode, t *ir.Type, named bool) ir.Expr {
	if mode == ir.Void {
		return nil
	}

	info := m.ArgInfo(cum, mode, t, named)

	if info.RegOffset == MaxArgsInRegisters {
		return nil // entirely on the stack
	}

	// Word-sized chunks of a record which contain a double in its entirety
	// are passed in FPRs.
	if m.config.HardFloat && named && t != nil && t.Kind == ir.TypeRecord && t.Size >= 0 {
		if x := m.recordArg(info, mode, t); x != nil {
			return x
		}
	}

	// Complex values are passed in FPR pairs: real part in the lower
	// register and imaginary part in the upper one.
	if info.FPR && mode.Class() == ir.ClassComplexFloat {
		inner := mode.Inner()
		regno := reglayout.FPArgFirst + ir.Regno(info.RegOffset)

		if info.RegWords*m.word == inner.Size() {
			// Real part in a register, imaginary part on the stack.
			if info.StackWords != info.RegWords {
				pan.Internal("complex argument split as %d+%d words", info.RegWords, info.StackWords)
			}
			return ir.Reg{Num: regno, Mode: inner}
		}

		if info.StackWords != 0 {
			pan.Internal("complex argument has %d stack words", info.StackWords)
		}
		return ir.Parallel{
			Mode: mode,
			Pieces: []ir.Piece{
				{Reg: ir.Reg{Num: regno, Mode: inner}},
				{Reg: ir.Reg{Num: regno + ir.Regno(info.RegWords/2), Mode: inner}, Offset: int64(inner.Size())},
			},
		}
	}

	return ir.Reg{Num: m.argRegno(info), Mode: mode}
}

// recordArg scans the fields with an advancing bit position.  Fields are
// assumed to be in increasing, non-overlapping order.
func (m *Machine) recordArg(info ArgInfo, mode ir.Mode, t *ir.Type) ir.Expr {
	found := false
	for _, f := range t.Fields {
		if m.doubleField(f) && f.BitPos%int64(m.wordBits()) == 0 {
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	x := ir.Parallel{Mode: mode}
	fields := t.Fields
	bitpos := int64(0)

	for i := 0; i < info.RegWords; i++ {
		for len(fields) > 0 && fields[0].BitPos < bitpos {
			fields = fields[1:]
		}

		var r ir.Reg
		if len(fields) > 0 && fields[0].BitPos == bitpos && m.doubleField(fields[0]) {
			r = ir.Reg{Num: reglayout.FPArgFirst + ir.Regno(info.RegOffset+i), Mode: fields[0].Type.Mode}
		} else {
			r = ir.Reg{Num: reglayout.A0 + ir.Regno(info.RegOffset+i), Mode: m.pmode()}
		}

		x.Pieces = append(x.Pieces, ir.Piece{Reg: r, Offset: bitpos / 8})
		bitpos += int64(m.wordBits())
	}

	return x
}

// FunctionArgAdvance moves the cursor past an argument.  A doubleword-aligned
// argument which skipped the last GPR leaves the register count at 8.
func (m *Machine) FunctionArgAdvance(cum *target.CumulativeArgs, mode ir.Mode, t *ir.Type, named bool) {
	info := m.ArgInfo(*cum, mode, t, named)

	cum.NumGPRs = info.RegOffset + info.RegWords
	if info.StackWords > 0 {
		cum.StackWords = info.StackOffset + info.StackWords
	}
}

// ArgPartialBytes is the number of leading bytes passed in registers when
// the argument straddles the register/stack boundary.
func (m *Machine) ArgPartialBytes(cum target.CumulativeArgs, mode ir.Mode, t *ir.Type, named bool) int {
	info := m.ArgInfo(cum, mode, t, named)
	if info.StackWords > 0 {
		return info.RegWords * m.word
	}
	return 0
}

// FunctionArgBoundary in bits: at least a word, at most the stack boundary.
func (m *Machine) FunctionArgBoundary(mode ir.Mode, t *ir.Type) int {
	var align int
	if t != nil {
		align = t.Align
	} else {
		align = mode.Alignment()
	}
	return min(max(align, m.wordBits()), StackBoundary)
}

func (m *Machine) PassByReference(mode ir.Mode, t *ir.Type) bool {
	return t != nil && m.ReturnInMemory(t)
}

// SetupIncomingVarargs saves the argument registers which were not used by
// named arguments, so that the variable arguments are contiguous with the
// ones passed on the stack.  cum accounts all named arguments but the last
// one, described by mode and t.
func (m *Machine) SetupIncomingVarargs(fn *target.Function, cum target.CumulativeArgs, mode ir.Mode, t *ir.Type) (err error) {
	if pan.Recover() {
		defer func() { err = pan.Error(recover()) }()
	}

	m.FunctionArgAdvance(&cum, mode, t, true)

	saved := MaxArgsInRegisters - cum.NumGPRs
	debug.Printf("varargs: %d argument registers saved", saved)

	if saved > 0 {
		pmode := m.pmode()
		ap := ir.Reg{Num: ir.ArgPointer, Mode: pmode}

		for i := 0; i < saved; i++ {
			addr := ir.PlusConstant(ap, int64((i-saved)*m.word))
			fn.Set(ir.Mem{Addr: addr, Mode: pmode}, ir.Reg{Num: reglayout.A0 + ir.Regno(cum.NumGPRs+i), Mode: pmode})
		}
	}

	fn.VarargsSize = int64(max(saved, 0) * m.word)
	return
}
