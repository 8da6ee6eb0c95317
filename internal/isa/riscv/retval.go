// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package riscv

import (
	"gate.computer/rvtarget/internal/isa/reglayout"
	"gate.computer/rvtarget/ir"
)

// fprReturnFields returns the fields of a record of one or two scalar
// floats.
func fprReturnFields(t *ir.Type) []ir.Field {
	if t.Kind != ir.TypeRecord || len(t.Fields) > 2 {
		return nil
	}

	for _, f := range t.Fields {
		if !f.Type.ScalarFloat() {
			return nil
		}
	}
	return t.Fields
}

// returnModeInFPR: values are returned in FPRs only when the hardware
// supports their unit size.
func (m *Machine) returnModeInFPR(mode ir.Mode) bool {
	return mode.Float() && mode.UnitSize() <= m.fpValueSize()
}

func fprSingle(typeMode, valueMode ir.Mode) ir.Expr {
	r := ir.Reg{Num: reglayout.FPReturn, Mode: valueMode}
	if typeMode == valueMode {
		return r
	}
	return ir.Parallel{Mode: typeMode, Pieces: []ir.Piece{{Reg: r}}}
}

func fprPair(mode, mode1 ir.Mode, offset1 int64, mode2 ir.Mode, offset2 int64) ir.Expr {
	return ir.Parallel{
		Mode: mode,
		Pieces: []ir.Piece{
			{Reg: ir.Reg{Num: reglayout.FPReturn, Mode: mode1}, Offset: offset1},
			{Reg: ir.Reg{Num: reglayout.FPReturn + 1, Mode: mode2}, Offset: offset2},
		},
	}
}

// promoteMode widens integer return values to a full word.
func (m *Machine) promoteMode(t *ir.Type) ir.Mode {
	switch t.Kind {
	case ir.TypeInt, ir.TypePointer:
		if t.Mode.Class() == ir.ClassInt && t.Mode.Size() < m.word {
			return m.pmode()
		}
	}
	return t.Mode
}

// FunctionValue describes the return value location.  Libcall values pass a
// nil type and their mode.
func (m *Machine) FunctionValue(t *ir.Type, mode ir.Mode) ir.Expr {
	if t != nil {
		mode = m.promoteMode(t)

		if m.config.HardFloat {
			switch fields := fprReturnFields(t); len(fields) {
			case 1:
				return fprSingle(mode, fields[0].Type.Mode)

			case 2:
				return fprPair(mode, fields[0].Type.Mode, fields[0].BitPos/8, fields[1].Type.Mode, fields[1].BitPos/8)
			}
		}

		if !t.Float() {
			return ir.Reg{Num: reglayout.V0, Mode: mode}
		}
	}

	// Long doubles are returned as a pair of integer words.
	if mode == ir.F128 && m.config.HardFloat {
		return fprPair(mode, ir.I64, 0, ir.I64, int64(mode.Size()/2))
	}

	if m.returnModeInFPR(mode) {
		if mode.Class() == ir.ClassComplexFloat {
			inner := mode.Inner()
			return fprPair(mode, inner, 0, inner, int64(mode.Size()/2))
		}
		return ir.Reg{Num: reglayout.FPReturn, Mode: mode}
	}

	return ir.Reg{Num: reglayout.V0, Mode: mode}
}

// ReturnInMemory unless the value fits in v0 and v1.
func (m *Machine) ReturnInMemory(t *ir.Type) bool {
	return t.Size < 0 || t.Size > int64(2*m.word)
}
