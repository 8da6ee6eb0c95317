// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package riscv

import (
	"testing"

	"gate.computer/rvtarget/internal/isa/reglayout"
	"gate.computer/rvtarget/ir"
	"gate.computer/rvtarget/target"
)

type testArg struct {
	mode  ir.Mode
	t     *ir.Type
	named bool
}

func scalarArg(m ir.Mode) testArg { return testArg{m, ir.Scalar(m), true} }

func recordArg(fields ...*ir.Type) testArg {
	t := ir.Record(fields...)
	return testArg{t.Mode, t, true}
}

func TestArgInfo32(t *testing.T) {
	m := newMachine(t, rv32)

	args := []testArg{
		scalarArg(ir.I32),
		scalarArg(ir.I64),
		scalarArg(ir.I32),
		scalarArg(ir.I32),
		recordArg(ir.Scalar(ir.I64), ir.Scalar(ir.I64)),
		scalarArg(ir.I32),
		scalarArg(ir.I64),
		scalarArg(ir.I32),
	}

	expect := []ArgInfo{
		{RegOffset: 0, RegWords: 1},
		{RegOffset: 2, RegWords: 2},
		{RegOffset: 4, RegWords: 1},
		{RegOffset: 5, RegWords: 1},
		{RegOffset: 6, RegWords: 2, StackOffset: 0, StackWords: 2},
		{RegOffset: 8, StackOffset: 2, StackWords: 1},
		{RegOffset: 8, StackOffset: 4, StackWords: 2},
		{RegOffset: 8, StackOffset: 6, StackWords: 1},
	}

	var (
		cum       target.CumulativeArgs
		stackOnly int
	)

	for i, a := range args {
		info := m.ArgInfo(cum, a.mode, a.t, a.named)
		if info != expect[i] {
			t.Errorf("argument %d: %+v", i, info)
		}

		x := m.FunctionArg(cum, a.mode, a.t, a.named)
		if x == nil {
			stackOnly++
		} else if r, ok := x.(ir.Reg); !ok || r.Num != reglayout.A0+ir.Regno(info.RegOffset) || r.Mode != a.mode {
			t.Errorf("argument %d: %s", i, x)
		}

		partial := m.ArgPartialBytes(cum, a.mode, a.t, a.named)
		if i == 4 && partial != 8 {
			t.Errorf("argument %d: %d partial bytes", i, partial)
		} else if i != 4 && partial != 0 {
			t.Errorf("argument %d: %d partial bytes", i, partial)
		}

		m.FunctionArgAdvance(&cum, a.mode, a.t, a.named)
	}

	if stackOnly != 3 {
		t.Errorf("%d arguments entirely on stack", stackOnly)
	}
	if cum != (target.CumulativeArgs{NumGPRs: 8, StackWords: 7}) {
		t.Errorf("final %+v", cum)
	}
}

func TestArgInfoWords(t *testing.T) {
	for _, configure := range []func(*target.Config){nil, rv32, softFloat} {
		m := newMachine(t, configure)

		args := []testArg{
			scalarArg(ir.I8),
			scalarArg(ir.F64),
			scalarArg(ir.I128),
			recordArg(ir.Scalar(ir.F64), ir.Scalar(ir.I32)),
			{ir.F32, ir.Scalar(ir.F32), false},
			scalarArg(ir.F128),
			recordArg(ir.Scalar(ir.I8), ir.Scalar(ir.I64), ir.Scalar(ir.I16)),
			scalarArg(ir.I64),
			scalarArg(ir.I32),
			scalarArg(ir.C128),
			scalarArg(ir.I64),
		}

		var cum target.CumulativeArgs

		for i, a := range args {
			info := m.ArgInfo(cum, a.mode, a.t, a.named)
			words := int((a.t.Size + int64(m.word) - 1) / int64(m.word))

			if a.mode.Class() != ir.ClassComplexFloat && info.RegWords+info.StackWords != words {
				t.Errorf("%d bits, argument %d: %+v", m.wordBits(), i, info)
			}
			if info.RegOffset+info.RegWords > MaxArgsInRegisters || info.RegOffset < cum.NumGPRs {
				t.Errorf("%d bits, argument %d: %+v", m.wordBits(), i, info)
			}
			if info.StackOffset < cum.StackWords {
				t.Errorf("%d bits, argument %d: %+v", m.wordBits(), i, info)
			}

			m.FunctionArgAdvance(&cum, a.mode, a.t, a.named)

			if cum.NumGPRs != info.RegOffset+info.RegWords {
				t.Errorf("%d bits, argument %d: advanced to %+v", m.wordBits(), i, cum)
			}
		}
	}
}

func TestFunctionArgFloat(t *testing.T) {
	m := newMachine(t, nil)
	msoft := newMachine(t, softFloat)
	var cum target.CumulativeArgs

	if x := m.FunctionArg(cum, ir.F64, ir.Scalar(ir.F64), true); x != ir.Expr(ir.Reg{Num: reglayout.FPArgFirst, Mode: ir.F64}) {
		t.Errorf("named double: %s", x)
	}
	if x := m.FunctionArg(cum, ir.F64, ir.Scalar(ir.F64), false); x != ir.Expr(ir.Reg{Num: reglayout.A0, Mode: ir.F64}) {
		t.Errorf("unnamed double: %s", x)
	}
	if x := msoft.FunctionArg(cum, ir.F64, ir.Scalar(ir.F64), true); x != ir.Expr(ir.Reg{Num: reglayout.A0, Mode: ir.F64}) {
		t.Errorf("soft-float double: %s", x)
	}
	if x := m.FunctionArg(cum, ir.F128, ir.Scalar(ir.F128), true); x != ir.Expr(ir.Reg{Num: reglayout.A0, Mode: ir.F128}) {
		t.Errorf("long double: %s", x)
	}
	if x := m.FunctionArg(cum, ir.Void, nil, true); x != nil {
		t.Errorf("end of arguments: %s", x)
	}

	m.FunctionArgAdvance(&cum, ir.F64, ir.Scalar(ir.F64), true)
	if x := m.FunctionArg(cum, ir.I32, ir.Scalar(ir.I32), true); x != ir.Expr(ir.Reg{Num: reglayout.A0 + 1, Mode: ir.I32}) {
		t.Errorf("integer after double: %s", x)
	}
}

func TestFunctionArgRecord(t *testing.T) {
	m := newMachine(t, nil)
	var cum target.CumulativeArgs

	mixed := ir.Record(ir.Scalar(ir.F64), ir.Scalar(ir.I64))
	expect := ir.Parallel{
		Mode: ir.Block,
		Pieces: []ir.Piece{
			{Reg: ir.Reg{Num: reglayout.FPArgFirst, Mode: ir.F64}, Offset: 0},
			{Reg: ir.Reg{Num: reglayout.A0 + 1, Mode: ir.I64}, Offset: 8},
		},
	}
	if x := m.FunctionArg(cum, ir.Block, mixed, true); !ir.Equal(x, expect) {
		t.Errorf("mixed record: %s", x)
	}
	if x := m.FunctionArg(cum, ir.Block, mixed, false); x != ir.Expr(ir.Reg{Num: reglayout.A0, Mode: ir.Block}) {
		t.Errorf("unnamed mixed record: %s", x)
	}

	floats := ir.Record(ir.Scalar(ir.F32), ir.Scalar(ir.F32))
	if x := m.FunctionArg(cum, ir.Block, floats, true); x != ir.Expr(ir.Reg{Num: reglayout.A0, Mode: ir.Block}) {
		t.Errorf("float pair record: %s", x)
	}
}

func TestFunctionArgComplex(t *testing.T) {
	m := newMachine(t, nil)
	f18 := reglayout.FPArgFirst

	for i, x := range []struct {
		cum    target.CumulativeArgs
		mode   ir.Mode
		expect ir.Expr
	}{
		{
			target.CumulativeArgs{},
			ir.C64,
			ir.Parallel{Mode: ir.C64, Pieces: []ir.Piece{
				{Reg: ir.Reg{Num: f18, Mode: ir.F32}},
				{Reg: ir.Reg{Num: f18 + 1, Mode: ir.F32}, Offset: 4},
			}},
		},
		{
			target.CumulativeArgs{},
			ir.C128,
			ir.Parallel{Mode: ir.C128, Pieces: []ir.Piece{
				{Reg: ir.Reg{Num: f18, Mode: ir.F64}},
				{Reg: ir.Reg{Num: f18 + 1, Mode: ir.F64}, Offset: 8},
			}},
		},
		{
			target.CumulativeArgs{NumGPRs: 7},
			ir.C64,
			ir.Reg{Num: reglayout.A0 + 7, Mode: ir.C64},
		},
		{
			target.CumulativeArgs{NumGPRs: 7},
			ir.C128,
			ir.Reg{Num: f18 + 7, Mode: ir.F64},
		},
	} {
		if arg := m.FunctionArg(x.cum, x.mode, ir.Scalar(x.mode), true); !ir.Equal(arg, x.expect) {
			t.Errorf("%d: %s", i, arg)
		}
	}

	if n := m.ArgPartialBytes(target.CumulativeArgs{NumGPRs: 7}, ir.C128, ir.Scalar(ir.C128), true); n != 8 {
		t.Errorf("partial bytes: %d", n)
	}
}

func TestFunctionArgBoundary(t *testing.T) {
	m64 := newMachine(t, nil)
	m32 := newMachine(t, rv32)

	overaligned := ir.Record(ir.Scalar(ir.I64))
	overaligned.Align = 256

	for i, x := range []struct {
		m     *Machine
		mode  ir.Mode
		t     *ir.Type
		align int
	}{
		{m64, ir.I8, ir.Scalar(ir.I8), 64},
		{m64, ir.I128, nil, 64},
		{m64, ir.Block, overaligned, 128},
		{m32, ir.I32, nil, 32},
		{m32, ir.I64, ir.Scalar(ir.I64), 64},
		{m32, ir.F64, nil, 64},
	} {
		if align := x.m.FunctionArgBoundary(x.mode, x.t); align != x.align {
			t.Errorf("%d: %d", i, align)
		}
	}
}

func TestPassByReference(t *testing.T) {
	m := newMachine(t, nil)

	if m.PassByReference(ir.Block, ir.Record(ir.Scalar(ir.I64), ir.Scalar(ir.I64))) {
		t.Error("16-byte record passed by reference")
	}
	if !m.PassByReference(ir.Block, ir.Record(ir.Scalar(ir.I64), ir.Scalar(ir.I64), ir.Scalar(ir.I64))) {
		t.Error("24-byte record passed by value")
	}
	if !m.PassByReference(ir.Block, &ir.Type{Kind: ir.TypeArray, Mode: ir.Block, Size: -1}) {
		t.Error("variable-size type passed by value")
	}
	if m.PassByReference(ir.I128, nil) {
		t.Error("libcall argument passed by reference")
	}
}

func TestFunctionValue(t *testing.T) {
	m := newMachine(t, nil)
	msoft := newMachine(t, softFloat)
	f16 := reglayout.FPReturn

	for i, x := range []struct {
		m      *Machine
		t      *ir.Type
		mode   ir.Mode
		expect ir.Expr
	}{
		{m, ir.Scalar(ir.I8), ir.I8, ir.Reg{Num: reglayout.V0, Mode: ir.I64}},
		{m, ir.Scalar(ir.I64), ir.I64, ir.Reg{Num: reglayout.V0, Mode: ir.I64}},
		{m, ir.Scalar(ir.F64), ir.F64, ir.Reg{Num: f16, Mode: ir.F64}},
		{m, ir.Scalar(ir.F32), ir.F32, ir.Reg{Num: f16, Mode: ir.F32}},
		{
			m, ir.Record(ir.Scalar(ir.F32), ir.Scalar(ir.F32)), ir.Block,
			ir.Parallel{Mode: ir.Block, Pieces: []ir.Piece{
				{Reg: ir.Reg{Num: f16, Mode: ir.F32}},
				{Reg: ir.Reg{Num: f16 + 1, Mode: ir.F32}, Offset: 4},
			}},
		},
		{
			m, ir.Record(ir.Scalar(ir.F64)), ir.Block,
			ir.Parallel{Mode: ir.Block, Pieces: []ir.Piece{{Reg: ir.Reg{Num: f16, Mode: ir.F64}}}},
		},
		{m, ir.Record(ir.Scalar(ir.I32), ir.Scalar(ir.I32)), ir.Block, ir.Reg{Num: reglayout.V0, Mode: ir.Block}},
		{
			m, nil, ir.F128,
			ir.Parallel{Mode: ir.F128, Pieces: []ir.Piece{
				{Reg: ir.Reg{Num: f16, Mode: ir.I64}},
				{Reg: ir.Reg{Num: f16 + 1, Mode: ir.I64}, Offset: 8},
			}},
		},
		{
			m, nil, ir.C128,
			ir.Parallel{Mode: ir.C128, Pieces: []ir.Piece{
				{Reg: ir.Reg{Num: f16, Mode: ir.F64}},
				{Reg: ir.Reg{Num: f16 + 1, Mode: ir.F64}, Offset: 8},
			}},
		},
		{m, nil, ir.I32, ir.Reg{Num: reglayout.V0, Mode: ir.I32}},
		{msoft, ir.Scalar(ir.F64), ir.F64, ir.Reg{Num: reglayout.V0, Mode: ir.F64}},
		{msoft, ir.Record(ir.Scalar(ir.F32), ir.Scalar(ir.F32)), ir.Block, ir.Reg{Num: reglayout.V0, Mode: ir.Block}},
		{msoft, nil, ir.F128, ir.Reg{Num: reglayout.V0, Mode: ir.F128}},
	} {
		if v := x.m.FunctionValue(x.t, x.mode); !ir.Equal(v, x.expect) {
			t.Errorf("%d: %s", i, v)
		}
	}
}

func TestReturnInMemory(t *testing.T) {
	m64 := newMachine(t, nil)
	m32 := newMachine(t, rv32)
	pair := ir.Record(ir.Scalar(ir.I64), ir.Scalar(ir.I64))

	if m64.ReturnInMemory(pair) || !m32.ReturnInMemory(pair) {
		t.Error("16-byte record")
	}
	if !m64.ReturnInMemory(&ir.Type{Kind: ir.TypeArray, Mode: ir.Block, Size: -1}) {
		t.Error("variable-size type")
	}
}

func TestSetupIncomingVarargs(t *testing.T) {
	m := newMachine(t, nil)
	fn, seq := newFunction()

	cum := target.CumulativeArgs{NumGPRs: 1}
	if err := m.SetupIncomingVarargs(fn, cum, ir.I32, ir.Scalar(ir.I32)); err != nil {
		t.Fatal(err)
	}

	if fn.VarargsSize != 48 {
		t.Errorf("varargs size %d", fn.VarargsSize)
	}
	if len(seq.Insns) != 6 {
		t.Fatalf("instructions: %v", seq.Insns)
	}

	ap := ir.Reg{Num: ir.ArgPointer, Mode: ir.I64}
	first := ir.SetInsn(ir.Mem{Addr: ir.PlusConstant(ap, -48), Mode: ir.I64}, ir.Reg{Num: reglayout.A0 + 2, Mode: ir.I64})
	if !ir.Equal(seq.Insns[0].Dest, first.Dest) || !ir.Equal(seq.Insns[0].Src, first.Src) {
		t.Errorf("first store: %s", seq.Insns[0])
	}

	last := seq.Insns[5]
	if !ir.Equal(last.Dest, ir.Mem{Addr: ir.PlusConstant(ap, -8), Mode: ir.I64}) {
		t.Errorf("last store: %s", last)
	}
}

func TestSetupIncomingVarargsFull(t *testing.T) {
	m := newMachine(t, nil)
	fn, seq := newFunction()

	cum := target.CumulativeArgs{NumGPRs: 7}
	if err := m.SetupIncomingVarargs(fn, cum, ir.I64, ir.Scalar(ir.I64)); err != nil {
		t.Fatal(err)
	}
	if fn.VarargsSize != 0 || len(seq.Insns) != 0 {
		t.Errorf("varargs size %d, instructions: %v", fn.VarargsSize, seq.Insns)
	}
}

func TestArgInfoClass(t *testing.T) {
	if c := (ArgInfo{FPR: true, RegWords: 1}).Class(true); c != target.FPRegs {
		t.Error(c)
	}
	if c := (ArgInfo{FPR: true, RegWords: 1}).Class(false); c != target.GeneralRegs {
		t.Error(c)
	}
	if c := (ArgInfo{StackWords: 1}).Class(true); c != target.NoRegs {
		t.Error(c)
	}
}
