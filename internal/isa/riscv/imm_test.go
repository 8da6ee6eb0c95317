// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package riscv

import (
	"math"
	"math/rand"
	"testing"

	"gate.computer/rvtarget/errors"
	"gate.computer/rvtarget/ir"
)

var integerTestValues = []int64{
	0,
	1,
	-1,
	0x7ff,
	-0x800,
	0x800,
	-0x801,
	0xfff,
	0x1000,
	0x12345,
	0x100000,
	0x7ffff7ff,
	0x7ffff800,
	0x80000000,
	-0x80000000,
	0xffffffff,
	0x100000000,
	0x123456789abcdef0,
	0x0fedcba987654321,
	math.MaxInt64,
	math.MinInt64,
	math.MaxInt32,
	math.MinInt32,
	0x5555555555555555,
	-0x5555555555555556,
}

func testIntegerValues() []int64 {
	values := append([]int64(nil), integerTestValues...)

	for shift := 0; shift < 64; shift++ {
		values = append(values, 1<<uint(shift), -1<<uint(shift), (1<<uint(shift))-1, 0x7ff<<uint(shift))
	}

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		values = append(values, int64(r.Uint64()), int64(r.Uint32()), int64(int32(r.Uint32())))
	}

	return values
}

func checkInteger(t testing.TB, v int64) {
	seq := BuildInteger(v)

	if len(seq) == 0 || len(seq) > MaxIntegerOps {
		t.Fatalf("%#x: %d operations", v, len(seq))
	}
	if seq[0].Code != OpLoad {
		t.Fatalf("%#x: first operation is %s", v, seq[0])
	}
	if x := Replay(seq); x != v {
		t.Fatalf("%#x: replayed as %#x: %v", v, x, seq)
	}
}

func TestBuildInteger(t *testing.T) {
	for _, v := range testIntegerValues() {
		checkInteger(t, v)
	}
}

func FuzzBuildInteger(f *testing.F) {
	for _, v := range integerTestValues {
		f.Add(v)
	}

	f.Fuzz(func(t *testing.T, v int64) {
		checkInteger(t, v)
	})
}

func TestBuildIntegerSmall(t *testing.T) {
	for v := int64(-ImmReach / 2); v < ImmReach/2; v++ {
		if seq := BuildInteger(v); len(seq) != 1 || seq[0] != (IntegerOp{OpLoad, v}) {
			t.Fatalf("%d: %v", v, seq)
		}
	}

	if seq := BuildInteger(0x7ff); len(seq) != 1 || seq[0].Value != 0x7ff {
		t.Errorf("0x7ff: %v", seq)
	}
}

func TestBuildIntegerUpper(t *testing.T) {
	seq := BuildInteger(0x100000)
	if len(seq) != 1 || seq[0] != (IntegerOp{OpLoad, 0x100000}) {
		t.Errorf("0x100000: %v", seq)
	}
	if !LUIOperand(0x100000) || SmallOperand(0x100000) {
		t.Error("0x100000 is not an upper immediate")
	}

	if LUIOperand(0x100001) || LUIOperand(0x80000000) {
		t.Error("invalid upper immediate accepted")
	}
}

func TestConstParts(t *testing.T) {
	for _, v := range testIntegerValues() {
		high := ConstHighPart(v)
		low := ConstLowPart(v)

		if high&(ImmReach-1) != 0 {
			t.Fatalf("%#x: high part %#x", v, high)
		}
		if !SmallOperand(low) {
			t.Fatalf("%#x: low part %#x", v, low)
		}
		if high+low != v {
			t.Fatalf("%#x: %#x + %#x", v, high, low)
		}
	}
}

func TestIntegerCost(t *testing.T) {
	m64 := newMachine(t, nil)
	m32 := newMachine(t, rv32)

	for _, v := range testIntegerValues() {
		build := len(BuildInteger(v))

		if cost := m32.IntegerCost(v); cost != build {
			t.Fatalf("%#x: 32-bit cost %d, build %d", v, cost, build)
		}

		if cost := m64.IntegerCost(v); cost != min(build, SplitIntegerCost(v)) {
			t.Fatalf("%#x: 64-bit cost %d", v, cost)
		}
	}

	if cost := m64.IntegerCost(0x7ff); cost != 1 {
		t.Error(cost)
	}
	if cost := m64.IntegerCost(0x12345); cost != 2 {
		t.Error(cost)
	}
}

func TestMoveInteger(t *testing.T) {
	m := newMachine(t, nil)

	for _, v := range testIntegerValues()[:500] {
		fn, seq := newFunction()
		dest := fn.Host.NewPseudo(ir.I64)

		if err := m.MoveInteger(fn, ir.Reg{}, dest, v); err != nil {
			t.Fatal(err)
		}

		s := newSim()
		s.run(seq.Insns)
		if x := s.regs[dest.Num]; x != v {
			t.Fatalf("%#x: moved %#x: %v", v, x, seq.Insns)
		}
	}
}

func TestMoveIntegerAllocated(t *testing.T) {
	m := newMachine(t, nil)

	for _, v := range testIntegerValues()[:500] {
		fn, seq := newFunction()
		fn.Allocated = true

		if err := m.MoveInteger(fn, t0, a0, v); err != nil {
			t.Fatal(err)
		}

		for _, insn := range seq.Insns {
			if r, ok := insn.Dest.(ir.Reg); ok && r.Num.Pseudo() {
				t.Fatalf("%#x: pseudo register after allocation: %s", v, insn)
			}
		}

		s := newSim()
		s.run(seq.Insns)
		if x := s.regs[a0.Num]; x != v {
			t.Fatalf("%#x: moved %#x: %v", v, x, seq.Insns)
		}
		if n := len(seq.Insns); n != len(BuildInteger(v)) {
			t.Fatalf("%#x: %d instructions", v, n)
		}
	}
}

func TestMoveIntegerNoTemporary(t *testing.T) {
	m := newMachine(t, nil)
	fn, _ := newFunction()
	fn.Allocated = true

	if err := m.MoveInteger(fn, ir.Reg{}, a0, 0x7ff); err != nil {
		t.Error(err)
	}

	err := m.MoveInteger(fn, ir.Reg{}, a0, 0x123456789)
	if err == nil || !errors.IsInternal(err) {
		t.Errorf("error: %v", err)
	}
}
