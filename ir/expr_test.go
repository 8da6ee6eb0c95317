// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"testing"
)

var sym = Symbol{Name: "x"}

func TestPlusConstant(t *testing.T) {
	r := Reg{5, I64}

	for i, c := range []struct {
		x      Expr
		off    int64
		expect Expr
	}{
		{Const(1), 2, Const(3)},
		{sym, 0, sym},
		{sym, 8, Offset{sym, 8}},
		{Offset{sym, 8}, -8, sym},
		{Offset{sym, 8}, 4, Offset{sym, 12}},
		{r, 16, Op{Add, I64, r, Const(16)}},
		{Op{Add, I64, r, Const(16)}, 4, Op{Add, I64, r, Const(20)}},
		{Op{Add, I64, r, Const(16)}, -16, r},
	} {
		if x := PlusConstant(c.x, c.off); !Equal(x, c.expect) {
			t.Errorf("%d: %s", i, x)
		}
	}
}

func TestSplit(t *testing.T) {
	if base, off := SplitConst(Offset{sym, -4}); !Equal(base, sym) || off != -4 {
		t.Error(base, off)
	}
	if base, off := SplitConst(sym); !Equal(base, sym) || off != 0 {
		t.Error(base, off)
	}

	r := Reg{3, I32}
	if base, off := SplitPlus(Bin(Add, I32, r, Const(7))); !Equal(base, r) || off != 7 {
		t.Error(base, off)
	}
	if base, off := SplitPlus(Bin(Add, I32, r, r)); off != 0 || !Equal(base, Bin(Add, I32, r, r)) {
		t.Error(base, off)
	}
}

func TestMentionsTLS(t *testing.T) {
	tls := Symbol{Name: "t", TLS: TLSLocalExec}

	if MentionsTLS(Op{Add, I64, Reg{1, I64}, Offset{sym, 4}}) {
		t.Error("false positive")
	}
	if !MentionsTLS(Offset{tls, 4}) {
		t.Error("offset")
	}
	if !MentionsTLS(Mem{LoSum{Reg{1, I64}, tls}, I32}) {
		t.Error("lo_sum")
	}
}

func TestEqual(t *testing.T) {
	p := Parallel{F64, []Piece{{Reg{50, F64}, 0}, {Reg{51, F64}, 8}}}
	q := Parallel{F64, []Piece{{Reg{50, F64}, 0}, {Reg{51, F64}, 8}}}

	if !Equal(p, q) {
		t.Error("parallel")
	}
	q.Pieces[1].Offset = 4
	if Equal(p, q) {
		t.Error("parallel offset")
	}

	if Equal(Const(0), Reg{0, I64}) {
		t.Error("const vs reg")
	}
	if !Equal(nil, nil) || Equal(nil, Const(0)) {
		t.Error("nil")
	}

	a := Intrinsic{"fence", Void, []Expr{Const(1)}}
	b := Intrinsic{"fence", Void, []Expr{Const(1)}}
	if !Equal(a, b) {
		t.Error("intrinsic")
	}
}

func TestRecord(t *testing.T) {
	r := Record(Scalar(I8), Scalar(F64), Scalar(I32))

	if r.Size != 24 || r.Align != 64 {
		t.Errorf("size %d align %d", r.Size, r.Align)
	}

	for i, pos := range []int64{0, 64, 128} {
		if r.Fields[i].BitPos != pos {
			t.Errorf("field %d at %d", i, r.Fields[i].BitPos)
		}
	}

	if !Scalar(C64).Float() || Scalar(C64).ScalarFloat() || Scalar(I64).Float() {
		t.Error("float predicates")
	}
}

func TestSequence(t *testing.T) {
	var s Sequence

	a := s.NewPseudo(I64)
	b := s.NewPseudo(I64)
	if a.Num != FirstPseudo || b.Num != FirstPseudo+1 || !b.Num.Pseudo() {
		t.Error(a, b)
	}

	m1 := s.ForceConstMem(I64, Offset{sym, 1 << 20})
	m2 := s.ForceConstMem(I64, Const(12345678912345))
	m3 := s.ForceConstMem(I64, Offset{sym, 1 << 20})

	if len(s.Pool) != 2 || !Equal(m1, m3) || Equal(m1, m2) {
		t.Error(s.Pool)
	}

	s.Emit(SetInsn(a, Const(1)))
	if len(s.Insns) != 1 || s.Insns[0].String() != "(set p0 1)" {
		t.Error(s.Insns)
	}

	s.Reset()
	if len(s.Insns) != 0 || s.NewPseudo(I32).Num != FirstPseudo+2 {
		t.Error("reset")
	}
}

func TestFormat(t *testing.T) {
	for expect, x := range map[string]Expr{
		"(lo_sum r1 (unspec:tls_le t))": LoSum{Reg{1, I64}, Unspec{Symbol{Name: "t"}, SymbolTLSLocalExec}},
		"(high (const (plus x 8)))":     High{Offset{sym, 8}},
		"(mem:i32 (plus:i64 r14 16))":   Mem{Bin(Add, I64, Reg{14, I64}, Const(16)), I32},
		"(neg:f64 p3)":                  Un(Neg, F64, Reg{FirstPseudo + 3, F64}),
	} {
		if s := x.String(); s != expect {
			t.Errorf("%q != %q", s, expect)
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{I8, I32, I64, F64, C128, V2F32, Block} {
		if x, ok := ParseMode(m.String()); !ok || x != m {
			t.Errorf("%s: %v %v", m, x, ok)
		}
	}

	for _, s := range []string{"", "void", "i7"} {
		if _, ok := ParseMode(s); ok {
			t.Errorf("%q parsed", s)
		}
	}
}
