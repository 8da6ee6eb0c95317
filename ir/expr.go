// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"math"

	"gate.computer/rvtarget/internal/gen/reg"
)

// Regno is a register number.  Numbers below 128 are hard registers, 128 and
// 129 are the eliminable argument and frame pointers, and the rest are pseudo
// registers.
type Regno = reg.R

const (
	ArgPointer   = reg.ArgPointer
	FramePointer = reg.FramePointer
	FirstPseudo  = reg.FirstPseudo
)

// Expr is a value or address expression.
type Expr interface {
	String() string
	expr()
}

// Reg is a register of a given mode.
type Reg struct {
	Num  Regno
	Mode Mode
}

// Subreg is a mode-punned view of a register.
type Subreg struct {
	Reg  Reg
	Mode Mode
	Byte int
}

// Const is an integer constant.
type Const int64

// FloatConst is a floating-point constant.
type FloatConst struct {
	Mode  Mode
	Value float64
}

func (x FloatConst) Zero() bool { return x.Value == 0 && !math.Signbit(x.Value) }

type TLSModel uint8

const (
	TLSNone TLSModel = iota
	TLSGlobalDynamic
	TLSLocalDynamic
	TLSInitialExec
	TLSLocalExec
)

// Symbol is a reference to a data or code symbol, or to a label.
type Symbol struct {
	Name     string
	TLS      TLSModel
	Local    bool // binds locally
	Label    bool
	NonLocal bool // label which may be the target of a non-local goto
}

// SymbolKind describes how a symbol is accessed.
type SymbolKind uint8

const (
	SymbolAbsolute SymbolKind = iota
	SymbolTLS
	SymbolTLSLocalExec
	SymbolTLSInitialExec
	SymbolGOTDisp

	NumSymbolKinds
)

// Unspec wraps a symbol and forces its access kind.
type Unspec struct {
	Sym  Symbol
	Kind SymbolKind
}

// Offset is a symbolic constant plus a constant offset.
type Offset struct {
	Base Expr // Symbol or Unspec
	Off  int64
}

// High is the high part of a symbolic address.
type High struct {
	X Expr
}

// LoSum combines a register holding a high part with the low part of a
// symbolic address.
type LoSum struct {
	Base Expr
	Sym  Expr
}

// Mem is a memory reference.
type Mem struct {
	Addr Expr
	Mode Mode
}

// Op is a unary (Y is nil) or binary operation.
type Op struct {
	Code Code
	Mode Mode
	X    Expr
	Y    Expr
}

type TLSOpKind uint8

const (
	GotLoadTLSGD   TLSOpKind = iota // la.tls.gd
	GotLoadTLSIE                    // la.tls.ie
	GotLoadTLSIEHi                  // lui %tls_ie_hi
	GotLoadTLSIELo                  // load %tls_ie_lo
	AddTPIE                         // add tp, %tls_ie_off
	AddTPLE                         // add tp, %tprel_add
)

// TLSOp is a thread-local storage relocation sequence step.
type TLSOp struct {
	Kind TLSOpKind
	Base Expr // nil for loads without a base
	Sym  Symbol
}

// Intrinsic is the result of a machine instruction pattern implementing a
// built-in function.
type Intrinsic struct {
	Name string
	Mode Mode
	Args []Expr
}

// Piece of a value which is spread across registers.
type Piece struct {
	Reg    Reg
	Offset int64 // byte offset within the value
}

// Parallel describes a value held in multiple registers.
type Parallel struct {
	Mode   Mode
	Pieces []Piece
}

func (Reg) expr()        {}
func (Subreg) expr()     {}
func (Const) expr()      {}
func (FloatConst) expr() {}
func (Symbol) expr()     {}
func (Unspec) expr()     {}
func (Offset) expr()     {}
func (High) expr()       {}
func (LoSum) expr()      {}
func (Mem) expr()        {}
func (Op) expr()         {}
func (TLSOp) expr()      {}
func (Intrinsic) expr()  {}
func (Parallel) expr()   {}

func Bin(code Code, mode Mode, x, y Expr) Op { return Op{code, mode, x, y} }
func Un(code Code, mode Mode, x Expr) Op     { return Op{code, mode, x, nil} }

// ModeOf returns the mode of x, or Void for constants.
func ModeOf(x Expr) Mode {
	switch x := x.(type) {
	case Reg:
		return x.Mode
	case Subreg:
		return x.Mode
	case FloatConst:
		return x.Mode
	case Mem:
		return x.Mode
	case Op:
		return x.Mode
	case Intrinsic:
		return x.Mode
	case Parallel:
		return x.Mode
	}
	return Void
}

// Constant reports whether x is a constant, including symbolic constants.
func Constant(x Expr) bool {
	switch x.(type) {
	case Const, FloatConst, Symbol, Unspec, Offset, High:
		return true
	}
	return false
}

// SplitConst splits a symbolic constant into base and offset.
func SplitConst(x Expr) (base Expr, off int64) {
	if o, ok := x.(Offset); ok {
		return o.Base, o.Off
	}
	return x, 0
}

// SymbolOffset adds a constant to a symbolic constant.
func SymbolOffset(x Expr, off int64) Expr {
	base, old := SplitConst(x)
	if off += old; off == 0 {
		return base
	}
	return Offset{base, off}
}

// PlusConstant adds a constant to an address expression.
func PlusConstant(x Expr, off int64) Expr {
	if off == 0 {
		return x
	}

	switch x := x.(type) {
	case Const:
		return x + Const(off)

	case Symbol, Unspec, Offset:
		return SymbolOffset(x, off)

	case Op:
		if c, ok := x.Y.(Const); ok && x.Code == Add {
			return PlusConstant(x.X, int64(c)+off)
		}
	}

	return Op{Add, ModeOf(x), x, Const(off)}
}

// SplitPlus splits base+constant into its parts.
func SplitPlus(x Expr) (base Expr, off int64) {
	if op, ok := x.(Op); ok && op.Code == Add {
		if c, ok := op.Y.(Const); ok {
			return op.X, int64(c)
		}
	}
	return x, 0
}

// TLSSymbol reports whether x is a thread-local symbol reference.
func TLSSymbol(x Expr) bool {
	s, ok := x.(Symbol)
	return ok && s.TLS != TLSNone
}

// MentionsTLS reports whether any subexpression of x is a thread-local
// symbol.
func MentionsTLS(x Expr) (found bool) {
	Walk(x, func(x Expr) bool {
		if TLSSymbol(x) {
			found = true
		}
		return !found
	})
	return
}

// Walk calls f for x and its subexpressions in preorder until f returns false.
func Walk(x Expr, f func(Expr) bool) bool {
	if x == nil {
		return true
	}
	if !f(x) {
		return false
	}

	switch x := x.(type) {
	case Subreg:
		return Walk(x.Reg, f)
	case Unspec:
		return Walk(x.Sym, f)
	case Offset:
		return Walk(x.Base, f)
	case High:
		return Walk(x.X, f)
	case LoSum:
		return Walk(x.Base, f) && Walk(x.Sym, f)
	case Mem:
		return Walk(x.Addr, f)
	case Op:
		return Walk(x.X, f) && Walk(x.Y, f)
	case TLSOp:
		return Walk(x.Base, f) && Walk(x.Sym, f)
	case Intrinsic:
		for _, a := range x.Args {
			if !Walk(a, f) {
				return false
			}
		}
	case Parallel:
		for _, p := range x.Pieces {
			if !Walk(p.Reg, f) {
				return false
			}
		}
	}
	return true
}

// Equal reports whether two expressions are structurally identical.
func Equal(x, y Expr) bool {
	switch x := x.(type) {
	case nil:
		return y == nil

	case Subreg:
		y, ok := y.(Subreg)
		return ok && x == y

	case Unspec:
		y, ok := y.(Unspec)
		return ok && x == y

	case Offset:
		y, ok := y.(Offset)
		return ok && x.Off == y.Off && Equal(x.Base, y.Base)

	case High:
		y, ok := y.(High)
		return ok && Equal(x.X, y.X)

	case LoSum:
		y, ok := y.(LoSum)
		return ok && Equal(x.Base, y.Base) && Equal(x.Sym, y.Sym)

	case Mem:
		y, ok := y.(Mem)
		return ok && x.Mode == y.Mode && Equal(x.Addr, y.Addr)

	case Op:
		y, ok := y.(Op)
		return ok && x.Code == y.Code && x.Mode == y.Mode && Equal(x.X, y.X) && Equal(x.Y, y.Y)

	case TLSOp:
		y, ok := y.(TLSOp)
		return ok && x.Kind == y.Kind && x.Sym == y.Sym && Equal(x.Base, y.Base)

	case Intrinsic:
		y, ok := y.(Intrinsic)
		if !ok || x.Name != y.Name || x.Mode != y.Mode || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true

	case Parallel:
		y, ok := y.(Parallel)
		if !ok || x.Mode != y.Mode || len(x.Pieces) != len(y.Pieces) {
			return false
		}
		for i := range x.Pieces {
			if x.Pieces[i] != y.Pieces[i] {
				return false
			}
		}
		return true

	default: // Reg, Const, FloatConst, Symbol
		switch y.(type) {
		case Reg, Const, FloatConst, Symbol:
			return x == y
		}
		return false
	}
}
