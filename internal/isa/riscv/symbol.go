// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package riscv

import (
	"gate.computer/rvtarget/internal/pan"
	"gate.computer/rvtarget/ir"
)

// classifySymbol returns the access method of a symbol or label.
func (m *Machine) classifySymbol(s ir.Symbol) ir.SymbolKind {
	if s.TLS != ir.TLSNone {
		return ir.SymbolTLS
	}

	if s.Label {
		if s.NonLocal {
			return ir.SymbolGOTDisp
		}
		return ir.SymbolAbsolute
	}

	if m.config.PIC && !s.Local {
		return ir.SymbolGOTDisp
	}

	return ir.SymbolAbsolute
}

// classifySymbolicExpression returns the kind of the base of a symbolic
// constant.
func (m *Machine) classifySymbolicExpression(x ir.Expr) ir.SymbolKind {
	base, _ := ir.SplitConst(x)

	switch base := base.(type) {
	case ir.Unspec:
		return base.Kind
	case ir.Symbol:
		return m.classifySymbol(base)
	}
	return ir.SymbolAbsolute
}

// symbolicConstant reports whether x is a symbol, a label or an unspec
// address, possibly with an offset which is valid for its relocations.
func (m *Machine) symbolicConstant(x ir.Expr) (kind ir.SymbolKind, ok bool) {
	base, offset := ir.SplitConst(x)

	switch base := base.(type) {
	case ir.Unspec:
		kind = base.Kind
	case ir.Symbol:
		kind = m.classifySymbol(base)
	default:
		return
	}

	// A nonzero offset is only valid for absolute relocations.
	ok = offset == 0 || kind == ir.SymbolAbsolute
	return
}

// symbolInsns is the number of instructions needed to reference a symbol.
func symbolInsns(kind ir.SymbolKind) int {
	switch kind {
	case ir.SymbolTLS:
		return 0 // depends on the model
	case ir.SymbolAbsolute:
		return 2 // LUI + reference
	case ir.SymbolTLSLocalExec:
		return 3 // LUI + ADD TP + reference
	case ir.SymbolTLSInitialExec:
		return 4 // LUI + LD + ADD TP + reference
	case ir.SymbolGOTDisp:
		return 3 // AUIPC + LD GOT + reference
	}
	pan.Internal("unknown symbol kind %s", kind)
	return 0
}

// hiReloc reports whether a high-part relocation exists for the kind.
func (m *Machine) hiReloc(kind ir.SymbolKind) bool {
	if m.config.PIC {
		return false
	}
	return kind == ir.SymbolAbsolute || kind == ir.SymbolTLSLocalExec
}

// loReloc reports whether a low-part relocation exists for the kind.
func (m *Machine) loReloc(kind ir.SymbolKind) bool {
	if m.config.PIC {
		return false
	}
	return kind == ir.SymbolAbsolute || kind == ir.SymbolTLSLocalExec || kind == ir.SymbolTLSInitialExec
}

// unspecAddress wraps the base of a symbolic constant so that it is
// accessed as the given kind.
func unspecAddress(x ir.Expr, kind ir.SymbolKind) ir.Expr {
	base, offset := ir.SplitConst(x)

	var sym ir.Symbol
	switch base := base.(type) {
	case ir.Symbol:
		sym = base
	case ir.Unspec:
		sym = base.Sym
	default:
		pan.Internal("%s is not a symbol", base)
	}

	return ir.SymbolOffset(ir.Unspec{Sym: sym, Kind: kind}, offset)
}
