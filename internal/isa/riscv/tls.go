// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package riscv

import (
	"gate.computer/rvtarget/internal/isa/reglayout"
	"gate.computer/rvtarget/internal/pan"
	"gate.computer/rvtarget/ir"
	"gate.computer/rvtarget/target"
)

var tlsGetAddr = ir.Symbol{Name: "__tls_get_addr"}

// legitimizeTLSAddress emits the access sequence of the symbol's model.
// The result is both a valid address and a valid move source.
func (m *Machine) legitimizeTLSAddress(fn *target.Function, sym ir.Symbol) ir.Expr {
	if !fn.CanCreatePseudo() {
		pan.Internal("thread-local address %s needs pseudo registers", sym)
	}

	pmode := m.pmode()
	tp := ir.Reg{Num: reglayout.TP, Mode: pmode}

	switch sym.TLS {
	case ir.TLSLocalDynamic, ir.TLSGlobalDynamic:
		// Local dynamic is accessed like global dynamic.
		a0 := ir.Reg{Num: reglayout.A0, Mode: pmode}
		v0 := ir.Reg{Num: reglayout.V0, Mode: pmode}

		body := []ir.Insn{
			ir.SetInsn(a0, ir.TLSOp{Kind: ir.GotLoadTLSGD, Sym: sym}),
			{Kind: ir.InsnCall, Dest: v0, Src: tlsGetAddr, Uses: []ir.Expr{a0}, Pure: true},
		}

		dest := fn.Host.NewPseudo(pmode)
		fn.Emit(ir.Insn{Kind: ir.InsnLibcall, Dest: dest, Src: v0, Body: body, Equiv: sym})
		return dest

	case ir.TLSInitialExec:
		if m.config.PIC {
			tmp := fn.Host.NewPseudo(pmode)
			fn.Set(tmp, ir.TLSOp{Kind: ir.GotLoadTLSIE, Sym: sym})
			dest := fn.Host.NewPseudo(pmode)
			fn.Set(dest, ir.Bin(ir.Add, pmode, tmp, tp))
			return dest
		}

		hi := fn.Host.NewPseudo(pmode)
		fn.Set(hi, ir.TLSOp{Kind: ir.GotLoadTLSIEHi, Sym: sym})
		off := fn.Host.NewPseudo(pmode)
		fn.Set(off, ir.TLSOp{Kind: ir.GotLoadTLSIELo, Base: hi, Sym: sym})
		addr := fn.Host.NewPseudo(pmode)
		fn.Set(addr, ir.TLSOp{Kind: ir.AddTPIE, Base: off, Sym: sym})
		return ir.LoSum{Base: addr, Sym: unspecAddress(sym, ir.SymbolTLSInitialExec)}

	case ir.TLSLocalExec:
		hi := m.forceTemporary(fn, ir.Reg{}, ir.High{X: unspecAddress(sym, ir.SymbolTLSLocalExec)})
		addr := fn.Host.NewPseudo(pmode)
		fn.Set(addr, ir.TLSOp{Kind: ir.AddTPLE, Base: hi, Sym: sym})
		return ir.LoSum{Base: addr, Sym: unspecAddress(sym, ir.SymbolTLSLocalExec)}
	}

	pan.Internal("symbol %s has unknown TLS model %d", sym, sym.TLS)
	return nil
}
