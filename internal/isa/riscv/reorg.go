// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package riscv

import (
	"gate.computer/rvtarget/internal/gen/debug"
	"gate.computer/rvtarget/ir"
)

// loSumOffsets maps the base symbols of lo_sum references to the largest
// offset applied to them.
type loSumOffsets map[ir.Symbol]int64

func splitLoSumSymbol(x ir.Expr) (sym ir.Symbol, offset int64, ok bool) {
	base, offset := ir.SplitConst(x)

	switch base := base.(type) {
	case ir.Symbol:
		return base, offset, true
	case ir.Unspec:
		return base.Sym, offset, true
	}
	return
}

func (t loSumOffsets) record(x ir.Expr) {
	sym, offset, ok := splitLoSumSymbol(x)
	if !ok {
		return
	}

	if limit, found := t[sym]; !found || offset > limit {
		t[sym] = offset
	}
}

// matched reports whether a recorded lo_sum can be paired with x.
func (t loSumOffsets) matched(x ir.Expr) bool {
	sym, offset, ok := splitLoSumSymbol(x)
	if !ok {
		return false
	}

	limit, found := t[sym]
	return found && offset <= limit
}

// RemoveOrphanedHighParts deletes high-part loads of absolute symbols whose
// low parts were optimized away.  The first pass records the lo_sum
// references; the second drops the unmatched high parts.  insns is not
// modified.
func (m *Machine) RemoveOrphanedHighParts(insns []ir.Insn) []ir.Insn {
	offsets := make(loSumOffsets)

	for _, insn := range insns {
		m.recordLoSums(offsets, insn)
	}

	result := make([]ir.Insn, 0, len(insns))

	for _, insn := range insns {
		if m.orphanedHighPart(offsets, insn) {
			debug.Printf("reorg: deleting orphaned %s", insn)
			continue
		}
		result = append(result, insn)
	}

	return result
}

func (m *Machine) recordLoSums(offsets loSumOffsets, insn ir.Insn) {
	visit := func(x ir.Expr) bool {
		if lo, ok := x.(ir.LoSum); ok {
			offsets.record(lo.Sym)
		}
		return true
	}

	ir.Walk(insn.Dest, visit)
	ir.Walk(insn.Src, visit)
	for _, x := range insn.Uses {
		ir.Walk(x, visit)
	}
	for _, body := range insn.Body {
		m.recordLoSums(offsets, body)
	}
}

func (m *Machine) orphanedHighPart(offsets loSumOffsets, insn ir.Insn) bool {
	if insn.Kind != ir.InsnSet {
		return false
	}

	high, ok := insn.Src.(ir.High)
	if !ok || !m.absoluteSymbolic(high.X) {
		return false
	}

	return !offsets.matched(high.X)
}

// absoluteSymbolic reports whether x is a symbolic constant accessed with
// absolute relocations.
func (m *Machine) absoluteSymbolic(x ir.Expr) bool {
	kind, ok := m.symbolicConstant(x)
	return ok && kind == ir.SymbolAbsolute
}
