// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package riscv

import (
	"gate.computer/rvtarget/internal/isa/reglayout"
	"gate.computer/rvtarget/ir"
	"gate.computer/rvtarget/target"
)

func canonicalMoveClass(c target.RegClass) target.RegClass {
	if c.Subset(target.GeneralRegs) {
		return target.GeneralRegs
	}
	return c
}

func moveToGPRCost(from target.RegClass) int {
	switch from {
	case target.GeneralRegs:
		return 1
	case target.FPRegs:
		return 4 // may recouple decoupled implementations
	}
	return 0
}

func moveFromGPRCost(to target.RegClass) int {
	switch to {
	case target.GeneralRegs, target.FPRegs:
		return 1
	}
	return 0
}

// RegisterMoveCost returns 0 for unions of classes.
func (m *Machine) RegisterMoveCost(mode ir.Mode, from, to target.RegClass) int {
	from = canonicalMoveClass(from)
	to = canonicalMoveClass(to)

	if from == target.FPRegs && to == target.FPRegs && m.fsgnjMode(mode) {
		return 1
	}

	if from == target.GeneralRegs {
		return moveFromGPRCost(to)
	}
	if to == target.GeneralRegs {
		return moveToGPRCost(from)
	}

	// Staged through a GPR.
	if cost1 := moveToGPRCost(from); cost1 != 0 {
		if cost2 := moveFromGPRCost(to); cost2 != 0 {
			return cost1 + cost2
		}
	}

	return 0
}

func (m *Machine) MemoryMoveCost(mode ir.Mode, class target.RegClass, in bool) int {
	return m.costs.MemoryLatency + m.memoryMoveSecondaryCost(mode, class, in)
}

func (m *Machine) memoryMoveSecondaryCost(mode ir.Mode, class target.RegClass, in bool) int {
	mem := ir.Mem{Addr: ir.Reg{Num: reglayout.SP, Mode: m.pmode()}, Mode: mode}

	alt := m.SecondaryReloadClass(class, mode, mem, in)
	if alt == target.NoRegs {
		return 0
	}

	var partial int
	if in {
		partial = m.RegisterMoveCost(mode, alt, class)
	} else {
		partial = m.RegisterMoveCost(mode, class, alt)
	}

	if alt == class {
		return partial
	}
	return m.MemoryMoveCost(mode, alt, in) + partial
}

// Block move policy.  A memcpy call costs about callRatio instructions.

func (m *Machine) maxMoveBytesStraight() int { return m.word * 4 * 2 }

func (m *Machine) MoveRatio(speed bool) int {
	return m.maxMoveBytesStraight() / m.word
}

func (m *Machine) ClearRatio(speed bool) int {
	if speed {
		return 15
	}
	return callRatio
}

func (m *Machine) SetRatio(speed bool) int {
	if speed {
		return 15
	}
	return callRatio - 2
}

// MoveByPieces reports whether a block move of size bytes with the given
// alignment (in bits) is done inline.  Unaligned word accesses are assumed
// to be fast unless the configuration says otherwise.
func (m *Machine) MoveByPieces(size int64, align int) bool {
	if !m.config.SlowUnaligned {
		align = max(align, m.wordBits())
	}

	if align < m.wordBits() {
		return size < int64(m.word)
	}
	return size <= int64(m.maxMoveBytesStraight())
}
