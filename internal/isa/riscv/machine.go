// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package riscv describes the RISC-V machine.
package riscv

import (
	"gate.computer/rvtarget/internal/gen/debug"
	"gate.computer/rvtarget/internal/isa/reglayout"
	"gate.computer/rvtarget/ir"
	"gate.computer/rvtarget/target"
	"gate.computer/rvtarget/tune"
)

const (
	StackBoundary      = 128 // bits
	MaxFirstStackStep  = ImmReach/2 - 16
	MaxArgsInRegisters = reglayout.NumArgRegs
	UnitsPerFPReg      = 8
	callRatio          = 8 // base cost of a memcpy or memset call
)

// Machine implements target.Machine.
type Machine struct {
	config target.Config
	costs  tune.Costs
	word   int
}

var _ target.Machine = (*Machine)(nil)

func New(c target.Config) (*Machine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	costs, err := c.Costs()
	if err != nil {
		return nil, err
	}

	debug.Printf("riscv: %d bits, hard float %v, pic %v, costs %+v", c.Bits, c.HardFloat, c.PIC, costs)

	return &Machine{
		config: c,
		costs:  costs,
		word:   c.WordSize(),
	}, nil
}

func (m *Machine) Config() target.Config { return m.config }
func (m *Machine) WordSize() int         { return m.word }
func (m *Machine) Costs() tune.Costs     { return m.costs }

func (m *Machine) is64() bool { return m.word == 8 }

// pmode is the mode of pointers and words.
func (m *Machine) pmode() ir.Mode { return ir.IntMode(m.word) }

func (m *Machine) wordBits() int { return m.word * 8 }

// fpValueSize is the largest floating-point value which fits in an FPR, or
// zero without hardware floating-point support.
func (m *Machine) fpValueSize() int {
	if !m.config.HardFloat {
		return 0
	}
	return UnitsPerFPReg
}
