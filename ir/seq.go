// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"fmt"
)

// Sequence is a simple host which records emitted instructions, hands out
// pseudo registers and keeps a constant pool.
type Sequence struct {
	Insns []Insn
	Pool  []Expr

	pseudos Regno
}

func (s *Sequence) Emit(i Insn) {
	s.Insns = append(s.Insns, i)
}

func (s *Sequence) NewPseudo(m Mode) Reg {
	r := Reg{FirstPseudo + s.pseudos, m}
	s.pseudos++
	return r
}

// ForceConstMem places x in the constant pool and returns a reference to
// its slot.
func (s *Sequence) ForceConstMem(m Mode, x Expr) Mem {
	for i, y := range s.Pool {
		if Equal(x, y) {
			return Mem{poolSymbol(i), m}
		}
	}

	s.Pool = append(s.Pool, x)
	return Mem{poolSymbol(len(s.Pool) - 1), m}
}

func poolSymbol(i int) Symbol {
	return Symbol{Name: fmt.Sprintf(".LC%d", i), Local: true}
}

// Reset discards recorded instructions, keeping pseudo numbering.
func (s *Sequence) Reset() {
	s.Insns = nil
}
