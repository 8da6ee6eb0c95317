// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"fmt"
	"strings"
)

type InsnKind uint8

const (
	InsnSet     InsnKind = iota // Dest = Src; Dest is nil for side effects only
	InsnCall                    // call Src, result in Dest (optional)
	InsnReturn                  // return through Src (optional)
	InsnStop                    // user thread stop
	InsnLibcall                 // Body computes Dest; its value is equivalent to Equiv
)

// Insn is an emitted instruction.
type Insn struct {
	Kind  InsnKind
	Dest  Expr
	Src   Expr
	Uses  []Expr // registers used by a call
	Pure  bool   // call without side effects
	Body  []Insn // libcall block
	Equiv Expr   // libcall block

	// FrameRelated instructions describe the frame to unwinders.  Note
	// overrides the description when the instruction alone is not enough.
	FrameRelated bool
	Note         *Insn
}

func SetInsn(dest, src Expr) Insn {
	return Insn{Kind: InsnSet, Dest: dest, Src: src}
}

func (i Insn) String() string {
	var s string

	switch i.Kind {
	case InsnSet:
		if i.Dest != nil {
			s = fmt.Sprintf("(set %s %s)", i.Dest, i.Src)
		} else {
			s = i.Src.String()
		}

	case InsnCall:
		if i.Dest != nil {
			s = fmt.Sprintf("(call %s -> %s)", i.Src, i.Dest)
		} else {
			s = fmt.Sprintf("(call %s)", i.Src)
		}

	case InsnReturn:
		if i.Src != nil {
			s = fmt.Sprintf("(return %s)", i.Src)
		} else {
			s = "(return)"
		}

	case InsnStop:
		s = "(stop)"

	case InsnLibcall:
		var parts []string
		for _, x := range i.Body {
			parts = append(parts, x.String())
		}
		s = fmt.Sprintf("(libcall %s = %s [%s])", i.Dest, i.Equiv, strings.Join(parts, " "))
	}

	if i.FrameRelated {
		s += "/f"
	}
	return s
}
