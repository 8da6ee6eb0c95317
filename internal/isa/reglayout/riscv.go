// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reglayout

import (
	"strconv"

	"gate.computer/rvtarget/internal/gen/reg"
)

const (
	Zero = reg.R(0)
	RA   = reg.R(1)
	S0   = reg.R(2)  // hard frame pointer
	S11  = reg.R(13) // last callee-saved
	SP   = reg.R(14)
	TP   = reg.R(15)
	V0   = reg.R(16) // first return register
	V1   = reg.R(17)
	A0   = reg.R(18) // first argument register
	A7   = reg.R(25)
	T0   = reg.R(26) // prologue/epilogue temporary
	T4   = reg.R(30)
	GP   = reg.R(31)

	HardFramePointer = S0
	PrologueTemp     = T0

	GPFirst = reg.R(0)
	GPLast  = reg.R(31)
	FPFirst = reg.R(32)
	FPLast  = reg.R(63)

	FPCalleeSavedLast = FPFirst + 15
	FPReturn          = FPFirst + 16
	FPArgFirst        = FPFirst + 18

	NumArgRegs = 8

	EHDataFirst = A0
	NumEHData   = 4
	EHStackAdj  = A0 + 4
)

var gpNames = [32]string{
	"zero", "ra", "s0", "s1", "s2", "s3", "s4", "s5",
	"s6", "s7", "s8", "s9", "s10", "s11", "sp", "tp",
	"v0", "v1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "t0", "t1", "t2", "t3", "t4", "gp",
}

// Name of a hard register in assembly syntax.
func Name(r reg.R) string {
	switch {
	case r <= GPLast:
		return gpNames[r]

	case r <= FPLast:
		return "f" + strconv.Itoa(int(r-FPFirst))
	}
	return r.String()
}
