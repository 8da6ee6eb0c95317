// Copyright (c) 2016 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regset

import (
	"gate.computer/rvtarget/internal/gen/reg"
)

// Set of hard registers.  Eliminable and pseudo registers are never
// members.
type Set uint64

func Of(regs ...reg.R) (s Set) {
	for _, r := range regs {
		s.Add(r)
	}
	return
}

// Range of registers, inclusive.
func Range(first, last reg.R) (s Set) {
	for r := first; r <= last; r++ {
		s.Add(r)
	}
	return
}

func mask(r reg.R) Set {
	if r >= 64 {
		panic(r)
	}
	return Set(1) << r
}

func (s Set) Has(r reg.R) bool {
	return r < 64 && s&mask(r) != 0
}

func (s *Set) Add(r reg.R) { *s |= mask(r) }
