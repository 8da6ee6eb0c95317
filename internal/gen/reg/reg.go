// Copyright (c) 2016 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reg

import (
	"fmt"
)

// R is a hard register, an eliminable register or a pseudo register.
type R uint32

func (r R) String() string {
	switch {
	case r == ArgPointer:
		return "ap"

	case r == FramePointer:
		return "fp"

	case r >= FirstPseudo:
		return fmt.Sprintf("p%d", r-FirstPseudo)

	default:
		return fmt.Sprintf("r%d", r)
	}
}

const (
	ArgPointer   = R(128)
	FramePointer = R(129)
	FirstPseudo  = R(130)
)

func (r R) Eliminable() bool { return r == ArgPointer || r == FramePointer }
func (r R) Pseudo() bool     { return r >= FirstPseudo }
