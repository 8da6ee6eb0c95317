// Copyright (c) 2025 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pan

import (
	"import.name/pan"

	"gate.computer/rvtarget/internal/errors"
)

// NoRecover configures the behavior of code emitting functions.  If this is
// changed to "1", they panic instead of returning internal compiler errors,
// and the stack trace points at the failed check.
//
//	go build -ldflags="-X gate.computer/rvtarget/internal/pan.NoRecover=1"
var NoRecover string

// Recover reports whether entry points should convert panics to errors.
func Recover() bool {
	return NoRecover == ""
}

var z = new(pan.Zone)

var Panic = z.Panic

// Error returns the error carried by a recovered panic value, or nil.
// Panics which didn't originate from this package are propagated.
func Error(x any) error {
	return z.Error(x)
}

// Internal raises an internal compiler error.
func Internal(format string, args ...any) {
	Panic(errors.Internalf(format, args...))
}
