// Copyright (c) 2019 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors exports common error types without unnecessary dependencies.
package errors

import (
	"golang.org/x/xerrors"
)

// Diagnostic indicates that the translation unit being compiled is invalid,
// for example because a built-in function was called with an argument which
// can't be coerced to the required operand.  Compilation of other units is
// not affected.
type Diagnostic interface {
	error
	PublicError() string
	Diagnostic() bool
}

// InternalError indicates a bug in the compiler.  It is fatal to the current
// compilation.
type InternalError interface {
	error
	InternalError() bool
}

// IsDiagnostic checks if err or an error it wraps is a Diagnostic.
func IsDiagnostic(err error) bool {
	var d Diagnostic
	return xerrors.As(err, &d) && d.Diagnostic()
}

// IsInternal checks if err or an error it wraps is an InternalError.
func IsInternal(err error) bool {
	var e InternalError
	return xerrors.As(err, &e) && e.InternalError()
}
