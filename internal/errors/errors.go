// Copyright (c) 2019 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"fmt"
)

// diagnostic reports invalid user code.
type diagnostic string

func Diagnostic(text string) error {
	return diagnostic(text)
}

func (e diagnostic) Error() string       { return string(e) }
func (e diagnostic) PublicError() string { return string(e) }
func (e diagnostic) Diagnostic() bool    { return true }

type internalError string

func Internalf(format string, args ...interface{}) error {
	return internalError(fmt.Sprintf(format, args...))
}

func (e internalError) Error() string       { return "internal compiler error: " + string(e) }
func (e internalError) InternalError() bool { return true }
