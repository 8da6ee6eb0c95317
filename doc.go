// Copyright (c) 2019 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rvtarget describes a RISC-V machine to a code generator: constant
// synthesis, address legitimization, the calling convention, frame layout
// and instruction costs.  The capabilities are declared in the target
// subpackage; New returns the implementation.
//
// Errors
//
// Operations which emit instructions return an error instead of panicking
// when they encounter an internal compiler error; errors.IsInternal reports
// such errors.  Problems in user code (such as a built-in function argument
// which cannot be coerced) are not returned, but recorded as diagnostics on
// the target.Function; errors.IsDiagnostic reports them.  A configuration
// which cannot be loaded or validated causes New or target.LoadConfig to
// return an ordinary error.
//
package rvtarget
