// Copyright (c) 2016 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build debug || gendebug

package debug

import (
	"fmt"
	"os"
	"strings"
)

const Enabled = true

// Depth of nested Enter calls.
var Depth int

// Printf writes an indented line to standard error.
func Printf(format string, args ...interface{}) {
	if Depth < 0 {
		panic("negative debug depth")
	}

	fmt.Fprintf(os.Stderr, "%s%s\n", strings.Repeat("  ", Depth), fmt.Sprintf(format, args...))
}

// Enter prints a message and indents the following messages until the
// returned function is called.
func Enter(format string, args ...interface{}) func() {
	Printf(format, args...)
	Depth++
	return func() { Depth-- }
}
