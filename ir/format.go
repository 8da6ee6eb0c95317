// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"fmt"
	"strings"
)

var symbolKindNames = [NumSymbolKinds]string{
	SymbolAbsolute:       "absolute",
	SymbolTLS:            "tls",
	SymbolTLSLocalExec:   "tls_le",
	SymbolTLSInitialExec: "tls_ie",
	SymbolGOTDisp:        "got_disp",
}

func (k SymbolKind) String() string {
	if k < NumSymbolKinds {
		return symbolKindNames[k]
	}
	return fmt.Sprintf("symbolkind%d", k)
}

var tlsOpNames = [...]string{
	GotLoadTLSGD:   "got_load_tls_gd",
	GotLoadTLSIE:   "got_load_tls_ie",
	GotLoadTLSIEHi: "got_load_tls_ie_hi",
	GotLoadTLSIELo: "got_load_tls_ie_lo",
	AddTPIE:        "tls_add_tp_ie",
	AddTPLE:        "tls_add_tp_le",
}

func (k TLSOpKind) String() string { return tlsOpNames[k] }

func (x Reg) String() string    { return x.Num.String() }
func (x Subreg) String() string { return fmt.Sprintf("(subreg:%s %s %d)", x.Mode, x.Reg, x.Byte) }
func (x Const) String() string  { return fmt.Sprint(int64(x)) }
func (x Symbol) String() string { return x.Name }
func (x High) String() string   { return fmt.Sprintf("(high %s)", x.X) }
func (x LoSum) String() string  { return fmt.Sprintf("(lo_sum %s %s)", x.Base, x.Sym) }
func (x Mem) String() string    { return fmt.Sprintf("(mem:%s %s)", x.Mode, x.Addr) }

func (x FloatConst) String() string {
	return fmt.Sprintf("(const_double:%s %g)", x.Mode, x.Value)
}

func (x Unspec) String() string {
	return fmt.Sprintf("(unspec:%s %s)", x.Kind, x.Sym)
}

func (x Offset) String() string {
	return fmt.Sprintf("(const (plus %s %d))", x.Base, x.Off)
}

func (x Op) String() string {
	if x.Y == nil {
		return fmt.Sprintf("(%s:%s %s)", x.Code, x.Mode, x.X)
	}
	return fmt.Sprintf("(%s:%s %s %s)", x.Code, x.Mode, x.X, x.Y)
}

func (x TLSOp) String() string {
	if x.Base == nil {
		return fmt.Sprintf("(%s %s)", x.Kind, x.Sym)
	}
	return fmt.Sprintf("(%s %s %s)", x.Kind, x.Base, x.Sym)
}

func (x Intrinsic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "(%s:%s", x.Name, x.Mode)
	for _, a := range x.Args {
		fmt.Fprintf(&b, " %s", a)
	}
	b.WriteString(")")
	return b.String()
}

func (x Parallel) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "(parallel:%s", x.Mode)
	for _, p := range x.Pieces {
		fmt.Fprintf(&b, " (%s:%s %d)", p.Reg, p.Reg.Mode, p.Offset)
	}
	b.WriteString(")")
	return b.String()
}
