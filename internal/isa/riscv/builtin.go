// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package riscv

import (
	"gate.computer/rvtarget/internal/errors"
	"gate.computer/rvtarget/internal/gen/debug"
	"gate.computer/rvtarget/internal/pan"
	"gate.computer/rvtarget/ir"
	"gate.computer/rvtarget/target"
)

// Operand predicates of instruction patterns.  A Void mode accepts any
// mode.

func modeMatches(x ir.Expr, m ir.Mode) bool {
	return m == ir.Void || ir.ModeOf(x) == m
}

func RegisterOperand(x ir.Expr, m ir.Mode) bool {
	return registerOperand(x) && modeMatches(x, m)
}

func RegOrZeroOperand(x ir.Expr, m ir.Mode) bool {
	return RegisterOperand(x, m) || zeroConst(x)
}

func ConstArithOperand(x ir.Expr, m ir.Mode) bool {
	c, ok := x.(ir.Const)
	return ok && SmallOperand(int64(c))
}

func ArithOperand(x ir.Expr, m ir.Mode) bool {
	return RegisterOperand(x, m) || ConstArithOperand(x, m)
}

// PrepareBuiltinArg coerces an argument to the operand.  If it is not
// acceptable even after copying it to a register, a diagnostic is recorded
// and zero is returned in its place.
func (m *Machine) PrepareBuiltinArg(fn *target.Function, op target.Operand, arg target.Arg) ir.Expr {
	value := arg.Value
	if op.Predicate(value, op.Mode) {
		return value
	}

	// The operand mode of an address is that of the memory, so copy the
	// value in the mode of the argument type.
	r := fn.Host.NewPseudo(arg.Mode)
	fn.Set(r, value)

	if !op.Predicate(r, op.Mode) {
		fn.Diagnose(errors.Diagnostic("invalid argument to built-in function"))
		return ir.Const(0)
	}
	return r
}

func prepareBuiltinTarget(fn *target.Function, op target.Operand, result ir.Expr) ir.Expr {
	if result == nil || !op.Predicate(result, op.Mode) {
		result = fn.Host.NewPseudo(op.Mode)
	}
	return result
}

// ExpandBuiltinDirect emits the instruction pattern of a built-in function.
// The result location is returned, or nil if the pattern has no output.
func (m *Machine) ExpandBuiltinDirect(fn *target.Function, b *target.Builtin, result ir.Expr, args []target.Arg) (location ir.Expr, err error) {
	if pan.Recover() {
		defer func() { err = pan.Error(recover()) }()
	}

	location = m.expandBuiltinDirect(fn, b, result, args)
	return
}

func (m *Machine) expandBuiltinDirect(fn *target.Function, b *target.Builtin, result ir.Expr, args []target.Arg) ir.Expr {
	defer debug.Enter("builtin %s", b.Name)()

	operands := b.Operands
	var dest ir.Expr

	if b.HasResult {
		if len(operands) == 0 {
			pan.Internal("built-in function %s has no result operand", b.Name)
		}
		dest = prepareBuiltinTarget(fn, operands[0], result)
		operands = operands[1:]
	}

	if len(args) > len(operands) {
		pan.Internal("built-in function %s called with %d arguments", b.Name, len(args))
	}

	intr := ir.Intrinsic{Name: b.Name, Mode: ir.ModeOf(dest)}
	for i, arg := range args {
		intr.Args = append(intr.Args, m.PrepareBuiltinArg(fn, operands[i], arg))
	}

	fn.Emit(ir.Insn{Kind: ir.InsnSet, Dest: dest, Src: intr})
	return dest
}
