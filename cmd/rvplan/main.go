// Copyright (c) 2019 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Program rvplan shows how the RISC-V machine description synthesizes
// constants, lays out stack frames and assigns arguments.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"gate.computer/rvtarget"
	"gate.computer/rvtarget/internal/isa/reglayout"
	"gate.computer/rvtarget/internal/isa/riscv"
	"gate.computer/rvtarget/ir"
	"gate.computer/rvtarget/target"
)

var (
	verbose = false
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] const value...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s [options] frame\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s [options] args mode...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	var (
		configFile = ""
		locals     = int64(0)
		outgoing   = int64(0)
		saved      = 0
		leaf       = false
		framePtr   = false
		varargs    = false
		result     = ""
	)

	flag.BoolVar(&verbose, "v", verbose, "verbose logging")
	flag.StringVar(&configFile, "config", configFile, "target configuration file (YAML)")
	flag.Int64Var(&locals, "locals", locals, "size of local variables (frame)")
	flag.Int64Var(&outgoing, "outgoing", outgoing, "size of outgoing arguments (frame)")
	flag.IntVar(&saved, "saved", saved, "number of callee-saved registers used (frame)")
	flag.BoolVar(&leaf, "leaf", leaf, "function makes no calls (frame)")
	flag.BoolVar(&framePtr, "fp", framePtr, "frame pointer is needed (frame)")
	flag.BoolVar(&varargs, "varargs", varargs, "arguments after the first are unnamed (args)")
	flag.StringVar(&result, "result", result, "return value mode (args)")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	m, err := loadMachine(configFile)
	if err != nil {
		log.Fatal(err)
	}

	if verbose {
		log.Printf("config: %+v", m.Config())
	}

	switch cmd, args := flag.Arg(0), flag.Args()[1:]; cmd {
	case "const":
		if len(args) == 0 {
			flag.Usage()
			os.Exit(2)
		}
		err = showConstants(m, args)

	case "frame":
		if saved < 0 || saved > int(reglayout.S11-reglayout.S0)+1 {
			log.Fatalf("callee-saved register count out of range: %d", saved)
		}
		fn := &target.Function{
			Allocated:          true,
			LocalsSize:         locals,
			OutgoingArgsSize:   outgoing,
			FramePointerNeeded: framePtr,
		}
		if !leaf {
			fn.Live.Add(reglayout.RA)
		}
		for i := 0; i < saved; i++ {
			fn.Live.Add(reglayout.S0 + ir.Regno(i))
		}
		err = showFrame(m, fn)

	case "args":
		err = showArgs(m, args, varargs, result)

	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func loadMachine(filename string) (target.Machine, error) {
	if filename == "" {
		return rvtarget.New(target.DefaultConfig())
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return rvtarget.Load(f)
}

func parseInteger(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 0, 64)
	if err == nil {
		return v, nil
	}

	u, err2 := strconv.ParseUint(s, 0, 64)
	if err2 != nil {
		return 0, err
	}
	return int64(u), nil
}

func showConstants(m target.Machine, args []string) error {
	for _, s := range args {
		v, err := parseInteger(s)
		if err != nil {
			return err
		}

		if m.WordSize() == 4 && int64(int32(v)) != v {
			return fmt.Errorf("constant does not fit in a 32-bit register: %s", s)
		}

		fmt.Printf("%#x: %d instructions\n", uint64(v), m.IntegerCost(v))
		for _, op := range riscv.BuildInteger(v) {
			fmt.Printf("\t%s\n", op)
		}
	}
	return nil
}

func showFrame(m target.Machine, fn *target.Function) error {
	seq := new(ir.Sequence)
	fn.Host = seq

	f := m.ComputeFrameInfo(fn)

	fmt.Printf("total size:          %d\n", f.TotalSize)
	fmt.Printf("gpr mask:            %#x\n", f.GPRMask)
	fmt.Printf("fpr mask:            %#x\n", f.FPRMask)
	fmt.Printf("gpr save offset:     %d\n", f.GPSPOffset)
	fmt.Printf("fpr save offset:     %d\n", f.FPSPOffset)
	fmt.Printf("frame pointer:       %d\n", f.FramePointerOffset)
	fmt.Printf("hard frame pointer:  %d\n", f.HardFramePointerOffset)
	fmt.Printf("argument pointer:    %d\n", f.ArgPointerOffset)

	if err := m.ExpandPrologue(fn); err != nil {
		return err
	}
	fmt.Println("prologue:")
	printInsns(seq.Insns)

	seq.Reset()

	if err := m.ExpandEpilogue(fn, false); err != nil {
		return err
	}
	fmt.Println("epilogue:")
	printInsns(seq.Insns)
	return nil
}

func printInsns(insns []ir.Insn) {
	for _, i := range insns {
		fmt.Printf("\t%s\n", i)
	}
}

func showArgs(m target.Machine, modes []string, varargs bool, result string) error {
	var cum target.CumulativeArgs

	for i, s := range modes {
		mode, ok := ir.ParseMode(s)
		if !ok {
			return fmt.Errorf("unknown mode: %s", s)
		}

		named := !varargs || i == 0
		t := ir.Scalar(mode)

		if m.PassByReference(mode, t) {
			fmt.Printf("%d %s: by reference\n", i, mode)
			mode = ir.IntMode(m.WordSize())
			t = ir.Scalar(mode)
		}

		loc := m.FunctionArg(cum, mode, t, named)
		partial := m.ArgPartialBytes(cum, mode, t, named)
		align := m.FunctionArgBoundary(mode, t)

		switch {
		case loc == nil:
			fmt.Printf("%d %s: stack (align %d)\n", i, mode, align)
		case partial > 0:
			fmt.Printf("%d %s: %s + %d bytes on stack\n", i, mode, loc, mode.Size()-partial)
		default:
			fmt.Printf("%d %s: %s\n", i, mode, loc)
		}

		m.FunctionArgAdvance(&cum, mode, t, named)
	}

	if result != "" {
		mode, ok := ir.ParseMode(result)
		if !ok {
			return fmt.Errorf("unknown mode: %s", result)
		}
		fmt.Printf("result %s: %s\n", mode, m.FunctionValue(nil, mode))
	}
	return nil
}
