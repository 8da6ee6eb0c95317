// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tune contains processor cost tables.
package tune

import (
	_ "embed"
	"io"
	"sort"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// Default processor name.
const Default = "rocket"

// SoftFloatInsns is the cost of every floating-point operation on processors
// without an FPU.
const SoftFloatInsns = 256

// N converts an instruction count to cost units.
func N(n int) int { return n * 4 }

// Costs of a processor.  Operation costs are instruction counts; use N to
// convert them to cost units.
type Costs struct {
	FPAdd         int `yaml:"fp_add"`
	FPMultSF      int `yaml:"fp_mult_sf"`
	FPMultDF      int `yaml:"fp_mult_df"`
	FPDivSF       int `yaml:"fp_div_sf"`
	FPDivDF       int `yaml:"fp_div_df"`
	IntMultSI     int `yaml:"int_mult_si"`
	IntMultDI     int `yaml:"int_mult_di"`
	IntDivSI      int `yaml:"int_div_si"`
	IntDivDI      int `yaml:"int_div_di"`
	BranchCost    int `yaml:"branch_cost"`
	MemoryLatency int `yaml:"memory_latency"`
}

// SoftFloat returns a copy of c with library call costs for floating-point
// operations.
func (c Costs) SoftFloat() Costs {
	c.FPAdd = SoftFloatInsns
	c.FPMultSF = SoftFloatInsns
	c.FPMultDF = SoftFloatInsns
	c.FPDivSF = SoftFloatInsns
	c.FPDivDF = SoftFloatInsns
	return c
}

func (c Costs) validate(name string) error {
	for _, n := range []int{c.FPAdd, c.FPMultSF, c.FPMultDF, c.FPDivSF, c.FPDivDF, c.IntMultSI, c.IntMultDI, c.IntDivSI, c.IntDivDI, c.MemoryLatency} {
		if n <= 0 {
			return xerrors.Errorf("tuning profile %q: costs must be positive", name)
		}
	}
	if c.BranchCost < 0 {
		return xerrors.Errorf("tuning profile %q: negative branch cost", name)
	}
	return nil
}

//go:embed profiles.yaml
var builtinData []byte

var builtin map[string]Costs

func init() {
	m, err := decode(builtinData)
	if err != nil {
		panic(err)
	}
	builtin = m
}

// Lookup a built-in profile by processor name.
func Lookup(name string) (Costs, error) {
	c, found := builtin[name]
	if !found {
		return Costs{}, xerrors.Errorf("unknown processor: %q", name)
	}
	return c, nil
}

// OptimizeSize returns the costs used when optimizing for size.
func OptimizeSize() Costs {
	return builtin["size"]
}

// Names of the built-in profiles.
func Names() (names []string) {
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// Load profiles from YAML, mapping processor names to costs.
func Load(r io.Reader) (map[string]Costs, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, xerrors.Errorf("reading tuning profiles: %w", err)
	}
	return decode(data)
}

func decode(data []byte) (map[string]Costs, error) {
	var m map[string]Costs
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, xerrors.Errorf("parsing tuning profiles: %w", err)
	}

	for name, c := range m {
		if err := c.validate(name); err != nil {
			return nil, err
		}
	}
	return m, nil
}
