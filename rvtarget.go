// Copyright (c) 2019 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rvtarget

import (
	"io"

	"gate.computer/rvtarget/internal/isa/riscv"
	"gate.computer/rvtarget/target"
)

// New machine description for the given configuration.
func New(config target.Config) (target.Machine, error) {
	m, err := riscv.New(config)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Load configuration in YAML format and create a machine description.
// Settings which are not present in the input keep their default values.
func Load(r io.Reader) (target.Machine, error) {
	config, err := target.LoadConfig(r)
	if err != nil {
		return nil, err
	}
	return New(config)
}
