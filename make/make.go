// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package make drives GNU Make recipes whose inputs are communicated through
// the environment.
package make

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"qemurunner.sh/exec"
)

const DefaultBinaryName = "make"

type export struct {
	export    string
	omitempty bool
	def       string
}

func parseExport(tag reflect.StructTag) (*export, error) {
	raw, ok := tag.Lookup("export")
	if !ok {
		return nil, fmt.Errorf("could not identify export tag")
	}

	parts := strings.Split(raw, ",")
	e := &export{
		export: parts[0],
		def:    tag.Get("default"),
	}

	for _, part := range parts[1:] {
		if part == "omitempty" {
			e.omitempty = true
		}
	}

	return e, nil
}

type Make struct {
	opts    *MakeOptions
	process *exec.Process
}

// NewFromInterface prepares a GNU Make call by parsing the input struct for
// `export` annotations within each attribute's tag.  Every annotated string
// attribute is exported into the environment of the make process, including
// empty values unless the tag carries `omitempty`.  A `default` tag provides
// the value used when the attribute is empty.
func NewFromInterface(args interface{}, mopts ...MakeOption) (*Make, error) {
	v := reflect.ValueOf(args)
	if v.Kind() == reflect.Ptr {
		return nil, fmt.Errorf("cannot derive interface arguments from pointer: passed by reference")
	}

	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot derive make exports from %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		e, err := parseExport(t.Field(i).Tag)
		if err != nil || len(e.export) == 0 {
			continue
		}

		if v.Field(i).Kind() != reflect.String {
			return nil, fmt.Errorf("export %s must be a string attribute", e.export)
		}

		val := v.Field(i).String()
		if len(val) == 0 && len(e.def) > 0 {
			val = e.def
		}

		if e.omitempty && len(val) == 0 {
			continue
		}

		mopts = append(mopts, WithEnv(e.export, val))
	}

	return New(mopts...)
}

// New prepares a GNU Make call from the provided options.
func New(mopts ...MakeOption) (*Make, error) {
	opts, err := NewMakeOptions(mopts...)
	if err != nil {
		return nil, err
	}

	if len(opts.bin) == 0 {
		opts.bin = DefaultBinaryName
	}

	if opts.runner == nil {
		opts.runner = exec.DefaultRunner
	}

	executable, err := exec.NewExecutable(opts.bin, *opts, opts.Vars()...)
	if err != nil {
		return nil, err
	}

	eopts := make([]exec.ExecOption, 0, len(opts.env)+len(opts.eopts))
	for _, kv := range opts.Env() {
		eopts = append(eopts, exec.WithEnvKey(kv[0], kv[1]))
	}
	eopts = append(eopts, opts.eopts...)

	process, err := exec.NewProcessFromExecutable(executable, eopts...)
	if err != nil {
		return nil, err
	}

	return &Make{
		opts:    opts,
		process: process,
	}, nil
}

// Process returns the prepared make process.
func (m *Make) Process() *exec.Process {
	return m.process
}

// Execute starts and waits on the prepared make invocation
func (m *Make) Execute(ctx context.Context) (*exec.Result, error) {
	return m.opts.runner.Run(ctx, m.process)
}
