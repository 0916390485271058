// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package toolchain

import (
	"qemurunner.sh/exec"
)

// ContractVersion identifies the revision of the arguments and environment
// the driver is invoked with.  Bump it whenever BuildRequest changes.
const ContractVersion = 1

// BuildRequest is the invocation of the driver which cross-compiles a single
// example into a static library.
type BuildRequest struct {
	Example string `flag:"--example"`
	Verbose bool   `flag:"--verbose"`
	Target  string `flag:"--target"`
}

// NewBuildRequest returns the verbose build of the named example for arch.
func NewBuildRequest(example, arch string) BuildRequest {
	return BuildRequest{
		Example: example,
		Verbose: true,
		Target:  arch,
	}
}

// Args renders the request into the driver's command-line arguments.
func (r BuildRequest) Args() ([]string, error) {
	return exec.ParseInterfaceArgs(r, "build")
}

// Env returns the environment every build is run with.  Incremental
// compilation is disabled so each artifact is built from scratch.
func (r BuildRequest) Env() [][2]string {
	return [][2]string{
		{"CARGO_INCREMENTAL", "0"},
	}
}

// Process prepares the invocation of the driver at bin in the project
// directory dir.
func (r BuildRequest) Process(bin, dir string, eopts ...exec.ExecOption) (*exec.Process, error) {
	args, err := r.Args()
	if err != nil {
		return nil, err
	}

	opts := []exec.ExecOption{exec.WithWorkdir(dir)}
	for _, kv := range r.Env() {
		opts = append(opts, exec.WithEnvKey(kv[0], kv[1]))
	}

	return exec.NewProcess(bin, args, append(opts, eopts...)...)
}
