// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package exec

import (
	"context"
	"errors"
	"os/exec"
)

// Result is the outcome of a process which ran to completion.
type Result struct {
	// ExitCode is the code the process exited with, or -1 if it never started
	// or was terminated by a signal.
	ExitCode int
}

// Success reports whether the process exited with code zero.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Runner executes a prepared process synchronously, blocking until it has
// exited.  A non-nil error is returned whenever the process could not be
// started or exited with a non-zero code, in which case the result, if
// available, carries the exit code.
type Runner interface {
	Run(ctx context.Context, process *Process) (*Result, error)
}

// RunnerFunc adapts an ordinary function to the Runner interface.
type RunnerFunc func(ctx context.Context, process *Process) (*Result, error)

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, process *Process) (*Result, error) {
	return f(ctx, process)
}

// HostRunner spawns processes on the host.
type HostRunner struct{}

// Run implements Runner.
func (HostRunner) Run(ctx context.Context, process *Process) (*Result, error) {
	if err := process.StartAndWait(ctx); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &Result{ExitCode: exitErr.ExitCode()}, err
		}

		return nil, err
	}

	return &Result{ExitCode: process.ExitCode()}, nil
}

// DefaultRunner is used whenever a caller does not provide its own Runner.
var DefaultRunner Runner = HostRunner{}
