// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package link

import (
	"io"

	"qemurunner.sh/exec"
	"qemurunner.sh/make"
)

type StageOptions struct {
	bin        string
	jobs       int
	alwaysMake bool
	runner     exec.Runner
	keepGoing  bool
	stdout     io.Writer
	stderr     io.Writer
}

type StageOption func(so *StageOptions) error

// NewStageOptions accepts a series of options and returns a rendered
// *StageOptions structure
func NewStageOptions(sopts ...StageOption) (*StageOptions, error) {
	so := &StageOptions{
		bin:  make.DefaultBinaryName,
		jobs: -1,
	}

	for _, o := range sopts {
		if err := o(so); err != nil {
			return nil, err
		}
	}

	if so.runner == nil {
		so.runner = exec.DefaultRunner
	}

	return so, nil
}

// WithMake sets the make binary driving the recipe.
func WithMake(bin string) StageOption {
	return func(so *StageOptions) error {
		if len(bin) > 0 {
			so.bin = bin
		}
		return nil
	}
}

// WithJobs passes -j to make, unless jobs is negative.
func WithJobs(jobs int) StageOption {
	return func(so *StageOptions) error {
		so.jobs = jobs
		return nil
	}
}

// WithAlwaysMake passes -B to make so every image is relinked even when the
// recipe considers it up to date.
func WithAlwaysMake(alwaysMake bool) StageOption {
	return func(so *StageOptions) error {
		so.alwaysMake = alwaysMake
		return nil
	}
}

// WithRunner sets the runner every link is executed with.
func WithRunner(runner exec.Runner) StageOption {
	return func(so *StageOptions) error {
		so.runner = runner
		return nil
	}
}

// WithKeepGoing continues with the remaining tests after a failure.
func WithKeepGoing(keepGoing bool) StageOption {
	return func(so *StageOptions) error {
		so.keepGoing = keepGoing
		return nil
	}
}

// WithOutput attaches the recipe's output streams.  Unless set, they are
// those of the context's iostreams.
func WithOutput(stdout, stderr io.Writer) StageOption {
	return func(so *StageOptions) error {
		so.stdout = stdout
		so.stderr = stderr
		return nil
	}
}
