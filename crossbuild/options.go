// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package crossbuild

import (
	"io"

	"qemurunner.sh/exec"
	"qemurunner.sh/toolchain"
)

type StageOptions struct {
	locator   *toolchain.Locator
	toolchain string
	runner    exec.Runner
	filter    string
	objects   []string
	keepGoing bool
	stdout    io.Writer
	stderr    io.Writer
}

type StageOption func(so *StageOptions) error

// NewStageOptions accepts a series of options and returns a rendered
// *StageOptions structure
func NewStageOptions(sopts ...StageOption) (*StageOptions, error) {
	so := &StageOptions{}

	for _, o := range sopts {
		if err := o(so); err != nil {
			return nil, err
		}
	}

	if so.runner == nil {
		so.runner = exec.DefaultRunner
	}

	if so.locator == nil {
		so.locator = toolchain.NewLocator(toolchain.WithRunner(so.runner))
	}

	return so, nil
}

// WithLocator sets the locator the toolchain is searched with.
func WithLocator(locator *toolchain.Locator) StageOption {
	return func(so *StageOptions) error {
		so.locator = locator
		return nil
	}
}

// WithToolchain uses an already located toolchain.
func WithToolchain(path string) StageOption {
	return func(so *StageOptions) error {
		so.toolchain = path
		return nil
	}
}

// WithRunner sets the runner every build is executed with.
func WithRunner(runner exec.Runner) StageOption {
	return func(so *StageOptions) error {
		so.runner = runner
		return nil
	}
}

// WithFilter restricts the stage to the tests whose name matches the glob
// pattern.
func WithFilter(pattern string) StageOption {
	return func(so *StageOptions) error {
		so.filter = pattern
		return nil
	}
}

// WithObjectPaths records extra objects to link into every image.
func WithObjectPaths(paths ...string) StageOption {
	return func(so *StageOptions) error {
		so.objects = append(so.objects, paths...)
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

// WithOutput attaches the toolchain's output streams.  Unless set, they are
// those of the context's iostreams.
func WithOutput(stdout, stderr io.Writer) StageOption {
	return func(so *StageOptions) error {
		so.stdout = stdout
		so.stderr = stderr
		return nil
	}
}
