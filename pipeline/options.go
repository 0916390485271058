// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package pipeline

import (
	"io"

	"qemurunner.sh/exec"
	"qemurunner.sh/toolchain"
)

type PipelineOptions struct {
	locator      *toolchain.Locator
	runner       exec.Runner
	policy       Policy
	filter       string
	objects      []string
	make         string
	jobs         int
	alwaysMake   bool
	stdout       io.Writer
	stderr       io.Writer
	onTransition []func(from, to State)
}

type PipelineOption func(po *PipelineOptions) error

// WithLocator sets the locator the toolchain is searched with.
func WithLocator(locator *toolchain.Locator) PipelineOption {
	return func(po *PipelineOptions) error {
		po.locator = locator
		return nil
	}
}

// WithRunner sets the runner every external tool is executed with.
func WithRunner(runner exec.Runner) PipelineOption {
	return func(po *PipelineOptions) error {
		po.runner = runner
		return nil
	}
}

// WithPolicy sets the failure policy.
func WithPolicy(policy Policy) PipelineOption {
	return func(po *PipelineOptions) error {
		po.policy = policy
		return nil
	}
}

// WithFilter restricts the run to the tests whose name matches the glob
// pattern.
func WithFilter(pattern string) PipelineOption {
	return func(po *PipelineOptions) error {
		po.filter = pattern
		return nil
	}
}

// WithObjectPaths links extra objects into every image.
func WithObjectPaths(paths ...string) PipelineOption {
	return func(po *PipelineOptions) error {
		po.objects = append(po.objects, paths...)
		return nil
	}
}

// WithMake sets the make binary and its job count, where a negative count
// leaves -j unset.
func WithMake(bin string, jobs int) PipelineOption {
	return func(po *PipelineOptions) error {
		po.make = bin
		po.jobs = jobs
		return nil
	}
}

// WithAlwaysMake relinks every image regardless of what the recipe considers
// up to date.
func WithAlwaysMake(alwaysMake bool) PipelineOption {
	return func(po *PipelineOptions) error {
		po.alwaysMake = alwaysMake
		return nil
	}
}

// WithOutput attaches the output streams of the external tools.
func WithOutput(stdout, stderr io.Writer) PipelineOption {
	return func(po *PipelineOptions) error {
		po.stdout = stdout
		po.stderr = stderr
		return nil
	}
}

// WithTransitionCallback is called after every state transition.
func WithTransitionCallback(cb func(from, to State)) PipelineOption {
	return func(po *PipelineOptions) error {
		po.onTransition = append(po.onTransition, cb)
		return nil
	}
}
