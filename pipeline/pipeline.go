// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package pipeline runs the cross-build and link stages one after another and
// tracks the state of the run.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"

	"qemurunner.sh/crossbuild"
	"qemurunner.sh/exec"
	"qemurunner.sh/link"
	"qemurunner.sh/log"
	"qemurunner.sh/manifest"
	"qemurunner.sh/toolchain"
)

// Pipeline is a single run of both stages.  A pipeline cannot be run twice.
type Pipeline struct {
	opts *PipelineOptions

	mu      sync.RWMutex
	state   State
	history []State
}

// New prepares a pipeline in the Idle state.
func New(popts ...PipelineOption) (*Pipeline, error) {
	opts := &PipelineOptions{
		policy: FailFast,
		jobs:   -1,
	}

	for _, o := range popts {
		if err := o(opts); err != nil {
			return nil, fmt.Errorf("could not apply option: %w", err)
		}
	}

	if opts.runner == nil {
		opts.runner = exec.DefaultRunner
	}

	if opts.locator == nil {
		opts.locator = toolchain.NewLocator(toolchain.WithRunner(opts.runner))
	}

	return &Pipeline{
		opts:    opts,
		state:   Idle,
		history: []State{Idle},
	}, nil
}

// State returns the current state of the run.
func (p *Pipeline) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.state
}

// History returns every state the run went through, in order.
func (p *Pipeline) History() []State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return append([]State{}, p.history...)
}

// Transition moves the run from the expected state to the next one.
func (p *Pipeline) Transition(from, to State) error {
	p.mu.Lock()

	if p.state != from {
		cur := p.state
		p.mu.Unlock()
		return fmt.Errorf("invalid transition: expected %s, got %s", from, cur)
	}

	if !isAllowedTransition(from, to) {
		p.mu.Unlock()
		return fmt.Errorf("disallowed transition: %s -> %s", from, to)
	}

	p.state = to
	p.history = append(p.history, to)
	p.mu.Unlock()

	for _, cb := range p.opts.onTransition {
		cb(from, to)
	}

	return nil
}

// abort ends the run and returns err.
func (p *Pipeline) abort(ctx context.Context, err error) error {
	if terr := p.Transition(p.State(), Aborted); terr != nil {
		log.G(ctx).Debug(terr)
	}

	return err
}

// Run drives a full run: the toolchain is located, every test is cross-built
// and every successfully built test is linked.
//
// With FailFast the first failure aborts the run and no manifest is
// returned.  With CollectAll both stages process every test they can and the
// link manifest of the successful tests is returned together with an error
// aggregating each failure.
func (p *Pipeline) Run(ctx context.Context, bopts manifest.BuildOptions) (*manifest.Link, error) {
	if err := p.Transition(Idle, Locating); err != nil {
		return nil, err
	}

	if err := bopts.Validate(); err != nil {
		return nil, p.abort(ctx, err)
	}

	keepGoing := p.opts.policy == CollectAll

	tc, err := p.opts.locator.Locate(ctx)
	if err != nil {
		return nil, p.abort(ctx, err)
	}

	if err := p.Transition(Locating, Building); err != nil {
		return nil, err
	}

	cbStage, err := crossbuild.New(
		crossbuild.WithToolchain(tc),
		crossbuild.WithRunner(p.opts.runner),
		crossbuild.WithFilter(p.opts.filter),
		crossbuild.WithObjectPaths(p.opts.objects...),
		crossbuild.WithKeepGoing(keepGoing),
		crossbuild.WithOutput(p.opts.stdout, p.opts.stderr),
	)
	if err != nil {
		return nil, p.abort(ctx, err)
	}

	var merr *multierror.Error

	cb, err := cbStage.Run(ctx, bopts)
	if err != nil {
		if !keepGoing || cb == nil {
			return nil, p.abort(ctx, err)
		}
		merr = multierror.Append(merr, err)
	}

	if err := p.Transition(Building, Linking); err != nil {
		return nil, err
	}

	lStage, err := link.New(
		link.WithRunner(p.opts.runner),
		link.WithMake(p.opts.make),
		link.WithJobs(p.opts.jobs),
		link.WithAlwaysMake(p.opts.alwaysMake),
		link.WithKeepGoing(keepGoing),
		link.WithOutput(p.opts.stdout, p.opts.stderr),
	)
	if err != nil {
		return nil, p.abort(ctx, err)
	}

	lm, err := lStage.Run(ctx, bopts, cb)
	if err != nil {
		if !keepGoing || lm == nil {
			return nil, p.abort(ctx, err)
		}
		merr = multierror.Append(merr, err)
	}

	if len(cb.Failures) > 0 {
		lm.Failures = append(append([]manifest.Failure{}, cb.Failures...), lm.Failures...)
	}

	if err := merr.ErrorOrNil(); err != nil {
		return lm, p.abort(ctx, err)
	}

	if err := p.Transition(Linking, Success); err != nil {
		return nil, err
	}

	return lm, nil
}
