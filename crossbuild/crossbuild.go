// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package crossbuild compiles every test of a project into a static library
// for the target architecture, one test at a time.
package crossbuild

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"qemurunner.sh/artifact"
	"qemurunner.sh/discovery"
	"qemurunner.sh/exec"
	"qemurunner.sh/internal/errs"
	"qemurunner.sh/iostreams"
	"qemurunner.sh/log"
	"qemurunner.sh/manifest"
	"qemurunner.sh/toolchain"
)

// StageName identifies the stage in errors and failure records.
const StageName = "cross-build"

// Stage runs the toolchain once per discovered test.
type Stage struct {
	opts *StageOptions
}

// New prepares the stage.
func New(sopts ...StageOption) (*Stage, error) {
	opts, err := NewStageOptions(sopts...)
	if err != nil {
		return nil, err
	}

	return &Stage{opts: opts}, nil
}

// Run locates the toolchain, discovers the tests of the project and builds
// each of them in name order.
//
// By default the first failing test aborts the stage and no manifest is
// returned.  With keep-going, the remaining tests are still built and the
// returned manifest lists the tests which succeeded alongside the failures,
// together with an error aggregating every failure.
func (s *Stage) Run(ctx context.Context, bopts manifest.BuildOptions) (*manifest.CrossBuild, error) {
	if err := bopts.Validate(); err != nil {
		return nil, errs.NewStageError(StageName, "", err)
	}

	tc := s.opts.toolchain
	if len(tc) == 0 {
		var err error
		tc, err = s.opts.locator.Locate(ctx)
		if err != nil {
			return nil, errs.NewStageError(StageName, "", err)
		}
	}

	files, err := discovery.Discover(ctx, bopts.Project, discovery.WithFilter(s.opts.filter))
	if err != nil {
		return nil, errs.NewStageError(StageName, "", err)
	}

	// Discovery has confirmed the project can be canonicalized.
	project, err := artifact.CanonicalizeDir(bopts.Project)
	if err != nil {
		return nil, errs.NewStageError(StageName, "", err)
	}

	libdir := artifact.LibraryDir(project, bopts.Arch)
	result := &manifest.CrossBuild{
		Project:     project,
		Arch:        bopts.Arch,
		Tests:       []string{},
		ObjectPaths: s.opts.objects,
	}

	var merr *multierror.Error

	for _, name := range discovery.Names(files) {
		if err := ctx.Err(); err != nil {
			return nil, errs.NewStageError(StageName, name, err)
		}

		if err := s.build(ctx, tc, project, libdir, bopts.Arch, name); err != nil {
			serr := errs.NewStageError(StageName, name, err)
			if !s.opts.keepGoing {
				return nil, serr
			}

			log.G(ctx).
				WithField("test", name).
				Error(err)

			result.Failures = append(result.Failures, manifest.Failure{
				Stage:  StageName,
				Test:   name,
				Reason: err.Error(),
			})
			merr = multierror.Append(merr, serr)

			continue
		}

		result.Tests = append(result.Tests, name)
	}

	result.LibraryPath, err = artifact.CanonicalizeDir(libdir)
	if err != nil {
		return nil, multierror.Append(merr, errs.NewStageError(StageName, "", err)).ErrorOrNil()
	}

	return result, merr.ErrorOrNil()
}

func (s *Stage) build(ctx context.Context, tc, project, libdir, arch, name string) error {
	log.G(ctx).
		WithField("test", name).
		WithField("arch", arch).
		Info("cross-building")

	stdout := s.opts.stdout
	if stdout == nil {
		stdout = iostreams.G(ctx).Out
	}

	stderr := s.opts.stderr
	if stderr == nil {
		stderr = iostreams.G(ctx).ErrOut
	}

	process, err := toolchain.NewBuildRequest(name, arch).Process(tc, project,
		exec.WithStdout(stdout),
		exec.WithStderr(stderr),
		exec.WithLogger(log.G(ctx)),
	)
	if err != nil {
		return err
	}

	res, err := s.opts.runner.Run(ctx, process)
	if err != nil || !res.Success() {
		return subprocessError(process, res, err)
	}

	if archive := artifact.LibraryArchive(libdir, name); !artifact.Exists(archive) {
		return fmt.Errorf("%w: %s", errs.ErrMissingArtifact, archive)
	}

	return nil
}

func subprocessError(process *exec.Process, res *exec.Result, err error) error {
	if res != nil {
		return fmt.Errorf("%w: %s exited with code %d", errs.ErrSubprocess, process.Bin(), res.ExitCode)
	}

	return fmt.Errorf("%w: %s: %v", errs.ErrSubprocess, process.Bin(), err)
}
