// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package link fuses the cross-built library of every test with the shared
// runtime into an executable image by invoking the project's make recipe.
package link

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"qemurunner.sh/artifact"
	"qemurunner.sh/exec"
	"qemurunner.sh/internal/errs"
	"qemurunner.sh/iostreams"
	"qemurunner.sh/log"
	"qemurunner.sh/make"
	"qemurunner.sh/manifest"
)

// StageName identifies the stage in errors and failure records.
const StageName = "link"

// Stage invokes the link recipe once per cross-built test.
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

// Run links every test of the cross-build in manifest order.  Failures are
// handled as in the cross-build stage: the first one aborts the stage unless
// keep-going is set.  A cross-build without tests produces an empty manifest
// without invoking the recipe.  The project must be the one the cross-build
// was run on, when recorded.
func (s *Stage) Run(ctx context.Context, bopts manifest.BuildOptions, cb *manifest.CrossBuild) (*manifest.Link, error) {
	if cb == nil {
		return nil, errs.NewStageError(StageName, "", fmt.Errorf("no cross-build manifest provided"))
	}

	project, err := artifact.CanonicalizeDir(bopts.Project)
	if err != nil {
		return nil, errs.NewStageError(StageName, "", err)
	}

	// The libraries of the cross-build live under the project it was run on.
	if len(cb.Project) > 0 {
		built, err := artifact.CanonicalizeDir(cb.Project)
		if err != nil {
			return nil, errs.NewStageError(StageName, "", err)
		}

		if built != project {
			return nil, errs.NewStageError(StageName, "", fmt.Errorf("project %s does not match the cross-built project %s", project, built))
		}
	}

	recipe := artifact.RecipeDir(project)
	result := &manifest.Link{
		Images: []manifest.Image{},
	}

	var merr *multierror.Error

	for _, name := range cb.Tests {
		if err := ctx.Err(); err != nil {
			return nil, errs.NewStageError(StageName, name, err)
		}

		image, err := s.link(ctx, recipe, cb, name)
		if err != nil {
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

		result.Images = append(result.Images, manifest.Image{
			Name: name,
			Path: image,
		})
	}

	return result, merr.ErrorOrNil()
}

func (s *Stage) link(ctx context.Context, recipe string, cb *manifest.CrossBuild, name string) (string, error) {
	log.G(ctx).
		WithField("test", name).
		Info("linking")

	stdout := s.opts.stdout
	if stdout == nil {
		stdout = iostreams.G(ctx).Out
	}

	stderr := s.opts.stderr
	if stderr == nil {
		stderr = iostreams.G(ctx).ErrOut
	}

	m, err := make.NewFromInterface(NewRecipe(cb, name),
		make.WithBinPath(s.opts.bin),
		make.WithJobs(s.opts.jobs),
		make.WithAlwaysMake(s.opts.alwaysMake),
		make.WithRunner(s.opts.runner),
		make.WithExecOptions(
			exec.WithWorkdir(recipe),
			exec.WithStdout(stdout),
			exec.WithStderr(stderr),
			exec.WithLogger(log.G(ctx)),
		),
	)
	if err != nil {
		return "", err
	}

	res, err := m.Execute(ctx)
	if err != nil || !res.Success() {
		if res != nil {
			return "", fmt.Errorf("%w: %s exited with code %d", errs.ErrSubprocess, s.opts.bin, res.ExitCode)
		}
		return "", fmt.Errorf("%w: %s: %v", errs.ErrSubprocess, s.opts.bin, err)
	}

	image := artifact.ImagePath(recipe, name)
	if !artifact.Exists(image) {
		return "", fmt.Errorf("%w: %s", errs.ErrMissingArtifact, image)
	}

	return artifact.Canonicalize(image)
}
