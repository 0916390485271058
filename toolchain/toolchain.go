// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package toolchain locates the cross-compilation driver on the host and
// describes the contract it is invoked with.
package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"qemurunner.sh/exec"
	"qemurunner.sh/internal/errs"
	"qemurunner.sh/log"
)

const (
	// DefaultBinaryName is the name of the driver searched for on the PATH.
	DefaultBinaryName = "cargo"

	// VersionFlag makes the driver print its self-identification line.
	VersionFlag = "-V"

	// Identifier must be contained in the self-identification line of a valid
	// driver.
	Identifier = "cargo"

	// InstallHint is shown when no driver could be found.
	InstallHint = "install the Rust toolchain from https://rustup.rs and make sure cargo is on your PATH"
)

// Locator walks an ordered list of candidate resolvers and accepts the first
// candidate which identifies itself as the expected driver.
type Locator struct {
	resolvers  []Resolver
	runner     exec.Runner
	identifier string
}

type LocatorOption func(*Locator)

// WithResolvers replaces the candidate resolvers.
func WithResolvers(resolvers ...Resolver) LocatorOption {
	return func(l *Locator) {
		l.resolvers = resolvers
	}
}

// WithRunner sets the runner used to query candidates.
func WithRunner(runner exec.Runner) LocatorOption {
	return func(l *Locator) {
		l.runner = runner
	}
}

// WithIdentifier sets the substring a candidate's version output must carry.
func WithIdentifier(identifier string) LocatorOption {
	return func(l *Locator) {
		l.identifier = identifier
	}
}

// NewLocator returns a Locator which, unless overridden, searches the
// DefaultResolvers.
func NewLocator(lopts ...LocatorOption) *Locator {
	l := &Locator{
		resolvers:  DefaultResolvers(""),
		runner:     exec.DefaultRunner,
		identifier: Identifier,
	}

	for _, o := range lopts {
		o(l)
	}

	return l
}

// Locate returns the path of the first candidate whose version output
// contains the identifier.
func (l *Locator) Locate(ctx context.Context) (string, error) {
	for _, resolve := range l.resolvers {
		candidate, ok := resolve(ctx)
		if !ok {
			continue
		}

		version, err := l.Version(ctx, candidate)
		if err != nil {
			log.G(ctx).
				WithField("candidate", candidate).
				Debugf("skipping toolchain candidate: %v", err)
			continue
		}

		if !strings.Contains(version, l.identifier) {
			log.G(ctx).
				WithField("candidate", candidate).
				Debugf("skipping toolchain candidate: unexpected identification %q", version)
			continue
		}

		log.G(ctx).
			WithField("path", candidate).
			Debugf("using %s", version)

		return candidate, nil
	}

	return "", fmt.Errorf("%w: %s", errs.ErrToolchainNotFound, InstallHint)
}

// Version invokes the toolchain at path with VersionFlag and returns the first
// line of its standard output.
func (l *Locator) Version(ctx context.Context, path string) (string, error) {
	var stdout bytes.Buffer

	process, err := exec.NewProcess(path, []string{VersionFlag},
		exec.WithStdout(&stdout),
		exec.WithStderr(io.Discard),
	)
	if err != nil {
		return "", err
	}

	if _, err := l.runner.Run(ctx, process); err != nil {
		return "", err
	}

	line, _, _ := strings.Cut(stdout.String(), "\n")

	return strings.TrimSpace(line), nil
}
