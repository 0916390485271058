// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package toolchain

import (
	"context"
	"path/filepath"

	"github.com/cli/safeexec"
	"github.com/mitchellh/go-homedir"
)

// Resolver produces a single candidate path for the driver.  The boolean is
// false when the resolver has no candidate to offer.
type Resolver func(ctx context.Context) (string, bool)

// StaticResolver offers path as-is, unless it is empty.
func StaticResolver(path string) Resolver {
	return func(context.Context) (string, bool) {
		return path, len(path) > 0
	}
}

// LookPathResolver searches the PATH for the named executable without ever
// considering the working directory.
func LookPathResolver(name string) Resolver {
	return func(context.Context) (string, bool) {
		path, err := safeexec.LookPath(name)
		if err != nil {
			return "", false
		}

		return path, true
	}
}

// HomeResolver offers a path relative to the user's home directory.
func HomeResolver(elem ...string) Resolver {
	return func(context.Context) (string, bool) {
		home, err := homedir.Dir()
		if err != nil || len(home) == 0 {
			return "", false
		}

		return filepath.Join(append([]string{home}, elem...)...), true
	}
}

// DefaultResolvers returns the candidate order: the configured path, the
// driver found on the PATH and finally the rustup default install location.
func DefaultResolvers(configured string) []Resolver {
	return []Resolver{
		StaticResolver(configured),
		LookPathResolver(DefaultBinaryName),
		HomeResolver(".cargo", "bin", DefaultBinaryName),
	}
}
