// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package link

import (
	"strings"

	"qemurunner.sh/artifact"
	"qemurunner.sh/manifest"
)

// Recipe is the environment the link recipe of a single test is driven with.
type Recipe struct {
	// Name is the canonical name of the test.
	Name string `export:"TEST_NAME"`

	// LibraryPath is the linker search path of the shared library directory.
	LibraryPath string `export:"TEST_LIBRARY_PATH"`

	// LibraryPre is the link flag naming the test's library.
	LibraryPre string `export:"TEST_LIBRARY_PRE"`

	// Objects is the space separated list of extra objects.
	Objects string `export:"TEST_OBJECTS"`

	// Deps is the space separated list of library archives the test depends
	// on.
	Deps string `export:"TEST_DEPS"`

	// Renames is reserved for symbol rename directives and is always empty.
	Renames string `export:"TEST_RENAMES"`
}

// NewRecipe derives the recipe of the named test of a cross-build.
func NewRecipe(m *manifest.CrossBuild, name string) Recipe {
	deps := []string{
		artifact.LibraryArchive(m.LibraryPath, name),
	}

	return Recipe{
		Name:        name,
		LibraryPath: artifact.SearchPathFlag(m.LibraryPath),
		LibraryPre:  artifact.LinkLibraryFlag(name),
		Objects:     strings.Join(m.ObjectPaths, " "),
		Deps:        strings.Join(deps, " "),
	}
}
