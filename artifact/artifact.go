// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package artifact holds the naming conventions of every file the pipeline
// reads or produces.  Every per-test name is qualified by the test's name so
// that tests never collide within the shared output directories.
package artifact

import (
	"fmt"
	"path/filepath"

	"qemurunner.sh/internal/errs"
)

const (
	// ExamplesDir is the directory of the project holding test sources.
	ExamplesDir = "examples"

	// RecipeDirName is the directory of the project holding the link recipe.
	RecipeDirName = "gcc"

	// SourceSuffix is the suffix of test sources.
	SourceSuffix = ".rs"

	// TestPrefix is the prefix of test sources.
	TestPrefix = "test_"

	// ImagePrefix is prepended to the name of every linked image.
	ImagePrefix = "stm32_"

	// ImageSuffix is the extension of every linked image.
	ImageSuffix = ".elf"
)

// LibraryFile is the file name of the static library of a test.
func LibraryFile(name string) string {
	return fmt.Sprintf("lib%s.a", name)
}

// LibraryDir is the directory every test library of arch is placed in.
func LibraryDir(project, arch string) string {
	return filepath.Join(project, "target", arch, "debug", "examples")
}

// LibraryArchive is the path of a test's static library within libdir.
func LibraryArchive(libdir, name string) string {
	return filepath.Join(libdir, LibraryFile(name))
}

// SearchPathFlag expresses libdir as a linker search path.
func SearchPathFlag(libdir string) string {
	return "-L " + libdir
}

// LinkLibraryFlag links a test's static library by its exact file name.
func LinkLibraryFlag(name string) string {
	return "-l:" + LibraryFile(name)
}

// RecipeDir is the directory the link recipe is invoked in.
func RecipeDir(project string) string {
	return filepath.Join(project, RecipeDirName)
}

// ImageFile is the file name of the linked image of a test.
func ImageFile(name string) string {
	return ImagePrefix + name + ImageSuffix
}

// ImagePath is where the link recipe places the image of a test.
func ImagePath(recipe, name string) string {
	return filepath.Join(recipe, "build", ImageFile(name))
}

// SourcesDir is the directory test sources are discovered in.
func SourcesDir(project string) string {
	return filepath.Join(project, ExamplesDir)
}

// Canonicalize returns the absolute, symlink free form of an existing path.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", errs.ErrPathResolution, path, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", errs.ErrPathResolution, path, err)
	}

	return resolved, nil
}

// CanonicalizeDir is Canonicalize restricted to directories.
func CanonicalizeDir(path string) (string, error) {
	resolved, err := Canonicalize(path)
	if err != nil {
		return "", err
	}

	if !isDir(resolved) {
		return "", fmt.Errorf("%w: %s: not a directory", errs.ErrPathResolution, path)
	}

	return resolved, nil
}
