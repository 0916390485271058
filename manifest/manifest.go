// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package manifest contains the results each stage of the pipeline hands to
// the next one.
package manifest

// CrossBuild is the outcome of cross-compiling the tests of a project.  Every
// test listed has its static library present in LibraryPath.
type CrossBuild struct {
	// Project is the canonical path of the project the tests belong to.
	Project string `yaml:"project"`

	// Arch is the target architecture the tests were built for.
	Arch string `yaml:"arch"`

	// Tests are the names of the successfully built tests, in build order.
	Tests []string `yaml:"tests"`

	// ObjectPaths are extra objects linked into every image.
	ObjectPaths []string `yaml:"object_paths,omitempty"`

	// LibraryPath is the canonical directory holding every test library.
	LibraryPath string `yaml:"library_path"`

	// Failures lists the tests which could not be built.
	Failures []Failure `yaml:"failures,omitempty"`
}

// Image is a linked executable image of a single test.
type Image struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Link is the outcome of linking the tests of a CrossBuild.
type Link struct {
	Images   []Image   `yaml:"images"`
	Failures []Failure `yaml:"failures,omitempty"`
}

// Names returns the test name of each image.
func (l Link) Names() []string {
	names := make([]string, 0, len(l.Images))
	for _, image := range l.Images {
		names = append(names, image.Name)
	}

	return names
}

// Failure records why a test did not make it through a stage.
type Failure struct {
	Stage  string `yaml:"stage"`
	Test   string `yaml:"test"`
	Reason string `yaml:"reason"`
}
