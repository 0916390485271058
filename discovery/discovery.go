// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package discovery finds the test sources of a project.
package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"

	"qemurunner.sh/artifact"
	"qemurunner.sh/internal/errs"
	"qemurunner.sh/log"
)

// SourcePattern matches the file name of a test source.
var SourcePattern = artifact.TestPrefix + "*" + artifact.SourceSuffix

// DiscoveredFile is a test source found on disk.
type DiscoveredFile struct {
	// Name is the bare file name, e.g. test_blink.rs.
	Name string

	// Path is the absolute path of the file.
	Path string
}

// TestName returns the canonical name of the test, which is the file name
// without its source suffix.
func (f DiscoveredFile) TestName() string {
	return strings.TrimSuffix(f.Name, artifact.SourceSuffix)
}

type DiscoverOptions struct {
	filter glob.Glob
}

type DiscoverOption func(*DiscoverOptions) error

// WithFilter only retains tests whose canonical name matches pattern.
func WithFilter(pattern string) DiscoverOption {
	return func(do *DiscoverOptions) error {
		if len(pattern) == 0 {
			return nil
		}

		g, err := glob.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid filter %q: %w", pattern, err)
		}

		do.filter = g

		return nil
	}
}

var sourceGlob = glob.MustCompile(SourcePattern)

// Discover lists the test sources in the examples directory of the project.
// Only regular files, or symbolic links to one, qualify.  The result is
// sorted by name.
func Discover(ctx context.Context, project string, dopts ...DiscoverOption) ([]DiscoveredFile, error) {
	opts := &DiscoverOptions{}
	for _, o := range dopts {
		if err := o(opts); err != nil {
			return nil, err
		}
	}

	project, err := artifact.CanonicalizeDir(project)
	if err != nil {
		return nil, err
	}

	dir := artifact.SourcesDir(project)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrPathResolution, dir, err)
	}

	var files []DiscoveredFile

	for _, entry := range entries {
		name := entry.Name()
		if !utf8.ValidString(name) || !sourceGlob.Match(name) {
			continue
		}

		path := filepath.Join(dir, name)
		if !artifact.Exists(path) {
			log.G(ctx).
				WithField("path", path).
				Trace("skipping non-regular file")
			continue
		}

		file := DiscoveredFile{
			Name: name,
			Path: path,
		}

		if opts.filter != nil && !opts.filter.Match(file.TestName()) {
			continue
		}

		files = append(files, file)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// Names returns the canonical test name of each file, in order.
func Names(files []DiscoveredFile) []string {
	names := make([]string, 0, len(files))
	for _, file := range files {
		names = append(names, file.TestName())
	}

	return names
}
