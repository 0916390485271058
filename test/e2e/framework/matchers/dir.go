// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package matchers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/onsi/gomega/format"
	"github.com/onsi/gomega/types"
)

type fileType uint8

const (
	fileTypeRegular fileType = iota
	fileTypeDirectory
)

// dirMatcher asserts a property of the entries of an existing directory.
type dirMatcher struct {
	desc  string
	check func(dir string, entries []os.DirEntry) error
	err   error
}

var _ types.GomegaMatcher = (*dirMatcher)(nil)

func (matcher *dirMatcher) Match(actual any) (success bool, err error) {
	dir, ok := actual.(string)
	if !ok {
		return false, fmt.Errorf("matcher to %s expects a directory path", matcher.desc)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		matcher.err = fmt.Errorf("reading directory entries: %w", err)
		return false, nil
	}

	matcher.err = matcher.check(dir, entries)

	return matcher.err == nil, nil
}

func (matcher *dirMatcher) FailureMessage(actual any) string {
	return format.Message(actual, fmt.Sprintf("to %s: %s", matcher.desc, matcher.err))
}

func (matcher *dirMatcher) NegatedFailureMessage(actual any) string {
	return format.Message(actual, "not "+matcher.desc)
}

func isEmpty(_ string, entries []os.DirEntry) error {
	if n := len(entries); n > 0 {
		return fmt.Errorf("directory contains %d entries", n)
	}

	return nil
}

// hasEntries checks that each name is an entry of the expected type, following
// symbolic links.
func hasEntries(names []string, typ fileType) func(string, []os.DirEntry) error {
	return func(dir string, entries []os.DirEntry) error {
		if n, nExpect := len(entries), len(names); n < nExpect {
			return fmt.Errorf("directory contains less entries (%d) than provided names (%d)", n, nExpect)
		}

		for _, name := range names {
			fi, err := os.Stat(filepath.Join(dir, name))
			if err != nil {
				return fmt.Errorf("reading file info: %w", err)
			}

			switch {
			case typ == fileTypeRegular && !fi.Mode().IsRegular():
				return fmt.Errorf("file %q is not regular (type: %s)", name, fi.Mode().Type())
			case typ == fileTypeDirectory && !fi.IsDir():
				return fmt.Errorf("file %q is not a directory (type: %s)", name, fi.Mode().Type())
			}
		}

		return nil
	}
}
