// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package matchers contains additional Gomega matchers.
package matchers

import (
	"github.com/onsi/gomega/types"
)

// BeAnEmptyDirectory succeeds if a file exists and is a directory that does
// not contain any file.
// Actual must be a string representing the absolute path to the directory
// being checked.
func BeAnEmptyDirectory() types.GomegaMatcher {
	return &dirMatcher{
		desc:  "be an empty directory",
		check: isEmpty,
	}
}

// ContainFiles succeeds if a directory exists and contains regular files with
// the provided names.
func ContainFiles(files ...string) types.GomegaMatcher {
	return &dirMatcher{
		desc:  "contain the files with the provided names",
		check: hasEntries(files, fileTypeRegular),
	}
}

// ContainDirectories succeeds if a directory exists and contains
// sub-directories with the provided names.
func ContainDirectories(dirs ...string) types.GomegaMatcher {
	return &dirMatcher{
		desc:  "contain the directories with the provided names",
		check: hasEntries(dirs, fileTypeDirectory),
	}
}

// ContainImages succeeds if a link recipe's build directory holds the image
// of each of the provided tests.
func ContainImages(tests ...string) types.GomegaMatcher {
	files := make([]string, 0, len(tests))
	for _, test := range tests {
		files = append(files, "stm32_"+test+".elf")
	}

	return &dirMatcher{
		desc:  "contain the images of the provided tests",
		check: hasEntries(files, fileTypeRegular),
	}
}
