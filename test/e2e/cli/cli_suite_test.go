// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

//go:build !windows

package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2" //nolint:stylecheck
	. "github.com/onsi/gomega"    //nolint:stylecheck
	"github.com/onsi/gomega/gexec"
)

// fakeCargo identifies itself as cargo and produces an empty static library
// for every example, except for test_broken which fails to compile.
const fakeCargo = `#!/bin/sh
if [ "$1" = "-V" ]; then
	echo "cargo 1.80.0 (e2e)"
	exit 0
fi
echo "compiling $3 for $6"
if [ "$3" = "test_broken" ]; then
	echo "error: could not compile $3" >&2
	exit 101
fi
mkdir -p "target/$6/debug/examples"
: > "target/$6/debug/examples/lib$3.a"
`

// fakeMake records the link environment in the produced image.
const fakeMake = `#!/bin/sh
mkdir -p build
env | grep '^TEST_' | sort > "build/stm32_$TEST_NAME.elf"
`

// fakeRustc is a toolchain which is not cargo.
const fakeRustc = `#!/bin/sh
echo "rustc 1.80.0 (e2e)"
`

var (
	// binPath is the qemu-runner binary under test.
	binPath string

	// toolsDir holds the fake toolchain and make executables.
	toolsDir string
)

func TestCLI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "qemu-runner CLI")
}

var _ = BeforeSuite(func() {
	var err error

	binPath, err = gexec.Build("qemurunner.sh/cmd/qemu-runner")
	Expect(err).ToNot(HaveOccurred())

	toolsDir, err = os.MkdirTemp("", "qemu-runner-e2e-tools-*")
	Expect(err).ToNot(HaveOccurred())

	Expect(os.WriteFile(filepath.Join(toolsDir, "cargo"), []byte(fakeCargo), 0o755)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(toolsDir, "make"), []byte(fakeMake), 0o755)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(toolsDir, "rustc"), []byte(fakeRustc), 0o755)).To(Succeed())
})

var _ = AfterSuite(func() {
	gexec.CleanupBuildArtifacts()
	Expect(os.RemoveAll(toolsDir)).To(Succeed())
})

// newProject creates a temporary test project holding an empty source file
// for each of the provided names in its examples directory, and an empty link
// recipe directory.
func newProject(sources ...string) string {
	dir, err := os.MkdirTemp("", "qemu-runner-e2e-project-*")
	Expect(err).ToNot(HaveOccurred())
	DeferCleanup(os.RemoveAll, dir)

	Expect(os.MkdirAll(filepath.Join(dir, "examples"), 0o755)).To(Succeed())
	Expect(os.MkdirAll(filepath.Join(dir, "gcc", "build"), 0o755)).To(Succeed())

	for _, source := range sources {
		Expect(os.WriteFile(filepath.Join(dir, "examples", source), nil, 0o644)).To(Succeed())
	}

	dir, err = filepath.EvalSymlinks(dir)
	Expect(err).ToNot(HaveOccurred())

	return dir
}
