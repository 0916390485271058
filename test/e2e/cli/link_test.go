// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

//go:build !windows

package cli_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:stylecheck
	. "github.com/onsi/gomega"    //nolint:stylecheck

	fcmd "qemurunner.sh/test/e2e/framework/cmd"
	fcfg "qemurunner.sh/test/e2e/framework/config"
	. "qemurunner.sh/test/e2e/framework/matchers" //nolint:stylecheck
)

var _ = Describe("qemu-runner crossbuild and link", func() {
	var stdout *fcmd.IOStream
	var stderr *fcmd.IOStream

	var cfg *fcfg.Config

	var project string
	var crossbuild string

	BeforeEach(func() {
		stdout = fcmd.NewIOStream()
		stderr = fcmd.NewIOStream()

		cfg = fcfg.NewTempConfig()

		project = newProject("test_blink.rs", "test_uart.rs")
		crossbuild = filepath.Join(project, "crossbuild.yaml")

		cmd := fcmd.NewQemuRunner(binPath, stdout, stderr, cfg.Path(), toolsDir)
		cmd.Args = append(cmd.Args, "crossbuild", "--output", crossbuild, project)
		Expect(cmd.Run()).To(Succeed())
	})

	It("should record the cross-built tests", func() {
		libdir := filepath.Join(project, "target", arch, "debug", "examples")

		report, err := os.ReadFile(crossbuild)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(report)).To(SatisfyAll(
			ContainSubstring("project: "+project),
			ContainSubstring("arch: "+arch),
			ContainSubstring("- test_blink\n"),
			ContainSubstring("- test_uart\n"),
			ContainSubstring("library_path: "+libdir),
		))

		Expect(filepath.Join(project, "gcc", "build")).To(BeAnEmptyDirectory())
	})

	When("the manifest is linked", func() {
		var cmd *fcmd.Cmd

		BeforeEach(func() {
			stdout = fcmd.NewIOStream()
			stderr = fcmd.NewIOStream()

			cmd = fcmd.NewQemuRunner(binPath, stdout, stderr, cfg.Path(), toolsDir)
			cmd.Args = append(cmd.Args, "link", "--manifest", crossbuild)
		})

		It("should produce the images in the recorded project", func() {
			err := cmd.Run()
			Expect(err).ToNot(HaveOccurred())

			Expect(filepath.Join(project, "gcc", "build")).To(ContainImages("test_blink", "test_uart"))
		})
	})

	When("link is invoked without a manifest", func() {
		var cmd *fcmd.Cmd

		BeforeEach(func() {
			stdout = fcmd.NewIOStream()
			stderr = fcmd.NewIOStream()

			cmd = fcmd.NewQemuRunner(binPath, stdout, stderr, cfg.Path(), toolsDir)
			cmd.Args = append(cmd.Args, "link", project)
		})

		It("should print an error and exit", func() {
			err := cmd.Run()
			Expect(err).To(MatchError("exit status 1"))

			Expect(stderr).To(ContainSubstring("--manifest is required"))
		})
	})
})
