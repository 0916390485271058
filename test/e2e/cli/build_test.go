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

const arch = "thumbv7em-none-eabihf"

var _ = Describe("qemu-runner build", func() {
	var cmd *fcmd.Cmd

	var stdout *fcmd.IOStream
	var stderr *fcmd.IOStream

	var cfg *fcfg.Config

	BeforeEach(func() {
		stdout = fcmd.NewIOStream()
		stderr = fcmd.NewIOStream()

		cfg = fcfg.NewTempConfig()

		cmd = fcmd.NewQemuRunner(binPath, stdout, stderr, cfg.Path(), toolsDir)
		cmd.Args = append(cmd.Args, "build")
	})

	When("every test builds and links", func() {
		var project string

		BeforeEach(func() {
			project = newProject("test_uart.rs", "test_blink.rs")
			cmd.Args = append(cmd.Args, project)
		})

		It("should produce one image per test", func() {
			err := cmd.Run()
			Expect(err).ToNot(HaveOccurred())

			libdir := filepath.Join(project, "target", arch, "debug", "examples")
			Expect(libdir).To(ContainFiles("libtest_blink.a", "libtest_uart.a"))
			Expect(filepath.Join(project, "gcc", "build")).To(ContainImages("test_blink", "test_uart"))

			Expect(stdout).To(ContainSubstring("compiling test_blink for " + arch))
			Expect(stderr).To(SatisfyAll(
				ContainSubstring(`path="`+filepath.Join(project, "gcc", "build", "stm32_test_blink.elf")+`"`),
				ContainSubstring(`path="`+filepath.Join(project, "gcc", "build", "stm32_test_uart.elf")+`"`),
			))
		})

		It("should drive the link recipe through the environment", func() {
			err := cmd.Run()
			Expect(err).ToNot(HaveOccurred())

			libdir := filepath.Join(project, "target", arch, "debug", "examples")

			env, err := os.ReadFile(filepath.Join(project, "gcc", "build", "stm32_test_blink.elf"))
			Expect(err).ToNot(HaveOccurred())
			Expect(string(env)).To(Equal(
				"TEST_DEPS=" + filepath.Join(libdir, "libtest_blink.a") + "\n" +
					"TEST_LIBRARY_PATH=-L " + libdir + "\n" +
					"TEST_LIBRARY_PRE=-l:libtest_blink.a\n" +
					"TEST_NAME=test_blink\n" +
					"TEST_OBJECTS=\n" +
					"TEST_RENAMES=\n",
			))
		})
	})

	When("a test fails to compile", func() {
		var project string

		BeforeEach(func() {
			project = newProject("test_blink.rs", "test_broken.rs", "test_uart.rs")
		})

		Context("with the default fail-fast policy", func() {
			BeforeEach(func() {
				cmd.Args = append(cmd.Args, project)
			})

			It("should stop before linking any test", func() {
				err := cmd.Run()
				Expect(err).To(MatchError("exit status 1"))

				Expect(stderr).To(ContainSubstring("cross-build of 'test_broken' failed"))
				Expect(filepath.Join(project, "gcc", "build")).To(BeAnEmptyDirectory())

				libdir := filepath.Join(project, "target", arch, "debug", "examples")
				Expect(filepath.Join(libdir, "libtest_uart.a")).ToNot(BeAnExistingFile())
			})
		})

		Context("with the collect-all policy", func() {
			var output string

			BeforeEach(func() {
				output = filepath.Join(project, "images.yaml")
				cmd.Args = append(cmd.Args, "--policy", "collect-all", "--output", output, project)
			})

			It("should link the other tests and report the failure", func() {
				err := cmd.Run()
				Expect(err).To(MatchError("exit status 1"))

				Expect(filepath.Join(project, "gcc", "build")).To(ContainImages("test_blink", "test_uart"))
				Expect(stderr).To(ContainSubstring("test_broken"))

				report, err := os.ReadFile(output)
				Expect(err).ToNot(HaveOccurred())
				Expect(string(report)).To(SatisfyAll(
					ContainSubstring("name: test_blink"),
					ContainSubstring("name: test_uart"),
					ContainSubstring("test: test_broken"),
					ContainSubstring("stage: cross-build"),
				))
			})
		})
	})

	When("the project has no tests", func() {
		var project string

		BeforeEach(func() {
			project = newProject("helper.rs")
			Expect(os.MkdirAll(filepath.Join(project, "target", arch, "debug", "examples"), 0o755)).To(Succeed())

			cmd.Args = append(cmd.Args, project)
		})

		It("should succeed without linking anything", func() {
			err := cmd.Run()
			Expect(err).ToNot(HaveOccurred())

			Expect(stdout.String()).To(BeEmpty())
			Expect(filepath.Join(project, "gcc", "build")).To(BeAnEmptyDirectory())
		})
	})

	When("another architecture is configured", func() {
		var project string

		BeforeEach(func() {
			cfg.Set("thumbv7m-none-eabi", "toolchain", "arch")

			project = newProject("test_blink.rs")
			cmd.Args = append(cmd.Args, project)
		})

		It("should build the tests for that architecture", func() {
			err := cmd.Run()
			Expect(err).ToNot(HaveOccurred())

			Expect(filepath.Join(project, "target", "thumbv7m-none-eabi", "debug")).To(ContainDirectories("examples"))
			Expect(filepath.Join(project, "gcc", "build")).To(ContainImages("test_blink"))
		})
	})

	When("the toolchain cannot be found", func() {
		var project string

		BeforeEach(func() {
			project = newProject("test_blink.rs")

			cmd.Env = append(cmd.Env, "PATH=/nonexistent", "HOME=/nonexistent")
			cmd.Args = append(cmd.Args, project)
		})

		It("should fail before building anything", func() {
			err := cmd.Run()
			Expect(err).To(MatchError("exit status 1"))

			Expect(stderr).To(ContainSubstring("toolchain not found"))
			Expect(filepath.Join(project, "target")).ToNot(BeAnExistingFile())
		})
	})
})
