// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

//go:build !windows

package cli_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:stylecheck
	. "github.com/onsi/gomega"    //nolint:stylecheck

	fcmd "qemurunner.sh/test/e2e/framework/cmd"
	fcfg "qemurunner.sh/test/e2e/framework/config"
)

var _ = Describe("qemu-runner ls", func() {
	var cmd *fcmd.Cmd

	var stdout *fcmd.IOStream
	var stderr *fcmd.IOStream

	var cfg *fcfg.Config

	var project string

	BeforeEach(func() {
		stdout = fcmd.NewIOStream()
		stderr = fcmd.NewIOStream()

		cfg = fcfg.NewTempConfig()

		project = newProject("test_uart.rs", "test_blink.rs", "helper.rs", "test_notes.md")

		cmd = fcmd.NewQemuRunner(binPath, stdout, stderr, cfg.Path())
		cmd.Args = append(cmd.Args, "ls")
	})

	When("invoked with the project directory", func() {
		BeforeEach(func() {
			cmd.Args = append(cmd.Args, project)
		})

		It("should list the matching tests in name order", func() {
			err := cmd.Run()
			Expect(err).ToNot(HaveOccurred())

			Expect(stderr.String()).To(BeEmpty())
			Expect(stdout.String()).To(Equal("test_blink\ntest_uart\n"))
		})
	})

	When("invoked with the --long flag", func() {
		BeforeEach(func() {
			cmd.Args = append(cmd.Args, "--long", project)
		})

		It("should show the source of each test", func() {
			err := cmd.Run()
			Expect(err).ToNot(HaveOccurred())

			Expect(stdout.String()).To(Equal(
				"test_blink\t" + filepath.Join(project, "examples", "test_blink.rs") + "\n" +
					"test_uart\t" + filepath.Join(project, "examples", "test_uart.rs") + "\n",
			))
		})
	})

	When("invoked with a filter", func() {
		BeforeEach(func() {
			cmd.Args = append(cmd.Args, "--filter", "*uart*", project)
		})

		It("should only list the matching tests", func() {
			err := cmd.Run()
			Expect(err).ToNot(HaveOccurred())

			Expect(stdout.String()).To(Equal("test_uart\n"))
		})
	})

	When("invoked with a path which is not a directory", func() {
		BeforeEach(func() {
			cmd.Args = append(cmd.Args, filepath.Join(project, "does-not-exist"))
		})

		It("should print an error and exit", func() {
			err := cmd.Run()
			Expect(err).To(MatchError("exit status 1"))

			Expect(stdout.String()).To(BeEmpty())
			Expect(stderr).To(ContainSubstring("path is not a valid directory"))
		})
	})
})
