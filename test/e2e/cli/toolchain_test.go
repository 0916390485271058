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

var _ = Describe("qemu-runner toolchain", func() {
	var cmd *fcmd.Cmd

	var stdout *fcmd.IOStream
	var stderr *fcmd.IOStream

	var cfg *fcfg.Config

	BeforeEach(func() {
		stdout = fcmd.NewIOStream()
		stderr = fcmd.NewIOStream()

		cfg = fcfg.NewTempConfig()
	})

	When("cargo is on the PATH", func() {
		BeforeEach(func() {
			cmd = fcmd.NewQemuRunner(binPath, stdout, stderr, cfg.Path(), toolsDir)
			cmd.Args = append(cmd.Args, "toolchain")
		})

		It("should print its path and version", func() {
			err := cmd.Run()
			Expect(err).ToNot(HaveOccurred())

			Expect(stderr.String()).To(BeEmpty())
			Expect(stdout.String()).To(Equal(filepath.Join(toolsDir, "cargo") + "\tcargo 1.80.0 (e2e)\n"))
		})
	})

	When("the toolchain path is configured", func() {
		BeforeEach(func() {
			cfg.Set(filepath.Join(toolsDir, "cargo"), "toolchain", "path")

			cmd = fcmd.NewQemuRunner(binPath, stdout, stderr, cfg.Path())
			cmd.Args = append(cmd.Args, "toolchain", "--path")
		})

		It("should use the configured toolchain", func() {
			err := cmd.Run()
			Expect(err).ToNot(HaveOccurred())

			Expect(stdout.String()).To(Equal(filepath.Join(toolsDir, "cargo") + "\n"))
		})
	})

	When("the configured toolchain does not identify as cargo", func() {
		BeforeEach(func() {
			cmd = fcmd.NewQemuRunner(binPath, stdout, stderr, cfg.Path())
			cmd.Env = append(cmd.Env,
				"QEMURUNNER_TOOLCHAIN_PATH="+filepath.Join(toolsDir, "rustc"),
				"PATH=/nonexistent",
				"HOME=/nonexistent",
			)
			cmd.Args = append(cmd.Args, "toolchain")
		})

		It("should ask for the toolchain to be installed", func() {
			err := cmd.Run()
			Expect(err).To(MatchError("exit status 1"))

			Expect(stdout.String()).To(BeEmpty())
			Expect(stderr).To(SatisfyAll(
				ContainSubstring("toolchain not found"),
				ContainSubstring("rustup"),
			))
		})
	})
})
