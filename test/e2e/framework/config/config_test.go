// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package config_test

import (
	"os"

	. "github.com/onsi/ginkgo/v2" //nolint:stylecheck
	. "github.com/onsi/gomega"    //nolint:stylecheck

	fcfg "qemurunner.sh/test/e2e/framework/config"
)

var _ = Describe("Config", func() {
	var cfg *fcfg.Config

	BeforeEach(func() {
		/*
			Generates

			  log:
			    type: basic
		*/
		cfg = fcfg.NewTempConfig()
	})

	When("the default configuration is untouched", func() {
		It("contains valid YAML with the log type", func() {
			raw, err := os.ReadFile(cfg.Path())
			Expect(err).ToNot(HaveOccurred())
			Expect(string(raw)).To(Equal("log:\n    type: basic\n"))
		})

		Specify("its attributes and values can be read", func() {
			Expect(cfg.Read("log", "type")).To(Equal("basic"))
			Expect(cfg.Read("log", "level")).To(BeEmpty())
			Expect(cfg.Read("log")).To(BeEmpty())
		})
	})

	When("configuration values are written to the file", func() {
		BeforeEach(func() {
			/*
				Generates

				  log:
				    type: basic
				    level: debug
				  toolchain:
				    path: /opt/cargo/bin/cargo
			*/
			cfg.Set("debug", "log", "level")
			cfg.Set("/opt/cargo/bin/cargo", "toolchain", "path")
		})

		It("contains the expected YAML document", func() {
			raw, err := os.ReadFile(cfg.Path())
			Expect(err).ToNot(HaveOccurred())
			Expect(string(raw)).To(SatisfyAll(
				MatchRegexp(`type: basic\n    level: debug`),
				MatchRegexp(`\ntoolchain:\n    path: /opt/cargo/bin/cargo`),
			))
		})

		It("reads back the written values", func() {
			Expect(cfg.Read("log", "level")).To(Equal("debug"))
			Expect(cfg.Read("toolchain", "path")).To(Equal("/opt/cargo/bin/cargo"))
		})
	})
})
