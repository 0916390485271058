// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package config

// Config holds the user-level settings of qemu-runner.  Every attribute can be
// set from the configuration file, most can be overridden by an environmental
// variable or a command-line flag.
type Config struct {
	Policy string `yaml:"policy" env:"QEMURUNNER_POLICY" long:"policy" usage:"Failure policy of a run (fail-fast, collect-all)" default:"fail-fast"`

	Toolchain struct {
		Path string `yaml:"path,omitempty" env:"QEMURUNNER_TOOLCHAIN_PATH" long:"toolchain" usage:"Explicit path to the cross-compilation driver (cargo)"`
		Arch string `yaml:"arch" env:"QEMURUNNER_ARCH" long:"arch" short:"m" usage:"Target architecture passed verbatim to the toolchain" default:"thumbv7em-none-eabihf"`
	} `yaml:"toolchain"`

	Link struct {
		Make       string `yaml:"make" env:"QEMURUNNER_MAKE" long:"make" usage:"Path to the GNU Make binary driving the link recipe" default:"make"`
		Jobs       int    `yaml:"jobs" env:"QEMURUNNER_MAKE_JOBS" long:"jobs" short:"j" usage:"Allow N make jobs at once per link" default:"-1"`
		AlwaysMake bool   `yaml:"always_make" env:"QEMURUNNER_MAKE_ALWAYS" long:"always-make" short:"B" usage:"Relink every image even when make considers it up to date"`
	} `yaml:"link"`

	Log struct {
		Level      string `yaml:"level" env:"QEMURUNNER_LOG_LEVEL" long:"log-level" usage:"Log level verbosity" default:"info"`
		Timestamps bool   `yaml:"timestamps" env:"QEMURUNNER_LOG_TIMESTAMPS" long:"log-timestamps" usage:"Enable log timestamps"`
		Type       string `yaml:"type" env:"QEMURUNNER_LOG_TYPE" long:"log-type" usage:"Log type" default:"fancy"`
	} `yaml:"log"`
}

type ConfigDetail struct {
	Key           string
	Description   string
	AllowedValues []string
}

// Descriptions of each configuration parameter as well as valid values
var configDetails = []ConfigDetail{
	{
		Key:         "policy",
		Description: "whether a failing test aborts the run or the remaining tests are still built",
		AllowedValues: []string{
			"fail-fast",
			"collect-all",
		},
	},
	{
		Key:         "toolchain.path",
		Description: "the cross-compilation driver to use instead of searching for one",
	},
	{
		Key:         "toolchain.arch",
		Description: "the target architecture identifier",
	},
	{
		Key:         "link.make",
		Description: "the make program which drives the link recipe",
	},
	{
		Key:         "link.jobs",
		Description: "the number of make jobs allowed at once per link",
	},
	{
		Key:         "link.always_make",
		Description: "whether every image is relinked even when make considers it up to date",
	},
	{
		Key:         "log.level",
		Description: "Set the logging verbosity",
		AllowedValues: []string{
			"fatal",
			"error",
			"warn",
			"info",
			"debug",
			"trace",
		},
	},
	{
		Key:         "log.type",
		Description: "Set the logging format",
		AllowedValues: []string{
			"quiet",
			"basic",
			"fancy",
			"json",
		},
	},
	{
		Key:         "log.timestamps",
		Description: "Show timestamps with log output",
	},
}

func ConfigDetails() []ConfigDetail {
	return configDetails
}

// AllowedValues returns the valid values of a configuration key, if it is
// restricted.
func AllowedValues(key string) []string {
	for _, details := range ConfigDetails() {
		if details.Key == key {
			return details.AllowedValues
		}
	}

	return []string{}
}
