// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file expect in compliance with the License.

// Package cli prepares the process-wide facilities every command relies on.
package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"qemurunner.sh/cmdfactory"
	"qemurunner.sh/config"
	"qemurunner.sh/iostreams"
	"qemurunner.sh/log"
)

type CliOptions struct {
	IOStreams     *iostreams.IOStreams
	Logger        *logrus.Entry
	ConfigManager *config.ConfigManager
}

type CliOption func(*CliOptions) error

// WithConfigManager sets a previously instantiated ConfigManager to be used
// as part of the CLI options.
func WithConfigManager(cfgm *config.ConfigManager) CliOption {
	return func(copts *CliOptions) error {
		copts.ConfigManager = cfgm
		return nil
	}
}

// WithDefaultConfigManager instantiates a configuration manager from the
// default configuration file and exposes every attribute as a persistent flag
// of cmd.
func WithDefaultConfigManager(cmd *cobra.Command) CliOption {
	return func(copts *CliOptions) error {
		if copts.ConfigManager == nil {
			cfgm, err := config.NewConfigManager(
				config.WithDefaultConfigFile(),
			)
			if err != nil {
				return err
			}

			copts.ConfigManager = cfgm
		}

		if err := cmdfactory.AttributeFlags(cmd, copts.ConfigManager.Config); err != nil {
			return fmt.Errorf("could not register configuration flags: %w", err)
		}

		return nil
	}
}

// WithIOStreams sets a previously instantiated iostreams.IOStreams structure
// to be used within the command.
func WithIOStreams(io *iostreams.IOStreams) CliOption {
	return func(copts *CliOptions) error {
		copts.IOStreams = io
		return nil
	}
}

// WithDefaultIOStreams attaches to the streams of the process.
func WithDefaultIOStreams() CliOption {
	return func(copts *CliOptions) error {
		if copts.IOStreams == nil {
			copts.IOStreams = iostreams.System()
		}

		return nil
	}
}

// WithDefaultLogger sets up the built in logger based on the configuration.
func WithDefaultLogger() CliOption {
	return func(copts *CliOptions) error {
		if copts.Logger != nil {
			return nil
		}

		if copts.ConfigManager == nil {
			copts.Logger = log.L
			return nil
		}

		var out io.Writer
		if copts.IOStreams != nil {
			out = copts.IOStreams.ErrOut
		}

		copts.Logger = NewLogger(copts.ConfigManager.Config, out)

		return nil
	}
}

// NewLogger returns a logger formatted and leveled as configured.  Log
// entries are written to out, or standard error if nil.
func NewLogger(cfg *config.Config, out io.Writer) *logrus.Entry {
	logger := logrus.New()

	switch log.LoggerTypeFromString(cfg.Log.Type) {
	case log.QUIET:
		logger.Formatter = new(logrus.TextFormatter)
		logger.Level = logrus.ErrorLevel

	case log.BASIC:
		formatter := new(log.TextFormatter)
		formatter.FullTimestamp = true
		formatter.DisableTimestamp = !cfg.Log.Timestamps

		logger.Formatter = formatter

	case log.FANCY:
		formatter := new(log.TextFormatter)
		formatter.ForceFormatting = true
		formatter.FullTimestamp = true
		formatter.DisableTimestamp = !cfg.Log.Timestamps

		logger.Formatter = formatter

	case log.JSON:
		formatter := new(logrus.JSONFormatter)
		formatter.DisableTimestamp = !cfg.Log.Timestamps

		logger.Formatter = formatter
	}

	if log.LoggerTypeFromString(cfg.Log.Type) != log.QUIET {
		logger.Level = log.LevelFromString(cfg.Log.Level)
	}

	if out != nil {
		logger.SetOutput(out)
	}

	return logrus.NewEntry(logger)
}
