// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"qemurunner.sh/cmdfactory"
	"qemurunner.sh/config"
	"qemurunner.sh/iostreams"
	"qemurunner.sh/log"
)

type ConfigOptions struct {
	Save bool `long:"save" usage:"Persist the effective configuration to the configuration file"`
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&ConfigOptions{}, cobra.Command{
		Short: "Show or save the effective configuration",
		Use:   "config [FLAGS]",
		Args:  cobra.NoArgs,
		Long: heredoc.Docf(`
			Show the effective value of each configuration key, after the
			configuration file, the environment and the command-line flags have been
			applied.

			The configuration file is read from %s.
		`, config.DefaultConfigFile()),
		Example: heredoc.Doc(`
			# Show the configuration
			$ qemu-runner config

			# Always keep going on failure from now on
			$ qemu-runner config --policy collect-all --save
		`),
		Annotations: map[string]string{
			cmdfactory.AnnotationHelpGroup: "misc",
		},
	})
	if err != nil {
		panic(err)
	}

	return cmd
}

func (opts *ConfigOptions) Run(ctx context.Context, _ []string) error {
	out := iostreams.G(ctx).Out
	cfg := config.G(ctx)

	for _, detail := range config.ConfigDetails() {
		value, ok := config.Value(cfg, detail.Key)
		if !ok {
			continue
		}

		fmt.Fprintf(out, "%s=%s", detail.Key, value)
		if len(detail.AllowedValues) > 0 {
			fmt.Fprintf(out, "\t(%s)", strings.Join(detail.AllowedValues, ", "))
		}
		fmt.Fprintln(out)
	}

	if !opts.Save {
		return nil
	}

	cfgm := config.M(ctx)
	if cfgm == nil {
		return fmt.Errorf("no configuration manager available")
	}

	if len(cfgm.Feeders) == 0 {
		cfgm.ConfigFile = config.DefaultConfigFile()
		cfgm.AddFeeder(config.YamlFeeder{File: cfgm.ConfigFile})
	}

	if err := cfgm.Write(true); err != nil {
		return fmt.Errorf("could not save configuration: %w", err)
	}

	log.G(ctx).
		WithField("file", cfgm.ConfigFile).
		Info("saved configuration")

	return nil
}
