// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package qemurunner

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/MakeNowJust/heredoc"
	"github.com/rancher/wrangler/pkg/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"qemurunner.sh/cmdfactory"
	"qemurunner.sh/config"
	"qemurunner.sh/internal/cli"
	kitversion "qemurunner.sh/internal/version"
	"qemurunner.sh/iostreams"
	"qemurunner.sh/log"

	"qemurunner.sh/internal/cli/qemurunner/build"
	cfgcmd "qemurunner.sh/internal/cli/qemurunner/config"
	"qemurunner.sh/internal/cli/qemurunner/crossbuild"
	"qemurunner.sh/internal/cli/qemurunner/link"
	"qemurunner.sh/internal/cli/qemurunner/ls"
	"qemurunner.sh/internal/cli/qemurunner/toolchain"
	"qemurunner.sh/internal/cli/qemurunner/version"
)

type QemuRunnerOptions struct{}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&QemuRunnerOptions{}, cobra.Command{
		Short: "Cross-compile and link embedded test images for emulation",
		Use:   "qemu-runner [FLAGS] SUBCOMMAND",
		Long: heredoc.Docf(`
			Cross-compile the test programs of a project and link each of them with the
			shared runtime into an image ready to be run under emulation.

			Version: %s`, kitversion.Version()),
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	})
	if err != nil {
		panic(err)
	}

	cmd.AddCommand(build.NewCmd())
	cmd.AddCommand(crossbuild.NewCmd())
	cmd.AddCommand(link.NewCmd())

	cmd.AddCommand(ls.NewCmd())
	cmd.AddCommand(toolchain.NewCmd())

	cmd.AddCommand(cfgcmd.NewCmd())
	cmd.AddCommand(version.NewCmd())

	return cmd
}

// PersistentPre validates the global flags once they are parsed and replaces
// the logger with one honouring them.
func (opts *QemuRunnerOptions) PersistentPre(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.G(ctx)

	for key, value := range map[string]string{
		"policy":    cfg.Policy,
		"log.type":  cfg.Log.Type,
		"log.level": cfg.Log.Level,
	} {
		if allowed := config.AllowedValues(key); len(allowed) > 0 && !slices.Contains(allowed, value) {
			return cmdfactory.FlagErrorf("invalid %s '%s': expected one of %v", key, value, allowed)
		}
	}

	cmd.SetContext(log.WithLogger(ctx, cli.NewLogger(cfg, iostreams.G(ctx).ErrOut)))

	log.G(cmd.Context()).Debugf("qemu-runner %s", kitversion.Version())

	return nil
}

func (opts *QemuRunnerOptions) Run(_ context.Context, _ []string) error {
	return pflag.ErrHelp
}

// Execute runs the command tree with args against the provided context,
// returning the exit code.
func Execute(ctx context.Context, cmd *cobra.Command, args []string, copts ...cli.CliOption) int {
	opts := &cli.CliOptions{}

	for _, o := range copts {
		if err := o(opts); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if opts.ConfigManager != nil {
		ctx = config.WithConfigManager(ctx, opts.ConfigManager)
	}

	if opts.Logger != nil {
		ctx = log.WithLogger(ctx, opts.Logger)
	}

	if opts.IOStreams != nil {
		ctx = iostreams.WithIOStreams(ctx, opts.IOStreams)
		cmd.SetOut(opts.IOStreams.Out)
		cmd.SetErr(opts.IOStreams.ErrOut)
	}

	cmd.SetArgs(args)

	return cmdfactory.Main(ctx, cmd)
}

func Main(args []string) int {
	cmd := NewCmd()

	return Execute(signals.SetupSignalContext(), cmd, args,
		cli.WithDefaultConfigManager(cmd),
		cli.WithDefaultIOStreams(),
		cli.WithDefaultLogger(),
	)
}
