// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package crossbuild

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"qemurunner.sh/cmdfactory"
	"qemurunner.sh/config"
	"qemurunner.sh/crossbuild"
	"qemurunner.sh/internal/cli/qemurunner/utils"
	"qemurunner.sh/log"
	"qemurunner.sh/pipeline"
)

type CrossbuildOptions struct {
	Filter  string   `long:"filter" short:"F" usage:"Only build the tests whose name matches the glob pattern"`
	Objects []string `long:"object" short:"O" usage:"Extra object to record for the link stage (repeatable)"`
	Output  string   `long:"output" short:"o" usage:"Write the cross-build manifest to the YAML file"`
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&CrossbuildOptions{}, cobra.Command{
		Short: "Cross-compile the tests of a project into static libraries",
		Use:   "crossbuild [FLAGS] [DIR]",
		Args:  cmdfactory.MaxDirArgs(1),
		Long: heredoc.Doc(`
			Cross-compile every examples/test_*.rs of the project with cargo, leaving
			one static library per test in target/<arch>/debug/examples/.

			The resulting manifest can be saved with --output and linked later with
			the link subcommand.
		`),
		Example: heredoc.Doc(`
			# Cross-compile the tests of the project in the working directory
			$ qemu-runner crossbuild --output crossbuild.yaml

			# Cross-compile for another architecture
			$ qemu-runner crossbuild --arch thumbv7m-none-eabi path/to/project
		`),
		Annotations: map[string]string{
			cmdfactory.AnnotationHelpGroup: "build",
		},
	})
	if err != nil {
		panic(err)
	}

	return cmd
}

func (opts *CrossbuildOptions) Run(ctx context.Context, args []string) error {
	policy, err := pipeline.PolicyFromString(config.G(ctx).Policy)
	if err != nil {
		return cmdfactory.FlagErrorWrap(err)
	}

	bopts, err := utils.BuildOptions(ctx, args)
	if err != nil {
		return err
	}

	stage, err := crossbuild.New(
		crossbuild.WithLocator(utils.NewLocator(ctx)),
		crossbuild.WithFilter(opts.Filter),
		crossbuild.WithObjectPaths(opts.Objects...),
		crossbuild.WithKeepGoing(policy == pipeline.CollectAll),
	)
	if err != nil {
		return err
	}

	cb, runErr := stage.Run(ctx, bopts)
	if cb == nil {
		return runErr
	}

	if len(opts.Output) > 0 {
		if err := cb.WriteToFile(opts.Output); err != nil {
			return fmt.Errorf("could not save cross-build manifest: %w", err)
		}
	}

	log.G(ctx).WithFields(logrus.Fields{
		"tests":   len(cb.Tests),
		"failed":  len(cb.Failures),
		"library": cb.LibraryPath,
	}).Info("cross-build complete")

	return runErr
}
