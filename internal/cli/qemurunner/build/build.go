// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package build

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"qemurunner.sh/cmdfactory"
	"qemurunner.sh/config"
	"qemurunner.sh/internal/cli/qemurunner/utils"
	"qemurunner.sh/log"
	"qemurunner.sh/pipeline"
)

type BuildOptions struct {
	Filter  string   `long:"filter" short:"F" usage:"Only build the tests whose name matches the glob pattern"`
	Objects []string `long:"object" short:"O" usage:"Extra object to link into every image (repeatable)"`
	Output  string   `long:"output" short:"o" usage:"Write the link manifest to the YAML file"`
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&BuildOptions{}, cobra.Command{
		Short: "Cross-compile and link every test of a project",
		Use:   "build [FLAGS] [DIR]",
		Args:  cmdfactory.MaxDirArgs(1),
		Long: heredoc.Doc(`
			Cross-compile every examples/test_*.rs of the project with cargo and link
			each resulting static library with the recipe in gcc/ into an image
			gcc/build/stm32_<test>.elf.

			Tests are built one at a time in name order.  With the fail-fast policy
			the first failure stops the run, with collect-all every test is attempted
			and all failures are reported at the end.
		`),
		Example: heredoc.Doc(`
			# Build and link every test of the project in the working directory
			$ qemu-runner build

			# Build the blink tests of another project and keep going on failure
			$ qemu-runner build --policy collect-all --filter 'test_blink*' path/to/project

			# Record the produced images
			$ qemu-runner build --output images.yaml
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

func (opts *BuildOptions) Run(ctx context.Context, args []string) error {
	cfg := config.G(ctx)

	policy, err := pipeline.PolicyFromString(cfg.Policy)
	if err != nil {
		return cmdfactory.FlagErrorWrap(err)
	}

	bopts, err := utils.BuildOptions(ctx, args)
	if err != nil {
		return err
	}

	p, err := pipeline.New(
		pipeline.WithLocator(utils.NewLocator(ctx)),
		pipeline.WithPolicy(policy),
		pipeline.WithFilter(opts.Filter),
		pipeline.WithObjectPaths(opts.Objects...),
		pipeline.WithMake(cfg.Link.Make, cfg.Link.Jobs),
		pipeline.WithAlwaysMake(cfg.Link.AlwaysMake),
		pipeline.WithTransitionCallback(func(from, to pipeline.State) {
			log.G(ctx).
				WithField("from", from.String()).
				WithField("to", to.String()).
				Debug("pipeline transition")
		}),
	)
	if err != nil {
		return err
	}

	lm, runErr := p.Run(ctx, bopts)
	if lm == nil {
		return runErr
	}

	if len(opts.Output) > 0 {
		if err := lm.WriteToFile(opts.Output); err != nil {
			return fmt.Errorf("could not save link manifest: %w", err)
		}
	}

	utils.PrintLink(ctx, lm, runErr == nil)

	return runErr
}
