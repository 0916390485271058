// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package link

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"qemurunner.sh/cmdfactory"
	"qemurunner.sh/config"
	"qemurunner.sh/internal/cli/qemurunner/utils"
	"qemurunner.sh/link"
	"qemurunner.sh/manifest"
	"qemurunner.sh/pipeline"
)

type LinkOptions struct {
	Manifest string `long:"manifest" short:"M" usage:"Cross-build manifest to link the tests of"`
	Output   string `long:"output" short:"o" usage:"Write the link manifest to the YAML file"`
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&LinkOptions{}, cobra.Command{
		Short: "Link previously cross-built tests into images",
		Use:   "link [FLAGS] --manifest FILE [DIR]",
		Args:  cmdfactory.MaxDirArgs(1),
		Long: heredoc.Doc(`
			Link each test of a saved cross-build manifest with the recipe in gcc/,
			producing gcc/build/stm32_<test>.elf per test.

			The project defaults to the one recorded in the manifest.  A project given
			as DIR must be that same project.
		`),
		Example: heredoc.Doc(`
			# Link the tests cross-built earlier
			$ qemu-runner crossbuild --output crossbuild.yaml
			$ qemu-runner link --manifest crossbuild.yaml
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

func (opts *LinkOptions) Pre(cmd *cobra.Command, _ []string) error {
	if len(opts.Manifest) == 0 {
		return cmdfactory.FlagErrorf("--manifest is required")
	}

	return nil
}

func (opts *LinkOptions) Run(ctx context.Context, args []string) error {
	cfg := config.G(ctx)

	policy, err := pipeline.PolicyFromString(cfg.Policy)
	if err != nil {
		return cmdfactory.FlagErrorWrap(err)
	}

	cb, err := manifest.NewCrossBuildFromFile(opts.Manifest)
	if err != nil {
		return err
	}

	bopts := manifest.BuildOptions{
		Project: cb.Project,
		Arch:    cb.Arch,
	}

	if len(args) > 0 {
		if bopts.Project, err = utils.ProjectDir(args); err != nil {
			return err
		}
	}

	if len(bopts.Arch) == 0 {
		bopts.Arch = cfg.Toolchain.Arch
	}

	stage, err := link.New(
		link.WithMake(cfg.Link.Make),
		link.WithJobs(cfg.Link.Jobs),
		link.WithAlwaysMake(cfg.Link.AlwaysMake),
		link.WithKeepGoing(policy == pipeline.CollectAll),
	)
	if err != nil {
		return err
	}

	lm, runErr := stage.Run(ctx, bopts, cb)
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
