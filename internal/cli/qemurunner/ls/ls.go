// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package ls

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"qemurunner.sh/cmdfactory"
	"qemurunner.sh/discovery"
	"qemurunner.sh/internal/cli/qemurunner/utils"
	"qemurunner.sh/iostreams"
)

type LsOptions struct {
	Filter string `long:"filter" short:"F" usage:"Only list the tests whose name matches the glob pattern"`
	Long   bool   `long:"long" short:"l" usage:"Show the source file of each test"`
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&LsOptions{}, cobra.Command{
		Short:   "List the tests of a project",
		Use:     "ls [FLAGS] [DIR]",
		Aliases: []string{"list"},
		Args:    cmdfactory.MaxDirArgs(1),
		Long: heredoc.Doc(`
			List the tests discovered in the examples/ directory of the project, in
			the order they are built.
		`),
		Example: heredoc.Doc(`
			# List the tests of the project in the working directory
			$ qemu-runner ls

			# List the blink tests with their sources
			$ qemu-runner ls --long --filter 'test_blink*' path/to/project
		`),
		Annotations: map[string]string{
			cmdfactory.AnnotationHelpGroup: "project",
		},
	})
	if err != nil {
		panic(err)
	}

	return cmd
}

func (opts *LsOptions) Run(ctx context.Context, args []string) error {
	project, err := utils.ProjectDir(args)
	if err != nil {
		return err
	}

	files, err := discovery.Discover(ctx, project, discovery.WithFilter(opts.Filter))
	if err != nil {
		return err
	}

	out := iostreams.G(ctx).Out
	for _, file := range files {
		if opts.Long {
			fmt.Fprintf(out, "%s\t%s\n", file.TestName(), file.Path)
		} else {
			fmt.Fprintln(out, file.TestName())
		}
	}

	return nil
}
