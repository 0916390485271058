// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package toolchain

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"qemurunner.sh/cmdfactory"
	"qemurunner.sh/internal/cli/qemurunner/utils"
	"qemurunner.sh/iostreams"
)

type ToolchainOptions struct {
	Path bool `long:"path" short:"p" usage:"Only print the path of the toolchain"`
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&ToolchainOptions{}, cobra.Command{
		Short: "Show the cross-compilation toolchain in use",
		Use:   "toolchain [FLAGS]",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`
			Locate the cargo toolchain the way the build does: the configured
			toolchain path first, then cargo on the PATH and finally
			~/.cargo/bin/cargo.
		`),
		Example: heredoc.Doc(`
			# Show the toolchain and its version
			$ qemu-runner toolchain
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

func (opts *ToolchainOptions) Run(ctx context.Context, _ []string) error {
	locator := utils.NewLocator(ctx)

	path, err := locator.Locate(ctx)
	if err != nil {
		return err
	}

	if opts.Path {
		fmt.Fprintln(iostreams.G(ctx).Out, path)
		return nil
	}

	version, err := locator.Version(ctx, path)
	if err != nil {
		return err
	}

	fmt.Fprintf(iostreams.G(ctx).Out, "%s\t%s\n", path, version)

	return nil
}
