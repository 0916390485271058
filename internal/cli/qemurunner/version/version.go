// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package version

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"qemurunner.sh/cmdfactory"
	"qemurunner.sh/internal/version"
	"qemurunner.sh/iostreams"
	"qemurunner.sh/toolchain"
)

type VersionOptions struct{}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&VersionOptions{}, cobra.Command{
		Short:   "Show qemu-runner version information",
		Use:     "version",
		Aliases: []string{"v"},
		Args:    cobra.NoArgs,
		Long:    "Show qemu-runner version information.",
		Example: heredoc.Doc(`
			# Show qemu-runner version information
			$ qemu-runner version
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

func (opts *VersionOptions) Run(ctx context.Context, _ []string) error {
	fmt.Fprintf(iostreams.G(ctx).Out, "qemu-runner %s", version.String(toolchain.ContractVersion))
	return nil
}
