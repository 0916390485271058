// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package utils holds the helpers shared by the qemu-runner subcommands.
package utils

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"qemurunner.sh/config"
	"qemurunner.sh/internal/fancymap"
	"qemurunner.sh/iostreams"
	"qemurunner.sh/log"
	"qemurunner.sh/manifest"
	"qemurunner.sh/toolchain"
)

// ProjectDir returns the project directory named by the positional arguments,
// defaulting to the working directory.
func ProjectDir(args []string) (string, error) {
	if len(args) > 0 && len(args[0]) > 0 {
		return args[0], nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("could not determine working directory: %w", err)
	}

	return cwd, nil
}

// BuildOptions combines the project directory with the configured target
// architecture.
func BuildOptions(ctx context.Context, args []string) (manifest.BuildOptions, error) {
	project, err := ProjectDir(args)
	if err != nil {
		return manifest.BuildOptions{}, err
	}

	return manifest.BuildOptions{
		Project: project,
		Arch:    config.G(ctx).Toolchain.Arch,
	}, nil
}

// NewLocator returns a toolchain locator which tries the configured path
// before the default candidates.
func NewLocator(ctx context.Context) *toolchain.Locator {
	return toolchain.NewLocator(
		toolchain.WithResolvers(toolchain.DefaultResolvers(config.G(ctx).Toolchain.Path)...),
	)
}

// PrintLink summarizes a link manifest.  On a terminal a fancy map is printed
// to stdout, otherwise each image and failure is logged.
func PrintLink(ctx context.Context, lm *manifest.Link, success bool) {
	if lm == nil {
		return
	}

	if !iostreams.G(ctx).IsStdoutTTY() {
		for _, image := range lm.Images {
			log.G(ctx).WithFields(logrus.Fields{
				"test": image.Name,
				"path": image.Path,
			}).Info("linked")
		}

		for _, failure := range lm.Failures {
			log.G(ctx).WithFields(logrus.Fields{
				"test":  failure.Test,
				"stage": failure.Stage,
			}).Error(failure.Reason)
		}

		return
	}

	entries := make([]fancymap.FancyMapEntry, 0, len(lm.Images)+len(lm.Failures))
	for _, image := range lm.Images {
		entry := fancymap.FancyMapEntry{
			Key:   image.Name,
			Value: image.Path,
		}

		if fi, err := os.Stat(image.Path); err == nil {
			entry.Right = fmt.Sprintf("(%s)", humanize.Bytes(uint64(fi.Size())))
		}

		entries = append(entries, entry)
	}

	for _, failure := range lm.Failures {
		entries = append(entries, fancymap.FancyMapEntry{
			Key:    failure.Test,
			Value:  failure.Reason,
			Right:  fmt.Sprintf("[%s]", failure.Stage),
			Failed: true,
		})
	}

	fancymap.PrintFancyMap(
		iostreams.G(ctx).Out,
		fmt.Sprintf("linked %d of %d images", len(lm.Images), len(lm.Images)+len(lm.Failures)),
		success,
		entries...,
	)
}
