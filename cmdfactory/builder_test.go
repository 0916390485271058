// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Acorn Labs, Inc; All rights reserved.
// Copyright 2022 Unikraft GmbH; All rights reserved.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
package cmdfactory

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nested struct {
	Arch string `long:"arch" short:"m" usage:"Target architecture" default:"thumbv7em-none-eabihf"`
}

type SampleOptions struct {
	Filter    string   `long:"filter" usage:"Only select matching tests"`
	Jobs      int      `long:"jobs" short:"j" default:"2"`
	NoColor   bool     `env:"SAMPLE_NO_COLOR"`
	Objects   []string `long:"object"`
	Internal  string   `noattribute:"true"`
	Toolchain nested

	ran  bool
	args []string
}

func (opts *SampleOptions) Run(_ context.Context, args []string) error {
	opts.ran = true
	opts.args = args
	return nil
}

func newSample(t *testing.T, opts *SampleOptions) *cobra.Command {
	t.Helper()

	cmd, err := New(opts, cobra.Command{
		Use:  "sample [DIR]",
		Args: MaxDirArgs(1),
	})
	require.NoError(t, err)

	return cmd
}

func TestNewRegistersTaggedFlags(t *testing.T) {
	cmd := newSample(t, &SampleOptions{})

	for _, name := range []string{"filter", "jobs", "no-color", "object", "arch"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}

	assert.Nil(t, cmd.PersistentFlags().Lookup("internal"))
	assert.Equal(t, "m", cmd.PersistentFlags().Lookup("arch").Shorthand)
}

func TestNewAppliesDefaultsAndArgs(t *testing.T) {
	opts := &SampleOptions{}
	cmd := newSample(t, opts)

	dir := t.TempDir()
	cmd.SetArgs([]string{"--filter", "test_b*", "--object", "a.o,b.o", dir})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.True(t, opts.ran)
	assert.Equal(t, []string{dir}, opts.args)
	assert.Equal(t, "test_b*", opts.Filter)
	assert.Equal(t, 2, opts.Jobs)
	assert.Equal(t, "thumbv7em-none-eabihf", opts.Toolchain.Arch)
	assert.Equal(t, []string{"a.o", "b.o"}, opts.Objects)
}

func TestAttributeFlagsKeepsSeededValues(t *testing.T) {
	opts := &SampleOptions{Jobs: 8}
	opts.Toolchain.Arch = "riscv32imac-unknown-none-elf"

	cmd := newSample(t, opts)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Equal(t, 8, opts.Jobs)
	assert.Equal(t, "riscv32imac-unknown-none-elf", opts.Toolchain.Arch)
	assert.False(t, cmd.PersistentFlags().Lookup("jobs").Changed)
}

func TestAttributeFlagsEnvironmentOverride(t *testing.T) {
	t.Setenv("SAMPLE_NO_COLOR", "true")

	opts := &SampleOptions{}
	cmd := newSample(t, opts)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.True(t, opts.NoColor)
}

func TestMaxDirArgs(t *testing.T) {
	check := MaxDirArgs(1)

	assert.NoError(t, check(nil, nil))
	assert.NoError(t, check(nil, []string{t.TempDir()}))

	err := check(nil, []string{t.TempDir(), t.TempDir()})
	assert.True(t, IsFlagError(err))

	err = check(nil, []string{"/does/not/exist"})
	assert.True(t, IsFlagError(err))
}

func TestName(t *testing.T) {
	assert.Equal(t, "sample", Name(&SampleOptions{}))
	assert.Equal(t, "no-color", func() string { n, _ := name("NoColor", "", ""); return n }())
}

func TestUsageListsHelpGroups(t *testing.T) {
	root, err := New(&SampleOptions{}, cobra.Command{Use: "root"})
	require.NoError(t, err)

	child := newSample(t, &SampleOptions{})
	child.Short = "Build a sample"
	child.Annotations = map[string]string{AnnotationHelpGroup: "build"}
	root.AddCommand(child)

	var buf bytes.Buffer
	root.SetOut(&buf)
	require.NoError(t, root.Usage())

	assert.Contains(t, buf.String(), "BUILD COMMANDS:")
	assert.Contains(t, buf.String(), "Build a sample")
}
