// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type archName string

func (a archName) String() string { return string(a) }

type nestedArgs struct {
	Quiet bool `flag:"--quiet"`
}

type sampleArgs struct {
	Example  string   `flag:"--example"`
	Verbose  bool     `flag:"--verbose"`
	Silent   bool     `flag:"--silent"`
	Features []string `flag:"--features"`
	Jobs     *int     `flag:"-j,omitvalueif=0"`
	Target   archName `flag:"--target"`
	Ignored  string
	nestedArgs
}

func TestParseInterfaceArgs(t *testing.T) {
	jobs := 4

	args, err := ParseInterfaceArgs(sampleArgs{
		Example:    "test_blink",
		Verbose:    true,
		Features:   []string{"a", "", "b"},
		Jobs:       &jobs,
		Target:     "thumbv7em-none-eabihf",
		Ignored:    "nope",
		nestedArgs: nestedArgs{Quiet: true},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"--example", "test_blink",
		"--verbose",
		"--features", "a",
		"--features", "b",
		"-j", "4",
		"--target", "thumbv7em-none-eabihf",
		"--quiet",
	}, args)
}

func TestParseInterfaceArgsOmitValue(t *testing.T) {
	jobs := 0

	args, err := ParseInterfaceArgs(sampleArgs{Jobs: &jobs})
	require.NoError(t, err)

	assert.Equal(t, []string{"-j"}, args)
}

func TestParseInterfaceArgsPointerValues(t *testing.T) {
	profile := "release"
	level := uint(2)

	args, err := ParseInterfaceArgs(struct {
		Profile *string `flag:"--profile"`
		Level   *uint   `flag:"--level"`
		Color   *string `flag:"--color"`
	}{
		Profile: &profile,
		Level:   &level,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"--profile", "release", "--level", "2"}, args)
}

func TestParseInterfaceArgsRejectsUnsupportedPointer(t *testing.T) {
	locked := true

	_, err := ParseInterfaceArgs(struct {
		Locked *bool `flag:"--locked"`
	}{
		Locked: &locked,
	})
	assert.ErrorContains(t, err, "unsupported pointer to bool for flag --locked")
}

func TestParseInterfaceArgsRejectsPointer(t *testing.T) {
	_, err := ParseInterfaceArgs(&sampleArgs{})
	assert.Error(t, err)
}

func TestNewExecutable(t *testing.T) {
	_, err := NewExecutable("", nil)
	assert.Error(t, err)

	e, err := NewExecutable("cargo", sampleArgs{Example: "test_uart"}, "build")
	require.NoError(t, err)

	assert.Equal(t, "cargo", e.Bin())
	assert.Equal(t, []string{"build", "--example", "test_uart"}, e.Args())
}
