// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

//go:build !windows

package exec

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostRunnerCapturesOutputAndEnv(t *testing.T) {
	dir := t.TempDir()
	var stdout bytes.Buffer

	process, err := NewProcess("sh", []string{"-c", `printf "%s:%s" "$GREETING" "$(basename "$PWD")"`},
		WithEnvKey("GREETING", "hello"),
		WithWorkdir(dir),
		WithStdout(&stdout),
	)
	require.NoError(t, err)

	assert.Equal(t, dir, process.Dir())
	assert.Equal(t, []string{"GREETING=hello"}, process.Env())

	result, err := HostRunner{}.Run(context.Background(), process)
	require.NoError(t, err)
	assert.True(t, result.Success())

	assert.Equal(t, "hello:"+filepath.Base(dir), stdout.String())
}

func TestHostRunnerReportsExitCode(t *testing.T) {
	var exitCode int

	process, err := NewProcess("sh", []string{"-c", "exit 3"},
		WithOnExitCallback(func(code int) { exitCode = code }),
	)
	require.NoError(t, err)

	result, err := HostRunner{}.Run(context.Background(), process)
	require.Error(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 3, result.ExitCode)
	assert.False(t, result.Success())
	assert.Equal(t, 3, exitCode)
}

func TestHostRunnerMissingBinary(t *testing.T) {
	process, err := NewProcess(filepath.Join(t.TempDir(), "missing"), nil)
	require.NoError(t, err)

	result, err := HostRunner{}.Run(context.Background(), process)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, -1, process.ExitCode())
}

func TestProcessStderrFallsBackToStdout(t *testing.T) {
	process, err := NewProcess("true", nil, WithStdout(os.Stdout))
	require.NoError(t, err)

	assert.Equal(t, os.Stdout, process.Stderr())
	assert.Equal(t, "true", process.Cmdline())
}
