// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossBuildFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "crossbuild.yaml")

	m := CrossBuild{
		Project:     "/src/project",
		Arch:        "thumbv7em-none-eabihf",
		Tests:       []string{"test_blink", "test_uart"},
		LibraryPath: "/src/project/target/thumbv7em-none-eabihf/debug/examples",
		Failures: []Failure{
			{Stage: "cross-build", Test: "test_adc", Reason: "exit status 101"},
		},
	}
	require.NoError(t, m.WriteToFile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "library_path: /src/project/target/thumbv7em-none-eabihf/debug/examples")
	assert.NotContains(t, string(raw), "object_paths")

	loaded, err := NewCrossBuildFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, m, *loaded)
}

func TestCrossBuildFileRequiresLibraryPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crossbuild.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tests:\n- test_blink\n"), 0o644))

	_, err := NewCrossBuildFromFile(path)
	assert.Error(t, err)
}

func TestManifestFileErrors(t *testing.T) {
	dir := t.TempDir()

	assert.Error(t, Link{}.WriteToFile(filepath.Join(dir, "link.json")))

	_, err := NewLinkFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = NewLinkFromFile(empty)
	assert.Error(t, err)
}

func TestLinkNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "link.yml")

	m := Link{Images: []Image{
		{Name: "test_blink", Path: "/src/project/gcc/build/stm32_test_blink.elf"},
		{Name: "test_uart", Path: "/src/project/gcc/build/stm32_test_uart.elf"},
	}}
	require.NoError(t, m.WriteToFile(path))

	loaded, err := NewLinkFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"test_blink", "test_uart"}, loaded.Names())
}
