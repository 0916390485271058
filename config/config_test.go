// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	c, err := NewDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "fail-fast", c.Policy)
	assert.Equal(t, "thumbv7em-none-eabihf", c.Toolchain.Arch)
	assert.Empty(t, c.Toolchain.Path)
	assert.Equal(t, "make", c.Link.Make)
	assert.Equal(t, -1, c.Link.Jobs)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "fancy", c.Log.Type)
	assert.False(t, c.Log.Timestamps)
}

func TestDefaultLookup(t *testing.T) {
	assert.Equal(t, "fancy", Default("log.type"))
	assert.Equal(t, "fail-fast", Default("policy"))
	assert.Equal(t, "", Default("toolchain.path"))
	assert.Equal(t, "", Default("does.not.exist"))
}

func TestValueLookup(t *testing.T) {
	c, err := NewDefaultConfig()
	require.NoError(t, err)

	c.Link.Jobs = 4

	v, ok := Value(c, "link.jobs")
	assert.True(t, ok)
	assert.Equal(t, "4", v)

	v, ok = Value(c, "toolchain.arch")
	assert.True(t, ok)
	assert.Equal(t, "thumbv7em-none-eabihf", v)

	_, ok = Value(c, "toolchain")
	assert.False(t, ok)

	_, ok = Value(c, "policy.nested")
	assert.False(t, ok)
}

func TestAllowedValues(t *testing.T) {
	assert.Equal(t, []string{"fail-fast", "collect-all"}, AllowedValues("policy"))
	assert.Empty(t, AllowedValues("toolchain.arch"))
}

func TestConfigManagerFeedsYaml(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("toolchain:\n  path: /opt/cargo/bin/cargo\nlink:\n  jobs: 4\n"), 0o600))

	cm, err := NewConfigManager(WithFile(file, false))
	require.NoError(t, err)

	assert.Equal(t, file, cm.ConfigFile)
	assert.Equal(t, "/opt/cargo/bin/cargo", cm.Config.Toolchain.Path)
	assert.Equal(t, 4, cm.Config.Link.Jobs)

	// Untouched attributes retain their defaults.
	assert.Equal(t, "make", cm.Config.Link.Make)
	assert.Equal(t, "thumbv7em-none-eabihf", cm.Config.Toolchain.Arch)
}

func TestConfigManagerMissingFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cm, err := NewConfigManager(WithFile(file, false))
	require.NoError(t, err)
	assert.Empty(t, cm.Feeders)
	assert.NoFileExists(t, file)

	cm, err = NewConfigManager(WithFile(file, true))
	require.NoError(t, err)
	assert.Len(t, cm.Feeders, 1)
	assert.FileExists(t, file)
}

func TestConfigManagerRejectsExtension(t *testing.T) {
	_, err := NewConfigManager(WithFile(filepath.Join(t.TempDir(), "config.toml"), true))
	assert.Error(t, err)

	_, err = NewConfigManager(WithFile(filepath.Join(t.TempDir(), "config"), true))
	assert.Error(t, err)
}

func TestYamlFeederWriteMergeRetainsUnknownKeys(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("extra: kept\nlog:\n  level: debug\n  colour: auto\n"), 0o600))

	c, err := NewDefaultConfig()
	require.NoError(t, err)
	c.Log.Level = "trace"

	require.NoError(t, YamlFeeder{File: file}.Write(c, true))

	reloaded := &Config{}
	require.NoError(t, YamlFeeder{File: file}.Feed(reloaded))
	assert.Equal(t, "trace", reloaded.Log.Level)

	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "extra: kept")
	assert.Contains(t, string(raw), "colour: auto")
}

func TestConfigDirPrecedence(t *testing.T) {
	t.Setenv(QEMURUNNER_CONFIG_DIR, "/etc/qemu-runner")
	t.Setenv(XDG_CONFIG_HOME, "/xdg")
	assert.Equal(t, "/etc/qemu-runner", ConfigDir())
	assert.Equal(t, filepath.Join("/etc/qemu-runner", "config.yaml"), DefaultConfigFile())

	t.Setenv(QEMURUNNER_CONFIG_DIR, "")
	assert.Equal(t, filepath.Join("/xdg", "qemu-runner"), ConfigDir())
}

func TestContextFallsBackToDefaults(t *testing.T) {
	assert.Equal(t, "fail-fast", G(context.Background()).Policy)

	cm, err := NewConfigManager()
	require.NoError(t, err)
	cm.Config.Policy = "collect-all"

	ctx := WithConfigManager(context.Background(), cm)
	assert.Equal(t, "collect-all", G(ctx).Policy)
	assert.Equal(t, cm, M(ctx))
	assert.Nil(t, M(context.Background()))
}
