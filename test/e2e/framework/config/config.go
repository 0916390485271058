// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package config provides facilities for manipulating qemu-runner
// configuration files on the local filesystem.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/onsi/ginkgo/v2"
	"gopkg.in/yaml.v3"
)

// Config is a YAML-serializable qemu-runner configuration.
// It provides facilities for reading and writing individual configuration
// attributes from/to a file.
//
// This type is purposely decoupled from qemu-runner's internal configuration
// facilities to allow testing the CLI from an outside perspective.
type Config struct {
	path string
}

// NewTempConfig creates a temporary configuration file on the local
// filesystem, pre-populated with the basic log type so that log output can be
// asserted on.
//
// A ginkgo cleanup node is automatically created to handle the removal of the
// (temporary) parent directory of this configuration file.
func NewTempConfig() *Config {
	const offset = 1

	tmpDir, err := os.MkdirTemp("", "qemu-runner-e2e-*")
	if err != nil {
		ginkgo.Fail("Error creating temporary directory for configuration: "+err.Error(), offset)
	}
	ginkgo.DeferCleanup(
		func() error {
			return os.RemoveAll(tmpDir)
		},
		ginkgo.Offset(offset),
	)

	configDir := filepath.Join(tmpDir, "config")
	if err := os.Mkdir(configDir, 0o755); err != nil {
		ginkgo.Fail("Error creating temporary subdirectory "+configDir+": "+err.Error(), offset)
	}

	c := &Config{
		path: filepath.Join(configDir, "config.yaml"),
	}

	doc := map[string]any{
		"log": map[string]any{
			"type": "basic",
		},
	}

	raw, err := yaml.Marshal(doc)
	if err != nil {
		ginkgo.Fail("Error creating initial configuration YAML: "+err.Error(), offset)
	}

	if err := os.WriteFile(c.path, raw, 0o600); err != nil {
		ginkgo.Fail("Error creating configuration file: "+err.Error(), offset)
	}

	return c
}

// Path returns the path to the configuration file.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory holding the configuration file.
func (c *Config) Dir() string {
	return filepath.Dir(c.path)
}

// Read returns the scalar value at the given YAML path, or an empty string if
// it is not set.
func (c *Config) Read(yamlPath ...string) string {
	const offset = 1

	doc, err := c.load()
	if err != nil {
		ginkgo.Fail("Error reading configuration file: "+err.Error(), offset)
	}

	node := lookup(doc, yamlPath, false)
	if node == nil || node.Kind != yaml.ScalarNode {
		return ""
	}

	return node.Value
}

// Set writes the scalar value at the given YAML path, creating the
// intermediate mappings as needed.
func (c *Config) Set(value string, yamlPath ...string) {
	const offset = 1

	if len(yamlPath) == 0 {
		return
	}

	doc, err := c.load()
	if err != nil {
		ginkgo.Fail("Error reading configuration file: "+err.Error(), offset)
	}

	node := lookup(doc, yamlPath, true)
	node.Kind = yaml.ScalarNode
	node.Tag = ""
	node.Value = value
	node.Content = nil

	raw, err := yaml.Marshal(doc)
	if err != nil {
		ginkgo.Fail("Error serializing configuration: "+err.Error(), offset)
	}

	if err := os.WriteFile(c.path, raw, 0o600); err != nil {
		ginkgo.Fail("Error updating configuration file: "+err.Error(), offset)
	}
}

func (c *Config) load() (*yaml.Node, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}

	doc := &yaml.Node{}
	if err := yaml.Unmarshal(raw, doc); err != nil {
		return nil, err
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("configuration is not a mapping")
	}

	return doc.Content[0], nil
}

// lookup walks the mapping node along path.  With create, missing keys are
// added as empty mappings.
func lookup(node *yaml.Node, path []string, create bool) *yaml.Node {
	for _, key := range path {
		if node.Kind != yaml.MappingNode {
			if !create {
				return nil
			}
			node.Kind = yaml.MappingNode
			node.Tag = ""
			node.Value = ""
			node.Content = nil
		}

		var next *yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == key {
				next = node.Content[i+1]
				break
			}
		}

		if next == nil {
			if !create {
				return nil
			}

			next = &yaml.Node{Kind: yaml.MappingNode}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: key},
				next,
			)
		}

		node = next
	}

	return node
}
