// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// NewCrossBuildFromFile reads a CrossBuild manifest previously saved with
// WriteToFile.
func NewCrossBuildFromFile(path string) (*CrossBuild, error) {
	m := &CrossBuild{}
	if err := readFile(path, m); err != nil {
		return nil, err
	}

	if len(m.LibraryPath) == 0 {
		return nil, fmt.Errorf("manifest does not specify a library path: %s", path)
	}

	return m, nil
}

// NewLinkFromFile reads a Link manifest previously saved with WriteToFile.
func NewLinkFromFile(path string) (*Link, error) {
	m := &Link{}
	if err := readFile(path, m); err != nil {
		return nil, err
	}

	return m, nil
}

// WriteToFile saves the manifest as a YAML format file at the given path
func (m CrossBuild) WriteToFile(path string) error {
	return writeFile(path, m)
}

// WriteToFile saves the manifest as a YAML format file at the given path
func (m Link) WriteToFile(path string) error {
	return writeFile(path, m)
}

func checkExt(path string) error {
	if ext := filepath.Ext(path); ext != ".yml" && ext != ".yaml" {
		return fmt.Errorf("unsupported manifest extension for path: %s", path)
	}

	return nil
}

func readFile(path string, into interface{}) error {
	if err := checkExt(path); err != nil {
		return err
	}

	f, err := os.Stat(path)
	if err != nil {
		return err
	} else if f.Size() == 0 {
		return fmt.Errorf("manifest path is empty: %s", path)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read file: %w", err)
	}

	if err := yaml.Unmarshal(contents, into); err != nil {
		return fmt.Errorf("could not decode manifest: %w", err)
	}

	return nil
}

func writeFile(path string, m interface{}) error {
	if err := checkExt(path); err != nil {
		return err
	}

	contents, err := yaml.Marshal(m)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, contents, 0o644)
}
