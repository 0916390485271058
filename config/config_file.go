// SPDX-License-Identifier: MIT
//
// Copyright (c) 2019 GitHub Inc.
//               2022 Unikraft GmbH.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/mitchellh/go-homedir"
)

const (
	QEMURUNNER_CONFIG_DIR = "QEMURUNNER_CONFIG_DIR"
	XDG_CONFIG_HOME       = "XDG_CONFIG_HOME"
	APP_DATA              = "AppData"
)

// Config path precedence
// 1. QEMURUNNER_CONFIG_DIR
// 2. XDG_CONFIG_HOME
// 3. AppData (windows only)
// 4. HOME
func ConfigDir() string {
	if a := os.Getenv(QEMURUNNER_CONFIG_DIR); a != "" {
		return a
	} else if b := os.Getenv(XDG_CONFIG_HOME); b != "" {
		return filepath.Join(b, "qemu-runner")
	} else if c := os.Getenv(APP_DATA); runtime.GOOS == "windows" && c != "" {
		return filepath.Join(c, "QemuRunner")
	}

	d, _ := homedir.Dir()
	return filepath.Join(d, ".config", "qemu-runner")
}

// DefaultConfigFile is the location of the configuration file read when no
// other is specified.
func DefaultConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func fileExists(path string) bool {
	f, err := os.Stat(path)
	return err == nil && !f.IsDir()
}

// pathError rewrites errors from creating the configuration directory so that
// a regular file sitting in place of a directory is reported by name.
func pathError(err error) error {
	var pathError *os.PathError
	if errors.As(err, &pathError) && errors.Is(pathError.Err, syscall.ENOTDIR) {
		if p := findRegularFile(pathError.Path); p != "" {
			return fmt.Errorf("remove or rename regular file `%s` (must be a directory)", p)
		}
	}

	return err
}

func findRegularFile(p string) string {
	for {
		if s, err := os.Stat(p); err == nil && s.Mode().IsRegular() {
			return p
		}

		newPath := filepath.Dir(p)
		if newPath == p || newPath == "/" || newPath == "." {
			break
		}

		p = newPath
	}

	return ""
}
