// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	gomegafmt "github.com/onsi/gomega/format"
)

// NewQemuRunner returns a qemu-runner OS command, running the binary at bin,
// that uses the given IO streams and reads its configuration from the
// directory of cfgPath.  Additional directories in path are searched for
// executables before the ones of the current process.
func NewQemuRunner(bin string, stdout, stderr *IOStream, cfgPath string, path ...string) *Cmd {
	cmd := exec.Command(bin)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Env = os.Environ()

	if cfgPath != "" {
		cmd.Env = append(cmd.Env, "QEMURUNNER_CONFIG_DIR="+filepath.Dir(cfgPath))
	}

	if len(path) > 0 {
		path = append(path, os.Getenv("PATH"))
		cmd.Env = append(cmd.Env, "PATH="+strings.Join(path, string(os.PathListSeparator)))
	}

	return &Cmd{Cmd: cmd}
}

// Cmd is a wrapper around exec.Cmd with sensible handling of stderr in error
// reports.
type Cmd struct {
	*exec.Cmd
}

// Run runs the command, and automatically injects the output to stderr in the
// returned ExitError, in case such an error occurs.  The stderr stream is left
// untouched so it can still be asserted on.
func (c *Cmd) Run() error {
	err := c.Cmd.Run()
	if err == nil {
		return nil
	}

	ee := &exec.ExitError{}
	if !errors.As(err, &ee) {
		return err
	}

	if s, ok := c.Cmd.Stderr.(fmt.Stringer); ok {
		ee.Stderr = []byte(s.String())
	}

	return &ExitError{ExitError: ee}
}

// IOStream represents an IO stream to be used by OS commands and suitable
// for assertions and reporting in tests.
type IOStream struct {
	b *bytes.Buffer
}

var (
	_ io.ReadWriter            = (*IOStream)(nil)
	_ fmt.Stringer             = (*IOStream)(nil)
	_ gomegafmt.GomegaStringer = (*IOStream)(nil)
)

// NewIOStream returns an initialized IOStream.
func NewIOStream() *IOStream {
	return &IOStream{
		b: &bytes.Buffer{},
	}
}

func (s *IOStream) Read(p []byte) (n int, err error) {
	return s.b.Read(p)
}

func (s *IOStream) Write(p []byte) (n int, err error) {
	return s.b.Write(p)
}

func (s *IOStream) String() string {
	return s.b.String()
}

func (s *IOStream) GomegaString() string {
	return s.String()
}

// ExitError is a wrapper around exec.ExitError that can be pretty-printed
// through a gomega matcher.
type ExitError struct {
	*exec.ExitError
}

var (
	_ error                    = (*ExitError)(nil)
	_ gomegafmt.GomegaStringer = (*ExitError)(nil)
)

func (e *ExitError) GomegaString() string {
	if len(e.ExitError.Stderr) > 0 {
		return string(e.ExitError.Stderr)
	}
	return ""
}
