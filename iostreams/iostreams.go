// SPDX-License-Identifier: MIT
//
// Copyright (c) 2019 GitHub Inc.
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

package iostreams

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// IOStreams bundles the standard streams of the program together with what is
// known about the terminal they are attached to.
type IOStreams struct {
	In     io.ReadCloser
	Out    io.Writer
	ErrOut io.Writer

	colorEnabled bool
	stdoutTTY    bool
	stderrTTY    bool
}

// System returns the IOStreams of the running process.
func System() *IOStreams {
	stdoutTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	stderrTTY := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

	io := &IOStreams{
		In:        os.Stdin,
		Out:       colorable.NewColorable(os.Stdout),
		ErrOut:    colorable.NewColorable(os.Stderr),
		stdoutTTY: stdoutTTY,
		stderrTTY: stderrTTY,
	}

	io.colorEnabled = EnvColorForced() || (!EnvColorDisabled() && stdoutTTY)

	return io
}

// Test returns IOStreams backed by the provided writers, as used in tests.
func Test(in io.ReadCloser, out, errOut io.Writer) *IOStreams {
	return &IOStreams{
		In:     in,
		Out:    out,
		ErrOut: errOut,
	}
}

func (s *IOStreams) IsStdoutTTY() bool {
	return s.stdoutTTY
}

func (s *IOStreams) IsStderrTTY() bool {
	return s.stderrTTY
}

func (s *IOStreams) SetStdoutTTY(isTTY bool) {
	s.stdoutTTY = isTTY
}

func (s *IOStreams) ColorEnabled() bool {
	return s.colorEnabled
}

func (s *IOStreams) SetColorEnabled(enabled bool) {
	s.colorEnabled = enabled
}

func (s *IOStreams) ColorScheme() *ColorScheme {
	return NewColorScheme(s.colorEnabled)
}
