// SPDX-License-Identifier: BSD-3-Clause
//
// Authors: Alexander Jung <alex@unikraft.io>
//
// Copyright (c) 2022, Unikraft GmbH.  All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the names of its
//    contributors may be used to endorse or promote products derived from
//    this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package make

import (
	"fmt"
	"sort"

	"qemurunner.sh/exec"
)

// MakeOptions represents the command-line arguments which can be passed to
// the invocation of GNU Make.
type MakeOptions struct {
	alwaysMake bool   `flag:"-B"`
	directory  string `flag:"-C"`
	jobs       *int   `flag:"-j,omitvalueif=0"`
	silent     bool   `flag:"-s"`

	bin     string
	targets []string
	vars    map[string]string
	env     map[string]string
	eopts   []exec.ExecOption
	runner  exec.Runner
}

type MakeOption func(mo *MakeOptions) error

// NewMakeOptions renders the provided options into a *MakeOptions structure.
func NewMakeOptions(mopts ...MakeOption) (*MakeOptions, error) {
	mo := &MakeOptions{}

	for _, o := range mopts {
		if err := o(mo); err != nil {
			return nil, fmt.Errorf("could not apply option: %v", err)
		}
	}

	return mo, nil
}

// Vars returns serialized slice of Make variables which are passed as arguments
// to make along with all CLI flags.  Variables are sorted by name so the
// command line is stable between invocations.
func (mo *MakeOptions) Vars() []string {
	keys := make([]string, 0, len(mo.vars))
	for k := range mo.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	vars := make([]string, 0, len(keys)+len(mo.targets))
	for _, k := range keys {
		vars = append(vars, k+"="+mo.vars[k])
	}

	return append(vars, mo.targets...)
}

// Env returns the environment exported to the make process, sorted by name.
func (mo *MakeOptions) Env() [][2]string {
	keys := make([]string, 0, len(mo.env))
	for k := range mo.env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([][2]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, [2]string{k, mo.env[k]})
	}

	return env
}

// Unconditionally make all targets.  Equivalent to calling the flags
// -B|--always-make
func WithAlwaysMake(alwaysMake bool) MakeOption {
	return func(mo *MakeOptions) error {
		mo.alwaysMake = alwaysMake
		return nil
	}
}

// Change to Directory before doing anything.  Equivalent to calling the flags
// -C|--directory
func WithDirectory(dir string) MakeOption {
	return func(mo *MakeOptions) error {
		mo.directory = dir
		return nil
	}
}

// Allow N jobs at once; infinite jobs with no arg.  Equivalent to calling the
// flags -j|--jobs.  A value below zero leaves the flag unset.
func WithJobs(jobs int) MakeOption {
	return func(mo *MakeOptions) error {
		if jobs < 0 {
			mo.jobs = nil
			return nil
		}

		mo.jobs = &jobs
		return nil
	}
}

// Don't echo recipes.  Equivalent to calling the flags -s|--silent|--quiet
func WithSilent(silent bool) MakeOption {
	return func(mo *MakeOptions) error {
		mo.silent = silent
		return nil
	}
}

// WithVar sets a variable and its value on make's command line.
func WithVar(key, val string) MakeOption {
	return func(mo *MakeOptions) error {
		if mo.vars == nil {
			mo.vars = make(map[string]string)
		}

		mo.vars[key] = val

		return nil
	}
}

// WithEnv exports an environment variable to the make process.
func WithEnv(key, val string) MakeOption {
	return func(mo *MakeOptions) error {
		if len(key) == 0 {
			return fmt.Errorf("environment key cannot be empty")
		}

		if mo.env == nil {
			mo.env = make(map[string]string)
		}

		mo.env[key] = val

		return nil
	}
}

// The targets to make (omittion will invoke the default goal).
func WithTarget(target ...string) MakeOption {
	return func(mo *MakeOptions) error {
		mo.targets = append(mo.targets, target...)
		return nil
	}
}

// WithExecOptions offers configuration options to the underlying process
// executor
func WithExecOptions(eopts ...exec.ExecOption) MakeOption {
	return func(mo *MakeOptions) error {
		mo.eopts = append(mo.eopts, eopts...)
		return nil
	}
}

// WithBinPath sets an alternative path to the GNU Make binary executable
func WithBinPath(path string) MakeOption {
	return func(mo *MakeOptions) error {
		mo.bin = path
		return nil
	}
}

// WithRunner sets the runner used to execute the make process.
func WithRunner(runner exec.Runner) MakeOption {
	return func(mo *MakeOptions) error {
		mo.runner = runner
		return nil
	}
}
