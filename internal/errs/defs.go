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

package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrToolchainNotFound is returned when no candidate executable identifies
	// itself as the expected cross-compilation driver
	ErrToolchainNotFound = errors.New("toolchain not found")

	// ErrPathResolution is returned when a configured or derived path cannot be
	// canonicalized
	ErrPathResolution = errors.New("could not resolve path")

	// ErrSubprocess is returned when an external build invocation fails
	ErrSubprocess = errors.New("subprocess failed")

	// ErrMissingArtifact is returned when an external build reported success but
	// its expected output is absent
	ErrMissingArtifact = errors.New("missing expected artifact")
)

// IsToolchainNotFoundError returns true if the unwrapped error is
// ErrToolchainNotFound
func IsToolchainNotFoundError(err error) bool {
	return errors.Is(err, ErrToolchainNotFound)
}

// IsPathResolutionError returns true if the unwrapped error is
// ErrPathResolution
func IsPathResolutionError(err error) bool {
	return errors.Is(err, ErrPathResolution)
}

// IsSubprocessError returns true if the unwrapped error is ErrSubprocess
func IsSubprocessError(err error) bool {
	return errors.Is(err, ErrSubprocess)
}

// IsMissingArtifactError returns true if the unwrapped error is
// ErrMissingArtifact
func IsMissingArtifactError(err error) bool {
	return errors.Is(err, ErrMissingArtifact)
}

// StageError attributes a failure to a pipeline stage and, when known, the
// test being processed.
type StageError struct {
	Stage string
	Test  string
	Err   error
}

func (e *StageError) Error() string {
	if len(e.Test) == 0 {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}

	return fmt.Sprintf("%s of '%s' failed: %v", e.Stage, e.Test, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with the stage and test it occurred in.
func NewStageError(stage, test string, err error) error {
	return &StageError{Stage: stage, Test: test, Err: err}
}
