// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package manifest

import (
	"fmt"
)

// BuildOptions is the input shared by every stage of a run.
type BuildOptions struct {
	// Project is the root directory of the test project.
	Project string

	// Arch is the target architecture identifier, passed verbatim to the
	// toolchain.
	Arch string
}

// Validate checks that the options can describe a run.
func (opts BuildOptions) Validate() error {
	if len(opts.Project) == 0 {
		return fmt.Errorf("project path cannot be empty")
	}

	if len(opts.Arch) == 0 {
		return fmt.Errorf("target architecture cannot be empty")
	}

	return nil
}
