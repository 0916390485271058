// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package version holds the build information stamped in at link time.
package version

import (
	"fmt"
	"runtime"
)

var (
	version   = "No version provided"
	commit    = "No commit provided"
	buildTime = "No build timestamp provided"
)

// Version returns the release of qemu-runner.
func Version() string {
	return version
}

// Commit returns the Git commit SHA qemu-runner was built from.
func Commit() string {
	return commit
}

// BuildTime returns the time in which the package or binary was built.
func BuildTime() string {
	return buildTime
}

// String returns all version information, including the Go runtime and the
// revision of the toolchain contract.
func String(contract int) string {
	return fmt.Sprintf("%s (%s) %s %s contract/v%d\n",
		version,
		commit,
		runtime.Version(),
		buildTime,
		contract,
	)
}
