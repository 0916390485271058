// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package pipeline

import (
	"fmt"
	"strings"
)

// Policy decides what happens to the remaining tests once one has failed.
type Policy string

const (
	// FailFast aborts the run on the first failure.
	FailFast = Policy("fail-fast")

	// CollectAll keeps building the remaining tests and reports every
	// failure at the end of the run.
	CollectAll = Policy("collect-all")
)

// Policies returns every supported policy.
func Policies() []Policy {
	return []Policy{FailFast, CollectAll}
}

func (p Policy) String() string {
	return string(p)
}

// PolicyFromString parses a policy by its name.  An empty name is FailFast.
func PolicyFromString(name string) (Policy, error) {
	if len(name) == 0 {
		return FailFast, nil
	}

	for _, p := range Policies() {
		if strings.EqualFold(name, p.String()) {
			return p, nil
		}
	}

	return "", fmt.Errorf("unknown policy %q: expected one of %s, %s", name, FailFast, CollectAll)
}
