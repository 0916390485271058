// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package pipeline

import (
	"fmt"
)

// State is the phase a run is in.
type State int

const (
	Idle State = iota
	Locating
	Building
	Linking
	Success
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Locating:
		return "locating"
	case Building:
		return "building"
	case Linking:
		return "linking"
	case Success:
		return "success"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// IsTerminal reports whether no further transition leaves the state.
func (s State) IsTerminal() bool {
	return s == Success || s == Aborted
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case Idle:
		return to == Locating || to == Aborted
	case Locating:
		return to == Building || to == Aborted
	case Building:
		return to == Linking || to == Aborted
	case Linking:
		return to == Success || to == Aborted
	default:
		return false
	}
}
