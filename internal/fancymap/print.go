// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file expect in compliance with the License.

// Package fancymap prints a titled tree of key-value entries, as used for the
// summary of a run.
package fancymap

import (
	"fmt"
	"io"
	"strings"

	"qemurunner.sh/tui"
)

// FancyMapEntry represents one item in the fancy list.  A failed entry has
// its value highlighted.
type FancyMapEntry struct {
	Key    string
	Value  string
	Right  string
	Failed bool
}

// PrintFancyMap writes the title, marked by the overall success state, followed
// by one aligned line per entry.
func PrintFancyMap(w io.Writer, title string, success bool, entries ...FancyMapEntry) {
	keyPad, valPad := 0, 0

	for _, entry := range entries {
		keyPad = max(keyPad, len(entry.Key)+1)
		valPad = max(valPad, len(entry.Value))
	}

	marker := tui.TextGreen("●")
	if !success {
		marker = tui.TextRed("●")
	}

	fmt.Fprintf(w, "\n%s%s%s %s\n", tui.TextLightGray("["), marker, tui.TextLightGray("]"), title)

	if len(entries) == 0 {
		fmt.Fprintf(w, " %s %s\n\n", tui.TextLightGray("└"), tui.TextLightGray("(none)"))
		return
	}

	fmt.Fprintf(w, " %s\n", tui.TextLightGray("│"))

	for i, entry := range entries {
		anchor := "├"
		if i == len(entries)-1 {
			anchor = "└"
		}

		value := entry.Value
		if entry.Failed {
			value = tui.TextRed(value)
		}

		fmt.Fprintf(w, " %s %s: %s",
			tui.TextLightGray(anchor+strings.Repeat("─", keyPad-len(entry.Key))),
			tui.TextLightGray(entry.Key),
			value,
		)

		if len(entry.Right) > 0 {
			fmt.Fprintf(w, "%s %s", strings.Repeat(" ", valPad-len(entry.Value)), entry.Right)
		}

		fmt.Fprint(w, "\n")
	}

	fmt.Fprint(w, "\n")
}
