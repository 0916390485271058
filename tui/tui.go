// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package tui holds the terminal styles shared by command output.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	TextTitle = lipgloss.NewStyle().
			Bold(true).
			Render

	TextRed = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Render

	TextGreen = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Render

	TextYellow = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Render

	TextLightGray = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Render
)
