// SPDX-License-Identifier: MIT
// Copyright (c) 2019 GitHub Inc.
// Copyright (c) 2022 Unikraft GmbH.
package cmdfactory

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// AnnotationHelpGroup names the group a subcommand is listed under in the
// usage of its parent.
const AnnotationHelpGroup = "help:group"

// helpGroups returns the visible subcommands of command grouped by their
// help group, together with the group names in order of appearance.
func helpGroups(command *cobra.Command) ([]string, map[string][]*cobra.Command) {
	var order []string
	groups := map[string][]*cobra.Command{}

	for _, c := range command.Commands() {
		if c.Hidden || !c.IsAvailableCommand() {
			continue
		}

		group := c.Annotations[AnnotationHelpGroup]
		if _, ok := groups[group]; !ok {
			order = append(order, group)
		}
		groups[group] = append(groups[group], c)
	}

	return order, groups
}

func rootUsageFunc(command *cobra.Command) error {
	command.Printf("Usage:  %s", command.UseLine())

	if command.HasAvailableSubCommands() {
		order, groups := helpGroups(command)
		for _, group := range order {
			title := "Available commands"
			if len(group) > 0 {
				title = strings.ToUpper(group) + " COMMANDS"
			}

			command.Printf("\n\n%s:\n", title)
			for _, c := range groups[group] {
				command.Printf("  %-12s %s\n", c.Name(), c.Short)
			}
		}

		return nil
	}

	flagUsages := command.LocalFlags().FlagUsagesWrapped(80)
	if flagUsages != "" {
		command.Println("\n\nFlags:")
		command.Print(indent(dedent(flagUsages), "  "))
	}

	return nil
}

func rootFlagErrorFunc(_ *cobra.Command, err error) error {
	if err == pflag.ErrHelp {
		return err
	}
	return FlagErrorWrap(err)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

func dedent(s string) string {
	lines := strings.Split(s, "\n")
	minIndent := -1

	for _, l := range lines {
		if len(l) == 0 {
			continue
		}

		indent := len(l) - len(strings.TrimLeft(l, " "))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}

	if minIndent <= 0 {
		return s
	}

	var buf bytes.Buffer
	for _, l := range lines {
		fmt.Fprintln(&buf, strings.TrimPrefix(l, strings.Repeat(" ", minIndent)))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
