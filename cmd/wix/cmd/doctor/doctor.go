// Copyright (c) .NET Foundation and contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wixtoolset/wix-sub033/pkg/builtincommand"
	"github.com/wixtoolset/wix-sub033/pkg/toolset"
)

func Cmd() *cobra.Command {
	var dirs []string

	cmd := &cobra.Command{
		Use:   string(builtincommand.Doctor),
		Short: "check for the external tools builds rely on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			locator := toolset.NewLocator(toolset.DefaultTools, dirs...)
			if err := locator.Init(); err != nil {
				return err
			}
			out, err := Report(locator)
			if err != nil {
				return err
			}
			cmd.Println(out)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&dirs, "tools-dir", nil, "extra directory to search before PATH, repeatable")
	return cmd
}

// Report renders one row per tool with the path it was found at.
func Report(locator *toolset.Locator) (string, error) {
	found, names, err := locator.Tools()
	if err != nil {
		return "", err
	}

	var rows [][]string
	for _, name := range names {
		path := found[name]
		status := color.GreenString("ok")
		if path == "" {
			status = color.YellowString("missing")
			path = lipgloss.NewStyle().Faint(true).Render("not found")
		}
		rows = append(rows, []string{name, status, path})
	}

	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Rows(rows...).
		String(), nil
}
