// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

package incidentui

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles for the incident browser.
type Theme struct {
	Selected  lipgloss.Style
	Normal    lipgloss.Style
	Label     lipgloss.Style
	Title     lipgloss.Style
	StatusBar lipgloss.Style
}

// DefaultTheme returns the standard 256-color theme.
func DefaultTheme() Theme {
	return Theme{
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("24")),
		Normal:    lipgloss.NewStyle(),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Title:     lipgloss.NewStyle().Faint(true),
		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}
