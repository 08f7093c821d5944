// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

// Package incidentui is an interactive terminal browser for fetched
// incidents: a navigable list on top, a detail pane with the selected
// incident's packages, codestreams, and references below. Titles arrive
// asynchronously once resolution finishes.
package incidentui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/x/ansi"

	"github.com/smeltme-project/smeltme/lib/smelt"
)

// titlesMsg delivers resolved reference titles through the message loop.
type titlesMsg map[string]string

// listReserved is the vertical space kept for the detail pane and the
// status bar.
const listReserved = 12

// Model is the bubbletea model for the incident browser.
type Model struct {
	incidents []smelt.Incident
	titles    map[string]string
	resolve   func() map[string]string

	cursor int
	offset int // first visible list row

	detail viewport.Model
	keys   keyMap
	theme  Theme

	width     int
	height    int
	resolving bool
	quitting  bool
}

// New creates a browser over the given incidents. resolve is called once,
// asynchronously, to produce the reference-title mapping; pass nil to skip
// title resolution.
func New(incidents []smelt.Incident, resolve func() map[string]string) Model {
	model := Model{
		incidents: incidents,
		titles:    map[string]string{},
		resolve:   resolve,
		detail:    viewport.New(80, listReserved-2),
		keys:      defaultKeyMap(),
		theme:     DefaultTheme(),
		resolving: resolve != nil,
	}
	model.refreshDetail()
	return model
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.resolve == nil {
		return nil
	}
	resolve := m.resolve
	return func() tea.Msg {
		return titlesMsg(resolve())
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail.Width = msg.Width
		m.detail.Height = max(3, listReserved-2)
		m.clampCursor()

	case titlesMsg:
		m.titles = msg
		m.resolving = false
		m.refreshDetail()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
		case key.Matches(msg, m.keys.PageUp):
			m.moveCursor(-m.listHeight())
		case key.Matches(msg, m.keys.PageDown):
			m.moveCursor(m.listHeight())
		case key.Matches(msg, m.keys.Top):
			m.cursor = 0
			m.clampCursor()
			m.refreshDetail()
		case key.Matches(msg, m.keys.Bottom):
			m.cursor = len(m.incidents) - 1
			m.clampCursor()
			m.refreshDetail()
		}
	}
	return m, nil
}

// Selected returns the incident under the cursor, or nil when the list is
// empty.
func (m Model) Selected() *smelt.Incident {
	if len(m.incidents) == 0 {
		return nil
	}
	return &m.incidents[m.cursor]
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
	m.refreshDetail()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.incidents) {
		m.cursor = len(m.incidents) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	visible := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if visible > 0 && m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m Model) listHeight() int {
	height := m.height - listReserved
	if height < 1 {
		height = 10
	}
	return height
}

// refreshDetail rebuilds the detail pane for the selected incident.
func (m *Model) refreshDetail() {
	incident := m.Selected()
	if incident == nil {
		m.detail.SetContent("no incidents")
		return
	}

	var body strings.Builder
	fmt.Fprintf(&body, "%s  (%s)\n", incident.Label(), incident.Status.Name)
	fmt.Fprintf(&body, "packages:    %s\n", strings.Join(incident.Packages, ", "))
	fmt.Fprintf(&body, "codestreams: %s\n", strings.Join(incident.Codestreams, ", "))
	body.WriteString("references:\n")
	for _, url := range incident.BugRefs() {
		line := "  " + url
		if title := m.titles[url]; title != "" {
			line += "  " + m.theme.Title.Render(title)
		}
		body.WriteString(line + "\n")
	}
	m.detail.SetContent(body.String())
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var view strings.Builder

	visible := m.listHeight()
	end := min(m.offset+visible, len(m.incidents))
	for i := m.offset; i < end; i++ {
		incident := &m.incidents[i]
		pkg := ""
		if len(incident.Packages) > 0 {
			pkg = incident.Packages[0]
		}
		line := fmt.Sprintf("%-20s  %s", incident.Label(), pkg)
		if m.width > 0 {
			line = ansi.Truncate(line, m.width, "…")
		}
		if i == m.cursor {
			line = m.theme.Selected.Render(line)
		} else {
			line = m.theme.Normal.Render(line)
		}
		view.WriteString(line + "\n")
	}

	view.WriteString("\n")
	view.WriteString(m.detail.View())
	view.WriteString("\n")

	status := fmt.Sprintf("%d/%d", m.cursor+1, len(m.incidents))
	if len(m.incidents) == 0 {
		status = "0/0"
	}
	if m.resolving {
		status += "  resolving titles…"
	}
	status += "  q: quit"
	view.WriteString(m.theme.StatusBar.Render(status))

	return view.String()
}
