// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

package incidentui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smeltme-project/smeltme/lib/smelt"
)

func testIncidents() []smelt.Incident {
	return []smelt.Incident{
		{
			RequestID:   100,
			Incident:    smelt.Meta{Project: "SUSE:Maintenance:1"},
			Packages:    []string{"zlib"},
			Codestreams: []string{"SUSE:SLE-15-SP4:Update"},
			References:  []smelt.Reference{{Name: "1200000", URL: "https://bugzilla.suse.com/show_bug.cgi?id=1200000"}},
		},
		{
			RequestID: 101,
			Incident:  smelt.Meta{Project: "SUSE:Maintenance:2"},
			Packages:  []string{"curl"},
		},
		{
			RequestID: 102,
			Incident:  smelt.Meta{Project: "SUSE:Maintenance:3"},
			Packages:  []string{"openssl"},
		},
	}
}

func keyPress(m Model, k string) Model {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestCursorMovement(t *testing.T) {
	m := New(testIncidents(), nil)
	if got := m.Selected().RequestID; got != 100 {
		t.Fatalf("initial selection: got %d, want 100", got)
	}

	m = keyPress(m, "j")
	if got := m.Selected().RequestID; got != 101 {
		t.Errorf("after j: got %d, want 101", got)
	}

	m = keyPress(m, "k")
	if got := m.Selected().RequestID; got != 100 {
		t.Errorf("after k: got %d, want 100", got)
	}

	// Cursor must not move past either end.
	m = keyPress(m, "k")
	if got := m.Selected().RequestID; got != 100 {
		t.Errorf("k at top: got %d, want 100", got)
	}
	m = keyPress(keyPress(keyPress(keyPress(m, "j"), "j"), "j"), "j")
	if got := m.Selected().RequestID; got != 102 {
		t.Errorf("j past bottom: got %d, want 102", got)
	}
}

func TestTopAndBottom(t *testing.T) {
	m := New(testIncidents(), nil)
	m = keyPress(m, "G")
	if got := m.Selected().RequestID; got != 102 {
		t.Errorf("after G: got %d, want 102", got)
	}
	m = keyPress(m, "g")
	if got := m.Selected().RequestID; got != 100 {
		t.Errorf("after g: got %d, want 100", got)
	}
}

func TestQuit(t *testing.T) {
	m := New(testIncidents(), nil)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q produced no command, want tea.Quit")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("q command: got %T, want tea.QuitMsg", msg)
	}
	if view := updated.(Model).View(); view != "" {
		t.Errorf("view after quit: got %q, want empty", view)
	}
}

func TestTitlesArriveAsynchronously(t *testing.T) {
	const url = "https://bugzilla.suse.com/show_bug.cgi?id=1200000"
	m := New(testIncidents(), func() map[string]string {
		return map[string]string{url: "zlib: heap overflow"}
	})

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init returned nil command with resolver set")
	}
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "zlib: heap overflow") {
		t.Errorf("view missing resolved title:\n%s", view)
	}
	if strings.Contains(view, "resolving titles") {
		t.Errorf("status still shows resolving after titles arrived:\n%s", view)
	}
}

func TestNoResolver(t *testing.T) {
	m := New(testIncidents(), nil)
	if cmd := m.Init(); cmd != nil {
		t.Error("Init returned a command without a resolver")
	}
	if strings.Contains(m.View(), "resolving titles") {
		t.Error("status shows resolving without a resolver")
	}
}

func TestEmptyList(t *testing.T) {
	m := New(nil, nil)
	if m.Selected() != nil {
		t.Error("Selected on empty list, want nil")
	}
	m = keyPress(m, "j")
	view := m.View()
	if !strings.Contains(view, "0/0") {
		t.Errorf("empty list status: got %q, want to contain 0/0", view)
	}
}

func TestWindowResizeScrollsCursorIntoView(t *testing.T) {
	incidents := make([]smelt.Incident, 50)
	for i := range incidents {
		incidents[i] = smelt.Incident{RequestID: i, Incident: smelt.Meta{Project: "SUSE:Maintenance:1"}}
	}
	m := New(incidents, nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m = updated.(Model)

	m = keyPress(m, "G")
	if m.offset == 0 {
		t.Error("offset not advanced after jumping to bottom of a long list")
	}
	if m.cursor < m.offset || m.cursor >= m.offset+m.listHeight() {
		t.Errorf("cursor %d outside visible window [%d, %d)", m.cursor, m.offset, m.offset+m.listHeight())
	}
}
