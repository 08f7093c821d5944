// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

package linkify

import (
	"strings"
	"testing"
)

func TestURLForToken(t *testing.T) {
	linkifier := New(DefaultRules())

	tests := []struct {
		token string
		want  string
	}{
		{"bsc#1234", "https://bugzilla.suse.com/show_bug.cgi?id=1234"},
		{"bnc#99", "https://bugzilla.suse.com/show_bug.cgi?id=99"},
		{"CVE-2024-1234", "https://cve.mitre.org/cgi-bin/cvename.cgi?name=2024-1234"},
		{"jsc#PED-123", "https://jira.suse.com/browse/PED-123"},
		{"S:M:12345:67890", "https://smelt.suse.de/incident/12345"},
		{"SUSE:Maintenance:12345:67890", "https://smelt.suse.de/incident/12345"},
		{"poo#555", "https://progress.opensuse.org/issues/555"},
	}
	for _, test := range tests {
		got, err := linkifier.URLFor(test.token)
		if err != nil {
			t.Errorf("URLFor(%q): %v", test.token, err)
			continue
		}
		if got != test.want {
			t.Errorf("URLFor(%q) = %q, want %q", test.token, got, test.want)
		}
	}

	if _, err := linkifier.URLFor("not-a-token"); err == nil {
		t.Error("expected error for unrecognized token")
	}
}

func TestApplyWrapsMatchesInHyperlinks(t *testing.T) {
	linkifier := New(DefaultRules())

	out := linkifier.Apply("fixes bsc#1234 and CVE-2024-5678")
	if !strings.Contains(out, "\x1b]8;;https://bugzilla.suse.com/show_bug.cgi?id=1234") {
		t.Errorf("output missing bugzilla hyperlink: %q", out)
	}
	if !strings.Contains(out, "bsc#1234") {
		t.Errorf("visible token must be preserved: %q", out)
	}
	if !strings.Contains(out, "https://cve.mitre.org/cgi-bin/cvename.cgi?name=2024-5678") {
		t.Errorf("output missing CVE hyperlink: %q", out)
	}
}

func TestApplyLeavesPlainTextAlone(t *testing.T) {
	linkifier := New(DefaultRules())
	in := "nothing to see here"
	if out := linkifier.Apply(in); out != in {
		t.Errorf("Apply(%q) = %q, want unchanged", in, out)
	}
}

func TestParseRules(t *testing.T) {
	data := []byte(`{
		// team-specific tracker
		"rules": [
			{
				"name": "gitea",
				"match": "\\bgt#[0-9]+\\b",
				"extract": "[0-9]+",
				"target": "https://gitea.example.com/issues/",
			},
		],
	}`)

	rules, err := ParseRules(data)
	if err != nil {
		t.Fatalf("ParseRules: %v", err)
	}
	if len(rules) != 1 || rules[0].Name != "gitea" {
		t.Fatalf("rules = %+v, want the gitea rule", rules)
	}

	linkifier := New(Merge(DefaultRules(), rules))
	got, err := linkifier.URLFor("gt#42")
	if err != nil {
		t.Fatalf("URLFor: %v", err)
	}
	if got != "https://gitea.example.com/issues/42" {
		t.Errorf("URLFor(gt#42) = %q", got)
	}
}

func TestParseRulesRejectsBadPattern(t *testing.T) {
	if _, err := ParseRules([]byte(`{"rules": [{"name": "bad", "match": "[", "target": "x"}]}`)); err == nil {
		t.Error("expected error for invalid regexp")
	}
}

func TestMergeReplacesByName(t *testing.T) {
	base := DefaultRules()
	override, err := ParseRules([]byte(`{"rules": [{"name": "bugzilla", "match": "\\bbsc#[0-9]+\\b", "extract": "[0-9]+", "target": "https://bz.internal/"}]}`))
	if err != nil {
		t.Fatal(err)
	}

	merged := Merge(base, override)
	if len(merged) != len(base) {
		t.Errorf("merged %d rules, want %d (replacement, not append)", len(merged), len(base))
	}

	got, err := New(merged).URLFor("bsc#7")
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://bz.internal/7" {
		t.Errorf("URLFor(bsc#7) = %q, want override target", got)
	}
}
