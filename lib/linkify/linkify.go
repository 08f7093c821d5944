// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

// Package linkify turns recognized text patterns (bug IDs, CVE IDs,
// incident IDs) into terminal hyperlinks.
//
// A Rule pairs a match pattern with an extract pattern and a URL prefix:
// "bsc#1234" matches the Bugzilla rule, "1234" is extracted, and the
// target becomes "https://bugzilla.suse.com/show_bug.cgi?id=1234". Apply
// wraps every match in an OSC 8 hyperlink escape, which modern terminal
// emulators render as clickable text.
//
// The built-in rules cover the SUSE maintenance workflow (CVE, Bugzilla,
// Jira, incident, progress.opensuse.org). Additional rules can be loaded
// from a JSONC file and are merged over the built-ins by name.
package linkify

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/charmbracelet/x/ansi"
)

// Rule recognizes one class of token and maps it to a URL.
type Rule struct {
	// Name identifies the rule; a loaded rule replaces a built-in with
	// the same name.
	Name string

	// Match recognizes whole tokens (e.g. `\bbsc#[0-9]+\b`).
	Match *regexp.Regexp

	// Extract pulls the URL fragment out of a matched token (e.g.
	// `[0-9]+`). When nil, the whole match is used.
	Extract *regexp.Regexp

	// Target is the URL prefix the extracted fragment is appended to.
	Target string
}

// URLFor returns the target URL for a matched token.
func (rule *Rule) URLFor(token string) string {
	fragment := token
	if rule.Extract != nil {
		if found := rule.Extract.FindString(token); found != "" {
			fragment = found
		}
	}
	return rule.Target + fragment
}

// DefaultRules returns the built-in rule set, ordered by name.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:    "bugzilla",
			Match:   regexp.MustCompile(`\b(bsc|bnc|boo)#[0-9]+\b`),
			Extract: regexp.MustCompile(`[0-9]+`),
			Target:  "https://bugzilla.suse.com/show_bug.cgi?id=",
		},
		{
			Name:    "cve",
			Match:   regexp.MustCompile(`\bCVE-[0-9]+-[0-9]+\b`),
			Extract: regexp.MustCompile(`[0-9]+-[0-9]+`),
			Target:  "https://cve.mitre.org/cgi-bin/cvename.cgi?name=",
		},
		{
			Name:    "incident",
			Match:   regexp.MustCompile(`\bS(USE)?:M(aintenance)?:[0-9]+:[0-9]+\b`),
			Extract: regexp.MustCompile(`[0-9]+`),
			Target:  "https://smelt.suse.de/incident/",
		},
		{
			Name:    "jira",
			Match:   regexp.MustCompile(`\bjsc#[A-Z]+-[0-9]+\b`),
			Extract: regexp.MustCompile(`[A-Z]+-[0-9]+`),
			Target:  "https://jira.suse.com/browse/",
		},
		{
			Name:    "progress",
			Match:   regexp.MustCompile(`\bpoo#[0-9]+\b`),
			Extract: regexp.MustCompile(`[0-9]+`),
			Target:  "https://progress.opensuse.org/issues/",
		},
	}
}

// Linkifier applies a rule set to text.
type Linkifier struct {
	rules []Rule
}

// New creates a Linkifier from the given rules.
func New(rules []Rule) *Linkifier {
	return &Linkifier{rules: rules}
}

// Merge overlays extra rules on base: a rule with a known name replaces
// the base rule, a new name is appended. The result is ordered by name so
// rule precedence is deterministic.
func Merge(base, extra []Rule) []Rule {
	byName := make(map[string]Rule, len(base)+len(extra))
	for _, rule := range base {
		byName[rule.Name] = rule
	}
	for _, rule := range extra {
		byName[rule.Name] = rule
	}

	merged := make([]Rule, 0, len(byName))
	for _, rule := range byName {
		merged = append(merged, rule)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Name < merged[j].Name })
	return merged
}

// Apply wraps every recognized token in text in an OSC 8 hyperlink.
// Unrecognized text passes through unchanged.
func (l *Linkifier) Apply(text string) string {
	for i := range l.rules {
		rule := &l.rules[i]
		text = rule.Match.ReplaceAllStringFunc(text, func(token string) string {
			return ansi.SetHyperlink(rule.URLFor(token)) + token + ansi.ResetHyperlink()
		})
	}
	return text
}

// URLFor returns the target URL for a single token, or an error when no
// rule matches it completely.
func (l *Linkifier) URLFor(token string) (string, error) {
	for i := range l.rules {
		rule := &l.rules[i]
		if match := rule.Match.FindString(token); match == token {
			return rule.URLFor(token), nil
		}
	}
	return "", fmt.Errorf("no rule matches %q", token)
}
