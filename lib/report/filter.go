// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/smeltme-project/smeltme/lib/smelt"
)

// Matcher tests package names against a user-supplied pattern. Three
// pattern forms are supported:
//
//   - regular expression, when the regex option is set
//   - shell glob, when the pattern contains *, ? or [ metacharacters
//   - literal name match otherwise
type Matcher struct {
	literal    string
	glob       string
	regex      *regexp.Regexp
	ignoreCase bool
}

// NewMatcher compiles a package-name pattern.
func NewMatcher(pattern string, regex, ignoreCase bool) (*Matcher, error) {
	matcher := &Matcher{ignoreCase: ignoreCase}

	switch {
	case regex:
		if ignoreCase {
			pattern = "(?i)" + pattern
		}
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("package pattern: %w", err)
		}
		matcher.regex = compiled
	case strings.ContainsAny(pattern, "*?["):
		if ignoreCase {
			pattern = strings.ToLower(pattern)
		}
		// Validate the glob up front; path.Match only errors on bad
		// patterns, never on inputs.
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("package pattern: %w", err)
		}
		matcher.glob = pattern
	default:
		matcher.literal = pattern
	}
	return matcher, nil
}

// Match reports whether a single package name matches the pattern.
func (matcher *Matcher) Match(name string) bool {
	switch {
	case matcher.regex != nil:
		return matcher.regex.MatchString(name)
	case matcher.glob != "":
		if matcher.ignoreCase {
			name = strings.ToLower(name)
		}
		ok, _ := path.Match(matcher.glob, name)
		return ok
	case matcher.ignoreCase:
		return strings.EqualFold(matcher.literal, name)
	default:
		return matcher.literal == name
	}
}

// Filter returns the incidents with at least one matching package. A nil
// matcher keeps everything.
func Filter(incidents []smelt.Incident, matcher *Matcher) []smelt.Incident {
	if matcher == nil {
		return incidents
	}
	var kept []smelt.Incident
	for i := range incidents {
		for _, name := range incidents[i].Packages {
			if matcher.Match(name) {
				kept = append(kept, incidents[i])
				break
			}
		}
	}
	return kept
}
