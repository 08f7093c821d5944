// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

package linkify

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/tidwall/jsonc"
)

// ruleFile is the on-disk rule format: JSONC (JSON with // comments and
// trailing commas), a list of rule objects.
type ruleFile struct {
	Rules []ruleSpec `json:"rules"`
}

type ruleSpec struct {
	Name    string `json:"name"`
	Match   string `json:"match"`
	Extract string `json:"extract"`
	Target  string `json:"target"`
}

// LoadRules reads additional rules from a JSONC file. The returned rules
// are meant to be merged over DefaultRules with Merge.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules parses JSONC rule data.
func ParseRules(data []byte) ([]Rule, error) {
	var file ruleFile
	if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}

	rules := make([]Rule, 0, len(file.Rules))
	for _, spec := range file.Rules {
		if spec.Name == "" {
			return nil, fmt.Errorf("rule without a name")
		}
		if spec.Match == "" || spec.Target == "" {
			return nil, fmt.Errorf("rule %s: match and target are required", spec.Name)
		}

		match, err := regexp.Compile(spec.Match)
		if err != nil {
			return nil, fmt.Errorf("rule %s: match pattern: %w", spec.Name, err)
		}

		var extract *regexp.Regexp
		if spec.Extract != "" {
			extract, err = regexp.Compile(spec.Extract)
			if err != nil {
				return nil, fmt.Errorf("rule %s: extract pattern: %w", spec.Name, err)
			}
		}

		rules = append(rules, Rule{
			Name:    spec.Name,
			Match:   match,
			Extract: extract,
			Target:  spec.Target,
		})
	}
	return rules, nil
}
