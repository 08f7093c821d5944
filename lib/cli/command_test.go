// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatchesSubcommand(t *testing.T) {
	var ran []string
	root := &Command{
		Name: "smeltme",
		Subcommands: []*Command{
			{
				Name: "linkify",
				Run: func(args []string) error {
					ran = append(ran, "linkify")
					return nil
				},
			},
		},
		Run: func(args []string) error {
			ran = append(ran, "root")
			return nil
		},
	}

	if err := root.Execute([]string{"linkify"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(ran) != 1 || ran[0] != "linkify" {
		t.Errorf("ran = %v, want [linkify]", ran)
	}
}

func TestExecuteRootPositionalFallsThrough(t *testing.T) {
	var got []string
	root := &Command{
		Name:        "smeltme",
		Subcommands: []*Command{{Name: "linkify", Run: func([]string) error { return nil }}},
		Run: func(args []string) error {
			got = args
			return nil
		},
	}

	// "zlib" is not a subcommand; the root treats it as a positional
	// package pattern.
	if err := root.Execute([]string{"zlib"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(got) != 1 || got[0] != "zlib" {
		t.Errorf("args = %v, want [zlib]", got)
	}
}

func TestExecuteSuggestsCommand(t *testing.T) {
	root := &Command{
		Name:        "smeltme",
		Subcommands: []*Command{{Name: "linkify"}, {Name: "browse"}},
	}

	err := root.Execute([]string{"linkfy"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `"linkify"`) {
		t.Errorf("error missing suggestion: %v", err)
	}
}

func TestExecuteSuggestsFlag(t *testing.T) {
	command := &Command{
		Name: "smeltme",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("smeltme", pflag.ContinueOnError)
			flags.Bool("verbose", false, "")
			flags.Bool("reverse", false, "")
			return flags
		},
		Run: func([]string) error { return nil },
	}

	err := command.Execute([]string{"--verbos"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "--verbose") {
		t.Errorf("error missing flag suggestion: %v", err)
	}
}

func TestPrintHelpListsSubcommands(t *testing.T) {
	root := &Command{
		Name:    "smeltme",
		Summary: "SMELT incident report",
		Subcommands: []*Command{
			{Name: "linkify", Summary: "hyperlink recognized IDs"},
		},
	}

	var out strings.Builder
	root.PrintHelp(&out)
	help := out.String()
	if !strings.Contains(help, "linkify") || !strings.Contains(help, "hyperlink recognized IDs") {
		t.Errorf("help missing subcommand listing:\n%s", help)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"linkify", "linkify", 0},
		{"linkfy", "linkify", 1},
		{"brows", "browse", 1},
		{"abc", "xyz", 3},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}
