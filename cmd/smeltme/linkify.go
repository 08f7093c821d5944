// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/smeltme-project/smeltme/lib/cli"
	"github.com/smeltme-project/smeltme/lib/linkify"
)

// maxLineSize bounds a single input line; changelog entries are short,
// but pasted logs can carry long lines.
const maxLineSize = 1 << 20

func linkifyCommand() *cli.Command {
	var rulesPath string

	return &cli.Command{
		Name:    "linkify",
		Summary: "Wrap tracker identifiers on stdin in terminal hyperlinks",
		Description: `Reads text from stdin and writes it to stdout with every
recognized tracker identifier (bsc#, jsc#, poo#, CVE, S:M labels)
wrapped in an OSC 8 terminal hyperlink. Text without identifiers
passes through unchanged.`,
		Usage: "smeltme linkify [flags] < input",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("linkify", pflag.ContinueOnError)
			flags.StringVar(&rulesPath, "rules", "", "JSONC file with additional link rules")
			return flags
		},
		Examples: []cli.Example{
			{
				Description: "Hyperlink the references in a changelog entry",
				Command:     "osc vc -m | smeltme linkify",
			},
			{
				Description: "Add site-specific rules on top of the defaults",
				Command:     "smeltme linkify --rules ~/.config/smeltme/rules.jsonc < notes.txt",
			},
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("linkify reads from stdin and takes no arguments")
			}
			return runLinkify(os.Stdin, os.Stdout, rulesPath)
		},
	}
}

func runLinkify(in io.Reader, out io.Writer, rulesPath string) error {
	rules := linkify.DefaultRules()
	if rulesPath != "" {
		extra, err := linkify.LoadRules(rulesPath)
		if err != nil {
			return err
		}
		rules = linkify.Merge(rules, extra)
	}
	linkifier := linkify.New(rules)

	writer := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		if _, err := writer.WriteString(linkifier.Apply(scanner.Text()) + "\n"); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return writer.Flush()
}
