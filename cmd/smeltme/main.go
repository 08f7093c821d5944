// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

// Command smeltme reports on pending maintenance incidents from a SMELT
// deployment. Without arguments it prints a table of incidents in review
// with their packages, codestreams, and tracker references; subcommands
// add an interactive browser and a stdin filter that hyperlinks tracker
// identifiers.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(); err != nil {
		// A command that already printed its own output returns an
		// ExitError with the desired exit code. Don't print a redundant
		// "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return rootCommand().Execute(os.Args[1:])
}
