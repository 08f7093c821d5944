// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/smeltme-project/smeltme/lib/cli"
	"github.com/smeltme-project/smeltme/lib/incidentui"
	"github.com/smeltme-project/smeltme/lib/smelt"
	"github.com/smeltme-project/smeltme/lib/tracker"
)

func browseCommand() *cli.Command {
	var (
		routes      []string
		submissions bool
		configPath  string
		debug       bool
	)

	return &cli.Command{
		Name:    "browse",
		Summary: "Browse incidents interactively",
		Description: `Opens a full-screen browser over the fetched incidents. The list
shows one incident per line; the detail pane below shows the selected
incident's packages, codestreams, and references. Issue titles are
resolved in the background and appear once available.`,
		Usage: "smeltme browse [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("browse", pflag.ContinueOnError)
			flags.StringArrayVarP(&routes, "route", "R", nil, "overview route to fetch (repeatable, overrides config)")
			flags.BoolVarP(&submissions, "submissions", "S", false, "fetch the submission routes instead of the review routes")
			flags.StringVar(&configPath, "config", "", "path to a YAML configuration file")
			flags.BoolVar(&debug, "debug", false, "dump HTTP requests and responses to stderr")
			return flags
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("browse takes no arguments")
			}
			return runBrowse(routes, submissions, configPath, debug)
		},
	}
}

func runBrowse(routes []string, submissions bool, configPath string, debug bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	debug = debug || cfg.Debug
	logger := cli.NewLogger(debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	incidents, err := fetchIncidents(ctx, cfg, logger, routes, submissions, debug)
	if err != nil {
		return interrupted(ctx, err)
	}

	resolver := tracker.NewResolver(tracker.Config{
		BugzillaToken:    cfg.BugzillaToken,
		JiraToken:        cfg.JiraToken,
		JiraURL:          cfg.JiraURL,
		TokenHosts:       cfg.TokenHosts,
		UnsupportedHosts: cfg.UnsupportedHosts,
		HTTPClient:       httpClient(debug),
		Logger:           logger,
	})
	resolve := func() map[string]string {
		return resolver.Resolve(ctx, smelt.ReferenceURLs(incidents))
	}

	program := tea.NewProgram(incidentui.New(incidents, resolve), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
