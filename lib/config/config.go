// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for smeltme.
//
// Configuration has three layers, applied in order:
//
//  1. Compiled-in defaults (the SUSE deployment: smelt.suse.de,
//     jira.suse.com, the standard routes).
//  2. An optional YAML file named by the SMELTME_CONFIG environment
//     variable or the --config flag. There is no automatic ~/.config
//     discovery; an unset variable simply means defaults.
//  3. Credentials, which come only from the environment (BUGZILLA_TOKEN,
//     JIRA_TOKEN). Tokens never live in the config file.
//
// The DEBUG environment variable mirrors the --debug flag and enables full
// request/response dumps on stderr.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration for smeltme.
type Config struct {
	// ServiceURL is the base URL of the incident tracking service.
	ServiceURL string `yaml:"service_url"`

	// JiraURL is the base URL of the Jira deployment that jira.* reference
	// URLs belong to.
	JiraURL string `yaml:"jira_url"`

	// Routes are the overview routes fetched by default in request mode.
	Routes []string `yaml:"routes"`

	// SubmissionRoutes are the overview routes fetched in submission mode
	// (--submissions).
	SubmissionRoutes []string `yaml:"submission_routes"`

	// TokenHosts are Bugzilla hosts that refuse unauthenticated REST
	// queries. Reference groups for these hosts are skipped entirely when
	// BugzillaToken is empty; other Bugzilla hosts are queried without
	// credentials.
	TokenHosts []string `yaml:"token_hosts"`

	// UnsupportedHosts are Bugzilla hosts whose REST surface is known
	// incompatible. Reference groups for these hosts are dropped before
	// querying.
	UnsupportedHosts []string `yaml:"unsupported_hosts"`

	// SkipPackages are package names whose incidents are hidden from the
	// report (internal self-test updates).
	SkipPackages []string `yaml:"skip_packages"`

	// BugzillaToken and JiraToken are the tracker credentials. Populated
	// from the environment, never from the file.
	BugzillaToken string `yaml:"-"`
	JiraToken     string `yaml:"-"`

	// Debug enables full HTTP request/response dumps on stderr.
	Debug bool `yaml:"-"`
}

// Default returns the compiled-in configuration for the SUSE deployment.
func Default() *Config {
	return &Config{
		ServiceURL:       "https://smelt.suse.de",
		JiraURL:          "https://jira.suse.com",
		Routes:           []string{"testing"},
		SubmissionRoutes: []string{"submission_review"},
		TokenHosts:       []string{"bugzilla.suse.com", "bugzilla.opensuse.org"},
		UnsupportedHosts: []string{"bugzilla.gnome.org"},
		SkipPackages:     []string{"update-test-trivial"},
	}
}

// Load builds the configuration from defaults, the optional file named by
// SMELTME_CONFIG, and credential environment variables.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("SMELTME_CONFIG"))
}

// LoadFile is Load with an explicit file path (the --config flag). An empty
// path skips the file layer.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.BugzillaToken = os.Getenv("BUGZILLA_TOKEN")
	cfg.JiraToken = os.Getenv("JIRA_TOKEN")
	cfg.Debug = os.Getenv("DEBUG") != ""

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ServiceURL == "" {
		return fmt.Errorf("service_url is required")
	}
	if c.JiraURL == "" {
		return fmt.Errorf("jira_url is required")
	}
	if len(c.Routes) == 0 {
		return fmt.Errorf("at least one route is required")
	}
	if len(c.SubmissionRoutes) == 0 {
		return fmt.Errorf("at least one submission route is required")
	}
	return nil
}
