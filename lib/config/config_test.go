// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.ServiceURL != "https://smelt.suse.de" {
		t.Errorf("ServiceURL = %q, want https://smelt.suse.de", cfg.ServiceURL)
	}
	if len(cfg.Routes) != 1 || cfg.Routes[0] != "testing" {
		t.Errorf("Routes = %v, want [testing]", cfg.Routes)
	}
	if !slices.Contains(cfg.UnsupportedHosts, "bugzilla.gnome.org") {
		t.Error("bugzilla.gnome.org should be unsupported by default")
	}
	if !slices.Contains(cfg.TokenHosts, "bugzilla.suse.com") {
		t.Error("bugzilla.suse.com should require a token by default")
	}
	if slices.Contains(cfg.TokenHosts, "bugzilla.redhat.com") {
		t.Error("bugzilla.redhat.com should not require a token")
	}
}

func TestLoadFileOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "smeltme.yaml")
	content := `
service_url: https://smelt.example.com
routes:
  - testing
  - tested_ready
unsupported_hosts:
  - bugzilla.gnome.org
  - bugzilla.broken.example
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.ServiceURL != "https://smelt.example.com" {
		t.Errorf("ServiceURL = %q, want override", cfg.ServiceURL)
	}
	if len(cfg.Routes) != 2 {
		t.Errorf("Routes = %v, want two routes", cfg.Routes)
	}
	// Untouched fields keep their defaults.
	if cfg.JiraURL != "https://jira.suse.com" {
		t.Errorf("JiraURL = %q, want default", cfg.JiraURL)
	}
	if !slices.Contains(cfg.UnsupportedHosts, "bugzilla.broken.example") {
		t.Error("override should add bugzilla.broken.example to the denylist")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/smeltme.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadReadsTokensFromEnvironment(t *testing.T) {
	t.Setenv("SMELTME_CONFIG", "")
	t.Setenv("BUGZILLA_TOKEN", "bz-secret")
	t.Setenv("JIRA_TOKEN", "jira-secret")
	t.Setenv("DEBUG", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BugzillaToken != "bz-secret" {
		t.Errorf("BugzillaToken = %q, want bz-secret", cfg.BugzillaToken)
	}
	if cfg.JiraToken != "jira-secret" {
		t.Errorf("JiraToken = %q, want jira-secret", cfg.JiraToken)
	}
	if !cfg.Debug {
		t.Error("DEBUG env should enable Debug")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty service_url", "service_url: \"\"\n"},
		{"empty routes", "routes: []\n"},
		{"empty submission_routes", "submission_routes: []\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(test.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Errorf("expected validation error for %s", test.name)
			}
		})
	}
}
