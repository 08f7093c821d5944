// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

// Package tracker resolves incident reference URLs to human-readable issue
// titles by querying the trackers they point at.
//
// Resolve partitions input URLs by host: bugzilla.* hosts go to the
// Bugzilla-family client (one group per host, since each deployment is a
// separate instance), jira.* hosts to the Jira client. Everything else is
// ignored. Each remaining group is queried concurrently with batched
// lookups; the merged result maps input-equivalent canonical URLs to
// titles.
//
// Failure is never fatal here: a group with a missing credential is skipped
// silently, a failed query is logged and contributes nothing, and the
// caller always receives a (possibly empty) mapping. Rows whose URL is
// absent from the mapping are simply rendered without a title.
package tracker

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/smeltme-project/smeltme/lib/bugzilla"
	"github.com/smeltme-project/smeltme/lib/jira"
)

// Config holds configuration for creating a Resolver.
type Config struct {
	// BugzillaToken is the API key for Bugzilla hosts that require one.
	// When empty, groups for those hosts are dropped without a query;
	// hosts that allow anonymous REST queries are still resolved.
	BugzillaToken string

	// JiraToken is the bearer token for the Jira deployment. When empty,
	// the whole Jira group is dropped.
	JiraToken string

	// JiraURL is the base URL of the Jira deployment.
	JiraURL string

	// TokenHosts are Bugzilla hosts that refuse anonymous queries.
	TokenHosts []string

	// UnsupportedHosts are Bugzilla hosts with an incompatible REST
	// surface, dropped before querying.
	UnsupportedHosts []string

	// HTTPClient is used for all tracker requests. Defaults to a client
	// with the standard 15s timeout.
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger

	// BugzillaBaseURL maps a Bugzilla host to its request base URL.
	// Defaults to "https://" + host; tests point it at a local server.
	BugzillaBaseURL func(host string) string
}

// Resolver turns reference URLs into issue titles.
type Resolver struct {
	config Config
	logger *slog.Logger
}

// NewResolver creates a Resolver from the given configuration.
func NewResolver(config Config) *Resolver {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{config: config, logger: logger}
}

// group is one tracker instance with the reference URLs belonging to it.
type group struct {
	host string
	urls []string
	jira bool
}

// Resolve maps reference URLs to issue titles. The result's keys are
// always a subset of the input (canonicalized: Bugzilla URLs re-rendered
// as show_bug.cgi, Jira URLs as /browse/<key>); URLs whose tracker query
// failed, was skipped, or returned no match are absent. The input slice is
// never modified.
func (resolver *Resolver) Resolve(ctx context.Context, urls []string) map[string]string {
	groups := resolver.partition(urls)

	titles := make(map[string]string)
	if len(groups) == 0 {
		return titles
	}

	// One task per group; each sends its partial mapping (nil on failure).
	// Only this coordinating goroutine writes to titles.
	partials := make(chan map[string]string, len(groups))
	for _, g := range groups {
		g := g
		go func() {
			if g.jira {
				partials <- resolver.resolveJira(ctx, g)
			} else {
				partials <- resolver.resolveBugzilla(ctx, g)
			}
		}()
	}
	for range groups {
		for canonical, title := range <-partials {
			titles[canonical] = title
		}
	}
	return titles
}

// partition groups input URLs by tracker host and applies the denylist and
// credential gating. Only the configured Jira deployment is queried; a
// reference on any other Jira instance is ignored, since the bearer token
// and the canonical browse URL are deployment-specific. URLs matching
// neither tracker family are ignored.
func (resolver *Resolver) partition(urls []string) []group {
	bugzillas := make(map[string][]string)
	var jiraURLs []string
	jiraHost := resolver.jiraHost()

	for _, reference := range urls {
		parsed, err := url.Parse(reference)
		if err != nil {
			continue
		}
		host := parsed.Hostname()
		switch {
		case strings.HasPrefix(host, "bugzilla."):
			bugzillas[host] = append(bugzillas[host], reference)
		case jiraHost != "" && host == jiraHost:
			jiraURLs = append(jiraURLs, reference)
		}
	}

	var groups []group
	for host, hostURLs := range bugzillas {
		if resolver.unsupported(host) {
			continue
		}
		if resolver.requiresToken(host) && resolver.config.BugzillaToken == "" {
			// Missing credential: silent skip, not an error.
			continue
		}
		groups = append(groups, group{host: host, urls: hostURLs})
	}
	if len(jiraURLs) > 0 && resolver.config.JiraToken != "" {
		groups = append(groups, group{urls: jiraURLs, jira: true})
	}
	return groups
}

func (resolver *Resolver) resolveBugzilla(ctx context.Context, g group) map[string]string {
	client, err := bugzilla.NewClient(bugzilla.Config{
		Host:       g.host,
		APIKey:     resolver.bugzillaKey(g.host),
		BaseURL:    resolver.bugzillaBaseURL(g.host),
		HTTPClient: resolver.config.HTTPClient,
		Logger:     resolver.logger,
	})
	if err != nil {
		resolver.logger.Error("bugzilla client setup failed", "host", g.host, "error", err)
		return nil
	}

	ids := make([]string, 0, len(g.urls))
	requested := make(map[string]bool, len(g.urls))
	for _, reference := range g.urls {
		id := bugzilla.ParseID(reference)
		ids = append(ids, id)
		requested[id] = true
	}

	bugs, err := client.Bugs(ctx, ids)
	if err != nil {
		resolver.logger.Error("bugzilla query failed", "host", g.host, "error", err)
		return nil
	}

	titles := make(map[string]string, len(bugs))
	for _, bug := range bugs {
		// Keep the mapping a subset of what was asked for, even if the
		// server volunteers extra bugs.
		if !requested[strconv.Itoa(bug.ID)] {
			continue
		}
		titles[client.BugURL(bug.ID)] = bug.Summary
	}
	return titles
}

func (resolver *Resolver) resolveJira(ctx context.Context, g group) map[string]string {
	client, err := jira.NewClient(jira.Config{
		BaseURL:    resolver.config.JiraURL,
		Token:      resolver.config.JiraToken,
		HTTPClient: resolver.config.HTTPClient,
		Logger:     resolver.logger,
	})
	if err != nil {
		resolver.logger.Error("jira client setup failed", "error", err)
		return nil
	}

	keys := make([]string, 0, len(g.urls))
	requested := make(map[string]bool, len(g.urls))
	for _, reference := range g.urls {
		key := jira.ParseKey(reference)
		keys = append(keys, key)
		requested[key] = true
	}

	issues, err := client.SearchAll(ctx, keys)
	if err != nil {
		resolver.logger.Error("jira query failed", "error", err)
		return nil
	}

	titles := make(map[string]string, len(issues))
	for _, issue := range issues {
		if !requested[issue.Key] {
			continue
		}
		titles[client.BrowseURL(issue.Key)] = issue.Summary
	}
	return titles
}

// jiraHost returns the hostname of the configured Jira deployment, or ""
// when JiraURL is unset or unparseable.
func (resolver *Resolver) jiraHost() string {
	parsed, err := url.Parse(resolver.config.JiraURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

// bugzillaKey returns the API key for hosts that need one. Anonymous hosts
// get no key even when one is configured: the key is deployment-specific.
func (resolver *Resolver) bugzillaKey(host string) string {
	if resolver.requiresToken(host) {
		return resolver.config.BugzillaToken
	}
	return ""
}

func (resolver *Resolver) bugzillaBaseURL(host string) string {
	if resolver.config.BugzillaBaseURL != nil {
		return resolver.config.BugzillaBaseURL(host)
	}
	return "https://" + host
}

func (resolver *Resolver) requiresToken(host string) bool {
	for _, tokenHost := range resolver.config.TokenHosts {
		if host == tokenHost {
			return true
		}
	}
	return false
}

func (resolver *Resolver) unsupported(host string) bool {
	for _, unsupportedHost := range resolver.config.UnsupportedHosts {
		if host == unsupportedHost {
			return true
		}
	}
	return false
}
