// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

package smelt

import (
	"slices"
	"strconv"
	"strings"
)

// Reference links an incident to an item in an external tracker. Name is
// the symbolic tag (e.g. "bsc#123", "CVE-2024-1234"), URL the absolute link.
type Reference struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Status is the named state of a request on its route.
type Status struct {
	Name string `json:"name"`
}

// Meta is the incident record nested inside an overview entry.
type Meta struct {
	// Project is the full project name (e.g. "SUSE:Maintenance").
	Project string `json:"project"`

	// IncidentID is the numeric incident identifier.
	IncidentID int `json:"incident_id"`

	// Priority orders incidents for the --sort priority view. Higher is
	// more urgent.
	Priority int `json:"priority"`

	// References are the tracker links attached to the incident itself.
	References []Reference `json:"references"`
}

// Incident is one overview entry: a maintenance update bundle moving
// through a route.
type Incident struct {
	RequestID   int         `json:"request_id"`
	Status      Status      `json:"status"`
	Packages    []string    `json:"packages"`
	Codestreams []string    `json:"codestreams"`
	Incident    Meta        `json:"incident"`
	References  []Reference `json:"references"`
}

// cvePrefix marks references that are tracked on Bugzilla anyway and are
// excluded from title resolution.
const cvePrefix = "CVE-"

// Label is the abbreviated request identifier shown in the report, e.g.
// "S:M:42" for request 42 in SUSE:Maintenance.
func (incident *Incident) Label() string {
	project := strings.ReplaceAll(incident.Incident.Project, "SUSE:Maintenance", "S:M")
	return project + ":" + strconv.Itoa(incident.RequestID)
}

// Versions returns the codestream versions, sorted: the text after the
// first ":" of each codestream ("SUSE:15-SP4" → "15-SP4").
func (incident *Incident) Versions() []string {
	versions := make([]string, 0, len(incident.Codestreams))
	for _, codestream := range incident.Codestreams {
		if _, version, found := strings.Cut(codestream, ":"); found {
			versions = append(versions, version)
		} else {
			versions = append(versions, codestream)
		}
	}
	slices.Sort(versions)
	return versions
}

// BugRefs returns the deduplicated, sorted reference URLs of the incident
// and its request, excluding CVE references.
func (incident *Incident) BugRefs() []string {
	seen := make(map[string]bool)
	var urls []string
	for _, reference := range append(incident.Incident.References, incident.References...) {
		if strings.HasPrefix(reference.Name, cvePrefix) {
			continue
		}
		if reference.URL == "" || seen[reference.URL] {
			continue
		}
		seen[reference.URL] = true
		urls = append(urls, reference.URL)
	}
	slices.Sort(urls)
	return urls
}

// ReferenceURLs collects the distinct non-CVE reference URLs across a set
// of incidents, the input to title resolution.
func ReferenceURLs(incidents []Incident) []string {
	seen := make(map[string]bool)
	var urls []string
	for i := range incidents {
		for _, url := range incidents[i].BugRefs() {
			if seen[url] {
				continue
			}
			seen[url] = true
			urls = append(urls, url)
		}
	}
	slices.Sort(urls)
	return urls
}
