// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

// Package report renders fetched incidents as an aligned text table or as
// CSV.
//
// Each incident becomes a row group: the first line carries the request
// label, the first package, the first codestream version, and the first
// bug reference; remaining packages, versions, and references continue on
// follow-up lines with blank fill, since the three lists are usually
// different lengths. References display in short host#id form, with the
// resolved title appended when available.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/smeltme-project/smeltme/lib/jira"
	"github.com/smeltme-project/smeltme/lib/smelt"
)

// minPackageWidth keeps the package column readable when every package
// name is short.
const minPackageWidth = 8

// Options control rendering.
type Options struct {
	// CSV renders comma-separated rows instead of an aligned table.
	CSV bool

	// NoHeader suppresses the header row.
	NoHeader bool

	// Verbose appends resolved titles to references.
	Verbose bool

	// Color styles the table with ANSI escapes and wraps references in
	// OSC 8 hyperlinks. Ignored for CSV.
	Color bool

	// SkipPackages hides incidents whose first package is listed here.
	SkipPackages []string
}

// Render writes the report for incidents to w. titles maps reference URLs
// to resolved issue titles; unresolved references render without one.
func Render(w io.Writer, incidents []smelt.Incident, titles map[string]string, options Options) error {
	rows := buildRows(incidents, titles, options)

	if options.CSV {
		return renderCSV(w, rows, options)
	}
	return renderTable(w, rows, options)
}

// row is one output line of the report.
type row struct {
	Label     string
	Package   string
	Version   string
	Reference string // short display form
	URL       string // canonical reference URL, for hyperlinking
	Title     string
}

func buildRows(incidents []smelt.Incident, titles map[string]string, options Options) []row {
	var rows []row
	for i := range incidents {
		incident := &incidents[i]
		if len(incident.Packages) == 0 || skipPackage(options.SkipPackages, incident.Packages[0]) {
			continue
		}

		packages := slices.Clone(incident.Packages)
		slices.Sort(packages)
		versions := incident.Versions()
		refs := incident.BugRefs()

		lines := max(len(packages), max(len(versions), len(refs)))
		for line := 0; line < lines; line++ {
			r := row{}
			if line == 0 {
				r.Label = incident.Label()
			}
			if line < len(packages) {
				r.Package = packages[line]
			}
			if line < len(versions) {
				r.Version = versions[line]
			}
			if line < len(refs) {
				r.URL = refs[line]
				r.Reference = displayRef(refs[line])
				r.Title = titles[refs[line]]
			}
			rows = append(rows, r)
		}
	}
	return rows
}

func skipPackage(skip []string, name string) bool {
	for _, skipped := range skip {
		if name == skipped {
			return true
		}
	}
	return false
}

// displayRef renders a reference URL in short form: "bugzilla.suse.com#123"
// for show_bug URLs, "jira.suse.com#PED-1" for browse URLs. Anything else
// passes through as-is.
func displayRef(reference string) string {
	parsed, err := url.Parse(reference)
	if err != nil || parsed.Host == "" {
		return reference
	}
	host := parsed.Hostname()
	switch {
	case strings.HasPrefix(host, "bugzilla.") && parsed.Query().Get("id") != "":
		return host + "#" + parsed.Query().Get("id")
	case strings.HasPrefix(host, "jira.") && strings.HasPrefix(parsed.Path, "/browse/"):
		return host + "#" + jira.ParseKey(parsed.Path)
	}
	return reference
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	titleStyle  = lipgloss.NewStyle().Faint(true)
)

func renderTable(w io.Writer, rows []row, options Options) error {
	packageWidth := minPackageWidth
	for _, r := range rows {
		if len(r.Package) > packageWidth {
			packageWidth = len(r.Package)
		}
	}

	if !options.NoHeader {
		header := fmt.Sprintf("%-20s  %-*s  %-12s  %s", "REQUEST", packageWidth, "PACKAGE", "VERSION", "REFERENCE")
		if options.Color {
			header = headerStyle.Render(header)
		}
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
	}

	for _, r := range rows {
		label := r.Label
		reference := r.Reference
		if options.Color {
			if label != "" {
				// Pad before styling: escape sequences confuse %-*s.
				label = labelStyle.Render(fmt.Sprintf("%-20s", label))
			}
			if reference != "" && r.URL != "" {
				reference = ansi.SetHyperlink(r.URL) + reference + ansi.ResetHyperlink()
			}
		}
		if !options.Color || r.Label == "" {
			label = fmt.Sprintf("%-20s", r.Label)
		}

		line := fmt.Sprintf("%s  %-*s  %-12s  %s", label, packageWidth, r.Package, r.Version, reference)
		if options.Verbose && r.Title != "" {
			title := r.Title
			if options.Color {
				title = titleStyle.Render(title)
			}
			line += "  " + title
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func renderCSV(w io.Writer, rows []row, options Options) error {
	writer := csv.NewWriter(w)
	if !options.NoHeader {
		if err := writer.Write([]string{"request", "package", "version", "reference", "title"}); err != nil {
			return err
		}
	}
	for _, r := range rows {
		title := ""
		if options.Verbose {
			title = r.Title
		}
		if err := writer.Write([]string{r.Label, r.Package, r.Version, r.Reference, title}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
