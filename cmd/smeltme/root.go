// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/smeltme-project/smeltme/lib/cli"
	"github.com/smeltme-project/smeltme/lib/config"
	"github.com/smeltme-project/smeltme/lib/httpx"
	"github.com/smeltme-project/smeltme/lib/report"
	"github.com/smeltme-project/smeltme/lib/smelt"
	"github.com/smeltme-project/smeltme/lib/tracker"
	"github.com/smeltme-project/smeltme/lib/version"
)

// rootOptions collects the flag values for the report command.
type rootOptions struct {
	verbose     bool
	csv         bool
	noHeader    bool
	sortKey     string
	reverse     bool
	routes      []string
	submissions bool
	regex       bool
	ignoreCase  bool
	configPath  string
	debug       bool
	showVersion bool
}

func rootCommand() *cli.Command {
	var opts rootOptions

	return &cli.Command{
		Name: "smeltme",
		Description: `smeltme: report on pending maintenance incidents.

Fetches the incidents under review from a SMELT deployment and prints
one table row per package and codestream, with the tracker references
attached to each incident. An optional positional argument restricts
the report to incidents touching a matching package.`,
		Usage: "smeltme [flags] [pattern]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("smeltme", pflag.ContinueOnError)
			flags.BoolVarP(&opts.verbose, "verbose", "v", false, "resolve and append tracker issue titles")
			flags.BoolVar(&opts.csv, "csv", false, "emit comma-separated rows instead of a table")
			flags.BoolVar(&opts.noHeader, "no-header", false, "suppress the header row")
			flags.StringVarP(&opts.sortKey, "sort", "s", report.SortPackage, "sort order: package or priority")
			flags.BoolVarP(&opts.reverse, "reverse", "r", false, "reverse the sort order")
			flags.StringArrayVarP(&opts.routes, "route", "R", nil, "overview route to fetch (repeatable, overrides config)")
			flags.BoolVarP(&opts.submissions, "submissions", "S", false, "fetch the submission routes instead of the review routes")
			flags.BoolVarP(&opts.regex, "regex", "x", false, "treat the package pattern as a regular expression")
			flags.BoolVarP(&opts.ignoreCase, "ignore-case", "i", false, "match the package pattern case-insensitively")
			flags.StringVar(&opts.configPath, "config", "", "path to a YAML configuration file")
			flags.BoolVar(&opts.debug, "debug", false, "dump HTTP requests and responses to stderr")
			flags.BoolVar(&opts.showVersion, "version", false, "print version information and exit")
			return flags
		},
		Subcommands: []*cli.Command{
			linkifyCommand(),
			browseCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Report every incident in review",
				Command:     "smeltme",
			},
			{
				Description: "Incidents touching a single package, with issue titles",
				Command:     "smeltme -v zlib",
			},
			{
				Description: "Glob over package names, case-insensitive",
				Command:     "smeltme -i 'openssl*'",
			},
			{
				Description: "Machine-readable output for scripting",
				Command:     "smeltme --csv --no-header",
			},
			{
				Description: "Hyperlink tracker identifiers in a changelog",
				Command:     "osc vc -m | smeltme linkify",
			},
		},
		Run: func(args []string) error {
			if opts.showVersion {
				fmt.Printf("smeltme %s\n", version.Info())
				return nil
			}
			if len(args) > 1 {
				return fmt.Errorf("at most one package pattern expected, got %d arguments", len(args))
			}
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			return runReport(&opts, pattern)
		},
	}
}

func runReport(opts *rootOptions, pattern string) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	debug := opts.debug || cfg.Debug
	logger := cli.NewLogger(debug)

	var matcher *report.Matcher
	if pattern != "" || opts.regex {
		matcher, err = report.NewMatcher(pattern, opts.regex, opts.ignoreCase)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	incidents, err := fetchIncidents(ctx, cfg, logger, opts.routes, opts.submissions, debug)
	if err != nil {
		return interrupted(ctx, err)
	}

	incidents = report.Filter(incidents, matcher)
	if err := report.Sort(incidents, opts.sortKey, opts.reverse); err != nil {
		return err
	}

	var titles map[string]string
	if opts.verbose {
		resolver := tracker.NewResolver(tracker.Config{
			BugzillaToken:    cfg.BugzillaToken,
			JiraToken:        cfg.JiraToken,
			JiraURL:          cfg.JiraURL,
			TokenHosts:       cfg.TokenHosts,
			UnsupportedHosts: cfg.UnsupportedHosts,
			HTTPClient:       httpClient(debug),
			Logger:           logger,
		})
		titles = resolver.Resolve(ctx, smelt.ReferenceURLs(incidents))
		if ctx.Err() != nil {
			return interrupted(ctx, ctx.Err())
		}
	}

	return report.Render(os.Stdout, incidents, titles, report.Options{
		CSV:          opts.csv,
		NoHeader:     opts.noHeader,
		Verbose:      opts.verbose,
		Color:        !opts.csv && colorEnabled(),
		SkipPackages: cfg.SkipPackages,
	})
}

// fetchIncidents loads the configured routes from the service. Explicit
// routes override the configured set; submissions switches to the
// submission review routes.
func fetchIncidents(ctx context.Context, cfg *config.Config, logger *slog.Logger, routes []string, submissions bool, debug bool) ([]smelt.Incident, error) {
	if len(routes) == 0 {
		routes = cfg.Routes
		if submissions {
			routes = cfg.SubmissionRoutes
		}
	}

	client, err := smelt.NewClient(smelt.Config{
		BaseURL:    cfg.ServiceURL,
		HTTPClient: httpClient(debug),
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	return client.Routes(ctx, routes)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func httpClient(debug bool) *http.Client {
	var dump io.Writer
	if debug {
		dump = os.Stderr
	}
	return httpx.NewClient(dump)
}

// interrupted maps a canceled context to a bare exit code 1 so an
// interrupt doesn't print a spurious error line.
func interrupted(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "interrupted")
		return &cli.ExitError{Code: 1}
	}
	return err
}

// colorEnabled reports whether stdout supports styled output.
func colorEnabled() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}
