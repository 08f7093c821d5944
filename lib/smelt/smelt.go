// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

// Package smelt provides a typed client for the SMELT maintenance-incident
// tracking service.
//
// The overview API is a single paginated listing endpoint per route:
//
//	GET <base>/api/v1/overview/<route>/
//	→ {"results": [...], "next": "<absolute url>" | null}
//
// Overview follows the next links until exhausted. Routes fetches several
// routes in parallel; a failing route is logged and contributes nothing,
// and only the failure of every requested route is an error.
//
// Key exports:
//
//   - [Incident] -- one maintenance update bundle with its references
//   - [Client] and [Config] -- the API client
//   - [Client.Overview] and [Client.Routes] -- the two fetch entry points
package smelt

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/smeltme-project/smeltme/lib/httpx"
)

// Config holds configuration for creating a SMELT API Client.
type Config struct {
	// BaseURL is the root URL of the service (e.g. "https://smelt.suse.de").
	BaseURL string

	// HTTPClient is used for all requests. Defaults to a client with the
	// standard 15s timeout.
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client is a typed client for the SMELT overview API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a SMELT API client from the given configuration.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("smelt: BaseURL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = httpx.NewClient(nil)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// overviewPage is one page of the paginated overview listing. Next is an
// absolute URL, or null on the final page.
type overviewPage struct {
	Results []Incident `json:"results"`
	Next    *string    `json:"next"`
}

// Overview fetches all incidents on one route, following pagination until
// the final page. Results keep listing order across pages.
func (client *Client) Overview(ctx context.Context, route string) ([]Incident, error) {
	url := fmt.Sprintf("%s/api/v1/overview/%s/", client.baseURL, route)

	var incidents []Incident
	for url != "" {
		page, err := client.getPage(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", route, err)
		}
		incidents = append(incidents, page.Results...)
		url = ""
		if page.Next != nil {
			url = *page.Next
		}
	}
	return incidents, nil
}

// Routes fetches all requested routes in parallel, one goroutine per route,
// and concatenates the results in route order. A failing route is logged
// and contributes zero incidents. Returns an error only when every route
// failed, so a partially degraded service still produces a report.
func (client *Client) Routes(ctx context.Context, routes []string) ([]Incident, error) {
	if len(routes) == 0 {
		return nil, fmt.Errorf("smelt: no routes requested")
	}

	perRoute := make([][]Incident, len(routes))
	errs := make([]error, len(routes))

	var wait sync.WaitGroup
	for i, route := range routes {
		i, route := i, route
		wait.Add(1)
		go func() {
			defer wait.Done()
			incidents, err := client.Overview(ctx, route)
			if err != nil {
				errs[i] = err
				client.logger.Error("overview fetch failed", "route", route, "error", err)
				return
			}
			perRoute[i] = incidents
		}()
	}
	wait.Wait()

	failed := 0
	var all []Incident
	for i := range routes {
		if errs[i] != nil {
			failed++
			continue
		}
		all = append(all, perRoute[i]...)
	}

	if failed == len(routes) {
		return nil, fmt.Errorf("smelt: all %d routes failed: %w", len(routes), errs[0])
	}
	return all, nil
}

// getPage fetches and decodes one overview page.
func (client *Client) getPage(ctx context.Context, url string) (*overviewPage, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	client.logger.Debug("fetching overview page", "url", url)
	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &httpx.StatusError{
			URL:        httpx.Redact(url),
			StatusCode: response.StatusCode,
			Body:       httpx.ErrorBody(response.Body),
		}
	}

	var page overviewPage
	if err := httpx.DecodeResponse(response.Body, &page); err != nil {
		return nil, fmt.Errorf("decoding overview page: %w", err)
	}
	return &page, nil
}
