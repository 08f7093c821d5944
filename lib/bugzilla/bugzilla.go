// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

// Package bugzilla provides a minimal client for the Bugzilla REST API,
// covering exactly what title resolution needs: batched id → summary
// lookups against /rest/bug.
//
// Bugzilla authenticates through a query parameter (Bugzilla_api_key), so
// request URLs carry the credential. Every URL is redacted before it
// appears in an error or a log line.
package bugzilla

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/smeltme-project/smeltme/lib/httpx"
)

// maxBatch is the largest number of ids in one /rest/bug request. The
// remote enforces a request-size limit around this count.
const maxBatch = 200

// Bug is one resolved bug: its numeric id and one-line summary.
type Bug struct {
	ID      int    `json:"id"`
	Summary string `json:"summary"`
}

// Config holds configuration for creating a Client.
type Config struct {
	// Host is the Bugzilla host name (e.g. "bugzilla.suse.com").
	Host string

	// APIKey is sent as the Bugzilla_api_key parameter when non-empty.
	// Hosts that allow anonymous REST queries leave it empty.
	APIKey string

	// HTTPClient is used for all requests. Defaults to a client with the
	// standard 15s timeout.
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger

	// baseURL overrides the https://<Host> request base in tests.
	BaseURL string
}

// Client queries one Bugzilla deployment.
type Client struct {
	host       string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for one Bugzilla host.
func NewClient(config Config) (*Client, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("bugzilla: Host is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = httpx.NewClient(nil)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://" + config.Host
	}

	return &Client{
		host:       config.Host,
		apiKey:     config.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Host returns the host this client queries.
func (client *Client) Host() string {
	return client.host
}

// BugURL returns the canonical show_bug URL for a bug id on this host.
func (client *Client) BugURL(id int) string {
	return fmt.Sprintf("https://%s/show_bug.cgi?id=%d", client.host, id)
}

// bugList is the /rest/bug response envelope.
type bugList struct {
	Bugs []Bug `json:"bugs"`
}

// Bugs resolves the given bug ids to summaries. Ids are queried in chunks
// of at most maxBatch per request; only the id and summary fields are
// requested. Unknown ids are simply absent from the result.
func (client *Client) Bugs(ctx context.Context, ids []string) ([]Bug, error) {
	var bugs []Bug
	for start := 0; start < len(ids); start += maxBatch {
		end := min(start+maxBatch, len(ids))

		chunk, err := client.chunk(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		bugs = append(bugs, chunk...)
	}
	return bugs, nil
}

func (client *Client) chunk(ctx context.Context, ids []string) ([]Bug, error) {
	query := url.Values{}
	for _, id := range ids {
		query.Add("id", id)
	}
	query.Set("include_fields", "id,summary")
	if client.apiKey != "" {
		query.Set("Bugzilla_api_key", client.apiKey)
	}

	requestURL := client.baseURL + "/rest/bug?" + query.Encode()
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	client.logger.Debug("bugzilla batch query", "host", client.host, "ids", len(ids))
	response, err := client.httpClient.Do(request)
	if err != nil {
		// The transport error may echo the full request URL, API key
		// included. Report only the redacted form.
		return nil, fmt.Errorf("%s: %w", httpx.Redact(requestURL), unwrapURLError(err))
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &httpx.StatusError{
			URL:        httpx.Redact(requestURL),
			StatusCode: response.StatusCode,
			Body:       httpx.ErrorBody(response.Body),
		}
	}

	var list bugList
	if err := httpx.DecodeResponse(response.Body, &list); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", httpx.Redact(requestURL), err)
	}
	return list.Bugs, nil
}

// unwrapURLError strips the *url.Error wrapper, whose message repeats the
// full request URL, keeping only the underlying cause.
func unwrapURLError(err error) error {
	if urlErr, ok := err.(*url.Error); ok {
		return urlErr.Err
	}
	return err
}

// ParseID extracts the bug id from a show_bug-style URL: the text after
// the last "=". Returns the input unchanged when it has no "=".
func ParseID(reference string) string {
	for i := len(reference) - 1; i >= 0; i-- {
		if reference[i] == '=' {
			return reference[i+1:]
		}
	}
	return reference
}

// FormatID renders a short host#id form for report rows, e.g.
// "bugzilla.suse.com#123".
func FormatID(host string, id int) string {
	return host + "#" + strconv.Itoa(id)
}
