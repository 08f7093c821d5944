// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

// Package jira provides a minimal client for the Jira REST API v2,
// covering what title resolution needs: a batched key → summary search and
// a single-issue fallback for keys the search omits (renamed or moved
// issues drop out of "key in (...)" results).
package jira

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/smeltme-project/smeltme/lib/httpx"
)

// maxBatch is the largest number of keys in one search request, matching
// the remote request-size limit.
const maxBatch = 200

// Issue is one resolved issue: its key and one-line summary.
type Issue struct {
	Key     string
	Summary string
}

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the root URL of the Jira deployment (e.g.
	// "https://jira.suse.com").
	BaseURL string

	// Token is the bearer token sent in the Authorization header.
	Token string

	// HTTPClient is used for all requests. Defaults to a client with the
	// standard 15s timeout.
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client queries one Jira deployment.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for one Jira deployment.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("jira: BaseURL is required")
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
		token:      config.Token,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// BrowseURL returns the canonical browse URL for an issue key.
func (client *Client) BrowseURL(key string) string {
	return client.baseURL + "/browse/" + key
}

// searchResponse is the relevant subset of the /rest/api/2/search result.
type searchResponse struct {
	Issues []searchIssue `json:"issues"`
}

type searchIssue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
	} `json:"fields"`
}

// Search resolves the given issue keys to summaries with one JQL
// "key in (...)" query per chunk of at most maxBatch keys. Keys the search
// omits are simply absent from the result; SearchAll compensates.
func (client *Client) Search(ctx context.Context, keys []string) ([]Issue, error) {
	var issues []Issue
	for start := 0; start < len(keys); start += maxBatch {
		end := min(start+maxBatch, len(keys))

		chunk, err := client.searchChunk(ctx, keys[start:end])
		if err != nil {
			return nil, err
		}
		issues = append(issues, chunk...)
	}
	return issues, nil
}

func (client *Client) searchChunk(ctx context.Context, keys []string) ([]Issue, error) {
	query := url.Values{}
	query.Set("fields", "summary")
	query.Set("jql", "key in ("+strings.Join(keys, ",")+")")
	requestURL := client.baseURL + "/rest/api/2/search?" + query.Encode()

	client.logger.Debug("jira batch query", "keys", len(keys))
	var response searchResponse
	if err := client.getJSON(ctx, requestURL, &response); err != nil {
		return nil, err
	}

	issues := make([]Issue, 0, len(response.Issues))
	for _, issue := range response.Issues {
		issues = append(issues, Issue{Key: issue.Key, Summary: issue.Fields.Summary})
	}
	return issues, nil
}

// SearchAll resolves keys like Search, then compensates for keys the batch
// search omitted (renamed or moved issues): each missing key is fetched
// individually, concurrently. A failed individual fetch drops that key; it
// never fails the overall resolution.
func (client *Client) SearchAll(ctx context.Context, keys []string) ([]Issue, error) {
	issues, err := client.Search(ctx, keys)
	if err != nil {
		return nil, err
	}

	returned := make(map[string]bool, len(issues))
	for _, issue := range issues {
		returned[issue.Key] = true
	}

	var missing []string
	for _, key := range keys {
		if !returned[key] {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return issues, nil
	}

	results := make(chan *Issue, len(missing))
	for _, key := range missing {
		key := key
		go func() {
			issue, err := client.Issue(ctx, key)
			if err != nil {
				client.logger.Error("jira issue lookup failed", "key", key, "error", err)
				results <- nil
				return
			}
			// Report under the requested key: a renamed issue answers
			// with its new key, but the title belongs to the reference
			// that was asked about.
			results <- &Issue{Key: key, Summary: issue.Summary}
		}()
	}
	for range missing {
		if issue := <-results; issue != nil {
			issues = append(issues, *issue)
		}
	}
	return issues, nil
}

// Issue fetches a single issue by key. Used as the fallback for keys a
// batch search did not return.
func (client *Client) Issue(ctx context.Context, key string) (*Issue, error) {
	requestURL := client.baseURL + "/rest/api/2/issue/" + url.PathEscape(key) + "?fields=summary"

	client.logger.Debug("jira single-issue query", "key", key)
	var response searchIssue
	if err := client.getJSON(ctx, requestURL, &response); err != nil {
		return nil, err
	}
	return &Issue{Key: response.Key, Summary: response.Fields.Summary}, nil
}

func (client *Client) getJSON(ctx context.Context, requestURL string, v any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if client.token != "" {
		request.Header.Set("Authorization", "Bearer "+client.token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return &httpx.StatusError{
			URL:        httpx.Redact(requestURL),
			StatusCode: response.StatusCode,
			Body:       httpx.ErrorBody(response.Body),
		}
	}

	if err := httpx.DecodeResponse(response.Body, v); err != nil {
		return fmt.Errorf("%s: decoding response: %w", httpx.Redact(requestURL), err)
	}
	return nil
}

// ParseKey extracts the issue key from a browse-style URL: the text after
// the last "/". Returns the input unchanged when it has no "/".
func ParseKey(reference string) string {
	if i := strings.LastIndexByte(reference, '/'); i >= 0 {
		return reference[i+1:]
	}
	return reference
}
