// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

// Package httpx provides HTTP plumbing shared by the tracker clients.
//
// Response helpers (DecodeResponse, ErrorBody) bound all body reads at
// MaxResponseSize so a misbehaving server cannot exhaust memory. They are
// meant for JSON API responses, not streaming downloads.
//
// Redact strips the query string from a URL before it appears in an error
// message or log line. Tracker credentials travel as query parameters
// (Bugzilla_api_key), so raw request URLs must never be logged.
//
// DumpTransport is a RoundTripper that writes complete request/response
// dumps to a writer. It backs the --debug flag.
package httpx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"
)

// MaxResponseSize bounds JSON API response body reads: 64 MB. Tracker list
// responses are a few hundred KB at most; the limit only exists to contain a
// pathological server.
const MaxResponseSize int64 = 64 << 20

// DefaultTimeout is the per-request timeout applied by NewClient. The
// trackers are internal services; anything slower than this is down.
const DefaultTimeout = 15 * time.Second

// NewClient returns an HTTP client with the default request timeout. When
// dump is non-nil, every request and response is written to it in full.
func NewClient(dump io.Writer) *http.Client {
	client := &http.Client{Timeout: DefaultTimeout}
	if dump != nil {
		client.Transport = &DumpTransport{Out: dump}
	}
	return client
}

// DecodeResponse reads a JSON API response body (up to MaxResponseSize
// bytes) and JSON-decodes it into v.
func DecodeResponse(body io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	return json.Unmarshal(data, v)
}

// ErrorBody reads an HTTP error response body for diagnostics. Read errors
// are ignored: a partial or empty body is still useful in an error message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	return strings.TrimSpace(string(data))
}

// StatusError reports a non-2xx response from a tracker or the overview
// service. URL is pre-redacted.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.URL, e.StatusCode)
	}
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.URL, e.StatusCode, body)
}

// Redact strips the query string (and any fragment) from a URL string so
// embedded credentials never reach logs or error messages.
func Redact(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		url = url[:i]
	}
	if i := strings.IndexByte(url, '#'); i >= 0 {
		url = url[:i]
	}
	return url
}

// DumpTransport wraps an HTTP transport and writes a full dump of every
// request and response to Out. Bodies are included, so this must only be
// enabled for debugging.
type DumpTransport struct {
	// Base is the underlying transport. Defaults to http.DefaultTransport.
	Base http.RoundTripper

	// Out receives the dumps.
	Out io.Writer
}

// RoundTrip implements http.RoundTripper. Dump failures are swallowed: a
// broken debug dump must not fail the request itself.
func (t *DumpTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	if dump, err := httputil.DumpRequestOut(request, true); err == nil {
		fmt.Fprintf(t.Out, "%s\n", dump)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	response, err := base.RoundTrip(request)
	if err != nil {
		return nil, err
	}

	if dump, err := httputil.DumpResponse(response, true); err == nil {
		fmt.Fprintf(t.Out, "%s\n", dump)
	}
	return response, nil
}
