// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

package smelt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestOverviewFollowsPagination(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/api/v1/overview/testing/":
			fmt.Fprintf(writer, `{"results": [{"request_id": 1}], "next": %q}`, server.URL+"/page2")
		case "/page2":
			fmt.Fprint(writer, `{"results": [{"request_id": 2}], "next": null}`)
		default:
			http.NotFound(writer, request)
		}
	}))
	defer server.Close()

	incidents, err := newTestClient(t, server).Overview(context.Background(), "testing")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}

	if len(incidents) != 2 {
		t.Fatalf("got %d incidents, want 2", len(incidents))
	}
	if incidents[0].RequestID != 1 || incidents[1].RequestID != 2 {
		t.Errorf("incident order = [%d, %d], want [1, 2]", incidents[0].RequestID, incidents[1].RequestID)
	}
}

func TestOverviewPropagatesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		http.Error(writer, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := newTestClient(t, server).Overview(context.Background(), "testing"); err == nil {
		t.Error("expected error for 500 response, got nil")
	}
}

func TestRoutesPartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/api/v1/overview/testing/":
			fmt.Fprint(writer, `{"results": [{"request_id": 10}], "next": null}`)
		default:
			http.Error(writer, "route down", http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	incidents, err := newTestClient(t, server).Routes(context.Background(), []string{"testing", "tested_ready"})
	if err != nil {
		t.Fatalf("Routes: %v", err)
	}
	if len(incidents) != 1 || incidents[0].RequestID != 10 {
		t.Errorf("incidents = %v, want the single testing-route incident", incidents)
	}
}

func TestRoutesAllFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		http.Error(writer, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	if _, err := newTestClient(t, server).Routes(context.Background(), []string{"testing", "tested_ready"}); err == nil {
		t.Error("expected error when every route fails")
	}
}

func TestRoutesEmptyList(t *testing.T) {
	var queried atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		queried.Add(1)
	}))
	defer server.Close()

	if _, err := newTestClient(t, server).Routes(context.Background(), nil); err == nil {
		t.Error("expected error for an empty route list")
	}
	if queried.Load() != 0 {
		t.Error("empty route list must not issue any request")
	}
}

func TestRoutesPreservesRouteOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/api/v1/overview/a/":
			fmt.Fprint(writer, `{"results": [{"request_id": 1}], "next": null}`)
		case "/api/v1/overview/b/":
			fmt.Fprint(writer, `{"results": [{"request_id": 2}], "next": null}`)
		default:
			http.NotFound(writer, request)
		}
	}))
	defer server.Close()

	incidents, err := newTestClient(t, server).Routes(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Routes: %v", err)
	}
	if len(incidents) != 2 || incidents[0].RequestID != 1 || incidents[1].RequestID != 2 {
		t.Errorf("incidents out of route order: %+v", incidents)
	}
}
