// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"testing"

	"github.com/smeltme-project/smeltme/lib/smelt"
)

func TestSortByPackageCaseInsensitive(t *testing.T) {
	incidents := []smelt.Incident{
		{Packages: []string{"Zlib"}},
		{Packages: []string{"curl"}},
		{Packages: []string{"Apache2"}},
	}

	if err := Sort(incidents, SortPackage, false); err != nil {
		t.Fatalf("Sort: %v", err)
	}

	got := []string{incidents[0].Packages[0], incidents[1].Packages[0], incidents[2].Packages[0]}
	want := []string{"Apache2", "curl", "Zlib"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSortByPriority(t *testing.T) {
	incidents := []smelt.Incident{
		{Packages: []string{"low"}, Incident: smelt.Meta{Priority: 100}},
		{Packages: []string{"high"}, Incident: smelt.Meta{Priority: 700}},
	}

	if err := Sort(incidents, SortPriority, false); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if incidents[0].Packages[0] != "high" {
		t.Errorf("most urgent incident should sort first, got %v", incidents[0].Packages)
	}

	if err := Sort(incidents, SortPriority, true); err != nil {
		t.Fatalf("Sort reverse: %v", err)
	}
	if incidents[0].Packages[0] != "low" {
		t.Errorf("reverse should flip the order, got %v", incidents[0].Packages)
	}
}

func TestSortUnknownKey(t *testing.T) {
	if err := Sort(nil, "severity", false); err == nil {
		t.Error("expected error for unknown sort key")
	}
}

func TestSortDefaultKey(t *testing.T) {
	incidents := []smelt.Incident{
		{Packages: []string{"b"}},
		{Packages: []string{"a"}},
	}
	if err := Sort(incidents, "", false); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if incidents[0].Packages[0] != "a" {
		t.Error("empty key should default to package order")
	}
}
