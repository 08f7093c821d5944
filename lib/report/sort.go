// Copyright 2026 The Smeltme Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/smeltme-project/smeltme/lib/smelt"
)

// Sort keys for incident ordering.
const (
	// SortPackage orders by case-insensitive primary package name.
	SortPackage = "package"
	// SortPriority orders by incident priority, most urgent first.
	SortPriority = "priority"
)

// Sort orders incidents in place by the given key. Reverse flips the
// order. The sort is stable so incidents that compare equal keep their
// route order.
func Sort(incidents []smelt.Incident, key string, reverse bool) error {
	var less func(a, b *smelt.Incident) bool
	switch key {
	case SortPackage, "":
		less = func(a, b *smelt.Incident) bool {
			return strings.ToLower(primaryPackage(a)) < strings.ToLower(primaryPackage(b))
		}
	case SortPriority:
		less = func(a, b *smelt.Incident) bool {
			return a.Incident.Priority > b.Incident.Priority
		}
	default:
		return fmt.Errorf("unknown sort key %q (want %s or %s)", key, SortPackage, SortPriority)
	}

	sort.SliceStable(incidents, func(i, j int) bool {
		if reverse {
			return less(&incidents[j], &incidents[i])
		}
		return less(&incidents[i], &incidents[j])
	})
	return nil
}

func primaryPackage(incident *smelt.Incident) string {
	if len(incident.Packages) == 0 {
		return ""
	}
	return incident.Packages[0]
}
