// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe folds raw marker candidates into canonical markers.
// Merge identity is category+type+value except where a category rule says
// otherwise: norm references merge on designation alone, and numeric
// dimensions never merge at all. Merging keeps the maximum confidence and
// accumulates occurrence data in order; running the fold twice yields the
// same set.
package dedupe

import (
	"github.com/stavtech/marker-engine/pkg/types"
)

// Result holds the canonical marker set and fold statistics.
type Result struct {
	// Markers are the canonical markers, in first-occurrence order.
	Markers []types.Marker

	// Folded is the number of raw candidates merged away; it feeds
	// quality_flags.deduplication_count.
	Folded int
}

// Markers deduplicates raw candidates. Dimensions pass through unmerged:
// distinct numeric values co-occurring in one span stay distinct markers,
// and even equal values keep their own context.
func Markers(raw []types.Marker) Result {
	seen := make(map[string]int) // merge key → index in out
	var out []types.Marker
	folded := 0

	for _, m := range raw {
		if m.Count == 0 {
			m.Count = 1
		}

		if m.Category == types.CategoryDimension {
			out = append(out, m)
			continue
		}

		key := m.MergeKey()
		idx, ok := seen[key]
		if !ok {
			seen[key] = len(out)
			out = append(out, m)
			continue
		}

		mergeInto(&out[idx], m)
		folded++
	}

	return Result{Markers: out, Folded: folded}
}

// mergeInto folds src into the canonical marker dst: counts accumulate,
// occurrence sequences extend in order, confidence keeps the maximum and
// is never raised beyond either input.
func mergeInto(dst *types.Marker, src types.Marker) {
	dst.Count += src.Count

	if len(dst.Occurrences) == 0 {
		dst.Occurrences = []string{dst.Context}
	}
	dst.Occurrences = append(dst.Occurrences, src.Context)

	if src.Confidence > dst.Confidence {
		dst.Confidence = src.Confidence
	}
	if dst.Source != src.Source {
		// A knowledge-base occurrence anywhere upgrades the provenance.
		if src.Source == types.SourceKnowledgeBase {
			dst.Source = src.Source
		}
	}

	switch dst.Category {
	case types.CategoryPipe:
		mergePipe(dst.Pipe, src.Pipe)
	case types.CategoryFitting:
		mergeFitting(dst, src)
	case types.CategoryProtection:
		mergeProtection(dst.Protection, src.Protection)
	case types.CategoryNormRef:
		mergeNorm(dst.Norm, src.Norm)
	}
}

func mergePipe(dst, src *types.PipeSpec) {
	if dst == nil || src == nil {
		return
	}
	dst.Purposes = appendUnique(dst.Purposes, src.Purposes...)
	dst.InstallationContexts = appendUnique(dst.InstallationContexts, src.InstallationContexts...)
}

// mergeFitting records repeated geometry at different positions as one
// canonical marker with an ordered position sequence.
func mergeFitting(dst *types.Marker, src types.Marker) {
	if dst.Fitting == nil || src.Fitting == nil {
		return
	}
	if len(dst.Fitting.Positions) == 0 {
		dst.Fitting.Positions = []string{dst.Context}
	}
	dst.Fitting.Positions = append(dst.Fitting.Positions, src.Context)
}

func mergeProtection(dst, src *types.ProtectionSpec) {
	if dst == nil || src == nil {
		return
	}
	for _, dn := range src.DNSizes {
		if !containsInt(dst.DNSizes, dn) {
			dst.DNSizes = append(dst.DNSizes, dn)
		}
	}
}

// mergeNorm fills empty resolver fields from the other occurrence; the
// designation is the merge key, so it is already equal.
func mergeNorm(dst, src *types.NormReference) {
	if dst == nil || src == nil {
		return
	}
	if dst.Section == "" {
		dst.Section = src.Section
	}
	if dst.Clause == "" {
		dst.Clause = src.Clause
	}
	if dst.FullName == "" {
		dst.FullName = src.FullName
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
	if dst.Country == "" {
		dst.Country = src.Country
	}
	if dst.Field == "" {
		dst.Field = src.Field
	}
}

func appendUnique(dst []string, vals ...string) []string {
	for _, v := range vals {
		if v == "" {
			continue
		}
		found := false
		for _, have := range dst {
			if have == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}

func containsInt(haystack []int, needle int) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}
