// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve splits detected norm references into snapshot-known and
// unknown, and handles the round trip to the external resolver. The two
// halves of that trip are deliberately decoupled: pending lookups are
// emitted as batches, and results are patched back later by the
// designation+section key, tolerant of re-delivery and partial batches.
// No network code lives here; invoking the resolver belongs to the caller.
package resolve

import (
	"github.com/google/uuid"

	"github.com/stavtech/marker-engine/internal/knowledge"
	"github.com/stavtech/marker-engine/pkg/types"
)

// kbKnownFloor is the confidence floor for a snapshot-resolved reference.
const kbKnownFloor = 0.90

// Classify queries the snapshot for every norm-reference marker and sets
// the resolution type in place. A snapshot hit raises confidence to at
// least the knowledge floor and fills the descriptive fields; a miss keeps
// the detection confidence and flags the reference for the external
// resolver. Detection itself never does this split, so detection recall
// stays snapshot-agnostic.
func Classify(markers []types.Marker, snap knowledge.Snapshot) {
	for i := range markers {
		m := &markers[i]
		if m.Category != types.CategoryNormRef || m.Norm == nil {
			continue
		}

		var match knowledge.NormMatch
		var ok bool
		if snap != nil {
			match, ok = snap.LookupNorm(m.Norm.Designation, m.Norm.Section)
		}

		if !ok {
			m.Norm.Type = types.NormUnknown
			m.Norm.PerplexityLookupRequired = true
			continue
		}

		m.Norm.Type = types.NormKBKnown
		m.Norm.PerplexityLookupRequired = false
		m.Source = types.SourceKnowledgeBase
		if m.Confidence < kbKnownFloor {
			m.Confidence = kbKnownFloor
		}
		if m.Norm.FullDesignation == "" {
			m.Norm.FullDesignation = match.FullDesignation
		}
		if m.Norm.FullName == "" {
			m.Norm.FullName = match.FullName
		}
		if m.Norm.Country == "" {
			m.Norm.Country = match.Country
		}
		if m.Norm.Field == "" {
			m.Norm.Field = match.Field
		}
	}
}

// PendingLookups projects the unresolved references out of a marker set.
// The projection is recomputed from the markers every time, never tracked
// incrementally.
func PendingLookups(markers []types.Marker) []types.PendingLookup {
	var pending []types.PendingLookup
	for _, m := range markers {
		if m.Category != types.CategoryNormRef || m.Norm == nil || !m.Norm.PerplexityLookupRequired {
			continue
		}
		pending = append(pending, types.PendingLookup{
			Designation: m.Norm.Designation,
			Section:     m.Norm.Section,
			AppliesTo:   m.Norm.AppliesTo,
			Context:     m.Context,
			Confidence:  m.Confidence,
		})
	}
	return pending
}

// Batches groups pending lookups into resolver batches of at most limit
// lookups, deduplicating repeated designation+section pairs across pages.
func Batches(pending []types.PendingLookup, limit int) []types.ResolverBatch {
	if limit <= 0 {
		limit = 50
	}

	seen := make(map[string]bool)
	var unique []types.PendingLookup
	for _, p := range pending {
		key := p.Designation + "|" + p.Section
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, p)
	}

	var batches []types.ResolverBatch
	for start := 0; start < len(unique); start += limit {
		end := start + limit
		if end > len(unique) {
			end = len(unique)
		}
		batches = append(batches, types.ResolverBatch{
			BatchID: uuid.NewString(),
			Lookups: unique[start:end],
		})
	}
	return batches
}

// ApplyResults patches resolver results into a catalog. Matching is by
// designation+section; re-applying the same results is a no-op beyond the
// original patch, and unmatched results are ignored so partial batches are
// safe. Patched references no longer require a lookup, and the pending
// projection plus quality flags are recomputed from the marker set.
func ApplyResults(catalog *types.Catalog, results []types.ResolverResult) int {
	byKey := make(map[string]types.ResolverResult, len(results))
	for _, r := range results {
		byKey[r.Key()] = r
	}

	patched := 0
	for i := range catalog.Markers {
		m := &catalog.Markers[i]
		if m.Category != types.CategoryNormRef || m.Norm == nil {
			continue
		}
		r, ok := byKey[m.Norm.Key()]
		if !ok {
			// A sectionless result still resolves a sectioned reference.
			r, ok = byKey[types.ResolverResult{Designation: m.Norm.Designation}.Key()]
		}
		if !ok {
			continue
		}

		m.Norm.FullName = r.FullName
		m.Norm.Description = r.Description
		m.Norm.Country = r.Country
		m.Norm.Field = r.Field
		m.Norm.PerplexityLookupRequired = false
		patched++
	}

	catalog.PendingPerplexityLookups = PendingLookups(catalog.Markers)
	catalog.QualityFlags.PendingLookupsCount = len(catalog.PendingPerplexityLookups)
	catalog.QualityFlags.PerplexityRequired = catalog.QualityFlags.PendingLookupsCount > 0
	return patched
}
