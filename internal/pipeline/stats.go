// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"

	"github.com/stavtech/marker-engine/internal/dedupe"
	"github.com/stavtech/marker-engine/internal/extract"
	"github.com/stavtech/marker-engine/pkg/types"
)

// computeStatistics derives all counts from the final marker set so they
// can never drift from the payload. rawCount is the pre-dedup candidate
// count.
func computeStatistics(rawCount int, markers []types.Marker) types.Statistics {
	stats := types.Statistics{
		TotalMarkers:       rawCount,
		TotalUniqueMarkers: len(markers),
		ByCategory:         make(map[string]int),
		BySource:           make(map[string]int),
	}

	var confSum float64
	for _, m := range markers {
		stats.ByCategory[string(m.Category)]++
		stats.BySource[string(m.Source)]++
		confSum += m.Confidence

		if m.Category == types.CategoryNormRef && m.Norm != nil {
			switch m.Norm.Type {
			case types.NormKBKnown:
				stats.NormReferencesKnown++
			case types.NormUnknown:
				stats.NormReferencesUnknown++
			}
		}
	}

	if len(markers) > 0 {
		stats.AvgConfidence = confSum / float64(len(markers))
	}
	return stats
}

// computeQualityFlags assembles the non-fatal findings of a page run.
func computeQualityFlags(result extract.Result, ded dedupe.Result, pending []types.PendingLookup) types.QualityFlags {
	flags := types.QualityFlags{
		DeduplicationApplied: ded.Folded > 0,
		DeduplicationCount:   ded.Folded,
		PerplexityRequired:   len(pending) > 0,
		PendingLookupsCount:  len(pending),
		AmbiguousMarkers:     result.Ambiguous,
		Warnings:             result.Warnings,
	}

	for _, m := range ded.Markers {
		if m.Category == types.CategorySlope && m.Slope != nil && m.Slope.AnnotationNumber == "" {
			flags.MissingContext = append(flags.MissingContext,
				fmt.Sprintf("slope %s: no nearby annotation number", m.Value))
		}
	}

	return flags
}
