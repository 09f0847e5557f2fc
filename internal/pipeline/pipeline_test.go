// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stavtech/marker-engine/internal/knowledge"
	"github.com/stavtech/marker-engine/pkg/types"
)

func testEngine() *Engine {
	snap := knowledge.NewMemorySnapshot(knowledge.Seed{
		Values: map[string][]string{
			"concrete": {"C30/37", "C25/30"},
		},
		Norms: []knowledge.NormEntry{
			{
				Designation: "ČSN 73 6005",
				FullName:    "Prostorové uspořádání vedení technického vybavení",
				Country:     "CZ",
				Field:       "utilities",
			},
		},
	})
	return New(snap, types.EngineConfig{}, nil)
}

func findMarkers(catalog *types.Catalog, cat types.MarkerCategory) []types.Marker {
	var out []types.Marker
	for _, m := range catalog.Markers {
		if m.Category == cat {
			out = append(out, m)
		}
	}
	return out
}

// --- invalid input ---

func TestProcessPageInvalidInput(t *testing.T) {
	engine := testEngine()

	tests := []struct {
		name string
		text string
	}{
		{name: "empty text", text: ""},
		{name: "whitespace text", text: "   \n\t "},
		{name: "undecodable text", text: "beton \xff\xfe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.ProcessPage(context.Background(), types.PageInput{PageNumber: 1, Text: tt.text})
			if !errors.Is(err, ErrInvalidPage) {
				t.Errorf("err = %v, want ErrInvalidPage", err)
			}
		})
	}
}

func TestProcessPageCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testEngine().ProcessPage(ctx, types.PageInput{PageNumber: 1, Text: "beton C30/37"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// --- end to end ---

func TestProcessPageConcreteFromKnowledge(t *testing.T) {
	catalog, err := testEngine().ProcessPage(context.Background(), types.PageInput{
		PageNumber:       3,
		Text:             "ZÁKLADY C30/37-XA2, XC2 50/60",
		ExtractionMethod: "ocr",
	})
	if err != nil {
		t.Fatal(err)
	}

	if catalog.PageMetadata.PageNumber != 3 || catalog.PageMetadata.ExtractionMethod != "ocr" {
		t.Errorf("metadata = %+v, want page 3 via ocr", catalog.PageMetadata)
	}

	concrete := findMarkers(catalog, types.CategoryConcrete)
	if len(concrete) != 1 {
		t.Fatalf("got %d concrete markers, want 1: %+v", len(concrete), catalog.Markers)
	}
	m := concrete[0]
	if m.Value != "C30/37" {
		t.Errorf("Value = %q, want C30/37", m.Value)
	}
	if m.Source != types.SourceKnowledgeBase {
		t.Errorf("Source = %q, want knowledge-base", m.Source)
	}
	if m.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", m.Confidence)
	}
	if got := m.Concrete.Exposure; len(got) != 2 || got[0] != "XA2" || got[1] != "XC2" {
		t.Errorf("Exposure = %v, want [XA2 XC2]", got)
	}
	if m.Concrete.CoverMM != 50 || m.Concrete.CoverInnerMM != 60 {
		t.Errorf("cover = %d/%d, want 50/60", m.Concrete.CoverMM, m.Concrete.CoverInnerMM)
	}
	if m.AppliesTo != "concrete" || m.Location != "foundation" {
		t.Errorf("tags = %q/%q, want concrete/foundation", m.AppliesTo, m.Location)
	}
	if m.Context == "" {
		t.Error("Context must be filled")
	}

	if len(catalog.PendingPerplexityLookups) != 0 {
		t.Errorf("pending lookups = %v, want none", catalog.PendingPerplexityLookups)
	}
}

func TestProcessPageUnknownNorm(t *testing.T) {
	catalog, err := testEngine().ProcessPage(context.Background(), types.PageInput{
		PageNumber: 1,
		Text:       "podle VDI 2035 pro ochranu potrubí",
	})
	if err != nil {
		t.Fatal(err)
	}

	norms := findMarkers(catalog, types.CategoryNormRef)
	if len(norms) != 1 {
		t.Fatalf("got %d norm markers, want 1: %+v", len(norms), catalog.Markers)
	}
	n := norms[0]
	if n.Norm.Designation != "VDI 2035" {
		t.Errorf("Designation = %q, want VDI 2035", n.Norm.Designation)
	}
	if n.Norm.Type != types.NormUnknown || !n.Norm.PerplexityLookupRequired {
		t.Errorf("norm = %+v, want unknown and flagged for lookup", n.Norm)
	}

	if len(catalog.PendingPerplexityLookups) != 1 {
		t.Fatalf("pending = %v, want one lookup", catalog.PendingPerplexityLookups)
	}
	if got := catalog.PendingPerplexityLookups[0].Designation; got != "VDI 2035" {
		t.Errorf("pending designation = %q, want VDI 2035", got)
	}
	if !catalog.QualityFlags.PerplexityRequired || catalog.QualityFlags.PendingLookupsCount != 1 {
		t.Errorf("quality flags = %+v, want perplexity required", catalog.QualityFlags)
	}
	if catalog.Statistics.NormReferencesUnknown != 1 || catalog.Statistics.NormReferencesKnown != 0 {
		t.Errorf("norm stats = %+v, want one unknown", catalog.Statistics)
	}
}

func TestProcessPageKnownNorm(t *testing.T) {
	catalog, err := testEngine().ProcessPage(context.Background(), types.PageInput{
		PageNumber: 1,
		Text:       "kanalizace dle ČSN 73 6005 v zemi",
	})
	if err != nil {
		t.Fatal(err)
	}

	norms := findMarkers(catalog, types.CategoryNormRef)
	if len(norms) != 1 {
		t.Fatalf("got %d norm markers, want 1", len(norms))
	}
	n := norms[0]
	if n.Norm.Type != types.NormKBKnown || n.Norm.PerplexityLookupRequired {
		t.Errorf("norm = %+v, want kb_known", n.Norm)
	}
	if n.Norm.Country != "CZ" {
		t.Errorf("Country = %q, want CZ", n.Norm.Country)
	}
	if n.Confidence < 0.90 {
		t.Errorf("Confidence = %v, want at least 0.90", n.Confidence)
	}
	if len(catalog.PendingPerplexityLookups) != 0 {
		t.Errorf("pending = %v, want none", catalog.PendingPerplexityLookups)
	}
	if catalog.Statistics.NormReferencesKnown != 1 {
		t.Errorf("norm stats = %+v, want one known", catalog.Statistics)
	}
}

func TestProcessPageDeduplication(t *testing.T) {
	catalog, err := testEngine().ProcessPage(context.Background(), types.PageInput{
		PageNumber: 1,
		Text:       "SPLAŠKOVÁ KANALIZACE PVC KG DN 125 a DEŠŤOVÝ SVOD PVC KG DN 125",
	})
	if err != nil {
		t.Fatal(err)
	}

	pipes := findMarkers(catalog, types.CategoryPipe)
	if len(pipes) != 1 {
		t.Fatalf("got %d pipe markers, want 1 merged: %+v", len(pipes), pipes)
	}
	m := pipes[0]
	if m.Count != 2 {
		t.Errorf("Count = %d, want 2", m.Count)
	}
	if len(m.Occurrences) != 2 {
		t.Errorf("Occurrences = %v, want 2 entries", m.Occurrences)
	}
	wantPurposes := []string{"sewage", "rainwater"}
	if len(m.Pipe.Purposes) != 2 || m.Pipe.Purposes[0] != wantPurposes[0] || m.Pipe.Purposes[1] != wantPurposes[1] {
		t.Errorf("Purposes = %v, want %v", m.Pipe.Purposes, wantPurposes)
	}
	if !catalog.QualityFlags.DeduplicationApplied || catalog.QualityFlags.DeduplicationCount < 1 {
		t.Errorf("quality flags = %+v, want deduplication recorded", catalog.QualityFlags)
	}
}

func TestProcessPageDimensionsStayDistinct(t *testing.T) {
	catalog, err := testEngine().ProcessPage(context.Background(), types.PageInput{
		PageNumber: 1,
		Text:       "rozměry 900 1575",
	})
	if err != nil {
		t.Fatal(err)
	}

	dims := findMarkers(catalog, types.CategoryDimension)
	if len(dims) != 2 {
		t.Fatalf("got %d dimension markers, want 2: %+v", len(dims), dims)
	}
	if dims[0].Dimension.Value != 900 || dims[1].Dimension.Value != 1575 {
		t.Errorf("values = %v %v, want 900 1575", dims[0].Dimension.Value, dims[1].Dimension.Value)
	}
}

func TestProcessPageStatisticsConsistency(t *testing.T) {
	catalog, err := testEngine().ProcessPage(context.Background(), types.PageInput{
		PageNumber: 1,
		Text:       "ZÁKLADY beton C30/37 VÝZTUŽ 10φ12 PVC KG DN 125 SPÁD MIN. 2% dle ČSN 73 6005",
	})
	if err != nil {
		t.Fatal(err)
	}

	stats := catalog.Statistics
	if stats.TotalUniqueMarkers != len(catalog.Markers) {
		t.Errorf("TotalUniqueMarkers = %d, want %d", stats.TotalUniqueMarkers, len(catalog.Markers))
	}
	if stats.TotalMarkers < stats.TotalUniqueMarkers {
		t.Errorf("TotalMarkers = %d below unique count %d", stats.TotalMarkers, stats.TotalUniqueMarkers)
	}

	byCategory := 0
	for _, n := range stats.ByCategory {
		byCategory += n
	}
	if byCategory != stats.TotalUniqueMarkers {
		t.Errorf("by_category sums to %d, want %d", byCategory, stats.TotalUniqueMarkers)
	}
	bySource := 0
	for _, n := range stats.BySource {
		bySource += n
	}
	if bySource != stats.TotalUniqueMarkers {
		t.Errorf("by_source sums to %d, want %d", bySource, stats.TotalUniqueMarkers)
	}

	if stats.AvgConfidence <= 0 || stats.AvgConfidence > 1 {
		t.Errorf("AvgConfidence = %v, want in (0,1]", stats.AvgConfidence)
	}
	for _, m := range catalog.Markers {
		if m.Confidence <= 0 || m.Confidence > 1 {
			t.Errorf("%s %q: Confidence = %v out of range", m.Category, m.Value, m.Confidence)
		}
	}
}

func TestProcessPageAnnotations(t *testing.T) {
	catalog, err := testEngine().ProcessPage(context.Background(), types.PageInput{
		PageNumber: 1,
		Text:       "POZNÁMKY:\n1) POZOR na křížení kanalizace s kabelem dle ČSN 73 6005\n2) ZÁKAZ pojíždění nad betonem",
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(catalog.Annotations) != 2 {
		t.Fatalf("got %d annotations, want 2", len(catalog.Annotations))
	}
	first := catalog.Annotations[0]
	if first.Severity != "warning" {
		t.Errorf("severity = %q, want warning", first.Severity)
	}
	if len(first.CrossReferences) != 1 || first.CrossReferences[0] != "ČSN 73 6005" {
		t.Errorf("cross references = %v, want [ČSN 73 6005]", first.CrossReferences)
	}
	if len(first.RelatedElements) == 0 {
		t.Errorf("related elements = %v, want domain tags", first.RelatedElements)
	}
	if catalog.Annotations[1].Severity != "critical" {
		t.Errorf("severity = %q, want critical", catalog.Annotations[1].Severity)
	}
}

func TestProcessPageSlopeMissingContext(t *testing.T) {
	catalog, err := testEngine().ProcessPage(context.Background(), types.PageInput{
		PageNumber: 1,
		Text:       "spád potrubí 2% směrem k šachtě",
	})
	if err != nil {
		t.Fatal(err)
	}

	slopes := findMarkers(catalog, types.CategorySlope)
	if len(slopes) != 1 {
		t.Fatalf("got %d slope markers, want 1", len(slopes))
	}
	if len(catalog.QualityFlags.MissingContext) != 1 {
		t.Errorf("missing context = %v, want the unlinked slope recorded", catalog.QualityFlags.MissingContext)
	}
}

func TestProcessPageTables(t *testing.T) {
	catalog, err := testEngine().ProcessPage(context.Background(), types.PageInput{
		PageNumber: 1,
		Text:       "VÝPIS MATERIÁLU PROVEDENÍ DLE SPECIFIKACE",
		TableRegions: []types.TableRegion{{
			Title: "Výpis",
			Cells: [][]string{{"položka", "ks"}, {"K 110-45°", "4"}},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(catalog.Tables) != 1 || len(catalog.Tables[0].Rows) != 1 {
		t.Fatalf("tables = %+v, want one table with one row", catalog.Tables)
	}
	if catalog.PageMetadata.PageType != types.PageSpecification {
		t.Errorf("PageType = %q, want specification", catalog.PageMetadata.PageType)
	}
}

// --- batch processing ---

func TestProcessPages(t *testing.T) {
	engine := testEngine()
	pages := []types.PageInput{
		{PageNumber: 1, Text: "beton C30/37"},
		{PageNumber: 2, Text: "   "},
		{PageNumber: 3, Text: "PVC KG DN 125"},
	}

	results := engine.ProcessPages(context.Background(), pages)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	for i, want := range []int{1, 2, 3} {
		if results[i].PageNumber != want {
			t.Errorf("result %d is page %d, want input order preserved", i, results[i].PageNumber)
		}
	}

	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("valid pages errored: %v, %v", results[0].Err, results[2].Err)
	}
	if !errors.Is(results[1].Err, ErrInvalidPage) {
		t.Errorf("page 2 err = %v, want ErrInvalidPage", results[1].Err)
	}
	if results[1].Catalog != nil {
		t.Error("failed page must not produce a partial catalog")
	}
}
