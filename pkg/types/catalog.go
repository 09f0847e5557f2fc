// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PageType labels the structural kind of a drawing-set page.
type PageType string

const (
	PageDrawing       PageType = "drawing"
	PageSpecification PageType = "specification"
	PageAnnotation    PageType = "annotation"
	PageProfile       PageType = "profile"
)

// PageInput is the per-page input contract: normalized text plus metadata.
// OCR, Unicode normalization, hyphenation repair and whitespace collapse
// are assumed already applied upstream.
type PageInput struct {
	// PageNumber is the 1-based page index within the document.
	PageNumber int `json:"page_number" yaml:"page_number"`

	// Text is the normalized page text.
	Text string `json:"text" yaml:"text"`

	// ExtractionMethod is a provenance tag from the upstream OCR layer.
	// It carries no semantics for the engine.
	ExtractionMethod string `json:"extraction_method,omitempty" yaml:"extraction_method,omitempty"`

	// TableRegions are pre-delimited tabular regions supplied by the
	// upstream layout collaborator.
	TableRegions []TableRegion `json:"table_regions,omitempty" yaml:"table_regions,omitempty"`
}

// TableRegion is a raw tabular region: a title and a cell grid whose first
// row holds the column headers.
type TableRegion struct {
	Title string     `json:"title,omitempty" yaml:"title,omitempty"`
	Cells [][]string `json:"cells" yaml:"cells"`
}

// Table is a parsed tabular region. Rows are opaque header→cell records;
// the engine normalizes headers but never interprets them.
type Table struct {
	Title string              `json:"title,omitempty" yaml:"title,omitempty"`
	Rows  []map[string]string `json:"rows" yaml:"rows"`
}

// PageMetadata echoes the input provenance plus the classified page type.
type PageMetadata struct {
	PageNumber       int      `json:"page_number" yaml:"page_number"`
	ExtractionMethod string   `json:"extraction_method,omitempty" yaml:"extraction_method,omitempty"`
	PageType         PageType `json:"page_type" yaml:"page_type"`
}

// Statistics are recomputed wholesale from the final marker set on every
// run; nothing here is incrementally tracked.
type Statistics struct {
	// TotalMarkers counts raw candidates before deduplication.
	TotalMarkers int `json:"total_markers" yaml:"total_markers"`

	// TotalUniqueMarkers equals len(Catalog.Markers).
	TotalUniqueMarkers int `json:"total_unique_markers" yaml:"total_unique_markers"`

	ByCategory map[string]int `json:"by_category" yaml:"by_category"`
	BySource   map[string]int `json:"by_source" yaml:"by_source"`

	// AvgConfidence is the mean confidence over the final marker set.
	AvgConfidence float64 `json:"avg_confidence" yaml:"avg_confidence"`

	NormReferencesKnown   int `json:"norm_references_known" yaml:"norm_references_known"`
	NormReferencesUnknown int `json:"norm_references_unknown" yaml:"norm_references_unknown"`
}

// QualityFlags collect non-fatal findings from a page run. An unrecognized
// span is dropped, not errored; everything noteworthy lands here instead.
type QualityFlags struct {
	DeduplicationApplied bool `json:"deduplication_applied" yaml:"deduplication_applied"`

	// DeduplicationCount is the page-level sum of raw candidates folded
	// into canonical markers.
	DeduplicationCount int `json:"deduplication_count" yaml:"deduplication_count"`

	PerplexityRequired  bool `json:"perplexity_required" yaml:"perplexity_required"`
	PendingLookupsCount int  `json:"pending_lookups_count" yaml:"pending_lookups_count"`

	// AmbiguousMarkers lists spans claimed by more than one mutually
	// exclusive category; the losing candidate is recorded, not discarded
	// silently.
	AmbiguousMarkers []string `json:"ambiguous_markers,omitempty" yaml:"ambiguous_markers,omitempty"`

	// MissingContext lists markers whose expected companion context was
	// absent (e.g. a slope with no nearby annotation number).
	MissingContext []string `json:"missing_context,omitempty" yaml:"missing_context,omitempty"`

	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Catalog is the per-page output contract. Field names and nesting are the
// wire contract downstream consumers (pricing, standards validation, audit)
// depend on.
type Catalog struct {
	PageMetadata             PageMetadata    `json:"page_metadata" yaml:"page_metadata"`
	Markers                  []Marker        `json:"markers" yaml:"markers"`
	Tables                   []Table         `json:"tables" yaml:"tables"`
	Annotations              []Annotation    `json:"annotations" yaml:"annotations"`
	PendingPerplexityLookups []PendingLookup `json:"pending_perplexity_lookups" yaml:"pending_perplexity_lookups"`
	Statistics               Statistics      `json:"statistics" yaml:"statistics"`
	QualityFlags             QualityFlags    `json:"quality_flags" yaml:"quality_flags"`
}
