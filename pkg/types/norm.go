// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// NormResolutionType records whether a detected norm designation was found
// in the knowledge snapshot.
type NormResolutionType string

const (
	// NormKBKnown means the designation resolved against the snapshot.
	NormKBKnown NormResolutionType = "kb_known"

	// NormUnknown means the designation needs the external resolver.
	NormUnknown NormResolutionType = "unknown"
)

// NormReference is a detected normative-standard designation such as
// "ČSN 73 6005" or "VDI 2035". Detection leaves Type and
// PerplexityLookupRequired unset; the resolution classifier fills them.
type NormReference struct {
	// Designation is the normalized "letters digits" form. It is the merge
	// key for repeated references; FullDesignation is not.
	Designation string `json:"designation" yaml:"designation"`

	// FullDesignation preserves the designation with section/clause suffix
	// as it appeared in the text.
	FullDesignation string `json:"full_designation,omitempty" yaml:"full_designation,omitempty"`

	// Section and Clause are parsed opportunistically from trailing
	// "oddíl N" / "§ N" style suffixes.
	Section string `json:"section,omitempty" yaml:"section,omitempty"`
	Clause  string `json:"clause,omitempty" yaml:"clause,omitempty"`

	// AppliesTo is the domain tag derived from context analysis.
	AppliesTo string `json:"applies_to,omitempty" yaml:"applies_to,omitempty"`

	// Type is kb_known or unknown once the resolution classifier has run.
	Type NormResolutionType `json:"type,omitempty" yaml:"type,omitempty"`

	// PerplexityLookupRequired mirrors Type == unknown after classification.
	// Both default to false before classification runs.
	PerplexityLookupRequired bool `json:"perplexity_lookup_required" yaml:"perplexity_lookup_required"`

	// Fields patched back from the external resolver. Overwriting them with
	// a replayed result is safe.
	FullName    string `json:"full_name,omitempty" yaml:"full_name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Country     string `json:"country,omitempty" yaml:"country,omitempty"`
	Field       string `json:"field,omitempty" yaml:"field,omitempty"`
}

// Key returns the designation+section identity used for resolver patching.
func (n NormReference) Key() string {
	return n.Designation + "|" + n.Section
}

// Annotation is a numbered free-text requirement or warning.
type Annotation struct {
	Number   string `json:"number" yaml:"number"`
	Text     string `json:"text" yaml:"text"`
	Severity string `json:"severity" yaml:"severity"`

	// CrossReferences lists norm designations cited inside the annotation.
	CrossReferences []string `json:"cross_references,omitempty" yaml:"cross_references,omitempty"`

	// RelatedElements lists domain keywords the annotation applies to.
	RelatedElements []string `json:"related_elements,omitempty" yaml:"related_elements,omitempty"`
}

// PendingLookup is the projection of an unresolved NormReference handed to
// the external resolver.
type PendingLookup struct {
	Designation string  `json:"designation" yaml:"designation"`
	Section     string  `json:"section,omitempty" yaml:"section,omitempty"`
	AppliesTo   string  `json:"applies_to,omitempty" yaml:"applies_to,omitempty"`
	Context     string  `json:"context" yaml:"context"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
}

// ResolverBatch is one fire-and-forget request to the external norm
// resolver. The engine never calls the resolver itself; it only emits
// batches and later applies results.
type ResolverBatch struct {
	BatchID string          `json:"batch_id" yaml:"batch_id"`
	Lookups []PendingLookup `json:"lookups" yaml:"lookups"`
}

// ResolverResult is one resolved designation coming back from the external
// resolver. Results are merged by designation+section and tolerate
// re-delivery and partial batches.
type ResolverResult struct {
	Designation string `json:"designation" yaml:"designation"`
	Section     string `json:"section,omitempty" yaml:"section,omitempty"`
	FullName    string `json:"full_name" yaml:"full_name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Country     string `json:"country,omitempty" yaml:"country,omitempty"`
	Field       string `json:"field,omitempty" yaml:"field,omitempty"`
}

// Key returns the designation+section identity used for patch matching.
func (r ResolverResult) Key() string {
	return r.Designation + "|" + r.Section
}
