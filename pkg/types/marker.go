// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MarkerCategory identifies which extractor produced a marker. It is fixed
// at creation and never changes through merges.
type MarkerCategory string

const (
	CategoryConcrete   MarkerCategory = "concrete"
	CategoryRebar      MarkerCategory = "rebar"
	CategoryPipe       MarkerCategory = "pipe"
	CategoryFitting    MarkerCategory = "fitting"
	CategoryDimension  MarkerCategory = "dimension"
	CategorySlope      MarkerCategory = "slope"
	CategoryMaterial   MarkerCategory = "material"
	CategoryProtection MarkerCategory = "protection"
	CategoryAnnotation MarkerCategory = "annotation"
	CategoryNormRef    MarkerCategory = "norm_reference"
)

// MarkerSource records which evidence source produced a marker.
type MarkerSource string

const (
	SourceKnowledgeBase MarkerSource = "knowledge-base"
	SourcePattern       MarkerSource = "pattern"
	// SourceCombined marks slope markers whose enforcement level needed an
	// accompanying annotation on top of the numeric pattern.
	SourceCombined MarkerSource = "knowledge-base+pattern"
)

// Marker is a typed entity extracted from a page. The envelope fields
// (category, type, value, confidence, source, context) are common to all
// categories; exactly one of the detail pointers is set, matching Category.
type Marker struct {
	// Category is the extractor family that produced this marker.
	Category MarkerCategory `json:"category" yaml:"category"`

	// Type is the category-specific subtype (e.g. "class", "diameter", "knee").
	Type string `json:"type" yaml:"type"`

	// Value is the canonical string for the matched token.
	Value string `json:"value" yaml:"value"`

	// Confidence lies in [0,1]. Knowledge-matched markers start in
	// [0.95,1.0], pattern-matched in [0.80,0.95]. Merges keep the maximum;
	// confidence is never raised otherwise.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Source is the provenance tag for the evidence that produced the marker.
	Source MarkerSource `json:"source" yaml:"source"`

	// Context is the verbatim token window around the matched span.
	Context string `json:"context" yaml:"context"`

	// Count is the number of raw occurrences folded into this marker.
	Count int `json:"count,omitempty" yaml:"count,omitempty"`

	// Occurrences lists the context of each merged occurrence, in order.
	Occurrences []string `json:"occurrences,omitempty" yaml:"occurrences,omitempty"`

	// Semantic tags derived by context analysis.
	AppliesTo    string `json:"applies_to,omitempty" yaml:"applies_to,omitempty"`
	Purpose      string `json:"purpose,omitempty" yaml:"purpose,omitempty"`
	Location     string `json:"location,omitempty" yaml:"location,omitempty"`
	Installation string `json:"installation,omitempty" yaml:"installation,omitempty"`

	// CrossReferences lists norm designations or annotation numbers that
	// appear inside this marker's context window.
	CrossReferences []string `json:"cross_references,omitempty" yaml:"cross_references,omitempty"`

	// Category-specific details. At most one is non-nil.
	Concrete   *ConcreteSpec   `json:"concrete,omitempty" yaml:"concrete,omitempty"`
	Rebar      *RebarSpec      `json:"rebar,omitempty" yaml:"rebar,omitempty"`
	Pipe       *PipeSpec       `json:"pipe,omitempty" yaml:"pipe,omitempty"`
	Fitting    *FittingSpec    `json:"fitting,omitempty" yaml:"fitting,omitempty"`
	Dimension  *DimensionSpec  `json:"dimension,omitempty" yaml:"dimension,omitempty"`
	Slope      *SlopeSpec      `json:"slope,omitempty" yaml:"slope,omitempty"`
	Material   *MaterialSpec   `json:"material,omitempty" yaml:"material,omitempty"`
	Protection *ProtectionSpec `json:"protection,omitempty" yaml:"protection,omitempty"`
	Norm       *NormReference  `json:"norm,omitempty" yaml:"norm,omitempty"`
}

// MergeKey returns the identity under which the deduplicator folds raw
// candidates. The default is category+type+value; norm references merge on
// designation alone.
func (m Marker) MergeKey() string {
	if m.Category == CategoryNormRef && m.Norm != nil {
		return string(CategoryNormRef) + "|" + m.Norm.Designation
	}
	return string(m.Category) + "|" + m.Type + "|" + m.Value
}

// ConcreteSpec holds attributes parsed from a concrete class designation
// like "C30/37-XA2, XC2 50/60".
type ConcreteSpec struct {
	// Exposure is the ordered list of exposure codes (e.g. XA2, XC2).
	Exposure []string `json:"exposure,omitempty" yaml:"exposure,omitempty"`

	// CoverMM is the outer concrete cover in millimetres.
	CoverMM int `json:"cover_mm,omitempty" yaml:"cover_mm,omitempty"`

	// CoverInnerMM is the inner cover of the outer/inner pair.
	CoverInnerMM int `json:"cover_inner_mm,omitempty" yaml:"cover_inner_mm,omitempty"`
}

// RebarSpec holds attributes of a reinforcement marker. A bare class
// designation leaves BarCount and DiameterMM at zero.
type RebarSpec struct {
	Class      string `json:"class,omitempty" yaml:"class,omitempty"`
	BarCount   int    `json:"bar_count,omitempty" yaml:"bar_count,omitempty"`
	DiameterMM int    `json:"diameter_mm,omitempty" yaml:"diameter_mm,omitempty"`
}

// PipeSpec holds attributes of a pipe run marker.
type PipeSpec struct {
	Material   string `json:"material,omitempty" yaml:"material,omitempty"`
	DiameterMM int    `json:"diameter_mm,omitempty" yaml:"diameter_mm,omitempty"`

	// Purposes and InstallationContexts come from the context window keyword
	// sets, not from the numeric pattern. Merges append in occurrence order.
	Purposes             []string `json:"purposes,omitempty" yaml:"purposes,omitempty"`
	InstallationContexts []string `json:"installation_contexts,omitempty" yaml:"installation_contexts,omitempty"`
}

// FittingSpec holds attributes of a fitting geometry marker.
type FittingSpec struct {
	// Geometry is the raw geometry letter: K, R, T or S.
	Geometry string `json:"geometry" yaml:"geometry"`

	DiametersMM []int `json:"diameters_mm,omitempty" yaml:"diameters_mm,omitempty"`

	// AngleDeg is set only for knee and bend types.
	AngleDeg float64 `json:"angle_deg,omitempty" yaml:"angle_deg,omitempty"`

	// Positions lists the context of each merged occurrence, in order.
	Positions []string `json:"positions,omitempty" yaml:"positions,omitempty"`
}

// DimensionSpec holds a single numeric dimension. Adjacent numbers are
// never folded into one value; each numeric token is its own marker.
type DimensionSpec struct {
	Value float64 `json:"value" yaml:"value"`

	// Unit is "mm" unless an explicit suffix or "m n.m." elevation form
	// overrides the default.
	Unit string `json:"unit" yaml:"unit"`
}

// SlopeEnforcement grades how binding a slope requirement is.
type SlopeEnforcement string

const (
	SlopeMandatory   SlopeEnforcement = "mandatory"
	SlopeRecommended SlopeEnforcement = "recommended"
	SlopeOptional    SlopeEnforcement = "optional"
)

// SlopeSpec holds attributes of a slope requirement marker.
type SlopeSpec struct {
	Value float64 `json:"value" yaml:"value"`

	// Unit is "percent" or "degree".
	Unit string `json:"unit" yaml:"unit"`

	EnforcementLevel SlopeEnforcement `json:"enforcement_level" yaml:"enforcement_level"`

	// AnnotationNumber links to the nearest preceding annotation, when one
	// exists inside the context window.
	AnnotationNumber string `json:"annotation_number,omitempty" yaml:"annotation_number,omitempty"`
}

// MaterialSpec holds attributes of a layered-material marker.
type MaterialSpec struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	WeightGM2   int    `json:"weight_g_m2,omitempty" yaml:"weight_g_m2,omitempty"`
	FractionMin int    `json:"fraction_min,omitempty" yaml:"fraction_min,omitempty"`
	FractionMax int    `json:"fraction_max,omitempty" yaml:"fraction_max,omitempty"`
	Cement      string `json:"cement,omitempty" yaml:"cement,omitempty"`

	// LayerPosition and PlacementOrder derive from the ordering of material
	// mentions within the page, not from the pattern itself.
	LayerPosition  int `json:"layer_position,omitempty" yaml:"layer_position,omitempty"`
	PlacementOrder int `json:"placement_order,omitempty" yaml:"placement_order,omitempty"`
}

// ProtectionSpec holds attributes of a protective-treatment marker.
type ProtectionSpec struct {
	Kind string `json:"kind" yaml:"kind"`

	// DNSizes aggregates the pipe diameters mentioned in the same context
	// block as the treatment.
	DNSizes []int `json:"dn_sizes,omitempty" yaml:"dn_sizes,omitempty"`
}
