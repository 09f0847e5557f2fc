// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/stavtech/marker-engine/pkg/types"
)

// Material specification patterns.
var (
	// materialWeightRe matches a named product with areal weight, e.g.
	// "GEOTEXTILIE 300g/m²" or "NETEX 500 g/m2". The left word boundary is
	// checked with wordStart; \b is ASCII-only and product names may start
	// with Š or Č.
	materialWeightRe = regexp.MustCompile(`([A-ZÁČĎÉĚÍŇÓŘŠŤÚŮÝŽ]{3,}(?:\s\d{2,4})?)\s+(\d{2,4})\s?g/m[²2]`)

	// materialFractionRe matches aggregate fractions like "FRAKCE 0/32".
	materialFractionRe = regexp.MustCompile(`\bFRAKCE\s+(\d{1,3})/(\d{1,3})\b`)

	// materialCementRe matches cement designations like "CEM II/B-S 32,5 R".
	materialCementRe = regexp.MustCompile(`\bCEM\s?(I{1,3}V?|V)(?:/([A-C])(?:-[A-Z]{1,2})?)?(?:\s+(\d{2}(?:[.,]5)?)\s?([RN])?)?`)
)

const materialPatternConf = 0.87

type materialExtractor struct{}

func (materialExtractor) Category() types.MarkerCategory { return types.CategoryMaterial }

// Extract finds layered-material specifications. Layer position and
// placement order derive from the order of material mentions within the
// page, not from any single pattern.
func (e materialExtractor) Extract(p *Page) []Candidate {
	var cands []Candidate

	for _, m := range materialWeightRe.FindAllStringSubmatchIndex(p.Text, -1) {
		if !wordStart(p.Text, m[0]) {
			continue
		}
		name := strings.Join(strings.Fields(p.Text[m[2]:m[3]]), " ")
		weight, _ := strconv.Atoi(p.Text[m[4]:m[5]])
		value, source, conf := lookupSource(p, e.Category(), name, materialPatternConf)
		cands = append(cands, Candidate{
			Marker: types.Marker{
				Category:   e.Category(),
				Type:       "geotextile",
				Value:      value,
				Source:     source,
				Confidence: conf,
				Material:   &types.MaterialSpec{Name: value, WeightGM2: weight},
			},
			Start: m[0],
			End:   m[1],
		})
	}

	for _, m := range materialFractionRe.FindAllStringSubmatchIndex(p.Text, -1) {
		if spanConsumed(cands, m[0], m[1]) {
			continue
		}
		lo, _ := strconv.Atoi(p.Text[m[2]:m[3]])
		hi, _ := strconv.Atoi(p.Text[m[4]:m[5]])
		cands = append(cands, Candidate{
			Marker: types.Marker{
				Category:   e.Category(),
				Type:       "aggregate",
				Value:      p.Text[m[2]:m[5]],
				Source:     types.SourcePattern,
				Confidence: materialPatternConf,
				Material:   &types.MaterialSpec{FractionMin: lo, FractionMax: hi},
			},
			Start: m[0],
			End:   m[1],
		})
	}

	for _, m := range materialCementRe.FindAllStringSubmatchIndex(p.Text, -1) {
		if spanConsumed(cands, m[0], m[1]) {
			continue
		}
		designation := strings.Join(strings.Fields(p.Text[m[0]:m[1]]), " ")
		value, source, conf := lookupSource(p, e.Category(), designation, materialPatternConf)
		cands = append(cands, Candidate{
			Marker: types.Marker{
				Category:   e.Category(),
				Type:       "cement",
				Value:      value,
				Source:     source,
				Confidence: conf,
				Material:   &types.MaterialSpec{Cement: value},
			},
			Start: m[0],
			End:   m[1],
		})
	}

	cands = append(cands, scanKnowledge(p, e.Category(), "product", cands, func(canonical string) types.Marker {
		return types.Marker{Material: &types.MaterialSpec{Name: canonical}}
	})...)

	// Layer position and placement order follow mention order on the page.
	// A knowledge-base hit is a mention like any other, so numbering runs
	// over the combined set.
	sortBySpan(cands)
	for i := range cands {
		cands[i].Marker.Material.LayerPosition = i + 1
		cands[i].Marker.Material.PlacementOrder = i + 1
	}

	return cands
}

func sortBySpan(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Start < cands[j].Start })
}
