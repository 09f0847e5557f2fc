// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/stavtech/marker-engine/pkg/types"
)

// Rebar patterns.
var (
	// rebarBarRe matches a count-diameter pair like "10φ12", "4 ø16" or
	// "8Ø25".
	rebarBarRe = regexp.MustCompile(`\b(\d{1,3})\s?[φøØ⌀](\d{1,2})\b`)

	// rebarClassRe matches bare reinforcement class designations: European
	// B-classes ("B500B") and Russian A-classes ("A-III").
	rebarClassRe = regexp.MustCompile(`\b(B\s?500[A-C]?|B\s?420[A-C]?|A-(?:I{1,3}|IV|V))\b`)
)

const rebarPatternConf = 0.88

type rebarExtractor struct{}

func (rebarExtractor) Category() types.MarkerCategory { return types.CategoryRebar }

// Extract finds reinforcement markers. A class designation alone is a valid
// marker with bar count and diameter absent.
func (e rebarExtractor) Extract(p *Page) []Candidate {
	var cands []Candidate

	for _, m := range rebarBarRe.FindAllStringSubmatchIndex(p.Text, -1) {
		count, _ := strconv.Atoi(p.Text[m[2]:m[3]])
		diameter, _ := strconv.Atoi(p.Text[m[4]:m[5]])
		value := fmt.Sprintf("%dφ%d", count, diameter)

		cands = append(cands, Candidate{
			Marker: types.Marker{
				Category:   e.Category(),
				Type:       "bars",
				Value:      value,
				Source:     types.SourcePattern,
				Confidence: rebarPatternConf,
				Rebar:      &types.RebarSpec{BarCount: count, DiameterMM: diameter},
			},
			Start: m[0],
			End:   m[1],
		})
	}

	for _, m := range rebarClassRe.FindAllStringSubmatchIndex(p.Text, -1) {
		if spanConsumed(cands, m[0], m[1]) {
			continue
		}
		class := canonicalClass(p.Text[m[2]:m[3]])
		value, source, conf := lookupSource(p, e.Category(), class, 0.85)
		cands = append(cands, Candidate{
			Marker: types.Marker{
				Category:   e.Category(),
				Type:       "class",
				Value:      value,
				Source:     source,
				Confidence: conf,
				Rebar:      &types.RebarSpec{Class: value},
			},
			Start: m[0],
			End:   m[1],
		})
	}

	return append(cands, scanKnowledge(p, e.Category(), "class", cands, func(canonical string) types.Marker {
		return types.Marker{Rebar: &types.RebarSpec{Class: canonical}}
	})...)
}
