// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stavtech/marker-engine/pkg/types"
)

// Concrete class patterns.
var (
	// concreteFullRe matches a class with exposure list and optional cover
	// pair, e.g. "C30/37-XA2, XC2 50/60" or "C25/30-XC1".
	concreteFullRe = regexp.MustCompile(
		`\b(C\s?\d{1,3}/\d{1,3})\s*[-–]\s*((?:X[A-Z]\d(?:,\s*)?)+)(?:\s+(\d{1,3})/(\d{1,3})\b)?`)

	// concreteClassRe matches a bare class designation like "C30/37" or
	// the legacy "B20" form.
	concreteClassRe = regexp.MustCompile(`\b(C\s?\d{1,3}/\d{1,3}|B\s?\d{1,2}\.?5?)\b`)

	exposureCodeRe = regexp.MustCompile(`X[A-Z]\d`)
)

const concretePatternConf = 0.90

type concreteExtractor struct{}

func (concreteExtractor) Category() types.MarkerCategory { return types.CategoryConcrete }

// Extract finds concrete class designations. The full form carries the
// exposure list (ordered) and the outer/inner cover pair in millimetres;
// the class value alone decides the knowledge-base match.
func (e concreteExtractor) Extract(p *Page) []Candidate {
	var cands []Candidate

	for _, m := range concreteFullRe.FindAllStringSubmatchIndex(p.Text, -1) {
		class := canonicalClass(p.Text[m[2]:m[3]])
		value, source, conf := lookupSource(p, e.Category(), class, concretePatternConf)

		spec := &types.ConcreteSpec{
			Exposure: exposureCodeRe.FindAllString(p.Text[m[4]:m[5]], -1),
		}
		if m[6] >= 0 {
			spec.CoverMM, _ = strconv.Atoi(p.Text[m[6]:m[7]])
			spec.CoverInnerMM, _ = strconv.Atoi(p.Text[m[8]:m[9]])
		}

		cands = append(cands, Candidate{
			Marker: types.Marker{
				Category:   e.Category(),
				Type:       "class",
				Value:      value,
				Source:     source,
				Confidence: conf,
				Concrete:   spec,
			},
			Start: m[0],
			End:   m[1],
		})
	}

	for _, m := range concreteClassRe.FindAllStringSubmatchIndex(p.Text, -1) {
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
				Concrete:   &types.ConcreteSpec{},
			},
			Start: m[0],
			End:   m[1],
		})
	}

	return append(cands, scanKnowledge(p, e.Category(), "class", cands, func(canonical string) types.Marker {
		return types.Marker{Concrete: &types.ConcreteSpec{}}
	})...)
}

// canonicalClass strips interior whitespace: "C 30/37" → "C30/37".
func canonicalClass(class string) string {
	return strings.ReplaceAll(class, " ", "")
}
