// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stavtech/marker-engine/pkg/types"
)

// Slope patterns.
var (
	// slopeRe matches percentage and degree slopes: "2%", "1,5 %", "35°".
	slopeRe = regexp.MustCompile(`\b(\d{1,2}(?:[.,]\d{1,2})?)\s?(%|°)`)

	// slopeMandatoryRe and slopeRecommendedRe grade the enforcement level
	// from the vocabulary around the numeric pattern. No trailing \b: it is
	// ASCII-only and never fires after Í or Ě.
	slopeMandatoryRe   = regexp.MustCompile(`(?i)\b(MIN\.?|POVINNĚ|MUSÍ|NEJMÉNĚ|MINDESTENS)`)
	slopeRecommendedRe = regexp.MustCompile(`(?i)\b(DOPORUČEN|EMPFOHLEN)`)

	// slopeAnnotationRe finds the nearest preceding annotation number.
	slopeAnnotationRe = regexp.MustCompile(`(?i)(?:POZN\.?|POZNÁMKA)\s*(?:č\.\s*)?(\d{1,2})`)
)

const slopePatternConf = 0.85

// slopeVicinity bounds how far around the numeric span the enforcement
// vocabulary and annotation link are searched.
const slopeVicinity = 60

type slopeExtractor struct{}

func (slopeExtractor) Category() types.MarkerCategory { return types.CategorySlope }

// Extract finds slope requirements. The enforcement level comes from the
// surrounding vocabulary; a slope linked to a preceding annotation number
// carries the combined provenance tag.
func (e slopeExtractor) Extract(p *Page) []Candidate {
	var cands []Candidate

	for _, m := range slopeRe.FindAllStringSubmatchIndex(p.Text, -1) {
		value, err := strconv.ParseFloat(strings.ReplaceAll(p.Text[m[2]:m[3]], ",", "."), 64)
		if err != nil {
			continue
		}

		unit := "percent"
		if p.Text[m[4]:m[5]] == "°" {
			unit = "degree"
		}

		before := p.Text[clampLow(m[0]-slopeVicinity):m[0]]
		after := p.Text[m[1]:clampHigh(m[1]+slopeVicinity, len(p.Text))]

		spec := &types.SlopeSpec{Value: value, Unit: unit, EnforcementLevel: types.SlopeOptional}
		switch {
		case slopeMandatoryRe.MatchString(before) || slopeMandatoryRe.MatchString(after):
			spec.EnforcementLevel = types.SlopeMandatory
		case slopeRecommendedRe.MatchString(before) || slopeRecommendedRe.MatchString(after):
			spec.EnforcementLevel = types.SlopeRecommended
		}

		source := types.SourcePattern
		if links := slopeAnnotationRe.FindAllStringSubmatch(before, -1); len(links) > 0 {
			// Nearest preceding annotation wins.
			spec.AnnotationNumber = links[len(links)-1][1]
			source = types.SourceCombined
		}

		cands = append(cands, Candidate{
			Marker: types.Marker{
				Category:   e.Category(),
				Type:       unit,
				Value:      p.Text[m[2]:m[3]] + p.Text[m[4]:m[5]],
				Source:     source,
				Confidence: slopePatternConf,
				Slope:      spec,
			},
			Start: m[0],
			End:   m[1],
		})
	}

	return cands
}

func clampLow(i int) int {
	if i < 0 {
		return 0
	}
	return i
}

func clampHigh(i, max int) int {
	if i > max {
		return max
	}
	return i
}
