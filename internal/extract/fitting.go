// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stavtech/marker-engine/pkg/types"
)

// fittingRe matches fitting geometry markers: a geometry letter, one or two
// diameters, and an optional angle, e.g. "K 110-45°", "T 125/110", "S 160".
var fittingRe = regexp.MustCompile(
	`\b([KRTS])\s?(\d{2,3})\b(?:/(\d{2,3})\b)?(?:\s*[-–]?\s*(\d{1,3}(?:[.,]\d)?)\s?°)?`)

// fittingTypes maps geometry letters to fitting subtypes.
var fittingTypes = map[string]string{
	"K": "knee",
	"R": "bend",
	"T": "tee",
	"S": "saddle",
}

const fittingPatternConf = 0.85

type fittingExtractor struct{}

func (fittingExtractor) Category() types.MarkerCategory { return types.CategoryFitting }

// Extract finds fitting geometry markers. An angle is kept only for knee
// and bend types; tees and saddles never carry one.
func (e fittingExtractor) Extract(p *Page) []Candidate {
	var cands []Candidate

	for _, m := range fittingRe.FindAllStringSubmatchIndex(p.Text, -1) {
		geometry := p.Text[m[2]:m[3]]
		subtype := fittingTypes[geometry]

		spec := &types.FittingSpec{Geometry: geometry}
		d1, _ := strconv.Atoi(p.Text[m[4]:m[5]])
		spec.DiametersMM = append(spec.DiametersMM, d1)
		if m[6] >= 0 {
			d2, _ := strconv.Atoi(p.Text[m[6]:m[7]])
			spec.DiametersMM = append(spec.DiametersMM, d2)
		}

		if m[8] >= 0 {
			if subtype != "knee" && subtype != "bend" {
				// An angle on a tee or saddle means the span is not a
				// fitting after all; drop rather than guess.
				continue
			}
			spec.AngleDeg, _ = strconv.ParseFloat(
				strings.ReplaceAll(p.Text[m[8]:m[9]], ",", "."), 64)
		}

		cands = append(cands, Candidate{
			Marker: types.Marker{
				Category:   e.Category(),
				Type:       subtype,
				Value:      p.Text[m[0]:m[1]],
				Source:     types.SourcePattern,
				Confidence: fittingPatternConf,
				Fitting:    spec,
			},
			Start: m[0],
			End:   m[1],
		})
	}

	return cands
}
