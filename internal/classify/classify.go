// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify labels a page as drawing, specification, annotation or
// profile from structural cues in the normalized text. Classification never
// fails: when no signal fires, or signals tie, the label is drawing so the
// rest of the pipeline is never blocked.
package classify

import (
	"regexp"
	"strings"

	"github.com/stavtech/marker-engine/pkg/types"
)

var (
	// dimensionTokenRe matches bare numeric and coordinate tokens that
	// dominate drawing sheets.
	dimensionTokenRe = regexp.MustCompile(`\b\d+(?:[.,]\d+)?\b`)

	// legendRe matches legend and footnote block headers typical of
	// annotation sheets. The Cyrillic alternative sits outside the \b
	// group: regexp's \b is ASCII-only and never fires next to it.
	legendRe = regexp.MustCompile(`(?i)(?:\b(?:LEGENDA|POZNÁMKY|POZN\.|VYSVĚTLIVKY|LEGENDE)|ПРИМЕЧАНИЯ)`)

	// profileVocabRe matches elevation and borehole vocabulary from
	// geotechnical profile sheets.
	profileVocabRe = regexp.MustCompile(`(?i)(?:\b(?:m\s?n\.\s?m\.|VRT|SONDA|HPV|NIVELETA|GEOLOGICK|HLADINA|BOHRUNG)|СКВАЖИНА)\w*`)

	// specVocabRe matches prose requirement vocabulary from specification
	// sheets.
	specVocabRe = regexp.MustCompile(`(?i)(?:\b(?:TECHNICKÁ ZPRÁVA|SPECIFIKACE|POŽADAVKY|PROVEDENÍ|MUSÍ|DLE|PODLE|POVINNĚ|GEMÄSS)|СОГЛАСНО)`)
)

// Page assigns a PageType from structural cues: density of dimension
// tokens versus tabular density versus legend blocks versus profile
// vocabulary.
func Page(text string, tableRegions int) types.PageType {
	tokens := len(strings.Fields(text))
	if tokens == 0 {
		return types.PageDrawing
	}

	numeric := len(dimensionTokenRe.FindAllString(text, -1))
	numericDensity := float64(numeric) / float64(tokens)

	scores := map[types.PageType]float64{
		types.PageDrawing:       0,
		types.PageSpecification: 0,
		types.PageAnnotation:    0,
		types.PageProfile:       0,
	}

	if numericDensity >= 0.25 {
		scores[types.PageDrawing] += 2
	}
	if tableRegions > 0 {
		scores[types.PageSpecification] += float64(tableRegions)
	}
	scores[types.PageSpecification] += float64(len(specVocabRe.FindAllString(text, -1)))
	scores[types.PageAnnotation] += 2 * float64(len(legendRe.FindAllString(text, -1)))
	scores[types.PageProfile] += 2 * float64(len(profileVocabRe.FindAllString(text, -1)))

	// Drawing wins ties: it is the most common page kind and the safe
	// default for every downstream stage.
	best := types.PageDrawing
	bestScore := scores[types.PageDrawing]
	for _, pt := range []types.PageType{types.PageProfile, types.PageAnnotation, types.PageSpecification} {
		if scores[pt] > bestScore {
			best = pt
			bestScore = scores[pt]
		}
	}
	return best
}
