// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stavtech/marker-engine/pkg/types"
)

// dimensionTokenRe matches a purely numeric token with an optional attached
// unit suffix, e.g. "900", "1575", "12,5", "450mm".
var dimensionTokenRe = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)(mm|cm|m)?$`)

const dimensionPatternConf = 0.80

type dimensionExtractor struct{}

func (dimensionExtractor) Category() types.MarkerCategory { return types.CategoryDimension }

// Extract emits one candidate per numeric token. Adjacent numbers are
// never folded into one value: "900 1575" is two markers. The unit is mm
// unless an explicit suffix or the "m n.m." elevation form follows.
func (e dimensionExtractor) Extract(p *Page) []Candidate {
	var cands []Candidate

	for i, tok := range p.Tokens {
		m := dimensionTokenRe.FindStringSubmatch(strings.TrimRight(tok.Text, ",.;"))
		if m == nil {
			continue
		}

		value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil {
			continue
		}

		unit := m[2]
		if unit == "" {
			unit = followingUnit(p.Tokens, i)
		}
		if unit == "" {
			unit = "mm"
		}

		cands = append(cands, Candidate{
			Marker: types.Marker{
				Category:   e.Category(),
				Type:       "length",
				Value:      m[1],
				Source:     types.SourcePattern,
				Confidence: dimensionPatternConf,
				Dimension:  &types.DimensionSpec{Value: value, Unit: unit},
			},
			Start: tok.Start,
			End:   tok.End,
		})
	}

	return cands
}

// followingUnit inspects the tokens after a numeric token for an explicit
// unit or the "m n.m." above-sea-level form.
func followingUnit(tokens []Token, i int) string {
	if i+1 >= len(tokens) {
		return ""
	}
	next := strings.TrimRight(tokens[i+1].Text, ",.;")
	switch next {
	case "mm", "cm":
		return next
	case "m":
		if i+2 < len(tokens) && strings.HasPrefix(tokens[i+2].Text, "n.m") {
			return "m n.m."
		}
		return "m"
	}
	return ""
}
