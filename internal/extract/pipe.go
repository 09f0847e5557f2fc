// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stavtech/marker-engine/pkg/types"
)

// pipeRe matches a diameter designation like "DN 125", optionally prefixed
// by one or two material tags: "PVC KG DN 125", "PE DN50". The \b sits
// before DN, not before the material: it is ASCII-only and would never
// fire in front of СТАЛЬ.
var pipeRe = regexp.MustCompile(
	`((?:(?:PVC|PE|PP|PPR|HDPE|KG|HT|LT|OCEL|LITINA|KAMENINA|STAHL|СТАЛЬ)\s+){0,2})\bDN\s?(\d{2,4})\b`)

const pipePatternConf = 0.88

type pipeExtractor struct{}

func (pipeExtractor) Category() types.MarkerCategory { return types.CategoryPipe }

// Extract finds pipe runs. Purposes and installation contexts come from
// the context window keyword set later, not from the numeric pattern.
func (e pipeExtractor) Extract(p *Page) []Candidate {
	var cands []Candidate

	for _, m := range pipeRe.FindAllStringSubmatchIndex(p.Text, -1) {
		material := strings.Join(strings.Fields(p.Text[m[2]:m[3]]), " ")
		diameter, _ := strconv.Atoi(p.Text[m[4]:m[5]])

		value := "DN " + p.Text[m[4]:m[5]]
		if material != "" {
			value = material + " " + value
		}
		value, source, conf := lookupSource(p, e.Category(), value, pipePatternConf)

		cands = append(cands, Candidate{
			Marker: types.Marker{
				Category:   e.Category(),
				Type:       "diameter",
				Value:      value,
				Source:     source,
				Confidence: conf,
				Pipe:       &types.PipeSpec{Material: material, DiameterMM: diameter},
			},
			Start: m[0],
			End:   m[1],
		})
	}

	return cands
}
