// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stavtech/marker-engine/pkg/types"
)

// Protection patterns.
var (
	// protectionRe matches coating and sleeve vocabulary across the
	// document languages. ЗАЩИТА sits outside the \b group: \b is
	// ASCII-only and never fires next to Cyrillic letters.
	protectionRe = regexp.MustCompile(
		`(?i)(?:\b(?:CHRÁNIČKA|CHRÁNIČCE|NÁTĚR|IZOLACE|OBSYP|OCHRANNÁ?\s+(?:VRSTVA|TRUBKA)|SCHUTZROHR|ANSTRICH)\b|ЗАЩИТА)`)

	// protectionDNRe finds pipe diameters inside the treatment's context
	// block.
	protectionDNRe = regexp.MustCompile(`\bDN\s?(\d{2,4})\b`)
)

// protectionKinds normalizes matched vocabulary to a treatment kind.
var protectionKinds = []struct {
	prefix string
	kind   string
}{
	{"CHRÁNIČ", "sleeve"},
	{"SCHUTZROHR", "sleeve"},
	{"OCHRANNÁ TRUBKA", "sleeve"},
	{"NÁTĚR", "coating"},
	{"ANSTRICH", "coating"},
	{"IZOLACE", "insulation"},
	{"OBSYP", "bedding"},
}

const protectionPatternConf = 0.85

// protectionBlock bounds the context block DN sizes are aggregated from.
const protectionBlock = 80

type protectionExtractor struct{}

func (protectionExtractor) Category() types.MarkerCategory { return types.CategoryProtection }

// Extract finds protective-treatment markers and aggregates the pipe
// diameters mentioned in the same context block.
func (e protectionExtractor) Extract(p *Page) []Candidate {
	var cands []Candidate

	for _, m := range protectionRe.FindAllStringSubmatchIndex(p.Text, -1) {
		word := p.Text[m[0]:m[1]]
		value, source, conf := lookupSource(p, e.Category(), word, protectionPatternConf)

		block := p.Text[clampLow(m[0]-protectionBlock):clampHigh(m[1]+protectionBlock, len(p.Text))]
		var sizes []int
		for _, dn := range protectionDNRe.FindAllStringSubmatch(block, -1) {
			n, _ := strconv.Atoi(dn[1])
			sizes = append(sizes, n)
		}

		cands = append(cands, Candidate{
			Marker: types.Marker{
				Category:   e.Category(),
				Type:       protectionKind(word),
				Value:      value,
				Source:     source,
				Confidence: conf,
				Protection: &types.ProtectionSpec{Kind: protectionKind(word), DNSizes: sizes},
			},
			Start: m[0],
			End:   m[1],
		})
	}

	return cands
}

// protectionKind maps matched vocabulary to a normalized treatment kind.
func protectionKind(word string) string {
	upper := strings.ToUpper(strings.Join(strings.Fields(word), " "))
	for _, k := range protectionKinds {
		if strings.HasPrefix(upper, k.prefix) {
			return k.kind
		}
	}
	return "protection"
}
