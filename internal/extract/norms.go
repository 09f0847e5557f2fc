// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/stavtech/marker-engine/pkg/types"
)

// Norm designation patterns. Detection is category-agnostic and knowledge-
// blind: every "letters digits" designation becomes a candidate, and the
// resolution classifier decides known vs unknown separately so detection
// recall does not depend on snapshot coverage.
var (
	// normRe matches designations like "ČSN 73 6005", "EN 1401",
	// "VDI 2035", "ГОСТ 8732" or "DIN 4060/1". No \b on the left: Č and
	// Cyrillic initials are outside regexp's ASCII word class, so the
	// word boundary is checked with wordStart instead.
	normRe = regexp.MustCompile(
		`(\p{Lu}{2,6}(?:\s\p{Lu}{2,3})?)\s?(\d{2,3}\s\d{3,5}|\d{3,6})(?:\s*/\s*(\d{1,4}))?`)

	// normSuffixRe parses a trailing section or clause reference directly
	// after the designation.
	normSuffixRe = regexp.MustCompile(
		`^[\s,]*(?:(§)\s*(\d+)|(?:odd\.|oddíl|razdíl|část|раздел|Abschnitt)\s+(\d+))`)
)

// normPrefixStoplist holds letter groups that pattern like a norm body but
// designate pipe and pressure classes instead.
var normPrefixStoplist = map[string]bool{
	"DN": true,
	"PN": true,
	"KG": true,
	"HT": true,
}

const normDetectConf = 0.70

// stoplistedLetters reports whether any word of the letter group is a pipe
// or pressure class tag. "KG DN 125" must not become a designation even
// though "KG DN" as a whole is not in the stoplist.
func stoplistedLetters(letters string) bool {
	for _, w := range strings.Fields(letters) {
		if normPrefixStoplist[w] {
			return true
		}
	}
	return false
}

// DesignationsIn returns the normalized norm designations appearing in a
// text fragment. Used for cross-reference detection inside context windows.
func DesignationsIn(text string) []string {
	var out []string
	for _, m := range normRe.FindAllStringSubmatchIndex(text, -1) {
		if !wordStart(text, m[0]) {
			continue
		}
		letters := strings.Join(strings.Fields(text[m[2]:m[3]]), " ")
		if stoplistedLetters(letters) {
			continue
		}
		out = append(out, letters+" "+strings.Join(strings.Fields(text[m[4]:m[5]]), " "))
	}
	return out
}

// NoteRefsIn returns annotation numbers referenced in a text fragment.
func NoteRefsIn(text string) []string {
	var out []string
	for _, m := range slopeAnnotationRe.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

// DetectNorms scans the whole page for normative-standard designations.
// Type and perplexity_lookup_required are left unset here; the resolution
// classifier fills them.
func DetectNorms(p *Page) []Candidate {
	var cands []Candidate

	for _, m := range normRe.FindAllStringSubmatchIndex(p.Text, -1) {
		if !wordStart(p.Text, m[0]) {
			continue
		}
		letters := strings.Join(strings.Fields(p.Text[m[2]:m[3]]), " ")
		if stoplistedLetters(letters) {
			continue
		}
		digits := strings.Join(strings.Fields(p.Text[m[4]:m[5]]), " ")
		designation := letters + " " + digits

		norm := &types.NormReference{
			Designation:     designation,
			FullDesignation: strings.Join(strings.Fields(p.Text[m[0]:m[1]]), " "),
		}
		if m[6] >= 0 {
			norm.Section = p.Text[m[6]:m[7]]
		}

		end := m[1]
		if suffix := normSuffixRe.FindStringSubmatch(p.Text[end:]); suffix != nil {
			if suffix[1] == "§" {
				norm.Clause = suffix[2]
			} else if norm.Section == "" {
				norm.Section = suffix[3]
			}
			loc := normSuffixRe.FindStringIndex(p.Text[end:])
			norm.FullDesignation = strings.Join(strings.Fields(p.Text[m[0]:end+loc[1]]), " ")
			end += loc[1]
		}

		conf := normDetectConf
		if norm.Section != "" || norm.Clause != "" {
			conf = 0.75
		}

		cands = append(cands, Candidate{
			Marker: types.Marker{
				Category:   types.CategoryNormRef,
				Type:       "reference",
				Value:      designation,
				Source:     types.SourcePattern,
				Confidence: conf,
				Norm:       norm,
			},
			Start: m[0],
			End:   end,
		})
	}

	return cands
}
