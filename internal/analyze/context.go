// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze attaches context to raw marker candidates: a bounded
// token window around the matched span, semantic tags derived from keyword
// vocabularies, and cross references to norms and annotations. Context
// capture never alters a candidate's value or confidence.
package analyze

import (
	"regexp"
	"sort"
	"strings"

	"github.com/stavtech/marker-engine/internal/extract"
	"github.com/stavtech/marker-engine/pkg/types"
)

// tagRule binds a semantic tag to its keyword vocabulary.
type tagRule struct {
	tag string
	re  *regexp.Regexp
}

// domainRules map context vocabulary to applies_to domain tags, in priority
// order. The first matching rule wins; no match means "general". Ž, Ú and
// Cyrillic initials sit outside the \b groups: regexp's \b is ASCII-only
// and never fires next to them.
var domainRules = []tagRule{
	{"concrete", regexp.MustCompile(`(?i)(?:\b(?:BETON|ZÁKLAD)|ŽELEZOBETON|БЕТОН)\w*`)},
	{"rebar", regexp.MustCompile(`(?i)(?:\b(?:VÝZTUŽ|ARMATUR|TŘMÍNK|BEWEHRUNG)|АРМАТУР)\w*`)},
	{"pipe", regexp.MustCompile(`(?i)(?:\b(?:POTRUBÍ|TRUBK|KANALIZA|ROHR)|ТРУБ)\w*`)},
	{"water", regexp.MustCompile(`(?i)(?:\b(?:VODA|VODOVOD|VODY|WASSER)|ВОДА)\w*`)},
	{"heating", regexp.MustCompile(`(?i)(?:\b(?:TOPENÍ|VYTÁPĚNÍ|HEIZUNG)|ÚSTŘEDNÍ|ОТОПЛЕНИ)\w*`)},
	{"electrical", regexp.MustCompile(`(?i)(?:\b(?:ELEKTRO|KABEL|SILNOPROUD)|ЭЛЕКТРО)\w*`)},
	{"ventilation", regexp.MustCompile(`(?i)(?:\b(?:VZT\b|VZDUCHOTECHNIK|LÜFTUNG)|ВЕНТИЛЯЦИ)\w*`)},
	{"gas", regexp.MustCompile(`(?i)(?:\b(?:PLYN|GAS\b)|ГАЗ)\w*`)},
}

// purposeRules map context vocabulary to pipe-purpose tags.
var purposeRules = []tagRule{
	{"sewage", regexp.MustCompile(`(?i)\b(SPLAŠKOV|KANALIZA)\w*`)},
	{"rainwater", regexp.MustCompile(`(?i)\b(DEŠŤOV|SRÁŽKOV)\w*`)},
	{"drainage", regexp.MustCompile(`(?i)\b(DRENÁŽ|ODVODNĚN)\w*`)},
	{"potable", regexp.MustCompile(`(?i)\b(PITN)\w*`)},
	{"fire", regexp.MustCompile(`(?i)\b(POŽÁRN)\w*`)},
	{"protection", regexp.MustCompile(`(?i)\b(OCHRAN)\w*`)},
}

// locationRules map context vocabulary to location tags.
var locationRules = []tagRule{
	{"foundation", regexp.MustCompile(`(?i)\b(ZÁKLAD|PATK)\w*`)},
	{"basement", regexp.MustCompile(`(?i)\b(SUTERÉN|1\.PP)\w*`)},
	{"ceiling", regexp.MustCompile(`(?i)\b(STROP)\w*`)},
	{"roof", regexp.MustCompile(`(?i)\b(STŘECH|STŘEŠN)\w*`)},
	{"wall", regexp.MustCompile(`(?i)\b(STĚN|ZDIV)\w*`)},
	{"floor", regexp.MustCompile(`(?i)\b(PODLAH)\w*`)},
}

// installationRules map context vocabulary to installation tags.
var installationRules = []tagRule{
	{"buried", regexp.MustCompile(`(?i)\b(V\s?ZEMI|ULOŽEN|VÝKOP|ZÁSYP)\w*`)},
	{"suspended", regexp.MustCompile(`(?i)\b(POD\s?STROPEM|ZAVĚŠEN)\w*`)},
	{"chased", regexp.MustCompile(`(?i)\b(V\s?DRÁŽCE|DRÁŽK)\w*`)},
	{"surface", regexp.MustCompile(`(?i)\b(NA\s?POVRCHU|POVRCHOV)\w*`)},
}

// Analyze attaches the token window and derived tags to every candidate in
// place. window is the token count captured on each side, clipped at page
// boundaries.
func Analyze(p *extract.Page, cands []extract.Candidate, window int) {
	for i := range cands {
		ctx := Window(p, cands[i].Start, cands[i].End, window)
		m := &cands[i].Marker

		m.Context = ctx
		m.AppliesTo = firstTag(domainRules, ctx, "general")
		m.Purpose = firstTag(purposeRules, ctx, "")
		m.Location = firstTag(locationRules, ctx, "")
		m.Installation = firstTag(installationRules, ctx, "")
		m.CrossReferences = crossReferences(m, ctx)

		switch m.Category {
		case types.CategoryPipe:
			if tag := firstTag(purposeRules, ctx, ""); tag != "" {
				m.Pipe.Purposes = append(m.Pipe.Purposes, tag)
			}
			if tag := firstTag(installationRules, ctx, ""); tag != "" {
				m.Pipe.InstallationContexts = append(m.Pipe.InstallationContexts, tag)
			}
		case types.CategoryNormRef:
			m.Norm.AppliesTo = m.AppliesTo
		}
	}
}

// Window returns the verbatim text covering the matched span plus up to
// window tokens on each side.
func Window(p *extract.Page, start, end, window int) string {
	if len(p.Tokens) == 0 {
		return strings.TrimSpace(p.Text[start:end])
	}

	first := sort.Search(len(p.Tokens), func(i int) bool { return p.Tokens[i].End > start })
	last := first
	for last < len(p.Tokens)-1 && p.Tokens[last].End < end {
		last++
	}

	lo := first - window
	if lo < 0 {
		lo = 0
	}
	hi := last + window
	if hi > len(p.Tokens)-1 {
		hi = len(p.Tokens) - 1
	}

	return strings.Join(tokenTexts(p.Tokens[lo:hi+1]), " ")
}

func tokenTexts(tokens []extract.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

// firstTag returns the first rule whose vocabulary appears in the context.
func firstTag(rules []tagRule, ctx, fallback string) string {
	for _, r := range rules {
		if r.re.MatchString(ctx) {
			return r.tag
		}
	}
	return fallback
}

// Domains returns every domain tag whose vocabulary appears in the text.
func Domains(text string) []string {
	var out []string
	for _, r := range domainRules {
		if r.re.MatchString(text) {
			out = append(out, r.tag)
		}
	}
	return out
}

// crossReferences finds norm designations and annotation numbers cited
// inside the context window, excluding the marker's own designation.
func crossReferences(m *types.Marker, ctx string) []string {
	var refs []string
	for _, d := range extract.DesignationsIn(ctx) {
		if m.Category == types.CategoryNormRef && m.Norm != nil && d == m.Norm.Designation {
			continue
		}
		refs = append(refs, d)
	}
	for _, n := range extract.NoteRefsIn(ctx) {
		refs = append(refs, "POZN. "+n)
	}
	return refs
}
