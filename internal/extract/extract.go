// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract identifies typed markers within normalized page text.
// Each category extractor combines two evidence sources: the knowledge
// snapshot (exact, then fuzzy) and pattern matching. Knowledge hits score
// in [0.95,1.0] scaled by similarity; pattern hits in [0.80,0.95]. A span
// the extractor cannot confidently classify is dropped, never errored.
package extract

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/stavtech/marker-engine/internal/knowledge"
	"github.com/stavtech/marker-engine/pkg/types"
)

// Candidate is a raw marker with its byte span in the page text. Candidates
// are not yet deduplicated and carry no context window; the context
// analyzer attaches that later.
type Candidate struct {
	Marker types.Marker
	Start  int
	End    int
}

// Token is a whitespace-delimited token with its byte span.
type Token struct {
	Text  string
	Start int
	End   int
}

// Page is the shared read-only view each extractor works on.
type Page struct {
	Text   string
	Tokens []Token

	Snapshot       knowledge.Snapshot
	FuzzyThreshold float64
}

// NewPage tokenizes the text once for all extractors.
func NewPage(text string, snap knowledge.Snapshot, fuzzyThreshold float64) *Page {
	return &Page{
		Text:           text,
		Tokens:         Tokenize(text),
		Snapshot:       snap,
		FuzzyThreshold: fuzzyThreshold,
	}
}

// Tokenize splits text into whitespace-delimited tokens, preserving byte
// offsets so spans can be mapped back into the page.
func Tokenize(text string) []Token {
	var tokens []Token
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, Token{Text: text[start:i], Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Text: text[start:], Start: start, End: len(text)})
	}
	return tokens
}

// Extractor produces raw candidates for one marker category. Which
// recognizer proposes candidates is a pluggable capability; the shipped
// implementations are the deterministic knowledge+pattern ones.
type Extractor interface {
	Category() types.MarkerCategory
	Extract(p *Page) []Candidate
}

// All returns the full extractor set, one per marker category.
func All() []Extractor {
	return []Extractor{
		concreteExtractor{},
		rebarExtractor{},
		pipeExtractor{},
		fittingExtractor{},
		dimensionExtractor{},
		slopeExtractor{},
		materialExtractor{},
		protectionExtractor{},
	}
}

// Result holds the joined output of a concurrent extractor run.
type Result struct {
	// Candidates are overlap-resolved raw candidates, ordered by span.
	Candidates []Candidate

	// Ambiguous records candidates that lost an overlap to a mutually
	// exclusive category; they are surfaced in quality flags, not dropped
	// silently.
	Ambiguous []string

	// Warnings records extractors that panicked on malformed input. A
	// failing extractor contributes nothing; the page still succeeds.
	Warnings []string
}

// Run fans the extractors out concurrently over one page and joins their
// candidates. Extractors are independent of one another; the caller must
// not start deduplication before Run returns.
func Run(extractors []Extractor, p *Page) Result {
	type extracted struct {
		candidates []Candidate
		warning    string
	}

	ch := make(chan extracted, len(extractors))
	var wg sync.WaitGroup

	for _, ex := range extractors {
		wg.Add(1)
		go func(ex Extractor) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					ch <- extracted{warning: fmt.Sprintf("%s extractor failed: %v", ex.Category(), r)}
				}
			}()
			ch <- extracted{candidates: ex.Extract(p)}
		}(ex)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []Candidate
	var result Result
	for e := range ch {
		if e.warning != "" {
			result.Warnings = append(result.Warnings, e.warning)
			continue
		}
		all = append(all, e.candidates...)
	}

	result.Candidates, result.Ambiguous = resolveOverlaps(all)
	return result
}

// resolveOverlaps settles spans claimed by more than one mutually exclusive
// category. The higher-confidence candidate wins; a bare numeric dimension
// always yields to a structured match on the same span, regardless of band,
// because the structure is the stronger evidence.
func resolveOverlaps(cands []Candidate) ([]Candidate, []string) {
	// Candidates arrive in goroutine-completion order; the category
	// tiebreaker keeps the resolution deterministic for equal spans.
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Start != cands[j].Start {
			return cands[i].Start < cands[j].Start
		}
		if cands[i].End != cands[j].End {
			return cands[i].End > cands[j].End
		}
		return cands[i].Marker.Category < cands[j].Marker.Category
	})

	dropped := make([]bool, len(cands))
	var ambiguous []string

	for i := range cands {
		if dropped[i] {
			continue
		}
		for j := i + 1; j < len(cands); j++ {
			if cands[j].Start >= cands[i].End {
				break
			}
			if dropped[j] || cands[i].Marker.Category == cands[j].Marker.Category {
				continue
			}
			loser, winner := j, i
			if weaker(cands[i], cands[j]) {
				loser, winner = i, j
			}
			dropped[loser] = true
			m := cands[loser].Marker
			ambiguous = append(ambiguous, fmt.Sprintf("%s %q lost span to %s",
				m.Category, m.Value, cands[winner].Marker.Category))
			if loser == i {
				break
			}
		}
	}

	kept := make([]Candidate, 0, len(cands))
	for i, c := range cands {
		if !dropped[i] {
			kept = append(kept, c)
		}
	}
	return kept, ambiguous
}

// weaker reports whether a loses the span to b.
func weaker(a, b Candidate) bool {
	if a.Marker.Category == types.CategoryDimension && b.Marker.Category != types.CategoryDimension {
		return true
	}
	if b.Marker.Category == types.CategoryDimension && a.Marker.Category != types.CategoryDimension {
		return false
	}
	return a.Marker.Confidence < b.Marker.Confidence
}

// kbConfidence maps a snapshot similarity into the knowledge band: an
// exact hit scores 1.0, the fuzzy floor 0.90 scores 0.95. A fuzzy hit
// never drops the confidence below 0.80.
func kbConfidence(similarity float64) float64 {
	if similarity >= 1.0 {
		return 1.0
	}
	c := 0.95 + 0.5*(similarity-0.90)
	if c > 1.0 {
		return 1.0
	}
	if c < 0.80 {
		return 0.80
	}
	return c
}

// lookupSource resolves a candidate's core value against the snapshot and
// returns the canonical value, source tag and confidence: the knowledge
// band on a hit, the supplied pattern confidence otherwise.
func lookupSource(p *Page, category types.MarkerCategory, value string, patternConf float64) (string, types.MarkerSource, float64) {
	if p.Snapshot != nil {
		if m, ok := p.Snapshot.Lookup(category, value, p.FuzzyThreshold); ok {
			return m.Canonical, types.SourceKnowledgeBase, kbConfidence(m.Similarity)
		}
	}
	return value, types.SourcePattern, patternConf
}

// scanKnowledge emits bare knowledge-base markers for tokens that resolve
// against the category's canonical set but were not consumed by a pattern
// span. build fills the category detail for the canonical value.
func scanKnowledge(p *Page, category types.MarkerCategory, typ string, consumed []Candidate, build func(canonical string) types.Marker) []Candidate {
	if p.Snapshot == nil {
		return nil
	}
	var out []Candidate
	for _, tok := range p.Tokens {
		if !plausibleValue(tok.Text) || spanConsumed(consumed, tok.Start, tok.End) {
			continue
		}
		m, ok := p.Snapshot.Lookup(category, strings.Trim(tok.Text, ",.;:"), p.FuzzyThreshold)
		if !ok {
			continue
		}
		marker := build(m.Canonical)
		marker.Category = category
		marker.Type = typ
		marker.Value = m.Canonical
		marker.Source = types.SourceKnowledgeBase
		marker.Confidence = kbConfidence(m.Similarity)
		out = append(out, Candidate{Marker: marker, Start: tok.Start, End: tok.End})
	}
	return out
}

// plausibleValue filters tokens that cannot be canonical values: pure
// punctuation and one-character fragments would only produce fuzzy noise.
func plausibleValue(tok string) bool {
	tok = strings.TrimFunc(tok, func(r rune) bool {
		return unicode.IsPunct(r) && r != '/'
	})
	return len([]rune(tok)) >= 2
}

// wordStart reports whether offset i begins a new word: the preceding
// rune is neither a letter nor a digit. regexp's \b is ASCII-only, so
// patterns that may start with Č, Ž or Cyrillic letters check their left
// boundary here instead.
func wordStart(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// spanConsumed reports whether [start,end) overlaps any candidate span.
func spanConsumed(cands []Candidate, start, end int) bool {
	for _, c := range cands {
		if start < c.End && end > c.Start {
			return true
		}
	}
	return false
}
