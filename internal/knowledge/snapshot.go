// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package knowledge provides read-only access to the knowledge snapshot the
// extraction engine resolves values and norm designations against. The
// snapshot is supplied by the caller, queried concurrently, and never
// mutated; refreshing it between batches belongs to an external collaborator.
package knowledge

import (
	"strings"

	"github.com/stavtech/marker-engine/pkg/types"
)

// Match is a category-scoped snapshot hit.
type Match struct {
	// Canonical is the canonical form of the matched value.
	Canonical string

	// Similarity is 1.0 for exact hits, or the fuzzy similarity in
	// [threshold, 1.0) otherwise.
	Similarity float64
}

// NormMatch is a norm-designation snapshot hit.
type NormMatch struct {
	Designation     string
	Section         string
	FullDesignation string
	FullName        string
	Country         string
	Field           string
}

// Snapshot is the read-only lookup handle the engine borrows per lookup.
// Implementations must be safe for concurrent readers.
type Snapshot interface {
	// Lookup resolves a value against the category's canonical set: exact
	// match first, then fuzzy with similarity >= threshold.
	Lookup(category types.MarkerCategory, value string, threshold float64) (Match, bool)

	// LookupNorm resolves a norm designation, optionally scoped to a
	// section. A designation-only entry also satisfies a sectioned query.
	LookupNorm(designation, section string) (NormMatch, bool)
}

// NormEntry is one known norm in a snapshot seed.
type NormEntry struct {
	Designation     string `json:"designation" yaml:"designation"`
	Section         string `json:"section,omitempty" yaml:"section,omitempty"`
	FullDesignation string `json:"full_designation,omitempty" yaml:"full_designation,omitempty"`
	FullName        string `json:"full_name,omitempty" yaml:"full_name,omitempty"`
	Country         string `json:"country,omitempty" yaml:"country,omitempty"`
	Field           string `json:"field,omitempty" yaml:"field,omitempty"`
}

// Seed is the YAML shape of an in-memory snapshot.
type Seed struct {
	// Values maps a marker category to its canonical value set.
	Values map[string][]string `json:"values" yaml:"values"`

	// Norms lists the known normative standards.
	Norms []NormEntry `json:"norms" yaml:"norms"`
}

// memorySnapshot is an immutable in-memory Snapshot. Construction happens
// once; afterwards all access is read-only, so no locking is needed.
type memorySnapshot struct {
	values map[types.MarkerCategory][]string
	exact  map[types.MarkerCategory]map[string]string // normalized → canonical
	norms  map[string]NormMatch                       // designation|section → match
}

// NewMemorySnapshot builds a Snapshot from a seed.
func NewMemorySnapshot(seed Seed) Snapshot {
	s := &memorySnapshot{
		values: make(map[types.MarkerCategory][]string),
		exact:  make(map[types.MarkerCategory]map[string]string),
		norms:  make(map[string]NormMatch),
	}
	for cat, vals := range seed.Values {
		category := types.MarkerCategory(cat)
		index := make(map[string]string, len(vals))
		for _, v := range vals {
			index[normalizeValue(v)] = v
		}
		s.values[category] = append([]string(nil), vals...)
		s.exact[category] = index
	}
	for _, n := range seed.Norms {
		nm := NormMatch{
			Designation:     n.Designation,
			Section:         n.Section,
			FullDesignation: n.FullDesignation,
			FullName:        n.FullName,
			Country:         n.Country,
			Field:           n.Field,
		}
		s.norms[normKey(n.Designation, n.Section)] = nm
	}
	return s
}

func (s *memorySnapshot) Lookup(category types.MarkerCategory, value string, threshold float64) (Match, bool) {
	norm := normalizeValue(value)
	if canonical, ok := s.exact[category][norm]; ok {
		return Match{Canonical: canonical, Similarity: 1.0}, true
	}
	return fuzzyLookup(s.values[category], norm, threshold)
}

func (s *memorySnapshot) LookupNorm(designation, section string) (NormMatch, bool) {
	if section != "" {
		if nm, ok := s.norms[normKey(designation, section)]; ok {
			return nm, true
		}
	}
	nm, ok := s.norms[normKey(designation, "")]
	return nm, ok
}

// fuzzyLookup returns the best candidate at or above the threshold.
func fuzzyLookup(candidates []string, norm string, threshold float64) (Match, bool) {
	best := Match{}
	for _, c := range candidates {
		sim := Similarity(norm, normalizeValue(c))
		if sim >= threshold && sim > best.Similarity {
			best = Match{Canonical: c, Similarity: sim}
		}
	}
	return best, best.Canonical != ""
}

// normalizeValue lowercases and collapses interior whitespace so lookups
// tolerate spacing differences like "ČSN 73 6005" vs "ČSN 736005".
func normalizeValue(v string) string {
	return strings.Join(strings.Fields(strings.ToLower(v)), " ")
}

func normKey(designation, section string) string {
	return normalizeValue(designation) + "|" + strings.TrimSpace(section)
}

// Similarity returns a normalized edit-distance similarity in [0,1]:
// 1 - levenshtein(a,b)/max(len). Identical strings score 1.0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 || lb == 0 {
		return 0.0
	}
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	dist := prev[lb]
	max := la
	if lb > max {
		max = lb
	}
	return 1.0 - float64(dist)/float64(max)
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
