// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/stavtech/marker-engine/pkg/types"
)

// Annotation patterns.
var (
	// annotationRe matches numbered notes: "POZN. 3: text", "3) text" or
	// "3. text" on its own line.
	annotationRe = regexp.MustCompile(
		`(?m)^\s*(?:POZN\.?\s*|POZNÁMKA\s*)?(\d{1,2})[).:]\s+(\S.*\S)\s*$`)

	// annotationWarningRe and annotationCriticalRe grade the severity from
	// the note's own vocabulary. The Cyrillic alternatives sit outside the
	// \b group: regexp's \b is ASCII-only and never fires next to them.
	annotationWarningRe  = regexp.MustCompile(`(?i)(?:\b(?:POZOR|UPOZORNĚNÍ|ACHTUNG)|ВНИМАНИЕ)`)
	annotationCriticalRe = regexp.MustCompile(`(?i)(?:\b(?:ZÁKAZ|NESMÍ|NEBEZPEČÍ|VERBOTEN)|ЗАПРЕЩ)\w*`)
)

// ExtractAnnotations parses numbered free-text notes from the page. The
// note number keys slope links and cross references; severity comes from
// the note's vocabulary, norm citations become cross references.
func ExtractAnnotations(text string) []types.Annotation {
	var annotations []types.Annotation

	for _, m := range annotationRe.FindAllStringSubmatch(text, -1) {
		number, body := m[1], m[2]

		// A numbered line that is mostly digits is a dimension row, not a
		// note.
		if isNumericLine(body) {
			continue
		}

		severity := "info"
		switch {
		case annotationCriticalRe.MatchString(body):
			severity = "critical"
		case annotationWarningRe.MatchString(body):
			severity = "warning"
		}

		refs := DesignationsIn(body)

		annotations = append(annotations, types.Annotation{
			Number:          number,
			Text:            body,
			Severity:        severity,
			CrossReferences: refs,
		})
	}

	return annotations
}

// isNumericLine reports whether more than half the tokens are numeric.
func isNumericLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	numeric := 0
	for _, f := range fields {
		if dimensionTokenRe.MatchString(strings.TrimRight(f, ",.;")) {
			numeric++
		}
	}
	return numeric*2 > len(fields)
}
