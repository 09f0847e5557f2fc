// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"strings"
	"testing"

	"github.com/stavtech/marker-engine/internal/extract"
	"github.com/stavtech/marker-engine/pkg/types"
)

func candidateAt(text, needle string, m types.Marker) (*extract.Page, []extract.Candidate) {
	p := extract.NewPage(text, nil, 0.90)
	start := strings.Index(text, needle)
	if start < 0 {
		panic("needle not in text: " + needle)
	}
	return p, []extract.Candidate{{Marker: m, Start: start, End: start + len(needle)}}
}

// --- Window ---

func TestWindow(t *testing.T) {
	text := "a b c d e f g TARGET h i j k l m n"

	tests := []struct {
		name   string
		window int
		want   string
	}{
		{name: "five tokens each side", window: 5, want: "c d e f g TARGET h i j k l"},
		{name: "clipped at page start", window: 10, want: "a b c d e f g TARGET h i j k l m n"},
		{name: "zero window is the span itself", window: 0, want: "TARGET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := extract.NewPage(text, nil, 0.90)
			start := strings.Index(text, "TARGET")
			got := Window(p, start, start+len("TARGET"), tt.window)
			if got != tt.want {
				t.Errorf("Window() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWindowMultiTokenSpan(t *testing.T) {
	text := "obsyp potrubí PVC KG DN 125 pískem frakce"
	p := extract.NewPage(text, nil, 0.90)
	start := strings.Index(text, "PVC")
	end := strings.Index(text, "125") + len("125")

	got := Window(p, start, end, 2)
	want := "obsyp potrubí PVC KG DN 125 pískem frakce"
	if got != want {
		t.Errorf("Window() = %q, want %q", got, want)
	}
}

// --- Analyze ---

func TestAnalyzeDomainTags(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		needle    string
		wantTag   string
		wantWhere string
	}{
		{
			name:      "foundation concrete",
			text:      "ZÁKLADOVÁ DESKA BETON C30/37 tl. 200",
			needle:    "C30/37",
			wantTag:   "concrete",
			wantWhere: "foundation",
		},
		{
			name:    "sewage pipe vocabulary",
			text:    "SPLAŠKOVÁ KANALIZACE PVC KG DN 125 uložení",
			needle:  "DN 125",
			wantTag: "pipe",
		},
		{
			name:    "no vocabulary falls back to general",
			text:    "x y 900 z w",
			needle:  "900",
			wantTag: "general",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, cands := candidateAt(tt.text, tt.needle, types.Marker{Category: types.CategoryDimension})
			Analyze(p, cands, 5)

			m := cands[0].Marker
			if m.AppliesTo != tt.wantTag {
				t.Errorf("AppliesTo = %q, want %q", m.AppliesTo, tt.wantTag)
			}
			if tt.wantWhere != "" && m.Location != tt.wantWhere {
				t.Errorf("Location = %q, want %q", m.Location, tt.wantWhere)
			}
			if m.Context == "" {
				t.Error("Context must be filled")
			}
		})
	}
}

func TestAnalyzePipePurposes(t *testing.T) {
	text := "SPLAŠKOVÁ KANALIZACE PVC KG DN 125 ULOŽENÍ V ZEMI"
	p, cands := candidateAt(text, "DN 125", types.Marker{
		Category: types.CategoryPipe,
		Pipe:     &types.PipeSpec{Material: "PVC KG", DiameterMM: 125},
	})

	Analyze(p, cands, 5)

	m := cands[0].Marker
	if len(m.Pipe.Purposes) != 1 || m.Pipe.Purposes[0] != "sewage" {
		t.Errorf("Purposes = %v, want [sewage]", m.Pipe.Purposes)
	}
	if len(m.Pipe.InstallationContexts) != 1 || m.Pipe.InstallationContexts[0] != "buried" {
		t.Errorf("InstallationContexts = %v, want [buried]", m.Pipe.InstallationContexts)
	}
}

func TestAnalyzeNormAppliesTo(t *testing.T) {
	text := "KANALIZACE dle ČSN 73 6005 v zemi"
	p, cands := candidateAt(text, "ČSN 73 6005", types.Marker{
		Category: types.CategoryNormRef,
		Norm:     &types.NormReference{Designation: "ČSN 73 6005"},
	})

	Analyze(p, cands, 5)

	if got := cands[0].Marker.Norm.AppliesTo; got != "pipe" {
		t.Errorf("Norm.AppliesTo = %q, want pipe", got)
	}
}

func TestAnalyzeCrossReferences(t *testing.T) {
	t.Run("norm citation in window", func(t *testing.T) {
		text := "POTRUBÍ DN 125 dle ČSN 73 6005 uložit"
		p, cands := candidateAt(text, "DN 125", types.Marker{
			Category: types.CategoryPipe,
			Pipe:     &types.PipeSpec{DiameterMM: 125},
		})

		Analyze(p, cands, 5)

		refs := cands[0].Marker.CrossReferences
		if len(refs) != 1 || refs[0] != "ČSN 73 6005" {
			t.Errorf("CrossReferences = %v, want [ČSN 73 6005]", refs)
		}
	})

	t.Run("own designation is excluded", func(t *testing.T) {
		text := "dle ČSN 73 6005 provedení"
		p, cands := candidateAt(text, "ČSN 73 6005", types.Marker{
			Category: types.CategoryNormRef,
			Norm:     &types.NormReference{Designation: "ČSN 73 6005"},
		})

		Analyze(p, cands, 5)

		if refs := cands[0].Marker.CrossReferences; len(refs) != 0 {
			t.Errorf("CrossReferences = %v, want none", refs)
		}
	})

	t.Run("annotation reference in window", func(t *testing.T) {
		text := "SPÁD 2% viz POZN. 4 tamtéž"
		p, cands := candidateAt(text, "2%", types.Marker{
			Category: types.CategorySlope,
			Slope:    &types.SlopeSpec{Value: 2, Unit: "percent"},
		})

		Analyze(p, cands, 5)

		refs := cands[0].Marker.CrossReferences
		if len(refs) != 1 || refs[0] != "POZN. 4" {
			t.Errorf("CrossReferences = %v, want [POZN. 4]", refs)
		}
	})
}

// --- Domains ---

func TestDomains(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "multiple domains",
			text: "Chránit kabely, potrubí kanalizace a beton základů",
			want: []string{"concrete", "pipe", "electrical"},
		},
		{
			name: "no vocabulary",
			text: "provést dle projektu",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Domains(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Domains() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Domains() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
