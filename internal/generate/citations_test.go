// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"reflect"
	"testing"

	"github.com/pdiddy/paper-engine/pkg/types"
)

func TestExtractCitations(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single citation",
			text: "Quantum dots show promise (Smith, 2020).",
			want: []string{"Smith, 2020"},
		},
		{
			name: "et al",
			text: "Growth kinetics were modeled (Chen et al., 2021).",
			want: []string{"Chen et al., 2021"},
		},
		{
			name: "semicolon separated",
			text: "Earlier studies (Smith, 2020; Jones, 2019) left gaps.",
			want: []string{"Smith, 2020", "Jones, 2019"},
		},
		{
			name: "repeats kept",
			text: "First (Smith, 2020). Later again (Smith, 2020).",
			want: []string{"Smith, 2020", "Smith, 2020"},
		},
		{
			name: "statistics ignored",
			text: "The difference was significant (p < 0.05).",
			want: nil,
		},
		{
			name: "figure reference ignored",
			text: "Yields rose sharply (Figure 2).",
			want: nil,
		},
		{
			name: "mixed parentheticals",
			text: "Yields rose (Figure 2) beyond prior reports (Jones, 2019; p < 0.05).",
			want: []string{"Jones, 2019"},
		},
		{
			name: "old literature",
			text: "The effect was first described (Bohr, 1928).",
			want: []string{"Bohr, 1928"},
		},
		{
			name: "no parentheticals",
			text: "Plain prose with no citations at all.",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCitations(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractCitations(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// Extraction is pure: the same text always yields the same citations.
func TestExtractCitationsIdempotent(t *testing.T) {
	text := "Results agree with (Smith, 2020; Jones, 2019) and (Chen et al., 2021)."
	first := ExtractCitations(text)
	second := ExtractCitations(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated extraction differs: %v vs %v", first, second)
	}
}

func TestDedupeCitations(t *testing.T) {
	sections := []types.SectionResult{
		{Name: types.SectionAbstract, Citations: []string{"Smith, 2020"}},
		{Name: types.SectionIntroduction, Citations: []string{"Jones, 2019", "Smith, 2020"}},
		{Name: types.SectionMethodology, Citations: []string{"Chen et al., 2021", "Jones, 2019"}},
	}

	want := []string{"Smith, 2020", "Jones, 2019", "Chen et al., 2021"}
	got := DedupeCitations(sections)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DedupeCitations = %v, want %v", got, want)
	}
}

func TestDedupeCitationsEmpty(t *testing.T) {
	if got := DedupeCitations(nil); got != nil {
		t.Errorf("DedupeCitations(nil) = %v, want nil", got)
	}
	sections := []types.SectionResult{{Name: types.SectionAbstract}}
	if got := DedupeCitations(sections); got != nil {
		t.Errorf("DedupeCitations with no citations = %v, want nil", got)
	}
}
