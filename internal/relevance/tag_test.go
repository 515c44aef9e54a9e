// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"strings"
	"testing"

	"github.com/researchflow/researchflow/pkg/types"
)

func TestTag(t *testing.T) {
	tests := []struct {
		name  string
		paper types.Paper
		idx   int
		want  string
	}{
		{
			name:  "title keywords and year",
			paper: types.Paper{Title: "Alzheimer Detection via EEG", Year: intPtr(2019)},
			want:  "Alzheimer-Detection-2019",
		},
		{
			name:  "single qualifying keyword",
			paper: types.Paper{Title: "Transformers", Year: intPtr(2023)},
			want:  "Transformers-2023",
		},
		{
			// Every title token is a stopword or too short, so the tag
			// falls back to the first author's surname.
			name: "surname fallback",
			paper: types.Paper{
				Title:   "A Study of Methods",
				Authors: []types.Author{{Name: "Jane A. Doe"}},
				Year:    intPtr(2019),
			},
			want: "Doe2019",
		},
		{
			name:  "positional fallback",
			paper: types.Paper{Title: "Of In On"},
			idx:   2,
			want:  "Source-3",
		},
		{
			name:  "unknown year",
			paper: types.Paper{Title: "Alzheimer Detection via EEG"},
			want:  "Alzheimer-Detection-n.d.",
		},
		{
			name: "blank author name still positional",
			paper: types.Paper{
				Title:   "The Of And",
				Authors: []types.Author{{Name: "   "}},
			},
			idx:  0,
			want: "Source-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tag(tt.paper, tt.idx); got != tt.want {
				t.Errorf("Tag() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTagTruncation(t *testing.T) {
	p := types.Paper{
		Title: "Electroencephalographically Characterizable Neurodegeneration",
		Year:  intPtr(2021),
	}
	got := Tag(p, 0)
	if len([]rune(got)) > 40 {
		t.Errorf("tag %q exceeds 40 runes", got)
	}
	if !strings.HasPrefix(got, "Electroencephalographically-") {
		t.Errorf("tag %q lost its leading keyword", got)
	}
}
