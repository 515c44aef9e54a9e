// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/researchflow/researchflow/internal/refine"
	"github.com/researchflow/researchflow/pkg/types"
)

// maxTagLen bounds citation tags so prompts stay readable.
const maxTagLen = 40

// Tag derives a short human-readable citation tag for the paper at
// position idx of an ordered batch, e.g. "Alzheimer-Detection-2019".
// Preference order: the first two qualifying title keywords plus year,
// then first-author surname plus year, then a positional placeholder.
// Tags are deterministic for the same record and position but not
// guaranteed unique; they are recomputed per grounding operation.
func Tag(p types.Paper, idx int) string {
	year := "n.d."
	if p.Year != nil {
		year = strconv.Itoa(*p.Year)
	}

	var tag string
	keywords := refine.RelevancePolicy().Tokens(p.Title)
	switch {
	case len(keywords) > 0:
		if len(keywords) > 2 {
			keywords = keywords[:2]
		}
		parts := make([]string, 0, 3)
		for _, kw := range keywords {
			parts = append(parts, capitalize(kw))
		}
		tag = strings.Join(append(parts, year), "-")
	case len(p.Authors) > 0 && strings.TrimSpace(p.Authors[0].Name) != "":
		fields := strings.Fields(p.Authors[0].Name)
		tag = fields[len(fields)-1] + year
	default:
		tag = "Source-" + strconv.Itoa(idx+1)
	}

	if r := []rune(tag); len(r) > maxTagLen {
		tag = string(r[:maxTagLen])
	}
	return tag
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
