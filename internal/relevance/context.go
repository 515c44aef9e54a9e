// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"strconv"
	"strings"

	"github.com/researchflow/researchflow/pkg/types"
)

// contextAbstractLimit bounds how much of each abstract goes into the
// prompt so a handful of sources fits comfortably in the model context.
const contextAbstractLimit = 700

// ContextText renders papers as grounding blocks for generation prompts.
// tags must be index-aligned with papers; an empty tag falls back to a
// positional placeholder. Each block reads:
//
//	[Tag] Title (Year)
//	Authors: ...
//	Abstract: ...
func ContextText(papers []types.Paper, tags []string) string {
	blocks := make([]string, 0, len(papers))
	for i, p := range papers {
		tag := ""
		if i < len(tags) {
			tag = tags[i]
		}
		if tag == "" {
			tag = "Source-" + strconv.Itoa(i+1)
		}

		title := p.Title
		if title == "" {
			title = "Untitled"
		}
		year := "n.d."
		if p.Year != nil {
			year = strconv.Itoa(*p.Year)
		}

		abstract := p.Abstract
		if r := []rune(abstract); len(r) > contextAbstractLimit {
			abstract = string(r[:contextAbstractLimit])
		}

		var b strings.Builder
		b.WriteString("[" + tag + "] " + title + " (" + year + ")\n")
		b.WriteString("Authors: " + strings.Join(p.AuthorNames(), ", ") + "\n")
		b.WriteString("Abstract: " + abstract)
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}
