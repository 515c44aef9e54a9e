// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/researchflow/researchflow/pkg/types"
)

// SortMode selects how merged results are ranked.
type SortMode string

const (
	// SortRelevance ranks by citation_count*0.7 + (year-2000)*10, with
	// unknown year treated as 2000. The default.
	SortRelevance SortMode = "relevance"

	// SortCitations ranks by citation count, descending.
	SortCitations SortMode = "citations"

	// SortYear ranks by publication year, descending, unknown last.
	SortYear SortMode = "year"
)

// ParseSortMode validates a sort mode string. Empty selects the default.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "", SortRelevance:
		return SortRelevance, nil
	case SortCitations:
		return SortCitations, nil
	case SortYear:
		return SortYear, nil
	default:
		return "", fmt.Errorf("unknown sort mode %q (want relevance, citations, or year)", s)
	}
}

// dedupKeyLen caps the normalized title used as the dedup key. Titles
// that agree on their first 100 characters are treated as the same paper.
const dedupKeyLen = 100

func dedupKey(p types.Paper) string {
	return clipRunes(strings.TrimSpace(strings.ToLower(p.Title)), dedupKeyLen)
}

// Deduplicate collapses papers that share a normalized title. The first
// occurrence wins, so input order (provider order) decides which
// provider's record survives.
func Deduplicate(papers []types.Paper) []types.Paper {
	seen := make(map[string]struct{}, len(papers))
	unique := make([]types.Paper, 0, len(papers))
	for _, p := range papers {
		key := dedupKey(p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, p)
	}
	return unique
}

// FilterYears applies optional inclusive year bounds. A paper with
// unknown year is dropped whenever a bound is supplied, since it cannot
// be shown to satisfy it.
func FilterYears(papers []types.Paper, from, to *int) []types.Paper {
	if from == nil && to == nil {
		return papers
	}
	kept := papers[:0:0]
	for _, p := range papers {
		if p.Year == nil {
			continue
		}
		if from != nil && *p.Year < *from {
			continue
		}
		if to != nil && *p.Year > *to {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// Sort ranks papers in place by the selected mode, descending. Ties keep
// their original relative order: sort.SliceStable makes the tie-break
// explicit instead of depending on sort internals, so repeated runs over
// the same input always produce the same ranking.
func Sort(papers []types.Paper, mode SortMode) {
	switch mode {
	case SortCitations:
		sort.SliceStable(papers, func(i, j int) bool {
			return papers[i].CitationCount > papers[j].CitationCount
		})
	case SortYear:
		sort.SliceStable(papers, func(i, j int) bool {
			return papers[i].YearValue(0) > papers[j].YearValue(0)
		})
	default:
		sort.SliceStable(papers, func(i, j int) bool {
			return relevanceScore(papers[i]) > relevanceScore(papers[j])
		})
	}
}

// relevanceScore is the default ranking heuristic: citations dominate,
// with a recency bonus of 10 points per year past 2000. Unknown year
// counts as 2000 so it contributes nothing.
func relevanceScore(p types.Paper) float64 {
	return float64(p.CitationCount)*0.7 + float64(p.YearValue(2000)-2000)*10
}
