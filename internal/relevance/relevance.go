// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance picks the papers most relevant to a question and
// derives citation tags for them. Scoring is purely lexical: the size of
// the token-set intersection between the question and each paper's
// title+abstract. No embeddings, no network calls.
package relevance

import (
	"sort"

	"github.com/researchflow/researchflow/internal/refine"
	"github.com/researchflow/researchflow/pkg/types"
)

// Default top-k sizes for the two grounding consumers. Q&A wants a tight
// context; long-form drafting benefits from a broader one.
const (
	ChatTopK  = 5
	DraftTopK = 8
)

// Select scores candidates against the question by token overlap and
// returns the top-k, ties keeping input order. When nothing overlaps at
// all (or the question yields no tokens) it falls back to the first k
// candidates: grounding must never come back empty while sources exist.
func Select(question string, papers []types.Paper, topK int) []types.Paper {
	if topK <= 0 || len(papers) == 0 {
		return nil
	}

	policy := refine.RelevancePolicy()
	qTokens := policy.TokenSet(question)
	if len(qTokens) == 0 {
		return firstK(papers, topK)
	}

	scores := make([]int, len(papers))
	order := make([]int, len(papers))
	best := 0
	for i, p := range papers {
		score := overlap(qTokens, policy.TokenSet(p.Title+" "+p.Abstract))
		scores[i] = score
		order[i] = i
		if score > best {
			best = score
		}
	}

	if best == 0 {
		return firstK(papers, topK)
	}

	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if topK > len(order) {
		topK = len(order)
	}
	selected := make([]types.Paper, topK)
	for i := 0; i < topK; i++ {
		selected[i] = papers[order[i]]
	}
	return selected
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for t := range a {
		if _, ok := b[t]; ok {
			n++
		}
	}
	return n
}

func firstK(papers []types.Paper, k int) []types.Paper {
	if k > len(papers) {
		k = len(papers)
	}
	out := make([]types.Paper, k)
	copy(out, papers[:k])
	return out
}
