// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refine extracts compact keyword sets from free-text queries.
// Two tokenization policies exist on purpose: search refinement drops
// short and overloaded terms aggressively (length >= 4), while relevance
// scoring keeps more of the text (length >= 3) so token overlap with
// abstracts stays meaningful.
package refine

import "strings"

// MaxKeywords caps the number of keywords returned for search refinement.
const MaxKeywords = 6

// commonStopwords are generic English filler terms that carry no search value.
var commonStopwords = newSet(
	"the", "and", "of", "in", "on", "for", "to", "a", "an", "with",
	"using", "used", "based", "approach", "method", "methods", "study",
	"paper", "results", "from", "into", "via", "towards", "toward",
	"new", "analysis", "system", "framework", "application", "applications",
	"model", "models",
)

// mlStopwords are ML/AI vocabulary terms too generic to discriminate
// between papers in this domain.
var mlStopwords = newSet(
	"deep", "learning", "deeplearning", "machine", "machinelearning",
	"neural", "networks", "network",
	"prediction", "predictive", "classifier", "classifiers",
	"review", "survey", "data", "dataset", "datasets",
	"computational", "artificial", "intelligence", "ai",
)

// chatStopwords is the relevance-scoring stopword set: the common terms
// plus the generic ML vocabulary that appears in nearly every abstract.
var chatStopwords = newSet(
	"the", "and", "of", "in", "on", "for", "to", "a", "an", "with",
	"using", "used", "based", "approach", "method", "methods", "study",
	"paper", "results", "from", "into", "via", "towards", "toward",
	"new", "analysis", "system", "framework", "application", "applications",
	"model", "models", "deep", "learning", "machine", "neural", "network",
	"networks", "data", "dataset", "datasets",
)

func newSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Policy configures one tokenization pass.
type Policy struct {
	// MinLen drops tokens shorter than this many bytes.
	MinLen int

	// Stopwords drops tokens found in the set.
	Stopwords map[string]struct{}
}

// SearchPolicy refines free-text queries before they are sent to providers.
func SearchPolicy() Policy {
	sw := make(map[string]struct{}, len(commonStopwords)+len(mlStopwords))
	for w := range commonStopwords {
		sw[w] = struct{}{}
	}
	for w := range mlStopwords {
		sw[w] = struct{}{}
	}
	return Policy{MinLen: 4, Stopwords: sw}
}

// RelevancePolicy tokenizes questions, titles, and abstracts for lexical
// overlap scoring and citation tagging.
func RelevancePolicy() Policy {
	return Policy{MinLen: 3, Stopwords: chatStopwords}
}

// Tokens lowercases text, strips everything outside [a-z0-9\s-], splits on
// whitespace, and drops short tokens and stopwords. The result preserves
// first-seen order with duplicates removed.
func (p Policy) Tokens(text string) []string {
	if text == "" {
		return nil
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z',
			r >= '0' && r <= '9',
			r == '-', r == ' ', r == '\t', r == '\n', r == '\r':
			return r
		default:
			return ' '
		}
	}, strings.ToLower(text))

	var tokens []string
	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) < p.MinLen {
			continue
		}
		if _, stop := p.Stopwords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// TokenSet returns the policy's tokens as a set for overlap scoring.
func (p Policy) TokenSet(text string) map[string]struct{} {
	tokens := p.Tokens(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Keywords extracts up to MaxKeywords search keywords from text.
func Keywords(text string) []string {
	kw := SearchPolicy().Tokens(text)
	if len(kw) > MaxKeywords {
		kw = kw[:MaxKeywords]
	}
	return kw
}

// Refine rewrites a free-text query as a keyword string. When no keywords
// survive filtering it returns the original query unchanged, so refinement
// never produces an empty search.
func Refine(query string) string {
	kw := Keywords(query)
	if len(kw) == 0 {
		return query
	}
	return strings.Join(kw, " ")
}
