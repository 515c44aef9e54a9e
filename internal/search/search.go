// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries academic providers concurrently and returns
// unified, deduplicated, ranked Paper records.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/researchflow/researchflow/internal/refine"
	"github.com/researchflow/researchflow/pkg/types"
)

// Provider searches a single academic API. Each provider (arXiv, Semantic
// Scholar, PubMed) implements this interface and maps its native response
// into canonical Paper records before returning.
type Provider interface {
	// Name is the human-readable provider name reported in search output.
	Name() string

	// Search returns up to limit papers for the query. Implementations
	// own their request lifecycle end to end: independent timeouts,
	// bounded retries, and per-entry parse recovery all happen here.
	Search(ctx context.Context, query string, limit int) ([]types.Paper, error)
}

// Options holds the caller-facing search parameters.
type Options struct {
	Query string
	Limit int

	// YearFrom and YearTo are optional inclusive bounds. A nil bound is
	// not applied; papers with unknown year are dropped by any bound.
	YearFrom *int
	YearTo   *int

	Sort SortMode
}

// Output holds the ranked results and provider diagnostics.
type Output struct {
	Papers []types.Paper `json:"papers"`

	// Total counts unique papers after dedup and filtering, before the
	// limit cut.
	Total int `json:"total"`

	Query        string `json:"query"`
	RefinedQuery string `json:"refined_query"`

	// SourcesSearched lists the providers that returned successfully.
	SourcesSearched []string `json:"sources_searched"`
}

// Run executes the full search pipeline: query refinement, concurrent
// provider fan-out, cross-provider dedup, year filtering, ranking, and
// the limit cut. Provider failures degrade the result set instead of
// failing the call; diagnostics go to w.
func Run(ctx context.Context, providers []Provider, opts Options, w io.Writer) (Output, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return Output{}, fmt.Errorf("query is empty: provide a search topic or question")
	}
	if len(providers) == 0 {
		return Output{}, fmt.Errorf("no search providers configured")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	refined := refine.Refine(opts.Query)
	if refined != opts.Query {
		fmt.Fprintf(w, "refined query: %q -> %q\n", opts.Query, refined)
	}

	papers, searched := Aggregate(ctx, providers, refined, limit, w)

	unique := Deduplicate(papers)
	unique = FilterYears(unique, opts.YearFrom, opts.YearTo)
	Sort(unique, opts.Sort)

	total := len(unique)
	if len(unique) > limit {
		unique = unique[:limit]
	}

	return Output{
		Papers:          unique,
		Total:           total,
		Query:           opts.Query,
		RefinedQuery:    refined,
		SourcesSearched: searched,
	}, nil
}

// providerResult is the tagged outcome of one provider's search.
type providerResult struct {
	papers []types.Paper
	err    error
}

// Aggregate fans the query out to all providers concurrently and joins at
// a single barrier. Results are concatenated in configured provider order,
// not completion order, so downstream first-wins dedup stays reproducible.
// A failing provider is logged to w and excluded; when every provider
// fails both return values are empty rather than an error, because the
// caller treats "zero results" and "all providers down" identically.
func Aggregate(ctx context.Context, providers []Provider, query string, limit int, w io.Writer) ([]types.Paper, []string) {
	results := make([]providerResult, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			papers, err := p.Search(ctx, query, limit)
			results[i] = providerResult{papers: papers, err: err}
		}(i, p)
	}
	wg.Wait()

	var all []types.Paper
	var searched []string
	for i, r := range results {
		if r.err != nil {
			fmt.Fprintf(w, "warning: provider %s failed: %v\n", providers[i].Name(), r.err)
			continue
		}
		fmt.Fprintf(w, "%s: %d papers\n", providers[i].Name(), len(r.papers))
		all = append(all, r.papers...)
		searched = append(searched, providers[i].Name())
	}
	return all, searched
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Papers) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-4s  %-6s  %s\n",
		"Rank", "Title", "Authors", "Year", "Cites", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, p := range out.Papers {
		year := ""
		if p.Year != nil {
			year = fmt.Sprintf("%d", *p.Year)
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-4s  %-6d  %s\n",
			i+1, truncate(p.Title, 60), formatAuthors(p.Authors), year,
			p.CitationCount, p.SourceType)
	}

	fmt.Fprintf(w, "\n%d of %d unique results (searched: %s)\n",
		len(out.Papers), out.Total, strings.Join(out.SourcesSearched, ", "))
}

// FormatJSON writes the full output as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func formatAuthors(authors []types.Author) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0].Name, 20)
	default:
		return truncate(authors[0].Name, 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// clipRunes cuts s to at most n runes. Abstracts are clipped to 2000 at
// ingestion; slicing runes instead of bytes keeps multibyte text intact.
func clipRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

const abstractLimit = 2000
