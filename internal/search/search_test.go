// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/researchflow/researchflow/pkg/types"
)

// --- mock provider ---

type mockProvider struct {
	name   string
	papers []types.Paper
	err    error
	delay  time.Duration
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Search(_ context.Context, _ string, _ int) ([]types.Paper, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return m.papers, m.err
}

func intPtr(v int) *int { return &v }

func paper(id, title string, year *int, citations int) types.Paper {
	return types.Paper{
		ID:            id,
		Title:         title,
		Authors:       []types.Author{{Name: "Unknown"}},
		Year:          year,
		CitationCount: citations,
	}
}

// --- Aggregate ---

func TestAggregatePreservesProviderOrder(t *testing.T) {
	// The slow provider finishes last but is configured first; its papers
	// must still lead the concatenation so first-wins dedup is stable.
	slow := &mockProvider{
		name:   "arXiv",
		papers: []types.Paper{paper("arxiv_1", "Slow Paper", nil, 0)},
		delay:  30 * time.Millisecond,
	}
	fast := &mockProvider{
		name:   "PubMed",
		papers: []types.Paper{paper("pubmed_1", "Fast Paper", nil, 0)},
	}

	papers, searched := Aggregate(context.Background(), []Provider{slow, fast}, "q", 10, io.Discard)

	if len(papers) != 2 {
		t.Fatalf("len(papers) = %d, want 2", len(papers))
	}
	if papers[0].ID != "arxiv_1" || papers[1].ID != "pubmed_1" {
		t.Errorf("papers out of provider order: %q, %q", papers[0].ID, papers[1].ID)
	}
	if len(searched) != 2 || searched[0] != "arXiv" || searched[1] != "PubMed" {
		t.Errorf("searched = %v, want [arXiv PubMed]", searched)
	}
}

func TestAggregateIsolatesFailure(t *testing.T) {
	var buf bytes.Buffer
	ok := &mockProvider{name: "arXiv", papers: []types.Paper{paper("arxiv_1", "A", nil, 0)}}
	bad := &mockProvider{name: "PubMed", err: errors.New("boom")}

	papers, searched := Aggregate(context.Background(), []Provider{ok, bad}, "q", 10, &buf)

	if len(papers) != 1 {
		t.Fatalf("len(papers) = %d, want 1", len(papers))
	}
	if len(searched) != 1 || searched[0] != "arXiv" {
		t.Errorf("searched = %v, want [arXiv]", searched)
	}
	if !strings.Contains(buf.String(), "PubMed failed") {
		t.Errorf("missing failure warning in %q", buf.String())
	}
}

func TestAggregateAllProvidersFail(t *testing.T) {
	providers := []Provider{
		&mockProvider{name: "arXiv", err: errors.New("down")},
		&mockProvider{name: "Semantic Scholar", err: errors.New("down")},
		&mockProvider{name: "PubMed", err: errors.New("down")},
	}

	papers, searched := Aggregate(context.Background(), providers, "q", 10, io.Discard)

	// All-providers-down degrades to empty, indistinguishable from a
	// query with zero hits.
	if len(papers) != 0 {
		t.Errorf("len(papers) = %d, want 0", len(papers))
	}
	if len(searched) != 0 {
		t.Errorf("searched = %v, want empty", searched)
	}
}

// --- Run ---

func TestRunValidation(t *testing.T) {
	if _, err := Run(context.Background(), []Provider{&mockProvider{}}, Options{Query: "  "}, io.Discard); err == nil {
		t.Error("expected error for empty query")
	}
	if _, err := Run(context.Background(), nil, Options{Query: "proteins"}, io.Discard); err == nil {
		t.Error("expected error for no providers")
	}
}

func TestRunDedupSortLimit(t *testing.T) {
	p1 := &mockProvider{name: "arXiv", papers: []types.Paper{
		paper("arxiv_1", "Graph Kernels", intPtr(2018), 40),
		paper("arxiv_2", "Protein Folding", intPtr(2022), 5),
	}}
	p2 := &mockProvider{name: "Semantic Scholar", papers: []types.Paper{
		paper("ss_1", "graph kernels", intPtr(2019), 900),
		paper("ss_2", "Molecule Graphs", intPtr(2021), 100),
	}}

	out, err := Run(context.Background(), []Provider{p1, p2}, Options{Query: "graph kernels proteins", Limit: 2}, io.Discard)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Duplicate title collapses to the arXiv record; three unique papers
	// remain, the limit keeps two.
	if out.Total != 3 {
		t.Errorf("Total = %d, want 3", out.Total)
	}
	if len(out.Papers) != 2 {
		t.Fatalf("len(Papers) = %d, want 2", len(out.Papers))
	}
	for _, p := range out.Papers {
		if p.ID == "ss_1" {
			t.Errorf("duplicate ss_1 survived dedup over arxiv_1")
		}
	}
	if len(out.SourcesSearched) != 2 {
		t.Errorf("SourcesSearched = %v", out.SourcesSearched)
	}
}

func TestRunKeepsRefinedQuery(t *testing.T) {
	p := &mockProvider{name: "arXiv"}
	out, err := Run(context.Background(), []Provider{p}, Options{Query: "a study of protein folding methods"}, io.Discard)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.RefinedQuery != "protein folding" {
		t.Errorf("RefinedQuery = %q, want %q", out.RefinedQuery, "protein folding")
	}
	if out.Query != "a study of protein folding methods" {
		t.Errorf("Query = %q, original must be preserved", out.Query)
	}
}

// --- Formatting ---

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(Output{}, &buf)
	if !strings.Contains(buf.String(), "No results found.") {
		t.Errorf("FormatTable empty output = %q", buf.String())
	}
}

func TestFormatJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	out := Output{
		Papers:          []types.Paper{paper("arxiv_1", "A", intPtr(2020), 3)},
		Total:           1,
		Query:           "q",
		RefinedQuery:    "q",
		SourcesSearched: []string{"arXiv"},
	}
	if err := FormatJSON(out, &buf); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	for _, want := range []string{`"sources_searched"`, `"arxiv_1"`, `"total": 1`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("JSON output missing %s", want)
		}
	}
}
