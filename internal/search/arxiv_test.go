// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/researchflow/researchflow/pkg/types"
)

const arxivFeedSample = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v2</id>
    <title>Attention Is
 All You Need</title>
    <summary>  The dominant sequence transduction models...
</summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
  </entry>
  <entry>
    <id></id>
    <title>Broken entry without an id</title>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2105.00001v1</id>
    <title></title>
    <published>bad-date</published>
  </entry>
</feed>`

func TestArxivSearchMapsEntries(t *testing.T) {
	var capturedReq *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		fmt.Fprint(w, arxivFeedSample)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	p := &ArxivProvider{Client: ts.Client(), UserAgent: "test/0.1"}
	papers, err := p.Search(context.Background(), "attention transformers", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	q := capturedReq.URL.Query()
	if got := q.Get("search_query"); got != "all:attention transformers" {
		t.Errorf("search_query = %q", got)
	}
	if got := q.Get("max_results"); got != "5" {
		t.Errorf("max_results = %q", got)
	}
	if got := capturedReq.Header.Get("User-Agent"); got != "test/0.1" {
		t.Errorf("User-Agent = %q", got)
	}

	// The id-less entry is skipped; the other two survive.
	if len(papers) != 2 {
		t.Fatalf("len(papers) = %d, want 2", len(papers))
	}

	first := papers[0]
	if first.ID != "arxiv_2301.07041" {
		t.Errorf("ID = %q (version suffix must be stripped)", first.ID)
	}
	if strings.Contains(first.Title, "\n") {
		t.Errorf("Title contains newline: %q", first.Title)
	}
	if len(first.Authors) != 2 || first.Authors[0].Name != "Ashish Vaswani" {
		t.Errorf("Authors = %v", first.Authors)
	}
	if first.Year == nil || *first.Year != 2017 {
		t.Errorf("Year = %v, want 2017", first.Year)
	}
	if first.PDFURL != "https://arxiv.org/pdf/2301.07041.pdf" {
		t.Errorf("PDFURL = %q", first.PDFURL)
	}
	if first.SourceType != types.SourceArxiv {
		t.Errorf("SourceType = %q", first.SourceType)
	}

	second := papers[1]
	if second.Title != "Untitled" {
		t.Errorf("missing title should default to Untitled, got %q", second.Title)
	}
	if len(second.Authors) != 1 || second.Authors[0].Name != "Unknown" {
		t.Errorf("missing authors should default to Unknown, got %v", second.Authors)
	}
	if second.Year != nil {
		t.Errorf("unparseable date should leave Year nil, got %v", *second.Year)
	}
}

func TestArxivSearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	p := &ArxivProvider{Client: ts.Client()}
	if _, err := p.Search(context.Background(), "q", 5); err == nil {
		t.Error("expected error for HTTP 503")
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"http://arxiv.org/abs/2301.07041", "2301.07041"},
		{"http://arxiv.org/abs/hep-th/9901001v2", "hep-th/9901001"},
		{"http://example.com/nothing", ""},
	}
	for _, tt := range tests {
		if got := extractArxivID(tt.in); got != tt.want {
			t.Errorf("extractArxivID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
