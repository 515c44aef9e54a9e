// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/researchflow/researchflow/internal/httputil"
	"github.com/researchflow/researchflow/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "paperId,title,authors,abstract,year,citationCount,url,venue,openAccessPdf"

// semanticMaxLimit is the per-request cap the free tier tolerates.
const semanticMaxLimit = 10

// SemanticScholarProvider queries the Semantic Scholar graph search API.
// It is the one provider with a bounded 429 retry: the free tier rate
// limits aggressively, and a single retry recovers most of those.
type SemanticScholarProvider struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// Name returns the provider's display name.
func (p *SemanticScholarProvider) Name() string { return "Semantic Scholar" }

// Search queries the Semantic Scholar API and maps results to Papers.
func (p *SemanticScholarProvider) Search(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	if limit > semanticMaxLimit {
		limit = semanticMaxLimit
	}

	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)
	if p.APIKey != "" {
		req.Header.Set("x-api-key", p.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 2)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	var papers []types.Paper
	for _, item := range sr.Data {
		if item.PaperID == "" {
			continue
		}

		title := item.Title
		if title == "" {
			title = "Untitled"
		}

		var authors []types.Author
		for _, a := range item.Authors {
			name := a.Name
			if name == "" {
				name = "Unknown"
			}
			authors = append(authors, types.Author{Name: name})
		}
		if len(authors) == 0 {
			authors = []types.Author{{Name: "Unknown"}}
		}

		pageURL := item.URL
		if pageURL == "" {
			pageURL = "https://www.semanticscholar.org/paper/" + item.PaperID
		}

		var pdfURL string
		if item.OpenAccessPdf != nil {
			pdfURL = item.OpenAccessPdf.URL
		}

		papers = append(papers, types.Paper{
			ID:            "ss_" + item.PaperID,
			Title:         title,
			Authors:       authors,
			Abstract:      clipRunes(item.Abstract, abstractLimit),
			Year:          item.Year,
			CitationCount: item.CitationCount,
			URL:           pageURL,
			PDFURL:        pdfURL,
			SourceType:    types.SourceSemanticScholar,
			Venue:         item.Venue,
		})
	}
	return papers, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string           `json:"paperId"`
	Title         string           `json:"title"`
	Abstract      string           `json:"abstract"`
	Year          *int             `json:"year"`
	CitationCount int              `json:"citationCount"`
	URL           string           `json:"url"`
	Venue         string           `json:"venue"`
	Authors       []semanticAuthor `json:"authors"`
	OpenAccessPdf *semanticPdf     `json:"openAccessPdf"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticPdf struct {
	URL string `json:"url"`
}
