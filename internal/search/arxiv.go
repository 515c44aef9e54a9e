// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/researchflow/researchflow/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivProvider queries the arXiv Atom feed API.
type ArxivProvider struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the provider's display name.
func (p *ArxivProvider) Name() string { return "arXiv" }

// Search queries the arXiv API and maps feed entries to Papers. Entries
// without an ID are skipped; a malformed entry never fails the batch.
func (p *ArxivProvider) Search(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	params := url.Values{
		"search_query": {"all:" + query},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(limit)},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var papers []types.Paper
	for _, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}

		title := "Untitled"
		if t := strings.TrimSpace(entry.Title); t != "" {
			title = strings.ReplaceAll(t, "\n", " ")
		}

		var abstract string
		if s := strings.TrimSpace(entry.Summary); s != "" {
			abstract = clipRunes(strings.ReplaceAll(s, "\n", " "), abstractLimit)
		}

		var authors []types.Author
		for _, a := range entry.Authors {
			if name := strings.TrimSpace(a.Name); name != "" {
				authors = append(authors, types.Author{Name: name})
			}
		}
		if len(authors) == 0 {
			authors = []types.Author{{Name: "Unknown"}}
		}

		var year *int
		if len(entry.Published) >= 4 {
			if y, convErr := strconv.Atoi(entry.Published[:4]); convErr == nil {
				year = &y
			}
		}

		papers = append(papers, types.Paper{
			ID:         "arxiv_" + arxivID,
			Title:      title,
			Authors:    authors,
			Abstract:   abstract,
			Year:       year,
			URL:        "https://arxiv.org/abs/" + arxivID,
			PDFURL:     "https://arxiv.org/pdf/" + arxivID + ".pdf",
			SourceType: types.SourceArxiv,
			Venue:      "arXiv",
		})
	}
	return papers, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
