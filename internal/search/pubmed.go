// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/researchflow/researchflow/pkg/types"
)

// PubMed E-Utilities endpoints. Declared as vars so tests can substitute
// httptest servers.
var (
	pubmedSearchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	pubmedSummaryBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esummary.fcgi"
)

// pubmedRateLimit is 3 requests per second, NCBI's ceiling for
// unauthenticated E-Utilities clients.
const pubmedRateLimit = 3.0

// PubMedProvider queries PubMed through the NCBI E-Utilities in two
// steps: an ID search (esearch) followed by a summary lookup (esummary).
type PubMedProvider struct {
	Client    *http.Client
	UserAgent string
	limiter   *rate.Limiter
}

// NewPubMedProvider builds a PubMed provider with the NCBI rate limit
// applied across both calls of each search.
func NewPubMedProvider(client *http.Client, userAgent string) *PubMedProvider {
	return &PubMedProvider{
		Client:    client,
		UserAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Limit(pubmedRateLimit), 1),
	}
}

// Name returns the provider's display name.
func (p *PubMedProvider) Name() string { return "PubMed" }

// Search runs the esearch/esummary pair and maps summaries to Papers.
// PubMed summaries carry no abstracts or citation counts; those fields
// stay at their zero values.
func (p *PubMedProvider) Search(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	ids, err := p.searchIDs(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	summaries, err := p.fetchSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	var papers []types.Paper
	for _, pmid := range ids {
		raw, ok := summaries[pmid]
		if !ok {
			continue
		}
		var item pubmedSummary
		if err := json.Unmarshal(raw, &item); err != nil {
			// Malformed entry; skip it, keep the rest.
			continue
		}

		title := item.Title
		if title == "" {
			title = "Untitled"
		}

		var authors []types.Author
		for _, a := range item.Authors {
			if a.Name != "" {
				authors = append(authors, types.Author{Name: a.Name})
			}
		}
		if len(authors) == 0 {
			authors = []types.Author{{Name: "Unknown"}}
		}

		var year *int
		if fields := strings.Fields(item.PubDate); len(fields) > 0 {
			if y, convErr := strconv.Atoi(fields[0]); convErr == nil {
				year = &y
			}
		}

		venue := item.Source
		if venue == "" {
			venue = "PubMed"
		}

		papers = append(papers, types.Paper{
			ID:         "pubmed_" + pmid,
			Title:      title,
			Authors:    authors,
			Year:       year,
			URL:        "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/",
			SourceType: types.SourcePubMed,
			Venue:      venue,
		})
	}
	return papers, nil
}

// searchIDs runs the esearch step and returns matching PubMed IDs.
func (p *PubMedProvider) searchIDs(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmax":  {strconv.Itoa(limit)},
		"retmode": {"json"},
		"sort":    {"relevance"},
	}

	var sr pubmedSearchResponse
	if err := p.getJSON(ctx, pubmedSearchBase+"?"+params.Encode(), &sr); err != nil {
		return nil, err
	}
	return sr.EsearchResult.IDList, nil
}

// fetchSummaries runs the esummary step for the given IDs. The response
// keys each summary by its PMID, so entries come back as raw JSON to be
// decoded one at a time.
func (p *PubMedProvider) fetchSummaries(ctx context.Context, ids []string) (map[string]json.RawMessage, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"json"},
	}

	var sr pubmedSummaryResponse
	if err := p.getJSON(ctx, pubmedSummaryBase+"?"+params.Encode(), &sr); err != nil {
		return nil, err
	}
	return sr.Result, nil
}

func (p *PubMedProvider) getJSON(ctx context.Context, reqURL string, v any) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("PubMed API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("PubMed API returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing PubMed response: %w", err)
	}
	return nil
}

// PubMed E-Utilities JSON structures.
type pubmedSearchResponse struct {
	EsearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type pubmedSummaryResponse struct {
	// Result maps PMID -> summary object, plus a "uids" array entry that
	// is skipped by keyed lookup.
	Result map[string]json.RawMessage `json:"result"`
}

type pubmedSummary struct {
	Title   string `json:"title"`
	PubDate string `json:"pubdate"`
	Source  string `json:"source"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}
