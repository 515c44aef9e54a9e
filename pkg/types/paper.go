// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the researchflow pipeline.
package types

// SourceType identifies which provider a paper record came from.
type SourceType string

const (
	SourceArxiv           SourceType = "arxiv"
	SourceSemanticScholar SourceType = "semantic_scholar"
	SourcePubMed          SourceType = "pubmed"
	SourceUploaded        SourceType = "uploaded"
)

// Author identifies a paper author.
type Author struct {
	// Name is the author's display name as reported by the provider.
	Name string `json:"name" yaml:"name"`

	// Affiliations lists institutional affiliations when the provider
	// reports them.
	Affiliations []string `json:"affiliations,omitempty" yaml:"affiliations,omitempty"`
}

// Paper is the canonical bibliographic record used throughout the pipeline.
// Provider adapters map their native response shapes into this type and
// nothing provider-specific crosses the adapter boundary.
type Paper struct {
	// ID is unique within an aggregation batch. Adapters prefix it with
	// the provider name (arxiv_, ss_, pubmed_, upload_) so IDs never
	// collide across sources.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title, never empty ("Untitled" when the provider
	// omits it).
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in provider order. Search adapters
	// fill a single "Unknown" author when the provider reports none;
	// uploaded papers may have an empty list.
	Authors []Author `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract, truncated to 2000 characters at
	// ingestion. Empty when the provider supplies none.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Year is the publication year. Nil means unknown, which is distinct
	// from zero.
	Year *int `json:"year,omitempty" yaml:"year,omitempty"`

	// CitationCount is the provider-reported citation count, zero when
	// unreported.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// URL is the paper's landing page.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// PDFURL is a direct link to the PDF when one is available.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// SourceType identifies the provider that produced this record.
	SourceType SourceType `json:"source_type" yaml:"source_type"`

	// Venue is the journal, conference, or archive name.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`
}

// YearValue returns the publication year or fallback when it is unknown.
func (p Paper) YearValue(fallback int) int {
	if p.Year == nil {
		return fallback
	}
	return *p.Year
}

// AuthorNames returns the author display names in order.
func (p Paper) AuthorNames() []string {
	names := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names
}
