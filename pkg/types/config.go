package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network
// requests. Each provider adapter gets its own client built from these
// values, so a slow provider never holds up the others.
type HTTPConfig struct {
	// Timeout bounds the whole request (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// ConnectTimeout bounds connection establishment (default 10s).
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "researchflow/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of results to return (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// EnableArxiv controls whether the arXiv provider is used.
	EnableArxiv bool `json:"enable_arxiv" yaml:"enable_arxiv"`

	// EnableSemanticScholar controls whether the Semantic Scholar provider is used.
	EnableSemanticScholar bool `json:"enable_semantic_scholar" yaml:"enable_semantic_scholar"`

	// EnablePubMed controls whether the PubMed provider is used.
	EnablePubMed bool `json:"enable_pubmed" yaml:"enable_pubmed"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`
}

// GenerationConfig holds settings for components that call the
// text-generation API.
type GenerationConfig struct {
	// Model is the model identifier (e.g. "llama-3.3-70b-versatile").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the generation API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// StoreConfig holds settings for the session store.
type StoreConfig struct {
	// Path is the SQLite database file (default "researchflow.db").
	Path string `json:"path" yaml:"path"`
}
