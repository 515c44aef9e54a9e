// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package draft generates long-form writeups (summaries and literature
// reviews) from a session's papers.
package draft

import (
	"context"
	"fmt"
	"strings"

	"github.com/researchflow/researchflow/internal/generate"
	"github.com/researchflow/researchflow/internal/relevance"
	"github.com/researchflow/researchflow/pkg/types"
)

// Style selects the draft format.
type Style string

const (
	StyleSummary          Style = "summary"
	StyleLiteratureReview Style = "literature_review"
)

// Output length caps per style. Summaries stay short; reviews get room
// for multiple sections.
const (
	summaryMaxTokens = 900
	reviewMaxTokens  = 2048
)

// fallbackTopic is used when a session has neither title nor topic text.
const fallbackTopic = "this research topic"

// ParseStyle validates a user-supplied style name. Empty defaults to a
// literature review.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return StyleLiteratureReview, nil
	case StyleSummary:
		return StyleSummary, nil
	case StyleLiteratureReview:
		return StyleLiteratureReview, nil
	}
	return "", fmt.Errorf("unknown draft style %q (want summary or literature_review)", s)
}

const summarySystemPrompt = `You are an AI research assistant. Write a SHORT textual summary based ONLY on the provided sources.
Each source begins with a tag in square brackets, e.g. [Eeg-Alzheimer-2019].
When you refer to a source, cite it inline using those tags, e.g. '[Eeg-Alzheimer-2019]'.
Do NOT invent new tags. Do NOT include a long multi-section structure.
The summary should be:
- 2 to 4 paragraphs
- High-level, focusing on overall goals, methods, and key findings
- NO section headings except 'Summary' as a top-level heading
- Avoid deep methodological detail; just highlight the main ideas.
`

const summaryUserFormat = `Research topic:
%s

Write a SHORT Summary of what these sources say about this topic.

Sources:
%s

Output format:
# Summary

Then 2-4 paragraphs of text with inline citation tags like [Eeg-Alzheimer-2019].`

const reviewSystemPrompt = `You are an AI research assistant. Write a DETAILED literature review based ONLY on the provided sources.
Each source begins with a tag in square brackets, e.g. [Eeg-Alzheimer-2019].
When you refer to a source, cite it inline using those tags, e.g. '[Eeg-Alzheimer-2019]'.
Do NOT invent new tags. The literature review should:
- Be roughly 1200-2000 words in length (not extremely short)
- Have clear section headings:
  Introduction; Background / Related Work; Methods / Approaches; Findings / Discussion;
  Limitations and Future Work; Conclusion
- Compare and contrast different sources, not just list them one by one
- Highlight agreements, contradictions, gaps, and trends across papers.
If some sections cannot be fully supported, keep those parts brief but still include them.
`

const reviewUserFormat = `Research topic:
%s

Write a detailed literature review for this topic using ONLY the following sources:

%s

Remember to use the tags in square brackets from each source when citing it, like [Eeg-Alzheimer-2019].
Do NOT add any sections other than the headings listed.
`

// Store is the session persistence the draft layer depends on.
type Store interface {
	GetSession(ctx context.Context, id string) (types.Session, error)
	SessionPapers(ctx context.Context, sessionID string) ([]types.Paper, error)
}

// Service generates drafts from session papers.
type Service struct {
	Store     Store
	Generator generate.Generator
}

// Generate produces a draft for the session in the given style, grounded
// in the papers most relevant to the session topic.
func (s *Service) Generate(ctx context.Context, sessionID string, style Style) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("session ID is required")
	}

	sess, err := s.Store.GetSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	topic := strings.TrimSpace(sess.Title + " " + sess.Topic)
	if topic == "" {
		topic = fallbackTopic
	}

	papers, err := s.Store.SessionPapers(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("loading session papers: %w", err)
	}
	if len(papers) == 0 {
		return "", fmt.Errorf("no sources in this session yet")
	}

	tagByID := make(map[string]string, len(papers))
	for i, p := range papers {
		tagByID[p.ID] = relevance.Tag(p, i)
	}

	selected := relevance.Select(topic, papers, relevance.DraftTopK)
	tags := make([]string, len(selected))
	for i, p := range selected {
		tags[i] = tagByID[p.ID]
	}
	contextText := relevance.ContextText(selected, tags)

	var systemPrompt, userPrompt string
	var maxTokens int
	switch style {
	case StyleSummary:
		systemPrompt = summarySystemPrompt
		userPrompt = fmt.Sprintf(summaryUserFormat, topic, contextText)
		maxTokens = summaryMaxTokens
	case StyleLiteratureReview:
		systemPrompt = reviewSystemPrompt
		userPrompt = fmt.Sprintf(reviewUserFormat, topic, contextText)
		maxTokens = reviewMaxTokens
	default:
		return "", fmt.Errorf("unknown draft style %q", style)
	}

	text, err := s.Generator.Generate(ctx, systemPrompt, userPrompt, maxTokens, generate.DefaultTemperature)
	if err != nil {
		return "", fmt.Errorf("generating draft: %w", err)
	}
	return text, nil
}
