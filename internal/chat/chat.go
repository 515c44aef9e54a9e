// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chat answers questions over a session's papers. Retrieval is
// lexical: the question selects the most relevant papers, their
// abstracts become the prompt context, and the model is instructed to
// cite sources by their bracketed tags.
package chat

import (
	"context"
	"fmt"
	"io"

	"github.com/researchflow/researchflow/internal/generate"
	"github.com/researchflow/researchflow/internal/relevance"
	"github.com/researchflow/researchflow/pkg/types"
)

const systemPrompt = `You are an AI research assistant. Answer the user's question ONLY using the provided sources.
Each source begins with a tag in square brackets, e.g. [Eeg-Alzheimer-2019].
When you make a claim, cite the relevant source(s) by reusing EXACTLY those tags, e.g. '... [Eeg-Alzheimer-2019]'. Do NOT invent new tags.
If the answer is not supported by these sources, say you don't know or that the sources don't cover it.
`

const userPromptFormat = `User question:
%s

Here are the available sources:
%s

Now provide a concise, well-structured answer with inline citations using the tags.`

// Store is the session persistence the chat layer depends on.
type Store interface {
	SessionPapers(ctx context.Context, sessionID string) ([]types.Paper, error)
	AppendMessage(ctx context.Context, msg types.ChatMessage) error
	History(ctx context.Context, sessionID string) ([]types.ChatMessage, error)
}

// Source describes one paper handed to the model as context for an answer.
type Source struct {
	PaperID  string   `json:"paper_id" yaml:"paper_id"`
	Title    string   `json:"title" yaml:"title"`
	Abstract string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Year     *int     `json:"year,omitempty" yaml:"year,omitempty"`
	Authors  []string `json:"authors" yaml:"authors"`
	Tag      string   `json:"tag" yaml:"tag"`
}

// Response is a grounded answer plus the sources it drew on.
type Response struct {
	Answer  string   `json:"answer" yaml:"answer"`
	Sources []Source `json:"sources" yaml:"sources"`
}

// Service answers questions over session papers.
type Service struct {
	Store     Store
	Generator generate.Generator
}

// Ask answers a question using the session's papers and records both
// turns in the chat history. A history write failure logs a warning to w
// but never fails the answer.
func (s *Service) Ask(ctx context.Context, sessionID, question string, w io.Writer) (Response, error) {
	if sessionID == "" {
		return Response{}, fmt.Errorf("session ID is required")
	}
	if question == "" {
		return Response{}, fmt.Errorf("question is required")
	}

	papers, err := s.Store.SessionPapers(ctx, sessionID)
	if err != nil {
		return Response{}, fmt.Errorf("loading session papers: %w", err)
	}
	if len(papers) == 0 {
		return Response{}, fmt.Errorf("no sources in this session yet")
	}

	// Tags are derived over the full session list so they stay stable
	// regardless of which subset a particular question selects.
	tagByID := make(map[string]string, len(papers))
	for i, p := range papers {
		tagByID[p.ID] = relevance.Tag(p, i)
	}

	selected := relevance.Select(question, papers, relevance.ChatTopK)
	tags := make([]string, len(selected))
	citedIDs := make([]string, len(selected))
	for i, p := range selected {
		tags[i] = tagByID[p.ID]
		citedIDs[i] = p.ID
	}

	userPrompt := fmt.Sprintf(userPromptFormat, question, relevance.ContextText(selected, tags))
	answer, err := s.Generator.Generate(ctx, systemPrompt, userPrompt, 0, generate.DefaultTemperature)
	if err != nil {
		return Response{}, fmt.Errorf("generating answer: %w", err)
	}

	err = s.Store.AppendMessage(ctx, types.ChatMessage{
		SessionID: sessionID,
		Role:      types.RoleUser,
		Content:   question,
	})
	if err == nil {
		err = s.Store.AppendMessage(ctx, types.ChatMessage{
			SessionID:   sessionID,
			Role:        types.RoleAssistant,
			Content:     answer,
			CitedPapers: citedIDs,
		})
	}
	if err != nil {
		fmt.Fprintf(w, "warning: failed to save chat history: %v\n", err)
	}

	sources := make([]Source, len(selected))
	for i, p := range selected {
		sources[i] = Source{
			PaperID:  p.ID,
			Title:    p.Title,
			Abstract: p.Abstract,
			Year:     p.Year,
			Authors:  p.AuthorNames(),
			Tag:      tags[i],
		}
	}

	return Response{Answer: answer, Sources: sources}, nil
}

// History returns the session's chat messages, oldest first.
func (s *Service) History(ctx context.Context, sessionID string) ([]types.ChatMessage, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}
	return s.Store.History(ctx, sessionID)
}
