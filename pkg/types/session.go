// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Session groups the papers and chat history for one research topic.
type Session struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Topic     string    `json:"topic,omitempty" yaml:"topic,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// SessionPaper links a paper into a session with a relevance score.
// Manually added sources default to 0.5.
type SessionPaper struct {
	SessionID      string  `json:"session_id" yaml:"session_id"`
	PaperID        string  `json:"paper_id" yaml:"paper_id"`
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}

// ChatRole distinguishes who produced a chat message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of a session's chat history. Messages are
// created once and never mutated; history reads back ordered by
// CreatedAt ascending.
type ChatMessage struct {
	SessionID string   `json:"session_id" yaml:"session_id"`
	Role      ChatRole `json:"role" yaml:"role"`
	Content   string   `json:"content" yaml:"content"`

	// CitedPapers lists the paper IDs handed to the generator as
	// grounding context. Nil for user messages.
	CitedPapers []string `json:"cited_papers,omitempty" yaml:"cited_papers,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
