// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate produces grounded text from an LLM backend. The chat
// and draft layers build the prompts; this package only handles the
// model transport.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "llama-3.3-70b-versatile"

// DefaultTemperature keeps grounded answers close to the sources.
const DefaultTemperature = 0.2

// Generator produces a completion from a system prompt and a user prompt.
// maxTokens <= 0 leaves the output length to the backend.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// groqAPIURL is the Groq chat completions endpoint. Package-level var for
// test substitution.
var groqAPIURL = "https://api.groq.com/openai/v1/chat/completions"

// GroqBackend calls the Groq API, which speaks the OpenAI chat
// completions protocol.
type GroqBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// groqRequest is the request body for the chat completions API.
type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// groqMessage is a single message in the conversation.
type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// groqResponse is the response body from the chat completions API.
type groqResponse struct {
	Choices []groqChoice `json:"choices"`
}

type groqChoice struct {
	Message groqMessage `json:"message"`
}

// Generate sends the prompts to the Groq API and returns the completion text.
func (g *GroqBackend) Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error) {
	model := g.Model
	if model == "" {
		model = DefaultModel
	}

	reqBody := groqRequest{
		Model:       model,
		Temperature: temperature,
		Messages: []groqMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	if maxTokens > 0 {
		reqBody.MaxTokens = maxTokens
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, groqAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Groq API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Groq API returned %d: %s", resp.StatusCode, string(body))
	}

	var gResp groqResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", fmt.Errorf("decoding Groq response: %w", err)
	}

	if len(gResp.Choices) == 0 {
		return "", fmt.Errorf("Groq API returned no choices")
	}

	return gResp.Choices[0].Message.Content, nil
}
