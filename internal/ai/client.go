// Package ai implements the LLM fallback collaborator: when the rule engine
// scores below threshold, a Gemini model is asked for a command proposal.
// The proposal is never trusted directly; the engine re-validates it.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sevaagent/seva/internal/engine"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// Config selects the provider and credentials for the fallback client.
//
// Providers:
//
//	gemini     - Application Default Credentials (gcloud auth application-default login)
//	gemini-api - API key from Google AI Studio
type Config struct {
	Provider string
	APIKey   string
	Model    string
	Debug    bool
}

// Client talks to Gemini and turns free text into a command proposal.
type Client struct {
	gemini *genai.Client
	model  string
	debug  bool
}

// NewClient initializes the provider. An unsupported provider or a client
// construction failure is returned to the caller; the engine then simply
// runs without a fallback.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	switch cfg.Provider {
	case "gemini":
		// No APIKey: the genai client picks up Application Default
		// Credentials, same as the gemini CLI.
		gc, err := genai.NewClient(ctx, &genai.ClientConfig{})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return &Client{gemini: gc, model: model, debug: cfg.Debug}, nil
	case "gemini-api":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini-api provider configured without API key")
		}
		gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return &Client{gemini: gc, model: model, debug: cfg.Debug}, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
}

type commandProposal struct {
	Success     bool   `json:"success"`
	Command     string `json:"command"`
	Description string `json:"description"`
}

// GenerateCommand implements engine.Fallback. The prompt demands a strict
// JSON object; anything unparsable is an error, not a guess.
func (c *Client) GenerateCommand(ctx context.Context, query string) (engine.FallbackCommand, error) {
	prompt := fmt.Sprintf(`Convert this AWS request to a single safe read-only AWS CLI command: %q

Return JSON only:
{
    "success": true,
    "command": "aws service action --parameters",
    "description": "what this does"
}`, query)

	content := genai.NewContentFromText(prompt, genai.RoleUser)
	resp, err := c.gemini.Models.GenerateContent(ctx, c.model, []*genai.Content{content}, nil)
	if err != nil {
		return engine.FallbackCommand{}, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return engine.FallbackCommand{}, fmt.Errorf("no response candidates from Gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}

	if c.debug {
		fmt.Printf("fallback raw response: %s\n", text.String())
	}

	return parseProposal(text.String())
}

// parseProposal extracts the first JSON object from the model output and
// decodes it. Models wrap JSON in prose and code fences often enough that a
// plain Unmarshal of the whole reply is not an option.
func parseProposal(raw string) (engine.FallbackCommand, error) {
	blob := extractJSON(raw)
	if blob == "" {
		return engine.FallbackCommand{}, fmt.Errorf("no JSON object in fallback response")
	}

	var proposal commandProposal
	if err := json.Unmarshal([]byte(blob), &proposal); err != nil {
		return engine.FallbackCommand{}, fmt.Errorf("failed to parse fallback response: %w", err)
	}
	if !proposal.Success || strings.TrimSpace(proposal.Command) == "" {
		return engine.FallbackCommand{}, fmt.Errorf("fallback declined the request")
	}

	return engine.FallbackCommand{
		Command:     strings.TrimSpace(proposal.Command),
		Description: strings.TrimSpace(proposal.Description),
	}, nil
}

// extractJSON returns the first brace-balanced object in the text, ignoring
// braces inside JSON strings.
func extractJSON(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}
