package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	// DefaultModel is used when no model name is configured.
	DefaultModel = "gemini-2.0-flash"

	defaultTimeout  = 15 * time.Second
	maxOutputTokens = 512
)

// Generator produces a single best-effort completion for a prompt. Any
// error means the caller should fall back to the deterministic responder.
type Generator interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}

// Gemini calls the Gemini API through the official SDK. A fresh client is
// created per call so each request can carry its own API key.
type Gemini struct {
	model   string
	timeout time.Duration
}

func NewGemini(model string, timeout time.Duration) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Gemini{model: model, timeout: timeout}
}

// Generate sends the prompt and returns the first candidate's text. The
// call is bounded by the configured timeout; a provider timeout surfaces as
// an error and triggers the fallback path upstream.
func (g *Gemini) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: maxOutputTokens,
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return strings.TrimSpace(resp.Text()), nil
}
