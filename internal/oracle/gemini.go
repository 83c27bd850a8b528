package oracle

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiOptions configures the Gemini-backed oracle.
type GeminiOptions struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for proxies and tests
	Prompt  Prompt
}

type geminiChat struct {
	client *genai.Client
	model  string
}

// NewGemini creates an oracle backed by the Gemini API.
func NewGemini(ctx context.Context, opts GeminiOptions) (*LLM, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrUnauthorized
	}
	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	return &LLM{
		provider: "gemini",
		model:    opts.Model,
		prompt:   opts.Prompt,
		chat:     &geminiChat{client: client, model: opts.Model},
	}, nil
}

func (g *geminiChat) complete(ctx context.Context, system, user string) (string, error) {
	var cfg *genai.GenerateContentConfig
	if system != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(user), cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
