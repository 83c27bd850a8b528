package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOllamaURL = "http://localhost:11434"
	maxBodySize      = 1 << 20 // 1 MB
)

// OllamaOptions configures the local Ollama oracle.
type OllamaOptions struct {
	BaseURL string
	Model   string
	Timeout time.Duration // per request; zero means no extra limit
	Prompt  Prompt
}

type ollamaChat struct {
	baseURL string
	model   string
	timeout time.Duration
	http    *http.Client
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error,omitempty"`
}

// NewOllama creates an oracle backed by a local Ollama server.
func NewOllama(opts OllamaOptions) *LLM {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = defaultOllamaURL
	}
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &LLM{
		provider: "ollama",
		model:    opts.Model,
		prompt:   opts.Prompt,
		chat: &ollamaChat{
			baseURL: base,
			model:   opts.Model,
			timeout: opts.Timeout,
			http:    &http.Client{},
		},
	}
}

func (o *ollamaChat) complete(ctx context.Context, system, user string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	var msgs []ollamaMessage
	if system != "" {
		msgs = append(msgs, ollamaMessage{Role: "system", Content: system})
	}
	msgs = append(msgs, ollamaMessage{Role: "user", Content: user})

	payload, err := json.Marshal(ollamaRequest{
		Model:    o.model,
		Messages: msgs,
		Stream:   false,
		Options:  map[string]any{"temperature": 0},
	})
	if err != nil {
		return "", fmt.Errorf("ollama: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ollama: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "github.com/theirongolddev/tripcost/1.0")

	//nolint:gosec // URL comes from user configuration
	resp, err := o.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", ErrUnauthorized
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("ollama: reading response: %w", err)
	}

	var out ollamaResponse
	if err := json.Unmarshal(body, &out); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", fmt.Errorf("ollama: unexpected status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("ollama: parsing response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if out.Error != "" {
			return "", fmt.Errorf("ollama: status %d: %s", resp.StatusCode, out.Error)
		}
		return "", fmt.Errorf("ollama: unexpected status %d", resp.StatusCode)
	}
	return out.Message.Content, nil
}
