package oracle

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const claudeMaxTokens = 64

// ClaudeOptions configures the Anthropic-backed oracle.
type ClaudeOptions struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for proxies and tests
	Prompt  Prompt
}

type claudeChat struct {
	client anthropic.Client
	model  string
}

// NewClaude creates an oracle backed by the Anthropic Messages API.
func NewClaude(opts ClaudeOptions) (*LLM, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrUnauthorized
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	return &LLM{
		provider: "anthropic",
		model:    opts.Model,
		prompt:   opts.Prompt,
		chat: &claudeChat{
			client: anthropic.NewClient(reqOpts...),
			model:  opts.Model,
		},
	}, nil
}

func (c *claudeChat) complete(ctx context.Context, system, user string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: claudeMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden:
				return "", ErrUnauthorized
			case http.StatusTooManyRequests:
				return "", ErrRateLimited
			}
		}
		return "", err
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}
