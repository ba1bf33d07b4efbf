// Package llm wraps an OpenAI-compatible chat completion API used to suggest
// registry profile links.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/revrost/go-openrouter"
)

const (
	linkSystemPrompt = "You are an AI researcher providing the BBB link of the given company in your result. " +
		"Only return the link in your response nothing else"
	linkUserPrompt = "Provide the BBB link of this company %s\nonly return the link in your response nothing else"
)

// Generation settings for link suggestions. Low temperature and a bounded
// token budget keep the answer to a single URL.
const (
	linkTemperature      = 0.1
	linkMaxTokens        = 700
	linkTopP             = 0.9
	linkFrequencyPenalty = 1
	linkPresencePenalty  = 0
)

// Options configure the completion client.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to an OpenAI-compatible chat completion API.
type Client struct {
	openRouterClient *openrouter.Client
	model            string
	timeout          time.Duration
}

func NewClient(opts Options) *Client {
	cfg := openrouter.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}

	model := opts.Model
	if model == "" {
		model = "sonar-pro"
	}

	return &Client{
		openRouterClient: openrouter.NewClientWithConfig(cfg),
		model:            model,
		timeout:          opts.Timeout,
	}
}

// CompleteWithSystem runs one non-streaming completion and returns the trimmed
// text of the first choice.
func (c *Client) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	request := openrouter.ChatCompletionRequest{
		Model: c.model,
		Messages: []openrouter.ChatCompletionMessage{
			{
				Role:    openrouter.ChatMessageRoleSystem,
				Content: openrouter.Content{Text: systemPrompt},
			},
			{
				Role:    openrouter.ChatMessageRoleUser,
				Content: openrouter.Content{Text: userPrompt},
			},
		},
		Temperature:      linkTemperature,
		MaxTokens:        linkMaxTokens,
		TopP:             linkTopP,
		FrequencyPenalty: linkFrequencyPenalty,
		PresencePenalty:  linkPresencePenalty,
		Stream:           false,
	}

	response, err := c.openRouterClient.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	text := strings.TrimSpace(response.Choices[0].Message.Content.Text)
	if text == "" {
		return "", fmt.Errorf("empty completion returned")
	}
	return text, nil
}

// SuggestLink asks the model for the registry profile link of company.
func (c *Client) SuggestLink(ctx context.Context, company string) (string, error) {
	return c.CompleteWithSystem(ctx, linkSystemPrompt, fmt.Sprintf(linkUserPrompt, company))
}
