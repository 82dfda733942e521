package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

const defaultClaudeMaxTokens = 4096

type ClaudeClient struct {
	client *anthropic.Client
	model  string
	opts   GenerateOptions
}

func NewClaudeClient(apiKey string, model string, baseURL string, opts GenerateOptions) *ClaudeClient {
	var clientOpts []anthropic.ClientOption
	if baseURL != "" {
		clientOpts = append(clientOpts, anthropic.WithBaseURL(baseURL))
	}

	return &ClaudeClient{
		client: anthropic.NewClient(apiKey, clientOpts...),
		model:  model,
		opts:   opts,
	}
}

func (c *ClaudeClient) request(prompt string) anthropic.MessagesRequest {
	maxTokens := c.opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultClaudeMaxTokens
	}

	req := anthropic.MessagesRequest{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(prompt),
				},
			},
		},
		MaxTokens: maxTokens,
	}
	if c.opts.Temperature > 0 {
		temperature := c.opts.Temperature
		req.Temperature = &temperature
	}
	if c.opts.JSON {
		req.System = "Respond with a single JSON object and nothing else."
	}
	return req
}

func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (*Completion, error) {
	resp, err := c.client.CreateMessages(ctx, c.request(prompt))
	if err != nil {
		return nil, err
	}

	if len(resp.Content) == 0 || resp.Content[0].Text == nil {
		return nil, fmt.Errorf("no response content")
	}
	return &Completion{
		Text:             *resp.Content[0].Text,
		Provider:         "claude",
		Model:            c.model,
		PromptTokens:     resp.Usage.InputTokens,
		CompletionTokens: resp.Usage.OutputTokens,
	}, nil
}
