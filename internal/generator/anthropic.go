package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

// AnthropicClient is the alternate provider selected by LLM_PROVIDER=anthropic.
// Structured mode asks for bare JSON and validates it against the schema,
// since the Messages API has no declarative response-format parameter.
type AnthropicClient struct {
	client  *anthropic.Client
	model   string
	timeout time.Duration
}

func NewAnthropicClient(model string, timeout time.Duration) *AnthropicClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &AnthropicClient{client: &client, model: model, timeout: timeout}
}

func (c *AnthropicClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.call(ctx, "complete", systemPrompt, userPrompt, freeFormTemperature)
}

func (c *AnthropicClient) CompleteChat(ctx context.Context, messages []Message) (string, error) {
	var system string
	turns := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = m.Content
		case RoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   8192,
		Temperature: param.NewOpt(freeFormTemperature),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: turns,
	})
	if err != nil {
		return "", timeoutErr("chat", err)
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", genErr("chat", fmt.Errorf("no text content in API response"))
}

func (c *AnthropicClient) CompleteStructured(ctx context.Context, systemPrompt, userPrompt string, schema *Schema) (json.RawMessage, error) {
	system := systemPrompt + "\n\nRespond only with a JSON object matching the required schema. Do not wrap it in markdown or prose."
	text, err := c.call(ctx, "structured", system, userPrompt, structuredTemperature)
	if err != nil {
		return nil, err
	}

	raw := json.RawMessage(StripCodeFences(text))
	if err := schema.Validate(raw); err != nil {
		return nil, genErr("structured", err)
	}
	return raw, nil
}

func (c *AnthropicClient) call(ctx context.Context, op, systemPrompt, userPrompt string, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   8192,
		Temperature: param.NewOpt(temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", timeoutErr(op, err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", genErr(op, fmt.Errorf("no text content in API response"))
}
