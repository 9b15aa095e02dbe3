package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient is the production generation client.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAIClient(model string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		client:  openai.NewClient(os.Getenv("OPENAI_API_KEY")),
		model:   model,
		timeout: timeout,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.CompleteChat(ctx, []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: userPrompt},
	})
}

func (c *OpenAIClient) CompleteChat(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	chat := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chat = append(chat, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: freeFormTemperature,
		Messages:    chat,
	})
	if err != nil {
		return "", timeoutErr("complete", err)
	}
	if len(resp.Choices) == 0 {
		return "", genErr("complete", fmt.Errorf("no choices in response"))
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) CompleteStructured(ctx context.Context, systemPrompt, userPrompt string, schema *Schema) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	schemaBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, genErr("structured", fmt.Errorf("marshal schema: %w", err))
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: structuredTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schema.Name,
				Schema: json.RawMessage(schemaBytes),
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, timeoutErr("structured", err)
	}
	if len(resp.Choices) == 0 {
		return nil, genErr("structured", fmt.Errorf("no choices in response"))
	}

	raw := json.RawMessage(StripCodeFences(resp.Choices[0].Message.Content))
	if err := schema.Validate(raw); err != nil {
		return nil, genErr("structured", err)
	}
	return raw, nil
}
