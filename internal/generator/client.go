package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Client is the generation capability every pipeline stage consumes.
// Complete returns free text; CompleteChat does the same over a full
// conversation; CompleteStructured returns JSON that conforms to the
// given schema or fails with a *GenerationError.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CompleteChat(ctx context.Context, messages []Message) (string, error)
	CompleteStructured(ctx context.Context, systemPrompt, userPrompt string, schema *Schema) (json.RawMessage, error)
}

// Message roles underlying CompleteChat.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged turn of a conversation.
type Message struct {
	Role    string
	Content string
}

// GenerationError marks a failed generation call: remote error, timeout,
// or schema-nonconformant output. Callers convert it into an error
// artifact for the failing unit of work rather than aborting the run.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func genErr(op string, err error) error {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return err
	}
	return &GenerationError{Op: op, Err: err}
}

// IsGenerationError reports whether err is (or wraps) a GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

const (
	defaultTimeout        = 120 * time.Second
	freeFormTemperature   = 0.7
	structuredTemperature = 0.2
)

// NewClient selects a provider from the environment: MOCK_GENERATOR=true
// for deterministic local output, LLM_PROVIDER=anthropic for the Anthropic
// API, otherwise OpenAI.
func NewClient() Client {
	timeout := defaultTimeout
	if v := os.Getenv("LLM_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}

	if os.Getenv("MOCK_GENERATOR") == "true" {
		log.Println("Generator using mock data")
		return NewMockClient()
	}

	if os.Getenv("LLM_PROVIDER") == "anthropic" {
		model := os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-sonnet-4-5"
		}
		log.Println("Generator using Anthropic API:", model)
		return NewAnthropicClient(model, timeout)
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4.1"
	}
	log.Println("Generator using OpenAI API:", model)
	return NewOpenAIClient(model, timeout)
}

// timeoutErr converts a context expiry into a GenerationError.
func timeoutErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &GenerationError{Op: op, Err: fmt.Errorf("timed out: %w", err)}
	}
	return genErr(op, err)
}
