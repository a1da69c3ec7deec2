package llm

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn sent to the model.
type Message struct {
	Role    string
	Content string
}

// System builds a system message.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User builds a user message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// Assistant builds an assistant message.
func Assistant(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// Usage reports token accounting when the provider returns it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is the model's reply to one request.
type Completion struct {
	Content string
	Model   string
	Usage   *Usage
}

// Client abstracts text model providers.
type Client interface {
	Complete(ctx context.Context, messages []Message) (Completion, error)
}

// Named is implemented by clients that can report their provider and model.
type Named interface {
	Provider() string
	Model() string
}

var (
	// ErrNotImplemented is returned by the placeholder client.
	ErrNotImplemented = errors.New("LLM not configured")
	// ErrEmptyCompletion is returned when the provider answers without content.
	ErrEmptyCompletion = errors.New("LLM returned empty content")
)

// PlaceholderClient stands in when no provider credentials are configured.
type PlaceholderClient struct{}

// Complete returns ErrNotImplemented.
func (PlaceholderClient) Complete(ctx context.Context, messages []Message) (Completion, error) {
	return Completion{}, ErrNotImplemented
}

func (PlaceholderClient) Provider() string { return "placeholder" }
func (PlaceholderClient) Model() string    { return "" }

// ProviderOf returns the provider name of c, or "unknown".
func ProviderOf(c Client) string {
	if n, ok := c.(Named); ok {
		return n.Provider()
	}
	return "unknown"
}
