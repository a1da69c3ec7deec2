package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"resume-chat/internal/llm"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Client with the Gemini generateContent API.
type Client struct {
	models contentGenerator
	model  string
}

// NewGenAIClient builds the shared SDK client used for text and images.
func NewGenAIClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(baseURL) != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	return genai.NewClient(ctx, cc)
}

// NewClient wraps an SDK client for the given model.
func NewClient(client *genai.Client, model string) (*Client, error) {
	if client == nil {
		return nil, fmt.Errorf("gemini client is nil")
	}
	return newWithModels(client.Models, model)
}

func newWithModels(models contentGenerator, model string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("CHAT_MODEL is required for gemini")
	}
	return &Client{models: models, model: model}, nil
}

func (c *Client) Provider() string { return "gemini" }
func (c *Client) Model() string    { return c.model }

// Complete maps system messages onto the system instruction and the rest
// onto user/model turns.
func (c *Client) Complete(ctx context.Context, messages []llm.Message) (llm.Completion, error) {
	contents, system := toContents(messages)
	if len(contents) == 0 {
		return llm.Completion{}, fmt.Errorf("gemini: no user content")
	}
	var cfg *genai.GenerateContentConfig
	if system != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return llm.Completion{}, fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil {
		return llm.Completion{}, llm.ErrEmptyCompletion
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return llm.Completion{}, llm.ErrEmptyCompletion
	}

	out := llm.Completion{Content: text, Model: c.model}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}

func toContents(messages []llm.Message) ([]*genai.Content, string) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			system = append(system, m.Content)
		case llm.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return contents, strings.Join(system, "\n\n")
}
