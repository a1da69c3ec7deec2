package chat

import (
	"context"
	"sync"
	"time"

	"resume-chat/internal/imagegen"
	"resume-chat/internal/interactions"
	"resume-chat/internal/llm"
	"resume-chat/internal/resume"
)

type fakeLLM struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   [][]llm.Message
}

func (f *fakeLLM) Complete(ctx context.Context, messages []llm.Message) (llm.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.calls)
	f.calls = append(f.calls, messages)
	if idx < len(f.errs) && f.errs[idx] != nil {
		return llm.Completion{}, f.errs[idx]
	}
	if idx < len(f.replies) {
		return llm.Completion{Content: f.replies[idx], Model: "fake"}, nil
	}
	return llm.Completion{Content: "", Model: "fake"}, llm.ErrEmptyCompletion
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeImages struct {
	img     imagegen.Image
	err     error
	prompts []string
}

func (f *fakeImages) Generate(ctx context.Context, prompt string) (imagegen.Image, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return imagegen.Image{}, f.err
	}
	return f.img, nil
}

func (f *fakeImages) Model() string { return "imagen-4.0-fast-generate-001" }

func newTestService(text *fakeLLM, images imagegen.Generator, repo interactions.Repo) *Service {
	svc := NewService(Deps{
		LLM:        text,
		Images:     images,
		Repo:       repo,
		Profile:    resume.NewProfile("Persona", resume.Document{Text: `{"nome": "Eleandro"}`, Format: resume.FormatJSON}),
		Trigger:    Trigger{Mode: "always"},
		ModelText:  "grok-4-fast-reasoning",
		MaxHistory: 6,
	})
	svc.Now = func() time.Time { return time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC) }
	ids := 0
	svc.NewID = func() string {
		ids++
		return "id-" + string(rune('0'+ids))
	}
	return svc
}
