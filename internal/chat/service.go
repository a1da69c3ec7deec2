package chat

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-chat/internal/imagegen"
	"resume-chat/internal/interactions"
	"resume-chat/internal/llm"
	"resume-chat/internal/resume"
	"resume-chat/internal/shared/metrics"
	"resume-chat/internal/shared/telemetry"
)

const logPreviewRunes = 50

// Service answers questions about the résumé.
type Service struct {
	LLM        llm.Client
	Images     imagegen.Generator
	Archiver   *imagegen.Archiver
	Repo       interactions.Repo
	Profile    *resume.Profile
	Trigger    Trigger
	ModelText  string
	MaxHistory int
	Debug      bool
	Now        func() time.Time
	NewID      func() string
}

// Deps groups the collaborators of a Service.
type Deps struct {
	LLM        llm.Client
	Images     imagegen.Generator
	Archiver   *imagegen.Archiver
	Repo       interactions.Repo
	Profile    *resume.Profile
	Trigger    Trigger
	ModelText  string
	MaxHistory int
	Debug      bool
}

// NewService constructs a Service. A nil image generator disables images.
func NewService(d Deps) *Service {
	images := d.Images
	if images == nil {
		images = imagegen.Disabled{}
	}
	return &Service{
		LLM:        d.LLM,
		Images:     images,
		Archiver:   d.Archiver,
		Repo:       d.Repo,
		Profile:    d.Profile,
		Trigger:    d.Trigger,
		ModelText:  d.ModelText,
		MaxHistory: d.MaxHistory,
		Debug:      d.Debug,
		Now:        time.Now,
		NewID:      func() string { return uuid.NewString() },
	}
}

// Ask answers one question. An empty message gets the greeting without any
// model call. Image failures only drop the image; text failures are returned.
func (s *Service) Ask(ctx context.Context, q Question) (Reply, error) {
	start := s.Now()
	message := strings.TrimSpace(q.Message)
	if message == "" {
		metrics.IncChat(metrics.OutcomeGreeting)
		return Reply{Response: Greeting}, nil
	}

	history := TrimHistory(q.History, s.MaxHistory)
	completion, err := s.LLM.Complete(ctx, s.buildMessages(history, message))
	if err != nil {
		metrics.IncChat(metrics.OutcomeError)
		metrics.ObserveChatDuration(s.Now().Sub(start))
		errMsg := err.Error()
		s.record(ctx, interactions.Interaction{
			RequestID:    q.RequestID,
			ClientKey:    q.ClientKey,
			Question:     message,
			ModelText:    s.ModelText,
			Status:       interactions.StatusError,
			ErrorMessage: &errMsg,
			HistoryTurns: len(history),
			DurationMs:   s.Now().Sub(start).Milliseconds(),
		})
		return Reply{}, fmt.Errorf("text step: %w", err)
	}

	answer := ParseAnswer(completion.Content)
	reply := Reply{
		Response:    answer.Text,
		CallAction0: answer.CTA0,
		CallAction1: answer.CTA1,
	}

	var bg Background
	if s.Trigger.ShouldGenerate(message) && !imagegen.IsDisabled(s.Images) {
		bg, err = s.background(ctx, message, "")
		if err != nil {
			metrics.IncImage(metrics.OutcomeFailed)
			telemetry.Warn(ctx, "chat.image_failed", zap.Error(err))
		} else {
			metrics.IncImage(metrics.OutcomeSuccess)
			uri := bg.DataURI
			reply.BackgroundImage = &uri
		}
		if s.Debug && bg.Prompt != "" {
			p := bg.Prompt
			reply.ImagePrompt = &p
		}
	} else {
		metrics.IncImage(metrics.OutcomeSkipped)
	}

	elapsed := s.Now().Sub(start)
	telemetry.Info(ctx, "chat_interaction",
		zap.String("event_type", "chat_interaction"),
		zap.String("user_question", message),
		zap.String("ai_response", Preview(answer.Text)),
		zap.Any("cta_suggested", []*string{answer.CTA0, answer.CTA1}),
		zap.Bool("image_generated", reply.BackgroundImage != nil),
		zap.String("status", "success"),
		zap.String("model_text", s.ModelText),
		zap.String("model_image", s.Images.Model()),
	)
	metrics.IncChat(metrics.OutcomeSuccess)
	metrics.ObserveChatDuration(elapsed)

	in := interactions.Interaction{
		RequestID:      q.RequestID,
		ClientKey:      q.ClientKey,
		Question:       message,
		Answer:         answer.Text,
		CTA0:           answer.CTA0,
		CTA1:           answer.CTA1,
		ImageGenerated: reply.BackgroundImage != nil,
		ModelText:      s.ModelText,
		ModelImage:     s.Images.Model(),
		Status:         interactions.StatusSuccess,
		HistoryTurns:   len(history),
		DurationMs:     elapsed.Milliseconds(),
	}
	if bg.Prompt != "" {
		p := bg.Prompt
		in.ImagePrompt = &p
	}
	if bg.Key != "" {
		k := bg.Key
		in.ImageKey = &k
	}
	s.record(ctx, in)
	return reply, nil
}

// GenerateBackground builds an image for message, or for prompt when given.
// It returns nil when image generation is disabled.
func (s *Service) GenerateBackground(ctx context.Context, message, prompt string) (*Background, error) {
	if imagegen.IsDisabled(s.Images) {
		metrics.IncImage(metrics.OutcomeSkipped)
		return nil, nil
	}
	message = strings.TrimSpace(message)
	prompt = strings.TrimSpace(prompt)
	if message == "" && prompt == "" {
		return nil, ErrEmptyMessage
	}
	bg, err := s.background(ctx, message, prompt)
	if err != nil {
		metrics.IncImage(metrics.OutcomeFailed)
		return nil, err
	}
	metrics.IncImage(metrics.OutcomeSuccess)
	return &bg, nil
}

// VisualPrompt asks the text model for an English image prompt illustrating message.
func (s *Service) VisualPrompt(ctx context.Context, message string) (string, error) {
	completion, err := s.LLM.Complete(ctx, []llm.Message{llm.User(llm.ImagePromptInstruction(message))})
	if err != nil {
		return "", fmt.Errorf("visual prompt: %w", err)
	}
	prompt := strings.TrimSpace(completion.Content)
	if prompt == "" {
		return "", ErrEmptyVisualHint
	}
	return prompt, nil
}

// RenderImage generates an image for prompt and archives it when configured.
func (s *Service) RenderImage(ctx context.Context, prompt string) (Background, error) {
	img, err := s.Images.Generate(ctx, prompt)
	if err != nil {
		return Background{Prompt: prompt}, err
	}
	bg := Background{
		DataURI: imagegen.DataURI(img),
		Prompt:  prompt,
		Image:   img,
	}
	if s.Archiver != nil {
		key, err := s.Archiver.Save(ctx, img)
		if err != nil {
			telemetry.Warn(ctx, "chat.image_archive_failed", zap.Error(err))
		} else {
			bg.Key = key
		}
	}
	return bg, nil
}

func (s *Service) background(ctx context.Context, message, prompt string) (Background, error) {
	if prompt == "" {
		var err error
		prompt, err = s.VisualPrompt(ctx, message)
		if err != nil {
			return Background{}, err
		}
		telemetry.Debug(ctx, "chat.visual_prompt", zap.String("prompt", prompt))
	}
	return s.RenderImage(ctx, prompt)
}

func (s *Service) buildMessages(history []Turn, message string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.System(s.Profile.FullPrompt()))
	for _, t := range history {
		if t.Role == llm.RoleAssistant {
			messages = append(messages, llm.Assistant(t.Content))
		} else {
			messages = append(messages, llm.User(t.Content))
		}
	}
	return append(messages, llm.User(message))
}

func (s *Service) record(ctx context.Context, in interactions.Interaction) {
	if s.Repo == nil {
		return
	}
	in.ID = s.NewID()
	in.CreatedAt = s.Now().UTC()
	if err := s.Repo.Create(ctx, in); err != nil {
		telemetry.Warn(ctx, "chat.record_failed", zap.Error(err))
	}
}

// TrimHistory keeps the last max well-formed turns.
func TrimHistory(history []Turn, max int) []Turn {
	if max <= 0 || len(history) == 0 {
		return nil
	}
	valid := make([]Turn, 0, len(history))
	for _, t := range history {
		role := strings.ToLower(strings.TrimSpace(t.Role))
		content := strings.TrimSpace(t.Content)
		if content == "" || (role != llm.RoleUser && role != llm.RoleAssistant) {
			continue
		}
		valid = append(valid, Turn{Role: role, Content: content})
	}
	if len(valid) > max {
		valid = valid[len(valid)-max:]
	}
	return valid
}

// Preview returns the first runes of s followed by "...".
func Preview(s string) string {
	if utf8.RuneCountInString(s) <= logPreviewRunes {
		return s + "..."
	}
	return string([]rune(s)[:logPreviewRunes]) + "..."
}
