package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"resume-chat/internal/shared/metrics"
	"resume-chat/internal/shared/telemetry"
)

const retryBaseDelay = 300 * time.Millisecond

// retrying retries a call once when the failure looks transient.
type retrying struct {
	base  Client
	delay time.Duration
}

// WithRetry wraps base with a single retry on transient failures.
func WithRetry(base Client) Client {
	if base == nil {
		return nil
	}
	return retrying{base: base, delay: retryBaseDelay}
}

func (r retrying) Complete(ctx context.Context, messages []Message) (Completion, error) {
	resp, err := r.base.Complete(ctx, messages)
	if err == nil || !ShouldRetry(err) {
		return resp, err
	}

	telemetry.Warn(ctx, "llm.retry", zap.Int("attempt", 1), zap.String("provider", ProviderOf(r.base)), zap.Error(err))
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return Completion{}, ctx.Err()
	}
	return r.base.Complete(ctx, messages)
}

func (r retrying) Provider() string { return ProviderOf(r.base) }

func (r retrying) Model() string {
	if n, ok := r.base.(Named); ok {
		return n.Model()
	}
	return ""
}

// ShouldRetry reports whether err looks like a transient upstream failure.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "http status 429") || strings.Contains(msg, "server_error") {
		return true
	}
	if strings.Contains(msg, "timeout") {
		return true
	}
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "unexpected eof")
}

// instrumented counts every call in the llm_requests_total metric.
type instrumented struct {
	base Client
}

// Instrument wraps base so each call is counted by provider and outcome.
func Instrument(base Client) Client {
	if base == nil {
		return nil
	}
	return instrumented{base: base}
}

func (i instrumented) Complete(ctx context.Context, messages []Message) (Completion, error) {
	resp, err := i.base.Complete(ctx, messages)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.IncLLM(ProviderOf(i.base), outcome)
	if err == nil && resp.Usage != nil {
		telemetry.Debug(ctx, "llm.usage",
			zap.String("model", resp.Model),
			zap.Int("prompt_tokens", resp.Usage.PromptTokens),
			zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			zap.Int("total_tokens", resp.Usage.TotalTokens),
		)
	}
	return resp, err
}

func (i instrumented) Provider() string { return ProviderOf(i.base) }

func (i instrumented) Model() string {
	if n, ok := i.base.(Named); ok {
		return n.Model()
	}
	return ""
}
