// Package llm adapts AI chat-completion providers to the narrow interface
// the persona generator needs: a prompt in, JSON text out.
package llm

import (
	"context"
	"errors"
	"time"

	"github.com/persona-lab/persona-backend/internal/metrics"
	"golang.org/x/time/rate"
)

// ErrEmptyResponse is returned when the provider answers without any text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Prompt is a single system + user exchange.
type Prompt struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	// JSON asks the provider to constrain the answer to a JSON object.
	JSON bool
}

// Completer returns the model's text answer for a prompt.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, p Prompt) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}

// RateLimited makes every call wait for a token from limiter, capping the
// request rate to the provider across all callers sharing it.
func RateLimited(next Completer, limiter *rate.Limiter) Completer {
	if limiter == nil {
		return next
	}
	return CompleterFunc(func(ctx context.Context, p Prompt) (string, error) {
		if err := limiter.Wait(ctx); err != nil {
			return "", err
		}
		return next.Complete(ctx, p)
	})
}

// Instrumented records call count, errors and latency for every call.
func Instrumented(next Completer, m *metrics.Metrics) Completer {
	if m == nil {
		return next
	}
	return CompleterFunc(func(ctx context.Context, p Prompt) (string, error) {
		start := time.Now()
		out, err := next.Complete(ctx, p)
		m.RecordUpstreamCall(time.Since(start), err)
		return out, err
	})
}
