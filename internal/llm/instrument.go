package llm

import (
	"context"
	"errors"
	"time"

	"jobfit-backend/internal/shared/metrics"
	"jobfit-backend/internal/shared/telemetry"
)

// Instrumented wraps a Client with a per-call timeout, structured logs and metrics.
type Instrumented struct {
	Next     Client
	Provider string
	Timeout  time.Duration
}

// Complete forwards to the wrapped client.
func (c *Instrumented) Complete(ctx context.Context, req Request) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := c.Next.Complete(ctx, req)
	elapsed := time.Since(start)
	metrics.ObserveLLMDurationMs(float64(elapsed.Milliseconds()))

	fields := map[string]any{
		"provider":    c.Provider,
		"operation":   req.Operation,
		"duration_ms": elapsed.Milliseconds(),
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
	}
	if err != nil {
		fields["error"] = err.Error()
		var se *StatusError
		if errors.As(err, &se) {
			fields["status"] = se.StatusCode
		}
		if errors.Is(err, ErrRateLimited) {
			metrics.IncLLMRateLimited()
			telemetry.Warn("llm.rate_limited", fields)
		} else {
			telemetry.Error("llm.failed", fields)
		}
		return "", err
	}
	fields["response_chars"] = len(out)
	telemetry.Info("llm.complete", fields)
	return out, nil
}

var _ Client = (*Instrumented)(nil)
