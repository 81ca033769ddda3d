package llm_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfit-backend/internal/llm"
	"jobfit-backend/internal/llm/llmtest"
)

func TestStatusErrorMatchesRateLimited(t *testing.T) {
	err := fmt.Errorf("quiz: %w", &llm.StatusError{StatusCode: 429, Body: "slow down"})
	assert.True(t, errors.Is(err, llm.ErrRateLimited))
	assert.Equal(t, "quiz: API Error: 429", err.Error())

	other := &llm.StatusError{StatusCode: 500}
	assert.False(t, errors.Is(other, llm.ErrRateLimited))
}

func TestPlaceholderClient(t *testing.T) {
	_, err := llm.PlaceholderClient{}.Complete(context.Background(), llm.Request{})
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", ` {"a":1} `, `{"a":1}`},
		{"json fence", "```json\n[1,2]\n```", "[1,2]"},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence without newline", "```{\"a\":1}```", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, llm.CleanJSONBlock(tt.in))
		})
	}
}

func TestArraySpanIsGreedy(t *testing.T) {
	span, ok := llm.ArraySpan(`Here you go: [{"options":["a","b"]}] hope it helps [sic]`)
	require.True(t, ok)
	assert.Equal(t, `[{"options":["a","b"]}] hope it helps [sic]`, span)

	_, ok = llm.ArraySpan("no brackets")
	assert.False(t, ok)
}

type slowClient struct{}

func (slowClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestInstrumentedAppliesTimeout(t *testing.T) {
	c := &llm.Instrumented{Next: slowClient{}, Provider: "test", Timeout: 20 * time.Millisecond}
	_, err := c.Complete(context.Background(), llm.UserPrompt("test.op", "hi", 0.1, 10))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInstrumentedPassesThrough(t *testing.T) {
	inner := llmtest.New("ok")
	c := &llm.Instrumented{Next: inner, Provider: "test"}
	out, err := c.Complete(context.Background(), llm.UserPrompt("test.op", "hi", 0.3, 500))
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 500, inner.Last().MaxTokens)
	assert.Equal(t, "test.op", inner.Last().Operation)
}
