package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Roles accepted by every provider.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single text-generation call.
type Request struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int
	// Operation names the caller for logs and metrics, e.g. "quiz.generate".
	Operation string
}

// Client abstracts text-generation providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// UserPrompt builds a request holding a single user message.
func UserPrompt(op, prompt string, temperature float32, maxTokens int) Request {
	return Request{
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Operation:   op,
	}
}

var (
	// ErrNotConfigured is returned by the placeholder client.
	ErrNotConfigured = errors.New("llm provider not configured")
	// ErrRateLimited matches any StatusError carrying HTTP 429.
	ErrRateLimited = errors.New("llm rate limited")
	// ErrEmptyResponse is returned when the provider answers without content.
	ErrEmptyResponse = errors.New("llm response empty")
)

// StatusError reports a non-2xx answer from the text-generation endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API Error: %d", e.StatusCode)
}

// Is lets errors.Is(err, ErrRateLimited) match 429 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrRateLimited && e.StatusCode == http.StatusTooManyRequests
}

// PlaceholderClient is used when no provider credentials are configured.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, req Request) (string, error) {
	_ = ctx
	_ = req
	return "", ErrNotConfigured
}
