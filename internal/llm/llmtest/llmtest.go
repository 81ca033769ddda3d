// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"jobfit-backend/internal/llm"
)

// Reply is one scripted answer.
type Reply struct {
	Text string
	Err  error
}

// Client replays Replies in order and records every request.
// Once the script is exhausted the last reply repeats.
type Client struct {
	mu       sync.Mutex
	Replies  []Reply
	Requests []llm.Request
}

// New returns a client that answers every call with text.
func New(text string) *Client {
	return &Client{Replies: []Reply{{Text: text}}}
}

// Failing returns a client that answers every call with err.
func Failing(err error) *Client {
	return &Client{Replies: []Reply{{Err: err}}}
}

// Complete records req and returns the next scripted reply.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := len(c.Requests)
	c.Requests = append(c.Requests, req)
	if len(c.Replies) == 0 {
		return "", llm.ErrEmptyResponse
	}
	if idx >= len(c.Replies) {
		idx = len(c.Replies) - 1
	}
	r := c.Replies[idx]
	return r.Text, r.Err
}

// Calls reports how many requests were made.
func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Requests)
}

// Last returns the most recent request.
func (c *Client) Last() llm.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Requests) == 0 {
		return llm.Request{}
	}
	return c.Requests[len(c.Requests)-1]
}

var _ llm.Client = (*Client)(nil)
