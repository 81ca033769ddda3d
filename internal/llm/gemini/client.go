package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"jobfit-backend/internal/llm"
)

// DefaultModel is used when LLM_MODEL is empty.
const DefaultModel = "gemini-1.5-flash"

// Client implements llm.Client for Google Gemini.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client authenticated with apiKey.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Complete runs a single generation. System messages become the system instruction.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	system, user := splitMessages(req.Messages)
	if len(user) == 0 {
		return "", errors.New("gemini: no user content")
	}

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(req.Temperature)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{Parts: system}
	}

	resp, err := model.GenerateContent(ctx, user...)
	if err != nil {
		return "", mapError(err)
	}
	return extractText(resp)
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func splitMessages(msgs []llm.Message) (system, user []genai.Part) {
	for _, m := range msgs {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		if m.Role == llm.RoleSystem {
			system = append(system, genai.Text(m.Content))
			continue
		}
		user = append(user, genai.Text(m.Content))
	}
	return system, user
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", llm.ErrEmptyResponse
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", llm.ErrEmptyResponse
	}
	return out, nil
}

// mapError converts provider errors into llm.StatusError so callers see one taxonomy.
func mapError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &llm.StatusError{StatusCode: gerr.Code, Body: gerr.Message}
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.ResourceExhausted:
			return &llm.StatusError{StatusCode: http.StatusTooManyRequests, Body: st.Message()}
		case codes.Unauthenticated, codes.PermissionDenied:
			return &llm.StatusError{StatusCode: http.StatusUnauthorized, Body: st.Message()}
		case codes.InvalidArgument:
			return &llm.StatusError{StatusCode: http.StatusBadRequest, Body: st.Message()}
		case codes.Unavailable, codes.Internal:
			return &llm.StatusError{StatusCode: http.StatusBadGateway, Body: st.Message()}
		}
	}
	return fmt.Errorf("failed to generate content: %w", err)
}

var _ llm.Client = (*Client)(nil)
