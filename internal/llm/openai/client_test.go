package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"jobfit-backend/internal/llm"
)

func withServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	oldURL := apiURL
	server := httptest.NewServer(handler)
	apiURL = server.URL
	t.Cleanup(func() {
		apiURL = oldURL
		server.Close()
	})
}

func TestCompleteSendsParameters(t *testing.T) {
	var mu sync.Mutex
	var lastBody map[string]any
	var lastAuth string

	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		lastBody = payload
		lastAuth = r.Header.Get("Authorization")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[{"message":{"role":"assistant","content":"  [1]  "}}],"usage":{"total_tokens":12}}`))
	})

	client, err := NewClient("test-key", "", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	out, err := client.Complete(context.Background(), llm.UserPrompt("quiz.generate", "hello", 0.7, 2500))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "[1]" {
		t.Fatalf("expected trimmed content, got %q", out)
	}

	mu.Lock()
	defer mu.Unlock()
	if lastAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", lastAuth)
	}
	if lastBody["model"] != DefaultModel {
		t.Fatalf("expected default model, got %v", lastBody["model"])
	}
	if lastBody["max_tokens"] != float64(2500) {
		t.Fatalf("expected max_tokens 2500, got %v", lastBody["max_tokens"])
	}
	if temp, ok := lastBody["temperature"].(float64); !ok || temp < 0.69 || temp > 0.71 {
		t.Fatalf("expected temperature 0.7, got %v", lastBody["temperature"])
	}
	msgs, _ := lastBody["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", lastBody["messages"])
	}
}

func TestCompleteStatusErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		rateLimited bool
	}{
		{"rate limited", http.StatusTooManyRequests, true},
		{"server error", http.StatusInternalServerError, false},
		{"unauthorized", http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
			})
			client, _ := NewClient("k", "gpt-4o-mini", time.Second)
			_, err := client.Complete(context.Background(), llm.UserPrompt("op", "p", 0, 0))

			var se *llm.StatusError
			if !errors.As(err, &se) {
				t.Fatalf("expected StatusError, got %v", err)
			}
			if se.StatusCode != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, se.StatusCode)
			}
			if errors.Is(err, llm.ErrRateLimited) != tt.rateLimited {
				t.Fatalf("rate-limited match mismatch for %d", tt.status)
			}
		})
	}
}

func TestCompleteMissingChoices(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	client, _ := NewClient("k", "", time.Second)
	if _, err := client.Complete(context.Background(), llm.UserPrompt("op", "p", 0, 0)); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("  ", "", 0); err == nil {
		t.Fatalf("expected error without api key")
	}
}
