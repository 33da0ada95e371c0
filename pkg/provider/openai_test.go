package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request headers.
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer test-key")
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want %q", got, "application/json")
		}

		// Verify request body structure.
		var reqBody openaiRequest
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		if reqBody.Model != "gpt-4o" {
			t.Errorf("model = %q, want %q", reqBody.Model, "gpt-4o")
		}
		if len(reqBody.Messages) != 1 || reqBody.Messages[0].Role != "user" {
			t.Errorf("messages = %+v, want one user message", reqBody.Messages)
		}
		if reqBody.Messages[0].Content != "Hi" {
			t.Errorf("messages[0].content = %q, want %q", reqBody.Messages[0].Content, "Hi")
		}
		if reqBody.Temperature != 0.7 {
			t.Errorf("temperature = %v, want 0.7", reqBody.Temperature)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-01",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello! How can I help?"}}]
		}`))
	}))
	defer server.Close()

	p := NewOpenAIClient("test-key", WithOpenAIBaseURL(server.URL))

	got, err := p.Query(context.Background(), Request{
		Prompt:      "Hi",
		Model:       "gpt-4o",
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if got != "Hello! How can I help?" {
		t.Errorf("Query() = %q, want %q", got, "Hello! How can I help?")
	}
}

func TestOpenAIQuery_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer server.Close()

	p := NewOpenAIClient("bad-key", WithOpenAIBaseURL(server.URL))

	_, err := p.Query(context.Background(), Request{Prompt: "Hi", Model: "gpt-4o"})
	if err == nil {
		t.Fatal("Query() expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Query() error type = %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want %d", apiErr.Status, http.StatusUnauthorized)
	}
	if !strings.Contains(apiErr.Body, "invalid api key") {
		t.Errorf("Body = %q, want the remote error body", apiErr.Body)
	}
	if !strings.Contains(err.Error(), "HTTP 401") {
		t.Errorf("Error() = %q, want HTTP status in message", err.Error())
	}
}

func TestOpenAIQuery_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"chatcmpl-02","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	p := NewOpenAIClient("test-key", WithOpenAIBaseURL(server.URL))

	_, err := p.Query(context.Background(), Request{Prompt: "Hi", Model: "gpt-4o"})
	if err == nil {
		t.Fatal("Query() expected error for empty choices, got nil")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("shape error should not be an *APIError, got %v", err)
	}
}

func TestOpenAIQuery_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	p := NewOpenAIClient("test-key", WithOpenAIBaseURL(server.URL))

	_, err := p.Query(context.Background(), Request{Prompt: "Hi", Model: "gpt-4o"})
	if err == nil {
		t.Fatal("Query() expected transport error, got nil")
	}
	if !strings.Contains(err.Error(), "sending HTTP request") {
		t.Errorf("Query() error = %q, want wrapped transport error", err.Error())
	}
}

func TestOpenAIClientName(t *testing.T) {
	if got := NewOpenAIClient("key").Name(); got != "openai" {
		t.Errorf("Name() = %q, want %q", got, "openai")
	}
}
