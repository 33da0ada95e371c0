package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

	// DefaultTimeout bounds each network call. Expiry surfaces as that
	// provider's failure outcome, never as a second attempt.
	DefaultTimeout = 120 * time.Second
)

// OpenAIOption configures an OpenAIClient.
type OpenAIOption func(*OpenAIClient)

// WithOpenAIHTTPClient sets a custom HTTP client (useful for testing).
func WithOpenAIHTTPClient(c *http.Client) OpenAIOption {
	return func(p *OpenAIClient) { p.client = c }
}

// WithOpenAIBaseURL overrides the OpenAI API base URL.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(p *OpenAIClient) { p.baseURL = url }
}

// OpenAIClient implements Client for the OpenAI Chat Completions API.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenAIClient creates a new OpenAI client with the given API key.
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) *OpenAIClient {
	p := &OpenAIClient{
		apiKey:  apiKey,
		baseURL: defaultOpenAIURL,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns "openai".
func (p *OpenAIClient) Name() string { return "openai" }

// openaiRequest is the OpenAI Chat Completions API request body.
type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openaiResponse is the OpenAI Chat Completions API response body.
type openaiResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Choices []struct {
		Index   int           `json:"index"`
		Message openaiMessage `json:"message"`
	} `json:"choices"`
}

// Query sends one request to the OpenAI Chat Completions API and returns
// the first choice's message content.
func (p *OpenAIClient) Query(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(openaiRequest{
		Model:       req.Model,
		Messages:    []openaiMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("building request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending HTTP request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", &APIError{Status: httpResp.StatusCode, Body: string(respBody)}
	}

	var or openaiResponse
	if err := json.Unmarshal(respBody, &or); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(or.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}

	return or.Choices[0].Message.Content, nil
}
