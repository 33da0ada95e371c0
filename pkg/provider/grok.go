package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultGrokURL = "https://api.x.ai/v1/chat/completions"

// GrokOption configures a GrokClient.
type GrokOption func(*GrokClient)

// WithGrokHTTPClient sets a custom HTTP client (useful for testing).
func WithGrokHTTPClient(c *http.Client) GrokOption {
	return func(p *GrokClient) { p.client = c }
}

// WithGrokBaseURL overrides the xAI API base URL.
func WithGrokBaseURL(url string) GrokOption {
	return func(p *GrokClient) { p.baseURL = url }
}

// GrokClient implements Client for the xAI chat completions API. The wire
// shape is OpenAI-compatible but the endpoint, credentials, and failure
// modes are xAI's own, so it gets its own implementation.
type GrokClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGrokClient creates a new xAI Grok client with the given API key.
func NewGrokClient(apiKey string, opts ...GrokOption) *GrokClient {
	p := &GrokClient{
		apiKey:  apiKey,
		baseURL: defaultGrokURL,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns "grok".
func (p *GrokClient) Name() string { return "grok" }

type grokRequest struct {
	Model       string        `json:"model"`
	Messages    []grokMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type grokMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type grokResponse struct {
	Choices []struct {
		Message grokMessage `json:"message"`
	} `json:"choices"`
}

// Query sends one request to the xAI chat completions API and returns the
// first choice's message content.
func (p *GrokClient) Query(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(grokRequest{
		Model:       req.Model,
		Messages:    []grokMessage{{Role: "user", Content: req.Prompt}},
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

	var gr grokResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(gr.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}

	return gr.Choices[0].Message.Content, nil
}
