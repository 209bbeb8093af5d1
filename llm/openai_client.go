package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config holds the fixed generation parameters for an OpenAIClient.
type Config struct {
	BaseURL     string // e.g. https://api.openai.com/v1
	APIKey      string
	Model       string
	MaxTokens   int
	HTTPTimeout time.Duration
}

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("config: BASE_URL is required")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("config: OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("config: MODEL is required")
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 256
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 60 * time.Second
	}
	return nil
}

// OpenAIClient implements Client against a chat-completions endpoint using
// the functions/function_call wire format. One POST per call; no retries,
// no caching. A hung call is bounded by the configured HTTP timeout, which
// surfaces as a network GatewayError.
type OpenAIClient struct {
	config     Config
	httpClient *http.Client
}

// NewOpenAIClient creates a client with the given configuration.
func NewOpenAIClient(config Config) (*OpenAIClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &OpenAIClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.HTTPTimeout},
	}, nil
}

// Chat implements Client. Failures are classified into the three
// GatewayError reasons: network, http-status, decode.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message, functions []FunctionDef) (Response, error) {
	req := ChatRequest{
		Model:        c.config.Model,
		Messages:     messages,
		Functions:    functions,
		FunctionCall: "auto",
		MaxTokens:    c.config.MaxTokens,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, &GatewayError{Reason: ReasonNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return Response{}, &GatewayError{Reason: ReasonHTTPStatus, StatusCode: resp.StatusCode, Body: string(b)}
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return Response{}, &GatewayError{Reason: ReasonDecode, Err: err}
	}
	if len(chatResp.Choices) == 0 {
		return Response{}, &GatewayError{Reason: ReasonDecode, Err: errors.New("response has no choices")}
	}

	msg := chatResp.Choices[0].Message
	if msg.FunctionCall != nil {
		return Response{FunctionCall: msg.FunctionCall}, nil
	}
	return Response{Content: msg.Text()}, nil
}
