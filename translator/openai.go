package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ============================================================================
// OPENAI CLIENT — Chat-completion transport
// ============================================================================
// One bounded HTTP call per Complete. No retries, no shared mutable state.
// Timeouts and transport failures surface as *UnavailableError so callers
// can substitute their defined fallback instead of hanging or crashing.
// ============================================================================

const (
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultModel    = "gpt-4o-mini"
	defaultTimeout  = 30 * time.Second
)

// OpenAIClient implements Client against the OpenAI chat-completions API
// (or any compatible endpoint).
type OpenAIClient struct {
	config Config
	client *http.Client
}

// NewOpenAI creates a chat-completion client with config defaults applied.
func NewOpenAI(cfg Config) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &OpenAIClient{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// chatRequest is the chat-completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the chat-completions response body.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one completion request and returns the model's text.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	body := chatRequest{
		Model:       c.config.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.User})

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logrus.Warn("model call timed out")
		}
		return "", &UnavailableError{Op: "complete", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UnavailableError{Op: "complete", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UnavailableError{
			Op:  "complete",
			Err: fmt.Errorf("API returned %d: %.200s", resp.StatusCode, string(raw)),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &MalformedResponseError{Op: "complete", Snippet: string(raw)}
	}
	if parsed.Error != nil {
		return "", &UnavailableError{
			Op:  "complete",
			Err: fmt.Errorf("API error %s: %s", parsed.Error.Type, parsed.Error.Message),
		}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &MalformedResponseError{Op: "complete", Snippet: string(raw)}
	}

	return parsed.Choices[0].Message.Content, nil
}
