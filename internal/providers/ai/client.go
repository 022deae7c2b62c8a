// Package ai provides the chat-completion client used by the
// conversation service. The concrete client speaks the OpenAI-compatible
// completions API; callers depend on the CompletionClient interface so
// assistants can be swapped or stubbed in tests.
package ai

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

	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/config"
)

var ErrNotConfigured = errors.New("ai_client_not_configured")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type CompletionRequest struct {
	Model    string
	Messages []Message
}

type CompletionResponse struct {
	Content    string
	TokensUsed int
}

type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

type openAIClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(cfg config.Config) CompletionClient {
	timeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &openAIClient{
		baseURL: strings.TrimRight(cfg.AI.BaseURL, "/"),
		apiKey:  strings.TrimSpace(cfg.AI.APIKey),
		client:  &http.Client{Timeout: timeout},
	}
}

type chatCompletionPayload struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *openAIClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	if c.apiKey == "" {
		return CompletionResponse{}, ErrNotConfigured
	}

	body, err := json.Marshal(chatCompletionPayload{
		Model:    req.Model,
		Messages: req.Messages,
	})
	if err != nil {
		return CompletionResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return CompletionResponse{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return CompletionResponse{}, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return CompletionResponse{}, err
	}

	var decoded chatCompletionResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return CompletionResponse{}, fmt.Errorf("decode completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if decoded.Error != nil && decoded.Error.Message != "" {
			return CompletionResponse{}, fmt.Errorf("completion request failed: %s", decoded.Error.Message)
		}
		return CompletionResponse{}, fmt.Errorf("completion request failed: status %d", resp.StatusCode)
	}
	if len(decoded.Choices) == 0 {
		return CompletionResponse{}, errors.New("completion response has no choices")
	}

	return CompletionResponse{
		Content:    decoded.Choices[0].Message.Content,
		TokensUsed: decoded.Usage.TotalTokens,
	}, nil
}
