package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrUnauthorized marks an authentication rejection of the credential used.
	ErrUnauthorized = errors.New("upstream rejected credential")
	// ErrEmptyCompletion is returned when the upstream answers without content.
	ErrEmptyCompletion = errors.New("upstream returned empty completion")
)

// ChatMessage is one entry of a chat-completion conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer sends a conversation to a language model with the given credential.
type Completer interface {
	Complete(ctx context.Context, apiKey string, messages []ChatMessage) (string, error)
}

// OpenRouterConfig holds connection details for the OpenRouter relay.
type OpenRouterConfig struct {
	BaseURL string
	Model   string
	Referer string
	Title   string
	Timeout time.Duration
}

// OpenRouterClient implements Completer against an OpenAI-compatible
// chat-completions endpoint.
type OpenRouterClient struct {
	httpClient  *http.Client
	config      OpenRouterConfig
	logger      zerolog.Logger
	completeURL string
}

var _ Completer = (*OpenRouterClient)(nil)

func NewOpenRouterClient(cfg OpenRouterConfig, logger zerolog.Logger) *OpenRouterClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	return &OpenRouterClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config:      cfg,
		logger:      logger.With().Str("component", "openrouter").Logger(),
		completeURL: base + "/chat/completions",
	}
}

// Complete posts the conversation and returns the first choice's content.
func (c *OpenRouterClient) Complete(ctx context.Context, apiKey string, messages []ChatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{Model: c.config.Model, Messages: messages})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.completeURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	if c.config.Referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.config.Referer)
	}
	if c.config.Title != "" {
		httpReq.Header.Set("X-Title", c.config.Title)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("completion returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode completion payload: %w", err)
	}
	if len(chatResp.Choices) == 0 || strings.TrimSpace(chatResp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}

	c.logger.Debug().Str("model", chatResp.Model).Msg("completion received")
	return chatResp.Choices[0].Message.Content, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}
