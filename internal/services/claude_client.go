package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// ClaudeClient talks to the Anthropic Messages API for draft-day analysis
// blurbs. The circuit breaker keeps a flapping API from stalling the
// recommendation path.
type ClaudeClient struct {
	httpClient     *http.Client
	logger         *logrus.Logger
	apiKey         string
	baseURL        string
	model          string
	maxTokens      int
	circuitBreaker *gobreaker.CircuitBreaker
	retryAttempts  int
}

// ClaudeMessage represents a message in the conversation
type ClaudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ClaudeRequest represents the request payload for the Messages API
type ClaudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature,omitempty"`
	Messages    []ClaudeMessage `json:"messages"`
	System      string          `json:"system,omitempty"`
}

// ClaudeResponse represents the Messages API response
type ClaudeResponse struct {
	ID         string               `json:"id"`
	Type       string               `json:"type"`
	Role       string               `json:"role"`
	Content    []ClaudeContentBlock `json:"content"`
	Model      string               `json:"model"`
	StopReason string               `json:"stop_reason"`
	Usage      ClaudeUsage          `json:"usage"`
}

// ClaudeContentBlock represents content blocks in the response
type ClaudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ClaudeUsage represents token usage information
type ClaudeUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ClaudeError represents an API error response
type ClaudeError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewClaudeClient(apiKey, model string, maxTokens int, logger *logrus.Logger) *ClaudeClient {
	if model == "" {
		model = "claude-3-haiku-20240307"
	}
	if maxTokens <= 0 {
		maxTokens = 400
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "claude-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"circuit":    name,
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Info("Claude API circuit breaker state changed")
		},
	})

	return &ClaudeClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:         logger,
		apiKey:         apiKey,
		baseURL:        "https://api.anthropic.com/v1",
		model:          model,
		maxTokens:      maxTokens,
		circuitBreaker: cb,
		retryAttempts:  2,
	}
}

// Configured reports whether an API key is present. Without one, analysis is
// silently skipped rather than attempted.
func (c *ClaudeClient) Configured() bool {
	return c.apiKey != ""
}

// GenerateText sends a prompt and returns the concatenated text blocks of
// the reply.
func (c *ClaudeClient) GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("claude API key not configured")
	}

	request := ClaudeRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: 0.3,
		Messages: []ClaudeMessage{
			{
				Role:    "user",
				Content: prompt,
			},
		},
		System: systemPrompt,
	}

	response, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.makeRequest(ctx, request)
	})
	if err != nil {
		return "", fmt.Errorf("claude API request failed: %w", err)
	}

	claudeResponse := response.(*ClaudeResponse)

	c.logger.WithFields(logrus.Fields{
		"input_tokens":  claudeResponse.Usage.InputTokens,
		"output_tokens": claudeResponse.Usage.OutputTokens,
		"stop_reason":   claudeResponse.StopReason,
	}).Debug("Claude API call completed")

	var parts []string
	for _, block := range claudeResponse.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, "\n"))
	if text == "" {
		return "", fmt.Errorf("claude API returned no text content")
	}
	return text, nil
}

// makeRequest handles the HTTP round trip with retries.
func (c *ClaudeClient) makeRequest(ctx context.Context, request ClaudeRequest) (*ClaudeResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt)) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/messages", bytes.NewBuffer(requestBody))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var claudeResp ClaudeResponse
			err := json.NewDecoder(resp.Body).Decode(&claudeResp)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to decode response: %w", err)
			}
			return &claudeResp, nil
		}

		var claudeErr ClaudeError
		decodeErr := json.NewDecoder(resp.Body).Decode(&claudeErr)
		resp.Body.Close()
		if decodeErr != nil {
			lastErr = fmt.Errorf("API request failed with status %d", resp.StatusCode)
			continue
		}

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("invalid API credentials: %s", claudeErr.Message)
		case http.StatusBadRequest:
			return nil, fmt.Errorf("bad request: %s", claudeErr.Message)
		case http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limit exceeded: %s", claudeErr.Message)
		default:
			lastErr = fmt.Errorf("unexpected error (status %d): %s", resp.StatusCode, claudeErr.Message)
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", c.retryAttempts+1, lastErr)
}

// IsHealthy checks if the Claude API client is usable.
func (c *ClaudeClient) IsHealthy() bool {
	return c.circuitBreaker.State() == gobreaker.StateClosed
}
