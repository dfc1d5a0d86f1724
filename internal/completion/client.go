package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/johnknash2025/vrcompanion/internal/models"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-3.5-turbo"
	defaultTimeout = 30 * time.Second
)

// Client provides access to the chat completion service
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	model       string
	maxTokens   int
	temperature float64
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets a custom model
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithBaseURL overrides the service URL (used in tests)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithMaxTokens bounds the response length
func WithMaxTokens(maxTokens int) ClientOption {
	return func(c *Client) {
		c.maxTokens = maxTokens
	}
}

// WithTemperature sets the sampling temperature
func WithTemperature(temperature float64) ClientOption {
	return func(c *Client) {
		c.temperature = temperature
	}
}

// NewClient creates a new completion service client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		model:       defaultModel,
		maxTokens:   150,
		temperature: 0.8,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// APIError represents an error from the completion service
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("completion API error (status %d): %s", e.StatusCode, e.Message)
}

// Complete sends the system prompt plus bounded trailing history plus the
// latest user turn, and returns the assistant text. The caller is expected
// to treat any error as recoverable and fall back to canned phrases.
func (c *Client) Complete(ctx context.Context, systemPrompt string, history []models.ConversationTurn, userInput string) (string, error) {
	log.Printf("[Completion] Complete started model=%s history=%d", c.model, len(history))

	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	for _, turn := range history {
		messages = append(messages, chatMessage{Role: string(turn.Role), Content: turn.Text})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userInput})

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Completion] Complete failed: send request err=%v", err)
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.handleError(resp)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("[Completion] Complete failed: decode response err=%v", err)
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	content := result.Choices[0].Message.Content
	log.Printf("[Completion] Complete completed response_length=%d", len(content))
	return content, nil
}

// handleError processes error responses from the API
func (c *Client) handleError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	logBody := bodyStr
	if len(logBody) > 500 {
		logBody = logBody[:500] + "..."
	}
	log.Printf("[Completion] API Error status=%d body=%s", resp.StatusCode, logBody)

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    bodyStr,
	}
}
