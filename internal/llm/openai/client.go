package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"resume-feedback/internal/extract"
	"resume-feedback/internal/llm"
	"resume-feedback/internal/shared/storage/object"
	"resume-feedback/internal/shared/telemetry"
)

var apiURL = "https://api.openai.com/v1/chat/completions"

// Client implements llm.Client using OpenAI Chat Completions.
// The stored document is converted to text before it is sent.
type Client struct {
	apiKey     string
	model      string
	store      object.ObjectStore
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client.
func NewClient(apiKey, model string, store object.ObjectStore) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store is required for OpenAI")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		store:  store,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    *float32       `json:"temperature,omitempty"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string      `json:"role"`
			Content llm.Content `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("openai error: %s (%s)", e.Message, e.Type)
}

// RequestFeedback extracts the document text and asks the model to review it.
func (c *Client) RequestFeedback(ctx context.Context, documentPath, instructions string) (*llm.Response, error) {
	resumeText, err := extract.Text(ctx, c.store, documentPath)
	if err != nil {
		return nil, fmt.Errorf("openai document: %w", err)
	}

	messages := []chatMessage{
		{Role: "system", Content: instructions},
		{Role: "user", Content: resumeText},
	}

	parsed, err := c.complete(ctx, messages, !noTemperatureModel(c.model))
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && isTemperatureUnsupported(apiErr.Message) {
			telemetry.Warn("openai.temperature_unsupported", map[string]any{"model": c.model})
			return nil, fmt.Errorf("model %s rejects temperature=0, list it in LLM_NO_TEMP0_MODELS: %w", c.model, err)
		}
		return nil, err
	}

	logUsage(c.model, parsed)
	return &llm.Response{Message: llm.Message{Content: parsed.Choices[0].Message.Content}}, nil
}

func (c *Client) complete(ctx context.Context, messages []chatMessage, withTemperature bool) (*chatResponse, error) {
	reqBody := chatRequest{
		Model:          c.model,
		Messages:       messages,
		ResponseFormat: responseFormat{Type: "json_object"},
	}
	if withTemperature {
		temp := float32(0)
		reqBody.Temperature = &temp
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("openai request timeout: %w", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return nil, parsed.Error
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("openai status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("openai response missing choices")
	}
	return &parsed, nil
}

// noTemperatureModel reports whether the model is configured to run without temperature=0.
func noTemperatureModel(model string) bool {
	if isGPT5(model) {
		return true
	}
	target := strings.ToLower(strings.TrimSpace(model))
	for _, m := range strings.Split(os.Getenv("LLM_NO_TEMP0_MODELS"), ",") {
		if strings.ToLower(strings.TrimSpace(m)) == target && target != "" {
			return true
		}
	}
	return false
}

func isTemperatureUnsupported(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "temperature") && strings.Contains(lower, "unsupported")
}

func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

func logUsage(model string, parsed *chatResponse) {
	fields := map[string]any{"model": model, "response_id": parsed.ID}
	if parsed.Usage != nil {
		fields["prompt_tokens"] = parsed.Usage.PromptTokens
		fields["completion_tokens"] = parsed.Usage.CompletionTokens
		fields["total_tokens"] = parsed.Usage.TotalTokens
	}
	telemetry.Info("openai.response", fields)
}

var _ llm.Client = (*Client)(nil)
