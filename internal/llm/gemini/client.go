package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"resume-feedback/internal/llm"
	"resume-feedback/internal/shared/storage/object"
	"resume-feedback/internal/shared/telemetry"
)

const defaultModel = "gemini-2.5-flash"

// ErrEmptyResponse is returned when the API answers without candidates.
var ErrEmptyResponse = errors.New("gemini returned no candidates")

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Client with the Gemini API. The document is sent inline so the
// model reads the original layout.
type Client struct {
	models generator
	model  string
	store  object.ObjectStore
}

// NewClient constructs a Gemini client backed by the Gemini API.
func NewClient(ctx context.Context, apiKey, model string, store object.ObjectStore) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store is required for Gemini")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newClient(client.Models, model, store), nil
}

func newClient(models generator, model string, store object.ObjectStore) *Client {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{models: models, model: model, store: store}
}

// RequestFeedback sends the stored document and instructions in a single user turn.
func (c *Client) RequestFeedback(ctx context.Context, documentPath, instructions string) (*llm.Response, error) {
	body, err := c.store.Open(ctx, documentPath)
	if err != nil {
		return nil, fmt.Errorf("gemini document path=%s: %w", documentPath, err)
	}
	data, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		return nil, fmt.Errorf("gemini document path=%s: read: %w", documentPath, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("gemini document path=%s: empty", documentPath)
	}

	mimeType := strings.Split(http.DetectContentType(data), ";")[0]
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(instructions),
		}, genai.RoleUser),
	}

	temperature := float32(0)
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	content, err := contentFromResponse(resp)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"model": c.model, "mime_type": mimeType}
	if resp.UsageMetadata != nil {
		fields["prompt_tokens"] = resp.UsageMetadata.PromptTokenCount
		fields["completion_tokens"] = resp.UsageMetadata.CandidatesTokenCount
		fields["total_tokens"] = resp.UsageMetadata.TotalTokenCount
	}
	telemetry.Info("gemini.response", fields)

	return &llm.Response{Message: llm.Message{Content: content}}, nil
}

// contentFromResponse maps the first candidate's text parts to blocks, skipping thought parts.
func contentFromResponse(resp *genai.GenerateContentResponse) (llm.Content, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return llm.Content{}, ErrEmptyResponse
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return llm.Content{Kind: llm.ContentUnknown}, nil
	}

	blocks := make([]llm.Block, 0, len(candidate.Content.Parts))
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		blocks = append(blocks, llm.Block{Text: part.Text})
	}
	return llm.BlockContent(blocks...), nil
}

var _ llm.Client = (*Client)(nil)
