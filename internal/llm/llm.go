package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Client abstracts AI providers that review an uploaded resume.
type Client interface {
	// RequestFeedback asks the provider to review the stored document. A nil response means no result.
	RequestFeedback(ctx context.Context, documentPath, instructions string) (*Response, error)
}

var (
	// ErrNotImplemented is returned by the placeholder client.
	ErrNotImplemented = errors.New("LLM not implemented")
	// ErrMalformedResponse is returned when message content is neither text nor text blocks.
	ErrMalformedResponse = errors.New("malformed AI response")
)

// Response is the provider reply.
type Response struct {
	Message Message `json:"message"`
}

// Message carries the reply content.
type Message struct {
	Content Content `json:"content"`
}

// ContentKind tags the shape of Content.
type ContentKind int

const (
	ContentUnknown ContentKind = iota
	ContentText
	ContentBlocks
)

func (k ContentKind) String() string {
	switch k {
	case ContentText:
		return "text"
	case ContentBlocks:
		return "blocks"
	default:
		return "unknown"
	}
}

// Block is one element of a block sequence. Blocks that carry no text, such as
// tool calls, keep their type and an empty Text.
type Block struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

// Content is either plain text or an ordered list of blocks.
type Content struct {
	Kind   ContentKind
	Value  string
	Blocks []Block
	// Raw keeps the undecoded payload for unknown shapes.
	Raw json.RawMessage
}

// TextContent builds plain text content.
func TextContent(s string) Content {
	return Content{Kind: ContentText, Value: s}
}

// BlockContent builds block content.
func BlockContent(blocks ...Block) Content {
	return Content{Kind: ContentBlocks, Blocks: blocks}
}

// Text returns the textual payload: text as is, or the first block's text.
func (c Content) Text() (string, error) {
	switch c.Kind {
	case ContentText:
		return c.Value, nil
	case ContentBlocks:
		if len(c.Blocks) == 0 {
			return "", fmt.Errorf("%w: empty block list", ErrMalformedResponse)
		}
		return c.Blocks[0].Text, nil
	default:
		return "", fmt.Errorf("%w: unrecognized content shape", ErrMalformedResponse)
	}
}

// UnmarshalJSON accepts a JSON string or an array of blocks whose first element is an
// object with a string text field. Later elements need not carry text. Anything else
// decodes to ContentUnknown rather than failing.
func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*c = Content{Raw: append(json.RawMessage(nil), trimmed...)}
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = TextContent(s)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil
		}
		blocks := make([]Block, 0, len(items))
		for i, item := range items {
			block, ok := decodeBlock(item)
			if !ok && i == 0 {
				return nil
			}
			blocks = append(blocks, block)
		}
		*c = BlockContent(blocks...)
		c.Raw = append(json.RawMessage(nil), trimmed...)
	}
	return nil
}

// decodeBlock reports whether item is an object with a string text field.
func decodeBlock(item json.RawMessage) (Block, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return Block{}, false
	}
	var block Block
	_ = json.Unmarshal(fields["type"], &block.Type)
	raw, ok := fields["text"]
	if !ok {
		return block, false
	}
	if err := json.Unmarshal(raw, &block.Text); err != nil {
		return Block{Type: block.Type}, false
	}
	return block, true
}

// MarshalJSON writes the content back in its original shape.
func (c Content) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ContentText:
		return json.Marshal(c.Value)
	case ContentBlocks:
		blocks := c.Blocks
		if blocks == nil {
			blocks = []Block{}
		}
		return json.Marshal(blocks)
	default:
		if len(c.Raw) == 0 {
			return []byte("null"), nil
		}
		return c.Raw, nil
	}
}

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// RequestFeedback returns ErrNotImplemented.
func (PlaceholderClient) RequestFeedback(context.Context, string, string) (*Response, error) {
	return nil, ErrNotImplemented
}
