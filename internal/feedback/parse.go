package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidFeedback is returned when stored feedback text does not match the Feedback shape.
var ErrInvalidFeedback = errors.New("invalid feedback")

const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "definitions": {
    "score": {"type": "integer", "minimum": 0, "maximum": 100},
    "tip": {
      "type": "object",
      "required": ["type", "tip"],
      "properties": {
        "type": {"type": "string", "enum": ["good", "improve"]},
        "tip": {"type": "string"},
        "explanation": {"type": "string"}
      }
    },
    "category": {
      "type": "object",
      "required": ["score", "tips"],
      "properties": {
        "score": {"$ref": "#/definitions/score"},
        "tips": {"type": "array", "items": {"$ref": "#/definitions/tip"}}
      }
    }
  },
  "required": ["overallScore", "toneAndStyle", "content", "structure", "skills"],
  "properties": {
    "overallScore": {"$ref": "#/definitions/score"},
    "ATS": {"$ref": "#/definitions/category"},
    "toneAndStyle": {"$ref": "#/definitions/category"},
    "content": {"$ref": "#/definitions/category"},
    "structure": {"$ref": "#/definitions/category"},
    "skills": {"$ref": "#/definitions/category"}
  }
}`

var schema = mustSchema(schemaJSON)

func mustSchema(raw string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("feedback schema: %v", err))
	}
	return s
}

// Parse validates raw feedback text and decodes it.
func Parse(raw string) (Feedback, error) {
	payload := stripCodeFence(raw)
	if payload == "" {
		return Feedback{}, fmt.Errorf("%w: empty", ErrInvalidFeedback)
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil {
		return Feedback{}, fmt.Errorf("%w: %v", ErrInvalidFeedback, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return Feedback{}, fmt.Errorf("%w: %s", ErrInvalidFeedback, strings.Join(msgs, "; "))
	}

	var f Feedback
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		return Feedback{}, fmt.Errorf("%w: %v", ErrInvalidFeedback, err)
	}
	return f, nil
}

// stripCodeFence removes a surrounding markdown code fence, which some models add.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
