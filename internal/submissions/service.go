package submissions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"resume-feedback/internal/feedback"
	"resume-feedback/internal/shared/storage/kv"
)

// Service reads persisted submissions.
type Service struct {
	Metadata kv.Store
}

// NewService constructs a Service.
func NewService(metadata kv.Store) *Service {
	return &Service{Metadata: metadata}
}

// Get loads a submission by id.
func (s *Service) Get(ctx context.Context, id string) (Submission, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Submission{}, ErrNotFound
	}
	raw, err := s.Metadata.Get(ctx, id)
	if errors.Is(err, kv.ErrNotFound) {
		return Submission{}, ErrNotFound
	}
	if err != nil {
		return Submission{}, err
	}
	var sub Submission
	if err := json.Unmarshal([]byte(raw), &sub); err != nil {
		return Submission{}, fmt.Errorf("decode submission id=%s: %w", id, err)
	}
	return sub, nil
}

// Report parses the stored feedback into its display view.
func (s *Service) Report(ctx context.Context, id string) (Submission, feedback.Report, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return Submission{}, feedback.Report{}, err
	}
	if sub.Feedback == "" {
		return sub, feedback.Report{}, ErrFeedbackPending
	}
	parsed, err := feedback.Parse(sub.Feedback)
	if err != nil {
		return sub, feedback.Report{}, err
	}
	return sub, feedback.BuildReport(parsed), nil
}
