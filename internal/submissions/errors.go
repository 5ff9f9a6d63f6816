package submissions

import (
	"errors"
	"fmt"

	"resume-feedback/internal/llm"
)

var (
	ErrNoFile            = errors.New("no file selected")
	ErrUpload            = errors.New("failed to upload file")
	ErrConversion        = errors.New("failed to convert document to image")
	ErrImageUpload       = errors.New("failed to upload image")
	ErrCheckpoint        = errors.New("failed to save submission")
	ErrAnalysis          = errors.New("failed to analyze resume")
	ErrSaveFeedback      = errors.New("failed to save feedback")
	ErrMalformedResponse = llm.ErrMalformedResponse
	ErrNotFound          = errors.New("submission not found")
	ErrFeedbackPending   = errors.New("feedback not available yet")
	ErrInvalidTransition = errors.New("invalid stage transition")
)

// StageError reports the step a submission failed at. It matches both the step
// sentinel and the collaborator error with errors.Is.
type StageError struct {
	Step  Step
	Err   error
	Cause error
}

func (e *StageError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Step, e.Err, e.Cause)
}

func (e *StageError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}
