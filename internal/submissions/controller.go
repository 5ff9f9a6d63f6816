package submissions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-feedback/internal/convert"
	"resume-feedback/internal/llm"
	"resume-feedback/internal/shared/metrics"
	"resume-feedback/internal/shared/storage/kv"
	"resume-feedback/internal/shared/storage/object"
	"resume-feedback/internal/shared/telemetry"
)

// Status messages shown to the user while a submission runs.
const (
	StatusUploading        = "Uploading the file..."
	StatusConverting       = "Converting to image..."
	StatusUploadingImage   = "Uploading the image..."
	StatusPreparing        = "Preparing data..."
	StatusAnalyzing        = "Analyzing..."
	StatusComplete         = "Analysis complete, redirecting..."
	StatusUploadFailed     = "Error: Failed to upload file"
	StatusConvertFailed    = "Error: Failed to convert PDF to image"
	StatusImageFailed      = "Error: Failed to upload image"
	StatusCheckpointFailed = "Error: Failed to save submission"
	StatusAnalyzeFailed    = "Error: Failed to analyze resume"
	StatusSaveFailed       = "Error: Failed to save feedback"
)

// Controller runs the submission pipeline. Collaborators are injected so tests can swap them.
type Controller struct {
	Store     object.ObjectStore
	Converter convert.Converter
	Metadata  kv.Store
	AI        llm.Client
	Now       func() time.Time
	NewID     func() string
	OnStatus  func(State)
}

// NewController wires a controller with wall-clock time and UUID ids.
func NewController(store object.ObjectStore, converter convert.Converter, metadata kv.Store, ai llm.Client) *Controller {
	return &Controller{
		Store:     store,
		Converter: converter,
		Metadata:  metadata,
		AI:        ai,
		Now:       time.Now,
		NewID:     uuid.NewString,
	}
}

// Submit runs one submission from upload to persisted feedback. Stages run strictly in order
// and the first failure ends the flow. The returned error is nil only when the flow completes.
func (c *Controller) Submit(ctx context.Context, in Input) (State, error) {
	if in.File == nil {
		return State{Stage: StageIdle}, ErrNoFile
	}

	started := c.now()
	m := NewMachine(c.notify)
	m.bind(c.newID())
	metrics.IncSubmissionStarted()

	if err := c.advance(m, StageUploading, StatusUploading); err != nil {
		return m.State(), err
	}
	fileObj, err := c.Store.Save(ctx, in.File.Name, bytes.NewReader(in.File.Data))
	if err != nil {
		return c.fail(m, started, StepUpload, StatusUploadFailed, ErrUpload, err)
	}

	if err := c.advance(m, StageConverting, StatusConverting); err != nil {
		return m.State(), err
	}
	img, err := c.Converter.Convert(ctx, convert.Document{
		Name:        in.File.Name,
		ContentType: in.File.ContentType,
		Data:        in.File.Data,
	})
	if err == nil && len(img.Data) == 0 {
		err = errors.New("converter returned no image")
	}
	if err != nil {
		return c.fail(m, started, StepConvert, StatusConvertFailed, ErrConversion, err)
	}

	if err := c.advance(m, StageUploadingImage, StatusUploadingImage); err != nil {
		return m.State(), err
	}
	imageObj, err := c.Store.Save(ctx, img.Name, bytes.NewReader(img.Data))
	if err != nil {
		return c.fail(m, started, StepUploadImage, StatusImageFailed, ErrImageUpload, err)
	}

	if err := c.advance(m, StagePreparingMetadata, StatusPreparing); err != nil {
		return m.State(), err
	}
	createdAt := c.now().UnixMilli()
	sub := Submission{
		ID:             m.State().SubmissionID,
		CompanyName:    in.CompanyName,
		JobTitle:       in.JobTitle,
		JobDescription: in.JobDescription,
		FilePath:       fileObj.Path,
		ImagePath:      imageObj.Path,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
		Feedback:       "",
	}
	if err := c.save(ctx, sub); err != nil {
		return c.fail(m, started, StepCheckpoint, StatusCheckpointFailed, ErrCheckpoint, err)
	}
	m.markPersisted()

	if err := c.advance(m, StageAnalyzing, StatusAnalyzing); err != nil {
		return m.State(), err
	}
	instructions := llm.PrepareInstructions(in.JobTitle, in.JobDescription, llm.ResponseFormat())
	resp, err := c.AI.RequestFeedback(ctx, sub.FilePath, instructions)
	if err == nil && resp == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		return c.fail(m, started, StepAnalyze, StatusAnalyzeFailed, ErrAnalysis, err)
	}
	text, err := resp.Message.Content.Text()
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrMalformedResponse
	}
	if err != nil {
		return c.fail(m, started, StepAnalyze, StatusAnalyzeFailed, ErrAnalysis, err)
	}

	sub.Feedback = text
	sub.UpdatedAt = c.now().UnixMilli()
	if err := c.save(ctx, sub); err != nil {
		return c.fail(m, started, StepSaveFeedback, StatusSaveFailed, ErrSaveFeedback, err)
	}

	if err := c.advance(m, StageComplete, StatusComplete); err != nil {
		return m.State(), err
	}
	metrics.IncSubmissionCompleted()
	metrics.ObserveSubmissionDuration(c.now().Sub(started))
	return m.State(), nil
}

func (c *Controller) save(ctx context.Context, sub Submission) error {
	raw, err := json.Marshal(sub)
	if err != nil {
		return err
	}
	return c.Metadata.Set(ctx, sub.ID, string(raw))
}

// advance moves m to next. A rejected transition ends the flow with ErrInvalidTransition.
func (c *Controller) advance(m *Machine, next Stage, status string) error {
	if err := m.Advance(next, status); err != nil {
		telemetry.Error("submission.invalid_transition", map[string]any{
			"submission_id": m.State().SubmissionID,
			"stage":         string(m.State().Stage),
			"next":          string(next),
		})
		return err
	}
	return nil
}

func (c *Controller) fail(m *Machine, started time.Time, step Step, status string, sentinel, cause error) (State, error) {
	stageErr := &StageError{Step: step, Err: sentinel, Cause: cause}
	if err := m.Fail(step, status); err != nil {
		telemetry.Error("submission.invalid_transition", map[string]any{
			"submission_id": m.State().SubmissionID,
			"stage":         string(m.State().Stage),
			"step":          string(step),
			"error":         cause,
		})
		return m.State(), errors.Join(err, stageErr)
	}
	metrics.IncSubmissionFailed(string(step))
	metrics.ObserveSubmissionDuration(c.now().Sub(started))
	telemetry.Error("submission.failed", map[string]any{
		"submission_id": m.State().SubmissionID,
		"step":          string(step),
		"error":         cause,
	})
	return m.State(), stageErr
}

func (c *Controller) notify(s State) {
	telemetry.Info("submission.stage", map[string]any{
		"submission_id": s.SubmissionID,
		"stage":         string(s.Stage),
		"status":        s.Status,
	})
	if c.OnStatus != nil {
		c.OnStatus(s)
	}
}

func (c *Controller) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Controller) newID() string {
	if c.NewID != nil {
		return c.NewID()
	}
	return uuid.NewString()
}
