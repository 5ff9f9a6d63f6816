package submissions

import "fmt"

// Stage is a named state of the submission pipeline.
type Stage string

const (
	StageIdle              Stage = "idle"
	StageUploading         Stage = "uploading"
	StageConverting        Stage = "converting"
	StageUploadingImage    Stage = "uploading-image"
	StagePreparingMetadata Stage = "preparing-metadata"
	StageAnalyzing         Stage = "analyzing"
	StageComplete          Stage = "complete"
	StageFailed            Stage = "failed"
)

// Terminal reports whether no further transitions are allowed.
func (s Stage) Terminal() bool {
	return s == StageComplete || s == StageFailed
}

// Step names the pipeline step a failure happened in.
type Step string

const (
	StepUpload       Step = "upload"
	StepConvert      Step = "convert"
	StepUploadImage  Step = "upload-image"
	StepCheckpoint   Step = "checkpoint"
	StepAnalyze      Step = "analyze"
	StepSaveFeedback Step = "save-feedback"
)

var nextStage = map[Stage]Stage{
	StageIdle:              StageUploading,
	StageUploading:         StageConverting,
	StageConverting:        StageUploadingImage,
	StageUploadingImage:    StagePreparingMetadata,
	StagePreparingMetadata: StageAnalyzing,
	StageAnalyzing:         StageComplete,
}

var stepStage = map[Step]Stage{
	StepUpload:       StageUploading,
	StepConvert:      StageConverting,
	StepUploadImage:  StageUploadingImage,
	StepCheckpoint:   StagePreparingMetadata,
	StepAnalyze:      StageAnalyzing,
	StepSaveFeedback: StageAnalyzing,
}

// State is a snapshot of one submission flow.
type State struct {
	Stage        Stage  `json:"stage"`
	FailedStep   Step   `json:"failedStage,omitempty"`
	Status       string `json:"status"`
	SubmissionID string `json:"id,omitempty"`
	Persisted    bool   `json:"-"`
}

// Machine enforces the strictly sequential stage order. Complete and failed are absorbing.
type Machine struct {
	state    State
	onChange func(State)
}

// NewMachine starts in idle. onChange, if set, is called after every transition.
func NewMachine(onChange func(State)) *Machine {
	return &Machine{state: State{Stage: StageIdle}, onChange: onChange}
}

// State returns the current snapshot.
func (m *Machine) State() State {
	return m.state
}

// Advance moves to next, which must directly follow the current stage.
func (m *Machine) Advance(next Stage, status string) error {
	want, ok := nextStage[m.state.Stage]
	if !ok || want != next {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state.Stage, next)
	}
	m.state.Stage = next
	m.state.Status = status
	m.emit()
	return nil
}

// Fail moves to failed. The step must belong to the current stage.
func (m *Machine) Fail(step Step, status string) error {
	if m.state.Stage.Terminal() || stepStage[step] != m.state.Stage {
		return fmt.Errorf("%w: %s -> failed(%s)", ErrInvalidTransition, m.state.Stage, step)
	}
	m.state.Stage = StageFailed
	m.state.FailedStep = step
	m.state.Status = status
	m.emit()
	return nil
}

func (m *Machine) bind(id string) {
	m.state.SubmissionID = id
}

func (m *Machine) markPersisted() {
	m.state.Persisted = true
}

func (m *Machine) emit() {
	if m.onChange != nil {
		m.onChange(m.state)
	}
}
