package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ecomreport/internal/infrastructure"
	"ecomreport/pkg/contracts/domain"
)

// RunRequest describes one report run
type RunRequest struct {
	// ID is the run ID; a fresh one is generated when empty
	ID string

	// Manifest collects the stage records; a new one is created when nil
	Manifest *PipelineManifest
}

// RunResult is what a completed or failed run leaves behind
type RunResult struct {
	RunID    string               `json:"run_id"`
	Status   OperationStatusValue `json:"status"`
	Duration time.Duration        `json:"duration"`

	// Dataset is the last dataset a stage produced
	Dataset domain.Dataset `json:"-"`

	// Artifacts holds every emitted artifact in stage order
	Artifacts []domain.Artifact `json:"-"`

	Manifest *PipelineManifest `json:"-"`
	State    *OperationState   `json:"-"`
}

// Manager runs the registered steps in order
type Manager struct {
	registry *Registry
	config   *Config
	sink     ArtifactSink
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewManager creates a pipeline manager. A nil sink discards artifacts
// and a nil tracer records nothing.
func NewManager(registry *Registry, config *Config, sink ArtifactSink, tracer *OperationTracer, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if config == nil {
		config = NewConfig()
	}
	if tracer == nil {
		tracer = NewNoopTracer()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		registry: registry,
		config:   config,
		sink:     sink,
		tracer:   tracer,
		logger:   infrastructure.WithComponent(logger, "pipeline"),
	}
}

// GetRegistry returns the registry of steps
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// Execute runs every registered step in registration order. The first
// failing step stops the run and the remaining steps are recorded as
// skipped. The returned result is never nil.
func (m *Manager) Execute(ctx context.Context, req RunRequest) (*RunResult, error) {
	if req.ID == "" {
		req.ID = infrastructure.GenerateRunID()
	}
	if req.Manifest == nil {
		req.Manifest = NewPipelineManifest(req.ID)
	}
	ctx = infrastructure.WithRunID(ctx, req.ID)

	steps := m.registry.List()
	state := NewOperationState(req.ID)
	for _, step := range steps {
		state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	result := &RunResult{
		RunID:    req.ID,
		Manifest: req.Manifest,
		State:    state,
	}

	ctx, span := m.tracer.TraceOperationExecution(ctx, req.ID, len(steps))
	defer span.End()

	state.Start()
	req.Manifest.MarkRunning()
	m.logOperationStart(ctx, req.ID, len(steps))

	runErr := m.executeSequential(ctx, state, req.Manifest, steps, result)

	switch {
	case runErr == nil:
		state.Complete()
	case GetErrorType(runErr) == ErrorTypeCancellation || errors.Is(runErr, context.Canceled):
		state.Cancel(runErr)
	default:
		state.Fail(runErr)
	}

	result.Status = state.GetStatus()
	result.Duration = state.Duration()
	req.Manifest.Finish(string(result.Status), runErr)
	m.tracer.RecordOperationCompletion(ctx, span, result.Duration, result.Status, runErr)

	if runErr != nil {
		m.logOperationError(ctx, req.ID, runErr)
		return result, runErr
	}
	m.logOperationComplete(ctx, req.ID, result.Duration, result.Status)
	return result, nil
}

// executeSequential executes steps one by one, threading the dataset through
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, manifest *PipelineManifest, steps []Step, result *RunResult) error {
	for i, step := range steps {
		select {
		case <-ctx.Done():
			m.logger.WarnContext(ctx, "operation_cancelled",
				slog.String("run_id", state.ID),
				slog.String("stage", step.ID()))
			m.skipRemaining(state, manifest, steps[i:], "run cancelled")
			return NewCancellationError(step.ID(), ctx.Err())
		default:
		}

		m.logger.InfoContext(ctx, "executing_stage",
			slog.String("stage", step.ID()),
			slog.Int("stage_number", i+1),
			slog.Int("total_stages", len(steps)))

		output, err := m.executeStage(ctx, state, manifest, step, result.Dataset)
		if err != nil {
			m.skipRemaining(state, manifest, steps[i+1:], fmt.Sprintf("stage %s failed", step.ID()))
			return err
		}

		if output.Dataset != nil {
			result.Dataset = *output.Dataset
		}
		result.Artifacts = append(result.Artifacts, output.Artifacts...)
	}
	return nil
}

// executeStage runs one step under its own timeout and span, then hands its
// artifacts to the sink
func (m *Manager) executeStage(ctx context.Context, state *OperationState, manifest *PipelineManifest, step Step, ds domain.Dataset) (*StepOutput, error) {
	stepState := state.GetStage(step.ID())
	if stepState == nil {
		return nil, NewFatalError(fmt.Sprintf("no state for stage %s", step.ID()), nil)
	}

	stageCtx, cancel := context.WithTimeout(ctx, m.config.GetStageTimeout(step.ID()))
	defer cancel()
	stageCtx, span := m.tracer.TraceStageExecution(stageCtx, state.ID, step.ID())
	defer span.End()

	m.logStageStart(stageCtx, step.ID())
	stepState.Start()
	manifest.RecordStageStart(step.ID(), step.Name())
	start := time.Now()

	output, err := step.Execute(stageCtx, StepInput{RunID: state.ID, Dataset: ds})
	if err == nil && output == nil {
		output = &StepOutput{}
	}
	if err == nil && m.sink != nil && len(output.Artifacts) > 0 {
		if sinkErr := m.sink.Emit(stageCtx, step.ID(), output.Artifacts); sinkErr != nil {
			err = NewExportError(step.ID(), sinkErr)
		}
	}
	duration := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			err = NewCancellationError(step.ID(), err)
		} else {
			err = WrapError(err, step.ID())
		}
		stepState.Fail(err)
		manifest.RecordStageFailure(step.ID(), err)
		m.tracer.RecordStageCompletion(stageCtx, span, step.ID(), duration, 0, err)
		m.logStageError(stageCtx, step.ID(), err)
		return nil, err
	}

	names := artifactNames(output.Artifacts)
	stepState.Complete(names, output.Metadata)
	manifest.RecordStageCompletion(step.ID(), names, output.Metadata)
	m.tracer.RecordStageCompletion(stageCtx, span, step.ID(), duration, len(names), nil)

	if step.ID() == StageIDLoadJoin && output.Dataset != nil {
		m.tracer.RecordRecordsLoaded(stageCtx, output.Dataset.Len())
	}

	m.logStageComplete(stageCtx, step.ID(), duration, names)
	return output, nil
}

// skipRemaining marks steps that will not run
func (m *Manager) skipRemaining(state *OperationState, manifest *PipelineManifest, steps []Step, reason string) {
	for _, step := range steps {
		if s := state.GetStage(step.ID()); s != nil {
			s.Skip(reason)
		}
		manifest.RecordStageSkipped(step.ID(), step.Name(), reason)
	}
}

func artifactNames(artifacts []domain.Artifact) []string {
	if len(artifacts) == 0 {
		return nil
	}
	names := make([]string, len(artifacts))
	for i, a := range artifacts {
		names[i] = a.Name
	}
	return names
}
