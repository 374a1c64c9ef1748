package testutil

import (
	"context"
	"sync"
	"time"

	"ecomreport/internal/operations"
	"ecomreport/pkg/contracts/domain"
)

// MockStage is a configurable mock implementation of the step interface
type MockStage struct {
	IDValue   string
	NameValue string

	// Configurable function
	ExecuteFunc func(ctx context.Context, in operations.StepInput) (*operations.StepOutput, error)

	// Call tracking
	mu           sync.Mutex
	ExecuteCalls int
	ExecuteArgs  []ExecuteCall
}

// ExecuteCall tracks arguments passed to Execute
type ExecuteCall struct {
	Ctx   context.Context
	Input operations.StepInput
	Time  time.Time
}

// ID returns the step ID
func (m *MockStage) ID() string {
	return m.IDValue
}

// Name returns the step name
func (m *MockStage) Name() string {
	return m.NameValue
}

// Execute runs the mock execute function
func (m *MockStage) Execute(ctx context.Context, in operations.StepInput) (*operations.StepOutput, error) {
	m.mu.Lock()
	m.ExecuteCalls++
	m.ExecuteArgs = append(m.ExecuteArgs, ExecuteCall{
		Ctx:   ctx,
		Input: in,
		Time:  time.Now(),
	})
	m.mu.Unlock()

	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, in)
	}
	return &operations.StepOutput{}, nil
}

// GetExecuteCalls returns the number of Execute calls
func (m *MockStage) GetExecuteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ExecuteCalls
}

// LastInput returns the input of the most recent Execute call
func (m *MockStage) LastInput() operations.StepInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ExecuteArgs) == 0 {
		return operations.StepInput{}
	}
	return m.ExecuteArgs[len(m.ExecuteArgs)-1].Input
}

// EmitCall is one recorded call to a MockSink
type EmitCall struct {
	StageID   string
	Artifacts []domain.Artifact
}

// MockSink records the artifacts handed to it
type MockSink struct {
	mu    sync.Mutex
	Calls []EmitCall
	Err   error
}

// Emit records the call and returns the configured error
func (s *MockSink) Emit(_ context.Context, stageID string, artifacts []domain.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, EmitCall{StageID: stageID, Artifacts: artifacts})
	return s.Err
}

// StageIDs returns the stages that emitted, in call order
func (s *MockSink) StageIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.Calls))
	for i, c := range s.Calls {
		ids[i] = c.StageID
	}
	return ids
}

// ArtifactNames returns every artifact name seen, in emission order
func (s *MockSink) ArtifactNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for _, c := range s.Calls {
		for _, a := range c.Artifacts {
			names = append(names, a.Name)
		}
	}
	return names
}
