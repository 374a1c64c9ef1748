package operations

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// PipelineManifest records the stages of one report run and what they produced
type PipelineManifest struct {
	mu sync.RWMutex `json:"-"`

	// Identity
	RunID     string    `json:"run_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time,omitempty"`

	// Inputs and settings that shaped the run
	Inputs map[string]string      `json:"inputs,omitempty"`
	Config map[string]interface{} `json:"config,omitempty"`

	// Stages in execution order
	Stages []StageExecution `json:"stages"`

	// Files written by the exporters
	Outputs []string `json:"outputs,omitempty"`

	Status      string    `json:"status"` // "pending", "running", "completed", "failed", "cancelled"
	LastUpdated time.Time `json:"last_updated"`
	Error       string    `json:"error,omitempty"`
}

// StageExecution tracks the execution of a single stage
type StageExecution struct {
	StageID   string                 `json:"stage_id"`
	StageName string                 `json:"stage_name"`
	StartTime time.Time              `json:"start_time,omitempty"`
	EndTime   time.Time              `json:"end_time,omitempty"`
	Duration  string                 `json:"duration,omitempty"`
	Status    string                 `json:"status"` // "running", "completed", "failed", "skipped"
	Artifacts []string               `json:"artifacts,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewPipelineManifest creates a manifest for runID
func NewPipelineManifest(runID string) *PipelineManifest {
	now := time.Now()
	return &PipelineManifest{
		RunID:       runID,
		StartTime:   now,
		Inputs:      make(map[string]string),
		Config:      make(map[string]interface{}),
		Stages:      []StageExecution{},
		Status:      "pending",
		LastUpdated: now,
	}
}

// SetInput records the path of a named input file
func (m *PipelineManifest) SetInput(name, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inputs[name] = path
	m.LastUpdated = time.Now()
}

// SetConfig records a setting used by the run
func (m *PipelineManifest) SetConfig(key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Config[key] = value
	m.LastUpdated = time.Now()
}

// AddOutput records a file written for the run
func (m *PipelineManifest) AddOutput(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Outputs = append(m.Outputs, path)
	m.LastUpdated = time.Now()
}

// MarkRunning flags the run as started
func (m *PipelineManifest) MarkRunning() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Status = "running"
	m.LastUpdated = time.Now()
}

// RecordStageStart records the start of a stage execution
func (m *PipelineManifest) RecordStageStart(stageID, stageName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Stages = append(m.Stages, StageExecution{
		StageID:   stageID,
		StageName: stageName,
		StartTime: time.Now(),
		Status:    "running",
	})
	m.LastUpdated = time.Now()
}

// RecordStageCompletion records the completion of a stage
func (m *PipelineManifest) RecordStageCompletion(stageID string, artifacts []string, metadata map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s := m.find(stageID); s != nil {
		s.EndTime = time.Now()
		s.Duration = s.EndTime.Sub(s.StartTime).String()
		s.Status = "completed"
		s.Artifacts = artifacts
		if len(metadata) > 0 {
			s.Metadata = metadata
		}
	}
	m.LastUpdated = time.Now()
}

// RecordStageFailure records a stage failure and fails the run
func (m *PipelineManifest) RecordStageFailure(stageID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s := m.find(stageID); s != nil {
		s.EndTime = time.Now()
		s.Duration = s.EndTime.Sub(s.StartTime).String()
		s.Status = "failed"
		s.Error = err.Error()
	}
	m.Status = "failed"
	m.Error = fmt.Sprintf("Stage %s failed: %v", stageID, err)
	m.LastUpdated = time.Now()
}

// RecordStageSkipped records a stage that never ran
func (m *PipelineManifest) RecordStageSkipped(stageID, stageName, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Stages = append(m.Stages, StageExecution{
		StageID:   stageID,
		StageName: stageName,
		Status:    "skipped",
		Error:     reason,
	})
	m.LastUpdated = time.Now()
}

// Finish closes the run with status. A failed status keeps the stage error.
func (m *PipelineManifest) Finish(status string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EndTime = time.Now()
	m.Status = status
	if err != nil && m.Error == "" {
		m.Error = err.Error()
	}
	m.LastUpdated = m.EndTime
}

// IsStageCompleted checks if a stage has been completed
func (m *PipelineManifest) IsStageCompleted(stageID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, stage := range m.Stages {
		if stage.StageID == stageID && stage.Status == "completed" {
			return true
		}
	}
	return false
}

// find returns the last execution of stageID; callers hold the lock
func (m *PipelineManifest) find(stageID string) *StageExecution {
	for i := len(m.Stages) - 1; i >= 0; i-- {
		if m.Stages[i].StageID == stageID {
			return &m.Stages[i]
		}
	}
	return nil
}

// SaveToFile saves the manifest to a JSON file
func (m *PipelineManifest) SaveToFile(filepath string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}

	return nil
}

// LoadManifestFromFile loads a manifest from a JSON file
func LoadManifestFromFile(filepath string) (*PipelineManifest, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var manifest PipelineManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	return &manifest, nil
}
