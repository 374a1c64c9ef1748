package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomreport/internal/operations"
)

// AssertStepStatus checks the status of one step in a run
func AssertStepStatus(t *testing.T, state *operations.OperationState, stageID string, expected operations.StepStatus) {
	t.Helper()
	step := state.GetStage(stageID)
	require.NotNil(t, step, "stage %s has no state", stageID)
	assert.Equal(t, expected, step.GetStatus(), "stage %s", stageID)
}

// AssertOperationStatus checks the overall run status
func AssertOperationStatus(t *testing.T, state *operations.OperationState, expected operations.OperationStatusValue) {
	t.Helper()
	assert.Equal(t, expected, state.GetStatus())
}

// AssertErrorType checks the pipeline error type of err
func AssertErrorType(t *testing.T, err error, expected operations.ErrorType) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, expected, operations.GetErrorType(err))
}

// AssertManifestStatuses checks the stage statuses recorded in a manifest
func AssertManifestStatuses(t *testing.T, m *operations.PipelineManifest, expected map[string]string) {
	t.Helper()
	got := make(map[string]string, len(m.Stages))
	for _, s := range m.Stages {
		got[s.StageID] = s.Status
	}
	assert.Equal(t, expected, got)
}
