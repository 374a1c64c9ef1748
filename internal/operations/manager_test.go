package operations_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomreport/internal/infrastructure"
	"ecomreport/internal/operations"
	"ecomreport/internal/operations/testutil"
	"ecomreport/pkg/contracts/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newManager(t *testing.T, sink operations.ArtifactSink, steps ...operations.Step) *operations.Manager {
	t.Helper()
	registry := operations.NewRegistry()
	require.NoError(t, registry.RegisterAll(steps...))
	return operations.NewManager(registry, operations.NewConfig(), sink, nil, quietLogger())
}

func TestManagerRunsStagesInOrder(t *testing.T) {
	sink := &testutil.MockSink{}
	manager := newManager(t, sink,
		testutil.CreateArtifactStage("first", "First", "a", "b"),
		testutil.CreateSuccessfulStage("second", "Second"),
		testutil.CreateArtifactStage("third", "Third", "c"),
	)

	result, err := manager.Execute(context.Background(), operations.RunRequest{ID: "run-1"})
	require.NoError(t, err)

	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, operations.OperationStatusCompleted, result.Status)
	testutil.AssertOperationStatus(t, result.State, operations.OperationStatusCompleted)

	// Stages without artifacts are not handed to the sink
	assert.Equal(t, []string{"first", "third"}, sink.StageIDs())
	assert.Equal(t, []string{"a", "b", "c"}, sink.ArtifactNames())
	require.Len(t, result.Artifacts, 3)

	testutil.AssertManifestStatuses(t, result.Manifest, map[string]string{
		"first": "completed", "second": "completed", "third": "completed",
	})
	assert.Equal(t, "completed", result.Manifest.Status)
	assert.Equal(t, []string{"a", "b"}, result.Manifest.Stages[0].Artifacts)
}

func TestManagerThreadsDataset(t *testing.T) {
	producer := testutil.CreateDatasetStage("produce", "Produce",
		domain.Record{Order: domain.Order{OrderID: "1"}},
		domain.Record{Order: domain.Order{OrderID: "2"}},
	)
	passthrough := testutil.CreateSuccessfulStage("observe", "Observe")
	consumer := testutil.CreateSuccessfulStage("consume", "Consume")

	manager := newManager(t, nil, producer, passthrough, consumer)
	result, err := manager.Execute(context.Background(), operations.RunRequest{})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 0, producer.LastInput().Dataset.Len())
	assert.Equal(t, 2, passthrough.LastInput().Dataset.Len())
	// A step that returns no dataset leaves the previous one in place
	assert.Equal(t, 2, consumer.LastInput().Dataset.Len())
	assert.Equal(t, 2, result.Dataset.Len())
	assert.Equal(t, result.RunID, consumer.LastInput().RunID)
}

func TestManagerStopsAtFirstFailure(t *testing.T) {
	cause := errors.New("boom")
	after := testutil.CreateSuccessfulStage("after", "After")
	manager := newManager(t, nil,
		testutil.CreateSuccessfulStage("before", "Before"),
		testutil.CreateFailingStage("broken", "Broken", cause),
		after,
	)

	result, err := manager.Execute(context.Background(), operations.RunRequest{})
	require.Error(t, err)
	require.NotNil(t, result)

	assert.ErrorIs(t, err, cause)
	testutil.AssertErrorType(t, err, operations.ErrorTypeExecution)
	assert.Equal(t, "broken", operations.FailedStep(err))
	assert.Equal(t, 0, after.GetExecuteCalls())

	assert.Equal(t, operations.OperationStatusFailed, result.Status)
	testutil.AssertStepStatus(t, result.State, "before", operations.StepStatusCompleted)
	testutil.AssertStepStatus(t, result.State, "broken", operations.StepStatusFailed)
	testutil.AssertStepStatus(t, result.State, "after", operations.StepStatusSkipped)
	testutil.AssertManifestStatuses(t, result.Manifest, map[string]string{
		"before": "completed", "broken": "failed", "after": "skipped",
	})
	assert.Equal(t, "failed", result.Manifest.Status)
}

func TestManagerSinkFailure(t *testing.T) {
	sink := &testutil.MockSink{Err: errors.New("disk full")}
	manager := newManager(t, sink,
		testutil.CreateArtifactStage("first", "First", "a"),
		testutil.CreateSuccessfulStage("second", "Second"),
	)

	result, err := manager.Execute(context.Background(), operations.RunRequest{})
	testutil.AssertErrorType(t, err, operations.ErrorTypeExport)
	assert.Contains(t, err.Error(), "disk full")
	testutil.AssertStepStatus(t, result.State, "first", operations.StepStatusFailed)
	testutil.AssertStepStatus(t, result.State, "second", operations.StepStatusSkipped)
}

func TestManagerCancelledContext(t *testing.T) {
	first := testutil.CreateSuccessfulStage("first", "First")
	manager := newManager(t, nil, first)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := manager.Execute(ctx, operations.RunRequest{})
	testutil.AssertErrorType(t, err, operations.ErrorTypeCancellation)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, operations.OperationStatusCancelled, result.Status)
	assert.Equal(t, 0, first.GetExecuteCalls())
	testutil.AssertStepStatus(t, result.State, "first", operations.StepStatusSkipped)
}

func TestManagerStageTimeout(t *testing.T) {
	registry := operations.NewRegistry()
	require.NoError(t, registry.Register(testutil.CreateSlowStage("slow", "Slow", 5*time.Second)))

	cfg := operations.NewConfig()
	cfg.SetStageTimeout("slow", 20*time.Millisecond)
	manager := operations.NewManager(registry, cfg, nil, nil, quietLogger())

	start := time.Now()
	result, err := manager.Execute(context.Background(), operations.RunRequest{})
	require.Error(t, err)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, operations.OperationStatusFailed, result.Status)
}

func TestManagerRecordsMetrics(t *testing.T) {
	ctx := context.Background()
	providers, err := infrastructure.InitializeOTel(ctx, &infrastructure.OTelConfig{
		ServiceName: "ecomreport-test",
	}, quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(ctx)

	tracer, err := operations.NewOperationTracer(providers)
	require.NoError(t, err)

	registry := operations.NewRegistry()
	require.NoError(t, registry.RegisterAll(
		testutil.CreateArtifactStage("first", "First", "a", "b"),
		testutil.CreateFailingStage("second", "Second", errors.New("boom")),
	))
	manager := operations.NewManager(registry, nil, nil, tracer, quietLogger())
	_, err = manager.Execute(ctx, operations.RunRequest{})
	require.Error(t, err)

	families, err := providers.Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	for _, prefix := range []string{
		"report_stage_executions",
		"report_stage_duration_seconds",
		"report_stage_errors",
		"report_artifacts",
		"report_run_duration_seconds",
	} {
		found := false
		for name := range names {
			if strings.HasPrefix(name, prefix) {
				found = true
			}
		}
		assert.True(t, found, "metric %s not exported", prefix)
	}
}
