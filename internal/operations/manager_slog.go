package operations

import (
	"context"
	"log/slog"
	"time"
)

// logOperationStart logs the start of a run
func (m *Manager) logOperationStart(ctx context.Context, runID string, stages int) {
	m.logger.InfoContext(ctx, "operation_start",
		slog.String("run_id", runID),
		slog.Int("stage_count", stages))
}

// logOperationComplete logs the completion of a run
func (m *Manager) logOperationComplete(ctx context.Context, runID string, duration time.Duration, status OperationStatusValue) {
	m.logger.InfoContext(ctx, "operation_complete",
		slog.String("run_id", runID),
		slog.String("status", string(status)),
		slog.Duration("duration", duration))
}

// logOperationError logs a run error
func (m *Manager) logOperationError(ctx context.Context, runID string, err error) {
	errorMsg := "unknown error"
	if err != nil {
		errorMsg = err.Error()
	}
	m.logger.ErrorContext(ctx, "operation_error",
		slog.String("run_id", runID),
		slog.String("failed_stage", FailedStep(err)),
		slog.String("error_type", string(GetErrorType(err))),
		slog.String("error", errorMsg))
}

// logStageStart logs the start of a Step execution
func (m *Manager) logStageStart(ctx context.Context, stageID string) {
	m.logger.DebugContext(ctx, "stage_start",
		slog.String("stage", stageID))
}

// logStageComplete logs the completion of a Step execution
func (m *Manager) logStageComplete(ctx context.Context, stageID string, duration time.Duration, artifacts []string) {
	m.logger.InfoContext(ctx, "stage_complete",
		slog.String("stage", stageID),
		slog.Duration("duration", duration),
		slog.Any("artifacts", artifacts))
}

// logStageError logs a Step error
func (m *Manager) logStageError(ctx context.Context, stageID string, err error) {
	errorMsg := "unknown error"
	if err != nil {
		errorMsg = err.Error()
	}
	m.logger.ErrorContext(ctx, "stage_error",
		slog.String("stage", stageID),
		slog.String("error", errorMsg))
}
