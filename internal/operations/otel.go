package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"ecomreport/internal/infrastructure"
)

const (
	TracerName = "ecomreport.pipeline"
)

// OperationTracer provides OpenTelemetry instrumentation for report runs
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewOperationTracer creates a tracer backed by providers
func NewOperationTracer(providers *infrastructure.OTelProviders) (*OperationTracer, error) {
	if providers == nil {
		return NewNoopTracer(), nil
	}

	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	return &OperationTracer{
		tracer:  providers.Tracer,
		metrics: metrics,
	}, nil
}

// NewNoopTracer returns a tracer that records nothing
func NewNoopTracer() *OperationTracer {
	metrics, _ := infrastructure.CreatePipelineMetrics(metricnoop.NewMeterProvider().Meter(TracerName))
	return &OperationTracer{
		tracer:  tracenoop.NewTracerProvider().Tracer(TracerName),
		metrics: metrics,
	}
}

// TraceOperationExecution creates a span for the whole run
func (pt *OperationTracer) TraceOperationExecution(ctx context.Context, runID string, stages int) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.stages", stages),
		),
	)
}

// TraceStageExecution creates a span for one stage
func (pt *OperationTracer) TraceStageExecution(ctx context.Context, runID, stageID string) (context.Context, trace.Span) {
	ctx, span := pt.tracer.Start(ctx, fmt.Sprintf("pipeline.stage.%s", stageID),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("stage.id", stageID),
		),
	)

	pt.metrics.StageExecutions.Add(ctx, 1,
		metric.WithAttributes(attribute.String("stage_id", stageID)),
	)

	return ctx, span
}

// RecordStageCompletion closes out a stage span and records its metrics
func (pt *OperationTracer) RecordStageCompletion(ctx context.Context, span trace.Span, stageID string, duration time.Duration, artifacts int, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("stage_id", stageID),
		attribute.String("status", status),
	)

	span.SetAttributes(
		attribute.String("stage.status", status),
		attribute.Float64("stage.duration_seconds", duration.Seconds()),
		attribute.Int("stage.artifacts", artifacts),
	)
	pt.metrics.StageDuration.Record(ctx, duration.Seconds(), attrs)

	if err != nil {
		pt.metrics.StageErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("stage_id", stageID),
			attribute.String("error_type", string(GetErrorType(err))),
		))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	if artifacts > 0 {
		pt.metrics.ArtifactsProduced.Add(ctx, int64(artifacts),
			metric.WithAttributes(attribute.String("stage_id", stageID)),
		)
	}
	infrastructure.AddSpanEvent(ctx, "stage.completed", map[string]interface{}{
		"stage_id":  stageID,
		"duration":  duration.Seconds(),
		"artifacts": artifacts,
	})
	span.SetStatus(codes.Ok, "stage completed")
}

// RecordRecordsLoaded counts the joined records entering the pipeline
func (pt *OperationTracer) RecordRecordsLoaded(ctx context.Context, n int) {
	if n > 0 {
		pt.metrics.RecordsLoaded.Add(ctx, int64(n))
	}
}

// RecordOperationCompletion closes out the run span
func (pt *OperationTracer) RecordOperationCompletion(ctx context.Context, span trace.Span, duration time.Duration, status OperationStatusValue, err error) {
	span.SetAttributes(
		attribute.String("run.status", string(status)),
		attribute.Float64("run.duration_seconds", duration.Seconds()),
	)
	pt.metrics.RunDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String("status", string(status))),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "run completed")
}
