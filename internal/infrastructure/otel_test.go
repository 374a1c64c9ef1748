package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"ecomreport/internal/config"
)

func TestInitializeOTel_TracingDisabled(t *testing.T) {
	ctx := context.Background()
	cfg := NewOTelConfig(config.TelemetryConfig{ServiceName: "ecomreport-test"})

	providers, err := InitializeOTel(ctx, cfg, nil)
	require.NoError(t, err)
	defer providers.Shutdown(ctx)

	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Registry)

	_, span := providers.Tracer.Start(ctx, "noop")
	assert.False(t, span.IsRecording())
	span.End()
}

func TestInitializeOTel_TracingToWriter(t *testing.T) {
	ctx := context.Background()
	var spans bytes.Buffer
	cfg := &OTelConfig{
		ServiceName:    "ecomreport-test",
		ServiceVersion: "test",
		EnableTracing:  true,
		TraceWriter:    &spans,
	}

	providers, err := InitializeOTel(ctx, cfg, nil)
	require.NoError(t, err)

	spanCtx, span := providers.Tracer.Start(ctx, "pipeline.run")
	AddSpanEvent(spanCtx, "records.loaded", map[string]interface{}{"count": 3, "file": "orders.csv"})
	RecordError(spanCtx, errors.New("boom"))
	span.End()

	require.NoError(t, providers.Shutdown(ctx))
	assert.Contains(t, spans.String(), "pipeline.run")
	assert.Contains(t, spans.String(), "records.loaded")
}

func TestPipelineMetrics_WriteTextfile(t *testing.T) {
	ctx := context.Background()
	providers, err := InitializeOTel(ctx, NewOTelConfig(config.TelemetryConfig{ServiceName: "ecomreport-test"}), nil)
	require.NoError(t, err)
	defer providers.Shutdown(ctx)

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	metrics.RecordsLoaded.Add(ctx, 3)
	metrics.StageExecutions.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", "load_join")))
	metrics.StageDuration.Record(ctx, 0.25, metric.WithAttributes(attribute.String("stage", "load_join")))

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, providers.WriteMetrics(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Regexp(t, `report_records_loaded_total(\{[^}]*\})? 3`, string(data))
	assert.Contains(t, string(data), "report_stage_executions_total")
	assert.Contains(t, string(data), `stage="load_join"`)
}

func TestWriteMetrics_NoRegistry(t *testing.T) {
	p := &OTelProviders{}
	assert.Error(t, p.WriteMetrics(filepath.Join(t.TempDir(), "m.prom")))
}
