package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "ecomreport/internal/errors"
	"ecomreport/internal/operations"
	"ecomreport/internal/operations/testutil"
)

func newTestApp(t *testing.T, opts Options) (*Application, *bytes.Buffer) {
	t.Helper()

	var stdout bytes.Buffer
	if opts.WorkDir == "" {
		opts.WorkDir = t.TempDir()
	}
	opts.Stdout = &stdout
	opts.Stderr = io.Discard

	a, err := NewApplication(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a, &stdout
}

func TestRunWritesAllOutputs(t *testing.T) {
	t.Setenv("ECOM_OUTPUT_METRICS", "true")

	dir := t.TempDir()
	testutil.WriteSampleInputs(t, dir)

	a, stdout := newTestApp(t, Options{WorkDir: dir, OutputDir: "out"})

	result, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, operations.OperationStatusCompleted, result.Status)

	out := stdout.String()
	assert.Contains(t, out, "Data quality checks")
	assert.Contains(t, out, "The order-to-delivery length of every month in the latest year:")
	assert.Contains(t, out, "Total active loyal customers: 1")
	assert.NotContains(t, out, "Median margin by product category")

	outDir := filepath.Join(dir, "out")
	workbook := filepath.Join(outDir, "ecommerce_report.xlsx")
	testutil.AssertFileExists(t, workbook)
	testutil.AssertFileExists(t, filepath.Join(outDir, "loyal_customers.csv"))
	testutil.AssertFileExists(t, filepath.Join(outDir, "monthly_profit.csv"))
	testutil.AssertFileExists(t, filepath.Join(outDir, "metrics.prom"))

	f, err := excelize.OpenFile(workbook)
	require.NoError(t, err)
	defer f.Close()
	sheets := f.GetSheetList()
	require.Len(t, sheets, 10)
	assert.Equal(t, operations.ArtifactDiagnostics, sheets[0])
	assert.Equal(t, operations.ArtifactTierDistribution, sheets[9])

	manifest, err := operations.LoadManifestFromFile(filepath.Join(outDir, "manifest.json"))
	require.NoError(t, err)
	assert.Equal(t, result.RunID, manifest.RunID)
	assert.Equal(t, "completed", manifest.Status)
	assert.Len(t, manifest.Stages, 8)
	assert.Contains(t, manifest.Outputs, workbook)
	assert.Equal(t, filepath.Join(dir, "orders.csv"), manifest.Inputs["orders"])

	metrics, err := os.ReadFile(filepath.Join(outDir, "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "records_loaded")
}

func TestRunMissingInputFails(t *testing.T) {
	dir := t.TempDir()
	a, stdout := newTestApp(t, Options{WorkDir: dir, OrdersFile: "nope.csv"})

	result, err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.Equal(t, operations.OperationStatusFailed, result.Status)
	assert.Empty(t, stdout.String())

	// No sheet was produced, so no workbook is written
	assert.False(t, testutil.FileExists(filepath.Join(dir, "report", "ecommerce_report.xlsx")))

	manifest, err := operations.LoadManifestFromFile(filepath.Join(dir, "report", "manifest.json"))
	require.NoError(t, err)
	assert.Equal(t, "failed", manifest.Status)
	assert.Equal(t, "failed", manifest.Stages[0].Status)
	assert.Equal(t, "skipped", manifest.Stages[1].Status)
}

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"no overrides", Options{}, false},
		{"markdown format", Options{Format: "markdown"}, false},
		{"unknown format", Options{Format: "html"}, true},
		{"custom paths", Options{OrdersFile: "a.csv", ProductsFile: "b.csv", OutputDir: "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.WorkDir = t.TempDir()
			opts.Stdout = io.Discard
			opts.Stderr = io.Discard

			a, err := NewApplication(context.Background(), opts)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			_ = a.Close(context.Background())
		})
	}
}

func TestNewApplicationRegistersStages(t *testing.T) {
	a, _ := newTestApp(t, Options{})
	assert.Equal(t, 8, a.Manager.GetRegistry().Count())
	assert.NotNil(t, a.Workbook)
	assert.NotNil(t, a.CSV)
}
