package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	workDir := t.TempDir()
	cfg := Default()

	paths, err := ResolvePaths(cfg, workDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(workDir, "orders.csv"), paths.OrdersFile)
	assert.Equal(t, filepath.Join(workDir, "product_supplier.csv"), paths.ProductsFile)
	assert.Equal(t, filepath.Join(workDir, "report"), paths.OutputDir)
	assert.Equal(t, filepath.Join(workDir, "report", "ecommerce_report.xlsx"), paths.WorkbookFile)
	assert.Equal(t, filepath.Join(workDir, "report", "manifest.json"), paths.ManifestFile)
	assert.Equal(t, filepath.Join(workDir, "report", "metrics.prom"), paths.MetricsFile)
	assert.Equal(t, filepath.Join(workDir, "report", "delivery.csv"), paths.GetOutputPath("delivery.csv"))
}

func TestResolvePaths_AbsoluteInputsKept(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "elsewhere", "orders.csv")
	cfg := Default()
	cfg.Inputs.OrdersFile = abs

	paths, err := ResolvePaths(cfg, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, abs, paths.OrdersFile)
}

func TestEnsureDirectories(t *testing.T) {
	workDir := t.TempDir()
	cfg := Default()
	cfg.Output.Dir = filepath.Join("nested", "out")

	paths, err := ResolvePaths(cfg, workDir)
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	info, err := os.Stat(paths.OutputDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestValidateRequiredFiles(t *testing.T) {
	workDir := t.TempDir()
	paths, err := ResolvePaths(Default(), workDir)
	require.NoError(t, err)

	err = paths.ValidateRequiredFiles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orders")
	assert.Contains(t, err.Error(), "products")

	require.NoError(t, os.WriteFile(paths.OrdersFile, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(paths.ProductsFile, []byte("x"), 0644))
	assert.NoError(t, paths.ValidateRequiredFiles())
}
