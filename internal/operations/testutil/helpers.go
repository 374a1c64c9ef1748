package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// CreateCSVFile creates a test CSV file. Cells must not contain commas.
func CreateCSVFile(t *testing.T, dir, name string, headers []string, rows [][]string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}

	return CreateTestFile(t, dir, name, b.String())
}

// WriteSampleInputs writes the sample orders and products into dir and
// returns their paths
func WriteSampleInputs(t *testing.T, dir string) (orders, products string) {
	t.Helper()

	orders = CreateCSVFile(t, dir, "orders.csv", OrdersHeader, SampleOrders)
	products = CreateCSVFile(t, dir, "product_supplier.csv", ProductsHeader, SampleProducts)
	return orders, products
}

// FileExists reports whether path exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// AssertFileExists fails the test if path does not exist
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if !FileExists(path) {
		t.Errorf("expected file %s to exist", path)
	}
}
