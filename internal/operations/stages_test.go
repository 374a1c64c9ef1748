package operations_test

import (
	"context"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomreport/internal/analytics"
	apperrors "ecomreport/internal/errors"
	"ecomreport/internal/operations"
	"ecomreport/internal/operations/testutil"
	logcapture "ecomreport/internal/shared/testutil"
	"ecomreport/pkg/contracts/domain"
)

// runSamplePipeline runs every report step over the sample inputs
func runSamplePipeline(t *testing.T, adjust func(*operations.StageConfig)) (*operations.RunResult, *testutil.MockSink) {
	t.Helper()
	return runSamplePipelineWithLogger(t, adjust, quietLogger())
}

func runSamplePipelineWithLogger(t *testing.T, adjust func(*operations.StageConfig), logger *slog.Logger) (*operations.RunResult, *testutil.MockSink) {
	t.Helper()

	orders, products := testutil.WriteSampleInputs(t, t.TempDir())
	cfg := operations.DefaultStageConfig()
	cfg.OrdersPath = orders
	cfg.ProductsPath = products
	if adjust != nil {
		adjust(&cfg)
	}

	registry, err := operations.NewPipelineRegistry(cfg, logger)
	require.NoError(t, err)

	sink := &testutil.MockSink{}
	manager := operations.NewManager(registry, nil, sink, nil, logger)
	result, err := manager.Execute(context.Background(), operations.RunRequest{})
	require.NoError(t, err)
	return result, sink
}

func artifact(t *testing.T, result *operations.RunResult, name string) domain.Artifact {
	t.Helper()
	for _, a := range result.Artifacts {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("artifact %s not produced", name)
	return domain.Artifact{}
}

func TestPipelineEndToEnd(t *testing.T) {
	result, sink := runSamplePipeline(t, nil)

	assert.Equal(t, operations.OperationStatusCompleted, result.Status)
	assert.Equal(t, []string{
		operations.ArtifactDiagnostics,
		operations.ArtifactProfitPercentage,
		operations.ArtifactCategoryMargins,
		operations.ArtifactMonthlyProfit,
		operations.ArtifactCostVsProfit,
		operations.ArtifactUnitPriceVsQuantity,
		operations.ArtifactTopCategories,
		operations.ArtifactDeliveryStats,
		operations.ArtifactLoyalCustomers,
		operations.ArtifactTierDistribution,
	}, sink.ArtifactNames())

	// Eight orders in, eight records out; P9 has no supplier row
	ds := result.Dataset
	require.Equal(t, 8, ds.Len())
	assert.True(t, ds.Derived())
	unmatched := ds.At(6)
	assert.False(t, unmatched.Matched)
	assert.True(t, math.IsNaN(unmatched.Cost))
	assert.True(t, math.IsNaN(unmatched.Profit))

	ds.Each(func(r domain.Record) {
		assert.InDelta(t, r.TotalRetailPrice, r.UnitPrice*float64(r.QuantityOrdered), 1e-9)
	})
	assert.Equal(t, "Silver", ds.At(0).CustomerStatus)
	assert.Equal(t, domain.TierGold, ds.At(1).Tier)

	assert.Equal(t, 8, result.Manifest.Stages[0].Metadata[operations.MetadataKeyRecords])
	assert.Equal(t, 1, result.Manifest.Stages[0].Metadata[operations.MetadataKeyUnmatchedOrders])
}

func TestPipelineProfitabilityChart(t *testing.T) {
	result, _ := runSamplePipeline(t, nil)

	chart := artifact(t, result, operations.ArtifactProfitPercentage).Chart
	require.NotNil(t, chart)
	assert.Equal(t, domain.ChartTypeBar, chart.Type)
	assert.Equal(t, "Product Categories with Highest Profit Percentage", chart.Title)
	assert.Equal(t, []string{"Clothes", "Shoes"}, chart.Categories)
	require.Len(t, chart.Series, 1)
	assert.InDeltaSlice(t, []float64{140, 50}, chart.Series[0].Values, 1e-9)

	margins := artifact(t, result, operations.ArtifactCategoryMargins).Table
	require.NotNil(t, margins)
	assert.False(t, margins.Printed)
	assert.Equal(t, []string{"Clothes", "12.00", "5.00", "140.00", "ranked"}, margins.Rows[0])
}

func TestPipelineMonthlyProfitChart(t *testing.T) {
	result, _ := runSamplePipeline(t, nil)

	chart := artifact(t, result, operations.ArtifactMonthlyProfit).Chart
	require.NotNil(t, chart)
	assert.Equal(t, domain.ChartTypeLine, chart.Type)
	assert.Len(t, chart.Categories, 12)
	require.Len(t, chart.Series, 2)

	y2017, y2018 := chart.Series[0], chart.Series[1]
	assert.Equal(t, "2017", y2017.Name)
	assert.Equal(t, 15.0, y2017.Values[0])
	assert.Equal(t, 20.0, y2017.Values[1])
	assert.True(t, math.IsNaN(y2017.Values[2]))

	assert.Equal(t, "2018", y2018.Name)
	assert.Equal(t, 88.0, y2018.Values[0])
	assert.True(t, math.IsNaN(y2018.Values[1]))
	// The unmatched order's missing profit is skipped
	assert.Equal(t, 60.0, y2018.Values[2])
}

func TestPipelineScatterViews(t *testing.T) {
	result, _ := runSamplePipeline(t, nil)

	costVsProfit := artifact(t, result, operations.ArtifactCostVsProfit).Chart
	require.NotNil(t, costVsProfit)
	assert.Equal(t, domain.ChartTypeScatter, costVsProfit.Type)
	assert.Len(t, costVsProfit.Series[0].X, 7)
	assert.Len(t, costVsProfit.Series[0].Values, 7)

	priceVsQuantity := artifact(t, result, operations.ArtifactUnitPriceVsQuantity).Chart
	require.NotNil(t, priceVsQuantity)
	assert.Len(t, priceVsQuantity.Series[0].X, 8)
}

func TestPipelineTopCategoriesUseLatestYear(t *testing.T) {
	result, _ := runSamplePipeline(t, nil)

	chart := artifact(t, result, operations.ArtifactTopCategories).Chart
	require.NotNil(t, chart)
	assert.Equal(t, "Most Favorite Products in 2018", chart.Title)
	assert.Equal(t, []string{"Clothes", "Shoes"}, chart.Categories)
	assert.Equal(t, []float64{7, 3}, chart.Series[0].Values)
	assert.Equal(t, "0", chart.LabelFormat)
}

func TestPipelineDeliveryTable(t *testing.T) {
	result, _ := runSamplePipeline(t, nil)

	table := artifact(t, result, operations.ArtifactDeliveryStats).Table
	require.NotNil(t, table)
	assert.True(t, table.Printed)
	assert.Equal(t, []string{"Month", "order_to_delivery_length", "the_longest_order_to_delivery_length"}, table.Headers)
	assert.Equal(t, [][]string{
		{"1", "2.5", "9"},
		{"2", "", ""},
		{"3", "5.5", "8"},
	}, table.Rows)
}

func TestPipelineLoyalCustomers(t *testing.T) {
	tests := []struct {
		name      string
		selection string
		months    string
		orders    string
	}{
		{"busiest months", "busiest", "Months: 2017-01, 2018-01, 2018-03", "5"},
		{"latest months", "latest", "Months: 2017-02, 2018-01, 2018-03", "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := runSamplePipeline(t, func(cfg *operations.StageConfig) {
				cfg.MonthSelection = analyticsSelection(tt.selection)
			})

			table := artifact(t, result, operations.ArtifactLoyalCustomers).Table
			require.NotNil(t, table)
			assert.True(t, table.Printed)
			assert.Equal(t, "Total active loyal customers: 1", table.Title)
			assert.Equal(t, tt.months, table.Notes[0])
			assert.Equal(t, [][]string{{"C1", tt.orders, "Platinum"}}, table.Rows)

			pie := artifact(t, result, operations.ArtifactTierDistribution).Chart
			require.NotNil(t, pie)
			assert.Equal(t, domain.ChartTypePie, pie.Type)
			assert.Equal(t, []string{"Platinum"}, pie.Categories)
			assert.True(t, pie.ShowPercent)
			assert.True(t, pie.ShowLegend)
		})
	}
}

func TestPipelineNoLoyalCustomersSkipsPie(t *testing.T) {
	logger, logs := logcapture.NewTestLogger(nil)
	result, sink := runSamplePipelineWithLogger(t, func(cfg *operations.StageConfig) {
		cfg.LoyalMinOrders = 10
	}, logger)

	table := artifact(t, result, operations.ArtifactLoyalCustomers).Table
	require.NotNil(t, table)
	assert.Equal(t, "Total active loyal customers: 0", table.Title)
	assert.Empty(t, table.Rows)
	assert.NotContains(t, sink.ArtifactNames(), operations.ArtifactTierDistribution)
	logcapture.AssertLogged(t, logs, slog.LevelWarn, "No loyal customers")
}

func TestPipelineWarnsAboutUnmatchedOrders(t *testing.T) {
	logger, logs := logcapture.NewTestLogger(nil)
	_, _ = runSamplePipelineWithLogger(t, nil, logger)

	rec := logcapture.AssertLogged(t, logs, slog.LevelWarn, "Orders without a supplier row")
	assert.Equal(t, "load_join", rec.Attrs["stage"])
	logcapture.AssertNotLogged(t, logs, slog.LevelError)
}

func TestAnalysisStagesRequireDerivedDataset(t *testing.T) {
	raw := domain.NewDataset([]domain.Record{{Order: domain.Order{OrderID: "1"}}})
	cfg := operations.DefaultStageConfig()

	for _, step := range operations.NewPipelineStages(cfg, quietLogger())[2:] {
		t.Run(step.ID(), func(t *testing.T) {
			_, err := step.Execute(context.Background(), operations.StepInput{Dataset: raw})
			testutil.AssertErrorType(t, err, operations.ErrorTypeValidation)
		})
	}
}

func TestLoadJoinMissingFile(t *testing.T) {
	cfg := operations.DefaultStageConfig()
	cfg.OrdersPath = t.TempDir() + "/missing.csv"
	cfg.ProductsPath = t.TempDir() + "/also-missing.csv"

	registry, err := operations.NewPipelineRegistry(cfg, quietLogger())
	require.NoError(t, err)
	manager := operations.NewManager(registry, nil, nil, nil, quietLogger())

	result, err := manager.Execute(context.Background(), operations.RunRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.Equal(t, operations.StageIDLoadJoin, operations.FailedStep(err))
	testutil.AssertStepStatus(t, result.State, operations.StageIDLoyalCustomers, operations.StepStatusSkipped)
}

func TestLoadJoinHeaderOnlyOrders(t *testing.T) {
	dir := t.TempDir()
	cfg := operations.DefaultStageConfig()
	cfg.OrdersPath = testutil.CreateCSVFile(t, dir, "orders.csv", testutil.OrdersHeader, nil)
	cfg.ProductsPath = testutil.CreateCSVFile(t, dir, "products.csv", testutil.ProductsHeader, testutil.SampleProducts)

	_, err := operations.NewLoadJoinStage(cfg, quietLogger()).Execute(context.Background(), operations.StepInput{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNoData)
}

func analyticsSelection(s string) analytics.MonthSelection {
	return analytics.MonthSelection(s)
}
