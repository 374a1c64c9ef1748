package operations

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"ecomreport/internal/analytics"
	"ecomreport/internal/dataprocessing"
	apperrors "ecomreport/internal/errors"
	"ecomreport/pkg/contracts/domain"
)

// NewPipelineStages builds the report steps in execution order
func NewPipelineStages(cfg StageConfig, logger *slog.Logger) []Step {
	if logger == nil {
		logger = slog.Default()
	}
	stageLogger := func(id string) *slog.Logger {
		return logger.With(slog.String("stage", id))
	}
	return []Step{
		NewLoadJoinStage(cfg, stageLogger(StageIDLoadJoin)),
		NewNormalizeStage(cfg, stageLogger(StageIDNormalizeStatus)),
		NewCategoryProfitabilityStage(cfg, stageLogger(StageIDCategoryProfitability)),
		NewMonthlyProfitStage(),
		NewRelationshipsStage(),
		NewTopCategoriesStage(cfg),
		NewDeliveryStatsStage(stageLogger(StageIDDeliveryStats)),
		NewLoyalCustomersStage(cfg, stageLogger(StageIDLoyalCustomers)),
	}
}

// NewPipelineRegistry registers the report steps in execution order
func NewPipelineRegistry(cfg StageConfig, logger *slog.Logger) (*Registry, error) {
	registry := NewRegistry()
	if err := registry.RegisterAll(NewPipelineStages(cfg, logger)...); err != nil {
		return nil, err
	}
	return registry, nil
}

// requireDerived rejects input that has not been through normalize_status
func requireDerived(stageID string, in StepInput) error {
	if !in.Dataset.Derived() {
		return NewValidationError(stageID, "dataset has no derived columns")
	}
	return nil
}

// formatFloat renders v with prec decimals; a negative prec uses the
// shortest exact form. Missing values render as an empty string.
func formatFloat(v float64, prec int) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// LoadJoinStage reads both input tables and left-joins them on Product ID
type LoadJoinStage struct {
	BaseStage
	loader *dataprocessing.Loader
	logger *slog.Logger
}

// NewLoadJoinStage creates the load and join step
func NewLoadJoinStage(cfg StageConfig, logger *slog.Logger) *LoadJoinStage {
	return &LoadJoinStage{
		BaseStage: NewBaseStage(StageIDLoadJoin, StageNameLoadJoin),
		loader:    dataprocessing.NewLoader(cfg.OrdersPath, cfg.ProductsPath, cfg.DateLayout, logger),
		logger:    logger,
	}
}

// Execute loads the tables, joins them and runs the data-quality checks
func (s *LoadJoinStage) Execute(ctx context.Context, _ StepInput) (*StepOutput, error) {
	tables, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	ds, join := dataprocessing.Join(tables)
	if ds.Len() == 0 {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("%s has no data rows", s.loader.OrdersPath), apperrors.ErrNoData)
	}

	if join.UnmatchedOrders > 0 {
		s.logger.WarnContext(ctx, "Orders without a supplier row",
			slog.Int("orders", join.UnmatchedOrders),
			slog.Any("product_ids", join.UnmatchedProductIDs))
	}
	if len(join.DuplicateProductIDs) > 0 {
		s.logger.WarnContext(ctx, "Duplicate product IDs in supplier table, keeping first",
			slog.Any("product_ids", join.DuplicateProductIDs))
	}
	if join.CostSource == dataprocessing.CostUnavailable {
		s.logger.WarnContext(ctx, "No Cost Price Per Unit column in either table")
	}

	diag := dataprocessing.Diagnose(ds, join)
	if !diag.Clean() {
		s.logger.InfoContext(ctx, "Data quality checks found issues",
			slog.Int("duplicate_order_ids", diag.DuplicateOrderIDs),
			slog.Int("negative_deliveries", diag.NegativeDeliveries))
	}

	return &StepOutput{
		Dataset:   &ds,
		Artifacts: []domain.Artifact{domain.NewTableArtifact(ArtifactDiagnostics, diag.Table())},
		Metadata: map[string]interface{}{
			MetadataKeyRecords:         ds.Len(),
			MetadataKeyUnmatchedOrders: join.UnmatchedOrders,
			MetadataKeyCostSource:      join.CostSource,
		},
	}, nil
}

// NormalizeStage capitalizes Customer Status and derives the computed columns
type NormalizeStage struct {
	BaseStage
	mode   dataprocessing.ProfitMode
	logger *slog.Logger
}

// NewNormalizeStage creates the normalization step
func NewNormalizeStage(cfg StageConfig, logger *slog.Logger) *NormalizeStage {
	return &NormalizeStage{
		BaseStage: NewBaseStage(StageIDNormalizeStatus, StageNameNormalizeStatus),
		mode:      cfg.ProfitMode,
		logger:    logger,
	}
}

// Execute returns a new dataset with derived columns populated
func (s *NormalizeStage) Execute(ctx context.Context, in StepInput) (*StepOutput, error) {
	if in.Dataset.Len() == 0 {
		return nil, NewValidationError(s.ID(), "no joined records")
	}

	ds, report := dataprocessing.Enrich(ctx, in.Dataset, s.mode, s.logger)

	return &StepOutput{
		Dataset: &ds,
		Metadata: map[string]interface{}{
			MetadataKeyRecords:            ds.Len(),
			MetadataKeyUnknownTiers:       report.UnknownTiers,
			MetadataKeyNegativeDeliveries: report.NegativeDeliveries,
		},
	}, nil
}

// CategoryProfitabilityStage ranks categories by median profit percentage
type CategoryProfitabilityStage struct {
	BaseStage
	top    int
	logger *slog.Logger
}

// NewCategoryProfitabilityStage creates the profitability step
func NewCategoryProfitabilityStage(cfg StageConfig, logger *slog.Logger) *CategoryProfitabilityStage {
	return &CategoryProfitabilityStage{
		BaseStage: NewBaseStage(StageIDCategoryProfitability, StageNameCategoryProfitability),
		top:       cfg.TopProfitCategories,
		logger:    logger,
	}
}

// Execute produces the profit percentage chart and the full margin table
func (s *CategoryProfitabilityStage) Execute(ctx context.Context, in StepInput) (*StepOutput, error) {
	if err := requireDerived(s.ID(), in); err != nil {
		return nil, err
	}

	categories := analytics.CategoryProfitability(in.Dataset)
	undefined := make([]string, 0)
	for _, c := range analytics.UndefinedCategories(categories) {
		undefined = append(undefined, c.Category)
		s.logger.WarnContext(ctx, "Profit percentage undefined for category",
			slog.String("category", c.Category),
			slog.Float64("median_cost", c.MedianCost),
			slog.String("error", apperrors.ErrZeroCost.Error()))
	}

	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		status := "ranked"
		switch {
		case c.Undefined:
			status = "undefined"
		case !c.Ranked():
			status = "missing cost"
		}
		rows = append(rows, []string{
			c.Category,
			formatFloat(c.MedianUnitPrice, 2),
			formatFloat(c.MedianCost, 2),
			formatFloat(c.ProfitPercentage, 2),
			status,
		})
	}
	artifacts := []domain.Artifact{domain.NewTableArtifact(ArtifactCategoryMargins, domain.Table{
		Title:   "Median margin by product category",
		Headers: []string{"Product Category", "median_unit_price", "median_cost", "profit_percentage", "status"},
		Rows:    rows,
	})}

	top := analytics.TopProfitable(categories, s.top)
	if len(top) == 0 {
		s.logger.WarnContext(ctx, "No category has a defined profit percentage, skipping chart")
	} else {
		names := make([]string, len(top))
		values := make([]float64, len(top))
		for i, c := range top {
			names[i] = c.Category
			values[i] = c.ProfitPercentage
		}
		artifacts = append([]domain.Artifact{domain.NewChartArtifact(ArtifactProfitPercentage, domain.Chart{
			Title:       "Product Categories with Highest Profit Percentage",
			Type:        domain.ChartTypeBar,
			XLabel:      "Product Category",
			YLabel:      "Profit Percentage (%)",
			Categories:  names,
			Series:      []domain.Series{{Name: "Profit Percentage", Values: values}},
			LabelFormat: `0.00"%"`,
		})}, artifacts...)
	}

	return &StepOutput{
		Artifacts: artifacts,
		Metadata: map[string]interface{}{
			MetadataKeyUndefined: undefined,
		},
	}, nil
}

// MonthlyProfitStage plots summed profit per month with one line per year
type MonthlyProfitStage struct {
	BaseStage
}

// NewMonthlyProfitStage creates the monthly profit step
func NewMonthlyProfitStage() *MonthlyProfitStage {
	return &MonthlyProfitStage{BaseStage: NewBaseStage(StageIDMonthlyProfit, StageNameMonthlyProfit)}
}

// Execute produces the monthly profit line chart
func (s *MonthlyProfitStage) Execute(_ context.Context, in StepInput) (*StepOutput, error) {
	if err := requireDerived(s.ID(), in); err != nil {
		return nil, err
	}

	trend := analytics.MonthlyProfitTrend(in.Dataset)
	if len(trend) == 0 {
		return nil, apperrors.NewAnalysisError("no monthly profit to plot", apperrors.ErrNoData)
	}

	months := make([]string, 12)
	for i := range months {
		months[i] = strconv.Itoa(i + 1)
	}

	byYear := make(map[int][]float64)
	for _, year := range analytics.Years(trend) {
		values := make([]float64, 12)
		for i := range values {
			values[i] = math.NaN()
		}
		byYear[year] = values
	}
	for _, m := range trend {
		byYear[m.Year][m.Month-1] = m.Profit
	}

	series := make([]domain.Series, 0, len(byYear))
	for _, year := range analytics.Years(trend) {
		series = append(series, domain.Series{Name: strconv.Itoa(year), Values: byYear[year]})
	}

	chart := domain.Chart{
		Title:      "Monthly Profit Over Years",
		Type:       domain.ChartTypeLine,
		XLabel:     "Month",
		YLabel:     "Profit",
		Categories: months,
		Series:     series,
		ShowLegend: true,
	}

	return &StepOutput{
		Artifacts: []domain.Artifact{domain.NewChartArtifact(ArtifactMonthlyProfit, chart)},
		Metadata: map[string]interface{}{
			MetadataKeyMonths: len(trend),
		},
	}, nil
}

// RelationshipsStage produces the two scatter views
type RelationshipsStage struct {
	BaseStage
}

// NewRelationshipsStage creates the scatter view step
func NewRelationshipsStage() *RelationshipsStage {
	return &RelationshipsStage{BaseStage: NewBaseStage(StageIDRelationships, StageNameRelationships)}
}

// Execute produces the cost vs profit and unit price vs quantity charts
func (s *RelationshipsStage) Execute(_ context.Context, in StepInput) (*StepOutput, error) {
	if err := requireDerived(s.ID(), in); err != nil {
		return nil, err
	}

	views := []struct {
		name   string
		xLabel string
		yLabel string
		points []analytics.Point
	}{
		{ArtifactCostVsProfit, "Cost Price Per Unit", "Profit", analytics.CostVsProfit(in.Dataset)},
		{ArtifactUnitPriceVsQuantity, "Unit Price", "Quantity Ordered", analytics.UnitPriceVsQuantity(in.Dataset)},
	}

	artifacts := make([]domain.Artifact, 0, len(views))
	metadata := make(map[string]interface{}, len(views))
	for _, v := range views {
		metadata[v.name] = len(v.points)
		if len(v.points) == 0 {
			continue
		}
		xs := make([]float64, len(v.points))
		ys := make([]float64, len(v.points))
		for i, p := range v.points {
			xs[i], ys[i] = p.X, p.Y
		}
		artifacts = append(artifacts, domain.NewChartArtifact(v.name, domain.Chart{
			Title:  fmt.Sprintf("%s vs %s", v.xLabel, v.yLabel),
			Type:   domain.ChartTypeScatter,
			XLabel: v.xLabel,
			YLabel: v.yLabel,
			Series: []domain.Series{{Name: v.yLabel, X: xs, Values: ys}},
		}))
	}

	return &StepOutput{Artifacts: artifacts, Metadata: metadata}, nil
}

// TopCategoriesStage charts the categories with the most units ordered in
// the latest year
type TopCategoriesStage struct {
	BaseStage
	top int
}

// NewTopCategoriesStage creates the volume ranking step
func NewTopCategoriesStage(cfg StageConfig) *TopCategoriesStage {
	return &TopCategoriesStage{
		BaseStage: NewBaseStage(StageIDTopCategories, StageNameTopCategories),
		top:       cfg.TopVolumeCategories,
	}
}

// Execute produces the volume bar chart
func (s *TopCategoriesStage) Execute(_ context.Context, in StepInput) (*StepOutput, error) {
	if err := requireDerived(s.ID(), in); err != nil {
		return nil, err
	}

	year, volumes, err := analytics.TopCategoriesByVolume(in.Dataset, s.top)
	if err != nil {
		return nil, apperrors.NewAnalysisError("cannot rank categories by volume", err)
	}

	output := &StepOutput{Metadata: map[string]interface{}{MetadataKeyYear: year}}
	if len(volumes) == 0 {
		return output, nil
	}

	names := make([]string, len(volumes))
	values := make([]float64, len(volumes))
	for i, v := range volumes {
		names[i] = v.Category
		values[i] = float64(v.Quantity)
	}
	output.Artifacts = []domain.Artifact{domain.NewChartArtifact(ArtifactTopCategories, domain.Chart{
		Title:       fmt.Sprintf("Most Favorite Products in %d", year),
		Type:        domain.ChartTypeBar,
		XLabel:      "Product Category",
		YLabel:      "Quantity Ordered",
		Categories:  names,
		Series:      []domain.Series{{Name: "Quantity Ordered", Values: values}},
		LabelFormat: "0",
	})}
	return output, nil
}

// DeliveryStatsStage tabulates order-to-delivery lengths per month of the
// latest year
type DeliveryStatsStage struct {
	BaseStage
	logger *slog.Logger
}

// NewDeliveryStatsStage creates the delivery statistics step
func NewDeliveryStatsStage(logger *slog.Logger) *DeliveryStatsStage {
	return &DeliveryStatsStage{
		BaseStage: NewBaseStage(StageIDDeliveryStats, StageNameDeliveryStats),
		logger:    logger,
	}
}

// Execute produces the printed delivery table
func (s *DeliveryStatsStage) Execute(ctx context.Context, in StepInput) (*StepOutput, error) {
	if err := requireDerived(s.ID(), in); err != nil {
		return nil, err
	}

	year, err := analytics.LatestYear(in.Dataset)
	if err != nil {
		return nil, apperrors.NewAnalysisError("cannot find the latest year", err)
	}

	stats := analytics.DeliveryStats(in.Dataset, year)
	rows := make([][]string, 0, len(stats))
	for _, m := range stats {
		if m.Orders == 0 {
			s.logger.DebugContext(ctx, "Month without orders",
				slog.Int("year", year),
				slog.Int("month", int(m.Month)))
		}
		rows = append(rows, []string{
			strconv.Itoa(int(m.Month)),
			formatFloat(m.Median, 1),
			formatFloat(m.Longest, -1),
		})
	}

	table := domain.Table{
		Title:   "The order-to-delivery length of every month in the latest year:",
		Notes:   []string{fmt.Sprintf("Year: %d", year)},
		Headers: []string{"Month", "order_to_delivery_length", "the_longest_order_to_delivery_length"},
		Rows:    rows,
		Printed: true,
	}

	return &StepOutput{
		Artifacts: []domain.Artifact{domain.NewTableArtifact(ArtifactDeliveryStats, table)},
		Metadata:  map[string]interface{}{MetadataKeyYear: year},
	}, nil
}

// LoyalCustomersStage finds repeat customers in the selected months and
// charts their tiers
type LoyalCustomersStage struct {
	BaseStage
	months    int
	minOrders int
	selection analytics.MonthSelection
	logger    *slog.Logger
}

// NewLoyalCustomersStage creates the loyalty step
func NewLoyalCustomersStage(cfg StageConfig, logger *slog.Logger) *LoyalCustomersStage {
	return &LoyalCustomersStage{
		BaseStage: NewBaseStage(StageIDLoyalCustomers, StageNameLoyalCustomers),
		months:    cfg.LoyalMonths,
		minOrders: cfg.LoyalMinOrders,
		selection: cfg.MonthSelection,
		logger:    logger,
	}
}

// Execute produces the printed loyal customer list and the tier pie chart
func (s *LoyalCustomersStage) Execute(ctx context.Context, in StepInput) (*StepOutput, error) {
	if err := requireDerived(s.ID(), in); err != nil {
		return nil, err
	}

	months, err := analytics.SelectMonths(in.Dataset, s.months, s.selection)
	if err != nil {
		return nil, NewValidationError(s.ID(), err.Error())
	}
	loyalty := analytics.LoyalCustomers(in.Dataset, months, s.minOrders)

	window := make([]string, len(months))
	for i, m := range months {
		window[i] = m.String()
	}
	s.logger.InfoContext(ctx, "Loyalty window selected",
		slog.String("selection", string(s.selection)),
		slog.String("months", strings.Join(window, ",")),
		slog.Int("loyal_customers", len(loyalty.Customers)))

	rows := make([][]string, len(loyalty.Customers))
	for i, c := range loyalty.Customers {
		rows[i] = []string{c.CustomerID, strconv.Itoa(c.Orders), c.Tier.String()}
	}

	artifacts := []domain.Artifact{domain.NewTableArtifact(ArtifactLoyalCustomers, domain.Table{
		Title: fmt.Sprintf("Total active loyal customers: %d", len(loyalty.Customers)),
		Notes: []string{
			"Months: " + strings.Join(window, ", "),
			"Customer ID of active loyal customer:",
		},
		Headers: []string{"Customer ID", "Orders", "Customer Status"},
		Rows:    rows,
		Printed: true,
	})}

	if len(loyalty.Tiers) == 0 {
		s.logger.WarnContext(ctx, "No loyal customers, skipping tier chart")
	} else {
		labels := make([]string, len(loyalty.Tiers))
		counts := make([]float64, len(loyalty.Tiers))
		for i, t := range loyalty.Tiers {
			labels[i] = t.Tier.String()
			counts[i] = float64(t.Customers)
		}
		artifacts = append(artifacts, domain.NewChartArtifact(ArtifactTierDistribution, domain.Chart{
			Title:       "Proportion of Status Among Loyal Customers",
			Type:        domain.ChartTypePie,
			Categories:  labels,
			Series:      []domain.Series{{Name: "Customers", Values: counts}},
			LabelFormat: "0.0%",
			ShowPercent: true,
			ShowLegend:  true,
		}))
	}

	return &StepOutput{
		Artifacts: artifacts,
		Metadata: map[string]interface{}{
			MetadataKeyMonths:         window,
			MetadataKeyLoyalCustomers: len(loyalty.Customers),
		},
	}, nil
}

// compile-time checks
var (
	_ Step = (*LoadJoinStage)(nil)
	_ Step = (*NormalizeStage)(nil)
	_ Step = (*CategoryProfitabilityStage)(nil)
	_ Step = (*MonthlyProfitStage)(nil)
	_ Step = (*RelationshipsStage)(nil)
	_ Step = (*TopCategoriesStage)(nil)
	_ Step = (*DeliveryStatsStage)(nil)
	_ Step = (*LoyalCustomersStage)(nil)
)

