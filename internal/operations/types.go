package operations

// Pipeline step identifiers, in execution order
const (
	StageIDLoadJoin              = "load_join"
	StageIDNormalizeStatus       = "normalize_status"
	StageIDCategoryProfitability = "category_profitability"
	StageIDMonthlyProfit         = "monthly_profit"
	StageIDRelationships         = "relationships"
	StageIDTopCategories         = "top_categories"
	StageIDDeliveryStats         = "delivery_stats"
	StageIDLoyalCustomers        = "loyal_customers"
)

// Pipeline step names
const (
	StageNameLoadJoin              = "Load & Join"
	StageNameNormalizeStatus       = "Normalize Status"
	StageNameCategoryProfitability = "Profitability by Category"
	StageNameMonthlyProfit         = "Monthly Profit Trend"
	StageNameRelationships         = "Relationship Scatter Views"
	StageNameTopCategories         = "Top Categories by Volume"
	StageNameDeliveryStats         = "Delivery-Time Statistics"
	StageNameLoyalCustomers        = "Loyal-Customer Tiering"
)

// Artifact names. They double as workbook sheet names and CSV file names,
// so they stay short and free of spaces.
const (
	ArtifactDiagnostics         = "diagnostics"
	ArtifactProfitPercentage    = "profit_percentage"
	ArtifactCategoryMargins     = "category_margins"
	ArtifactMonthlyProfit       = "monthly_profit"
	ArtifactCostVsProfit        = "cost_vs_profit"
	ArtifactUnitPriceVsQuantity = "unit_price_vs_quantity"
	ArtifactTopCategories       = "top_categories"
	ArtifactDeliveryStats       = "delivery_stats"
	ArtifactLoyalCustomers      = "loyal_customers"
	ArtifactTierDistribution    = "tier_distribution"
)

// Metadata keys recorded by steps
const (
	MetadataKeyRecords            = "records"
	MetadataKeyUnmatchedOrders    = "unmatched_orders"
	MetadataKeyCostSource         = "cost_source"
	MetadataKeyUnknownTiers       = "unknown_tiers"
	MetadataKeyNegativeDeliveries = "negative_deliveries"
	MetadataKeyUndefined          = "undefined_categories"
	MetadataKeyYear               = "year"
	MetadataKeyMonths             = "months"
	MetadataKeyLoyalCustomers     = "loyal_customers"
)
