package config

// Application constants
const (
	AppName    = "ecomreport"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. ECOM_LOGGING_LEVEL
	EnvPrefix = "ECOM"

	// Input files read from the working directory by default
	DefaultOrdersFile   = "orders.csv"
	DefaultProductsFile = "product_supplier.csv"

	// DefaultDateLayout matches dates such as 01-Jan-17 and 1-Jan-17
	DefaultDateLayout = "2-Jan-06"

	// Output artifacts
	DefaultOutputDir    = "report"
	DefaultWorkbookFile = "ecommerce_report.xlsx"
	ManifestFileName    = "manifest.json"
	MetricsFileName     = "metrics.prom"
	DefaultLogFile      = "logs/ecomreport.log"

	// Analysis defaults
	DefaultTopProfitCategories = 5
	DefaultTopVolumeCategories = 3
	DefaultLoyalMonths         = 3
	DefaultLoyalMinOrders      = 3

	MonthSelectionBusiest = "busiest"
	MonthSelectionLatest  = "latest"

	ProfitModeUnit  = "unit"
	ProfitModeOrder = "order"
)
