package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Inputs    InputsConfig    `yaml:"inputs" envconfig:"INPUTS"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputsConfig locates the two input tables
type InputsConfig struct {
	OrdersFile   string `yaml:"orders_file" envconfig:"ORDERS_FILE" validate:"required"`
	ProductsFile string `yaml:"products_file" envconfig:"PRODUCTS_FILE" validate:"required"`
	DateLayout   string `yaml:"date_layout" envconfig:"DATE_LAYOUT" validate:"required"`
}

// OutputConfig controls which artifacts are written and where
type OutputConfig struct {
	Dir          string `yaml:"dir" envconfig:"DIR" validate:"required"`
	Format       string `yaml:"format" envconfig:"FORMAT" validate:"oneof=table markdown csv"`
	Workbook     bool   `yaml:"workbook" envconfig:"WORKBOOK"`
	WorkbookFile string `yaml:"workbook_file" envconfig:"WORKBOOK_FILE" validate:"required_if=Workbook true"`
	CSV          bool   `yaml:"csv" envconfig:"CSV"`
	Manifest     bool   `yaml:"manifest" envconfig:"MANIFEST"`
	Metrics      bool   `yaml:"metrics" envconfig:"METRICS"`
}

// AnalysisConfig holds the tunables of the report views
type AnalysisConfig struct {
	TopProfitCategories int    `yaml:"top_profit_categories" envconfig:"TOP_PROFIT_CATEGORIES" validate:"min=1"`
	TopVolumeCategories int    `yaml:"top_volume_categories" envconfig:"TOP_VOLUME_CATEGORIES" validate:"min=1"`
	LoyalMonths         int    `yaml:"loyal_months" envconfig:"LOYAL_MONTHS" validate:"min=1,max=12"`
	LoyalMinOrders      int    `yaml:"loyal_min_orders" envconfig:"LOYAL_MIN_ORDERS" validate:"min=0"`
	MonthSelection      string `yaml:"month_selection" envconfig:"MONTH_SELECTION" validate:"oneof=busiest latest"`
	ProfitMode          string `yaml:"profit_mode" envconfig:"PROFIT_MODE" validate:"oneof=unit order"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// TelemetryConfig toggles OpenTelemetry tracing
type TelemetryConfig struct {
	Tracing     bool   `yaml:"tracing" envconfig:"TRACING"`
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables. An empty configFile searches the usual locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	} else if _, err := os.Stat(configFile); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configFile, err)
	}

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields without a matching variable keep their current value
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file on cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	v := validator.New()
	if err := v.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"ecomreport.yaml",
		"configs/ecomreport.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Inputs: InputsConfig{
			OrdersFile:   DefaultOrdersFile,
			ProductsFile: DefaultProductsFile,
			DateLayout:   DefaultDateLayout,
		},
		Output: OutputConfig{
			Dir:          DefaultOutputDir,
			Format:       "table",
			Workbook:     true,
			WorkbookFile: DefaultWorkbookFile,
			CSV:          true,
			Manifest:     true,
			Metrics:      false,
		},
		Analysis: AnalysisConfig{
			TopProfitCategories: DefaultTopProfitCategories,
			TopVolumeCategories: DefaultTopVolumeCategories,
			LoyalMonths:         DefaultLoyalMonths,
			LoyalMinOrders:      DefaultLoyalMinOrders,
			MonthSelection:      MonthSelectionBusiest,
			ProfitMode:          ProfitModeUnit,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			Tracing:     false,
			ServiceName: AppName,
		},
	}
}
