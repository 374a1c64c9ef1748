package operations

import (
	"time"

	"ecomreport/internal/analytics"
	"ecomreport/internal/config"
	"ecomreport/internal/dataprocessing"
)

// DefaultStageTimeout bounds a single stage when no override is set
const DefaultStageTimeout = 5 * time.Minute

// Config represents the pipeline execution configuration
type Config struct {
	// Step-specific timeouts
	StageTimeouts map[string]time.Duration `json:"stage_timeouts"`

	// DefaultTimeout applies to steps without an entry in StageTimeouts
	DefaultTimeout time.Duration `json:"default_timeout"`
}

// NewConfig returns the default pipeline configuration
func NewConfig() *Config {
	return &Config{
		StageTimeouts:  make(map[string]time.Duration),
		DefaultTimeout: DefaultStageTimeout,
	}
}

// GetStageTimeout returns the timeout for a specific Step
func (c *Config) GetStageTimeout(stageID string) time.Duration {
	if timeout, ok := c.StageTimeouts[stageID]; ok && timeout > 0 {
		return timeout
	}
	if c.DefaultTimeout > 0 {
		return c.DefaultTimeout
	}
	return DefaultStageTimeout
}

// SetStageTimeout sets the timeout for a specific Step
func (c *Config) SetStageTimeout(stageID string, timeout time.Duration) {
	if c.StageTimeouts == nil {
		c.StageTimeouts = make(map[string]time.Duration)
	}
	c.StageTimeouts[stageID] = timeout
}

// StageConfig carries the settings the report steps are built from
type StageConfig struct {
	OrdersPath   string
	ProductsPath string
	DateLayout   string

	ProfitMode          dataprocessing.ProfitMode
	TopProfitCategories int
	TopVolumeCategories int
	LoyalMonths         int
	LoyalMinOrders      int
	MonthSelection      analytics.MonthSelection
}

// NewStageConfig derives the step settings from the application config
func NewStageConfig(cfg *config.Config, paths *config.Paths) StageConfig {
	sc := StageConfig{
		OrdersPath:          cfg.Inputs.OrdersFile,
		ProductsPath:        cfg.Inputs.ProductsFile,
		DateLayout:          cfg.Inputs.DateLayout,
		ProfitMode:          dataprocessing.ProfitMode(cfg.Analysis.ProfitMode),
		TopProfitCategories: cfg.Analysis.TopProfitCategories,
		TopVolumeCategories: cfg.Analysis.TopVolumeCategories,
		LoyalMonths:         cfg.Analysis.LoyalMonths,
		LoyalMinOrders:      cfg.Analysis.LoyalMinOrders,
		MonthSelection:      analytics.MonthSelection(cfg.Analysis.MonthSelection),
	}
	if paths != nil {
		sc.OrdersPath = paths.OrdersFile
		sc.ProductsPath = paths.ProductsFile
	}
	return sc
}

// DefaultStageConfig returns the step settings for files in the working directory
func DefaultStageConfig() StageConfig {
	return NewStageConfig(config.Default(), nil)
}
