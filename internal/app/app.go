package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"ecomreport/internal/config"
	"ecomreport/internal/exporter"
	"ecomreport/internal/infrastructure"
	"ecomreport/internal/operations"
	"ecomreport/internal/validation"
	"ecomreport/pkg/contracts"
)

// Options are the command-line overrides applied on top of the loaded
// configuration. Empty fields keep the configured value.
type Options struct {
	ConfigFile   string
	WorkDir      string
	OrdersFile   string
	ProductsFile string
	OutputDir    string
	Format       string

	// Stdout receives the printed report, Stderr the console logs
	Stdout io.Writer
	Stderr io.Writer
}

// Application wires configuration, logging, telemetry, the pipeline and
// its exporters for a single report run.
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Manager       *operations.Manager

	Console  *exporter.ConsolePrinter
	CSV      *exporter.CSVWriter
	Workbook *exporter.Workbook
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(ctx context.Context, opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := applyOverrides(cfg, opts); err != nil {
		return nil, err
	}

	paths, err := config.ResolvePaths(cfg, opts.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	cfg.Logging.FilePath = paths.LogFile

	logger, err := newLogger(cfg, opts.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version))

	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	if err := validation.NewFileValidator(logger).ValidateOutputDirectory(paths.OutputDir); err != nil {
		return nil, err
	}
	paths.LogPathResolution(logger)

	otelCfg := infrastructure.NewOTelConfig(cfg.Telemetry)
	otelCfg.TraceWriter = opts.Stderr
	providers, err := infrastructure.InitializeOTel(ctx, otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	tracer, err := operations.NewOperationTracer(providers)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize operation tracer: %w", err)
	}

	registry, err := operations.NewPipelineRegistry(operations.NewStageConfig(cfg, paths), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to register stages: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	a.Console = exporter.NewConsolePrinter(stdout, cfg.Output.Format)
	sinks := operations.MultiSink{a.Console}

	if cfg.Output.CSV {
		a.CSV = exporter.NewCSVWriter(paths.OutputDir, logger)
		sinks = append(sinks, a.CSV)
	}
	if cfg.Output.Workbook {
		a.Workbook = exporter.NewWorkbook(paths.WorkbookFile, logger)
		sinks = append(sinks, a.Workbook)
	}

	a.Manager = operations.NewManager(registry, operations.NewConfig(), sinks, tracer, logger)
	return a, nil
}

func applyOverrides(cfg *config.Config, opts Options) error {
	if opts.OrdersFile != "" {
		cfg.Inputs.OrdersFile = opts.OrdersFile
	}
	if opts.ProductsFile != "" {
		cfg.Inputs.ProductsFile = opts.ProductsFile
	}
	if opts.OutputDir != "" {
		cfg.Output.Dir = opts.OutputDir
	}
	if opts.Format != "" {
		cfg.Output.Format = opts.Format
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid command-line options: %w", err)
	}
	return nil
}

func newLogger(cfg *config.Config, stderr io.Writer) (*slog.Logger, error) {
	if stderr == nil {
		return infrastructure.InitializeLogger(cfg.Logging)
	}
	return infrastructure.NewLogger(cfg.Logging, stderr)
}

// Run executes the pipeline once and writes the run outputs. Outputs that
// were produced before a failing stage are still saved.
func (a *Application) Run(ctx context.Context) (*operations.RunResult, error) {
	runID := infrastructure.GenerateRunID()
	ctx = infrastructure.WithRunID(ctx, runID)

	manifest := operations.NewPipelineManifest(runID)
	manifest.SetInput("orders", a.Paths.OrdersFile)
	manifest.SetInput("products", a.Paths.ProductsFile)
	manifest.SetConfig("date_layout", a.Config.Inputs.DateLayout)
	manifest.SetConfig("profit_mode", a.Config.Analysis.ProfitMode)
	manifest.SetConfig("top_profit_categories", a.Config.Analysis.TopProfitCategories)
	manifest.SetConfig("top_volume_categories", a.Config.Analysis.TopVolumeCategories)
	manifest.SetConfig("loyal_months", a.Config.Analysis.LoyalMonths)
	manifest.SetConfig("loyal_min_orders", a.Config.Analysis.LoyalMinOrders)
	manifest.SetConfig("month_selection", a.Config.Analysis.MonthSelection)

	result, runErr := a.Manager.Execute(ctx, operations.RunRequest{ID: runID, Manifest: manifest})

	var errs []error
	if runErr != nil {
		errs = append(errs, runErr)
	}
	if err := a.writeOutputs(ctx, manifest); err != nil {
		errs = append(errs, err)
	}

	return result, errors.Join(errs...)
}

func (a *Application) writeOutputs(ctx context.Context, manifest *operations.PipelineManifest) error {
	if a.CSV != nil {
		for _, f := range a.CSV.Files() {
			manifest.AddOutput(f)
		}
	}

	if a.Workbook != nil && len(a.Workbook.Sheets()) > 0 {
		if err := a.Workbook.Save(); err != nil {
			return operations.NewExportError("workbook", err)
		}
		manifest.AddOutput(a.Workbook.Path())
		a.Logger.InfoContext(ctx, "Saved workbook",
			slog.String("path", a.Workbook.Path()),
			slog.Int("sheets", len(a.Workbook.Sheets())))
	}

	if a.Config.Output.Metrics {
		if err := a.OTelProviders.WriteMetrics(a.Paths.MetricsFile); err != nil {
			return operations.NewExportError("metrics", err)
		}
		manifest.AddOutput(a.Paths.MetricsFile)
	}

	if a.Config.Output.Manifest {
		manifest.AddOutput(a.Paths.ManifestFile)
		if err := manifest.SaveToFile(a.Paths.ManifestFile); err != nil {
			return operations.NewExportError("manifest", err)
		}
	}
	return nil
}

// Close releases the workbook and flushes telemetry
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if a.Workbook != nil {
		if err := a.Workbook.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close workbook: %w", err))
		}
	}
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
