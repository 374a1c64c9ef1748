package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains every file system location used by a run.
// Relative paths are resolved against the working directory.
type Paths struct {
	WorkDir string

	// Inputs
	OrdersFile   string
	ProductsFile string

	// Outputs
	OutputDir    string
	WorkbookFile string
	ManifestFile string
	MetricsFile  string
	LogFile      string
}

// ResolvePaths resolves the configured locations. An empty workDir means
// the current working directory.
func ResolvePaths(cfg *Config, workDir string) (*Paths, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %v", err)
		}
		workDir = wd
	}

	outputDir := resolve(workDir, cfg.Output.Dir)

	return &Paths{
		WorkDir:      workDir,
		OrdersFile:   resolve(workDir, cfg.Inputs.OrdersFile),
		ProductsFile: resolve(workDir, cfg.Inputs.ProductsFile),
		OutputDir:    outputDir,
		WorkbookFile: resolve(outputDir, cfg.Output.WorkbookFile),
		ManifestFile: filepath.Join(outputDir, ManifestFileName),
		MetricsFile:  filepath.Join(outputDir, MetricsFileName),
		LogFile:      resolve(workDir, cfg.Logging.FilePath),
	}, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// EnsureDirectories creates the output directory if it doesn't exist
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", p.OutputDir, err)
	}
	slog.Debug("Ensured directory exists", slog.String("directory", p.OutputDir))
	return nil
}

// GetOutputPath returns the path of an artifact file inside the output directory
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ValidateRequiredFiles checks that both input tables exist
func (p *Paths) ValidateRequiredFiles() error {
	requiredFiles := []struct {
		name string
		path string
	}{
		{"orders", p.OrdersFile},
		{"products", p.ProductsFile},
	}

	var missingFiles []string
	for _, f := range requiredFiles {
		if !FileExists(f.path) {
			missingFiles = append(missingFiles, fmt.Sprintf("%s (%s)", f.name, f.path))
		}
	}

	if len(missingFiles) > 0 {
		return fmt.Errorf("required files missing: %s", strings.Join(missingFiles, ", "))
	}

	return nil
}

// LogPathResolution logs path resolution information for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("Path resolution summary",
		slog.String("work_dir", p.WorkDir),
		slog.Group("inputs",
			slog.String("orders", p.OrdersFile),
			slog.String("products", p.ProductsFile),
		),
		slog.Group("outputs",
			slog.String("dir", p.OutputDir),
			slog.String("workbook", p.WorkbookFile),
			slog.String("manifest", p.ManifestFile),
			slog.String("metrics", p.MetricsFile),
		))
}
