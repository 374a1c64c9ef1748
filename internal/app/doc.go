// Package app wires one report run together.
//
// NewApplication loads the configuration, applies command-line overrides,
// resolves paths and sets up logging and OpenTelemetry. It then registers
// the pipeline stages and connects the exporters chosen in the config.
// Run executes the pipeline and writes the workbook, the metrics textfile and
// the manifest. Close flushes telemetry and releases open files.
//
// Errors are returned to the caller; the package never calls os.Exit.
//
//	a, err := app.NewApplication(ctx, app.Options{OutputDir: "report"})
//	if err != nil {
//	    return err
//	}
//	defer a.Close(ctx)
//	_, err = a.Run(ctx)
package app
