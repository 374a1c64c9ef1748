package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ecomreport/internal/app"
	"ecomreport/internal/exporter"
)

// newRunCmd creates the run command. cfgFile points at the root's --config value.
func newRunCmd(cfgFile *string) *cobra.Command {
	opts := app.Options{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the report pipeline",
		Long: `Load both input tables, join them and run every report stage in order.

The first failing stage stops the run. Outputs produced before the failure
are still written and the manifest records which stage failed.`,
		Example: `  # Read orders.csv and product_supplier.csv from the working directory
  ecomreport run

  # Explicit inputs, Markdown tables
  ecomreport run --orders data/orders.csv --products data/suppliers.csv --format markdown`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.ConfigFile = *cfgFile
			if opts.Stdout == nil {
				opts.Stdout = cmd.OutOrStdout()
			}
			return runReport(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.OrdersFile, "orders", "", "orders table (default: orders.csv)")
	cmd.Flags().StringVar(&opts.ProductsFile, "products", "", "product-supplier table (default: product_supplier.csv)")
	cmd.Flags().StringVar(&opts.OutputDir, "out", "", "output directory (default: report)")
	cmd.Flags().StringVar(&opts.Format, "format", "", "printed table format (table|markdown|csv)")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{exporter.FormatTable, exporter.FormatMarkdown, exporter.FormatCSV}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runReport(ctx context.Context, opts app.Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.NewApplication(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		// Shutdown must outlive a cancelled run context
		_ = a.Close(context.Background())
	}()

	result, err := a.Run(ctx)
	if err != nil {
		return fmt.Errorf("report run %s: %w", result.RunID, err)
	}
	return nil
}
