package main

import (
	"github.com/spf13/cobra"

	"ecomreport/pkg/contracts"
)

// newRootCmd creates the root command with every subcommand attached
func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "ecomreport",
		Short: "E-commerce order analysis report",
		Long: `ecomreport joins an orders table with a product-supplier table and
produces the profitability, sales volume, delivery and customer loyalty views.

Printed tables go to standard output, logs to standard error. Charts and
their data are written to an Excel workbook and CSV files in the output
directory.`,
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./ecomreport.yaml)")

	rootCmd.AddCommand(newRunCmd(&cfgFile))
	rootCmd.AddCommand(newStagesCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
