package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"ecomreport/internal/exporter"
	"ecomreport/internal/operations"
	"ecomreport/pkg/contracts/domain"
)

func newStagesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stages",
		Short: "List the pipeline stages in execution order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := &domain.Table{Headers: []string{"#", "ID", "Name"}}
			for i, step := range operations.NewPipelineStages(operations.DefaultStageConfig(), nil) {
				t.Rows = append(t.Rows, []string{strconv.Itoa(i + 1), step.ID(), step.Name()})
			}
			return exporter.NewConsolePrinter(cmd.OutOrStdout(), format).Print(t)
		},
	}

	cmd.Flags().StringVar(&format, "format", exporter.FormatTable, "table format (table|markdown|csv)")
	return cmd
}
