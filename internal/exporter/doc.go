// Package exporter writes report artifacts to their destinations.
//
// Every exporter implements the pipeline's artifact sink and is called once
// per stage, in stage order:
//
// ConsolePrinter: prints the tables marked as printed, rendered with
// go-pretty as a boxed table, Markdown or CSV.
//
// CSVWriter: writes each artifact's data to <name>.csv with a UTF-8 BOM for
// Excel compatibility.
//
// Workbook: adds a sheet per artifact to one Excel file. Chart artifacts get
// a native Excel chart next to their data.
//
// Example usage:
//
//	book := exporter.NewWorkbook("report/ecommerce_report.xlsx", logger)
//	defer book.Close()
//	sink := operations.MultiSink{exporter.NewConsolePrinter(os.Stdout, "table"), book}
//	// ... run the pipeline with sink ...
//	err := book.Save()
package exporter
