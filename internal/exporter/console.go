package exporter

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"ecomreport/pkg/contracts/domain"
)

// Console output formats
const (
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// ConsolePrinter writes printed tables to a terminal
type ConsolePrinter struct {
	w      io.Writer
	format string
}

// NewConsolePrinter creates a printer writing to w in format
func NewConsolePrinter(w io.Writer, format string) *ConsolePrinter {
	if format == "" {
		format = FormatTable
	}
	return &ConsolePrinter{w: w, format: format}
}

// Emit prints every artifact marked as printed
func (p *ConsolePrinter) Emit(_ context.Context, _ string, artifacts []domain.Artifact) error {
	for _, a := range artifacts {
		if a.Table == nil || !a.Table.Printed {
			continue
		}
		if err := p.Print(a.Table); err != nil {
			return fmt.Errorf("failed to print %s: %w", a.Name, err)
		}
	}
	return nil
}

// Print writes the title, notes and rows of t
func (p *ConsolePrinter) Print(t *domain.Table) error {
	if t.Title != "" {
		if _, err := fmt.Fprintln(p.w, t.Title); err != nil {
			return err
		}
	}
	for _, note := range t.Notes {
		if _, err := fmt.Fprintln(p.w, note); err != nil {
			return err
		}
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(p.w)
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, r := range t.Rows {
		row := make(table.Row, len(r))
		for i, cell := range r {
			row[i] = cell
		}
		tw.AppendRow(row)
	}

	switch p.format {
	case FormatMarkdown:
		tw.RenderMarkdown()
	case FormatCSV:
		tw.RenderCSV()
	default:
		tw.Render()
	}

	_, err := fmt.Fprintln(p.w)
	return err
}
