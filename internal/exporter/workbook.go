package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"

	"github.com/xuri/excelize/v2"

	"ecomreport/pkg/contracts/domain"
)

const (
	// maxSheetName is Excel's sheet name limit
	maxSheetName = 31
	// defaultSheet is created by excelize.NewFile and dropped on save
	defaultSheet = "Sheet1"
)

var chartTypes = map[domain.ChartType]excelize.ChartType{
	domain.ChartTypeBar:     excelize.Col,
	domain.ChartTypeLine:    excelize.Line,
	domain.ChartTypeScatter: excelize.Scatter,
	domain.ChartTypePie:     excelize.Pie,
}

// Workbook collects every artifact into one Excel file: a sheet per
// artifact, holding its data and, for charts, a native Excel chart.
type Workbook struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	file   *excelize.File
	sheets []string
}

// NewWorkbook creates an empty workbook that will be saved to path
func NewWorkbook(path string, logger *slog.Logger) *Workbook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workbook{
		path:   path,
		logger: logger,
		file:   excelize.NewFile(),
	}
}

// Path returns where the workbook is saved
func (w *Workbook) Path() string {
	return w.path
}

// Sheets returns the sheet names in the order they were added
func (w *Workbook) Sheets() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.sheets))
	copy(out, w.sheets)
	return out
}

// Emit adds one sheet per artifact
func (w *Workbook) Emit(ctx context.Context, _ string, artifacts []domain.Artifact) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, a := range artifacts {
		sheet, err := w.addSheet(a.Name)
		if err != nil {
			return err
		}

		switch {
		case a.Chart != nil:
			err = w.writeChart(sheet, a.Chart)
		case a.Table != nil:
			err = w.writeTable(sheet, a.Table)
		}
		if err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", sheet, err)
		}

		w.logger.DebugContext(ctx, "Added workbook sheet",
			slog.String("artifact", a.Name),
			slog.String("sheet", sheet),
			slog.String("kind", string(a.Kind)))
	}
	return nil
}

// Save writes the workbook to disk. The first added sheet is the active one.
func (w *Workbook) Save() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.sheets) == 0 {
		return fmt.Errorf("workbook has no sheets")
	}
	if err := w.file.DeleteSheet(defaultSheet); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	if idx, err := w.file.GetSheetIndex(w.sheets[0]); err == nil && idx >= 0 {
		w.file.SetActiveSheet(idx)
	}
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", w.path, err)
	}
	return nil
}

// Close releases the workbook
func (w *Workbook) Close() error {
	return w.file.Close()
}

// addSheet creates a uniquely named sheet for an artifact
func (w *Workbook) addSheet(name string) (string, error) {
	base := sheetName(name)
	sheet := base
	for n := 2; w.hasSheet(sheet); n++ {
		suffix := "_" + strconv.Itoa(n)
		sheet = truncate(base, maxSheetName-len(suffix)) + suffix
	}

	if _, err := w.file.NewSheet(sheet); err != nil {
		return "", fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	w.sheets = append(w.sheets, sheet)
	return sheet, nil
}

func (w *Workbook) hasSheet(name string) bool {
	if name == defaultSheet {
		return true
	}
	for _, s := range w.sheets {
		if s == name {
			return true
		}
	}
	return false
}

func (w *Workbook) writeTable(sheet string, t *domain.Table) error {
	if err := w.writeRow(sheet, 1, t.Headers); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := w.writeRow(sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) writeRow(sheet string, row int, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return w.file.SetSheetRow(sheet, cell, &cells)
}

// writeChart lays out the chart data from A1 and anchors the chart to the
// right of it
func (w *Workbook) writeChart(sheet string, c *domain.Chart) error {
	chartType, ok := chartTypes[c.Type]
	if !ok {
		return fmt.Errorf("unsupported chart type %q", c.Type)
	}

	var (
		series []excelize.ChartSeries
		cols   int
		err    error
	)
	if c.Type == domain.ChartTypeScatter {
		series, cols, err = w.writeScatterData(sheet, c)
	} else {
		series, cols, err = w.writeCategoryData(sheet, c)
	}
	if err != nil {
		return err
	}

	anchor, err := excelize.CoordinatesToCellName(cols+2, 2)
	if err != nil {
		return err
	}

	chart := &excelize.Chart{
		Type:      chartType,
		Series:    series,
		Title:     []excelize.RichTextRun{{Text: c.Title}},
		Dimension: excelize.ChartDimension{Width: 720, Height: 400},
		Legend:    excelize.ChartLegend{Position: "none"},
		PlotArea: excelize.ChartPlotArea{
			ShowVal:     c.LabelFormat != "" && !c.ShowPercent,
			ShowPercent: c.ShowPercent,
		},
		ShowBlanksAs: "gap",
	}
	if c.LabelFormat != "" {
		chart.PlotArea.NumFmt = excelize.ChartNumFmt{CustomNumFmt: c.LabelFormat}
	}
	if c.ShowLegend {
		chart.Legend.Position = "right"
	}
	if c.Type != domain.ChartTypePie {
		chart.XAxis.Title = []excelize.RichTextRun{{Text: c.XLabel}}
		chart.YAxis.Title = []excelize.RichTextRun{{Text: c.YLabel}}
	}

	return w.file.AddChart(sheet, anchor, chart)
}

// writeCategoryData writes categories in column A and one column per series
func (w *Workbook) writeCategoryData(sheet string, c *domain.Chart) ([]excelize.ChartSeries, int, error) {
	header := c.XLabel
	if header == "" {
		header = "Category"
	}
	if err := w.file.SetCellValue(sheet, "A1", header); err != nil {
		return nil, 0, err
	}
	for i, category := range c.Categories {
		if err := w.file.SetCellValue(sheet, cellName(1, i+2), category); err != nil {
			return nil, 0, err
		}
	}

	last := len(c.Categories) + 1
	series := make([]excelize.ChartSeries, 0, len(c.Series))
	for j, s := range c.Series {
		col := j + 2
		if err := w.file.SetCellValue(sheet, cellName(col, 1), s.Name); err != nil {
			return nil, 0, err
		}
		for i := range c.Categories {
			if i >= len(s.Values) || math.IsNaN(s.Values[i]) {
				continue
			}
			if err := w.file.SetCellValue(sheet, cellName(col, i+2), s.Values[i]); err != nil {
				return nil, 0, err
			}
		}

		cs := excelize.ChartSeries{
			Name:       absRef(sheet, col, 1, col, 1),
			Categories: absRef(sheet, 1, 2, 1, last),
			Values:     absRef(sheet, col, 2, col, last),
		}
		if c.Type == domain.ChartTypeLine {
			cs.Marker = excelize.ChartMarker{Symbol: "circle", Size: 5}
		}
		series = append(series, cs)
	}
	return series, len(c.Series) + 1, nil
}

// writeScatterData writes x and y columns for the first series
func (w *Workbook) writeScatterData(sheet string, c *domain.Chart) ([]excelize.ChartSeries, int, error) {
	if len(c.Series) == 0 {
		return nil, 0, fmt.Errorf("scatter chart has no series")
	}
	s := c.Series[0]

	if err := w.file.SetCellValue(sheet, "A1", c.XLabel); err != nil {
		return nil, 0, err
	}
	if err := w.file.SetCellValue(sheet, "B1", c.YLabel); err != nil {
		return nil, 0, err
	}
	for i, y := range s.Values {
		if i >= len(s.X) {
			break
		}
		if err := w.file.SetCellValue(sheet, cellName(1, i+2), s.X[i]); err != nil {
			return nil, 0, err
		}
		if err := w.file.SetCellValue(sheet, cellName(2, i+2), y); err != nil {
			return nil, 0, err
		}
	}

	last := len(s.Values) + 1
	return []excelize.ChartSeries{{
		Name:       absRef(sheet, 2, 1, 2, 1),
		Categories: absRef(sheet, 1, 2, 1, last),
		Values:     absRef(sheet, 2, 2, 2, last),
		Line:       excelize.ChartLine{Type: excelize.ChartLineNone},
		Marker:     excelize.ChartMarker{Symbol: "circle", Size: 5},
	}}, 2, nil
}

// cellName converts 1-based coordinates; they are always in range here
func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// absRef builds an absolute range reference such as 'sheet'!$A$2:$A$9
func absRef(sheet string, col1, row1, col2, row2 int) string {
	from, _ := excelize.CoordinatesToCellName(col1, row1, true)
	to, _ := excelize.CoordinatesToCellName(col2, row2, true)
	if from == to {
		return fmt.Sprintf("'%s'!%s", sheet, from)
	}
	return fmt.Sprintf("'%s'!%s:%s", sheet, from, to)
}

// sheetName makes an artifact name usable as an Excel sheet name
func sheetName(name string) string {
	if name == "" {
		name = "sheet"
	}
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']', '\'':
			r = '_'
		}
		out = append(out, r)
	}
	return truncate(string(out), maxSheetName)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
