package exporter

import (
	"math"
	"strconv"

	"ecomreport/pkg/contracts/domain"
)

// formatNumber renders a value in its shortest exact form. Missing values
// render as an empty cell.
func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Grid flattens an artifact into a header row and data rows. Tables are
// returned as-is; charts list their categories or points with one column
// per series.
func Grid(a domain.Artifact) ([]string, [][]string) {
	switch {
	case a.Table != nil:
		return a.Table.Headers, a.Table.Rows
	case a.Chart != nil:
		return chartGrid(a.Chart)
	default:
		return nil, nil
	}
}

func chartGrid(c *domain.Chart) ([]string, [][]string) {
	if c.Type == domain.ChartTypeScatter {
		return scatterGrid(c)
	}

	label := c.XLabel
	if label == "" {
		label = "Category"
	}
	headers := []string{label}
	for _, s := range c.Series {
		headers = append(headers, s.Name)
	}

	rows := make([][]string, len(c.Categories))
	for i, category := range c.Categories {
		row := []string{category}
		for _, s := range c.Series {
			v := math.NaN()
			if i < len(s.Values) {
				v = s.Values[i]
			}
			row = append(row, formatNumber(v))
		}
		rows[i] = row
	}
	return headers, rows
}

// scatterGrid lists the points of the first series as x, y pairs
func scatterGrid(c *domain.Chart) ([]string, [][]string) {
	headers := []string{c.XLabel, c.YLabel}
	if len(c.Series) == 0 {
		return headers, nil
	}

	s := c.Series[0]
	rows := make([][]string, 0, len(s.Values))
	for i, y := range s.Values {
		x := math.NaN()
		if i < len(s.X) {
			x = s.X[i]
		}
		rows = append(rows, []string{formatNumber(x), formatNumber(y)})
	}
	return headers, rows
}
