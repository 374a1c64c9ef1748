package domain

// ArtifactKind identifies what a stage produced
type ArtifactKind string

const (
	ArtifactKindChart ArtifactKind = "chart"
	ArtifactKindTable ArtifactKind = "table"
)

// ChartType defines how a chart is drawn
type ChartType string

const (
	ChartTypeBar     ChartType = "bar"
	ChartTypeLine    ChartType = "line"
	ChartTypeScatter ChartType = "scatter"
	ChartTypePie     ChartType = "pie"
)

// Artifact is a named output of a pipeline stage. Exactly one of Chart or
// Table is set, matching Kind.
type Artifact struct {
	Name  string       `json:"name"`
	Kind  ArtifactKind `json:"kind"`
	Chart *Chart       `json:"chart,omitempty"`
	Table *Table       `json:"table,omitempty"`
}

// Chart describes a static chart independently of the renderer
type Chart struct {
	Title  string    `json:"title"`
	Type   ChartType `json:"type"`
	XLabel string    `json:"x_label,omitempty"`
	YLabel string    `json:"y_label,omitempty"`

	// Categories holds the x-axis labels for bar, line and pie charts
	Categories []string `json:"categories,omitempty"`
	Series     []Series `json:"series"`

	// LabelFormat is an Excel number format for data labels; empty hides
	// value labels.
	LabelFormat string `json:"label_format,omitempty"`
	ShowPercent bool   `json:"show_percent,omitempty"`
	ShowLegend  bool   `json:"show_legend"`
}

// Series is one set of values in a chart. X is only used by scatter charts.
type Series struct {
	Name   string    `json:"name"`
	X      []float64 `json:"x,omitempty"`
	Values []float64 `json:"values"`
}

// Table is a printed or exported tabular result
type Table struct {
	Title   string     `json:"title"`
	Notes   []string   `json:"notes,omitempty"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`

	// Printed tables are written to standard output as well as exported
	Printed bool `json:"printed"`
}

// NewChartArtifact wraps a chart
func NewChartArtifact(name string, chart Chart) Artifact {
	return Artifact{Name: name, Kind: ArtifactKindChart, Chart: &chart}
}

// NewTableArtifact wraps a table
func NewTableArtifact(name string, table Table) Artifact {
	return Artifact{Name: name, Kind: ArtifactKindTable, Table: &table}
}
