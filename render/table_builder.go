package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spektr-org/cube/engine"
	"github.com/spektr-org/cube/schema"
)

// ============================================================================
// TABLE BUILDER: Produces TableData from cube results
// ============================================================================
// Cells are pre-formatted strings; writers only lay them out.
// ============================================================================

// TableData is a titled grid of formatted cells.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"` // "text", "number"
}

// Headers returns the column labels.
func (t TableData) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Label
	}
	return out
}

// ============================================================================
// ROLLUP / DRILLDOWN TABLES
// ============================================================================

// BuildLevelTable produces one table per rollup or drilldown level.
// op names the operation in the title ("Rollup", "Drilldown").
func BuildLevelTable(op string, level engine.Level, sch schema.Config) TableData {
	columns := make([]Column, 0, len(level.Dimensions)+2)
	for _, d := range level.Dimensions {
		columns = append(columns, Column{Key: d, Label: sch.FieldLabel(d), Type: "text"})
	}
	columns = append(columns,
		Column{
			Key:   "value",
			Label: fmt.Sprintf("%s (%s)", sch.FieldLabel(level.Measure), level.Aggregation.Label()),
			Type:  "number",
		},
		Column{Key: "count", Label: "Count", Type: "number"},
	)

	rows := make([][]string, 0, len(level.Rows))
	for _, r := range level.Rows {
		row := append(r.Key.Strings(), FormatNumber(r.Value), strconv.Itoa(r.Count))
		rows = append(rows, row)
	}

	return TableData{
		Title:   fmt.Sprintf("%s Level %d: %s", op, level.Number, strings.Join(level.Dimensions, " + ")),
		Columns: columns,
		Rows:    rows,
	}
}

// ============================================================================
// SLICE / DICE TABLES
// ============================================================================

// BuildStatsTable produces the per-measure summary of a slice or dice.
func BuildStatsTable(title string, stats []engine.MeasureStats) TableData {
	columns := []Column{
		{Key: "measure", Label: "Measure", Type: "text"},
		{Key: "count", Label: "Count", Type: "number"},
		{Key: "avg", Label: "Average", Type: "number"},
		{Key: "min", Label: "Min", Type: "number"},
		{Key: "max", Label: "Max", Type: "number"},
		{Key: "sum", Label: "Sum", Type: "number"},
	}

	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Measure,
			strconv.Itoa(s.Count),
			FormatNumber(s.Avg),
			FormatNumber(s.Min),
			FormatNumber(s.Max),
			FormatNumber(s.Sum),
		})
	}

	return TableData{Title: title, Columns: columns, Rows: rows}
}

// BuildSampleTable lists the sample records of a slice.
func BuildSampleTable(sample *engine.SampleTable, sch schema.Config) TableData {
	t := TableData{Title: "Sample Records"}
	if sample == nil {
		return t
	}

	for _, c := range sample.Columns {
		t.Columns = append(t.Columns, Column{Key: c, Label: sch.FieldLabel(c), Type: "text"})
	}
	for _, r := range sample.Rows {
		row := make([]string, len(r))
		for i, v := range r {
			row[i] = v.String()
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// BuildDistributionTable lists the dice distribution with percentages.
func BuildDistributionTable(dist *engine.Distribution, sch schema.Config) TableData {
	if dist == nil {
		return TableData{}
	}
	label := sch.FieldLabel(dist.Dimension)

	t := TableData{
		Title: label + " Distribution",
		Columns: []Column{
			{Key: dist.Dimension, Label: label, Type: "text"},
			{Key: "count", Label: "Count", Type: "number"},
			{Key: "percent", Label: "Percentage", Type: "number"},
		},
	}
	for _, s := range dist.Shares {
		t.Rows = append(t.Rows, []string{
			s.Value.String(),
			strconv.Itoa(s.Count),
			strconv.FormatFloat(s.Percent, 'f', 1, 64) + "%",
		})
	}
	return t
}

// ============================================================================
// FORMATTING
// ============================================================================

// FormatNumber prints the shortest representation that round-trips,
// so rounded values show no trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
