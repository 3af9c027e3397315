package engine

// ============================================================================
// CUBE ENGINE TYPES
// ============================================================================
// Records are typed once at load time and read through RecordView.
// Operation results are plain data; rendering lives in the render package.
// ============================================================================

// ============================================================================
// RECORD: Typed data row
// ============================================================================

// RawRow is one source row as produced by a loader: field name → raw text.
type RawRow map[string]string

// Record is a single typed data row.
// Dimensions hold raw and derived labels; Measures hold numeric fields.
type Record struct {
	Dimensions map[string]Value   `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// GROUP: Intermediate grouping result
// ============================================================================

// Group is the set of records sharing one dimension-value tuple.
// View preserves the input order of its records.
type Group struct {
	Key  Tuple      `json:"key"`
	View RecordView `json:"-"`
}

// Count is the number of records in the group.
func (g Group) Count() int { return g.View.Len() }

// ============================================================================
// RESULT TABLES
// ============================================================================

// Row is one aggregated line of a result table.
type Row struct {
	Key   Tuple   `json:"key"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Level is one rollup or drilldown result table.
// Rows are sorted by key in natural order.
type Level struct {
	Number      int         `json:"level"`
	Dimensions  []string    `json:"dimensions"`
	Measure     string      `json:"measure"`
	Aggregation Aggregation `json:"aggregation"`
	Rows        []Row       `json:"rows"`
}

// TotalCount sums the row counts of the level.
func (l Level) TotalCount() int {
	total := 0
	for _, r := range l.Rows {
		total += r.Count
	}
	return total
}

// MeasureStats summarises one measure over a filtered record set.
type MeasureStats struct {
	Measure string  `json:"measure"`
	Count   int     `json:"count"`
	Avg     float64 `json:"avg"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Sum     float64 `json:"sum"`
}

// SampleTable holds raw values of the first matched records.
type SampleTable struct {
	Columns []string  `json:"columns"`
	Rows    [][]Value `json:"rows"`
}

// Share is one line of a value distribution.
type Share struct {
	Value   Value   `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// SliceResult is the outcome of a slice. NoData is set when nothing matched;
// Stats and Sample are then empty.
type SliceResult struct {
	Dimension string         `json:"dimension"`
	Value     Value          `json:"value"`
	Matched   int            `json:"matched"`
	NoData    bool           `json:"noData"`
	Stats     []MeasureStats `json:"stats,omitempty"`
	Sample    *SampleTable   `json:"sample,omitempty"`
}

// DiceResult is the outcome of a dice. NoData is set when nothing matched.
type DiceResult struct {
	Conditions   []Condition    `json:"conditions"`
	Matched      int            `json:"matched"`
	NoData       bool           `json:"noData"`
	Stats        []MeasureStats `json:"stats,omitempty"`
	Distribution *Distribution  `json:"distribution,omitempty"`
}

// Distribution counts matched records per value of one dimension,
// sorted by value ascending.
type Distribution struct {
	Dimension string  `json:"dimension"`
	Shares    []Share `json:"shares"`
}
