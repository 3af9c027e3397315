package engine

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ============================================================================
// AGGREGATORS: Scalar summaries of a group's measure values
// ============================================================================
// Arithmetic stays in full float64 precision. Rounding to display precision
// happens once, when a Row or MeasureStats is built.
// ============================================================================

// Aggregation is the kind of scalar summary computed per group.
type Aggregation string

const (
	AggAvg Aggregation = "avg"
	AggSum Aggregation = "sum"
	AggMin Aggregation = "min"
	AggMax Aggregation = "max"
)

// Aggregations lists the supported kinds.
var Aggregations = []Aggregation{AggAvg, AggSum, AggMin, AggMax}

// ParseAggregation resolves a case-insensitive aggregation name.
func ParseAggregation(name string) (Aggregation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "avg", "average", "mean":
		return AggAvg, nil
	case "sum":
		return AggSum, nil
	case "min":
		return AggMin, nil
	case "max":
		return AggMax, nil
	}
	return "", &UnknownAggregationError{Name: name}
}

// Label returns the upper-case form used in table headers.
func (a Aggregation) Label() string {
	return strings.ToUpper(string(a))
}

// Aggregate computes kind over values. Empty input is an EmptyGroupError.
func Aggregate(values []float64, kind Aggregation) (float64, error) {
	if len(values) == 0 {
		return 0, &EmptyGroupError{Aggregation: kind}
	}

	switch kind {
	case AggAvg:
		return Sum(values) / float64(len(values)), nil
	case AggSum:
		return Sum(values), nil
	case AggMin:
		return Min(values), nil
	case AggMax:
		return Max(values), nil
	}
	return 0, &UnknownAggregationError{Name: string(kind)}
}

// Sum adds values.
func Sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// Min returns the smallest value, or +Inf for no values.
func Min(values []float64) float64 {
	m := math.Inf(1)
	for _, v := range values {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest value, or -Inf for no values.
func Max(values []float64) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

// Round rounds v to places decimals, half away from zero.
// Rounding goes through the shortest decimal form of v, so 2.675 becomes
// 2.68 rather than the 2.67 a binary-float rounding would give.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// stats computes the slice/dice summary of one measure over a non-empty view.
func stats(view RecordView, measure string, places int32) MeasureStats {
	values := MeasureValues(view, measure)
	sum := Sum(values)
	return MeasureStats{
		Measure: measure,
		Count:   len(values),
		Avg:     Round(sum/float64(len(values)), places),
		Min:     Round(Min(values), places),
		Max:     Round(Max(values), places),
		Sum:     Round(sum, places),
	}
}
