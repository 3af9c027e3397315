package engine

import (
	"encoding/json"
	"fmt"
)

// ============================================================================
// FILTERS: Exact and range conditions via RecordView
// ============================================================================
// Single pass: each record is checked against conditions in order and
// rejected on the first failure. Returns a SubView, no data copy.
// ============================================================================

// ConditionKind tags a Condition as exact match or inclusive range.
type ConditionKind uint8

const (
	MatchExact ConditionKind = iota
	MatchRange
)

// Condition restricts one field (a dimension or a measure) of a record.
type Condition struct {
	Field string
	Kind  ConditionKind
	Value Value // MatchExact
	Low   Value // MatchRange, inclusive
	High  Value // MatchRange, inclusive
}

// Exact matches records whose field equals value.
func Exact(field string, value Value) Condition {
	return Condition{Field: field, Kind: MatchExact, Value: value}
}

// Between matches records whose field lies in [low, high].
func Between(field string, low, high Value) Condition {
	return Condition{Field: field, Kind: MatchRange, Low: low, High: high}
}

func (c Condition) String() string {
	if c.Kind == MatchRange {
		return fmt.Sprintf("%s in [%s, %s]", c.Field, c.Low, c.High)
	}
	return fmt.Sprintf("%s = %s", c.Field, c.Value)
}

func (c Condition) MarshalJSON() ([]byte, error) {
	if c.Kind == MatchRange {
		return json.Marshal(struct {
			Field string `json:"field"`
			Low   Value  `json:"low"`
			High  Value  `json:"high"`
		}{c.Field, c.Low, c.High})
	}
	return json.Marshal(struct {
		Field string `json:"field"`
		Value Value  `json:"value"`
	}{c.Field, c.Value})
}

// matches tests the condition against an already-read field value.
// NaN on either side never matches.
func (c Condition) matches(v Value) bool {
	if v.isNaN() || c.Value.isNaN() || c.Low.isNaN() || c.High.isNaN() {
		return false
	}
	if c.Kind == MatchRange {
		return c.Low.Compare(v) <= 0 && v.Compare(c.High) <= 0
	}
	return v.Equal(c.Value)
}

// ApplyConditions returns a view of records matching every condition.
// Conditions may name dimensions or measures; anything else is an
// UnknownDimensionError.
func ApplyConditions(view RecordView, conditions []Condition) (RecordView, error) {
	if len(conditions) == 0 {
		return view, nil
	}

	dims := make(map[string]bool)
	for _, k := range view.DimensionKeys() {
		dims[k] = true
	}
	measures := make(map[string]bool)
	for _, k := range view.MeasureKeys() {
		measures[k] = true
	}

	onMeasure := make([]bool, len(conditions))
	for i, c := range conditions {
		switch {
		case dims[c.Field]:
		case measures[c.Field]:
			onMeasure[i] = true
		default:
			return nil, &UnknownDimensionError{Name: c.Field}
		}
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for j, c := range conditions {
			var v Value
			if onMeasure[j] {
				v = Float(view.Measure(i, c.Field))
			} else {
				v = view.Dimension(i, c.Field)
			}
			if !c.matches(v) {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices), nil
}
