package engine

import "fmt"

// SchemaError reports a source row that does not fit the schema.
// Row is 1-based over data rows; 0 means the schema itself is at fault.
type SchemaError struct {
	Row    int
	Field  string
	Reason string
	Err    error // underlying cause, if any
}

func (e *SchemaError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("schema error: field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("schema error: row %d: field %q: %s", e.Row, e.Field, e.Reason)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// UnknownDimensionError reports an operation naming an undeclared dimension.
type UnknownDimensionError struct {
	Name string
}

func (e *UnknownDimensionError) Error() string {
	return fmt.Sprintf("unknown dimension %q", e.Name)
}

// UnknownMeasureError reports an operation naming an undeclared measure.
type UnknownMeasureError struct {
	Name string
}

func (e *UnknownMeasureError) Error() string {
	return fmt.Sprintf("unknown measure %q", e.Name)
}

// DuplicateDimensionError reports a grouping key list that repeats a dimension.
type DuplicateDimensionError struct {
	Name string
}

func (e *DuplicateDimensionError) Error() string {
	return fmt.Sprintf("dimension %q appears more than once in grouping keys", e.Name)
}

// UnknownAggregationError reports an unsupported aggregation name.
type UnknownAggregationError struct {
	Name string
}

func (e *UnknownAggregationError) Error() string {
	return fmt.Sprintf("unknown aggregation %q (want avg, sum, min or max)", e.Name)
}

// EmptyGroupError signals that an empty value set reached the aggregator.
// Grouping never produces empty groups, so this indicates a programming error.
type EmptyGroupError struct {
	Aggregation Aggregation
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("cannot compute %s of an empty group", e.Aggregation)
}
