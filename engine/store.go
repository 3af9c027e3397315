package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/spektr-org/cube/schema"
)

// ============================================================================
// RECORD STORE: Typed, classified, read-only record set
// ============================================================================
// Load pipeline per row:
//   1. Parse every measure as float64 (NaN is rejected)
//   2. Parse every raw dimension per its kind
//   3. Run each derived dimension's classifier on its source measure
// Any failure aborts the whole load; no partial store is returned.
// ============================================================================

// Store holds the finalized records of one dataset.
// It is never mutated after Load returns, so concurrent readers are safe.
type Store struct {
	schema  schema.Config
	records []Record
	view    RecordView
}

// Load builds a Store from raw rows. Bucket classifiers declared in the
// schema are used for derived dimensions unless classifiers overrides them.
func Load(rows []RawRow, sch schema.Config, classifiers Classifiers) (*Store, error) {
	if err := sch.Validate(); err != nil {
		return nil, &SchemaError{Field: sch.Name, Reason: err.Error(), Err: err}
	}

	fromBuckets, err := BucketClassifiers(sch)
	if err != nil {
		return nil, &SchemaError{Field: sch.Name, Reason: err.Error(), Err: err}
	}
	classifiers = fromBuckets.Merge(classifiers)

	derived := sch.DerivedDimensions()
	for _, d := range derived {
		if classifiers[d.Key] == nil {
			return nil, &SchemaError{Field: d.Key, Reason: "no classifier registered for derived dimension"}
		}
	}
	raw := sch.RawDimensions()

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 1
		rec := Record{
			Dimensions: make(map[string]Value, len(sch.Dimensions)),
			Measures:   make(map[string]float64, len(sch.Measures)),
		}

		for _, m := range sch.Measures {
			text, ok := row[m.Key]
			if !ok {
				return nil, &SchemaError{Row: rowNum, Field: m.Key, Reason: "missing measure"}
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
			if err != nil || math.IsNaN(f) {
				return nil, &SchemaError{Row: rowNum, Field: m.Key, Reason: "value " + strconv.Quote(text) + " is not numeric"}
			}
			rec.Measures[m.Key] = f
		}

		for _, d := range raw {
			text, ok := row[d.Key]
			if !ok {
				return nil, &SchemaError{Row: rowNum, Field: d.Key, Reason: "missing dimension"}
			}
			v, err := ParseValue(d.Kind, text)
			if err != nil {
				return nil, &SchemaError{Row: rowNum, Field: d.Key, Reason: err.Error(), Err: err}
			}
			rec.Dimensions[d.Key] = v
		}

		for _, d := range derived {
			rec.Dimensions[d.Key] = Text(classifiers[d.Key](rec.Measures[d.DerivedFrom]))
		}

		records = append(records, rec)
	}

	return &Store{
		schema:  sch,
		records: records,
		view:    NewSliceView(records, sch.DimensionKeys(), sch.MeasureKeys()),
	}, nil
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// View returns a read-only view over all records in load order.
func (s *Store) View() RecordView { return s.view }

// Schema returns the schema the store was built with.
func (s *Store) Schema() schema.Config { return s.schema }
