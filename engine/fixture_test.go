package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spektr-org/cube/schema"
)

// ── Test Data ─────────────────────────────────────────────────────────────────

func bound(v float64) *float64 { return &v }

// testSchema is a cut-down wine schema: one int dimension, one bucketed
// dimension and two measures.
func testSchema() schema.Config {
	return schema.Config{
		Name: "wine-test",
		Dimensions: []schema.DimensionMeta{
			{Key: "quality", DisplayName: "Quality", Kind: schema.KindInt},
			{
				Key:         "alcohol_range",
				DisplayName: "Alcohol Range",
				Kind:        schema.KindText,
				DerivedFrom: "alcohol",
				Buckets: []schema.BucketMeta{
					{Below: bound(9.5), Label: "Low (< 9.5)"},
					{Below: bound(11.5), Label: "Medium (9.5-11.5)"},
					{Label: "High (> 11.5)"},
				},
			},
		},
		Measures: []schema.MeasureMeta{
			{Key: "fixed acidity", DisplayName: "Fixed Acidity"},
			{Key: "alcohol", DisplayName: "Alcohol"},
		},
	}
}

// testRows yields qualities [5,5,6,7,7] with alcohol on both sides of
// each bucket bound.
func testRows() []RawRow {
	return []RawRow{
		{"quality": "5", "fixed acidity": "7.0", "alcohol": "9.4"},
		{"quality": "5", "fixed acidity": "7.8", "alcohol": "9.8"},
		{"quality": "6", "fixed acidity": "11.2", "alcohol": "9.5"},
		{"quality": "7", "fixed acidity": "7.4", "alcohol": "11.5"},
		{"quality": "7", "fixed acidity": "8.0", "alcohol": "12.0"},
	}
}

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Load(testRows(), testSchema(), nil)
	require.NoError(t, err)
	return store
}

func testCube(t *testing.T, opts ...Option) *Cube {
	t.Helper()
	return New(testStore(t), opts...)
}
