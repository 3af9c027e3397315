package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// GROUPING
// ============================================================================

func TestGroupBySortedAndComplete(t *testing.T) {
	view := testStore(t).View()

	groups, err := GroupBy(view, []string{"quality"})
	require.NoError(t, err)

	var keys []string
	total := 0
	for _, g := range groups {
		keys = append(keys, g.Key[0].String())
		assert.Positive(t, g.Count())
		total += g.Count()
	}
	if diff := cmp.Diff([]string{"5", "6", "7"}, keys); diff != "" {
		t.Errorf("group keys mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, view.Len(), total)
}

func TestGroupByKeepsInputOrder(t *testing.T) {
	groups, err := GroupBy(testStore(t).View(), []string{"quality"})
	require.NoError(t, err)

	five := groups[0]
	require.Equal(t, 2, five.Count())
	assert.Equal(t, []float64{7.0, 7.8}, MeasureValues(five.View, "fixed acidity"))
}

func TestGroupByTuples(t *testing.T) {
	groups, err := GroupBy(testStore(t).View(), []string{"quality", "alcohol_range"})
	require.NoError(t, err)

	var got [][]string
	for _, g := range groups {
		got = append(got, g.Key.Strings())
	}
	want := [][]string{
		{"5", "Low (< 9.5)"},
		{"5", "Medium (9.5-11.5)"},
		{"6", "Medium (9.5-11.5)"},
		{"7", "High (> 11.5)"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tuples mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupByNoKeys(t *testing.T) {
	view := testStore(t).View()

	groups, err := GroupBy(view, nil)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, view.Len(), groups[0].Count())
	assert.Empty(t, groups[0].Key)

	empty := NewSliceView(nil, view.DimensionKeys(), view.MeasureKeys())
	groups, err = GroupBy(empty, nil)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestGroupByRejectsBadKeys(t *testing.T) {
	view := testStore(t).View()

	_, err := GroupBy(view, []string{"colour"})
	var unknown *UnknownDimensionError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "colour", unknown.Name)

	_, err = GroupBy(view, []string{"quality", "quality"})
	var dup *DuplicateDimensionError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "quality", dup.Name)
}

func TestUniqueValues(t *testing.T) {
	got := UniqueValues(testStore(t).View(), "quality")
	assert.Equal(t, []Value{Int(5), Int(6), Int(7)}, got)
}

// ============================================================================
// FILTERS
// ============================================================================

func TestApplyConditionsRangeIsInclusive(t *testing.T) {
	records := []Record{
		{Dimensions: map[string]Value{"quality": Int(5)}, Measures: map[string]float64{"alcohol": 9}},
		{Dimensions: map[string]Value{"quality": Int(6)}, Measures: map[string]float64{"alcohol": 10}},
		{Dimensions: map[string]Value{"quality": Int(7)}, Measures: map[string]float64{"alcohol": 11}},
		{Dimensions: map[string]Value{"quality": Int(8)}, Measures: map[string]float64{"alcohol": 12}},
		{Dimensions: map[string]Value{"quality": Int(9)}, Measures: map[string]float64{"alcohol": 13}},
	}
	view := NewSliceView(records, []string{"quality"}, []string{"alcohol"})

	got, err := ApplyConditions(view, []Condition{Between("quality", Int(6), Int(8))})
	require.NoError(t, err)
	assert.Equal(t, []Value{Int(6), Int(7), Int(8)}, UniqueValues(got, "quality"))

	got, err = ApplyConditions(view, []Condition{Between("alcohol", Float(10), Float(11.5))})
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 11}, MeasureValues(got, "alcohol"))
}

func TestApplyConditionsConjunction(t *testing.T) {
	view := testStore(t).View()

	got, err := ApplyConditions(view, []Condition{
		Between("quality", Int(6), Int(8)),
		Exact("alcohol_range", Text("Medium (9.5-11.5)")),
	})
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, Int(6), got.Dimension(0, "quality"))

	none, err := ApplyConditions(view, []Condition{Exact("quality", Int(4))})
	require.NoError(t, err)
	assert.Zero(t, none.Len())

	all, err := ApplyConditions(view, nil)
	require.NoError(t, err)
	assert.Equal(t, view.Len(), all.Len())
}

func TestApplyConditionsUnknownField(t *testing.T) {
	_, err := ApplyConditions(testStore(t).View(), []Condition{Exact("colour", Text("red"))})
	var unknown *UnknownDimensionError
	assert.True(t, errors.As(err, &unknown))
}

func TestConditionString(t *testing.T) {
	assert.Equal(t, "quality in [6, 8]", Between("quality", Int(6), Int(8)).String())
	assert.Equal(t, "quality = 5", Exact("quality", Int(5)).String())
}
