package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// ROLLUP / DRILLDOWN
// ============================================================================

func TestRollup(t *testing.T) {
	cube := testCube(t)

	levels, err := cube.Rollup([]string{"quality", "alcohol_range"}, "fixed acidity", AggAvg)
	require.NoError(t, err)

	want := []Level{
		{
			Number:      1,
			Dimensions:  []string{"quality"},
			Measure:     "fixed acidity",
			Aggregation: AggAvg,
			Rows: []Row{
				{Key: Tuple{Int(5)}, Value: 7.4, Count: 2},
				{Key: Tuple{Int(6)}, Value: 11.2, Count: 1},
				{Key: Tuple{Int(7)}, Value: 7.7, Count: 2},
			},
		},
		{
			Number:      2,
			Dimensions:  []string{"alcohol_range"},
			Measure:     "fixed acidity",
			Aggregation: AggAvg,
			Rows: []Row{
				{Key: Tuple{Text("High (> 11.5)")}, Value: 7.7, Count: 2},
				{Key: Tuple{Text("Low (< 9.5)")}, Value: 7, Count: 1},
				{Key: Tuple{Text("Medium (9.5-11.5)")}, Value: 9.5, Count: 2},
			},
		},
	}
	if diff := cmp.Diff(want, levels, cmp.AllowUnexported(Value{})); diff != "" {
		t.Errorf("rollup mismatch (-want +got):\n%s", diff)
	}
}

func TestRollupLevelsPartitionStore(t *testing.T) {
	cube := testCube(t)

	for _, agg := range Aggregations {
		levels, err := cube.Rollup([]string{"alcohol_range", "quality"}, "alcohol", agg)
		require.NoError(t, err)
		for _, l := range levels {
			assert.Equal(t, cube.Store().Len(), l.TotalCount(), "level %d %s", l.Number, agg)
		}
	}
}

func TestRollupSum(t *testing.T) {
	levels, err := testCube(t).Rollup([]string{"quality"}, "alcohol", AggSum)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, 19.2, levels[0].Rows[0].Value)
	assert.Equal(t, "SUM", levels[0].Aggregation.Label())
}

func TestDrilldown(t *testing.T) {
	cube := testCube(t)

	levels, err := cube.Drilldown("quality", []string{"alcohol_range"}, "fixed acidity", AggMax)
	require.NoError(t, err)
	require.Len(t, levels, 2)

	assert.Equal(t, []string{"quality"}, levels[0].Dimensions)
	assert.Equal(t, []string{"quality", "alcohol_range"}, levels[1].Dimensions)

	for i := 1; i < len(levels); i++ {
		assert.GreaterOrEqual(t, len(levels[i].Rows), len(levels[i-1].Rows))
	}
	for _, l := range levels {
		assert.Equal(t, cube.Store().Len(), l.TotalCount())
	}

	last := levels[1].Rows
	require.Len(t, last, 4)
	assert.Equal(t, Tuple{Int(5), Text("Low (< 9.5)")}.Strings(), last[0].Key.Strings())
	assert.Equal(t, 7.0, last[0].Value)
	assert.Equal(t, 8.0, last[3].Value)
}

func TestDrilldownNoDrill(t *testing.T) {
	levels, err := testCube(t).Drilldown("quality", nil, "alcohol", AggMin)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Len(t, levels[0].Rows, 3)
}

func TestLevelErrors(t *testing.T) {
	cube := testCube(t)

	_, err := cube.Rollup([]string{"quality"}, "sugar", AggAvg)
	var measure *UnknownMeasureError
	assert.True(t, errors.As(err, &measure))

	_, err = cube.Rollup([]string{"colour"}, "alcohol", AggAvg)
	var dim *UnknownDimensionError
	assert.True(t, errors.As(err, &dim))

	_, err = cube.Drilldown("quality", []string{"quality"}, "alcohol", AggAvg)
	var dup *DuplicateDimensionError
	assert.True(t, errors.As(err, &dup))

	_, err = cube.Rollup([]string{"quality"}, "alcohol", Aggregation("median"))
	var agg *UnknownAggregationError
	assert.True(t, errors.As(err, &agg))
}

func TestPrecisionOption(t *testing.T) {
	levels, err := testCube(t, WithPrecision(0)).Rollup([]string{"quality"}, "fixed acidity", AggAvg)
	require.NoError(t, err)
	assert.Equal(t, 7.0, levels[0].Rows[0].Value)
	assert.Equal(t, 8.0, levels[0].Rows[2].Value)
}

// ============================================================================
// SLICE / DICE
// ============================================================================

func TestSlice(t *testing.T) {
	res, err := testCube(t).Slice("quality", Int(5), []string{"fixed acidity", "alcohol"})
	require.NoError(t, err)

	assert.False(t, res.NoData)
	assert.Equal(t, 2, res.Matched)
	want := []MeasureStats{
		{Measure: "fixed acidity", Count: 2, Avg: 7.4, Min: 7, Max: 7.8, Sum: 14.8},
		{Measure: "alcohol", Count: 2, Avg: 9.6, Min: 9.4, Max: 9.8, Sum: 19.2},
	}
	if diff := cmp.Diff(want, res.Stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	require.NotNil(t, res.Sample)
	assert.Equal(t, []string{"quality", "alcohol_range", "fixed acidity", "alcohol"}, res.Sample.Columns)
	assert.Len(t, res.Sample.Rows, 2)
}

func TestSliceSampleOptions(t *testing.T) {
	cube := testCube(t, WithSampleSize(1), WithSampleColumns("alcohol", "colour", "quality"))

	res, err := cube.Slice("quality", Int(7), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Stats)
	assert.Equal(t, []string{"alcohol", "quality"}, res.Sample.Columns)
	assert.Equal(t, [][]Value{{Float(11.5), Int(7)}}, res.Sample.Rows)
}

func TestSliceNoData(t *testing.T) {
	res, err := testCube(t).Slice("quality", Int(4), []string{"alcohol"})
	require.NoError(t, err)
	assert.True(t, res.NoData)
	assert.Zero(t, res.Matched)
	assert.Nil(t, res.Stats)
	assert.Nil(t, res.Sample)
}

func TestSliceErrors(t *testing.T) {
	cube := testCube(t)

	_, err := cube.Slice("colour", Text("red"), nil)
	var dim *UnknownDimensionError
	assert.True(t, errors.As(err, &dim))

	_, err = cube.Slice("quality", Int(5), []string{"sugar"})
	var measure *UnknownMeasureError
	assert.True(t, errors.As(err, &measure))
}

func TestDice(t *testing.T) {
	res, err := testCube(t).Dice([]Condition{
		Between("quality", Int(6), Int(8)),
	}, []string{"fixed acidity"})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Matched)
	require.Len(t, res.Stats, 1)
	assert.Equal(t, 3, res.Stats[0].Count)

	require.NotNil(t, res.Distribution)
	assert.Equal(t, "quality", res.Distribution.Dimension)
	assert.Equal(t, []Share{
		{Value: Int(6), Count: 1, Percent: 33.3},
		{Value: Int(7), Count: 2, Percent: 66.7},
	}, res.Distribution.Shares)
}

func TestDiceCombined(t *testing.T) {
	res, err := testCube(t).Dice([]Condition{
		Between("quality", Int(6), Int(8)),
		Exact("alcohol_range", Text("Medium (9.5-11.5)")),
	}, []string{"fixed acidity", "alcohol"})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Matched)
	assert.Equal(t, 11.2, res.Stats[0].Avg)
	assert.Equal(t, []Share{{Value: Int(6), Count: 1, Percent: 100}}, res.Distribution.Shares)
}

func TestDiceOnMeasure(t *testing.T) {
	res, err := testCube(t).Dice([]Condition{
		Between("alcohol", Float(9.5), Float(11.5)),
	}, []string{"alcohol"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Matched)
	assert.Equal(t, 9.5, res.Stats[0].Min)
	assert.Equal(t, 11.5, res.Stats[0].Max)
}

func TestDiceNoData(t *testing.T) {
	res, err := testCube(t).Dice([]Condition{Exact("quality", Int(9))}, []string{"alcohol"})
	require.NoError(t, err)
	assert.True(t, res.NoData)
	assert.Nil(t, res.Distribution)
}

func TestNaNRecordNeverReachesDice(t *testing.T) {
	rows := append(testRows(), RawRow{"quality": "8", "fixed acidity": "NaN", "alcohol": "NaN"})
	_, err := Load(rows, testSchema(), nil)

	var se *SchemaError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, 6, se.Row)
	assert.Equal(t, "fixed acidity", se.Field)
}

func TestConditionsSkipNaN(t *testing.T) {
	records := []Record{
		{Dimensions: map[string]Value{"quality": Int(7)}, Measures: map[string]float64{"alcohol": 10}},
		{Dimensions: map[string]Value{"quality": Int(8)}, Measures: map[string]float64{"alcohol": math.NaN()}},
	}
	view := NewSliceView(records, []string{"quality"}, []string{"alcohol"})

	tests := []struct {
		name string
		cond Condition
		want int
	}{
		{"range excludes NaN record", Between("alcohol", Float(100), Float(200)), 0},
		{"exact excludes NaN record", Exact("alcohol", Float(-1)), 0},
		{"range keeps real value", Between("alcohol", Float(9), Float(11)), 1},
		{"NaN bound matches nothing", Between("alcohol", Float(math.NaN()), Float(11)), 0},
		{"NaN exact matches nothing", Exact("alcohol", Float(math.NaN())), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyConditions(view, []Condition{tt.cond})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Len())
		})
	}
}

func TestDiceDistributionDimension(t *testing.T) {
	res, err := testCube(t, WithDistributionDimension("alcohol_range")).Dice(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Matched)
	assert.Len(t, res.Distribution.Shares, 3)

	_, err = testCube(t, WithDistributionDimension("colour")).Dice(nil, nil)
	var dim *UnknownDimensionError
	assert.True(t, errors.As(err, &dim))
}

// ============================================================================
// LOGGING
// ============================================================================

func TestCubeSilentByDefault(t *testing.T) {
	cube := testCube(t)
	assert.False(t, cube.log.Enabled(context.Background(), slog.LevelError))
}

func TestCubeWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	_, err := testCube(t, WithLogger(logger)).Dice([]Condition{Exact("quality", Int(5))}, []string{"alcohol"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "msg=dice")
	assert.Contains(t, buf.String(), "matched=2")
}

// ============================================================================
// CONCURRENCY
// ============================================================================

func TestConcurrentReaders(t *testing.T) {
	cube := testCube(t)
	want, err := cube.Rollup([]string{"quality"}, "alcohol", AggAvg)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]Level, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = cube.Rollup([]string{"quality"}, "alcohol", AggAvg)
			_, _ = cube.Dice([]Condition{Exact("quality", Int(5))}, []string{"alcohol"})
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
