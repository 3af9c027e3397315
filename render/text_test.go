package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/cube/engine"
	"github.com/spektr-org/cube/schema"
)

var testSchema = schema.Config{
	Name: "wine",
	Dimensions: []schema.DimensionMeta{
		{Key: "quality", DisplayName: "Quality", Kind: schema.KindInt},
		{Key: "alcohol_range", DisplayName: "Alcohol Range", Kind: schema.KindText},
	},
	Measures: []schema.MeasureMeta{
		{Key: "fixed acidity", DisplayName: "Fixed Acidity"},
	},
}

func testLevel() engine.Level {
	return engine.Level{
		Number:      2,
		Dimensions:  []string{"quality", "alcohol_range"},
		Measure:     "fixed acidity",
		Aggregation: engine.AggAvg,
		Rows: []engine.Row{
			{Key: engine.Tuple{engine.Int(5), engine.Text("Low")}, Value: 7.4, Count: 2},
			{Key: engine.Tuple{engine.Int(6), engine.Text("Medium")}, Value: 11.25, Count: 10},
		},
	}
}

func TestBuildLevelTable(t *testing.T) {
	table := BuildLevelTable("Drilldown", testLevel(), testSchema)

	assert.Equal(t, "Drilldown Level 2: quality + alcohol_range", table.Title)
	assert.Equal(t, []string{"Quality", "Alcohol Range", "Fixed Acidity (AVG)", "Count"}, table.Headers())
	assert.Equal(t, [][]string{
		{"5", "Low", "7.4", "2"},
		{"6", "Medium", "11.25", "10"},
	}, table.Rows)
}

func TestTableLayout(t *testing.T) {
	var buf bytes.Buffer
	err := Table(&buf, TableData{
		Title:   "Title",
		Columns: []Column{{Label: "A"}, {Label: "Value"}},
		Rows:    [][]string{{"long cell", "1"}},
	})
	require.NoError(t, err)

	banner := strings.Repeat("=", 60)
	want := "\n" + banner + "\nTitle\n" + banner + "\n" +
		"| A         | Value |\n" +
		"|-------------------|\n" +
		"| long cell | 1     |\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestSliceNoData(t *testing.T) {
	var buf bytes.Buffer
	err := Slice(&buf, &engine.SliceResult{Dimension: "quality", Value: engine.Int(4), NoData: true}, testSchema)
	require.NoError(t, err)
	assert.Equal(t, "No data found for quality = 4\n", buf.String())
}

func TestSliceReport(t *testing.T) {
	res := &engine.SliceResult{
		Dimension: "quality",
		Value:     engine.Int(5),
		Matched:   2,
		Stats:     []engine.MeasureStats{{Measure: "fixed acidity", Count: 2, Avg: 7.6, Min: 7.4, Max: 7.8, Sum: 15.2}},
		Sample: &engine.SampleTable{
			Columns: []string{"quality", "fixed acidity"},
			Rows:    [][]engine.Value{{engine.Int(5), engine.Float(7.4)}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Slice(&buf, res, testSchema))
	out := buf.String()

	assert.Contains(t, out, "Slice: quality = 5")
	assert.Contains(t, out, "| fixed acidity | 2     | 7.6     | 7.4 | 7.8 | 15.2 |")
	assert.Contains(t, out, "Sample records (first 1):")
	assert.Contains(t, out, "| Quality | Fixed Acidity |")
}

func TestDiceReport(t *testing.T) {
	res := &engine.DiceResult{
		Matched: 3,
		Stats:   []engine.MeasureStats{{Measure: "fixed acidity", Count: 3}},
		Distribution: &engine.Distribution{
			Dimension: "quality",
			Shares: []engine.Share{
				{Value: engine.Int(6), Count: 1, Percent: 33.3},
				{Value: engine.Int(7), Count: 2, Percent: 66.7},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Dice(&buf, res, testSchema))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Found 3 records matching conditions\n"))
	assert.Contains(t, out, "Quality Distribution")
	assert.Contains(t, out, "| 7       | 2     | 66.7%      |")

	buf.Reset()
	require.NoError(t, Dice(&buf, &engine.DiceResult{NoData: true}, testSchema))
	assert.Equal(t, "No data found matching the conditions\n", buf.String())
}

func TestCSVAndJSON(t *testing.T) {
	var buf bytes.Buffer
	table := BuildLevelTable("Rollup", testLevel(), testSchema)
	require.NoError(t, CSV(&buf, table, table))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Quality,Alcohol Range,Fixed Acidity (AVG),Count", lines[0])
	assert.Equal(t, "5,Low,7.4,2", lines[1])
	assert.Equal(t, "", lines[3])

	buf.Reset()
	require.NoError(t, JSON(&buf, testLevel(), false))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "avg", decoded["aggregation"])
	assert.Equal(t, float64(2), decoded["level"])
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("pretty")
	require.NoError(t, err)
	assert.Equal(t, FormatPretty, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
