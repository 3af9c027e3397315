package engine

import (
	"log/slog"
	"strings"

	"github.com/spektr-org/cube/schema"
)

// ============================================================================
// CUBE: Rollup, Drilldown, Slice, Dice over a Store
// ============================================================================
// Every operation reads the store through its RecordView and builds private
// groups and result tables, so one Cube may serve concurrent callers.
//
// Pipelines:
//   Rollup/Drilldown: keys per level → GroupBy → Aggregate → Round → Level
//   Slice/Dice:       conditions → SubView → stats (+ sample / distribution)
// ============================================================================

// Cube runs OLAP operations against a read-only Store.
type Cube struct {
	store *Store
	cfg   *config
	log   *slog.Logger
}

// New creates a Cube over store.
func New(store *Store, opts ...Option) *Cube {
	cfg := applyOptions(opts)
	sch := store.Schema()

	if len(cfg.SampleColumns) == 0 {
		cfg.SampleColumns = sch.SampleColumns
	}
	if len(cfg.SampleColumns) == 0 {
		cfg.SampleColumns = append(sch.DimensionKeys(), sch.MeasureKeys()...)
	}
	if cfg.DistributionDimension == "" {
		cfg.DistributionDimension = sch.DistributionDimension
	}
	if cfg.DistributionDimension == "" {
		cfg.DistributionDimension = "quality"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	return &Cube{
		store: store,
		cfg:   cfg,
		log:   cfg.Logger.With("dataset", sch.Name),
	}
}

// Store returns the underlying record store.
func (c *Cube) Store() *Store { return c.store }

// Schema returns the store's schema.
func (c *Cube) Schema() schema.Config { return c.store.Schema() }

// ============================================================================
// ROLLUP / DRILLDOWN
// ============================================================================

// Rollup aggregates measure by each dimension of hierarchy in turn.
// Level i groups the whole store by hierarchy[i] alone; levels do not
// build on each other.
func (c *Cube) Rollup(hierarchy []string, measure string, agg Aggregation) ([]Level, error) {
	keySets := make([][]string, len(hierarchy))
	for i, dim := range hierarchy {
		keySets[i] = []string{dim}
	}

	c.log.Info("rollup", "hierarchy", hierarchy, "measure", measure, "aggregation", agg)
	return c.levels(keySets, measure, agg)
}

// Drilldown aggregates measure by a growing key list: level 1 groups by
// start, level k by start plus the first k-1 drill dimensions.
func (c *Cube) Drilldown(start string, drill []string, measure string, agg Aggregation) ([]Level, error) {
	all := append([]string{start}, drill...)
	keySets := make([][]string, len(all))
	for i := range all {
		keySets[i] = all[:i+1]
	}

	c.log.Info("drilldown", "path", strings.Join(all, " + "), "measure", measure, "aggregation", agg)
	return c.levels(keySets, measure, agg)
}

// levels validates the request up front, then builds one Level per key set.
func (c *Cube) levels(keySets [][]string, measure string, agg Aggregation) ([]Level, error) {
	if err := c.checkMeasures(measure); err != nil {
		return nil, err
	}
	if _, err := ParseAggregation(string(agg)); err != nil {
		return nil, err
	}

	view := c.store.View()
	levels := make([]Level, 0, len(keySets))

	for i, keys := range keySets {
		groups, err := GroupBy(view, keys)
		if err != nil {
			return nil, err
		}

		rows := make([]Row, 0, len(groups))
		for _, g := range groups {
			value, err := Aggregate(MeasureValues(g.View, measure), agg)
			if err != nil {
				return nil, err
			}
			rows = append(rows, Row{
				Key:   g.Key,
				Value: Round(value, c.cfg.Precision),
				Count: g.Count(),
			})
		}

		levels = append(levels, Level{
			Number:      i + 1,
			Dimensions:  append([]string(nil), keys...),
			Measure:     measure,
			Aggregation: agg,
			Rows:        rows,
		})
		c.log.Debug("level built", "level", i+1, "dimensions", keys, "groups", len(rows))
	}

	return levels, nil
}

// ============================================================================
// SLICE / DICE
// ============================================================================

// Slice fixes one dimension to value and summarises measures over the
// matching records. No match is reported through NoData, not an error.
func (c *Cube) Slice(dimension string, value Value, measures []string) (*SliceResult, error) {
	if !c.Schema().HasDimension(dimension) {
		return nil, &UnknownDimensionError{Name: dimension}
	}
	if err := c.checkMeasures(measures...); err != nil {
		return nil, err
	}

	filtered, err := ApplyConditions(c.store.View(), []Condition{Exact(dimension, value)})
	if err != nil {
		return nil, err
	}

	result := &SliceResult{
		Dimension: dimension,
		Value:     value,
		Matched:   filtered.Len(),
	}
	if filtered.Len() == 0 {
		c.log.Info("slice: no data", "dimension", dimension, "value", value.String())
		result.NoData = true
		return result, nil
	}

	result.Stats = c.statsTable(filtered, measures)
	result.Sample = c.sample(filtered)

	c.log.Info("slice", "dimension", dimension, "value", value.String(), "matched", filtered.Len())
	return result, nil
}

// Dice keeps records satisfying every condition and summarises measures,
// plus the distribution of the distribution dimension over the matches.
func (c *Cube) Dice(conditions []Condition, measures []string) (*DiceResult, error) {
	if err := c.checkMeasures(measures...); err != nil {
		return nil, err
	}
	distDim := c.cfg.DistributionDimension
	if !c.Schema().HasDimension(distDim) {
		return nil, &UnknownDimensionError{Name: distDim}
	}

	filtered, err := ApplyConditions(c.store.View(), conditions)
	if err != nil {
		return nil, err
	}

	result := &DiceResult{
		Conditions: conditions,
		Matched:    filtered.Len(),
	}
	if filtered.Len() == 0 {
		c.log.Info("dice: no data", "conditions", len(conditions))
		result.NoData = true
		return result, nil
	}

	result.Stats = c.statsTable(filtered, measures)

	groups, err := GroupBy(filtered, []string{distDim})
	if err != nil {
		return nil, err
	}
	dist := &Distribution{Dimension: distDim, Shares: make([]Share, 0, len(groups))}
	total := float64(filtered.Len())
	for _, g := range groups {
		dist.Shares = append(dist.Shares, Share{
			Value:   g.Key[0],
			Count:   g.Count(),
			Percent: Round(float64(g.Count())/total*100, 1),
		})
	}
	result.Distribution = dist

	c.log.Info("dice", "conditions", len(conditions), "matched", filtered.Len())
	return result, nil
}

func (c *Cube) statsTable(view RecordView, measures []string) []MeasureStats {
	table := make([]MeasureStats, 0, len(measures))
	for _, m := range measures {
		table = append(table, stats(view, m, c.cfg.Precision))
	}
	return table
}

// sample lists the leading records over the configured sample columns.
// Unknown columns are skipped.
func (c *Cube) sample(view RecordView) *SampleTable {
	sch := c.Schema()
	head := Head(view, c.cfg.SampleSize)

	table := &SampleTable{}
	for _, col := range c.cfg.SampleColumns {
		if sch.HasDimension(col) || sch.HasMeasure(col) {
			table.Columns = append(table.Columns, col)
		}
	}

	table.Rows = make([][]Value, head.Len())
	for i := range table.Rows {
		row := make([]Value, len(table.Columns))
		for j, col := range table.Columns {
			if sch.HasDimension(col) {
				row[j] = head.Dimension(i, col)
			} else {
				row[j] = Float(head.Measure(i, col))
			}
		}
		table.Rows[i] = row
	}
	return table
}

func (c *Cube) checkMeasures(measures ...string) error {
	sch := c.Schema()
	for _, m := range measures {
		if !sch.HasMeasure(m) {
			return &UnknownMeasureError{Name: m}
		}
	}
	return nil
}
