package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/cube/datasets/wine"
	"github.com/spektr-org/cube/engine"
	"github.com/spektr-org/cube/render"
	"github.com/spektr-org/cube/schema"
)

func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.rollupCommand(),
		cli.drilldownCommand(),
		cli.sliceCommand(),
		cli.diceCommand(),
		cli.demoCommand(),
		cli.schemaCommand(),
	)
}

// ============================================================================
// ROLLUP / DRILLDOWN
// ============================================================================

func (cli *CLI) rollupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollup",
		Short: "Aggregate a measure by each dimension of a hierarchy",
		RunE: func(cmd *cobra.Command, args []string) error {
			dims, _ := cmd.Flags().GetStringSlice("dims")
			measure, _ := cmd.Flags().GetString("measure")
			aggName, _ := cmd.Flags().GetString("agg")

			agg, err := engine.ParseAggregation(aggName)
			if err != nil {
				return err
			}
			s, err := cli.open(cmd.Context())
			if err != nil {
				return err
			}
			return cli.runRollup(s, dims, measure, agg)
		},
	}
	cmd.Flags().StringSlice("dims", []string{wine.AlcoholRange, wine.PHRange, "quality"}, "Dimension hierarchy, one level per dimension")
	cmd.Flags().String("measure", "fixed acidity", "Measure to aggregate")
	cmd.Flags().String("agg", "avg", "Aggregation: avg|sum|min|max")
	return cmd
}

func (cli *CLI) drilldownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drilldown",
		Short: "Aggregate a measure by a growing list of dimensions",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, _ := cmd.Flags().GetString("start")
			drill, _ := cmd.Flags().GetStringSlice("drill")
			measure, _ := cmd.Flags().GetString("measure")
			aggName, _ := cmd.Flags().GetString("agg")

			agg, err := engine.ParseAggregation(aggName)
			if err != nil {
				return err
			}
			s, err := cli.open(cmd.Context())
			if err != nil {
				return err
			}
			return cli.runDrilldown(s, start, drill, measure, agg)
		},
	}
	cmd.Flags().String("start", "quality", "Dimension of the first level")
	cmd.Flags().StringSlice("drill", []string{wine.AlcoholRange, wine.PHRange}, "Dimensions added one per level")
	cmd.Flags().String("measure", "volatile acidity", "Measure to aggregate")
	cmd.Flags().String("agg", "avg", "Aggregation: avg|sum|min|max")
	return cmd
}

func (cli *CLI) runRollup(s *session, dims []string, measure string, agg engine.Aggregation) error {
	levels, err := s.cube.Rollup(dims, measure, agg)
	if err != nil {
		return err
	}
	return cli.emitLevels(s, "rollup", "Rollup", levels)
}

func (cli *CLI) runDrilldown(s *session, start string, drill []string, measure string, agg engine.Aggregation) error {
	levels, err := s.cube.Drilldown(start, drill, measure, agg)
	if err != nil {
		return err
	}
	return cli.emitLevels(s, "drilldown", "Drilldown", levels)
}

func (cli *CLI) emitLevels(s *session, op, title string, levels []engine.Level) error {
	tables := make([]render.TableData, len(levels))
	for i, l := range levels {
		tables[i] = render.BuildLevelTable(title, l, s.schema)
	}
	return cli.emit(s, op, levels, func(w io.Writer) error {
		if len(levels) > 0 {
			fmt.Fprintf(w, "%s OPERATION on '%s' using %s\n", strings.ToUpper(title), levels[0].Measure, levels[0].Aggregation.Label())
		}
		return render.Levels(w, title, levels, s.schema)
	}, tables)
}

// ============================================================================
// SLICE / DICE
// ============================================================================

func (cli *CLI) sliceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slice",
		Short: "Summarise measures for one value of one dimension",
		RunE: func(cmd *cobra.Command, args []string) error {
			dim, _ := cmd.Flags().GetString("dim")
			raw, _ := cmd.Flags().GetString("value")
			measures, _ := cmd.Flags().GetStringSlice("measures")

			s, err := cli.open(cmd.Context())
			if err != nil {
				return err
			}
			value, err := parseFieldValue(s.schema, dim, raw)
			if err != nil {
				return err
			}
			return cli.runSlice(s, dim, value, measures)
		},
	}
	cmd.Flags().String("dim", "quality", "Dimension to fix")
	cmd.Flags().String("value", "5", "Dimension value to keep")
	cmd.Flags().StringSlice("measures", wine.SliceMeasures, "Measures to summarise")
	return cmd
}

func (cli *CLI) diceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dice",
		Short: "Summarise measures for records matching several conditions",
		Long: `Keep records matching every --where condition and summarise measures.

A condition is field=value for an exact match or field=low..high for an
inclusive range. Fields may be dimensions or measures.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			where, _ := cmd.Flags().GetStringArray("where")
			measures, _ := cmd.Flags().GetStringSlice("measures")

			s, err := cli.open(cmd.Context())
			if err != nil {
				return err
			}
			conditions, err := parseConditions(s.schema, where)
			if err != nil {
				return err
			}
			return cli.runDice(s, conditions, measures)
		},
	}
	cmd.Flags().StringArray("where", []string{"quality=6..8", wine.AlcoholRange + "=Medium (9.5-11.5)"}, "Condition field=value or field=low..high (repeatable)")
	cmd.Flags().StringSlice("measures", wine.DiceMeasures, "Measures to summarise")
	return cmd
}

func (cli *CLI) runSlice(s *session, dim string, value engine.Value, measures []string) error {
	res, err := s.cube.Slice(dim, value, measures)
	if err != nil {
		return err
	}

	var tables []render.TableData
	if !res.NoData {
		tables = []render.TableData{
			render.BuildStatsTable(fmt.Sprintf("Slice: %s = %s", dim, value), res.Stats),
			render.BuildSampleTable(res.Sample, s.schema),
		}
	}
	return cli.emit(s, "slice", res, func(w io.Writer) error {
		fmt.Fprintf(w, "SLICE OPERATION: %s = %s\n", dim, value)
		return render.Slice(w, res, s.schema)
	}, tables)
}

func (cli *CLI) runDice(s *session, conditions []engine.Condition, measures []string) error {
	res, err := s.cube.Dice(conditions, measures)
	if err != nil {
		return err
	}

	var tables []render.TableData
	if !res.NoData {
		tables = []render.TableData{
			render.BuildStatsTable("Dice Results", res.Stats),
			render.BuildDistributionTable(res.Distribution, s.schema),
		}
	}
	return cli.emit(s, "dice", res, func(w io.Writer) error {
		fmt.Fprintf(w, "DICE OPERATION with conditions: %s\n", formatConditions(conditions))
		return render.Dice(w, res, s.schema)
	}, tables)
}

// ============================================================================
// DEMO / SCHEMA
// ============================================================================

func (cli *CLI) demoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the wine rollup, drilldown, slice and dice walkthrough",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cli.open(cmd.Context())
			if err != nil {
				return err
			}

			if err := cli.runRollup(s, []string{wine.AlcoholRange, wine.PHRange, "quality"}, "fixed acidity", engine.AggAvg); err != nil {
				return err
			}
			if err := cli.runDrilldown(s, "quality", []string{wine.AlcoholRange, wine.PHRange}, "volatile acidity", engine.AggAvg); err != nil {
				return err
			}
			if err := cli.runSlice(s, "quality", engine.Int(5), wine.SliceMeasures); err != nil {
				return err
			}
			return cli.runDice(s, []engine.Condition{
				engine.Between("quality", engine.Int(6), engine.Int(8)),
				engine.Exact(wine.AlcoholRange, engine.Text("Medium (9.5-11.5)")),
			}, wine.DiceMeasures)
		},
	}
}

func (cli *CLI) schemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the active schema, or draft one from the data",
		Long: `Print the active schema as YAML (or JSON with --format json).

With --discover the data source is inspected instead and a draft schema is
printed: decimal columns become measures, low-cardinality integer columns
become int dimensions and other text columns become text dimensions.
Save it, add derived buckets, and pass it back with --schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			discover, _ := cmd.Flags().GetBool("discover")

			var sch schema.Config
			if discover {
				drafted, err := cli.discoverSchema(cmd)
				if err != nil {
					return err
				}
				sch = *drafted
			} else {
				loaded, _, err := cli.loadSchema()
				if err != nil {
					return err
				}
				sch = loaded
			}

			format := schema.FormatYAML
			if f := cli.v.GetString("format"); f == string(render.FormatJSON) || f == string(render.FormatPretty) {
				format = schema.FormatJSON
			}
			out, err := schema.Marshal(sch, format)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cli.out, string(out))
			return err
		},
	}
	cmd.Flags().Bool("discover", false, "Draft a schema from the data source")
	cmd.Flags().String("name", "", "Dataset name for a discovered schema")
	cmd.Flags().Int("sample", 1000, "Rows inspected by --discover (0 = all)")
	return cmd
}

func (cli *CLI) discoverSchema(cmd *cobra.Command) (*schema.Config, error) {
	name, _ := cmd.Flags().GetString("name")
	sample, _ := cmd.Flags().GetInt("sample")

	rows, header, err := cli.loadRows(cmd.Context())
	if err != nil {
		return nil, err
	}
	raw := make([]map[string]string, len(rows))
	for i, r := range rows {
		raw[i] = r
	}

	sch, skipped, err := schema.Discover(header, raw, schema.DiscoverOptions{Name: name, SampleSize: sample})
	if err != nil {
		return nil, err
	}
	for _, s := range skipped {
		cli.logger.Warn("column skipped", "column", s.Column, "reason", s.Reason)
	}
	return sch, nil
}
