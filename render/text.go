package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spektr-org/cube/engine"
	"github.com/spektr-org/cube/schema"
)

// bannerWidth is the width of the "=" rule around table titles.
const bannerWidth = 60

// Table writes an aligned text table: a title banner, a header line, a rule
// and one line per row. Each column is padded to its widest cell.
func Table(w io.Writer, t TableData) error {
	headers := t.Headers()

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}

	var b strings.Builder
	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(&b, "\n%s\n%s\n%s\n", rule, t.Title, rule)

	header := formatLine(headers, widths)
	b.WriteString(header + "\n")
	b.WriteString("|" + strings.Repeat("-", max(utf8.RuneCountInString(header)-2, 0)) + "|\n")
	for _, row := range t.Rows {
		b.WriteString(formatLine(row, widths) + "\n")
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func formatLine(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = cell + strings.Repeat(" ", width-utf8.RuneCountInString(cell))
	}
	return "| " + strings.Join(parts, " | ") + " |"
}

// ============================================================================
// OPERATION REPORTS
// ============================================================================

// Levels writes every level of a rollup or drilldown.
func Levels(w io.Writer, op string, levels []engine.Level, sch schema.Config) error {
	for _, l := range levels {
		if err := Table(w, BuildLevelTable(op, l, sch)); err != nil {
			return err
		}
	}
	return nil
}

// Slice writes the stats and sample tables, or the no-data message.
func Slice(w io.Writer, res *engine.SliceResult, sch schema.Config) error {
	if res.NoData {
		_, err := fmt.Fprintf(w, "No data found for %s = %s\n", res.Dimension, res.Value)
		return err
	}
	title := fmt.Sprintf("Slice: %s = %s", res.Dimension, res.Value)
	if err := Table(w, BuildStatsTable(title, res.Stats)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sample records (first %d):\n", len(res.Sample.Rows)); err != nil {
		return err
	}
	return Table(w, BuildSampleTable(res.Sample, sch))
}

// Dice writes the match count, stats and distribution, or the no-data message.
func Dice(w io.Writer, res *engine.DiceResult, sch schema.Config) error {
	if res.NoData {
		_, err := fmt.Fprintln(w, "No data found matching the conditions")
		return err
	}
	if _, err := fmt.Fprintf(w, "Found %d records matching conditions\n", res.Matched); err != nil {
		return err
	}
	if err := Table(w, BuildStatsTable("Dice Results", res.Stats)); err != nil {
		return err
	}
	return Table(w, BuildDistributionTable(res.Distribution, sch))
}
