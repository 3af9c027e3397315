package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ============================================================================
// AUTO-DISCOVERY: Heuristic schema from sample rows
// ============================================================================
// Inspects raw rows and drafts a Config that can be saved and hand-edited
// (display names, derived buckets) before use.
//
// Classification per column:
//   1. Numeric with decimals          → measure
//   2. Integer with low cardinality   → int dimension (e.g. a 3-8 score)
//   3. Integer otherwise              → measure
//   4. Text unique per row            → skipped (identifier)
//   5. Text otherwise                 → text dimension
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	Name       string // Dataset name (default "Discovered Dataset")
	SampleSize int    // Max rows to inspect (0 = all)
}

// SkippedColumn is a column discovery left out of the schema.
type SkippedColumn struct {
	Column string
	Reason string
}

// Discover drafts a Config from a header and rows keyed by header name.
// Keys are the header names verbatim so the schema matches the loader's rows.
func Discover(header []string, rows []map[string]string, opts ...DiscoverOptions) (*Config, []SkippedColumn, error) {
	var opt DiscoverOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.Name == "" {
		opt.Name = "Discovered Dataset"
	}

	if len(header) == 0 {
		return nil, nil, errors.New("no columns to discover")
	}
	if opt.SampleSize > 0 && len(rows) > opt.SampleSize {
		rows = rows[:opt.SampleSize]
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("no data rows to discover from")
	}

	cfg := &Config{Name: opt.Name, Version: "1.0"}
	var skipped []SkippedColumn

	for _, key := range header {
		col := analyzeColumn(key, rows)
		switch col.role {
		case roleMeasure:
			cfg.Measures = append(cfg.Measures, DefaultMeasure(key, displayName(key)))
		case roleDimension:
			d := DefaultDimension(key, displayName(key))
			if col.integer {
				d.Kind = KindInt
			}
			cfg.Dimensions = append(cfg.Dimensions, d)
		default:
			skipped = append(skipped, SkippedColumn{Column: key, Reason: col.skipReason})
		}
	}

	if len(cfg.Measures) == 0 {
		return nil, skipped, fmt.Errorf("no numeric columns found among %d columns", len(header))
	}
	for _, d := range cfg.Dimensions {
		if d.Kind == KindInt {
			cfg.DistributionDimension = d.Key
			break
		}
	}

	cfg.setDefaults()
	return cfg, skipped, nil
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnRole int

const (
	roleDimension columnRole = iota
	roleMeasure
	roleSkipped
)

type columnAnalysis struct {
	role       columnRole
	integer    bool
	skipReason string
}

func analyzeColumn(key string, rows []map[string]string) columnAnalysis {
	unique := make(map[string]bool)
	numeric, decimals := true, false
	values := 0

	for _, row := range rows {
		v := strings.TrimSpace(row[key])
		if v == "" {
			continue
		}
		values++
		unique[v] = true

		if !numeric {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			numeric = false
			continue
		}
		if strings.ContainsAny(v, ".eE") {
			decimals = true
		}
	}

	if values == 0 {
		return columnAnalysis{role: roleSkipped, skipReason: "all values are empty"}
	}

	total := len(rows)
	if numeric {
		if decimals {
			return columnAnalysis{role: roleMeasure}
		}
		// Few distinct codes relative to the row count → coded dimension.
		ratio := float64(len(unique)) / float64(total)
		if len(unique) < 20 && ratio < 0.3 {
			return columnAnalysis{role: roleDimension, integer: true}
		}
		return columnAnalysis{role: roleMeasure}
	}

	if len(unique) == total && total > 10 {
		return columnAnalysis{role: roleSkipped, skipReason: "unique per row, likely an identifier"}
	}
	return columnAnalysis{role: roleDimension}
}

// displayName capitalises each word of a header: "fixed acidity" → "Fixed Acidity".
// Words that already contain an upper-case letter ("pH") are kept.
func displayName(header string) string {
	words := strings.Fields(strings.ReplaceAll(header, "_", " "))
	for i, w := range words {
		if strings.ToLower(w) != w {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
