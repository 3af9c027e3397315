package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spektr-org/cube/engine"
)

// ============================================================================
// DELIMITED TEXT HELPER: Parses header + rows into []engine.RawRow
// ============================================================================
// Consumer reads the bytes from wherever they live (file, HTTP, embed).
// Values stay raw text; typing against the schema happens in engine.Load.
// ============================================================================

// delimiters tried by auto-detection, most specific first.
var delimiters = []rune{';', '\t', ','}

// ParseDelimited parses delimited text with a header row into raw rows.
// delim 0 auto-detects among ';', tab and ','. Header names are trimmed and
// stripped of quotes. Returns the rows and the cleaned header.
func ParseDelimited(data []byte, delim rune) ([]engine.RawRow, []string, error) {
	if delim == 0 {
		delim = DetectDelimiter(data)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	// Read header
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, errors.New("input has no header row")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = cleanHeader(h)
	}

	// Read rows
	var rows []engine.RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row: %w", err)
		}
		if isBlank(record) {
			continue
		}
		if len(record) < len(keys) {
			line, _ := reader.FieldPos(0)
			return nil, nil, fmt.Errorf("line %d: %d values for %d columns", line, len(record), len(keys))
		}

		row := make(engine.RawRow, len(keys))
		for i, key := range keys {
			row[key] = strings.TrimSpace(record[i])
		}
		rows = append(rows, row)
	}

	return rows, keys, nil
}

// DetectDelimiter picks the candidate that occurs most often in the first line.
// Ties go to the earlier candidate; no match falls back to ','.
func DetectDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}

	best, bestCount := ',', 0
	for _, d := range delimiters {
		if n := bytes.Count(first, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// cleanHeader trims whitespace and removes all quotes.
func cleanHeader(h string) string {
	h = strings.TrimSpace(h)
	h = strings.ReplaceAll(h, `"`, "")
	return strings.TrimSpace(h)
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
