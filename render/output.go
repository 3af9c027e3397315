package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

// Format selects how results are written.
type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatPretty Format = "pretty"
	FormatCSV    Format = "csv"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(name); f {
	case FormatText, FormatJSON, FormatPretty, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json, pretty or csv)", name)
}

// JSON writes v as JSON; pretty indents it.
func JSON(w io.Writer, v any, pretty bool) error {
	var out []byte
	var err error

	if pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// CSV writes tables one after another, separated by a blank record.
// Each table starts with its header row; titles are not written.
func CSV(w io.Writer, tables ...TableData) error {
	cw := csv.NewWriter(w)
	for i, t := range tables {
		if i > 0 {
			if err := cw.Write([]string{}); err != nil {
				return err
			}
		}
		if err := cw.Write(t.Headers()); err != nil {
			return err
		}
		if err := cw.WriteAll(t.Rows); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
