package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spektr-org/cube/engine"
	"github.com/spektr-org/cube/schema"
)

// parseConditions turns field=value and field=low..high flags into conditions.
func parseConditions(sch schema.Config, where []string) ([]engine.Condition, error) {
	conditions := make([]engine.Condition, 0, len(where))
	for _, w := range where {
		field, rhs, ok := strings.Cut(w, "=")
		if !ok {
			return nil, fmt.Errorf("condition %q: want field=value or field=low..high", w)
		}
		field = strings.TrimSpace(field)

		if low, high, isRange := strings.Cut(rhs, ".."); isRange {
			lo, err := parseFieldValue(sch, field, low)
			if err != nil {
				return nil, err
			}
			hi, err := parseFieldValue(sch, field, high)
			if err != nil {
				return nil, err
			}
			conditions = append(conditions, engine.Between(field, lo, hi))
			continue
		}

		v, err := parseFieldValue(sch, field, rhs)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, engine.Exact(field, v))
	}
	return conditions, nil
}

// parseFieldValue types raw text by the field's schema declaration.
func parseFieldValue(sch schema.Config, field, raw string) (engine.Value, error) {
	if d, ok := sch.Dimension(field); ok {
		v, err := engine.ParseValue(d.Kind, raw)
		if err != nil {
			return engine.Value{}, fmt.Errorf("%s: %w", field, err)
		}
		return v, nil
	}
	if sch.HasMeasure(field) {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return engine.Value{}, fmt.Errorf("%s: %q is not a number", field, raw)
		}
		return engine.Float(f), nil
	}
	return engine.Value{}, &engine.UnknownDimensionError{Name: field}
}

func formatConditions(conditions []engine.Condition) string {
	parts := make([]string, len(conditions))
	for i, c := range conditions {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
