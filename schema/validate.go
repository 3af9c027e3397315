package schema

import (
	"errors"
	"fmt"
)

// Validate checks the schema for internal consistency.
// All problems are reported together.
func (c Config) Validate() error {
	var errs []error
	seen := make(map[string]string)

	claim := func(key, what string) {
		if key == "" {
			errs = append(errs, fmt.Errorf("%s with empty key", what))
			return
		}
		if prev, ok := seen[key]; ok {
			errs = append(errs, fmt.Errorf("key %q declared as both %s and %s", key, prev, what))
			return
		}
		seen[key] = what
	}

	for _, m := range c.Measures {
		claim(m.Key, "measure")
	}

	for _, d := range c.Dimensions {
		claim(d.Key, "dimension")

		switch d.Kind {
		case KindText, KindInt, "":
		default:
			errs = append(errs, fmt.Errorf("dimension %q: unknown kind %q", d.Key, d.Kind))
		}

		if !d.IsDerived() {
			if len(d.Buckets) > 0 {
				errs = append(errs, fmt.Errorf("dimension %q: buckets require derivedFrom", d.Key))
			}
			continue
		}

		if d.Kind == KindInt {
			errs = append(errs, fmt.Errorf("dimension %q: derived dimensions carry text labels", d.Key))
		}
		if !c.HasMeasure(d.DerivedFrom) {
			errs = append(errs, fmt.Errorf("dimension %q: derivedFrom %q is not a measure", d.Key, d.DerivedFrom))
		}
		if err := validateBuckets(d); err != nil {
			errs = append(errs, err)
		}
	}

	for _, key := range c.SampleColumns {
		if !c.HasDimension(key) && !c.HasMeasure(key) {
			errs = append(errs, fmt.Errorf("sample column %q is not a dimension or measure", key))
		}
	}

	if c.DistributionDimension != "" && !c.HasDimension(c.DistributionDimension) {
		errs = append(errs, fmt.Errorf("distribution dimension %q is not declared", c.DistributionDimension))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid schema %q: %w", c.Name, errors.Join(errs...))
	}
	return nil
}

// validateBuckets checks that bounds ascend and only the last bucket is open.
// A derived dimension without buckets expects a classifier supplied in code.
func validateBuckets(d DimensionMeta) error {
	if len(d.Buckets) == 0 {
		return nil
	}

	for i, b := range d.Buckets {
		last := i == len(d.Buckets)-1
		if b.Label == "" {
			return fmt.Errorf("dimension %q: bucket %d has no label", d.Key, i)
		}
		if last && b.Below != nil {
			return fmt.Errorf("dimension %q: last bucket must be open-ended", d.Key)
		}
		if !last && b.Below == nil {
			return fmt.Errorf("dimension %q: bucket %d needs an upper bound", d.Key, i)
		}
		if i > 0 && !last && *b.Below <= *d.Buckets[i-1].Below {
			return fmt.Errorf("dimension %q: bucket bounds must ascend", d.Key)
		}
	}
	return nil
}
