package engine

import (
	"fmt"

	"github.com/spektr-org/cube/schema"
)

// ============================================================================
// CLASSIFIERS: Continuous measure → discrete dimension label
// ============================================================================
// Buckets are half-open [lo, hi). A value equal to a bound belongs to the
// next bucket; the last bucket is open-ended upward.
// ============================================================================

// Classifier maps a measure value to a bucket label.
// Implementations must be pure and total over float64.
type Classifier func(value float64) string

// Classifiers maps a derived dimension key to its classifier.
type Classifiers map[string]Classifier

// Thresholds builds a Classifier from ascending bounds and len(bounds)+1 labels.
// labels[i] is chosen for the first bound with value < bounds[i]; otherwise
// the last label. NaN compares false everywhere and lands in the last bucket.
func Thresholds(bounds []float64, labels []string) (Classifier, error) {
	if len(labels) != len(bounds)+1 {
		return nil, fmt.Errorf("thresholds: %d bounds need %d labels, got %d", len(bounds), len(bounds)+1, len(labels))
	}
	for i := 1; i < len(bounds); i++ {
		if bounds[i] <= bounds[i-1] {
			return nil, fmt.Errorf("thresholds: bounds must ascend (%g after %g)", bounds[i], bounds[i-1])
		}
	}

	b := append([]float64(nil), bounds...)
	l := append([]string(nil), labels...)

	return func(value float64) string {
		for i, bound := range b {
			if value < bound {
				return l[i]
			}
		}
		return l[len(l)-1]
	}, nil
}

// MustThresholds is Thresholds for package-level classifier tables.
func MustThresholds(bounds []float64, labels []string) Classifier {
	c, err := Thresholds(bounds, labels)
	if err != nil {
		panic(err)
	}
	return c
}

// BucketClassifiers builds classifiers for every derived dimension that
// declares buckets in the schema. Dimensions without buckets are skipped.
func BucketClassifiers(sch schema.Config) (Classifiers, error) {
	out := make(Classifiers)
	for _, d := range sch.DerivedDimensions() {
		if len(d.Buckets) == 0 {
			continue
		}
		bounds := make([]float64, 0, len(d.Buckets)-1)
		labels := make([]string, 0, len(d.Buckets))
		for _, b := range d.Buckets {
			if b.Below != nil {
				bounds = append(bounds, *b.Below)
			}
			labels = append(labels, b.Label)
		}
		c, err := Thresholds(bounds, labels)
		if err != nil {
			return nil, fmt.Errorf("dimension %q: %w", d.Key, err)
		}
		out[d.Key] = c
	}
	return out, nil
}

// Merge returns a new set with other's entries overriding c's.
func (c Classifiers) Merge(other Classifiers) Classifiers {
	out := make(Classifiers, len(c)+len(other))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
