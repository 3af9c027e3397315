package schema

// ============================================================================
// SCHEMA: Describes the shape of a dataset for the cube
// ============================================================================
// Loaded from YAML/JSON files or built in code by dataset packages.
// The engine uses the schema to type raw rows, attach derived dimensions,
// and reject operations that name unknown fields.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions" yaml:"dimensions"`
	Measures   []MeasureMeta   `json:"measures" yaml:"measures"`

	// Columns shown for sample records in slice results
	SampleColumns []string `json:"sampleColumns,omitempty" yaml:"sampleColumns,omitempty"`

	// Dimension whose value distribution is reported by dice
	DistributionDimension string `json:"distributionDimension,omitempty" yaml:"distributionDimension,omitempty"`
}

// DimensionKind is the type of a dimension's labels.
type DimensionKind string

const (
	KindText DimensionKind = "text"
	KindInt  DimensionKind = "int"
)

// DimensionMeta describes a categorical field used for grouping/filtering.
type DimensionMeta struct {
	Key         string        `json:"key" yaml:"key"`
	DisplayName string        `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Kind        DimensionKind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Measure this dimension is bucketed from. Empty for raw dimensions.
	DerivedFrom string       `json:"derivedFrom,omitempty" yaml:"derivedFrom,omitempty"`
	Buckets     []BucketMeta `json:"buckets,omitempty" yaml:"buckets,omitempty"`
}

// BucketMeta is one half-open bucket of a derived dimension.
// Below is the exclusive upper bound; nil marks the open-ended last bucket.
type BucketMeta struct {
	Below *float64 `json:"below,omitempty" yaml:"below,omitempty"`
	Label string   `json:"label" yaml:"label"`
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key         string `json:"key" yaml:"key"`
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Unit        string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// IsDerived reports whether the dimension is computed by a classifier.
func (d DimensionMeta) IsDerived() bool {
	return d.DerivedFrom != ""
}

// Label returns the display name, falling back to the key.
func (d DimensionMeta) Label() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.Key
}

// Label returns the display name, falling back to the key.
func (m MeasureMeta) Label() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Key
}

// DefaultDimension creates a raw text DimensionMeta.
func DefaultDimension(key, displayName string) DimensionMeta {
	return DimensionMeta{
		Key:         key,
		DisplayName: displayName,
		Kind:        KindText,
	}
}

// DefaultMeasure creates a MeasureMeta.
func DefaultMeasure(key, displayName string) MeasureMeta {
	return MeasureMeta{
		Key:         key,
		DisplayName: displayName,
	}
}

// Dimension looks up a dimension by key.
func (c Config) Dimension(key string) (DimensionMeta, bool) {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d, true
		}
	}
	return DimensionMeta{}, false
}

// Measure looks up a measure by key.
func (c Config) Measure(key string) (MeasureMeta, bool) {
	for _, m := range c.Measures {
		if m.Key == key {
			return m, true
		}
	}
	return MeasureMeta{}, false
}

// HasDimension reports whether key is a declared dimension.
func (c Config) HasDimension(key string) bool {
	_, ok := c.Dimension(key)
	return ok
}

// HasMeasure reports whether key is a declared measure.
func (c Config) HasMeasure(key string) bool {
	_, ok := c.Measure(key)
	return ok
}

// FieldLabel returns the display label for a dimension or measure key.
func (c Config) FieldLabel(key string) string {
	if d, ok := c.Dimension(key); ok {
		return d.Label()
	}
	if m, ok := c.Measure(key); ok {
		return m.Label()
	}
	return key
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// RawDimensions returns the dimensions read directly from source rows.
func (c Config) RawDimensions() []DimensionMeta {
	var out []DimensionMeta
	for _, d := range c.Dimensions {
		if !d.IsDerived() {
			out = append(out, d)
		}
	}
	return out
}

// DerivedDimensions returns the dimensions computed by classifiers.
func (c Config) DerivedDimensions() []DimensionMeta {
	var out []DimensionMeta
	for _, d := range c.Dimensions {
		if d.IsDerived() {
			out = append(out, d)
		}
	}
	return out
}
