// Package wine describes the red wine quality dataset: its schema and the
// classifiers that bucket alcohol, pH and density into range dimensions.
package wine

import (
	_ "embed"

	"github.com/spektr-org/cube/engine"
	"github.com/spektr-org/cube/schema"
)

//go:embed schema.yaml
var schemaYAML []byte

// Derived dimension keys.
const (
	AlcoholRange = "alcohol_range"
	PHRange      = "pH_range"
	DensityRange = "density_range"
)

// Default measures used by the demo operations.
var (
	SliceMeasures = []string{"fixed acidity", "volatile acidity", "alcohol"}
	DiceMeasures  = []string{"fixed acidity", "volatile acidity", "citric acid"}
)

// All three classifiers put a value equal to a bound in the upper bucket.
var (
	ClassifyAlcohol = engine.MustThresholds(
		[]float64{9.5, 11.5},
		[]string{"Low (< 9.5)", "Medium (9.5-11.5)", "High (> 11.5)"},
	)
	ClassifyPH = engine.MustThresholds(
		[]float64{3.2, 3.4},
		[]string{"Very Acidic (< 3.2)", "Acidic (3.2-3.4)", "Less Acidic (> 3.4)"},
	)
	ClassifyDensity = engine.MustThresholds(
		[]float64{0.996, 0.998},
		[]string{"Light (< 0.996)", "Medium (0.996-0.998)", "Heavy (> 0.998)"},
	)
)

// Schema returns the embedded dataset schema.
func Schema() (schema.Config, error) {
	cfg, err := schema.Parse(schemaYAML, schema.FormatYAML)
	if err != nil {
		return schema.Config{}, err
	}
	return *cfg, nil
}

// SchemaYAML returns the raw embedded schema document.
func SchemaYAML() []byte {
	return append([]byte(nil), schemaYAML...)
}

// Classifiers returns the derived-dimension classifiers keyed by dimension.
func Classifiers() engine.Classifiers {
	return engine.Classifiers{
		AlcoholRange: ClassifyAlcohol,
		PHRange:      ClassifyPH,
		DensityRange: ClassifyDensity,
	}
}

// Load builds a wine record store from raw rows.
func Load(rows []engine.RawRow) (*engine.Store, error) {
	sch, err := Schema()
	if err != nil {
		return nil, err
	}
	return engine.Load(rows, sch, Classifiers())
}
