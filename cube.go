// Package cube provides an in-memory OLAP cube over tabular records.
// Rollup, drilldown, slice and dice for any dataset with a schema.
//
// Usage:
//
//	import "github.com/spektr-org/cube/engine"
//
//	store, err := engine.Load(rows, sch, classifiers)
//	c := engine.New(store, engine.WithPrecision(2))
//	levels, err := c.Rollup([]string{"alcohol_range", "quality"}, "fixed acidity", engine.AggAvg)
//
// Loading rows from CSV or SQLite lives in the helpers package, text/CSV/JSON
// output in render, and the red wine quality schema in datasets/wine.
// All computation is local and the store is read-only once loaded.
package cube
