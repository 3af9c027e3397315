package engine

// ============================================================================
// RECORD VIEW: Read-only Data Access Interface
// ============================================================================
// Operations never touch store records directly. They read through this
// interface, which keeps the store read-only after construction.
//
// Implementations:
//   SliceView: wraps the store's []Record
//   SubView: filtered or grouped subset (indices into parent, zero-copy)
// ============================================================================

// RecordView provides indexed access to a dataset.
// Grouping and filtering call Dimension/Measure in tight loops.
type RecordView interface {
	Len() int
	Dimension(index int, key string) Value
	Measure(index int, key string) float64
	DimensionKeys() []string // available dimension keys
	MeasureKeys() []string   // available measure keys
}

// ============================================================================
// SLICE VIEW: wraps []Record
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
type SliceView struct {
	records []Record
	dimKeys []string
	mesKeys []string
}

// NewSliceView creates a RecordView over records with the given key order.
func NewSliceView(records []Record, dimKeys, mesKeys []string) RecordView {
	return &SliceView{records: records, dimKeys: dimKeys, mesKeys: mesKeys}
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Dimension(i int, key string) Value {
	if i < 0 || i >= len(v.records) {
		return Value{}
	}
	return v.records[i].Dimensions[key]
}

func (v *SliceView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.records) {
		return 0
	}
	return v.records[i].Measures[key]
}

func (v *SliceView) DimensionKeys() []string { return v.dimKeys }
func (v *SliceView) MeasureKeys() []string   { return v.mesKeys }

// ============================================================================
// SUB VIEW: filtered subset (zero-copy)
// ============================================================================

// SubView is a subset of a parent RecordView.
// Holds indices into the parent, in parent order.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) Value {
	if i < 0 || i >= len(v.indices) {
		return Value{}
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.indices) {
		return 0
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// Head returns a view of at most n leading records of view.
func Head(view RecordView, n int) RecordView {
	if n >= view.Len() {
		return view
	}
	if n < 0 {
		n = 0
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return newSubView(view, indices)
}

// MeasureValues collects one measure across a view, in view order.
func MeasureValues(view RecordView, measure string) []float64 {
	values := make([]float64, view.Len())
	for i := range values {
		values[i] = view.Measure(i, measure)
	}
	return values
}
