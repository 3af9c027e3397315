package engine

import (
	"sort"
)

// ============================================================================
// GROUPING: Partition a view by a tuple of dimension values
// ============================================================================
// Groups are SubViews (index lists into the parent view), sorted by tuple.
// Records inside a group keep the parent's order.
// ============================================================================

// GroupBy partitions view by the ordered dimension keys.
// An empty key list yields one group over the whole view (none if the view
// is empty). Groups are never empty.
func GroupBy(view RecordView, keys []string) ([]Group, error) {
	if err := checkDimensionKeys(view, keys); err != nil {
		return nil, err
	}

	grouped := make(map[string][]int)
	tuples := make(map[string]Tuple)

	for i := 0; i < view.Len(); i++ {
		t := make(Tuple, len(keys))
		for j, k := range keys {
			t[j] = view.Dimension(i, k)
		}
		mk := t.key()
		if _, exists := grouped[mk]; !exists {
			tuples[mk] = t
		}
		grouped[mk] = append(grouped[mk], i)
	}

	groups := make([]Group, 0, len(grouped))
	for mk, indices := range grouped {
		groups = append(groups, Group{
			Key:  tuples[mk],
			View: newSubView(view, indices),
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Key.Compare(groups[j].Key) < 0
	})
	return groups, nil
}

// checkDimensionKeys rejects unknown and repeated grouping keys.
func checkDimensionKeys(view RecordView, keys []string) error {
	known := make(map[string]bool)
	for _, k := range view.DimensionKeys() {
		known[k] = true
	}

	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !known[k] {
			return &UnknownDimensionError{Name: k}
		}
		if seen[k] {
			return &DuplicateDimensionError{Name: k}
		}
		seen[k] = true
	}
	return nil
}

// UniqueValues returns the distinct values of a dimension in natural order.
func UniqueValues(view RecordView, dimension string) []Value {
	seen := make(map[string]bool)
	var result []Value
	for i := 0; i < view.Len(); i++ {
		v := view.Dimension(i, dimension)
		mk := Tuple{v}.key()
		if !seen[mk] {
			seen[mk] = true
			result = append(result, v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Compare(result[j]) < 0 })
	return result
}
