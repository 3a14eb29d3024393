package domain

// ResolveOrder decides the order value to persist for one sibling.
//
// An explicit order that differs from the item's current value is a move
// request and is honoured. Anything else (field absent, or equal to the
// current value) resolves to the item's position in the submitted list.
// Creates pass current = -1 so any explicit order wins.
func ResolveOrder(submitted *int, current, index int) int {
	if submitted != nil && *submitted != current {
		return *submitted
	}
	return index
}

// DistinctOrders reports whether sibling order values are pairwise distinct.
// A violation after reconciliation is a data-integrity error.
func DistinctOrders(orders []int) bool {
	seen := make(map[int]struct{}, len(orders))
	for _, o := range orders {
		if _, dup := seen[o]; dup {
			return false
		}
		seen[o] = struct{}{}
	}
	return true
}
