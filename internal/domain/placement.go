package domain

// Calendar placement rules. Cycle ranges are half-open [start, end):
// two same-kind cycles for one athlete must not overlap, and a microcycle
// must be a subset of its mesocycle's range.

func rangesOverlap(aStart, aEnd, bStart, bEnd int64) bool {
	return aStart < bEnd && bStart < aEnd
}

// ValidateMesocyclePlacement rejects a mesocycle range that overlaps a
// sibling mesocycle. ignoreID skips the cycle being moved or resized.
func ValidateMesocyclePlacement(start, end int64, siblings []Mesocycle, ignoreID string) error {
	if start >= end {
		return ErrInvalidDate
	}
	for _, s := range siblings {
		if s.ID == ignoreID {
			continue
		}
		if rangesOverlap(start, end, s.StartTime, s.EndTime) {
			return ErrCycleOverlap
		}
	}
	return nil
}

// ValidateMicrocyclePlacement rejects a microcycle range that escapes its
// mesocycle or overlaps a sibling microcycle of the same mesocycle.
func ValidateMicrocyclePlacement(start, end int64, parent Mesocycle, siblings []Microcycle, ignoreID string) error {
	if start >= end {
		return ErrInvalidDate
	}
	if start < parent.StartTime || end > parent.EndTime {
		return ErrCycleNotContained
	}
	for _, s := range siblings {
		if s.ID == ignoreID {
			continue
		}
		if rangesOverlap(start, end, s.StartTime, s.EndTime) {
			return ErrCycleOverlap
		}
	}
	return nil
}

// MicrocycleContains reports whether the cycle range covers the date.
func MicrocycleContains(m Microcycle, date int64) bool {
	return date >= m.StartTime && date < m.EndTime
}
