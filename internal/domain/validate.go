package domain

import (
	"strings"
	"time"
)

// DateLayout is the textual format accepted from clients.
const DateLayout = "02-01-2006"

// ParseDate converts the textual client format to epoch milliseconds (UTC).
// Malformed or out-of-range inputs (e.g. day 32) yield ErrInvalidDate.
func ParseDate(value string) (int64, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return 0, ErrInvalidDate
	}
	return t.UnixMilli(), nil
}

// FormatDate renders an epoch-millis timestamp in the client format.
func FormatDate(millis int64) string {
	return time.UnixMilli(millis).UTC().Format(DateLayout)
}

// ValidName checks the 1..64 length rule shared by all name fields.
func ValidName(name string) bool {
	n := len(strings.TrimSpace(name))
	return n >= 1 && n <= 64
}

var gymCategories = map[string]struct{}{
	"shoulders": {},
	"chest":     {},
	"back":      {},
	"legs":      {},
	"arms":      {},
	"core":      {},
	"cardio":    {},
}

// ValidCategory checks a gym exercise category, case-insensitively.
func ValidCategory(category string) bool {
	_, ok := gymCategories[strings.ToLower(strings.TrimSpace(category))]
	return ok
}

// ValidActivityKind checks the activity kind tag, case-insensitively.
func ValidActivityKind(kind string) bool {
	switch ActivityKind(strings.ToLower(strings.TrimSpace(kind))) {
	case KindGym, KindWater:
		return true
	}
	return false
}

// ValidSet checks that reps, weight, and rest time are all non-negative.
func ValidSet(reps int, weight float64, restTime int) bool {
	return reps >= 0 && weight >= 0 && restTime >= 0
}

// ValidRPE checks the rate of perceived exertion range.
func ValidRPE(rpe int) bool { return rpe >= 1 && rpe <= 10 }

// ValidTRIMP checks the training impulse range.
func ValidTRIMP(trimp int) bool { return trimp >= 1 && trimp <= 200 }

// ValidDuration checks that a session duration is positive.
func ValidDuration(duration int) bool { return duration > 0 }

// ValidQuestionnaireScore checks one wellness sub-score.
func ValidQuestionnaireScore(score int) bool { return score >= 1 && score <= 5 }
