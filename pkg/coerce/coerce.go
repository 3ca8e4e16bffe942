// Package coerce converts raw tabular string values into typed Go values,
// yielding nil instead of an error when a value cannot be parsed.
package coerce

import (
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

const dateLayout = "2006-01-02"

// Float parses s as a decimal number. Returns nil for empty, unparseable,
// NaN or infinite input.
func Float(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Int parses s as an integer. Fractional values are accepted only when the
// fraction is zero, so "3.0" coerces but "3.5" does not.
func Int(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if i, err := cast.ToIntE(s); err == nil {
		return &i
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || math.Trunc(f) != f || math.IsInf(f, 0) {
		return nil
	}
	i := int(f)
	return &i
}

// Date parses s as a YYYY-MM-DD calendar date, falling back to RFC 3339 for
// sources that carry a full timestamp.
func Date(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}

// Round2 rounds to two decimal places, the precision used for all monetary
// values in the pipeline.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}
