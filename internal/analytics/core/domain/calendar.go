package domain

import (
	"fmt"
	"math"
	"time"
)

const DayLayout = "2006-01-02"

func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

func MonthKey(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

// MonthAbbrev returns the three-letter English month name.
func MonthAbbrev(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()[:3]
}

// MonthStart returns the first instant (UTC) of the month offset months away from t.
func MonthStart(t time.Time, offset int) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
}

// TrailingMonths lists the n calendar months ending with the month of now, oldest first.
func TrailingMonths(now time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, MonthStart(now, -i))
	}
	return out
}

// Growth formats the change from previous to recent as a signed whole percentage.
func Growth(recent, previous int64) string {
	if previous == 0 {
		if recent > 0 {
			return "+100%"
		}
		return "+0%"
	}

	pct := math.Round(float64(recent-previous) / float64(previous) * 100)
	if pct == 0 {
		// drop a negative zero
		pct = 0
	}
	if pct >= 0 {
		return fmt.Sprintf("+%.0f%%", pct)
	}
	return fmt.Sprintf("%.0f%%", pct)
}
