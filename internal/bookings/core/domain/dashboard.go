package domain

import (
	"strconv"
	"strings"
)

// DashboardKey identifies the single counters document.
const DashboardKey = "dashboard"

// DashboardCounters is maintained by an external process; all values arrive as strings.
type DashboardCounters struct {
	Key               string
	TotalUsers        string
	NewUsersThisMonth string
	DownloadsToday    string
	DownloadsThisWeek string
	BaseBookedCounter string
}

// ParseCounter returns the numeric value of a counter field, or 0 when the field is
// empty, malformed or negative.
func ParseCounter(v string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (d *DashboardCounters) BaseOffset() int64 {
	if d == nil {
		return 0
	}
	return ParseCounter(d.BaseBookedCounter)
}

func (d *DashboardCounters) Users() int64 {
	if d == nil {
		return 0
	}
	return ParseCounter(d.TotalUsers)
}
