package service

import (
	"strings"
	"time"
)

const (
	GranularityDay  = "day"
	GranularityWeek = "week"
)

// Filter carries the query parameters shared by the aggregation
// operations. Nil fields mean "not filtered".
type Filter struct {
	Date        *time.Time
	Floor       *int
	Granularity string
	Weekday     *int // Sunday=0 .. Saturday=6
}

// weekdayRestriction is the effective weekday filter: it only applies at
// week granularity with a specific weekday selected.
func (f Filter) weekdayRestriction() *int {
	if f.Granularity == GranularityWeek {
		return f.Weekday
	}
	return nil
}

// ParseWeekday maps a weekday name to its Sunday=0 index. Unknown names,
// "all" and the empty string mean no weekday filter.
func ParseWeekday(s string) *int {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(s, wd.String()) {
			n := int(wd)
			return &n
		}
	}
	return nil
}
