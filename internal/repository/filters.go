package repository

import "strings"

// cond accumulates WHERE fragments with ?-style placeholders. Queries are
// passed through sqlx.Rebind before execution so the fragments stay
// driver-agnostic.
type cond struct {
	clauses []string
	args    []interface{}
}

func (c *cond) add(expr string, args ...interface{}) *cond {
	c.clauses = append(c.clauses, expr)
	c.args = append(c.args, args...)
	return c
}

// addWeekday filters by day-of-week of the stored date, Sunday=0.
func (c *cond) addWeekday(weekday *int) *cond {
	if weekday != nil {
		c.add("EXTRACT(DOW FROM date) = ?", *weekday)
	}
	return c
}

// addFloor filters by floor; nil means all floors, no predicate.
func (c *cond) addFloor(floor *int) *cond {
	if floor != nil {
		c.add("floor = ?", *floor)
	}
	return c
}

// addFloorKey filters by the summary-table floor key, where a nil floor
// selects the all-floors row (floor IS NULL) rather than no predicate.
func (c *cond) addFloorKey(floor *int) *cond {
	if floor != nil {
		c.add("floor = ?", *floor)
	} else {
		c.clauses = append(c.clauses, "floor IS NULL")
	}
	return c
}

func (c *cond) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}
