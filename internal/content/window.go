// ABOUTME: Calendar-day window around a reference date
// ABOUTME: Used by the recent-events query; boundaries follow local midnight, not 24h offsets

package content

import "time"

// DefaultRecentWindowDays is how many days either side of today count as recent.
const DefaultRecentWindowDays = 2

// RecentWindow returns [start of day (today - days), end of day (today + days)] in loc,
// where end of day is 23:59:59.999. Days are counted on the calendar, so a window that
// spans a DST change is not a multiple of 24 hours.
func RecentWindow(now time.Time, loc *time.Location, days int) (from, to time.Time) {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := now.In(loc).Date()
	from = time.Date(y, m, d-days, 0, 0, 0, 0, loc)
	to = time.Date(y, m, d+days, 23, 59, 59, int(999*time.Millisecond), loc)
	return from, to
}
