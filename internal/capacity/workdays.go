package capacity

import "time"

// WorkingDays counts the days from start to finish (inclusive, by UTC calendar
// day) whose weekday is in pattern and which fall in none of the exclusions.
// It returns 0 when start is after finish or the pattern is empty.
func WorkingDays(pattern WorkingDayPattern, start, finish time.Time, exclusions []DateRange) int {
	if pattern.IsEmpty() {
		return 0
	}

	day := utcDay(start)
	last := utcDay(finish)

	count := 0
	for !day.After(last) {
		if pattern.Contains(day.Weekday()) && !excluded(day, exclusions) {
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	return count
}

func excluded(day time.Time, ranges []DateRange) bool {
	for _, r := range ranges {
		if r.Contains(day) {
			return true
		}
	}
	return false
}
