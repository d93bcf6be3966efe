package capacity

import (
	"fmt"
	"strings"
	"time"
)

// Iteration is a single planning period (sprint) of a team.
type Iteration struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Path   string    `json:"path"`
	URL    string    `json:"url,omitempty"`
	Start  time.Time `json:"start"`
	Finish time.Time `json:"finish"` // inclusive
}

// IsScheduled reports whether both iteration dates are known.
func (it Iteration) IsScheduled() bool {
	return !it.Start.IsZero() && !it.Finish.IsZero()
}

// WorkingDayPattern is the immutable set of weekdays a team works on.
type WorkingDayPattern struct {
	mask uint8
}

// NewWorkingDayPattern builds a pattern from weekdays. Out of range values are ignored.
func NewWorkingDayPattern(days ...time.Weekday) WorkingDayPattern {
	var p WorkingDayPattern
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			continue
		}
		p.mask |= 1 << uint(d)
	}
	return p
}

// WeekdayPattern is the Monday to Friday pattern.
func WeekdayPattern() WorkingDayPattern {
	return NewWorkingDayPattern(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
}

// Contains reports whether d is a working day.
func (p WorkingDayPattern) Contains(d time.Weekday) bool {
	if d < time.Sunday || d > time.Saturday {
		return false
	}
	return p.mask&(1<<uint(d)) != 0
}

// IsEmpty reports whether no weekday is marked as working.
func (p WorkingDayPattern) IsEmpty() bool {
	return p.mask == 0
}

// Days returns the working weekdays in Sunday-first order.
func (p WorkingDayPattern) Days() []time.Weekday {
	var days []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if p.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

func (p WorkingDayPattern) String() string {
	names := make([]string, 0, 7)
	for _, d := range p.Days() {
		names = append(names, d.String()[:3])
	}
	return strings.Join(names, ",")
}

func (p WorkingDayPattern) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses the comma separated form produced by String.
func (p *WorkingDayPattern) UnmarshalText(b []byte) error {
	var days []time.Weekday
	for _, part := range strings.Split(string(b), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		found := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			if strings.EqualFold(d.String()[:3], part) {
				days = append(days, d)
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown weekday %q", part)
		}
	}
	*p = NewWorkingDayPattern(days...)
	return nil
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether the UTC calendar day of t lies within the range.
// Time-of-day on t and on both bounds is ignored.
func (r DateRange) Contains(t time.Time) bool {
	d := utcDay(t)
	return !d.Before(utcDay(r.Start)) && !d.After(utcDay(r.End))
}

// Activity is one declared slice of a member's daily capacity.
type Activity struct {
	Name           string  `json:"name"`
	CapacityPerDay float64 `json:"capacityPerDay"`
}

// MemberCapacityEntry is what a member declared for one iteration.
type MemberCapacityEntry struct {
	MemberID   string      `json:"memberId"`
	Activities []Activity  `json:"activities"`
	DaysOff    []DateRange `json:"daysOff,omitempty"`
}

// WorkItemRecord is the slice of a work item the aggregation needs.
// An empty AssigneeID means unassigned; a nil Effort means not estimated.
type WorkItemRecord struct {
	ID         int      `json:"id"`
	AssigneeID string   `json:"assigneeId,omitempty"`
	Effort     *float64 `json:"effort,omitempty"`
}

// CapacityResult is the computed capacity of one member in one iteration.
type CapacityResult struct {
	MemberID    string   `json:"memberId"`
	WorkingDays int      `json:"workingDays"`
	Capacity    *float64 `json:"capacity"` // nil when nothing was declared
}

// EffortResult is the assigned effort of one member in one iteration.
type EffortResult struct {
	MemberID string   `json:"memberId"`
	Effort   *float64 `json:"effort"` // nil when no attributable work exists
}

// IterationTotals sums present capacities and efforts of an iteration.
type IterationTotals struct {
	Capacity float64 `json:"capacity"`
	Effort   float64 `json:"effort"`
}

// Float returns a pointer to a copy of v.
func Float(v float64) *float64 {
	return &v
}

func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
