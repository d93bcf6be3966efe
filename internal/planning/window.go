package planning

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"sprintcap/internal/capacity"
)

// DateLayout is the calendar date format accepted on every input surface.
const DateLayout = "2006-01-02"

var ErrInvalidWindow = errors.New("invalid date window: start must be before end")

// Window is the caller's date range for selecting iterations. Both bounds are
// UTC calendar days and inclusive.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow snaps both bounds to their UTC calendar day. The start day must
// be strictly before the end day.
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: SnapToDay(start), End: SnapToDay(end)}
	if !w.Start.Before(w.End) {
		return Window{}, fmt.Errorf("%w (%s, %s)", ErrInvalidWindow, w.Start.Format(DateLayout), w.End.Format(DateLayout))
	}
	return w, nil
}

// ParseWindow parses YYYY-MM-DD bounds.
func ParseWindow(from, to string) (Window, error) {
	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return Window{}, fmt.Errorf("invalid start date %q: %w", from, err)
	}
	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return Window{}, fmt.Errorf("invalid end date %q: %w", to, err)
	}
	return NewWindow(start, end)
}

// SnapToDay normalizes a timestamp to 00:00 of its UTC calendar day.
func SnapToDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Contains reports whether the UTC calendar day of t lies in the window.
func (w Window) Contains(t time.Time) bool {
	d := SnapToDay(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

func (w Window) String() string {
	return w.Start.Format(DateLayout) + ".." + w.End.Format(DateLayout)
}

// SelectIterations keeps the scheduled iterations whose start day lies in the
// window, ordered by start. The finish date is not compared.
func SelectIterations(iterations []capacity.Iteration, w Window) []capacity.Iteration {
	var selected []capacity.Iteration
	for _, it := range iterations {
		if !it.IsScheduled() {
			continue
		}
		if w.Contains(it.Start) {
			selected = append(selected, it)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Start.Before(selected[j].Start)
	})
	return selected
}
