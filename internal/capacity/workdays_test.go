package capacity

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWorkingDays(t *testing.T) {
	// 2024-03-04 is a Monday.
	mon := day(2024, time.March, 4)
	sun := day(2024, time.March, 10)
	wed := day(2024, time.March, 6)

	tests := []struct {
		name       string
		pattern    WorkingDayPattern
		start      time.Time
		finish     time.Time
		exclusions []DateRange
		want       int
	}{
		{"FullWeek", WeekdayPattern(), mon, sun, nil, 5},
		{"WednesdayOff", WeekdayPattern(), mon, sun, []DateRange{{Start: wed, End: wed}}, 4},
		{"OverlappingExclusions", WeekdayPattern(), mon, sun, []DateRange{
			{Start: mon, End: wed},
			{Start: wed, End: day(2024, time.March, 7)},
		}, 1},
		{"ExclusionOnWeekendIgnored", WeekdayPattern(), mon, sun, []DateRange{{Start: day(2024, time.March, 9), End: sun}}, 5},
		{"StartAfterFinish", WeekdayPattern(), sun, mon, nil, 0},
		{"EmptyPattern", NewWorkingDayPattern(), mon, day(2024, time.December, 31), nil, 0},
		{"SingleDay", WeekdayPattern(), wed, wed, nil, 1},
		{"WeekendPattern", NewWorkingDayPattern(time.Saturday, time.Sunday), mon, sun, nil, 2},
		{"TwoWeekSprint", WeekdayPattern(), mon, day(2024, time.March, 15), nil, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WorkingDays(tt.pattern, tt.start, tt.finish, tt.exclusions); got != tt.want {
				t.Errorf("WorkingDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWorkingDays_TimeOfDayIgnored(t *testing.T) {
	start := time.Date(2024, time.March, 4, 23, 30, 0, 0, time.UTC)
	finish := time.Date(2024, time.March, 8, 0, 1, 0, 0, time.UTC)
	off := DateRange{
		Start: time.Date(2024, time.March, 6, 18, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.March, 6, 1, 0, 0, 0, time.UTC),
	}

	if got := WorkingDays(WeekdayPattern(), start, finish, nil); got != 5 {
		t.Errorf("expected 5 working days, got %d", got)
	}
	if got := WorkingDays(WeekdayPattern(), start, finish, []DateRange{off}); got != 4 {
		t.Errorf("expected 4 working days with Wednesday off, got %d", got)
	}
}

func TestWorkingDays_AcrossDSTBoundary(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	// Clocks go forward on 2024-03-31. Noon local keeps every day on the same UTC date.
	start := time.Date(2024, time.March, 25, 12, 0, 0, 0, loc)
	finish := time.Date(2024, time.April, 5, 12, 0, 0, 0, loc)

	if got := WorkingDays(WeekdayPattern(), start, finish, nil); got != 10 {
		t.Errorf("expected 10 working days across DST change, got %d", got)
	}
}

func TestWorkingDays_ExclusionsNeverIncreaseCount(t *testing.T) {
	start := day(2024, time.January, 1)
	finish := day(2024, time.February, 29)
	base := WorkingDays(WeekdayPattern(), start, finish, nil)

	sets := [][]DateRange{
		{{Start: day(2023, time.December, 1), End: day(2023, time.December, 31)}},
		{{Start: day(2024, time.January, 10), End: day(2024, time.January, 5)}},
		{{Start: day(2024, time.January, 1), End: day(2024, time.March, 31)}},
		{{Start: day(2024, time.February, 1), End: day(2024, time.February, 1)}, {Start: day(2024, time.February, 1), End: day(2024, time.February, 2)}},
	}

	for i, ex := range sets {
		if got := WorkingDays(WeekdayPattern(), start, finish, ex); got > base {
			t.Errorf("set %d: exclusions increased count from %d to %d", i, base, got)
		}
	}
}

func TestWorkingDays_Idempotent(t *testing.T) {
	ex := []DateRange{{Start: day(2024, time.March, 6), End: day(2024, time.March, 6)}}
	first := WorkingDays(WeekdayPattern(), day(2024, time.March, 4), day(2024, time.March, 17), ex)
	second := WorkingDays(WeekdayPattern(), day(2024, time.March, 4), day(2024, time.March, 17), ex)
	if first != second {
		t.Fatalf("expected identical results, got %d and %d", first, second)
	}
}

func TestWorkingDayPattern(t *testing.T) {
	p := NewWorkingDayPattern(time.Monday, time.Friday, time.Weekday(9))

	if !p.Contains(time.Monday) || !p.Contains(time.Friday) {
		t.Error("expected Monday and Friday in pattern")
	}
	if p.Contains(time.Sunday) {
		t.Error("did not expect Sunday in pattern")
	}
	if p.Contains(time.Weekday(9)) {
		t.Error("out of range weekday must never match")
	}
	if got := p.String(); got != "Mon,Fri" {
		t.Errorf("String() = %q, want %q", got, "Mon,Fri")
	}
	if !NewWorkingDayPattern().IsEmpty() {
		t.Error("expected empty pattern")
	}
}

func TestWorkingDayPattern_Text(t *testing.T) {
	p := NewWorkingDayPattern(time.Sunday, time.Wednesday)
	b, err := p.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "Sun,Wed" {
		t.Errorf("MarshalText() = %q", b)
	}

	var back WorkingDayPattern
	if err := back.UnmarshalText(b); err != nil {
		t.Fatal(err)
	}
	if back != p {
		t.Errorf("UnmarshalText() = %v, want %v", back, p)
	}

	if err := back.UnmarshalText([]byte("Mon,Funday")); err == nil {
		t.Error("expected error for unknown weekday")
	}
}
