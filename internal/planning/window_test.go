package planning

import (
	"errors"
	"testing"
	"time"

	"sprintcap/internal/capacity"
)

func TestNewWindow(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{"ordered", day(2024, 3, 1), day(2024, 3, 31), false},
		{"same day", day(2024, 3, 1), day(2024, 3, 1), true},
		{"reversed", day(2024, 3, 31), day(2024, 3, 1), true},
		{"same day different hours", day(2024, 3, 1).Add(2 * time.Hour), day(2024, 3, 1).Add(20 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWindow(tt.start, tt.end)
			if tt.wantErr != (err != nil) {
				t.Fatalf("NewWindow() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidWindow) {
				t.Errorf("expected ErrInvalidWindow, got %v", err)
			}
		})
	}
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := w.String(); got != "2024-03-01..2024-03-31" {
		t.Errorf("String() = %q", got)
	}

	if _, err := ParseWindow("03/01/2024", "2024-03-31"); err == nil {
		t.Error("expected error for malformed start date")
	}
	if _, err := ParseWindow("2024-03-01", ""); err == nil {
		t.Error("expected error for empty end date")
	}
}

func TestSnapToDay(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	in := time.Date(2024, 3, 1, 0, 30, 0, 0, berlin)
	if got := SnapToDay(in); !got.Equal(day(2024, 2, 29)) {
		t.Errorf("SnapToDay() = %v, want 2024-02-29 UTC", got)
	}
	if !SnapToDay(time.Time{}).IsZero() {
		t.Error("zero time should stay zero")
	}
}

func TestSelectIterations(t *testing.T) {
	its := []capacity.Iteration{
		{ID: "late", Start: day(2024, 3, 31), Finish: day(2024, 4, 11)},
		{ID: "before", Start: day(2024, 2, 19), Finish: day(2024, 3, 1)},
		{ID: "first", Start: day(2024, 3, 1).Add(9 * time.Hour), Finish: day(2024, 3, 14)},
		{ID: "unscheduled"},
		{ID: "half", Start: day(2024, 3, 15)},
		{ID: "after", Start: day(2024, 4, 1), Finish: day(2024, 4, 12)},
	}
	w, _ := ParseWindow("2024-03-01", "2024-03-31")

	got := SelectIterations(its, w)
	want := []string{"first", "late"}
	if len(got) != len(want) {
		t.Fatalf("selected %d iterations, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("iteration[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}
