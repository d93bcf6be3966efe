package snapshot

import (
	"errors"
	"slices"
	"time"

	"sprintcap/internal/ado"
	"sprintcap/internal/capacity"
)

// FormatVersion is bumped whenever the on-disk layout changes incompatibly.
const FormatVersion = 1

var (
	ErrNotCaptured = errors.New("input not captured in snapshot")
	ErrNoSnapshot  = errors.New("no usable snapshot")
)

// TeamSnapshot holds every input a capacity report for one team needs.
// A nil slice means the piece was never fetched; an empty one means the
// provider returned nothing.
type TeamSnapshot struct {
	Version     int                         `json:"version"`
	Team        ado.Team                    `json:"team"`
	FetchedAt   time.Time                   `json:"fetchedAt"`
	WorkingDays *capacity.WorkingDayPattern `json:"workingDays,omitempty"`
	Members     []ado.Member                `json:"members"`
	Iterations  []capacity.Iteration        `json:"iterations"`
	Inputs      map[string]*IterationInputs `json:"inputs"`
}

// IterationInputs are the per-iteration fetch results.
type IterationInputs struct {
	Capacities []capacity.MemberCapacityEntry `json:"capacities"`
	DaysOff    []capacity.DateRange           `json:"daysOff"`
	WorkItems  []capacity.WorkItemRecord      `json:"workItems"`
}

// New creates an empty snapshot for a team.
func New(team ado.Team, fetchedAt time.Time) *TeamSnapshot {
	return &TeamSnapshot{
		Version:   FormatVersion,
		Team:      team,
		FetchedAt: fetchedAt.UTC(),
		Inputs:    make(map[string]*IterationInputs),
	}
}

// Input returns the inputs of an iteration, creating them when missing.
func (s *TeamSnapshot) Input(iterationID string) *IterationInputs {
	if s.Inputs == nil {
		s.Inputs = make(map[string]*IterationInputs)
	}
	in, ok := s.Inputs[iterationID]
	if !ok {
		in = &IterationInputs{}
		s.Inputs[iterationID] = in
	}
	return in
}

// Clone returns a deep copy.
func (s *TeamSnapshot) Clone() *TeamSnapshot {
	c := *s
	if s.WorkingDays != nil {
		p := *s.WorkingDays
		c.WorkingDays = &p
	}
	c.Members = slices.Clone(s.Members)
	c.Iterations = slices.Clone(s.Iterations)
	c.Inputs = make(map[string]*IterationInputs, len(s.Inputs))
	for id, in := range s.Inputs {
		c.Inputs[id] = &IterationInputs{
			Capacities: slices.Clone(in.Capacities),
			DaysOff:    slices.Clone(in.DaysOff),
			WorkItems:  slices.Clone(in.WorkItems),
		}
	}
	return &c
}

// nonNil keeps "fetched but empty" distinguishable from "never fetched".
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
