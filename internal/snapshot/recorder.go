package snapshot

import (
	"context"
	"sync"
	"time"

	"sprintcap/internal/ado"
	"sprintcap/internal/capacity"
	"sprintcap/internal/planning"
)

// Recorder is a planning.Source that forwards to another source and keeps a
// copy of everything it returns. It records a single team; resolving a
// different team starts a fresh snapshot.
type Recorder struct {
	src planning.Source
	now func() time.Time

	mu   sync.Mutex
	snap *TeamSnapshot
}

var _ planning.Source = (*Recorder)(nil)

func NewRecorder(src planning.Source) *Recorder {
	return &Recorder{src: src, now: time.Now}
}

// Snapshot returns a copy of what has been recorded so far, or nil when no
// team was resolved.
func (r *Recorder) Snapshot() *TeamSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snap == nil {
		return nil
	}
	return r.snap.Clone()
}

func (r *Recorder) record(team ado.Team, fn func(s *TeamSnapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snap == nil || r.snap.Team.ID != team.ID {
		r.snap = New(team, r.now())
	}
	fn(r.snap)
}

func (r *Recorder) Teams(ctx context.Context) ([]ado.Team, error) {
	return r.src.Teams(ctx)
}

func (r *Recorder) ResolveTeam(ctx context.Context, nameOrID string) (ado.Team, error) {
	team, err := r.src.ResolveTeam(ctx, nameOrID)
	if err != nil {
		return team, err
	}
	r.record(team, func(*TeamSnapshot) {})
	return team, nil
}

func (r *Recorder) WorkingDays(ctx context.Context, team ado.Team) (capacity.WorkingDayPattern, error) {
	p, err := r.src.WorkingDays(ctx, team)
	if err != nil {
		return p, err
	}
	r.record(team, func(s *TeamSnapshot) { s.WorkingDays = &p })
	return p, nil
}

func (r *Recorder) Iterations(ctx context.Context, team ado.Team) ([]capacity.Iteration, error) {
	its, err := r.src.Iterations(ctx, team)
	if err != nil {
		return nil, err
	}
	r.record(team, func(s *TeamSnapshot) { s.Iterations = nonNil(its) })
	return its, nil
}

func (r *Recorder) Members(ctx context.Context, team ado.Team) ([]ado.Member, error) {
	members, err := r.src.Members(ctx, team)
	if err != nil {
		return nil, err
	}
	r.record(team, func(s *TeamSnapshot) { s.Members = nonNil(members) })
	return members, nil
}

func (r *Recorder) Capacities(ctx context.Context, team ado.Team, iterationID string) ([]capacity.MemberCapacityEntry, error) {
	entries, err := r.src.Capacities(ctx, team, iterationID)
	if err != nil {
		return nil, err
	}
	r.record(team, func(s *TeamSnapshot) { s.Input(iterationID).Capacities = nonNil(entries) })
	return entries, nil
}

func (r *Recorder) TeamDaysOff(ctx context.Context, team ado.Team, iterationID string) ([]capacity.DateRange, error) {
	ranges, err := r.src.TeamDaysOff(ctx, team, iterationID)
	if err != nil {
		return nil, err
	}
	r.record(team, func(s *TeamSnapshot) { s.Input(iterationID).DaysOff = nonNil(ranges) })
	return ranges, nil
}

func (r *Recorder) WorkItems(ctx context.Context, team ado.Team, iterationID string) ([]capacity.WorkItemRecord, error) {
	items, err := r.src.WorkItems(ctx, team, iterationID)
	if err != nil {
		return nil, err
	}
	r.record(team, func(s *TeamSnapshot) { s.Input(iterationID).WorkItems = nonNil(items) })
	return items, nil
}
