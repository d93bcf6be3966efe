package snapshot

import (
	"context"
	"fmt"

	"sprintcap/internal/ado"
	"sprintcap/internal/capacity"
	"sprintcap/internal/planning"
)

// Replay serves a recorded snapshot as a planning.Source.
type Replay struct {
	snap *TeamSnapshot
}

var _ planning.Source = (*Replay)(nil)

func NewReplay(snap *TeamSnapshot) *Replay {
	return &Replay{snap: snap}
}

func (r *Replay) Teams(context.Context) ([]ado.Team, error) {
	return []ado.Team{r.snap.Team}, nil
}

func (r *Replay) ResolveTeam(_ context.Context, nameOrID string) (ado.Team, error) {
	return ado.FindTeam([]ado.Team{r.snap.Team}, nameOrID)
}

func (r *Replay) check(team ado.Team) error {
	if team.ID != r.snap.Team.ID {
		return fmt.Errorf("team %s: %w", team.Name, ErrNotCaptured)
	}
	return nil
}

func (r *Replay) WorkingDays(_ context.Context, team ado.Team) (capacity.WorkingDayPattern, error) {
	if err := r.check(team); err != nil {
		return capacity.WorkingDayPattern{}, err
	}
	if r.snap.WorkingDays == nil {
		return capacity.WorkingDayPattern{}, fmt.Errorf("working days: %w", ErrNotCaptured)
	}
	return *r.snap.WorkingDays, nil
}

func (r *Replay) Iterations(_ context.Context, team ado.Team) ([]capacity.Iteration, error) {
	if err := r.check(team); err != nil {
		return nil, err
	}
	if r.snap.Iterations == nil {
		return nil, fmt.Errorf("iterations: %w", ErrNotCaptured)
	}
	return r.snap.Iterations, nil
}

func (r *Replay) Members(_ context.Context, team ado.Team) ([]ado.Member, error) {
	if err := r.check(team); err != nil {
		return nil, err
	}
	if r.snap.Members == nil {
		return nil, fmt.Errorf("members: %w", ErrNotCaptured)
	}
	return r.snap.Members, nil
}

func (r *Replay) input(team ado.Team, iterationID string) (*IterationInputs, error) {
	if err := r.check(team); err != nil {
		return nil, err
	}
	in, ok := r.snap.Inputs[iterationID]
	if !ok {
		return nil, fmt.Errorf("iteration %s: %w", iterationID, ErrNotCaptured)
	}
	return in, nil
}

func (r *Replay) Capacities(_ context.Context, team ado.Team, iterationID string) ([]capacity.MemberCapacityEntry, error) {
	in, err := r.input(team, iterationID)
	if err != nil {
		return nil, err
	}
	if in.Capacities == nil {
		return nil, fmt.Errorf("capacities of iteration %s: %w", iterationID, ErrNotCaptured)
	}
	return in.Capacities, nil
}

func (r *Replay) TeamDaysOff(_ context.Context, team ado.Team, iterationID string) ([]capacity.DateRange, error) {
	in, err := r.input(team, iterationID)
	if err != nil {
		return nil, err
	}
	if in.DaysOff == nil {
		return nil, fmt.Errorf("team days off of iteration %s: %w", iterationID, ErrNotCaptured)
	}
	return in.DaysOff, nil
}

func (r *Replay) WorkItems(_ context.Context, team ado.Team, iterationID string) ([]capacity.WorkItemRecord, error) {
	in, err := r.input(team, iterationID)
	if err != nil {
		return nil, err
	}
	if in.WorkItems == nil {
		return nil, fmt.Errorf("work items of iteration %s: %w", iterationID, ErrNotCaptured)
	}
	return in.WorkItems, nil
}
