package planning

import (
	"context"

	"sprintcap/internal/ado"
	"sprintcap/internal/capacity"
)

// Source supplies the already-typed inputs of a capacity report. The Azure
// DevOps client and snapshot replays both implement it.
type Source interface {
	Teams(ctx context.Context) ([]ado.Team, error)
	ResolveTeam(ctx context.Context, nameOrID string) (ado.Team, error)
	WorkingDays(ctx context.Context, team ado.Team) (capacity.WorkingDayPattern, error)
	Iterations(ctx context.Context, team ado.Team) ([]capacity.Iteration, error)
	Members(ctx context.Context, team ado.Team) ([]ado.Member, error)
	Capacities(ctx context.Context, team ado.Team, iterationID string) ([]capacity.MemberCapacityEntry, error)
	TeamDaysOff(ctx context.Context, team ado.Team, iterationID string) ([]capacity.DateRange, error)
	WorkItems(ctx context.Context, team ado.Team, iterationID string) ([]capacity.WorkItemRecord, error)
}

var _ Source = ado.Client(nil)
