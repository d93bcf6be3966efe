package planning

import (
	"context"
	"fmt"
	"time"

	"sprintcap/internal/ado"
	"sprintcap/internal/capacity"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Stage is a human-readable progress label emitted before each fetch step.
type Stage struct {
	Label       string `json:"label"`
	IterationID string `json:"iterationId,omitempty"`
}

// Planner orchestrates fetch-then-compute for a capacity report.
type Planner struct {
	source      Source
	concurrency int
	onStage     func(Stage)
	now         func() time.Time
}

// Option configures a Planner.
type Option func(*Planner)

// WithConcurrency bounds how many iterations are fetched in parallel.
// Values below 1 fall back to sequential processing.
func WithConcurrency(n int) Option {
	return func(p *Planner) {
		if n < 1 {
			n = 1
		}
		p.concurrency = n
	}
}

// WithStageHook registers a callback for stage labels. It may be called from
// several goroutines when concurrency is above 1.
func WithStageHook(fn func(Stage)) Option {
	return func(p *Planner) {
		p.onStage = fn
	}
}

// NewPlanner creates a planner reading from source.
func NewPlanner(source Source, opts ...Option) *Planner {
	p := &Planner{
		source:      source,
		concurrency: 1,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Planner) stage(label, iterationID string) {
	log.Info().Str("stage", label).Str("iteration", iterationID).Msg("Planning stage")
	if p.onStage != nil {
		p.onStage(Stage{Label: label, IterationID: iterationID})
	}
}

// Teams lists the teams of the configured project.
func (p *Planner) Teams(ctx context.Context) ([]ado.Team, error) {
	p.stage("Loading teams", "")
	return p.source.Teams(ctx)
}

// Iterations resolves the team and returns the iterations selected by window.
func (p *Planner) Iterations(ctx context.Context, teamRef string, window Window) (ado.Team, []capacity.Iteration, error) {
	p.stage("Resolving team", "")
	team, err := p.source.ResolveTeam(ctx, teamRef)
	if err != nil {
		return ado.Team{}, nil, err
	}

	p.stage("Loading iterations", "")
	all, err := p.source.Iterations(ctx, team)
	if err != nil {
		return team, nil, fmt.Errorf("failed to load iterations of team %s: %w", team.Name, err)
	}

	selected := SelectIterations(all, window)
	log.Debug().Int("total", len(all)).Int("selected", len(selected)).Str("window", window.String()).Msg("Filtered iterations")
	return team, selected, nil
}

// Build fetches every input for the selected iterations and computes the report.
func (p *Planner) Build(ctx context.Context, teamRef string, window Window) (*Report, error) {
	team, iterations, err := p.Iterations(ctx, teamRef, window)
	if err != nil {
		return nil, err
	}

	p.stage("Loading team members", "")
	members, err := p.source.Members(ctx, team)
	if err != nil {
		return nil, fmt.Errorf("failed to load members of team %s: %w", team.Name, err)
	}

	p.stage("Loading team settings", "")
	pattern, err := p.source.WorkingDays(ctx, team)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings of team %s: %w", team.Name, err)
	}

	memberIDs := make([]string, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.ID)
	}

	columns := make([]Column, len(iterations))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, it := range iterations {
		g.Go(func() error {
			col, err := p.buildColumn(gctx, team, it, memberIDs, pattern)
			if err != nil {
				return err
			}
			columns[i] = col
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().Str("team", team.Name).Int("iterations", len(columns)).Int("members", len(members)).Msg("Capacity report built")
	return &Report{
		Team:        team,
		Window:      window,
		Pattern:     pattern,
		GeneratedAt: p.now().UTC(),
		members:     members,
		columns:     columns,
	}, nil
}

func (p *Planner) buildColumn(ctx context.Context, team ado.Team, it capacity.Iteration, memberIDs []string, pattern capacity.WorkingDayPattern) (Column, error) {
	p.stage("Loading capacities: "+it.Name, it.ID)
	entries, err := p.source.Capacities(ctx, team, it.ID)
	if err != nil {
		return Column{}, fmt.Errorf("failed to load capacities of %s: %w", it.Name, err)
	}

	p.stage("Loading team days off: "+it.Name, it.ID)
	daysOff, err := p.source.TeamDaysOff(ctx, team, it.ID)
	if err != nil {
		return Column{}, fmt.Errorf("failed to load team days off of %s: %w", it.Name, err)
	}

	p.stage("Loading work items: "+it.Name, it.ID)
	items, err := p.source.WorkItems(ctx, team, it.ID)
	if err != nil {
		return Column{}, fmt.Errorf("failed to load work items of %s: %w", it.Name, err)
	}

	return ComputeColumn(team, it, memberIDs, pattern, entries, daysOff, items), nil
}

// ComputeColumn runs the capacity engine over one iteration's inputs. Effort
// of assignees outside memberIDs is kept apart as external effort and does
// not count towards the team totals.
func ComputeColumn(team ado.Team, it capacity.Iteration, memberIDs []string, pattern capacity.WorkingDayPattern, entries []capacity.MemberCapacityEntry, daysOff []capacity.DateRange, items []capacity.WorkItemRecord) Column {
	results := capacity.ResolveTeam(memberIDs, entries, it, daysOff, pattern)

	onTeam := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		onTeam[id] = true
	}

	teamEfforts := make(map[string]float64)
	external := 0.0
	for id, effort := range capacity.AggregateEffort(items) {
		if onTeam[id] {
			teamEfforts[id] = effort
			continue
		}
		external += effort
	}

	capacities := make(map[string]capacity.CapacityResult, len(results))
	for _, r := range results {
		capacities[r.MemberID] = r
	}

	totals := capacity.Rollup(results, capacity.EffortResults(teamEfforts))
	return Column{
		Iteration:      it,
		TaskboardURL:   ado.TaskboardURL(team, it),
		Totals:         totals,
		ExternalEffort: external,
		Utilization:    capacity.ClassifyTotals(totals),
		capacities:     capacities,
		efforts:        teamEfforts,
	}
}
