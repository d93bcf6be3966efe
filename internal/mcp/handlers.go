package mcp

import (
	"context"
	"fmt"
	"sync"

	"sprintcap/internal/ado"
	"sprintcap/internal/planning"
	"sprintcap/internal/visuals"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

func (s *Server) handleListTeams(ctx context.Context, _ *mcpsdk.CallToolRequest, _ listTeamsInput) (*mcpsdk.CallToolResult, any, error) {
	teams, err := s.planner(nil).Teams(ctx)
	if err != nil {
		return nil, nil, err
	}

	type teamView struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}
	views := make([]teamView, 0, len(teams))
	for _, t := range teams {
		views = append(views, teamView{ID: t.ID, Name: t.Name, Description: t.Description})
	}

	var guidance []string
	if len(views) == 0 {
		guidance = append(guidance, "No teams were found. Verify ADO_PROJECT and the permissions of the access token.")
	}
	return s.result(views, guidance, nil)
}

func (s *Server) handleListIterations(ctx context.Context, _ *mcpsdk.CallToolRequest, in iterationsInput) (*mcpsdk.CallToolResult, any, error) {
	window, err := planning.ParseWindow(in.StartDate, in.EndDate)
	if err != nil {
		return nil, nil, err
	}

	team, its, err := s.planner(nil).Iterations(ctx, in.Team, window)
	if err != nil {
		return nil, nil, err
	}

	type iterationView struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Path         string `json:"path"`
		Start        string `json:"start"`
		Finish       string `json:"finish"`
		TaskboardURL string `json:"taskboard_url,omitempty"`
	}
	views := make([]iterationView, 0, len(its))
	for _, it := range its {
		views = append(views, iterationView{
			ID:           it.ID,
			Name:         it.Name,
			Path:         it.Path,
			Start:        it.Start.Format(planning.DateLayout),
			Finish:       it.Finish.Format(planning.DateLayout),
			TaskboardURL: ado.TaskboardURL(team, it),
		})
	}

	var guidance []string
	if len(views) == 0 {
		guidance = append(guidance, fmt.Sprintf("No scheduled iteration of %s starts within %s. Widen the window.", team.Name, window))
	}
	return s.result(map[string]any{"team": team.Name, "iterations": views}, guidance, nil)
}

func (s *Server) handleCapacityReport(ctx context.Context, _ *mcpsdk.CallToolRequest, in reportInput) (*mcpsdk.CallToolResult, any, error) {
	window, err := planning.ParseWindow(in.StartDate, in.EndDate)
	if err != nil {
		return nil, nil, err
	}

	var mu sync.Mutex
	var stages []string
	report, err := s.planner(func(st planning.Stage) {
		mu.Lock()
		defer mu.Unlock()
		stages = append(stages, st.Label)
	}).Build(ctx, in.Team, window)
	if err != nil {
		log.Error().Err(err).Str("team", in.Team).Msg("Capacity report failed")
		return nil, nil, err
	}

	var guidance []string
	if report.IsEmpty() {
		guidance = append(guidance, "NO DATA TO SHOW: the team has no members or no iteration starts within the window.")
	}
	for _, col := range report.Columns() {
		if col.ExternalEffort > 0 {
			guidance = append(guidance, fmt.Sprintf("%s has %.1f effort assigned to people outside the team; it is excluded from the team totals.", col.Iteration.Name, col.ExternalEffort))
		}
	}

	var charts []string
	if in.IncludeCharts && s.opts.EnableMermaid && !report.IsEmpty() {
		charts = append(charts, visuals.GenerateCapacityChart(report))
	}

	return s.result(report.View(), guidance, map[string]any{"stages": stages, "charts": charts})
}
