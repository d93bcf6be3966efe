package planning

import (
	"time"

	"sprintcap/internal/capacity"
)

// ReportView is the JSON form of a report shared by the CLI, the HTTP API and
// the MCP tools. Dates are rendered as YYYY-MM-DD strings.
type ReportView struct {
	Team        TeamView        `json:"team"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	WorkingDays string          `json:"working_days"`
	GeneratedAt time.Time       `json:"generated_at"`
	Iterations  []IterationView `json:"iterations"`
	Members     []MemberView    `json:"members"`
	Totals      TotalsView      `json:"totals"`
}

type TeamView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type IterationView struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Path           string               `json:"path"`
	Start          string               `json:"start"`
	Finish         string               `json:"finish"`
	TaskboardURL   string               `json:"taskboard_url,omitempty"`
	Capacity       float64              `json:"capacity"`
	Effort         float64              `json:"effort"`
	ExternalEffort float64              `json:"external_effort,omitempty"`
	Utilization    capacity.Utilization `json:"utilization"`
}

type MemberView struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	UniqueName  string     `json:"unique_name,omitempty"`
	Cells       []CellView `json:"cells"`
	Summary     CellView   `json:"summary"`
}

// CellView uses null for absent capacity or effort.
type CellView struct {
	IterationID string               `json:"iteration_id,omitempty"`
	WorkingDays int                  `json:"working_days"`
	Capacity    *float64             `json:"capacity"`
	Effort      *float64             `json:"effort"`
	Utilization capacity.Utilization `json:"utilization"`
}

type TotalsView struct {
	Capacity    float64              `json:"capacity"`
	Effort      float64              `json:"effort"`
	Utilization capacity.Utilization `json:"utilization"`
}

// View flattens the report for serialization.
func (r *Report) View() ReportView {
	v := ReportView{
		Team:        TeamView{ID: r.Team.ID, Name: r.Team.Name},
		From:        r.Window.Start.Format(DateLayout),
		To:          r.Window.End.Format(DateLayout),
		WorkingDays: r.Pattern.String(),
		GeneratedAt: r.GeneratedAt,
		Iterations:  make([]IterationView, 0, len(r.columns)),
		Members:     make([]MemberView, 0, len(r.members)),
	}

	for _, col := range r.columns {
		it := col.Iteration
		v.Iterations = append(v.Iterations, IterationView{
			ID:             it.ID,
			Name:           it.Name,
			Path:           it.Path,
			Start:          it.Start.Format(DateLayout),
			Finish:         it.Finish.Format(DateLayout),
			TaskboardURL:   col.TaskboardURL,
			Capacity:       col.Totals.Capacity,
			Effort:         col.Totals.Effort,
			ExternalEffort: col.ExternalEffort,
			Utilization:    col.Utilization,
		})
	}

	for _, m := range r.members {
		mv := MemberView{
			ID:          m.ID,
			DisplayName: m.DisplayName,
			UniqueName:  m.UniqueName,
			Cells:       make([]CellView, 0, len(r.columns)),
			Summary:     cellView("", r.MemberSummary(m.ID)),
		}
		for _, col := range r.columns {
			mv.Cells = append(mv.Cells, cellView(col.Iteration.ID, r.Cell(m.ID, col.Iteration.ID)))
		}
		v.Members = append(v.Members, mv)
	}

	t := r.Totals()
	v.Totals = TotalsView{Capacity: t.Capacity, Effort: t.Effort, Utilization: capacity.ClassifyTotals(t)}
	return v
}

func cellView(iterationID string, c Cell) CellView {
	return CellView{
		IterationID: iterationID,
		WorkingDays: c.WorkingDays,
		Capacity:    c.Capacity,
		Effort:      c.Effort,
		Utilization: c.Utilization,
	}
}
