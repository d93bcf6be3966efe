package render

import (
	"sprintcap/internal/ado"
	"sprintcap/internal/capacity"
	"sprintcap/internal/planning"
)

// Teams renders the team list.
func Teams(teams []ado.Team) string {
	if len(teams) == 0 {
		return StyleDim.Render(NoData) + "\n"
	}
	rows := make([][]string, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, []string{t.Name, StyleDim.Render(t.ID), t.Description})
	}
	return Table([]string{"Team", "ID", "Description"}, rows, nil)
}

// Iterations renders selected iterations with their taskboard links.
func Iterations(team ado.Team, its []capacity.Iteration) string {
	if len(its) == 0 {
		return StyleDim.Render(NoData) + "\n"
	}
	rows := make([][]string, 0, len(its))
	for _, it := range its {
		rows = append(rows, []string{
			it.Name,
			it.Start.Format(planning.DateLayout),
			it.Finish.Format(planning.DateLayout),
			StyleDim.Render(ado.TaskboardURL(team, it)),
		})
	}
	return Table([]string{"Iteration", "Start", "Finish", "Taskboard"}, rows, nil)
}
