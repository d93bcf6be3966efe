package render

import (
	"fmt"
	"strconv"
	"strings"

	"sprintcap/internal/capacity"
	"sprintcap/internal/planning"
)

// NoData is printed instead of a grid when there are no members or iterations.
const NoData = "NO DATA TO SHOW"

// Absent marks a capacity or effort value that does not exist.
const Absent = "–"

// Report renders the member x iteration grid. Each cell reads
// "effort / capacity" and is coloured by utilization.
func Report(r *planning.Report) string {
	title := fmt.Sprintf("%s  %s", r.Team.Name, r.Window.String())
	if r.IsEmpty() {
		return Header(title) + "\n" + StyleDim.Render(NoData) + "\n"
	}

	cols := r.Columns()
	headers := []string{"Member"}
	for _, col := range cols {
		it := col.Iteration
		headers = append(headers, fmt.Sprintf("%s (%s..%s)", it.Name, it.Start.Format("01-02"), it.Finish.Format("01-02")))
	}
	headers = append(headers, "Total")

	var rows [][]string
	for _, m := range r.Members() {
		row := []string{m.DisplayName}
		for _, col := range cols {
			row = append(row, Cell(r.Cell(m.ID, col.Iteration.ID)))
		}
		row = append(row, Cell(r.MemberSummary(m.ID)))
		rows = append(rows, row)
	}

	footer := []string{StyleBold.Render("Team")}
	for _, col := range cols {
		footer = append(footer, totalsCell(col.Totals))
	}
	footer = append(footer, totalsCell(r.Totals()))

	var b strings.Builder
	b.WriteString(Header(title))
	b.WriteString("\n")
	b.WriteString(Table(headers, rows, footer))

	var external []string
	for _, col := range cols {
		if col.ExternalEffort > 0 {
			external = append(external, fmt.Sprintf("%s: %s", col.Iteration.Name, Number(col.ExternalEffort)))
		}
	}
	if len(external) > 0 {
		b.WriteString(StyleDim.Render("Effort assigned outside the team: " + strings.Join(external, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}

// Cell formats "effort / capacity (days)" coloured by utilization.
func Cell(c planning.Cell) string {
	text := fmt.Sprintf("%s / %s (%dd)", Value(c.Effort), Value(c.Capacity), c.WorkingDays)
	return UtilizationStyle(c.Utilization).Render(text)
}

func totalsCell(t capacity.IterationTotals) string {
	text := fmt.Sprintf("%s / %s", Number(t.Effort), Number(t.Capacity))
	return UtilizationStyle(capacity.ClassifyTotals(t)).Bold(true).Render(text)
}

// Value formats an optional number, using Absent for nil.
func Value(v *float64) string {
	if v == nil {
		return Absent
	}
	return Number(*v)
}

// Number rounds to two decimals and drops trailing zeros: 20 -> "20", 7.5 -> "7.5".
func Number(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
