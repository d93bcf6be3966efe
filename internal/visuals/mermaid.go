package visuals

import (
	"fmt"
	"math"
	"strings"

	"sprintcap/internal/planning"
)

// GenerateCapacityChart creates a Mermaid xychart-beta comparing team capacity
// (bars) with assigned effort (line) per iteration.
func GenerateCapacityChart(report *planning.Report) string {
	cols := report.Columns()
	if len(cols) == 0 {
		return ""
	}

	var labels []string
	var capacities []string
	var efforts []string
	maxVal := 0.0

	for _, col := range cols {
		labels = append(labels, quote(col.Iteration.Name))
		capacities = append(capacities, fmt.Sprintf("%.1f", col.Totals.Capacity))
		efforts = append(efforts, fmt.Sprintf("%.1f", col.Totals.Effort))
		maxVal = math.Max(maxVal, math.Max(col.Totals.Capacity, col.Totals.Effort))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Capacity vs Effort (%s)\"\n", escape(report.Team.Name)))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Points\" 0 --> %d\n", yMax(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(capacities, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(efforts, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateMemberChart creates a per-member chart for a single iteration.
// Absent values are drawn as 0.
func GenerateMemberChart(report *planning.Report, iterationID string) string {
	col, ok := report.Column(iterationID)
	members := report.Members()
	if !ok || len(members) == 0 {
		return ""
	}

	var labels []string
	var capacities []string
	var efforts []string
	maxVal := 0.0

	for _, m := range members {
		cell := report.Cell(m.ID, iterationID)
		c, e := valueOf(cell.Capacity), valueOf(cell.Effort)
		labels = append(labels, quote(m.DisplayName))
		capacities = append(capacities, fmt.Sprintf("%.1f", c))
		efforts = append(efforts, fmt.Sprintf("%.1f", e))
		maxVal = math.Max(maxVal, math.Max(c, e))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s: Capacity vs Effort per Member\"\n", escape(col.Iteration.Name)))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Points\" 0 --> %d\n", yMax(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(capacities, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(efforts, ", ")))
	sb.WriteString("```")
	return sb.String()
}

func valueOf(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// yMax leaves some headroom above the tallest value.
func yMax(maxVal float64) int {
	return int(math.Ceil(maxVal*1.1)) + 1
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func quote(s string) string {
	return "\"" + escape(s) + "\""
}
