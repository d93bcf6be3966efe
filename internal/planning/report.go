package planning

import (
	"slices"
	"time"

	"sprintcap/internal/ado"
	"sprintcap/internal/capacity"
)

// Column holds the computed values of one iteration. It is read-only.
type Column struct {
	Iteration      capacity.Iteration
	TaskboardURL   string
	Totals         capacity.IterationTotals
	ExternalEffort float64
	Utilization    capacity.Utilization

	capacities map[string]capacity.CapacityResult
	efforts    map[string]float64
}

// Capacity returns the capacity result of a member. Unknown members get an
// absent capacity and zero working days.
func (c Column) Capacity(memberID string) capacity.CapacityResult {
	if r, ok := c.capacities[memberID]; ok {
		return r
	}
	return capacity.CapacityResult{MemberID: memberID}
}

// Effort returns the member's assigned effort, nil when nothing is attributable.
func (c Column) Effort(memberID string) *float64 {
	return capacity.EffortFor(c.efforts, memberID)
}

// Cell is the member x iteration value pair rendered in the grid.
type Cell struct {
	WorkingDays int
	Capacity    *float64
	Effort      *float64
	Ratio       *float64
	Utilization capacity.Utilization
}

func newCell(workingDays int, capacityValue, effort *float64) Cell {
	return Cell{
		WorkingDays: workingDays,
		Capacity:    capacityValue,
		Effort:      effort,
		Ratio:       capacity.Ratio(effort, capacityValue),
		Utilization: capacity.Classify(effort, capacityValue),
	}
}

// Report is the immutable result set of one query.
type Report struct {
	Team        ado.Team
	Window      Window
	Pattern     capacity.WorkingDayPattern
	GeneratedAt time.Time

	members []ado.Member
	columns []Column
}

// Members returns the team members in display order.
func (r *Report) Members() []ado.Member {
	return slices.Clone(r.members)
}

// Iterations returns the selected iterations ordered by start date.
func (r *Report) Iterations() []capacity.Iteration {
	its := make([]capacity.Iteration, 0, len(r.columns))
	for _, c := range r.columns {
		its = append(its, c.Iteration)
	}
	return its
}

// Columns returns one column per selected iteration, ordered by start date.
func (r *Report) Columns() []Column {
	return slices.Clone(r.columns)
}

// Column looks up the column of an iteration.
func (r *Report) Column(iterationID string) (Column, bool) {
	for _, c := range r.columns {
		if c.Iteration.ID == iterationID {
			return c, true
		}
	}
	return Column{}, false
}

// Cell returns the values of a member in an iteration.
func (r *Report) Cell(memberID, iterationID string) Cell {
	col, ok := r.Column(iterationID)
	if !ok {
		return Cell{}
	}
	cr := col.Capacity(memberID)
	return newCell(cr.WorkingDays, cr.Capacity, col.Effort(memberID))
}

// MemberSummary sums a member across all iterations. Capacity and effort stay
// absent unless at least one iteration had a value.
func (r *Report) MemberSummary(memberID string) Cell {
	var days int
	var capSum, effortSum *float64
	for _, col := range r.columns {
		cr := col.Capacity(memberID)
		days += cr.WorkingDays
		capSum = addPresent(capSum, cr.Capacity)
		effortSum = addPresent(effortSum, col.Effort(memberID))
	}
	return newCell(days, capSum, effortSum)
}

// Totals sums the iteration totals of the whole report.
func (r *Report) Totals() capacity.IterationTotals {
	var t capacity.IterationTotals
	for _, col := range r.columns {
		t.Capacity += col.Totals.Capacity
		t.Effort += col.Totals.Effort
	}
	return t
}

// IsEmpty reports whether there is nothing to render.
func (r *Report) IsEmpty() bool {
	return len(r.members) == 0 || len(r.columns) == 0
}

func addPresent(sum, v *float64) *float64 {
	if v == nil {
		return sum
	}
	if sum == nil {
		return capacity.Float(*v)
	}
	return capacity.Float(*sum + *v)
}
