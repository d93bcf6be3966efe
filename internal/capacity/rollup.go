package capacity

// Rollup sums the present capacities and efforts of an iteration.
func Rollup(capacities []CapacityResult, efforts []EffortResult) IterationTotals {
	var t IterationTotals
	for _, c := range capacities {
		if c.Capacity != nil {
			t.Capacity += *c.Capacity
		}
	}
	for _, e := range efforts {
		if e.Effort != nil {
			t.Effort += *e.Effort
		}
	}
	return t
}
