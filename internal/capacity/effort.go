package capacity

import "sort"

// AggregateEffort sums effort per assignee. Items without an assignee or
// without an effort value are skipped, so an assignee only appears in the
// result when at least one item contributed.
func AggregateEffort(items []WorkItemRecord) map[string]float64 {
	totals := make(map[string]float64)
	for _, item := range items {
		if item.AssigneeID == "" || item.Effort == nil {
			continue
		}
		totals[item.AssigneeID] += *item.Effort
	}
	return totals
}

// EffortFor looks up an assignee's effort, returning nil when absent.
func EffortFor(totals map[string]float64, memberID string) *float64 {
	v, ok := totals[memberID]
	if !ok {
		return nil
	}
	return Float(v)
}

// EffortResults flattens an aggregate into results ordered by member id.
func EffortResults(totals map[string]float64) []EffortResult {
	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]EffortResult, 0, len(ids))
	for _, id := range ids {
		results = append(results, EffortResult{MemberID: id, Effort: Float(totals[id])})
	}
	return results
}
