package capacity

import "fmt"

// Utilization buckets the effort/capacity ratio.
type Utilization int

const (
	Unclassified Utilization = iota
	Low
	Medium
	High
)

const (
	mediumThreshold = 0.6
	highThreshold   = 1.0
)

// Classify buckets effort against capacity. It is Unclassified when either
// value is absent or capacity is zero.
func Classify(effort, capacity *float64) Utilization {
	ratio := Ratio(effort, capacity)
	if ratio == nil {
		return Unclassified
	}
	switch {
	case *ratio >= highThreshold:
		return High
	case *ratio >= mediumThreshold:
		return Medium
	default:
		return Low
	}
}

// ClassifyTotals classifies an iteration from its totals.
func ClassifyTotals(t IterationTotals) Utilization {
	return Classify(Float(t.Effort), Float(t.Capacity))
}

// Ratio returns effort/capacity, or nil when no ratio is computable.
func Ratio(effort, capacity *float64) *float64 {
	if effort == nil || capacity == nil || *capacity == 0 {
		return nil
	}
	return Float(*effort / *capacity)
}

func (u Utilization) String() string {
	switch u {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unclassified"
	}
}

func (u Utilization) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *Utilization) UnmarshalText(b []byte) error {
	switch string(b) {
	case "low":
		*u = Low
	case "medium":
		*u = Medium
	case "high":
		*u = High
	case "unclassified", "":
		*u = Unclassified
	default:
		return fmt.Errorf("unknown utilization %q", string(b))
	}
	return nil
}
