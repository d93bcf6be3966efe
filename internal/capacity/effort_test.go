package capacity

import "testing"

func TestAggregateEffort(t *testing.T) {
	items := []WorkItemRecord{
		{ID: 1, AssigneeID: "A", Effort: Float(3)},
		{ID: 2, AssigneeID: "A", Effort: Float(5)},
		{ID: 3, AssigneeID: "B", Effort: nil},
		{ID: 4, AssigneeID: "", Effort: Float(2)},
	}

	got := AggregateEffort(items)
	if len(got) != 1 {
		t.Fatalf("expected 1 assignee, got %d: %v", len(got), got)
	}
	if got["A"] != 8 {
		t.Errorf("expected A = 8, got %v", got["A"])
	}
	if _, ok := got["B"]; ok {
		t.Error("B has no estimated work and must be absent")
	}
}

func TestAggregateEffort_ZeroEffortStillCounts(t *testing.T) {
	got := AggregateEffort([]WorkItemRecord{{ID: 1, AssigneeID: "A", Effort: Float(0)}})
	v, ok := got["A"]
	if !ok {
		t.Fatal("an estimated item with 0 effort contributes, expected A present")
	}
	if v != 0 {
		t.Errorf("expected 0, got %v", v)
	}
}

func TestAggregateEffort_Empty(t *testing.T) {
	if got := AggregateEffort(nil); len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestEffortFor(t *testing.T) {
	totals := map[string]float64{"A": 8}

	if got := EffortFor(totals, "A"); got == nil || *got != 8 {
		t.Errorf("EffortFor(A) = %v, want 8", got)
	}
	if got := EffortFor(totals, "B"); got != nil {
		t.Errorf("EffortFor(B) = %v, want nil", *got)
	}
}

func TestEffortResults_Ordered(t *testing.T) {
	res := EffortResults(map[string]float64{"c": 1, "a": 2, "b": 3})
	want := []string{"a", "b", "c"}
	for i, r := range res {
		if r.MemberID != want[i] {
			t.Errorf("at index %d: expected %s, got %s", i, want[i], r.MemberID)
		}
	}
}
