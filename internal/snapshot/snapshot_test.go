package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sprintcap/internal/ado"
	"sprintcap/internal/capacity"
	"sprintcap/internal/planning"
)

const teamID = "3f2b6a1c-8d7e-4f10-9a2b-1c3d4e5f6a7b"

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixture(fetchedAt time.Time) *TeamSnapshot {
	snap := New(ado.Team{ID: teamID, Name: "Phoenix", ProjectURL: "https://dev.azure.com/acme/Web"}, fetchedAt)
	pattern := capacity.WeekdayPattern()
	snap.WorkingDays = &pattern
	snap.Members = []ado.Member{{ID: "alice", DisplayName: "Alice"}, {ID: "bob", DisplayName: "Bob"}}
	snap.Iterations = []capacity.Iteration{
		{ID: "s1", Name: "Sprint 1", Path: `Web\Sprint 1`, Start: day(2024, 3, 4), Finish: day(2024, 3, 15)},
	}
	in := snap.Input("s1")
	in.Capacities = []capacity.MemberCapacityEntry{
		{MemberID: "alice", Activities: []capacity.Activity{{Name: "Dev", CapacityPerDay: 2}}},
	}
	in.DaysOff = []capacity.DateRange{}
	in.WorkItems = []capacity.WorkItemRecord{{ID: 1, AssigneeID: "alice", Effort: capacity.Float(5)}}
	return snap
}

func TestStore_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, 0)

	if err := store.Save(fixture(time.Now())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, teamID+".json")); err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, teamID+".json.tmp")); !os.IsNotExist(err) {
		t.Errorf("temp file left behind")
	}

	for _, ref := range []string{"phoenix", teamID} {
		loaded, err := store.Load(ref)
		if err != nil {
			t.Fatalf("Load(%q) failed: %v", ref, err)
		}
		if loaded.Team.Name != "Phoenix" {
			t.Errorf("team = %q", loaded.Team.Name)
		}
		if loaded.WorkingDays == nil || *loaded.WorkingDays != capacity.WeekdayPattern() {
			t.Errorf("working days not restored: %v", loaded.WorkingDays)
		}
		in := loaded.Inputs["s1"]
		if in == nil || in.DaysOff == nil || len(in.DaysOff) != 0 {
			t.Errorf("empty days off should survive as captured-but-empty")
		}
	}
}

func TestStore_Missing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope"), 0)
	if _, err := store.Load("Phoenix"); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestStore_Stale(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, 24*time.Hour)

	if err := store.Save(fixture(time.Now().Add(-48 * time.Hour))); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := store.Load("Phoenix"); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected stale snapshot to be ignored, got %v", err)
	}

	fresh := NewStore(dir, 0)
	if _, err := fresh.Load("Phoenix"); err != nil {
		t.Errorf("max age 0 should disable staleness: %v", err)
	}
}

func TestStore_SkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	store := NewStore(dir, 0)
	if err := store.Save(fixture(time.Now())); err != nil {
		t.Fatal(err)
	}

	snaps, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(snaps) != 1 {
		t.Errorf("expected 1 snapshot, got %d", len(snaps))
	}
}

func TestReplay_NotCaptured(t *testing.T) {
	snap := fixture(time.Now())
	snap.Input("s2")
	r := NewReplay(snap)
	ctx := context.Background()

	team, err := r.ResolveTeam(ctx, "Phoenix")
	if err != nil {
		t.Fatalf("ResolveTeam failed: %v", err)
	}

	if _, err := r.WorkItems(ctx, team, "s2"); !errors.Is(err, ErrNotCaptured) {
		t.Errorf("expected ErrNotCaptured for s2 work items, got %v", err)
	}
	if _, err := r.Capacities(ctx, team, "s9"); !errors.Is(err, ErrNotCaptured) {
		t.Errorf("expected ErrNotCaptured for unknown iteration, got %v", err)
	}
	if _, err := r.Members(ctx, ado.Team{ID: "other"}); !errors.Is(err, ErrNotCaptured) {
		t.Errorf("expected ErrNotCaptured for another team, got %v", err)
	}
	if _, err := r.ResolveTeam(ctx, "Nobody"); !errors.Is(err, ado.ErrTeamNotFound) {
		t.Errorf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestRecorder_RoundTrip(t *testing.T) {
	ctx := context.Background()
	window, err := planning.ParseWindow("2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatal(err)
	}

	rec := NewRecorder(NewReplay(fixture(time.Now())))
	live, err := planning.NewPlanner(rec, planning.WithConcurrency(3)).Build(ctx, "Phoenix", window)
	if err != nil {
		t.Fatalf("recorded build failed: %v", err)
	}

	snap := rec.Snapshot()
	if snap == nil {
		t.Fatal("nothing recorded")
	}
	if snap.Inputs["s1"] == nil || snap.Inputs["s1"].DaysOff == nil {
		t.Fatal("iteration inputs not recorded")
	}

	store := NewStore(t.TempDir(), time.Hour)
	if err := store.Save(snap); err != nil {
		t.Fatal(err)
	}
	loaded, err := store.Load("Phoenix")
	if err != nil {
		t.Fatal(err)
	}

	offline, err := planning.NewPlanner(NewReplay(loaded)).Build(ctx, "Phoenix", window)
	if err != nil {
		t.Fatalf("replayed build failed: %v", err)
	}

	a, b := live.Cell("alice", "s1"), offline.Cell("alice", "s1")
	if a.Capacity == nil || b.Capacity == nil || *a.Capacity != *b.Capacity {
		t.Errorf("capacity mismatch: live %v offline %v", a.Capacity, b.Capacity)
	}
	if *b.Capacity != 20 {
		t.Errorf("capacity = %v, want 20", *b.Capacity)
	}
	if live.Totals() != offline.Totals() {
		t.Errorf("totals mismatch: %+v vs %+v", live.Totals(), offline.Totals())
	}
}

func TestSnapshot_CloneIsDeep(t *testing.T) {
	snap := fixture(time.Now())
	c := snap.Clone()
	c.Members[0].DisplayName = "Changed"
	c.Inputs["s1"].WorkItems[0].ID = 99

	if snap.Members[0].DisplayName != "Alice" || snap.Inputs["s1"].WorkItems[0].ID != 1 {
		t.Error("clone shares state with the original")
	}
}
