package engine

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"sprintcap/internal/ado"
	"sprintcap/internal/capacity"
	"sprintcap/internal/snapshot"

	"github.com/google/uuid"
)

type GeneratorConfig struct {
	TeamName     string
	Scenario     string // "balanced", "overloaded" or "sparse"
	Distribution string // "uniform" or "weibull"
	Members      int
	Iterations   int
	SprintDays   int
	Seed         int64
	Now          time.Time
}

var firstNames = []string{"Alice", "Bob", "Carla", "Dmitri", "Eve", "Farah", "Gus", "Hana", "Ivo", "Jun"}

// Generate builds a synthetic team snapshot. The last iteration contains Now.
func Generate(cfg GeneratorConfig) *snapshot.TeamSnapshot {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.SprintDays < 5 {
		cfg.SprintDays = 14
	}
	if cfg.TeamName == "" {
		cfg.TeamName = "Mock Team"
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	team := ado.Team{
		ID:         uuidFrom(rng).String(),
		Name:       cfg.TeamName,
		Project:    "Mock",
		ProjectURL: "https://dev.azure.com/mock/Mock",
	}
	snap := snapshot.New(team, cfg.Now)
	pattern := capacity.WeekdayPattern()
	snap.WorkingDays = &pattern

	snap.Members = make([]ado.Member, 0, cfg.Members)
	for i := 0; i < cfg.Members; i++ {
		name := firstNames[i%len(firstNames)]
		if i >= len(firstNames) {
			name = fmt.Sprintf("%s %d", name, i/len(firstNames)+1)
		}
		snap.Members = append(snap.Members, ado.Member{
			ID:          uuidFrom(rng).String(),
			DisplayName: name,
			UniqueName:  fmt.Sprintf("member%d@mock.example", i+1),
		})
	}

	// Sprints start on a Monday and run back to back.
	today := time.Date(cfg.Now.Year(), cfg.Now.Month(), cfg.Now.Day(), 0, 0, 0, 0, time.UTC)
	lastStart := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	snap.Iterations = make([]capacity.Iteration, 0, cfg.Iterations)
	for i := 0; i < cfg.Iterations; i++ {
		start := lastStart.AddDate(0, 0, -cfg.SprintDays*(cfg.Iterations-1-i))
		it := capacity.Iteration{
			ID:     uuidFrom(rng).String(),
			Name:   fmt.Sprintf("Sprint %d", i+1),
			Path:   fmt.Sprintf(`Mock\Sprint %d`, i+1),
			Start:  start,
			Finish: start.AddDate(0, 0, cfg.SprintDays-3),
		}
		snap.Iterations = append(snap.Iterations, it)
		fillIteration(rng, cfg, snap, it)
	}

	return snap
}

func fillIteration(rng *rand.Rand, cfg GeneratorConfig, snap *snapshot.TeamSnapshot, it capacity.Iteration) {
	in := snap.Input(it.ID)
	in.Capacities = []capacity.MemberCapacityEntry{}
	in.DaysOff = []capacity.DateRange{}
	in.WorkItems = []capacity.WorkItemRecord{}

	// Occasional team-wide day off on the first Friday.
	if rng.Float64() < 0.3 {
		friday := it.Start.AddDate(0, 0, 4)
		in.DaysOff = append(in.DaysOff, capacity.DateRange{Start: friday, End: friday})
	}

	load := 0.8
	switch cfg.Scenario {
	case "overloaded":
		load = 1.3
	case "sparse":
		load = 0.4
	}

	nextID := 1000 * (len(snap.Inputs) + 1)
	for _, m := range snap.Members {
		if cfg.Scenario == "sparse" && rng.Float64() < 0.3 {
			continue // no capacity declared
		}

		perDay := float64(2 + rng.Intn(5))
		entry := capacity.MemberCapacityEntry{
			MemberID:   m.ID,
			Activities: []capacity.Activity{{Name: "Development", CapacityPerDay: perDay}},
		}
		if rng.Float64() < 0.25 {
			off := it.Start.AddDate(0, 0, rng.Intn(cfg.SprintDays-3))
			entry.DaysOff = append(entry.DaysOff, capacity.DateRange{Start: off, End: off.AddDate(0, 0, rng.Intn(3))})
		}
		in.Capacities = append(in.Capacities, entry)

		budget := perDay * float64(cfg.SprintDays*5/7) * load
		for budget > 0 {
			effort := sampleEffort(rng, cfg.Distribution)
			in.WorkItems = append(in.WorkItems, capacity.WorkItemRecord{ID: nextID, AssigneeID: m.ID, Effort: capacity.Float(effort)})
			nextID++
			budget -= effort
		}
	}

	// Unassigned and unestimated items are ignored by the aggregation.
	in.WorkItems = append(in.WorkItems, capacity.WorkItemRecord{ID: nextID, Effort: capacity.Float(3)})
	if len(snap.Members) > 0 {
		in.WorkItems = append(in.WorkItems, capacity.WorkItemRecord{ID: nextID + 1, AssigneeID: snap.Members[0].ID})
	}
}

// sampleEffort returns story points rounded to the Fibonacci-ish scale teams use.
func sampleEffort(rng *rand.Rand, distribution string) float64 {
	var raw float64
	if distribution == "weibull" {
		raw = weibullSample(rng, 1.5, 5)
	} else {
		raw = 1 + rng.Float64()*8
	}
	for _, p := range []float64{1, 2, 3, 5, 8, 13} {
		if raw <= p {
			return p
		}
	}
	return 13
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

func uuidFrom(rng *rand.Rand) uuid.UUID {
	var b [16]byte
	rng.Read(b[:])
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return uuid.UUID(b)
}
