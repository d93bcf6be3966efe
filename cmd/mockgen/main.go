package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"sprintcap/cmd/mockgen/engine"
	"sprintcap/internal/snapshot"
)

func main() {
	team := flag.String("team", "Mock Team", "Team name")
	scenario := flag.String("scenario", "balanced", "Scenario to generate: balanced, overloaded, sparse")
	distribution := flag.String("distribution", "uniform", "Effort distribution: uniform, weibull")
	outDir := flag.String("out", "./cache", "Snapshot cache directory")
	members := flag.Int("members", 6, "Number of team members")
	iterations := flag.Int("iterations", 4, "Number of iterations")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	if *members < 1 || *iterations < 1 {
		fmt.Println("members and iterations must be at least 1")
		os.Exit(1)
	}

	cfg := engine.GeneratorConfig{
		TeamName:     *team,
		Scenario:     *scenario,
		Distribution: *distribution,
		Members:      *members,
		Iterations:   *iterations,
		Seed:         *seed,
		Now:          time.Now(),
	}

	fmt.Printf("Generating scenario '%s' (Distribution: %s, Members: %d, Iterations: %d) to %s...\n", cfg.Scenario, cfg.Distribution, cfg.Members, cfg.Iterations, *outDir)

	snap := engine.Generate(cfg)
	if err := snapshot.NewStore(*outDir, 0).Save(snap); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done. Run: sprintcap report %q --offline --from %s --to %s\n",
		snap.Team.Name,
		snap.Iterations[0].Start.Format("2006-01-02"),
		snap.Iterations[len(snap.Iterations)-1].Finish.Format("2006-01-02"))
}
