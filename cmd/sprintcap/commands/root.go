package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sprintcap/internal/ado"
	"sprintcap/internal/config"
	"sprintcap/internal/logging"
	"sprintcap/internal/planning"
	"sprintcap/internal/snapshot"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	offline bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "sprintcap",
	Short: "sprintcap compares sprint capacity with assigned effort in Azure DevOps",
	Long: `A planning tool that computes, per team member and iteration, the declared capacity
(working days x capacity per day) and the assigned effort, and flags over-allocation.
It runs as a CLI, an MCP server over stdio or a small HTTP JSON API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("command", cmd.Name()).
			Msg("sprintcap starting")
		return nil
	},
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "read inputs from the snapshot cache instead of Azure DevOps")
}

// openSource returns the live Azure DevOps client, or a snapshot replay for
// teamRef when running offline.
func openSource(teamRef string) (planning.Source, error) {
	if offline {
		if teamRef == "" {
			return nil, fmt.Errorf("--offline is only supported by commands that take a team")
		}
		snap, err := snapshot.NewStore(cfg.CacheDir, cfg.SnapshotMaxAge).Load(teamRef)
		if err != nil {
			return nil, err
		}
		log.Info().Str("team", snap.Team.Name).Time("fetched_at", snap.FetchedAt).Msg("Using cached snapshot")
		return snapshot.NewReplay(snap), nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return ado.NewClient(cfg.ADO), nil
}
