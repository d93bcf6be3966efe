package commands

import (
	"fmt"

	"sprintcap/internal/ado"
	"sprintcap/internal/planning"
	"sprintcap/internal/render"
	"sprintcap/internal/snapshot"

	"github.com/spf13/cobra"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the teams of the configured project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var teams []ado.Team
		if offline {
			snaps, err := snapshot.NewStore(cfg.CacheDir, 0).List()
			if err != nil {
				return err
			}
			for _, s := range snaps {
				teams = append(teams, s.Team)
			}
		} else {
			src, err := openSource("")
			if err != nil {
				return err
			}
			teams, err = planning.NewPlanner(src).Teams(cmd.Context())
			if err != nil {
				return err
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), render.Teams(teams))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(teamsCmd)
}
