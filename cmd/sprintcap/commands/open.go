package commands

import (
	"fmt"
	"strings"

	"sprintcap/internal/ado"
	"sprintcap/internal/capacity"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var printOnly bool

var openCmd = &cobra.Command{
	Use:   "open <team> <iteration>",
	Short: "Open the taskboard of an iteration in the browser",
	Long:  "Opens the Azure DevOps sprint taskboard. The iteration is matched by id, name or path.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openSource(args[0])
		if err != nil {
			return err
		}
		team, err := src.ResolveTeam(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		its, err := src.Iterations(cmd.Context(), team)
		if err != nil {
			return err
		}

		it, ok := findIteration(its, args[1])
		if !ok {
			return fmt.Errorf("iteration %q not found in team %s", args[1], team.Name)
		}
		url := ado.TaskboardURL(team, it)
		if url == "" {
			return fmt.Errorf("team %s has no project url", team.Name)
		}

		if printOnly {
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		}
		log.Info().Str("url", url).Msg("Opening taskboard")
		return browser.OpenURL(url)
	},
}

func findIteration(its []capacity.Iteration, ref string) (capacity.Iteration, bool) {
	for _, it := range its {
		if it.ID == ref || strings.EqualFold(it.Name, ref) || strings.EqualFold(it.Path, ref) {
			return it, true
		}
	}
	return capacity.Iteration{}, false
}

func init() {
	openCmd.Flags().BoolVar(&printOnly, "print", false, "print the url instead of opening a browser")
	rootCmd.AddCommand(openCmd)
}
