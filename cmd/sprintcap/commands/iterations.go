package commands

import (
	"fmt"

	"sprintcap/internal/planning"
	"sprintcap/internal/render"

	"github.com/spf13/cobra"
)

var (
	fromDate string
	toDate   string
)

var iterationsCmd = &cobra.Command{
	Use:   "iterations <team>",
	Short: "List the iterations of a team that start within the window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		window, err := planning.ParseWindow(fromDate, toDate)
		if err != nil {
			return err
		}
		src, err := openSource(args[0])
		if err != nil {
			return err
		}

		team, its, err := planning.NewPlanner(src).Iterations(cmd.Context(), args[0], window)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), render.Iterations(team, its))
		return nil
	},
}

func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&fromDate, "from", "", "first day of the window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toDate, "to", "", "last day of the window (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}

func init() {
	addWindowFlags(iterationsCmd)
	rootCmd.AddCommand(iterationsCmd)
}
