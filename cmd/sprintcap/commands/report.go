package commands

import (
	"encoding/json"
	"fmt"

	"sprintcap/internal/planning"
	"sprintcap/internal/render"
	"sprintcap/internal/snapshot"
	"sprintcap/internal/visuals"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	reportFormat string
	record       bool
)

var reportCmd = &cobra.Command{
	Use:   "report <team>",
	Short: "Print capacity versus effort per member and iteration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch reportFormat {
		case "table", "json", "mermaid":
		default:
			return fmt.Errorf("unknown format %q (table, json or mermaid)", reportFormat)
		}
		if record && offline {
			return fmt.Errorf("--record cannot be combined with --offline")
		}

		window, err := planning.ParseWindow(fromDate, toDate)
		if err != nil {
			return err
		}
		src, err := openSource(args[0])
		if err != nil {
			return err
		}

		var recorder *snapshot.Recorder
		if record {
			recorder = snapshot.NewRecorder(src)
			src = recorder
		}

		report, err := planning.NewPlanner(src, planning.WithConcurrency(cfg.FetchConcurrency)).Build(cmd.Context(), args[0], window)
		if err != nil {
			return err
		}

		if recorder != nil {
			if err := snapshot.NewStore(cfg.CacheDir, cfg.SnapshotMaxAge).Save(recorder.Snapshot()); err != nil {
				log.Warn().Err(err).Msg("Failed to save snapshot")
			}
		}

		out := cmd.OutOrStdout()
		switch reportFormat {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report.View())
		case "mermaid":
			if report.IsEmpty() {
				fmt.Fprintln(out, render.NoData)
				return nil
			}
			fmt.Fprintln(out, visuals.GenerateCapacityChart(report))
			for _, it := range report.Iterations() {
				fmt.Fprintln(out, visuals.GenerateMemberChart(report, it.ID))
			}
		default:
			fmt.Fprint(out, render.Report(report))
		}
		return nil
	},
}

func init() {
	addWindowFlags(reportCmd)
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "table", "output format: table, json or mermaid")
	reportCmd.Flags().BoolVar(&record, "record", false, "save the fetched inputs as a snapshot for --offline use")
	rootCmd.AddCommand(reportCmd)
}
