package commands

import (
	"context"
	"time"

	"sprintcap/internal/httpapi"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var httpAddr string

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "Run the HTTP JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openSource("")
		if err != nil {
			return err
		}
		addr := httpAddr
		if addr == "" {
			addr = cfg.HTTPAddr
		}

		srv := httpapi.New(addr, log.Logger, src, httpapi.Options{
			Concurrency:   cfg.FetchConcurrency,
			EnableMermaid: cfg.EnableMermaidCharts,
		})

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-cmd.Context().Done():
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Stop(ctx)
		}
	},
}

func init() {
	httpCmd.Flags().StringVar(&httpAddr, "addr", "", "listen address (defaults to HTTP_ADDR)")
	rootCmd.AddCommand(httpCmd)
}
