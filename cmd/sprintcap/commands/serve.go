package commands

import (
	"sprintcap/internal/mcp"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openSource("")
		if err != nil {
			return err
		}
		server := mcp.NewServer(src, mcp.Options{
			Version:       Version,
			Concurrency:   cfg.FetchConcurrency,
			EnableMermaid: cfg.EnableMermaidCharts,
		})
		return server.Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
