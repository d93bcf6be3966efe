package mcp

import (
	"context"
	"time"

	"sprintcap/internal/planning"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Options tune the tool surface.
type Options struct {
	Version       string
	Concurrency   int
	EnableMermaid bool
	Now           func() time.Time
}

// Server exposes capacity reports as MCP tools.
type Server struct {
	source planning.Source
	opts   Options
}

// NewServer creates a new MCP server reading from source.
func NewServer(source planning.Source, opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{source: source, opts: opts}
}

// SDKServer builds the underlying MCP server with every tool registered.
func (s *Server) SDKServer() (*mcpsdk.Server, error) {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "sprintcap", Version: s.opts.Version}, nil)
	if err := s.registerTools(server); err != nil {
		return nil, err
	}
	return server, nil
}

// Serve runs the MCP protocol over stdio until ctx is cancelled or stdin closes.
func (s *Server) Serve(ctx context.Context) error {
	server, err := s.SDKServer()
	if err != nil {
		return err
	}
	log.Info().Str("version", s.opts.Version).Msg("MCP server listening on stdio")
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) planner(onStage func(planning.Stage)) *planning.Planner {
	opts := []planning.Option{planning.WithConcurrency(s.opts.Concurrency)}
	if onStage != nil {
		opts = append(opts, planning.WithStageHook(onStage))
	}
	return planning.NewPlanner(s.source, opts...)
}
