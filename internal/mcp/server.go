// Package mcp exposes the analytics engine as Model Context Protocol tools over stdio.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"kopstat/internal/analytics"
	"kopstat/internal/config"
)

// Server holds the state for the MCP server.
type Server struct {
	server   *mcp.Server
	engine   analytics.Analyzer
	defaults analytics.Config
	charts   bool
}

// NewServer creates an MCP server with every analytics tool registered. Tool defaults
// (threshold, horizon, stable epsilon) come from cfg; a nil cfg uses the engine defaults.
func NewServer(cfg *config.AppConfig, engine analytics.Analyzer, version string) *Server {
	if version == "" {
		version = "dev"
	}
	s := &Server{
		server:   mcp.NewServer(&mcp.Implementation{Name: "kopstat", Version: version}, nil),
		engine:   engine,
		defaults: analytics.DefaultConfig(),
	}
	if cfg != nil {
		s.defaults = cfg.EngineConfig()
		s.charts = cfg.EnableMermaidCharts
	}
	s.registerTools()
	return s
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	log.Info().Bool("charts", s.charts).Msg("MCP server starting stdio transport")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
