package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"chipwarden/internal/adapters/archive"
	mcpadapter "chipwarden/internal/adapters/mcp"
	"chipwarden/internal/adapters/sqlite"
	"chipwarden/internal/config"
)

func main() {
	configFlag := flag.String("config", config.DefaultPath(), "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("chipwarden-mcp: %v", err)
	}

	store, err := archive.NewStore(cfg.Directories.Archive, nil, false, zap.NewNop())
	if err != nil {
		log.Fatalf("chipwarden-mcp: %v", err)
	}

	index := sqlite.NewIndex()
	if err := index.Open(cfg.IndexPath()); err != nil {
		log.Fatalf("chipwarden-mcp: %v", err)
	}
	defer index.Close()

	mcpServer := server.NewMCPServer(
		"chipwarden-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check — returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, store, index)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("chipwarden-mcp: %v", err)
	}
}
