// Package main implements the MCP server for JotFrame binders.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jotframe/binder-mcp/internal/orchestrator"
	"github.com/jotframe/binder-mcp/internal/store"
)

var (
	orch      *orchestrator.Orchestrator
	projectID string
	logger    zerolog.Logger
)

func main() {
	cmd := &cobra.Command{
		Use:   "binder-mcp [project-id]",
		Short: "MCP bridge for JotFrame project binders",
		Long: `binder-mcp is a Model Context Protocol (MCP) server that lets any
MCP-compatible AI harness organize the note binder of a JotFrame
writing project: create notes and folders, rename and move them,
and delete them, with the folder structure kept consistent even
though the backend stores notes as a flat list.`,
		Example: `binder-mcp my-novel --api-url https://api.jotframe.app`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runServer,
	}
	registerFlags(cmd)

	if err := fang.Execute(
		context.Background(),
		cmd,
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	logger = newLogger(cfg.LogLevel)
	projectID = cfg.ProjectID

	client := store.NewClient(cfg.APIURL, cfg.Token,
		store.WithLogger(logger.With().Str("component", "store").Logger()))
	orch = orchestrator.New(client, projectID,
		logger.With().Str("component", "orchestrator").Logger())

	// Warm the snapshot. The backend being unreachable at startup is not
	// fatal: tools refresh on demand.
	if _, err := orch.Refresh(cmd.Context()); err != nil {
		logger.Warn().Err(err).Msg("initial tree fetch failed")
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "binder-mcp",
		Version: version,
	}, nil)

	registerTools(server)

	if err := server.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("error running server: %w", err)
	}

	return nil
}

// newLogger builds the process logger. Stdout carries the MCP protocol,
// so everything goes to stderr.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
