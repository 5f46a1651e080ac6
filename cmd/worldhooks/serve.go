package main

import (
	"context"

	"github.com/spf13/cobra"

	"worldhooks/internal/config"
	"worldhooks/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

var serveOut string

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an export directory over MCP stdio",
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&serveOut, "out", "", "Export directory to serve (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	dir := serveOut
	if dir == "" {
		cfg, err := config.LoadProjectConfig("worldhooks.yaml")
		if err != nil {
			return err
		}
		dir = cfg.Output.Dir
	}

	server := mcp.NewServer(dir, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
