package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server exposes a completed export directory over MCP stdio so the
// downstream prompt generator can query world hooks without touching the
// files directly.
type Server struct {
	dir string
	mcp *sdk.Server
}

func NewServer(dir, version string) *Server {
	s := &Server{
		dir: dir,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "worldhooks",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
