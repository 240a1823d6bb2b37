package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"diamond-bridge/internal/analysis"
	"diamond-bridge/internal/bridge"
)

// Server exposes the live bridge over MCP: read tools for agents, plus the
// same play/reset commands viewers have.
type Server struct {
	bridge    *bridge.Bridge
	projector analysis.Projector

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

func New(b *bridge.Bridge, projector analysis.Projector) *Server {
	mcpSrv := server.NewMCPServer(
		"diamond-bridge",
		"0.1.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithResourceRecovery(),
	)
	s := &Server{
		bridge:     b,
		projector:  projector,
		mcpServer:  mcpSrv,
		httpServer: server.NewStreamableHTTPServer(mcpSrv, server.WithStateLess(true), server.WithDisableStreaming(true)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer
}

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"game://{game_id}/state",
			"game_state",
			mcp.WithTemplateDescription("Live game state snapshot by game id"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			raw := string(request.Params.URI)
			if !strings.HasPrefix(raw, "game://") || !strings.HasSuffix(raw, "/state") {
				return nil, nil
			}
			snap, err := s.bridge.Snapshot(ctx)
			if err != nil {
				return nil, err
			}
			payload, err := json.Marshal(snap)
			if err != nil {
				return nil, err
			}
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      raw,
					MIMEType: "application/json",
					Text:     string(payload),
				},
			}, nil
		},
	)
}
