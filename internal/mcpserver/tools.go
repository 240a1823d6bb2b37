package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"diamond-bridge/internal/analysis"
)

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_game_state",
			mcp.WithDescription("Get the current game state snapshot"),
		),
		s.handleGetGameState,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"play_ball",
			mcp.WithDescription("Advance the game by one play and return the resulting state"),
		),
		s.handlePlayBall,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"reset_game",
			mcp.WithDescription("Reset to a fresh game and return the initial state"),
		),
		s.handleResetGame,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_quality",
			mcp.WithDescription("Get the current stream quality tier and latency stats"),
		),
		s.handleGetQuality,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"project_player",
			mcp.WithDescription("Project season rate stats for a player from counting stats"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Player name")),
			mcp.WithNumber("at_bats", mcp.Required(), mcp.Description("At bats to date")),
			mcp.WithNumber("hits", mcp.Description("Hits to date")),
			mcp.WithNumber("home_runs", mcp.Description("Home runs to date")),
			mcp.WithNumber("walks", mcp.Description("Walks to date")),
			mcp.WithNumber("strikeouts", mcp.Description("Strikeouts to date")),
			mcp.WithNumber("games", mcp.Description("Games played to date")),
		),
		s.handleProjectPlayer,
	)
}

func (s *Server) handleGetGameState(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.bridge.Snapshot(ctx)
	if err != nil {
		return mapBridgeError(err), nil
	}
	return toolResult(snap), nil
}

func (s *Server) handlePlayBall(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.bridge.Play(ctx)
	if err != nil {
		return mapBridgeError(err), nil
	}
	return toolResult(snap), nil
}

func (s *Server) handleResetGame(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.bridge.Reset(ctx)
	if err != nil {
		return mapBridgeError(err), nil
	}
	return toolResult(snap), nil
}

func (s *Server) handleGetQuality(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.bridge.QualityStats()), nil
}

func (s *Server) handleProjectPlayer(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.projector == nil {
		return toolError("projector_unavailable", "no projector configured"), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	atBats := request.GetInt("at_bats", 0)
	if atBats < 0 {
		return toolError("invalid_request", "at_bats must be non-negative"), nil
	}

	stats := analysis.PlayerStats{
		Name:       name,
		AtBats:     atBats,
		Hits:       request.GetInt("hits", 0),
		HomeRuns:   request.GetInt("home_runs", 0),
		Walks:      request.GetInt("walks", 0),
		Strikeouts: request.GetInt("strikeouts", 0),
		Games:      request.GetInt("games", 0),
	}
	return toolResult(s.projector.Project(stats)), nil
}
