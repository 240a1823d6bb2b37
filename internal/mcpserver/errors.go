package mcpserver

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"diamond-bridge/internal/bridge"
)

func toolResult(data any) *mcp.CallToolResult {
	return mcp.NewToolResultStructuredOnly(data)
}

func toolError(code, message string) *mcp.CallToolResult {
	result := mcp.NewToolResultStructured(
		map[string]any{
			"error": map[string]any{
				"code":    code,
				"message": message,
			},
		},
		fmt.Sprintf("%s: %s", code, message),
	)
	result.IsError = true
	return result
}

func mapBridgeError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return toolError("internal_error", "unknown error")
	case errors.Is(err, bridge.ErrGameComplete):
		return toolError("game_complete", "game is complete, reset to continue")
	case errors.Is(err, bridge.ErrStopped):
		return toolError("bridge_stopped", err.Error())
	default:
		return toolError("internal_error", err.Error())
	}
}
