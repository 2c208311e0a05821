// Package mcp exposes logged workouts to MCP clients.
package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// recentWindow is how far back trailmark://recent_workouts reaches.
const recentWindow = 14 * 24 * time.Hour

// New creates an MCP server with all tools and resources registered.
func New(src WorkoutSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("trailmark", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("trailmark workout log. List and inspect running and cycling workouts, or log a new one at a map location."),
	)

	h := &handlers{src: src, log: log, now: time.Now}

	s.AddTools(
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolLogWorkout, Handler: h.logWorkout},
	)
	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	src WorkoutSource
	log *slog.Logger
	now func() time.Time
}

var resRecentWorkouts = mcp.NewResource(
	"trailmark://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Workouts logged in the last 14 days"),
	mcp.WithMIMEType("application/json"),
)
