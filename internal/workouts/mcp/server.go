package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server exposing the caller's workouts and daily stats.
// Served over stdio by cmd/fitdash_mcp, and over HTTP at /mcp by the backend.
func NewServer(service workoutsService, version string) *mcp.Server {
	h := NewHandler(service)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "fitdash",
		Version: version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workouts_for_date",
		Description: "Returns the workouts started on the given day (YYYY-MM-DD, today when omitted), newest first, each with its exercises in order and their sets (reps, weight, unit, rpe, rir, warmup).",
	}, h.GetWorkoutsForDateTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_stats_for_date",
		Description: "Returns totals for the given day (YYYY-MM-DD, today when omitted): number of workouts, number of exercises, and total recorded duration in minutes.",
	}, h.GetStatsForDateTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_all_workouts",
		Description: "Returns every workout of the user, newest first, with exercises and sets. Use for history questions spanning several days.",
	}, h.GetAllWorkoutsTool())

	return s
}

// NewHTTPHandler serves the server over streamable HTTP.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}
