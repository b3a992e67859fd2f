package mcp

import (
	"context"
	"encoding/json"

	"github.com/2beens/fitdash/internal/calendar"
	"github.com/2beens/fitdash/internal/workouts"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

type workoutsService interface {
	GetWorkoutsForDate(ctx context.Context, date calendar.Date) ([]workouts.Workout, error)
	GetStatsForDate(ctx context.Context, date calendar.Date) (workouts.Stats, error)
	GetAllWorkoutsForUser(ctx context.Context) ([]workouts.Workout, error)
	Today() calendar.Date
}

// Handler adapts the workouts service to MCP tools.
type Handler struct {
	service workoutsService
}

func NewHandler(service workoutsService) *Handler {
	return &Handler{
		service: service,
	}
}

// DateInput is the input for the per-day tools.
type DateInput struct {
	Date string `json:"date,omitempty" jsonschema:"Calendar date (YYYY-MM-DD); today when empty"`
}

func (h *Handler) GetWorkoutsForDateTool() func(context.Context, *mcp.CallToolRequest, DateInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DateInput) (*mcp.CallToolResult, any, error) {
		date, errResult := h.parseDate(in.Date)
		if errResult != nil {
			return errResult, nil, nil
		}
		list, err := h.service.GetWorkoutsForDate(ctx, date)
		if err != nil {
			return errorResult("Error fetching workouts", err), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

func (h *Handler) GetStatsForDateTool() func(context.Context, *mcp.CallToolRequest, DateInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DateInput) (*mcp.CallToolResult, any, error) {
		date, errResult := h.parseDate(in.Date)
		if errResult != nil {
			return errResult, nil, nil
		}
		stats, err := h.service.GetStatsForDate(ctx, date)
		if err != nil {
			return errorResult("Error fetching stats", err), nil, nil
		}
		return jsonResult(stats), nil, nil
	}
}

// AllWorkoutsInput is the (empty) input for get_all_workouts.
type AllWorkoutsInput struct{}

func (h *Handler) GetAllWorkoutsTool() func(context.Context, *mcp.CallToolRequest, AllWorkoutsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ AllWorkoutsInput) (*mcp.CallToolResult, any, error) {
		list, err := h.service.GetAllWorkoutsForUser(ctx)
		if err != nil {
			return errorResult("Error fetching workouts", err), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

func (h *Handler) parseDate(raw string) (calendar.Date, *mcp.CallToolResult) {
	if raw == "" {
		return h.service.Today(), nil
	}
	date, err := calendar.ParseDate(raw)
	if err != nil {
		return calendar.Date{}, &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Invalid date: use YYYY-MM-DD"}},
			IsError: true,
		}
	}
	return date, nil
}

func errorResult(prefix string, err error) *mcp.CallToolResult {
	log.Debugf("mcp: %s: %s", prefix, err)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: prefix + ": " + workouts.ErrorMessage(err)}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error encoding response: " + err.Error()}},
			IsError: true,
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}
