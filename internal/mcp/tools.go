package mcp

import (
	"context"
	"errors"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/trailmark/internal/session"
	"github.com/meltforce/trailmark/internal/workout"
)

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List logged workouts in creation order. Each has distance, duration, location and either pace and cadence (running) or speed and elevation gain (cycling)."),
	mcp.WithString("type", mcp.Description("Only return workouts of this type"), mcp.Enum(string(workout.KindRunning), string(workout.KindCycling))),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get one workout by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id as returned by list_workouts")),
)

var toolLogWorkout = mcp.NewTool("log_workout",
	mcp.WithDescription("Log a workout at a location, as if the user clicked the map and submitted the form. Fails until the session map is ready."),
	mcp.WithNumber("lat", mcp.Required(), mcp.Description("Latitude in degrees")),
	mcp.WithNumber("lng", mcp.Required(), mcp.Description("Longitude in degrees")),
	mcp.WithString("type", mcp.Required(), mcp.Enum(string(workout.KindRunning), string(workout.KindCycling))),
	mcp.WithNumber("distance_km", mcp.Required(), mcp.Description("Distance in km, > 0")),
	mcp.WithNumber("duration_min", mcp.Required(), mcp.Description("Duration in minutes, > 0")),
	mcp.WithNumber("cadence_spm", mcp.Description("Steps per minute, whole number > 0. Required for running.")),
	mcp.WithNumber("elevation_gain_m", mcp.Description("Elevation gain in meters, >= 0. Required for cycling.")),
)

// --- Tool handlers ---

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var kind workout.Kind
	if t := req.GetString("type", ""); t != "" {
		k, err := workout.ParseKind(t)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		kind = k
	}

	workouts, err := h.src.Workouts(ctx, kind)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	w, err := h.src.Workout(ctx, id)
	if errors.Is(err, workout.ErrNotFound) {
		return mcp.NewToolResultError("workout not found: " + id), nil
	}
	if err != nil {
		h.log.Error("mcp get_workout", "id", id, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(w)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lat, err := req.RequireFloat("lat")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lng, err := req.RequireFloat("lng")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := req.GetArguments()
	fields := session.FormFields{
		Type:      req.GetString("type", ""),
		Distance:  numberArg(args, "distance_km"),
		Duration:  numberArg(args, "duration_min"),
		Cadence:   numberArg(args, "cadence_spm"),
		Elevation: numberArg(args, "elevation_gain_m"),
	}

	w, err := h.src.LogWorkout(ctx, workout.Coordinates{Lat: lat, Lng: lng}, fields)
	switch {
	case errors.Is(err, workout.ErrValidation):
		return mcp.NewToolResultError(err.Error()), nil
	case errors.Is(err, session.ErrInvalidEvent):
		return mcp.NewToolResultError("session not ready for new workouts: " + err.Error()), nil
	case err != nil:
		h.log.Error("mcp log_workout", "error", err)
		return mcp.NewToolResultError("logging failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(w)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// numberArg renders a numeric argument the way a form field would hold it.
// Missing arguments come back empty and fail validation downstream.
func numberArg(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	default:
		return ""
	}
}
