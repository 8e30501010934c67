// ABOUTME: MCP resource implementations for workout plans.
// ABOUTME: Provides lifts://workouts and lifts://today resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/lifts/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	workoutsURI = "lifts://workouts"
	todayURI    = "lifts://today"
)

func (s *Server) registerResources() {
	// lifts://workouts - every plan with its exercises
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         workoutsURI,
		Name:        "Workout Plans",
		Description: "All workout plans with exercises and planned sets",
		MIMEType:    "application/json",
	}, s.handleWorkoutsResource)

	// lifts://today - plans scheduled for today plus today's sessions
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Training",
		Description: "Plans scheduled for today and workouts completed today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)
}

// Resource handlers

func (s *Server) handleWorkoutsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	workouts, err := s.repo.ListAllWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	plans, err := s.detailed(ctx, workouts)
	if err != nil {
		return nil, err
	}

	return jsonResource(workoutsURI, map[string]any{
		"count":    len(plans),
		"workouts": plans,
	})
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := models.WeekdayOf(now.Weekday())

	scheduled, err := s.repo.ListWorkoutsByDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	plans, err := s.detailed(ctx, scheduled)
	if err != nil {
		return nil, err
	}

	// History is newest first, so stop at the first entry before today.
	history, err := s.repo.ListCompletedWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	completed := []completedOutput{}
	for _, cw := range history {
		if cw.Date.Before(todayStart) {
			break
		}
		completed = append(completed, toCompletedOutput(cw))
	}

	return jsonResource(todayURI, map[string]any{
		"date":      todayStart.Format("2006-01-02"),
		"day":       day.Title(),
		"scheduled": plans,
		"completed": completed,
		"counts": map[string]int{
			"scheduled": len(plans),
			"completed": len(completed),
		},
	})
}

func (s *Server) detailed(ctx context.Context, workouts []*models.Workout) ([]workoutOutput, error) {
	out := make([]workoutOutput, 0, len(workouts))
	for _, w := range workouts {
		full, err := s.repo.GetWorkoutDetails(ctx, w.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load workout %s: %w", w.Name, err)
		}
		if full == nil {
			continue
		}
		out = append(out, toWorkoutOutput(full))
	}
	return out, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
