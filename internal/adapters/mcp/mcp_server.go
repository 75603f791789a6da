// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xvierd/purrmodoro/internal/domain"
	"github.com/xvierd/purrmodoro/internal/ports"
)

// PeriodFunc maps a history period name to its start time.
type PeriodFunc func(period string) (time.Time, error)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	periodStart   PeriodFunc
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider, periodStart PeriodFunc) *Server {
	s := &Server{
		stateProvider: stateProvider,
		periodStart:   periodStart,
	}

	s.server = server.NewMCPServer(
		"purrmodoro",
		"1.0.0",
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_settings",
			mcp.WithDescription("Get the configured focus, short break and long break durations in seconds"),
		),
		s.handleGetSettings,
	)

	s.server.AddTool(
		mcp.NewTool(
			"update_settings",
			mcp.WithDescription("Update one or more durations. Omitted durations keep their current value; values below 1 second are raised to 1"),
			mcp.WithNumber("work_seconds", mcp.Description("Focus duration in seconds")),
			mcp.WithNumber("short_break_seconds", mcp.Description("Short break duration in seconds")),
			mcp.WithNumber("long_break_seconds", mcp.Description("Long break duration in seconds")),
		),
		s.handleUpdateSettings,
	)

	s.server.AddTool(
		mcp.NewTool(
			"list_history",
			mcp.WithDescription("List completed countdowns"),
			mcp.WithString(
				"period",
				mcp.Description("History window"),
				mcp.Enum("today", "week", "month", "all"),
			),
		),
		s.handleListHistory,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_today_stats",
			mcp.WithDescription("Get today's focus sessions, breaks and total focused time"),
		),
		s.handleGetTodayStats,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_wisdom",
			mcp.WithDescription("Get a short line of cat wisdom for a mode"),
			mcp.WithString(
				"mode",
				mcp.Description("Timer mode, e.g. work, short break, long break"),
			),
		),
		s.handleGetWisdom,
	)
}

// Start begins serving MCP requests on stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func settingsResult(settings domain.Settings) map[string]interface{} {
	return map[string]interface{}{
		"work_seconds":        settings.WorkDuration,
		"short_break_seconds": settings.ShortBreakDuration,
		"long_break_seconds":  settings.LongBreakDuration,
		"work":                domain.FormatClock(settings.WorkDuration),
		"short_break":         domain.FormatClock(settings.ShortBreakDuration),
		"long_break":          domain.FormatClock(settings.LongBreakDuration),
	}
}

func (s *Server) handleGetSettings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	settings, err := s.stateProvider.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return jsonResult(settingsResult(settings))
}

func (s *Server) handleUpdateSettings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	settings, err := s.stateProvider.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	changed := false
	for _, field := range []struct {
		name string
		mode domain.Mode
	}{
		{"work_seconds", domain.ModeWork},
		{"short_break_seconds", domain.ModeShortBreak},
		{"long_break_seconds", domain.ModeLongBreak},
	} {
		// JSON numbers arrive as float64; -1 marks an absent argument.
		v := request.GetFloat(field.name, -1)
		if v == -1 {
			continue
		}
		settings = settings.With(field.mode, int(v))
		changed = true
	}
	if !changed {
		return mcp.NewToolResultError("at least one of work_seconds, short_break_seconds or long_break_seconds is required"), nil
	}

	saved, err := s.stateProvider.UpdateSettings(ctx, settings)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save settings: %v", err)), nil
	}
	return jsonResult(settingsResult(saved))
}

func (s *Server) handleListHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	period := request.GetString("period", "week")
	since, err := s.periodStart(period)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	completions, err := s.stateProvider.ListHistory(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]map[string]interface{}, 0, len(completions))
	for _, c := range completions {
		entry := map[string]interface{}{
			"id":           c.ID,
			"mode":         string(c.Mode),
			"duration_s":   c.Duration,
			"completed_at": c.CompletedAt.Format(time.RFC3339),
		}
		if c.GitBranch != "" {
			entry["git_branch"] = c.GitBranch
		}
		if c.GitCommit != "" {
			entry["git_commit"] = c.GitCommit
		}
		entries = append(entries, entry)
	}
	stats := domain.Summarize(completions)

	return jsonResult(map[string]interface{}{
		"period":          period,
		"completions":     entries,
		"total_count":     len(entries),
		"work_sessions":   stats.WorkSessions,
		"breaks_taken":    stats.BreaksTaken,
		"focused_seconds": stats.FocusedSeconds,
	})
}

func (s *Server) handleGetTodayStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.stateProvider.TodayStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get today stats: %w", err)
	}
	return jsonResult(map[string]interface{}{
		"work_sessions":   stats.WorkSessions,
		"breaks_taken":    stats.BreaksTaken,
		"focused_seconds": stats.FocusedSeconds,
		"total_focused":   stats.TotalFocused().String(),
	})
}

func (s *Server) handleGetWisdom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode := domain.ModeWork
	if raw := strings.TrimSpace(request.GetString("mode", "")); raw != "" {
		resolved, err := domain.ResolveMode(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		mode = resolved
	}

	quote := s.stateProvider.FetchWisdom(ctx, mode)
	return jsonResult(map[string]interface{}{
		"mode": string(mode),
		"text": quote.Text,
		"mood": string(quote.Mood),
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
