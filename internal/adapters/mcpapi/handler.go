// Package mcpapi exposes the assignment engine as MCP tools over stdio.
package mcpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/evanschultz/roulette/internal/domain"
	"github.com/evanschultz/roulette/internal/roulette"
	"github.com/evanschultz/roulette/internal/wheel"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Config captures MCP server configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	MinTurns      int
	Mode          roulette.Mode
	Wheel         wheel.Options
	// Draw returns a uniform value in [0,1) used when no angle is given.
	Draw func() float64
}

// Server wraps one MCP server with the roulette tools registered.
type Server struct {
	cfg Config
	mcp *mcpserver.MCPServer
}

// AssignResult is the JSON payload of roulette.assign.
type AssignResult struct {
	Mode        roulette.Mode       `json:"mode"`
	Rotation    float64             `json:"rotation"`
	Members     []string            `json:"members"`
	Tasks       []string            `json:"tasks"`
	Assignments []domain.Assignment `json:"assignments"`
}

// NewServer builds an MCP server exposing roulette.assign and roulette.render_svg.
func NewServer(cfg Config) *Server {
	cfg = normalizeConfig(cfg)
	s := &Server{cfg: cfg}
	s.mcp = mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	s.registerAssignTool()
	s.registerRenderTool()
	return s
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// Listen serves newline-delimited JSON-RPC on stdin/stdout until ctx ends or
// stdin closes.
func (s *Server) Listen(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	return mcpserver.NewStdioServer(s.mcp).Listen(ctx, stdin, stdout)
}

// normalizeConfig applies deterministic defaults to MCP adapter config.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "roulette"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	if cfg.MinTurns <= 0 {
		cfg.MinTurns = roulette.DefaultMinTurns
	}
	if cfg.Mode == "" {
		cfg.Mode = roulette.ModeWheel
	}
	if cfg.Wheel.Size <= 0 {
		cfg.Wheel = wheel.DefaultOptions()
	}
	if cfg.Draw == nil {
		cfg.Draw = rand.Float64
	}
	return cfg
}

// registerAssignTool registers the `roulette.assign` tool.
func (s *Server) registerAssignTool() {
	s.mcp.AddTool(
		mcp.NewTool(
			"roulette.assign",
			mcp.WithDescription("Spin the wheel once and return one task per member."),
			mcp.WithArray("members", mcp.Required(), mcp.Description("Member names (pointers)"), mcp.WithStringItems()),
			mcp.WithArray("tasks", mcp.Required(), mcp.Description("Task names (wedges)"), mcp.WithStringItems()),
			mcp.WithNumber("angle", mcp.Description("Final wheel rotation in degrees; random when omitted")),
			mcp.WithString("mode", mcp.Description("wheel or shuffle"), mcp.Enum(string(roulette.ModeWheel), string(roulette.ModeShuffle))),
		),
		s.handleAssign,
	)
}

// registerRenderTool registers the `roulette.render_svg` tool.
func (s *Server) registerRenderTool() {
	s.mcp.AddTool(
		mcp.NewTool(
			"roulette.render_svg",
			mcp.WithDescription("Render the wheel and pointers at one rotation as an SVG document."),
			mcp.WithArray("members", mcp.Required(), mcp.Description("Member names (pointers)"), mcp.WithStringItems()),
			mcp.WithArray("tasks", mcp.Required(), mcp.Description("Task names (wedges)"), mcp.WithStringItems()),
			mcp.WithNumber("angle", mcp.Description("Wheel rotation in degrees (default 0)")),
		),
		s.handleRender,
	)
}

// handleAssign runs one assignment.
func (s *Server) handleAssign(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	members, tasks, err := rosterFromRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode := s.cfg.Mode
	if raw := req.GetString("mode", ""); raw != "" {
		mode, err = roulette.ParseMode(raw)
		if err != nil {
			return mcp.NewToolResultError("invalid_request: " + err.Error()), nil
		}
	}

	theta, ok := angleArgument(req)
	if !ok {
		theta = roulette.TargetAngle(s.cfg.Draw(), s.cfg.MinTurns)
	}
	assignments, err := roulette.StrategyFor(mode, nil).Assign(members, tasks, theta)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(AssignResult{
		Mode:        mode,
		Rotation:    theta,
		Members:     domain.Names(members),
		Tasks:       domain.Names(tasks),
		Assignments: assignments,
	})
	if err != nil {
		return nil, fmt.Errorf("encode assign result: %w", err)
	}
	return result, nil
}

// handleRender draws one wheel frame.
func (s *Server) handleRender(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	members, tasks, err := rosterFromRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	theta, _ := angleArgument(req)
	if err := roulette.CheckAngle(theta); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scene := wheel.Build(domain.Names(tasks), domain.Names(members), theta, s.cfg.Wheel)
	var buf bytes.Buffer
	if err := wheel.WriteSVG(&buf, scene); err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	return mcp.NewToolResultText(buf.String()), nil
}

// rosterFromRequest reads both roster arguments, skipping blank names.
func rosterFromRequest(req mcp.CallToolRequest) ([]domain.Entity, []domain.Entity, error) {
	memberNames, err := req.RequireStringSlice("members")
	if err != nil {
		return nil, nil, fmt.Errorf("invalid_request: %w", err)
	}
	taskNames, err := req.RequireStringSlice("tasks")
	if err != nil {
		return nil, nil, fmt.Errorf("invalid_request: %w", err)
	}
	members := domain.EntitiesFromNames(domain.KindMember, memberNames)
	tasks := domain.EntitiesFromNames(domain.KindTask, taskNames)
	if len(members) == 0 {
		return nil, nil, roulette.ErrNoMembers
	}
	if len(tasks) == 0 {
		return nil, nil, roulette.ErrNoTasks
	}
	return members, tasks, nil
}

// angleArgument reports the explicit angle argument, if present.
func angleArgument(req mcp.CallToolRequest) (float64, bool) {
	if _, ok := req.GetArguments()["angle"]; !ok {
		return 0, false
	}
	return req.GetFloat("angle", 0), true
}
