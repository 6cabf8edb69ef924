// Package mcpapi exposes the board to MCP clients over stdio.
package mcpapi

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/evanschultz/kanbo/internal/board"
	"github.com/evanschultz/kanbo/internal/domain"
	"github.com/evanschultz/kanbo/internal/theme"
)

// Config captures MCP server identity.
type Config struct {
	ServerName    string
	ServerVersion string
}

// Service is the slice of the application layer the tools call.
type Service interface {
	Add(title string) (domain.Task, board.Outcome)
	MoveByID(id int, newStatus string) board.Outcome
	RemoveByID(id int) board.Outcome
	Tasks() []domain.Task
	Render(termWidth int, styles theme.Styles) string
	Summary() string
	Flush(ctx context.Context) error
}

// taskPayload is the wire shape for one task in tool results.
type taskPayload struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Status         string `json:"status"`
	CompletionDate string `json:"completion_date,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// NewServer builds one MCP server with the board tools registered.
func NewServer(cfg Config, svc Service) (*mcpserver.MCPServer, error) {
	if svc == nil {
		return nil, fmt.Errorf("board service is required")
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	registerListTasksTool(mcpSrv, svc)
	registerAddTaskTool(mcpSrv, svc)
	registerMoveTaskTool(mcpSrv, svc)
	registerRemoveTaskTool(mcpSrv, svc)
	registerRenderBoardTool(mcpSrv, svc)
	return mcpSrv, nil
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects.
func ServeStdio(srv *mcpserver.MCPServer) error {
	return mcpserver.ServeStdio(srv)
}

// Listen serves MCP over the given streams until end of input or
// context cancellation.
func Listen(ctx context.Context, srv *mcpserver.MCPServer, in io.Reader, out io.Writer) error {
	return mcpserver.NewStdioServer(srv).Listen(ctx, in, out)
}

// normalizeConfig applies deterministic defaults to MCP server config.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "kanbo"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	return cfg
}

// registerListTasksTool registers the `kanbo.list_tasks` tool.
func registerListTasksTool(srv *mcpserver.MCPServer, svc Service) {
	srv.AddTool(
		mcp.NewTool(
			"kanbo.list_tasks",
			mcp.WithDescription("List board tasks, optionally filtered to one stage."),
			mcp.WithString("status", mcp.Description("Stage filter: todo, in-progress, done (aliases t/ip/d accepted)")),
		),
		listTasksHandler(svc),
	)
}

func listTasksHandler(svc Service) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var filter domain.Status
		if raw := req.GetString("status", ""); raw != "" {
			status, err := domain.ParseStatus(raw)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid_request: Invalid status: %s", raw)), nil
			}
			filter = status
		}
		tasks := make([]taskPayload, 0)
		for _, task := range svc.Tasks() {
			if filter != "" && task.Status != filter {
				continue
			}
			tasks = append(tasks, payloadFromTask(task))
		}
		result, err := mcp.NewToolResultJSON(map[string]any{
			"tasks":   tasks,
			"summary": svc.Summary(),
		})
		if err != nil {
			return nil, fmt.Errorf("encode list_tasks result: %w", err)
		}
		return result, nil
	}
}

// registerAddTaskTool registers the `kanbo.add_task` tool.
func registerAddTaskTool(srv *mcpserver.MCPServer, svc Service) {
	srv.AddTool(
		mcp.NewTool(
			"kanbo.add_task",
			mcp.WithDescription("Create a new task in the todo stage."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
		),
		addTaskHandler(svc),
	)
}

func addTaskHandler(svc Service) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		task, outcome := svc.Add(title)
		if !outcome.OK() {
			return toolResultFromOutcome(outcome), nil
		}
		if err := svc.Flush(ctx); err != nil {
			return mcp.NewToolResultError("internal_error: " + err.Error()), nil
		}
		result, err := mcp.NewToolResultJSON(map[string]any{
			"message": outcome.Message,
			"task":    payloadFromTask(task),
		})
		if err != nil {
			return nil, fmt.Errorf("encode add_task result: %w", err)
		}
		return result, nil
	}
}

// registerMoveTaskTool registers the `kanbo.move_task` tool.
func registerMoveTaskTool(srv *mcpserver.MCPServer, svc Service) {
	srv.AddTool(
		mcp.NewTool(
			"kanbo.move_task",
			mcp.WithDescription("Move one task to another stage by id."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Task id")),
			mcp.WithString("status", mcp.Required(), mcp.Description("Target stage: todo, in-progress, done (aliases t/ip/d accepted)")),
		),
		moveTaskHandler(svc),
	)
}

func moveTaskHandler(svc Service) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireInt("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		raw, err := req.RequireString("status")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid_request: Invalid status: %s", raw)), nil
		}
		outcome := svc.MoveByID(id, string(status))
		if !outcome.OK() {
			return toolResultFromOutcome(outcome), nil
		}
		if err := svc.Flush(ctx); err != nil {
			return mcp.NewToolResultError("internal_error: " + err.Error()), nil
		}
		result, err := mcp.NewToolResultJSON(map[string]any{"message": outcome.Message})
		if err != nil {
			return nil, fmt.Errorf("encode move_task result: %w", err)
		}
		return result, nil
	}
}

// registerRemoveTaskTool registers the `kanbo.remove_task` tool.
func registerRemoveTaskTool(srv *mcpserver.MCPServer, svc Service) {
	srv.AddTool(
		mcp.NewTool(
			"kanbo.remove_task",
			mcp.WithDescription("Remove one task from the board by id."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Task id")),
		),
		removeTaskHandler(svc),
	)
}

func removeTaskHandler(svc Service) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireInt("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		outcome := svc.RemoveByID(id)
		if !outcome.OK() {
			return toolResultFromOutcome(outcome), nil
		}
		if err := svc.Flush(ctx); err != nil {
			return mcp.NewToolResultError("internal_error: " + err.Error()), nil
		}
		result, err := mcp.NewToolResultJSON(map[string]any{"message": outcome.Message})
		if err != nil {
			return nil, fmt.Errorf("encode remove_task result: %w", err)
		}
		return result, nil
	}
}

// registerRenderBoardTool registers the `kanbo.render_board` tool.
func registerRenderBoardTool(srv *mcpserver.MCPServer, svc Service) {
	srv.AddTool(
		mcp.NewTool(
			"kanbo.render_board",
			mcp.WithDescription("Render the board grid as plain text."),
			mcp.WithNumber("width", mcp.Description("Terminal width in cells (defaults to 120)")),
		),
		renderBoardHandler(svc),
	)
}

func renderBoardHandler(svc Service) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		width := req.GetInt("width", 0)
		return mcp.NewToolResultText(svc.Render(width, theme.Plain())), nil
	}
}

// toolResultFromOutcome maps failed board outcomes into MCP-visible tool errors.
func toolResultFromOutcome(outcome board.Outcome) *mcp.CallToolResult {
	switch outcome.Kind {
	case board.OutcomeNotFound:
		return mcp.NewToolResultError("not_found: " + outcome.Message)
	case board.OutcomeInvalidStatus, board.OutcomeInvalidTitle:
		return mcp.NewToolResultError("invalid_request: " + outcome.Message)
	default:
		return mcp.NewToolResultError("internal_error: " + outcome.Message)
	}
}

// payloadFromTask converts one domain task into its wire shape.
func payloadFromTask(task domain.Task) taskPayload {
	payload := taskPayload{
		ID:     task.ID,
		Title:  task.Title,
		Status: string(task.Status),
	}
	if task.CompletionDate != nil {
		payload.CompletionDate = task.CompletionDate.UTC().Format(time.RFC3339Nano)
	}
	if task.CreatedAt != nil {
		payload.CreatedAt = task.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return payload
}
