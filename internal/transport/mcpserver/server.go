// Package mcpserver exposes the tool registry over the Model Context Protocol.
package mcpserver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/piexl/CAD-MCP/internal/tool"
)

// Server registers every tool of a registry on an MCP server.
type Server struct {
	mcp    *server.MCPServer
	logger *slog.Logger
}

// New creates a Server named name/version serving the tools in reg.
func New(name, version string, reg *tool.Registry, logger *slog.Logger) *Server {
	if reg == nil {
		panic("registry is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		mcp: server.NewMCPServer(
			name,
			version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		logger: logger.With("component", "mcp"),
	}
	for _, t := range reg.List() {
		s.mcp.AddTool(mcp.NewToolWithRawSchema(t.Name(), t.Description(), t.Schema()), s.handler(t))
	}
	return s
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio speaks the protocol over in/out until ctx ends or in closes.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	return stdio.Listen(ctx, in, out)
}

// handler reports tool failures as error results so the calling agent sees the message.
func (s *Server) handler(t tool.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		out, err := t.Execute(ctx, req.GetArguments())
		if err != nil {
			kind := tool.ErrorKind(err)
			s.logger.Info("tool failed", "tool", t.Name(), "kind", kind, "error", err, "duration", time.Since(start))
			return mcp.NewToolResultError(fmt.Sprintf("[%s] %v", kind, err)), nil
		}
		s.logger.Debug("tool done", "tool", t.Name(), "duration", time.Since(start))
		return mcp.NewToolResultText(out), nil
	}
}
