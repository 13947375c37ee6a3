// Package mcp exposes vibecheck to MCP clients over stdio.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Asker answers a question with the configured assistant.
type Asker interface {
	Query(ctx context.Context, question string) (string, error)
}

// BatchEmbedder embeds a list of texts, preserving order.
type BatchEmbedder interface {
	EmbedConcurrent(ctx context.Context, texts []string) ([][]float32, error)
}

// Server wraps an MCP server and the components its tools call.
type Server struct {
	mcpServer *server.MCPServer
	asker     Asker
	embedder  BatchEmbedder
	log       *zap.Logger
}

// NewServer registers every tool. embedder may be nil when the configured
// provider cannot embed; the embed tool then reports an error.
func NewServer(version string, asker Asker, embedder BatchEmbedder, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		mcpServer: server.NewMCPServer(
			"vibecheck",
			version,
			server.WithToolCapabilities(false),
		),
		asker:    asker,
		embedder: embedder,
		log:      logger,
	}

	s.registerAskTool()
	s.registerRenderTool()
	s.registerEmbedTool()
	return s
}

// ServeStdio blocks serving requests on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info("mcp server listening on stdio")
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerAskTool() {
	tool := mcp.NewTool("ask",
		mcp.WithDescription("Ask the wellness assistant a question and return its answer."),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The question to answer"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleAsk)
}

func (s *Server) registerRenderTool() {
	tool := mcp.NewTool("render_prompt",
		mcp.WithDescription("Fill {name} placeholders in a template and return the role-tagged message as JSON."),
		mcp.WithString("template",
			mcp.Required(),
			mcp.Description("Template text containing {name} placeholders"),
		),
		mcp.WithString("role",
			mcp.Description("Message role: system, user or assistant (default: user)"),
		),
		mcp.WithObject("values",
			mcp.Description("Placeholder values keyed by name"),
		),
		mcp.WithBoolean("strict",
			mcp.Description("Fail when a placeholder has no value"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleRender)
}

func (s *Server) registerEmbedTool() {
	tool := mcp.NewTool("embed",
		mcp.WithDescription("Embed a list of texts concurrently. Returns the vector count and dimension."),
		mcp.WithArray("texts",
			mcp.Required(),
			mcp.WithStringItems(),
			mcp.Description("Texts to embed, in order"),
		),
		mcp.WithBoolean("include_vectors",
			mcp.Description("Include the raw vectors in the result"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleEmbed)
}
