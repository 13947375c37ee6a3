package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/vibecheck/vibecheck/internal/prompt"
)

type embedResult struct {
	Count     int         `json:"count"`
	Dimension int         `json:"dimension"`
	Vectors   [][]float32 `json:"vectors,omitempty"`
}

func (s *Server) handleAsk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	answer, err := s.asker.Query(ctx, question)
	if err != nil {
		s.log.Warn("ask tool failed", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("ask failed: %v", err)), nil
	}
	return mcp.NewToolResultText(answer), nil
}

func (s *Server) handleRender(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("template")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: template"), nil
	}

	role := prompt.RoleUser
	if r := req.GetString("role", ""); r != "" {
		role, err = prompt.ParseRole(r)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	values := prompt.Values{}
	if raw, ok := req.GetArguments()["values"].(map[string]any); ok {
		for k, v := range raw {
			values[k] = v
		}
	}

	rp, err := prompt.NewRolePrompt(text, role, prompt.WithStrict(req.GetBool("strict", false)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	msg, err := rp.Message(values)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := json.Marshal(msg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode message: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) handleEmbed(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.embedder == nil {
		return mcp.NewToolResultError("embeddings are not available for the configured provider"), nil
	}

	texts, err := req.RequireStringSlice("texts")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: texts"), nil
	}

	vecs, err := s.embedder.EmbedConcurrent(ctx, texts)
	if err != nil {
		s.log.Warn("embed tool failed", zap.Int("texts", len(texts)), zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("embed failed: %v", err)), nil
	}

	res := embedResult{Count: len(vecs)}
	if len(vecs) > 0 {
		res.Dimension = len(vecs[0])
	}
	if req.GetBool("include_vectors", false) {
		res.Vectors = vecs
	}

	out, err := json.Marshal(res)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
