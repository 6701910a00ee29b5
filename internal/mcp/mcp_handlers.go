package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/repocensus/core"
	"github.com/huangsam/repocensus/core/lang"
	"github.com/huangsam/repocensus/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// applyExcludes merges a comma-separated exclude string into the config clone.
func applyExcludes(cfg *contract.Config, exclude string) {
	for _, ex := range strings.Split(exclude, ",") {
		if ex = strings.TrimSpace(ex); ex != "" {
			cfg.Excludes = append(cfg.Excludes, ex)
		}
	}
}

func (h *toolHandler) handleCensusDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := request.GetString("dir", "")
	if dir == "" {
		return mcp.NewToolResultError("dir is required"), nil
	}
	cfg := h.baseCfg.Clone()
	applyExcludes(cfg, request.GetString("exclude", ""))

	result, err := core.GetCensusDirectoryResult(ctx, cfg, h.mgr, dir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("census failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCensusRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repoPath := request.GetString("repo_path", "")
	if repoPath == "" {
		return mcp.NewToolResultError("repo_path is required"), nil
	}
	cfg := h.baseCfg.Clone()
	applyExcludes(cfg, request.GetString("exclude", ""))

	output, err := core.GetRepositoryStatResult(ctx, cfg, h.mgr, repoPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("census failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(output, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListLanguages(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	classifier := lang.NewClassifier(h.baseCfg.Languages)

	jsonData, _ := json.MarshalIndent(classifier.Table(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
