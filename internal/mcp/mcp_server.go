// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/repocensus/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Repocensus MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Repocensus Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: census_directory ---
	s.AddTool(mcp.NewTool("census_directory",
		mcp.WithDescription("Count lines and characters of code across every repository under a directory, ranked by size."),
		mcp.WithString("dir", mcp.Description("Directory holding one repository per subdirectory."), mcp.Required()),
		mcp.WithString("exclude", mcp.Description("Comma-separated path patterns to skip (e.g. 'vendor/,*.min.js').")),
	), h.handleCensusDirectory)

	// --- 2. Tool: census_repository ---
	s.AddTool(mcp.NewTool("census_repository",
		mcp.WithDescription("Count lines and characters of code in a single repository, broken down by language."),
		mcp.WithString("repo_path", mcp.Description("Path to the repository tree."), mcp.Required()),
		mcp.WithString("exclude", mcp.Description("Comma-separated path patterns to skip.")),
	), h.handleCensusRepository)

	// --- 3. Tool: list_languages ---
	s.AddTool(mcp.NewTool("list_languages",
		mcp.WithDescription("List the file suffixes that are counted as code and the language each one maps to."),
	), h.handleListLanguages)

	return s
}

// StartMCPServer starts the Repocensus MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
