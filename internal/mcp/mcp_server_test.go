package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/repocensus/internal/contract"
	mcp_internal "github.com/huangsam/repocensus/internal/mcp"
	"github.com/huangsam/repocensus/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		Workers: 2,
		TopN:    10,
		Output:  schema.TextOut,
	}
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseConfig(), mgr)

	t.Run("census_directory missing dir", func(t *testing.T) {
		res := callTool(t, s, "census_directory", map[string]any{})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "dir is required")
	})

	t.Run("census_repository missing repo_path", func(t *testing.T) {
		res := callTool(t, s, "census_repository", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "repo_path is required")
	})
}

func TestMCPServerHandlers_CensusRepository(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1\n"), 0o644))

	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseConfig(), mgr)

	res := callTool(t, s, "census_repository", map[string]any{"repo_path": dir})
	require.False(t, res.IsError)

	var output schema.RepoScanOutput
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &output))
	assert.Equal(t, 1, output.Stat.TotalLines)
}

func TestMCPServerHandlers_ListLanguages(t *testing.T) {
	cfg := baseConfig()
	cfg.Languages = map[string]string{"zig": "Zig"}

	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(cfg, mgr)

	res := callTool(t, s, "list_languages", map[string]any{})
	require.False(t, res.IsError)

	var table map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &table))
	assert.Equal(t, "Python", table[".py"])
	assert.Equal(t, "Zig", table[".zig"])
}
