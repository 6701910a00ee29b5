package cmd

import (
	"github.com/huangsam/repocensus/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd exposes census runs to AI agents over the Model Context Protocol.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Repocensus MCP server",
	Long:  `Launch an MCP server that allows AI agents to run repository censuses via standard tools.`,
	// Header logs stay quiet here, stdio carries the protocol
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
