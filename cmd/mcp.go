package cmd

import (
	"github.com/huangsam/opsreport/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the opsreport MCP server",
	Long:  `Launch an MCP server that allows AI agents to summarize accessibility runs, analyze performance reports and check links via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Pipeline headers are suppressed per tool call, since stdio carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, historyManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
