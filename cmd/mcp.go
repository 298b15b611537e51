package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flowlens/flowlens/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the flowlens MCP server",
	Long:  `Launch an MCP server that allows AI agents to run flow, capacity and bottleneck analyses via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Keep stdout clean for the protocol; setup logs go to stderr.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		defer func() { _ = source.Close() }()
		return mcp.StartMCPServer(rootCtx, cfg, source)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
