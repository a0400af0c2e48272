package main

import (
	"github.com/spf13/cobra"

	"github.com/amonks/tasktrack/internal/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve task tools to an MCP host over stdio",
	Args:  cobra.NoArgs,
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	return mcptools.Serve(cmd.Context(), s.ctrl, buildVersion)
}
