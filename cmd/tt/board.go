package main

import (
	"github.com/spf13/cobra"

	"github.com/amonks/tasktrack/internal/boardtui"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive task board",
	Args:  cobra.NoArgs,
	RunE:  runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	return boardtui.Run(cmd.Context(), s.ctrl)
}
