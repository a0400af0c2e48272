// Package main implements the tt CLI tool.
package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "tt",
	Short:        "tasktrack - track personal tasks against a task backend",
	SilenceUsage: true,
}

var (
	rootBackend string
	rootVerbose bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootBackend, "backend", "", "Backend base URL (default from TASKTRACK_BACKEND_URL or config)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Log client activity to stderr")
}
