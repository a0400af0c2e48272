package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amonks/tasktrack/internal/prompt"
	"github.com/amonks/tasktrack/lifecycle"
	"github.com/amonks/tasktrack/task"
)

// transitionCommand describes a status-changing command.
type transitionCommand struct {
	use    string
	short  string
	target task.Status
}

var transitionCommands = []transitionCommand{
	{use: "start", short: "Mark tasks as in progress", target: task.StatusInProgress},
	{use: "done", short: "Mark tasks as done", target: task.StatusDone},
	{use: "postpone", short: "Postpone tasks (requires a reason)", target: task.StatusPostponed},
	{use: "cancel", short: "Cancel tasks (requires a reason)", target: task.StatusCancelled},
}

// tt nudge
var nudgeCmd = &cobra.Command{
	Use:   "nudge <id>",
	Short: "Explain why a stale in-progress task is still open",
	Args:  cobra.ExactArgs(1),
	RunE:  runNudge,
}

var nudgeReason string

func init() {
	for _, def := range transitionCommands {
		reason := new(string)
		target := def.target
		cmd := &cobra.Command{
			Use:   def.use + " <id>...",
			Short: def.short,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runTransition(cmd, args, target, *reason)
			},
		}
		usage := "Reason for the change"
		if target.RequiresReason() {
			usage = "Reason for the change (prompted for when omitted on a terminal)"
		}
		cmd.Flags().StringVarP(reason, "reason", "r", "", usage)
		rootCmd.AddCommand(cmd)
	}

	nudgeCmd.Flags().StringVarP(&nudgeReason, "reason", "r", "", "Why the task is still in progress (prompted for when omitted on a terminal)")
	rootCmd.AddCommand(nudgeCmd)
}

func runTransition(cmd *cobra.Command, args []string, target task.Status, reason string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := s.loadAll(ctx); err != nil {
		return err
	}

	requester := prompt.Reasons(reason, prompt.NewTerminal())
	out := cmd.OutOrStdout()
	for _, arg := range args {
		current, err := s.ctrl.Resolve(arg)
		if err != nil {
			return err
		}

		updated, err := s.ctrl.Transition(ctx, current, target, requester)
		if lifecycle.IsCancelled(err) {
			fmt.Fprintf(out, "cancelled: %v\n", err)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Marked %s %s: %s\n", updated.ID, updated.Status.Label(), updated.Title)
	}
	return nil
}

func runNudge(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	current, err := s.resolve(ctx, args[0])
	if err != nil {
		return err
	}

	updated, err := s.ctrl.Acknowledge(ctx, current, prompt.Reasons(nudgeReason, prompt.NewTerminal()))
	if lifecycle.IsCancelled(err) {
		fmt.Fprintf(cmd.OutOrStdout(), "cancelled: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Noted delay on %s: %s\n", updated.ID, updated.DelayReason)
	return nil
}
