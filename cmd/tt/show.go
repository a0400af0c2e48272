package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amonks/tasktrack/internal/markdown"
	"github.com/amonks/tasktrack/internal/ui"
	"github.com/amonks/tasktrack/task"
)

var showCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show detailed information about tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShow,
}

var showJSON bool

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	if err := s.loadAll(cmd.Context()); err != nil {
		return err
	}

	items := make([]task.Task, 0, len(args))
	for _, arg := range args {
		item, err := s.ctrl.Resolve(arg)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	out := cmd.OutOrStdout()
	if showJSON {
		return writeJSON(out, items)
	}

	lengths := s.prefixLengths()
	for i, item := range items {
		if i > 0 {
			fmt.Fprintln(out, "---")
		}
		printTaskDetail(out, item, lengths, s.ctrl.Now(), time.Local)
	}
	return nil
}

const taskDetailLineWidth = 80

// printTaskDetail prints detailed information about a task.
func printTaskDetail(out io.Writer, item task.Task, prefixLengths map[string]int, now time.Time, loc *time.Location) {
	fmt.Fprintf(out, "ID:       %s\n", ui.HighlightID(item.ID, ui.PrefixLength(prefixLengths, item.ID)))
	fmt.Fprintf(out, "Title:    %s\n", item.Title)
	fmt.Fprintf(out, "Status:   %s\n", ui.StatusLabel(item.Status))
	fmt.Fprintf(out, "Focus:    %s\n", ui.FocusLabel(item.Focus))
	fmt.Fprintf(out, "Due:      %s\n", ui.FormatDue(item, now, loc))
	fmt.Fprintf(out, "Created:  %s\n", item.CreatedAt.In(loc).Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Updated:  %s (%s)\n", item.UpdatedAt.In(loc).Format("2006-01-02 15:04:05"), ui.FormatTimeAgo(item.UpdatedAt, now))

	if item.TransitionReason != "" {
		fmt.Fprintf(out, "Reason:   %s\n", item.TransitionReason)
	}
	if item.DelayReason != "" {
		fmt.Fprintf(out, "Delay:    %s\n", item.DelayReason)
	}
	if item.IsStale(now) {
		fmt.Fprintf(out, "%s\n", ui.Warning("Stale: no update for "+ui.FormatDurationShort(now.Sub(item.UpdatedAt))))
	}

	if strings.TrimSpace(item.Description) != "" {
		fmt.Fprintf(out, "\nDescription:\n%s\n", markdown.Render(taskDetailLineWidth, 2, item.Description))
	}
}
