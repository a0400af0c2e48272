package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/amonks/tasktrack/internal/ui"
	"github.com/amonks/tasktrack/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var (
	listStatus task.Status
	listFocus  task.Focus
	listQuery  string
	listJSON   bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Var(newStatusValue(&listStatus), "status", "Only show tasks with this status ("+statusUsage()+")")
	listCmd.Flags().Var(newFocusValue(&listFocus), "focus", "Only show tasks with this focus ("+focusUsage()+")")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Only show tasks whose title or description contains this text")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	filter := task.Filter{Query: listQuery, Status: listStatus, Focus: listFocus}
	if err := s.ctrl.SetFilter(cmd.Context(), filter); err != nil {
		return err
	}
	tasks := s.ctrl.Tasks()

	out := cmd.OutOrStdout()
	if listJSON {
		return writeJSON(out, tasks)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return nil
	}
	fmt.Fprint(out, formatTaskTable(tasks, s.prefixLengths(), s.ctrl.Now(), time.Local))
	return nil
}

func formatTaskTable(tasks []task.Task, prefixLengths map[string]int, now time.Time, loc *time.Location) string {
	builder := ui.NewTableBuilder([]string{"ID", "STATUS", "FOCUS", "DUE", "UPDATED", "TITLE"}, len(tasks))
	for _, item := range tasks {
		title := item.Title
		if item.IsStale(now) {
			title = ui.Warning("~") + " " + title
		}
		builder.AddRow(
			ui.HighlightID(item.ID, ui.PrefixLength(prefixLengths, item.ID)),
			ui.StatusLabel(item.Status),
			ui.FocusLabel(item.Focus),
			ui.FormatDue(item, now, loc),
			ui.FormatTimeAgo(item.UpdatedAt, now),
			ui.TruncateTableCell(title),
		)
	}
	return builder.String()
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
