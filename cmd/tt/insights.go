package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amonks/tasktrack/insight"
	"github.com/amonks/tasktrack/internal/ui"
	"github.com/amonks/tasktrack/task"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show the primary tip, stale tasks, and optional suggestions",
	Args:  cobra.NoArgs,
	RunE:  runInsights,
}

var (
	insightsAI   bool
	insightsJSON bool
)

const insightsLineWidth = 72

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.Flags().BoolVar(&insightsAI, "ai", false, "Ask the backend for suggestions")
	insightsCmd.Flags().BoolVar(&insightsJSON, "json", false, "Output as JSON")
}

type insightsOutput struct {
	TipKind     insight.Kind `json:"tip_kind"`
	Tip         string       `json:"tip"`
	Reminder    string       `json:"reminder,omitempty"`
	Stale       []task.Task  `json:"stale"`
	Suggestions []string     `json:"suggestions,omitempty"`
}

func runInsights(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := s.loadAll(ctx); err != nil {
		return err
	}

	report := s.ctrl.Insights()
	wantSuggestions := insightsAI || s.cfg.Suggest.Enabled
	var suggestions []string
	if wantSuggestions {
		suggestions = s.ctrl.Suggestions(ctx)
	}

	out := cmd.OutOrStdout()
	if insightsJSON {
		stale := report.Stale
		if stale == nil {
			stale = []task.Task{}
		}
		return writeJSON(out, insightsOutput{
			TipKind:     report.Tip.Kind,
			Tip:         report.Tip.Message,
			Reminder:    report.Reminder,
			Stale:       stale,
			Suggestions: suggestions,
		})
	}

	printInsights(out, report, s.prefixLengths(), s.ctrl.Now())
	if wantSuggestions {
		printSuggestions(out, suggestions)
	}
	return nil
}

func printInsights(out io.Writer, report insight.Report, prefixLengths map[string]int, now time.Time) {
	fmt.Fprintf(out, "Tip: %s\n", report.Tip.Message)
	if report.Reminder != "" {
		fmt.Fprintln(out, report.Reminder)
	}

	if len(report.Stale) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s\n", ui.Warning(fmt.Sprintf("Stale (%d): in progress with no update for over %s", len(report.Stale), ui.FormatDurationShort(task.StaleAfter))))
	for _, item := range report.Stale {
		line := fmt.Sprintf("%s  %s  (updated %s)", ui.HighlightID(item.ID, ui.PrefixLength(prefixLengths, item.ID)), item.Title, ui.FormatTimeAgo(item.UpdatedAt, now))
		fmt.Fprintln(out, ui.IndentBlock(line, 2))
		if item.DelayReason != "" {
			fmt.Fprintln(out, ui.IndentBlock(ui.Muted("delay: "+item.DelayReason), 4))
		}
	}
}

func printSuggestions(out io.Writer, suggestions []string) {
	fmt.Fprintln(out)
	if len(suggestions) == 0 {
		fmt.Fprintln(out, "No suggestions available.")
		return
	}
	fmt.Fprintln(out, "Suggestions:")
	for _, suggestion := range suggestions {
		lines := strings.Split(ui.ReflowParagraphs(suggestion, insightsLineWidth-4), "\n")
		fmt.Fprintln(out, "  - "+lines[0])
		for _, line := range lines[1:] {
			fmt.Fprintln(out, "    "+line)
		}
	}
}
