package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amonks/tasktrack/internal/editor"
	"github.com/amonks/tasktrack/internal/prompt"
	"github.com/amonks/tasktrack/task"
)

// tt create
var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new task",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCreate,
}

var (
	createDescription string
	createFocus       task.Focus
	createDue         string
	createEdit        bool
	createNoEdit      bool
)

// tt edit
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a task's title, description, focus, or due date",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var (
	editTitle       string
	editDescription string
	editFocus       task.Focus
	editDue         string
	editEdit        bool
	editNoEdit      bool
)

// tt delete
var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var deleteYes bool

var errNoChanges = errors.New("nothing to change (pass a field flag or run interactively)")

func init() {
	rootCmd.AddCommand(createCmd, editCmd, deleteCmd)

	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "Description (use - to read from stdin)")
	createCmd.Flags().Var(newFocusValue(&createFocus), "focus", "Focus ("+focusUsage()+")")
	createCmd.Flags().StringVar(&createDue, "due", "", "Due date (YYYY-MM-DD, YYYY-MM-DDTHH:MM, today, tomorrow)")
	createCmd.Flags().BoolVarP(&createEdit, "edit", "e", false, "Open $EDITOR even when a title is given")
	createCmd.Flags().BoolVar(&createNoEdit, "no-edit", false, "Never open $EDITOR")

	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description (use - to read from stdin)")
	editCmd.Flags().Var(newFocusValue(&editFocus), "focus", "New focus ("+focusUsage()+")")
	editCmd.Flags().StringVar(&editDue, "due", "", "New due date; none clears it")
	editCmd.Flags().BoolVarP(&editEdit, "edit", "e", false, "Open $EDITOR even when field flags are given")
	editCmd.Flags().BoolVar(&editNoEdit, "no-edit", false, "Never open $EDITOR")

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking for confirmation")

	addDescriptionFlagAliases(createCmd, editCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(createDescription, os.Stdin)
		if err != nil {
			return err
		}
		createDescription = desc
	}

	title := ""
	if len(args) > 0 {
		title = args[0]
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	now := s.ctrl.Now()

	var due *time.Time
	if createDue != "" {
		parsed, err := task.ParseDueDate(createDue, now, time.Local)
		if err != nil {
			return err
		}
		due = &parsed
	}

	useEditor := createEdit || (title == "" && !createNoEdit && editor.IsInteractive())
	opts := task.CreateOptions{Description: createDescription, Focus: createFocus, DueDate: due}
	if useEditor {
		data := editor.DefaultCreateData()
		data.Title = title
		data.Description = createDescription
		if createFocus != "" {
			data.Focus = string(createFocus)
		}
		data.Due = createDue

		parsed, err := editor.EditTaskWithData(data, now, time.Local)
		if err != nil {
			return err
		}
		title = parsed.Title
		opts = parsed.CreateOptions()
	} else if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required (use --edit to open editor)")
	}

	created, err := s.ctrl.Create(cmd.Context(), title, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", created.ID, created.Title)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(editDescription, os.Stdin)
		if err != nil {
			return err
		}
		editDescription = desc
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	current, err := s.resolve(ctx, args[0])
	if err != nil {
		return err
	}
	now := s.ctrl.Now()

	hasFieldFlags := hasChangedFlags(cmd, "title", "description", "focus", "due")
	useEditor := editEdit || (!hasFieldFlags && !editNoEdit && editor.IsInteractive())

	var patch task.Patch
	switch {
	case useEditor:
		data := editor.DataFromTask(current, time.Local)
		applyEditFlags(cmd, &data)
		parsed, err := editor.EditTaskWithData(data, now, time.Local)
		if err != nil {
			return err
		}
		patch = parsed.Patch()
	case hasFieldFlags:
		patch, err = editPatchFromFlags(cmd, now)
		if err != nil {
			return err
		}
	default:
		return errNoChanges
	}

	updated, err := s.ctrl.Update(ctx, current.ID, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s: %s\n", updated.ID, updated.Title)
	return nil
}

func applyEditFlags(cmd *cobra.Command, data *editor.TaskData) {
	if cmd.Flags().Changed("title") {
		data.Title = editTitle
	}
	if cmd.Flags().Changed("description") {
		data.Description = editDescription
	}
	if cmd.Flags().Changed("focus") {
		data.Focus = string(editFocus)
	}
	if cmd.Flags().Changed("due") {
		data.Due = editDue
		if isClearDue(editDue) {
			data.Due = ""
		}
	}
}

func editPatchFromFlags(cmd *cobra.Command, now time.Time) (task.Patch, error) {
	var patch task.Patch
	if cmd.Flags().Changed("title") {
		patch.Title = &editTitle
	}
	if cmd.Flags().Changed("description") {
		patch.Description = &editDescription
	}
	if cmd.Flags().Changed("focus") {
		patch.Focus = &editFocus
	}
	if cmd.Flags().Changed("due") {
		if isClearDue(editDue) {
			patch.ClearDueDate = true
		} else {
			due, err := task.ParseDueDate(editDue, now, time.Local)
			if err != nil {
				return task.Patch{}, err
			}
			patch.DueDate = &due
		}
	}
	return patch, nil
}

func isClearDue(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none":
		return true
	default:
		return false
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	item, err := s.resolve(ctx, args[0])
	if err != nil {
		return err
	}

	terminal := prompt.NewTerminal()
	if !deleteYes && terminal.Interactive() {
		ok, err := terminal.Confirm(ctx, fmt.Sprintf("Delete task %s (%s)?", item.ID, item.Title))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "cancelled: task not deleted")
			return nil
		}
	}

	if err := s.ctrl.Delete(ctx, item.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", item.ID, item.Title)
	return nil
}

func resolveDescriptionFromStdin(description string, reader io.Reader) (string, error) {
	if description != "-" {
		return description, nil
	}

	input, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read description from stdin: %w", err)
	}

	return strings.TrimRight(string(input), "\r\n"), nil
}
