package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/amonks/tasktrack/internal/validation"
	"github.com/amonks/tasktrack/task"
)

// statusValue is a --status flag restricted to known statuses.
type statusValue struct {
	target *task.Status
}

func newStatusValue(target *task.Status) *statusValue {
	return &statusValue{target: target}
}

func (v *statusValue) String() string {
	if v.target == nil {
		return ""
	}
	return string(*v.target)
}

func (v *statusValue) Set(value string) error {
	status, err := task.ParseStatus(value)
	if err != nil {
		return err
	}
	*v.target = status
	return nil
}

func (v *statusValue) Type() string { return "status" }

// focusValue is a --focus flag restricted to known focus levels.
type focusValue struct {
	target *task.Focus
}

func newFocusValue(target *task.Focus) *focusValue {
	return &focusValue{target: target}
}

func (v *focusValue) String() string {
	if v.target == nil {
		return ""
	}
	return string(*v.target)
}

func (v *focusValue) Set(value string) error {
	focus, err := task.ParseFocus(value)
	if err != nil {
		return err
	}
	*v.target = focus
	return nil
}

func (v *focusValue) Type() string { return "focus" }

func statusUsage() string {
	return validation.JoinValues(task.ValidStatuses())
}

func focusUsage() string {
	return validation.JoinValues(task.ValidFocuses())
}

var descriptionFlagAliases = map[string]string{
	"desc": "description",
}

func addDescriptionFlagAliases(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		setFlagAliases(cmd.Flags(), descriptionFlagAliases)
	}
}

func setFlagAliases(flags *pflag.FlagSet, aliases map[string]string) {
	if len(aliases) == 0 {
		return
	}

	normalize := flags.GetNormalizeFunc()
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		return normalize(f, name)
	})
}

func hasChangedFlags(cmd *cobra.Command, flags ...string) bool {
	for _, flag := range flags {
		if cmd.Flags().Changed(flag) {
			return true
		}
	}
	return false
}
