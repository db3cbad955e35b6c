package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trialware/stratify/internal/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <plan>",
		Short: "Validate a randomization plan file",
		Long: `Validate checks a YAML plan against the plan schema and the core's
configuration invariants without touching any dataset. A valid plan exits 0;
an invalid one reports every violation and exits 1.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

// validateReport is the JSON payload of a successful validate.
type validateReport struct {
	Path  string       `json:"path"`
	Valid bool         `json:"valid"`
	Plan  *config.Plan `json:"plan"`
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	plan, err := config.LoadPlan(path)
	if err != nil {
		var pe *config.PlanError
		if errors.As(err, &pe) {
			formatter.Error("INVALID_PLAN", pe.Error(), pe.Issues)
			return WrapExitError(ExitFailure, "plan is invalid", err)
		}
		formatter.Error("READ_ERROR", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read plan", err)
	}

	if formatter.Format == "json" {
		return formatter.JSON(validateReport{Path: path, Valid: true, Plan: plan})
	}
	fmt.Fprintf(formatter.Writer, "%s: valid\n", path)
	if plan.Seed == nil {
		fmt.Fprintln(formatter.Writer, "note: plan has no seed; runs will not be reproducible")
	}
	return nil
}
