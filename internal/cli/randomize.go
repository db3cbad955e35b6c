package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/trialware/stratify/internal/assign"
	"github.com/trialware/stratify/internal/audit"
	"github.com/trialware/stratify/internal/codec"
	"github.com/trialware/stratify/internal/config"
	"github.com/trialware/stratify/internal/store"
)

// RandomizeOptions holds flags for the randomize command.
type RandomizeOptions struct {
	*RootOptions
	Plan            string
	Seed            int64
	IDField         string
	StratifyFields  []string
	SplitFraction   float64
	Arms            []string
	TwoKey          bool
	AllowDuplicates bool
	Out             string
	Database        string
}

// NewRandomizeCommand creates the randomize command.
func NewRandomizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RandomizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "randomize <dataset>",
		Short: "Assign units to experimental arms",
		Long: `Randomize units of a dataset (.csv or .dta) into experimental arms.

Options come from a YAML plan file (--plan) and/or flags; flags override the
plan. A seed is required for a reproducible assignment; running without one
is allowed but warns.

Example:
  stratify randomize schools.csv --seed 20260823 --id school_id \
      --strata language,gender --out assigned.csv
  stratify randomize schools.dta --plan plan.yaml --db runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRandomize(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Plan, "plan", "", "path to YAML plan file")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "seed for the pseudo-random state")
	cmd.Flags().StringVar(&opts.IDField, "id", "", "unique identifier column")
	cmd.Flags().StringSliceVar(&opts.StratifyFields, "strata", nil, "ordered stratification columns")
	cmd.Flags().Float64Var(&opts.SplitFraction, "fraction", 0, "target share of the first arm (default 0.5)")
	cmd.Flags().StringSliceVar(&opts.Arms, "arms", nil, "ordered arm labels (default treatment,control)")
	cmd.Flags().BoolVar(&opts.TwoKey, "two-key", false, "draw a second tie-break key per unit")
	cmd.Flags().BoolVar(&opts.AllowDuplicates, "allow-duplicates", false, "proceed despite duplicate identifiers (unsafe)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "write the augmented table as CSV to this path")
	cmd.Flags().StringVar(&opts.Database, "db", "", "persist the run to this SQLite database")

	return cmd
}

// buildConfig merges the plan file (if any) with flag overrides.
func buildConfig(opts *RandomizeOptions, cmd *cobra.Command) (assign.Config, error) {
	var cfg assign.Config
	if opts.Plan != "" {
		plan, err := config.LoadPlan(opts.Plan)
		if err != nil {
			return assign.Config{}, err
		}
		cfg = plan.Config()
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		seed := opts.Seed
		cfg.Seed = &seed
	}
	if flags.Changed("id") {
		cfg.IDField = opts.IDField
	}
	if flags.Changed("strata") {
		cfg.StratifyFields = opts.StratifyFields
	}
	if flags.Changed("fraction") {
		cfg.SplitFraction = opts.SplitFraction
	}
	if flags.Changed("arms") {
		cfg.Arms = opts.Arms
	}
	if flags.Changed("two-key") {
		cfg.TwoKey = opts.TwoKey
	}
	if flags.Changed("allow-duplicates") {
		cfg.AllowDuplicateIDs = opts.AllowDuplicates
	}
	return cfg, nil
}

func runRandomize(opts *RandomizeOptions, datasetPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := buildConfig(opts, cmd)
	if err != nil {
		var pe *config.PlanError
		if errors.As(err, &pe) {
			formatter.Error("INVALID_PLAN", pe.Error(), pe.Issues)
			return WrapExitError(ExitFailure, "invalid plan", err)
		}
		formatter.Error("READ_ERROR", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read plan", err)
	}

	slog.Debug("loading dataset", "path", datasetPath)
	dataset, err := codec.Read(datasetPath)
	if err != nil {
		formatter.Error(loadErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load dataset", err)
	}
	slog.Debug("dataset loaded", "rows", dataset.NumRows(), "cols", dataset.NumCols())

	result, err := assign.Run(dataset, cfg)
	if err != nil {
		var ce *assign.ConditionError
		if errors.As(err, &ce) {
			formatter.Error(string(ce.Code), ce.Message, ce.Details)
		} else {
			formatter.Error("ERROR", err.Error(), nil)
		}
		return WrapExitError(ExitFailure, "randomization failed", err)
	}

	manifest := audit.New(cfg, dataset, result)
	slog.Debug("randomization complete", "run_id", manifest.RunID, "units", manifest.Units)

	if opts.Out != "" {
		if err := codec.WriteFile(opts.Out, result.Table); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		formatter.VerboseLog("wrote %s", opts.Out)
	}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		if err := st.SaveRun(context.Background(), manifest, result.Table, cfg.IDField); err != nil {
			return WrapExitError(ExitCommandError, "failed to persist run", err)
		}
		formatter.VerboseLog("persisted run %s to %s", manifest.RunID, opts.Database)
	}

	return outputRandomizeResult(formatter, manifest, result)
}

// randomizeReport is the JSON payload of a successful randomize.
type randomizeReport struct {
	Manifest audit.Manifest          `json:"manifest"`
	Strata   []assign.StratumSummary `json:"strata"`
}

func outputRandomizeResult(f *OutputFormatter, m audit.Manifest, res *assign.Result) error {
	if f.Format == "json" {
		return f.JSON(randomizeReport{Manifest: m, Strata: res.Strata})
	}

	fmt.Fprintf(f.Writer, "run %s: %d units", m.RunID, m.Units)
	if m.Seed != nil {
		fmt.Fprintf(f.Writer, ", seed %d", *m.Seed)
	}
	fmt.Fprintln(f.Writer)
	for _, w := range m.Warnings {
		fmt.Fprintf(f.Writer, "warning: %s\n", w)
	}
	for _, s := range res.Strata {
		arms := make([]string, 0, len(s.Arms))
		for arm := range s.Arms {
			arms = append(arms, arm)
		}
		sort.Strings(arms)
		fmt.Fprintf(f.Writer, "  stratum %s (n=%d):", s.Label, s.Size)
		for _, arm := range arms {
			fmt.Fprintf(f.Writer, " %s=%d", arm, s.Arms[arm])
		}
		fmt.Fprintln(f.Writer)
	}
	fmt.Fprintf(f.Writer, "output digest %s\n", m.OutputDigest)
	return nil
}

// loadErrorCode extracts the coded prefix from a codec error.
func loadErrorCode(err error) string {
	var le *codec.LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return "LOAD_ERROR"
}
