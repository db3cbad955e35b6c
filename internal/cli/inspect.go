package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trialware/stratify/internal/assign"
	"github.com/trialware/stratify/internal/codec"
	"github.com/trialware/stratify/internal/table"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	IDField string
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <dataset>",
		Short: "Summarize a dataset before randomizing it",
		Long: `Inspect loads a dataset (.csv or .dta) and reports its shape and a
per-column census: cell kinds, distinct values, and missing values. With
--id it also reports duplicate identifiers, the same check randomize
performs before assigning.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.IDField, "id", "", "check this column for duplicate identifiers")

	return cmd
}

// columnCensus summarizes one column.
type columnCensus struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Distinct int    `json:"distinct"`
	Missing  int    `json:"missing"`
}

// inspectReport is the JSON payload of a successful inspect.
type inspectReport struct {
	Path       string          `json:"path"`
	Rows       int             `json:"rows"`
	Columns    []columnCensus  `json:"columns"`
	Duplicates *duplicateCheck `json:"duplicates,omitempty"`
}

// duplicateCheck reports the duplicate-identifier census for --id.
type duplicateCheck struct {
	Field string   `json:"field"`
	Count int      `json:"count"`
	IDs   []string `json:"ids,omitempty"`
}

func runInspect(opts *InspectOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	dataset, err := codec.Read(path)
	if err != nil {
		formatter.Error(loadErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load dataset", err)
	}

	report := inspectReport{
		Path:    path,
		Rows:    dataset.NumRows(),
		Columns: censusColumns(dataset),
	}

	if opts.IDField != "" {
		if !dataset.HasColumn(opts.IDField) {
			err := assign.NewMissingFieldError(opts.IDField)
			formatter.Error(string(assign.CodeMissingField), err.Error(), nil)
			return WrapExitError(ExitFailure, "missing identifier column", err)
		}
		_, dups, err := assign.SortByID(dataset, opts.IDField)
		if err != nil {
			return WrapExitError(ExitFailure, "duplicate check failed", err)
		}
		report.Duplicates = &duplicateCheck{Field: opts.IDField, Count: dups.Count, IDs: dups.IDs}
	}

	if formatter.Format == "json" {
		return formatter.JSON(report)
	}

	fmt.Fprintf(formatter.Writer, "%s: %d rows, %d columns\n", path, report.Rows, len(report.Columns))
	for _, c := range report.Columns {
		fmt.Fprintf(formatter.Writer, "  %-20s %-7s distinct=%d missing=%d\n", c.Name, c.Kind, c.Distinct, c.Missing)
	}
	if d := report.Duplicates; d != nil {
		if d.Count == 0 {
			fmt.Fprintf(formatter.Writer, "%s: all identifiers unique\n", d.Field)
		} else {
			fmt.Fprintf(formatter.Writer, "%s: %d duplicate rows across %d identifiers: %v\n",
				d.Field, d.Count, len(d.IDs), d.IDs)
		}
	}
	return nil
}

// censusColumns computes the per-column kind, distinct, and missing counts.
func censusColumns(d *table.Dataset) []columnCensus {
	out := make([]columnCensus, 0, d.NumCols())
	for _, col := range d.Columns() {
		c := columnCensus{Name: col, Kind: "empty"}
		distinct := make(map[string]struct{})
		for i := 0; i < d.NumRows(); i++ {
			cell := d.Cell(i, col)
			if table.IsNull(cell) {
				c.Missing++
				continue
			}
			distinct[table.Canon(cell)] = struct{}{}
			kind := cellKind(cell)
			switch {
			case c.Kind == "empty":
				c.Kind = kind
			case c.Kind != kind:
				c.Kind = "mixed"
			}
		}
		c.Distinct = len(distinct)
		out = append(out, c)
	}
	return out
}

func cellKind(c table.Cell) string {
	switch c.(type) {
	case table.String:
		return "string"
	case table.Int:
		return "int"
	case table.Float:
		return "float"
	case table.Bool:
		return "bool"
	default:
		return "null"
	}
}
