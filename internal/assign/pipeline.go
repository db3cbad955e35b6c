package assign

import (
	"github.com/trialware/stratify/internal/rng"
	"github.com/trialware/stratify/internal/table"
)

// Stream identifier for the secondary tie-break key. The secondary source is
// derived from the configured seed so two-key runs stay a pure function of
// (dataset, seed, config).
const secondaryKeyStream = 2

// StratumSummary reports the per-arm counts of one stratum.
type StratumSummary struct {
	Label string         `json:"label"`
	Size  int            `json:"size"`
	Arms  map[string]int `json:"arms"`
}

// Result is the terminal output of one randomization run.
type Result struct {
	// Table is the input table in canonical id order, augmented with the
	// random key(s), stratum label, stratum size, within-stratum rank, and
	// arm assignment columns. Never subsequently mutated.
	Table *table.Dataset

	// Seeded reports whether the run used an explicit seed. False means the
	// output cannot be reproduced.
	Seeded bool

	// Duplicates is the identifier census. Non-zero count only appears here
	// when AllowDuplicateIDs was set; otherwise Run aborts.
	Duplicates *DuplicateReport

	// Warnings carries non-fatal conditions (NO_SEED, overridden
	// DUPLICATE_ID) surfaced during the pass.
	Warnings []*ConditionError

	// Strata summarizes per-stratum arm counts, ordered by stratum key.
	Strata []StratumSummary
}

// Run executes the full pipeline: validate config, sort by id, draw random
// keys, partition into strata, rank within strata, allocate arms.
//
// All fatal conditions surface before any column is appended; Run returns
// either a complete augmented table or an error, never a partial
// randomization. The computation is single-threaded and makes exactly one
// pass per stage; there is nothing transient to retry.
func Run(d *table.Dataset, cfg Config) (*Result, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if d.NumRows() == 0 {
		return nil, &ConditionError{Code: CodeEmptyDataset, Message: "input dataset has no rows"}
	}
	// Fail on absent stratify fields before any draw.
	for _, f := range cfg.StratifyFields {
		if !d.HasColumn(f) {
			return nil, NewMissingFieldError(f)
		}
	}

	res := &Result{}

	sorted, dup, err := SortByID(d, cfg.IDField)
	if err != nil {
		return nil, err
	}
	res.Duplicates = dup
	if dup.Count > 0 {
		if !cfg.AllowDuplicateIDs {
			return nil, NewDuplicateIDError(cfg.IDField, dup.Count)
		}
		res.Warnings = append(res.Warnings, NewDuplicateIDError(cfg.IDField, dup.Count))
	}

	var primary, secondary *rng.Source
	if cfg.Seed != nil {
		primary = rng.New(*cfg.Seed)
		if cfg.TwoKey {
			secondary = rng.New(rng.DeriveSeed(*cfg.Seed, secondaryKeyStream))
		}
		res.Seeded = true
	} else {
		primary = rng.NewUnseeded()
		if cfg.TwoKey {
			secondary = rng.NewUnseeded()
		}
		res.Warnings = append(res.Warnings, NewNoSeedError())
	}

	keyed, err := AttachKeys(sorted, primary, secondary)
	if err != nil {
		return nil, err
	}

	strata, err := Partition(keyed, cfg.StratifyFields)
	if err != nil {
		return nil, err
	}

	ranked, err := AssignRanks(keyed, strata, cfg.IDField)
	if err != nil {
		return nil, err
	}

	final, err := Allocate(ranked, cfg.SplitFraction, cfg.Arms)
	if err != nil {
		return nil, err
	}
	res.Table = final
	res.Strata = summarize(final, strata)
	return res, nil
}

// summarize tallies arm counts per stratum from the final table.
func summarize(d *table.Dataset, strata []Stratum) []StratumSummary {
	out := make([]StratumSummary, len(strata))
	for i, s := range strata {
		sum := StratumSummary{Label: s.Label, Size: len(s.Rows), Arms: map[string]int{}}
		for _, row := range s.Rows {
			arm := table.Render(d.Cell(row, ColArm))
			sum.Arms[arm]++
		}
		out[i] = sum
	}
	return out
}
