package assign

import "fmt"

// Names of the columns the pipeline appends to the input table.
const (
	ColRandKey     = "rand_key"
	ColRandKey2    = "rand_key2"
	ColStratum     = "stratum"
	ColStratumSize = "stratum_size"
	ColStratumRank = "stratum_rank"
	ColArm         = "arm"
)

// DefaultArms is the two-arm labeling used when none is configured.
// Arms are ordered: the threshold rule fills them first to last.
var DefaultArms = []string{"treatment", "control"}

// DefaultSplitFraction is the target share of the first arm per stratum.
const DefaultSplitFraction = 0.5

// Config holds the recognized randomization options.
type Config struct {
	// Seed initializes the pseudo-random state. Nil means unseeded: the run
	// proceeds but carries a NO_SEED warning and is not reproducible.
	Seed *int64

	// IDField names the unique identifier column. Required.
	IDField string

	// StratifyFields is the ordered sequence of categorical columns whose
	// cross-product defines the strata. Empty means a single implicit
	// stratum containing every unit.
	StratifyFields []string

	// SplitFraction is the target share of the first arm within each
	// stratum, in (0,1). Applies to two-arm designs; with more than two
	// arms the split is equal shares. Zero means DefaultSplitFraction.
	SplitFraction float64

	// Arms are the ordered arm labels. Empty means DefaultArms.
	Arms []string

	// TwoKey enables the anti-tie variant: a second independent uniform key
	// is drawn per unit and used as the secondary sort key. The final
	// tie-break is always the canonical id ordering, in both modes.
	TwoKey bool

	// AllowDuplicateIDs is the explicit override required to proceed when
	// the identifier column is not unique. Proceeding is unsafe: duplicated
	// units are randomized as distinct rows.
	AllowDuplicateIDs bool
}

// WithDefaults returns a copy with zero values replaced by defaults.
func (c Config) WithDefaults() Config {
	if c.SplitFraction == 0 {
		c.SplitFraction = DefaultSplitFraction
	}
	if len(c.Arms) == 0 {
		c.Arms = append([]string(nil), DefaultArms...)
	}
	return c
}

// Validate checks configuration invariants that do not depend on the input
// table. Field existence is checked against the dataset by Run.
func (c Config) Validate() error {
	if c.IDField == "" {
		return NewMissingFieldError("id_field")
	}
	if c.SplitFraction <= 0 || c.SplitFraction >= 1 {
		return &ConditionError{
			Code:    CodeInvalidFraction,
			Message: fmt.Sprintf("split fraction %v outside (0,1)", c.SplitFraction),
		}
	}
	if len(c.Arms) < 2 {
		return &ConditionError{
			Code:    CodeInvalidArms,
			Message: fmt.Sprintf("need at least 2 arm labels, got %d", len(c.Arms)),
		}
	}
	seen := make(map[string]bool, len(c.Arms))
	for _, a := range c.Arms {
		if a == "" {
			return &ConditionError{Code: CodeInvalidArms, Message: "empty arm label"}
		}
		if seen[a] {
			return &ConditionError{
				Code:    CodeInvalidArms,
				Message: fmt.Sprintf("duplicate arm label %q", a),
			}
		}
		seen[a] = true
	}
	return nil
}
