// Package config loads and validates randomization plan files.
//
// A plan is a small YAML document (seed, id field, stratify fields, split
// fraction, arm labels). Before the plan is accepted it is unified with an
// embedded CUE schema; schema violations and unknown fields are reported
// with field paths before any randomization can run.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/trialware/stratify/internal/assign"
)

//go:embed schema.cue
var planSchema string

// Plan mirrors the YAML plan file.
type Plan struct {
	Seed              *int64   `yaml:"seed"`
	IDField           string   `yaml:"id_field"`
	StratifyFields    []string `yaml:"stratify_fields"`
	SplitFraction     float64  `yaml:"split_fraction"`
	Arms              []string `yaml:"arms"`
	TwoKey            bool     `yaml:"two_key"`
	AllowDuplicateIDs bool     `yaml:"allow_duplicate_ids"`
}

// PlanError reports why a plan file was rejected.
type PlanError struct {
	Path   string
	Issues []string
}

func (e *PlanError) Error() string {
	msg := strings.Join(e.Issues, "; ")
	if e.Path != "" {
		return fmt.Sprintf("invalid plan %s: %s", e.Path, msg)
	}
	return fmt.Sprintf("invalid plan: %s", msg)
}

// LoadPlan reads and validates a plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read plan: %w", err)
	}
	plan, err := ParsePlan(data)
	if err != nil {
		var pe *PlanError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, err
	}
	return plan, nil
}

// ParsePlan parses plan YAML and validates it against the embedded CUE
// schema, then against the core's own config invariants (duplicate arm
// labels, fraction bounds). Returns a *PlanError listing every violation.
func ParsePlan(data []byte) (*Plan, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &PlanError{Issues: []string{fmt.Sprintf("yaml: %v", err)}}
	}
	if raw == nil {
		return nil, &PlanError{Issues: []string{"plan is empty"}}
	}

	if issues := validateSchema(raw); len(issues) > 0 {
		return nil, &PlanError{Issues: issues}
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, &PlanError{Issues: []string{fmt.Sprintf("yaml: %v", err)}}
	}

	// CUE checks shape; the core checks semantic invariants it owns.
	if err := plan.Config().WithDefaults().Validate(); err != nil {
		return nil, &PlanError{Issues: []string{err.Error()}}
	}
	return &plan, nil
}

// validateSchema unifies the raw plan with #Plan and collects violations.
func validateSchema(raw map[string]any) []string {
	ctx := cuecontext.New()
	schema := ctx.CompileString(planSchema)
	if err := schema.Err(); err != nil {
		// Embedded schema is part of the binary; failing to compile it is a bug.
		panic(fmt.Sprintf("config: schema.cue does not compile: %v", err))
	}
	def := schema.LookupPath(cue.ParsePath("#Plan"))

	unified := def.Unify(ctx.Encode(raw))
	if err := unified.Validate(cue.Concrete(false), cue.All()); err != nil {
		var issues []string
		for _, e := range cueerrors.Errors(err) {
			path := strings.Join(e.Path(), ".")
			msg := e.Error()
			if path != "" {
				msg = fmt.Sprintf("%s: %s", path, msg)
			}
			issues = append(issues, msg)
		}
		return issues
	}
	return nil
}

// Config converts the plan into the core's configuration.
func (p *Plan) Config() assign.Config {
	return assign.Config{
		Seed:              p.Seed,
		IDField:           p.IDField,
		StratifyFields:    append([]string(nil), p.StratifyFields...),
		SplitFraction:     p.SplitFraction,
		Arms:              append([]string(nil), p.Arms...),
		TwoKey:            p.TwoKey,
		AllowDuplicateIDs: p.AllowDuplicateIDs,
	}
}
