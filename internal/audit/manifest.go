// Package audit records what a randomization run was: which config, which
// input, which output. Manifests are how a result is later verified —
// rerunning with the manifest's seed and config against the same input must
// reproduce the manifest's output digest.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/trialware/stratify/internal/assign"
	"github.com/trialware/stratify/internal/table"
)

// Manifest describes one randomization run.
//
// RunID is unique per invocation; OutputDigest is a pure function of
// (input, seed, config). Two runs with the same digest produced the same
// assignment even though their run ids differ.
type Manifest struct {
	RunID          string    `json:"run_id"`
	CreatedAt      time.Time `json:"created_at"`
	Seed           *int64    `json:"seed,omitempty"`
	Reproducible   bool      `json:"reproducible"`
	IDField        string    `json:"id_field"`
	StratifyFields []string  `json:"stratify_fields,omitempty"`
	SplitFraction  float64   `json:"split_fraction"`
	Arms           []string  `json:"arms"`
	TwoKey         bool      `json:"two_key"`
	Units          int       `json:"units"`
	Strata         int       `json:"strata"`
	DuplicateIDs   int       `json:"duplicate_ids"`
	Warnings       []string  `json:"warnings,omitempty"`
	InputDigest    string    `json:"input_digest"`
	OutputDigest   string    `json:"output_digest"`
}

// NewRunID generates a time-ordered unique run identifier.
// Uses UUIDv7 so run ids sort chronologically in the store.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// New builds the manifest for a completed run.
func New(cfg assign.Config, input *table.Dataset, res *assign.Result) Manifest {
	cfg = cfg.WithDefaults()
	warnings := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		warnings = append(warnings, w.Error())
	}
	return Manifest{
		RunID:          NewRunID(),
		CreatedAt:      time.Now().UTC(),
		Seed:           cfg.Seed,
		Reproducible:   res.Seeded,
		IDField:        cfg.IDField,
		StratifyFields: cfg.StratifyFields,
		SplitFraction:  cfg.SplitFraction,
		Arms:           cfg.Arms,
		TwoKey:         cfg.TwoKey,
		Units:          res.Table.NumRows(),
		Strata:         len(res.Strata),
		DuplicateIDs:   res.Duplicates.Count,
		Warnings:       warnings,
		InputDigest:    table.Digest(input),
		OutputDigest:   table.Digest(res.Table),
	}
}

// JSON serializes the manifest.
func (m Manifest) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
