package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/trialware/stratify/internal/audit"
	"github.com/trialware/stratify/internal/table"
)

// GetRun loads the manifest of a stored run.
func (s *Store) GetRun(ctx context.Context, runID string) (*audit.Manifest, error) {
	var manifestJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT manifest FROM runs WHERE id = ?`, runID,
	).Scan(&manifestJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	var m audit.Manifest
	if err := json.Unmarshal([]byte(manifestJSON), &m); err != nil {
		return nil, fmt.Errorf("get run: decode manifest: %w", err)
	}
	return &m, nil
}

// ListRuns returns manifests of all stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]audit.Manifest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT manifest FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []audit.Manifest
	for rows.Next() {
		var manifestJSON string
		if err := rows.Scan(&manifestJSON); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		var m audit.Manifest
		if err := json.Unmarshal([]byte(manifestJSON), &m); err != nil {
			return nil, fmt.Errorf("list runs: decode manifest: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// LoadAssignments reads the per-unit assignments of a run back as a dataset,
// ordered by unit id. Column layout mirrors what SaveRun stored.
func (s *Store) LoadAssignments(ctx context.Context, runID string) (*table.Dataset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT unit_id, stratum, stratum_size, stratum_rank, arm, rand_key, rand_key2
		FROM assignments WHERE run_id = ? ORDER BY unit_id, stratum, stratum_rank
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	defer rows.Close()

	d, err := table.New([]string{
		"unit_id", "stratum", "stratum_size", "stratum_rank", "arm", "rand_key", "rand_key2",
	})
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var (
			unitID, stratum, arm string
			size, rank           int64
			key                  float64
			key2                 sql.NullFloat64
		)
		if err := rows.Scan(&unitID, &stratum, &size, &rank, &arm, &key, &key2); err != nil {
			return nil, fmt.Errorf("load assignments: %w", err)
		}
		key2Cell := table.Cell(table.Null{})
		if key2.Valid {
			key2Cell = table.Float(key2.Float64)
		}
		err = d.AppendRow([]table.Cell{
			table.String(unitID),
			table.String(stratum),
			table.Int(size),
			table.Int(rank),
			table.String(arm),
			table.Float(key),
			key2Cell,
		})
		if err != nil {
			return nil, err
		}
	}
	return d, rows.Err()
}
