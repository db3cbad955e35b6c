package store

import (
	"context"
	"fmt"
	"time"

	"github.com/trialware/stratify/internal/assign"
	"github.com/trialware/stratify/internal/audit"
	"github.com/trialware/stratify/internal/table"
)

// SaveRun persists a run manifest and its per-unit assignments atomically.
// The augmented table must carry the columns the pipeline appends; idField
// names the identifier column of the original dataset.
func (s *Store) SaveRun(ctx context.Context, m audit.Manifest, d *table.Dataset, idField string) error {
	manifestJSON, err := m.JSON()
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	defer tx.Rollback()

	var seed any
	if m.Seed != nil {
		seed = *m.Seed
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, created_at, seed, reproducible, id_field, manifest, input_digest, output_digest, unit_count, duplicate_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.RunID,
		m.CreatedAt.UTC().Format(time.RFC3339Nano),
		seed,
		m.Reproducible,
		m.IDField,
		string(manifestJSON),
		m.InputDigest,
		m.OutputDigest,
		m.Units,
		m.DuplicateIDs,
	)
	if err != nil {
		return fmt.Errorf("save run: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO assignments
		(run_id, unit_id, stratum, stratum_size, stratum_rank, arm, rand_key, rand_key2)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save run: prepare: %w", err)
	}
	defer stmt.Close()

	twoKey := d.HasColumn(assign.ColRandKey2)
	for i := 0; i < d.NumRows(); i++ {
		var key2 any
		if twoKey {
			if f, ok := d.Cell(i, assign.ColRandKey2).(table.Float); ok {
				key2 = float64(f)
			}
		}
		rank, _ := d.Cell(i, assign.ColStratumRank).(table.Int)
		size, _ := d.Cell(i, assign.ColStratumSize).(table.Int)
		key, _ := d.Cell(i, assign.ColRandKey).(table.Float)

		_, err = stmt.ExecContext(ctx,
			m.RunID,
			table.Canon(d.Cell(i, idField)),
			table.Render(d.Cell(i, assign.ColStratum)),
			int64(size),
			int64(rank),
			table.Render(d.Cell(i, assign.ColArm)),
			float64(key),
			key2,
		)
		if err != nil {
			return fmt.Errorf("save run: insert assignment %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run: commit: %w", err)
	}
	return nil
}
