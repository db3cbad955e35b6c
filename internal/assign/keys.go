package assign

import (
	"github.com/trialware/stratify/internal/rng"
	"github.com/trialware/stratify/internal/table"
)

// AttachKeys draws one uniform random key per unit (two when secondary is
// non-nil) and appends them as rand_key / rand_key2 columns.
//
// The dataset must already be in canonical id order: the mapping from
// id-order position to draw-sequence position is the reproducibility
// contract. All primary keys are drawn first, one per row in row order, then
// all secondary keys from their own independent stream, so enabling two-key
// mode does not perturb the primary sequence.
func AttachKeys(d *table.Dataset, primary, secondary *rng.Source) (*table.Dataset, error) {
	n := d.NumRows()

	keys := make([]table.Cell, n)
	for i := 0; i < n; i++ {
		keys[i] = table.Float(primary.Draw())
	}
	out, err := d.WithColumn(ColRandKey, keys)
	if err != nil {
		return nil, err
	}

	if secondary == nil {
		return out, nil
	}

	keys2 := make([]table.Cell, n)
	for i := 0; i < n; i++ {
		keys2[i] = table.Float(secondary.Draw())
	}
	return out.WithColumn(ColRandKey2, keys2)
}
