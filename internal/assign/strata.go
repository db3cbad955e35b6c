package assign

import (
	"sort"
	"strings"

	"github.com/trialware/stratify/internal/table"
)

// stratumKeySep joins canonical key values into a composite map key. Unit
// separator cannot collide with rendered cell content in practice; the
// display label uses "|" instead.
const stratumKeySep = "\x1f"

// ImplicitStratumLabel is the display label of the single stratum used when
// no stratify fields are configured.
const ImplicitStratumLabel = "all"

// Stratum is the set of row indices sharing identical stratify-key values.
type Stratum struct {
	// Key is the composite canonical key (internal identity).
	Key string

	// Label is the display form: canonical values joined with "|", or
	// ImplicitStratumLabel when there is no stratification. A missing value
	// contributes an empty segment; it is a valid stratum value, not an
	// error.
	Label string

	// Rows are indices into the dataset, in dataset (id-sorted) order.
	Rows []int
}

// Partition splits the dataset into strata defined by the cross-product of
// the stratify fields. An empty field list yields a single stratum holding
// every unit.
//
// Invariants: the union of all strata is the full dataset, strata are
// pairwise disjoint, and no unit is dropped or duplicated regardless of
// missing values. Strata are returned ordered by composite key so the
// partition itself is deterministic.
func Partition(d *table.Dataset, fields []string) ([]Stratum, error) {
	for _, f := range fields {
		if !d.HasColumn(f) {
			return nil, NewMissingFieldError(f)
		}
	}

	n := d.NumRows()
	if len(fields) == 0 {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		return []Stratum{{Key: "", Label: ImplicitStratumLabel, Rows: rows}}, nil
	}

	byKey := make(map[string]*Stratum)
	for i := 0; i < n; i++ {
		parts := make([]string, len(fields))
		for j, f := range fields {
			parts[j] = table.Canon(d.Cell(i, f))
		}
		key := strings.Join(parts, stratumKeySep)
		s, ok := byKey[key]
		if !ok {
			s = &Stratum{Key: key, Label: strings.Join(parts, "|")}
			byKey[key] = s
		}
		s.Rows = append(s.Rows, i)
	}

	out := make([]Stratum, 0, len(byKey))
	for _, s := range byKey {
		out = append(out, *s)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Key < out[b].Key })
	return out, nil
}
