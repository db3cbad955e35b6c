package assign

import (
	"slices"
	"strings"

	"github.com/trialware/stratify/internal/table"
)

// AssignRanks orders each stratum by random key and appends the stratum
// label, stratum size, and within-stratum rank columns.
//
// Ordering within a stratum is: primary random key, then secondary key when
// present, then canonical id. The id fallback makes the order total even if
// both uniform keys collide exactly. Ranks are dense 1..size with no gaps; a
// unit's rank depends only on its own stratum's members, never on the global
// dataset. Stratum size is recorded once per stratum and copied onto every
// member.
func AssignRanks(d *table.Dataset, strata []Stratum, idField string) (*table.Dataset, error) {
	if !d.HasColumn(ColRandKey) {
		return nil, NewMissingFieldError(ColRandKey)
	}
	twoKey := d.HasColumn(ColRandKey2)

	n := d.NumRows()
	labels := make([]table.Cell, n)
	sizes := make([]table.Cell, n)
	ranks := make([]table.Cell, n)

	key := func(row int, col string) float64 {
		f, _ := d.Cell(row, col).(table.Float)
		return float64(f)
	}

	for _, s := range strata {
		members := append([]int(nil), s.Rows...)
		slices.SortFunc(members, func(a, b int) int {
			ka, kb := key(a, ColRandKey), key(b, ColRandKey)
			if ka != kb {
				if ka < kb {
					return -1
				}
				return 1
			}
			if twoKey {
				ka2, kb2 := key(a, ColRandKey2), key(b, ColRandKey2)
				if ka2 != kb2 {
					if ka2 < kb2 {
						return -1
					}
					return 1
				}
			}
			return strings.Compare(
				table.Canon(d.Cell(a, idField)),
				table.Canon(d.Cell(b, idField)),
			)
		})

		size := len(members)
		for r, row := range members {
			labels[row] = table.String(s.Label)
			sizes[row] = table.Int(int64(size))
			ranks[row] = table.Int(int64(r + 1))
		}
	}

	out, err := d.WithColumn(ColStratum, labels)
	if err != nil {
		return nil, err
	}
	out, err = out.WithColumn(ColStratumSize, sizes)
	if err != nil {
		return nil, err
	}
	return out.WithColumn(ColStratumRank, ranks)
}
