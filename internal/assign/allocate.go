package assign

import (
	"math"

	"github.com/trialware/stratify/internal/table"
)

// Threshold maps a within-stratum rank and the stratum size to an arm label.
//
// Two arms: the first arm (treatment) gets ranks 1..floor(size*fraction).
// With the default 1/2 fraction and odd size the extra unit lands in the
// second arm (control), because the comparison is rank <= floor(size/2). A
// stratum of size 1 therefore assigns its single unit to control: rank 1 is
// not <= floor(0.5) = 0. This is a common surprise, not a bug.
//
// More than two arms split into equal shares: arm i (0-based) covers ranks
// floor(size*i/n)+1 .. floor(size*(i+1)/n). The configured fraction applies
// only to two-arm designs.
func Threshold(rank, size int, fraction float64, arms []string) string {
	if len(arms) == 2 {
		if rank <= int(math.Floor(float64(size)*fraction)) {
			return arms[0]
		}
		return arms[1]
	}
	n := len(arms)
	for i := 0; i < n-1; i++ {
		if rank <= size*(i+1)/n {
			return arms[i]
		}
	}
	return arms[n-1]
}

// Allocate applies the threshold rule per unit and appends the arm column.
// The rule uses only the stratum_rank and stratum_size columns, so every
// stratum is independently balanced to the target split; balance is
// guaranteed within strata, not merely in aggregate.
func Allocate(d *table.Dataset, fraction float64, arms []string) (*table.Dataset, error) {
	for _, col := range []string{ColStratumRank, ColStratumSize} {
		if !d.HasColumn(col) {
			return nil, NewMissingFieldError(col)
		}
	}

	n := d.NumRows()
	labels := make([]table.Cell, n)
	for i := 0; i < n; i++ {
		rank, _ := d.Cell(i, ColStratumRank).(table.Int)
		size, _ := d.Cell(i, ColStratumSize).(table.Int)
		labels[i] = table.String(Threshold(int(rank), int(size), fraction, arms))
	}
	return d.WithColumn(ColArm, labels)
}
