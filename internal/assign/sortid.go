package assign

import (
	"slices"
	"strings"

	"github.com/trialware/stratify/internal/table"
)

// DuplicateReport describes a non-unique identifier column.
type DuplicateReport struct {
	// Count is the number of surplus rows: total rows minus distinct ids.
	// Zero means the column is unique.
	Count int

	// IDs lists the duplicated identifier values in canonical order.
	IDs []string
}

// SortByID orders the dataset by the canonical form of the identifier column
// and reports duplicate identifiers.
//
// The ordering is the baseline for everything downstream: random keys are
// drawn in this order, so it must be total, stable, and identical on every
// machine. Comparison is byte order over the NFC-normalized rendering of the
// id cell, with the original row position as the stable tie-break for
// duplicated ids.
//
// A non-zero duplicate report is not an error here; the caller decides
// whether to abort. Missing id column is fatal.
func SortByID(d *table.Dataset, idField string) (*table.Dataset, *DuplicateReport, error) {
	if !d.HasColumn(idField) {
		return nil, nil, NewMissingFieldError(idField)
	}

	n := d.NumRows()
	canon := make([]string, n)
	for i := 0; i < n; i++ {
		canon[i] = table.Canon(d.Cell(i, idField))
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	slices.SortStableFunc(perm, func(a, b int) int {
		return strings.Compare(canon[a], canon[b])
	})

	sorted, err := d.Reorder(perm)
	if err != nil {
		return nil, nil, err
	}

	report := duplicateCensus(canon, perm)
	return sorted, report, nil
}

// duplicateCensus walks the sorted permutation and counts surplus rows.
func duplicateCensus(canon []string, perm []int) *DuplicateReport {
	report := &DuplicateReport{}
	for i := 1; i < len(perm); i++ {
		id := canon[perm[i]]
		if id != canon[perm[i-1]] {
			continue
		}
		report.Count++
		if len(report.IDs) == 0 || report.IDs[len(report.IDs)-1] != id {
			report.IDs = append(report.IDs, id)
		}
	}
	return report
}
