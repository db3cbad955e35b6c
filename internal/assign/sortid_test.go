package assign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialware/stratify/internal/table"
)

func buildDataset(t *testing.T, cols []string, rows ...[]table.Cell) *table.Dataset {
	t.Helper()
	d, err := table.New(cols)
	require.NoError(t, err)
	for _, r := range rows {
		require.NoError(t, d.AppendRow(r))
	}
	return d
}

func idColumn(t *testing.T, d *table.Dataset, field string) []string {
	t.Helper()
	out := make([]string, d.NumRows())
	for i := range out {
		out[i] = table.Render(d.Cell(i, field))
	}
	return out
}

func TestSortByID_CanonicalOrder(t *testing.T) {
	d := buildDataset(t, []string{"school_id"},
		[]table.Cell{table.String("s03")},
		[]table.Cell{table.String("s01")},
		[]table.Cell{table.String("s02")},
	)

	sorted, dup, err := SortByID(d, "school_id")
	require.NoError(t, err)
	assert.Equal(t, 0, dup.Count)
	assert.Equal(t, []string{"s01", "s02", "s03"}, idColumn(t, sorted, "school_id"))

	// Input untouched.
	assert.Equal(t, "s03", table.Render(d.Cell(0, "school_id")))
}

func TestSortByID_NFCEquivalentIDsCollide(t *testing.T) {
	// Same identifier in precomposed and combining form counts as a duplicate.
	d := buildDataset(t, []string{"id"},
		[]table.Cell{table.String("café")},
		[]table.Cell{table.String("café")},
	)

	_, dup, err := SortByID(d, "id")
	require.NoError(t, err)
	assert.Equal(t, 1, dup.Count)
}

func TestSortByID_DuplicateCensus(t *testing.T) {
	// B appears twice, C three times: surplus rows = 1 + 2 = 3.
	d := buildDataset(t, []string{"id"},
		[]table.Cell{table.String("C")},
		[]table.Cell{table.String("B")},
		[]table.Cell{table.String("A")},
		[]table.Cell{table.String("C")},
		[]table.Cell{table.String("B")},
		[]table.Cell{table.String("C")},
	)

	_, dup, err := SortByID(d, "id")
	require.NoError(t, err)
	assert.Equal(t, 3, dup.Count)
	assert.Equal(t, []string{"B", "C"}, dup.IDs)
}

func TestSortByID_MissingFieldFatal(t *testing.T) {
	d := buildDataset(t, []string{"id"}, []table.Cell{table.String("A")})

	_, _, err := SortByID(d, "school_id")
	require.Error(t, err)
	assert.True(t, IsMissingField(err))
}

func TestSortByID_IntegerIDsUseCanonicalForm(t *testing.T) {
	d := buildDataset(t, []string{"id"},
		[]table.Cell{table.Int(10)},
		[]table.Cell{table.Int(2)},
	)

	sorted, _, err := SortByID(d, "id")
	require.NoError(t, err)
	// Canonical form is textual: "10" < "2".
	assert.Equal(t, []string{"10", "2"}, idColumn(t, sorted, "id"))
}
