package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsDuplicateColumn(t *testing.T) {
	_, err := New([]string{"id", "lang", "id"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column")
}

func TestNew_RejectsEmptyColumnName(t *testing.T) {
	_, err := New([]string{"id", ""})
	require.Error(t, err)
}

func TestAppendRow_ArityChecked(t *testing.T) {
	d, err := New([]string{"id", "lang"})
	require.NoError(t, err)

	err = d.AppendRow([]Cell{String("A")})
	require.Error(t, err)

	err = d.AppendRow([]Cell{String("A"), String("en")})
	require.NoError(t, err)
	assert.Equal(t, 1, d.NumRows())
}

func TestAppendRow_NilBecomesNull(t *testing.T) {
	d, err := New([]string{"id", "lang"})
	require.NoError(t, err)
	require.NoError(t, d.AppendRow([]Cell{String("A"), nil}))

	assert.True(t, IsNull(d.Cell(0, "lang")))
}

func TestReorder_IsPure(t *testing.T) {
	d, err := New([]string{"id"})
	require.NoError(t, err)
	for _, id := range []string{"C", "A", "B"} {
		require.NoError(t, d.AppendRow([]Cell{String(id)}))
	}

	out, err := d.Reorder([]int{1, 2, 0})
	require.NoError(t, err)

	// New dataset is permuted.
	assert.Equal(t, "A", Render(out.Cell(0, "id")))
	assert.Equal(t, "B", Render(out.Cell(1, "id")))
	assert.Equal(t, "C", Render(out.Cell(2, "id")))

	// Receiver untouched.
	assert.Equal(t, "C", Render(d.Cell(0, "id")))
}

func TestReorder_RejectsNonPermutation(t *testing.T) {
	d, err := New([]string{"id"})
	require.NoError(t, err)
	require.NoError(t, d.AppendRow([]Cell{String("A")}))
	require.NoError(t, d.AppendRow([]Cell{String("B")}))

	_, err = d.Reorder([]int{0, 0})
	require.Error(t, err, "repeated index is not a permutation")

	_, err = d.Reorder([]int{0})
	require.Error(t, err, "wrong length")
}

func TestWithColumn_AppendsWithoutMutating(t *testing.T) {
	d, err := New([]string{"id"})
	require.NoError(t, err)
	require.NoError(t, d.AppendRow([]Cell{String("A")}))
	require.NoError(t, d.AppendRow([]Cell{String("B")}))

	out, err := d.WithColumn("rank", []Cell{Int(1), Int(2)})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "rank"}, out.Columns())
	assert.Equal(t, "2", Render(out.Cell(1, "rank")))
	assert.Equal(t, []string{"id"}, d.Columns())

	_, err = d.WithColumn("id", []Cell{Int(0), Int(0)})
	require.Error(t, err, "existing column must be rejected")
}

func TestRender_Canonical(t *testing.T) {
	assert.Equal(t, "", Render(Null{}))
	assert.Equal(t, "school-7", Render(String("school-7")))
	assert.Equal(t, "-42", Render(Int(-42)))
	assert.Equal(t, "0.5", Render(Float(0.5)))
	assert.Equal(t, "true", Render(Bool(true)))
}

func TestCanon_NFCNormalizes(t *testing.T) {
	// U+00E9 (é precomposed) vs U+0065 U+0301 (e + combining acute).
	precomposed := String("café")
	combining := String("café")

	assert.Equal(t, Canon(precomposed), Canon(combining))
	assert.Equal(t, 0, CompareCanon(precomposed, combining))
}

func TestCompareCanon_TotalOrder(t *testing.T) {
	assert.Negative(t, CompareCanon(String("A"), String("B")))
	assert.Positive(t, CompareCanon(String("B"), String("A")))
	assert.Equal(t, 0, CompareCanon(Int(7), String("7")), "canonical form compares across types")
}

func TestDigest_StableAndOrderSensitive(t *testing.T) {
	build := func(ids []string) *Dataset {
		d, err := New([]string{"id"})
		require.NoError(t, err)
		for _, id := range ids {
			require.NoError(t, d.AppendRow([]Cell{String(id)}))
		}
		return d
	}

	a := build([]string{"A", "B"})
	b := build([]string{"A", "B"})
	c := build([]string{"B", "A"})

	assert.Equal(t, Digest(a), Digest(b), "same content, same digest")
	assert.NotEqual(t, Digest(a), Digest(c), "row order is part of identity")
}
