package codec

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialware/stratify/internal/table"
)

const fixtureCSV = "school_id,language,enrollment\ns01,en,200\ns02,fr,150\ns03,en,95\n"

func TestReadCSV_ColumnsAndTypes(t *testing.T) {
	d, err := ReadCSV(strings.NewReader(fixtureCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"school_id", "language", "enrollment"}, d.Columns())
	require.Equal(t, 3, d.NumRows())

	assert.Equal(t, "s01", table.Render(d.Cell(0, "school_id")))
	assert.Equal(t, "fr", table.Render(d.Cell(1, "language")))
	// Integral numeric column renders without a fractional part.
	assert.Equal(t, "95", table.Render(d.Cell(2, "enrollment")))
}

func TestReadCSV_EmptyCellIsNull(t *testing.T) {
	d, err := ReadCSV(strings.NewReader("school_id,language\ns01,en\ns02,\n"))
	require.NoError(t, err)

	assert.False(t, table.IsNull(d.Cell(0, "language")))
	assert.True(t, table.IsNull(d.Cell(1, "language")))
}

func TestWriteCSV_CanonicalBytes(t *testing.T) {
	d, err := table.New([]string{"id", "key"})
	require.NoError(t, err)
	require.NoError(t, d.AppendRow([]table.Cell{table.String("A"), table.Float(0.25)}))
	require.NoError(t, d.AppendRow([]table.Cell{table.String("B"), table.Null{}}))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, d))
	assert.Equal(t, "id,key\nA,0.25\nB,\n", buf.String())

	var again bytes.Buffer
	require.NoError(t, WriteCSV(&again, d))
	assert.Equal(t, buf.Bytes(), again.Bytes(), "same dataset, same bytes")
}

func TestCSV_RoundTrip(t *testing.T) {
	d, err := table.New([]string{"school_id", "language"})
	require.NoError(t, err)
	require.NoError(t, d.AppendRow([]table.Cell{table.String("s01"), table.String("en")}))
	require.NoError(t, d.AppendRow([]table.Cell{table.String("s02"), table.String("fr")}))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, d))

	back, err := ReadCSV(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, d.Columns(), back.Columns())
	require.Equal(t, d.NumRows(), back.NumRows())
	for i := 0; i < d.NumRows(); i++ {
		for _, col := range d.Columns() {
			assert.Equal(t,
				table.Render(d.Cell(i, col)),
				table.Render(back.Cell(i, col)),
				"row %d col %s", i, col)
		}
	}
}

func TestRead_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schools.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o644))

	d, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 3, d.NumRows())
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestRead_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schools.parquet")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := Read(path)
	require.Error(t, err)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeUnsupported, le.Code)
}

func TestWriteFile_CreatesReadableCSV(t *testing.T) {
	d, err := table.New([]string{"id"})
	require.NoError(t, err)
	require.NoError(t, d.AppendRow([]table.Cell{table.String("A")}))

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteFile(path, d))

	back, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 1, back.NumRows())
}
