package codec

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/trialware/stratify/internal/table"
)

// WriteCSV writes the dataset as headered CSV. Cells are emitted in their
// canonical rendering (table.Render), so the same dataset always produces
// the same bytes.
func WriteCSV(w io.Writer, d *table.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Columns()); err != nil {
		return fmt.Errorf("codec: write header: %w", err)
	}
	record := make([]string, d.NumCols())
	for i := 0; i < d.NumRows(); i++ {
		for j, c := range d.Row(i) {
			record[j] = table.Render(c)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("codec: write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the dataset as CSV to path, creating or truncating it.
func WriteFile(path string, d *table.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("codec: create %s: %w", path, err)
	}
	if err := WriteCSV(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
