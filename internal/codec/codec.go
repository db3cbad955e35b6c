// Package codec loads datasets from files and writes augmented tables back.
//
// Reading goes through github.com/kshedden/datareader, which handles CSV
// with type inference and the Stata dta format (the native format of much of
// the field-experiment tooling this pipeline replaces). Writing is CSV only;
// cells are emitted in their canonical rendering so written output is
// byte-reproducible.
//
// This package is an external collaborator of the randomization core: it
// runs strictly before and after internal/assign, never inside it.
package codec

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/kshedden/datareader"

	"github.com/trialware/stratify/internal/table"
)

// Load error codes.
const (
	ErrCodeNotFound    = "L001" // Dataset file not found
	ErrCodeUnsupported = "L002" // Unrecognized file extension
	ErrCodeParse       = "L003" // Reader failed to parse the file
	ErrCodeEmpty       = "L004" // Dataset has no columns or no rows
)

// LoadError is a coded dataset loading failure.
type LoadError struct {
	Code    string
	Path    string
	Message string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a missing-file load error.
func IsNotFound(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Code == ErrCodeNotFound
}

// Read loads a dataset from path, dispatching on the file extension.
// Supported: .csv, .dta.
func Read(path string) (*table.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "dataset file not found"}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: err.Error()}
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".dta":
		return ReadDTA(f)
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Path:    path,
			Message: fmt.Sprintf("unsupported dataset format %q (want .csv or .dta)", filepath.Ext(path)),
		}
	}
}

// ReadCSV loads a headered CSV stream, inferring column types.
func ReadCSV(r io.Reader) (*table.Dataset, error) {
	rdr := datareader.NewCSVReader(r)
	rdr.HasHeader = true
	series, err := rdr.Read(-1)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("csv: %v", err)}
	}
	return fromSeries(series)
}

// ReadDTA loads a Stata dta stream. Categorical codes are replaced with
// their value labels so stratify keys group by label, not by numeric code.
func ReadDTA(r io.ReadSeeker) (*table.Dataset, error) {
	rdr, err := datareader.NewStataReader(r)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("dta: %v", err)}
	}
	rdr.InsertCategoryLabels = true
	series, err := rdr.Read(-1)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("dta: %v", err)}
	}
	return fromSeries(series)
}

// fromSeries converts datareader column Series into a row-oriented Dataset.
func fromSeries(series []*datareader.Series) (*table.Dataset, error) {
	if len(series) == 0 {
		return nil, &LoadError{Code: ErrCodeEmpty, Message: "dataset has no columns"}
	}

	cols := make([]string, len(series))
	cells := make([][]table.Cell, len(series))
	nrows := -1
	for j, ser := range series {
		cols[j] = ser.Name
		col, err := seriesCells(ser)
		if err != nil {
			return nil, err
		}
		if nrows == -1 {
			nrows = len(col)
		} else if len(col) != nrows {
			return nil, &LoadError{
				Code:    ErrCodeParse,
				Message: fmt.Sprintf("column %q has %d rows, want %d", ser.Name, len(col), nrows),
			}
		}
		cells[j] = col
	}
	if nrows == 0 {
		return nil, &LoadError{Code: ErrCodeEmpty, Message: "dataset has no rows"}
	}

	d, err := table.New(cols)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: err.Error()}
	}
	row := make([]table.Cell, len(cols))
	for i := 0; i < nrows; i++ {
		for j := range cols {
			row[j] = cells[j][i]
		}
		if err := d.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// seriesCells converts one Series to cells, preserving the missing mask.
// Numeric columns with only integral values become Int cells so identifiers
// like 200 render as "200", not "200.0" artifacts.
func seriesCells(ser *datareader.Series) ([]table.Cell, error) {
	if vals, missing, err := ser.AsFloat64Slice(); err == nil {
		out := make([]table.Cell, len(vals))
		integral := true
		for i, v := range vals {
			if missing != nil && missing[i] {
				continue
			}
			if v != math.Trunc(v) || math.Abs(v) >= 1<<53 {
				integral = false
			}
		}
		for i, v := range vals {
			switch {
			case missing != nil && missing[i]:
				out[i] = table.Null{}
			case integral:
				out[i] = table.Int(int64(v))
			default:
				out[i] = table.Float(v)
			}
		}
		return out, nil
	}

	vals, missing, err := ser.AsStringSlice()
	if err != nil {
		return nil, &LoadError{
			Code:    ErrCodeParse,
			Message: fmt.Sprintf("column %q: unsupported cell type: %v", ser.Name, err),
		}
	}
	out := make([]table.Cell, len(vals))
	for i, v := range vals {
		// CSV has no missing marker beyond the empty cell; treat it as Null so
		// missing stratify values form their own stratum regardless of format.
		if (missing != nil && missing[i]) || v == "" {
			out[i] = table.Null{}
			continue
		}
		out[i] = table.String(v)
	}
	return out, nil
}
