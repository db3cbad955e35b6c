package table

import (
	"fmt"
	"strconv"
)

// Cell is a sealed interface representing constrained cell value types.
// Only Null, String, Int, Float, and Bool implement it.
//
// Float exists because the pipeline itself emits uniform random keys; input
// identifiers and stratify keys should be String or Int. Comparison of ids
// and stratum keys always goes through Canon, never through raw floats.
type Cell interface {
	cell() // Sealed - only these types implement it
}

// Null represents a missing value. Missing stratify-key cells are valid and
// form their own stratum value.
type Null struct{}

func (Null) cell() {}

// String represents a text cell.
type String string

func (String) cell() {}

// Int represents an integer cell. Always int64.
type Int int64

func (Int) cell() {}

// Float represents a floating-point cell (random keys, numeric covariates).
type Float float64

func (Float) cell() {}

// Bool represents a boolean cell.
type Bool bool

func (Bool) cell() {}

// Render returns the canonical textual form of a cell.
//
// The rendering is total and deterministic: floats use the shortest
// round-trip decimal form (strconv 'g' with precision -1), which is identical
// on every platform; Null renders as the empty string. Strings are NFC
// normalized via Canon at comparison boundaries, not here, so that
// passthrough columns survive output unmodified.
func Render(c Cell) string {
	switch v := c.(type) {
	case Null:
		return ""
	case String:
		return string(v)
	case Int:
		return strconv.FormatInt(int64(v), 10)
	case Float:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	case Bool:
		if v {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		// Unreachable for sealed types; keep the panic loud for future edits.
		panic(fmt.Sprintf("table: unknown cell type %T", c))
	}
}

// IsNull reports whether the cell is missing.
func IsNull(c Cell) bool {
	switch c.(type) {
	case Null, nil:
		return true
	}
	return false
}
