package table

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canon returns the canonical comparison form of a cell: its rendered text,
// NFC normalized.
//
// Identifiers and stratum keys are compared through this form so that
// visually identical identifiers with different Unicode encodings (combining
// marks vs precomposed characters) sort and group identically on every run
// and every machine. Null canonicalizes to the empty string, which is why a
// missing stratify value forms its own valid stratum.
func Canon(c Cell) string {
	return norm.NFC.String(Render(c))
}

// CompareCanon orders two cells by their canonical form using plain byte
// comparison of the NFC string. The ordering is total, stable across
// platforms, and has no locale dependence.
func CompareCanon(a, b Cell) int {
	return strings.Compare(Canon(a), Canon(b))
}
