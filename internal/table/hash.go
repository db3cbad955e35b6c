package table

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefix for content-addressed dataset identity.
// Version suffix enables future algorithm migration.
const DomainDataset = "stratify/dataset/v1"

// Cell and row separators for the canonical byte form. Unit separator and
// newline cannot be confused with rendered cell content boundaries because
// every cell is length-delimited by them in a fixed grid.
const (
	cellSep = 0x1f // ASCII unit separator
	rowSep  = 0x0a
)

// MarshalCanonical serializes a dataset to its canonical byte form: the
// header row followed by every data row, cells in column order, each cell in
// its Canon form. Two datasets with equal columns, rows, and cell values
// produce identical bytes regardless of how they were constructed.
func MarshalCanonical(d *Dataset) []byte {
	var buf bytes.Buffer
	for i, c := range d.cols {
		if i > 0 {
			buf.WriteByte(cellSep)
		}
		buf.WriteString(Canon(String(c)))
	}
	buf.WriteByte(rowSep)
	for _, row := range d.rows {
		for i, c := range row {
			if i > 0 {
				buf.WriteByte(cellSep)
			}
			buf.WriteString(Canon(c))
		}
		buf.WriteByte(rowSep)
	}
	return buf.Bytes()
}

// Digest computes the SHA-256 content digest of a dataset with domain
// separation. Format: SHA256(domain + 0x00 + canonical bytes). The null byte
// separator prevents domain/data boundary ambiguity.
func Digest(d *Dataset) string {
	h := sha256.New()
	h.Write([]byte(DomainDataset))
	h.Write([]byte{0x00})
	h.Write(MarshalCanonical(d))
	return hex.EncodeToString(h.Sum(nil))
}
