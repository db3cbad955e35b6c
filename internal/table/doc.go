// Package table provides the in-memory tabular dataset the randomization
// pipeline operates on.
//
// A Dataset is an ordered set of named columns and an ordered set of rows.
// Cells are constrained to a sealed set of value types (Null, String, Int,
// Float, Bool) so that every cell has exactly one canonical textual
// rendering. Canonical rendering is what makes output byte-reproducible:
// identifiers and stratum keys are compared through their NFC-normalized
// canonical form, and the dataset digest is computed over canonical bytes.
//
// Datasets are treated as immutable inputs by the pipeline. Operations that
// reorder or extend a dataset (Reorder, WithColumn) return a new Dataset and
// leave the receiver untouched.
package table
