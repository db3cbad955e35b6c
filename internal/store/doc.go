// Package store persists randomization runs to SQLite.
//
// It is an external collaborator of the core: the pipeline returns an
// in-memory table, and SaveRun writes that table plus its audit manifest in
// one transaction. Stored runs are immutable; verification re-runs the
// pipeline and compares output digests instead of mutating rows.
package store
