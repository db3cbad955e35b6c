// Package assign implements the randomization core: seeded random-number
// draws, stable identifier ordering, tie-broken random ranking, stratum
// partitioning, within-stratum rank assignment, and threshold allocation of
// units to experimental arms.
//
// The pipeline is a pure, single-pass computation over a table.Dataset:
//
//	raw table → SortByID → AttachKeys → Partition → AssignRanks → Allocate
//
// Each stage returns a new dataset; nothing is sorted or mutated in place.
// Determinism is the central invariant: the same dataset, seed, and config
// produce byte-identical output on any run, on any machine. Random keys are
// drawn in canonical id order, never in input order, which is what makes key
// generation replicable.
//
// I/O is not this package's concern. Loading (codec, store) and persistence
// happen strictly before and after Run.
package assign
